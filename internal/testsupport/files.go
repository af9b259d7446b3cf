package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// PNGBytes returns a tiny but structurally valid PNG header payload, enough
// for byte-identity assertions without a real encoder.
func PNGBytes(seed byte) []byte {
	return []byte{
		0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n',
		0x00, 0x00, 0x00, 0x00, seed,
	}
}

// WriteFile creates path (and parent directories) with the given content.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
