package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileBackend is the durable small-object store: one JSON envelope file per
// key under a single directory. Writes go through a temp file plus rename so
// a crash never leaves a half-written envelope behind.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a backend rooted at dir. The directory is created
// lazily by the availability probe and the first write.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (f *FileBackend) Name() string { return "file" }

// Available probes by creating the directory and writing a marker file.
// A read-only or quota-exhausted filesystem fails the probe.
func (f *FileBackend) Available() bool {
	if strings.TrimSpace(f.dir) == "" {
		return false
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return false
	}
	probe := filepath.Join(f.dir, ".probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return false
	}
	_ = os.Remove(probe)
	return true
}

func (f *FileBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := f.keyPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read entry %q: %w", key, err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		// A corrupt envelope is unrecoverable; treat as absent and clear it.
		_ = os.Remove(path)
		return nil, false, nil
	}
	if env.Expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return env.Value, true, nil
}

func (f *FileBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("ensure kv directory: %w", err)
	}
	env := Envelope{
		Value:     value,
		StoredAt:  time.Now(),
		TTLMillis: ttl.Milliseconds(),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope for %q: %w", key, err)
	}

	path := f.keyPath(key)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("write entry %q: %w", key, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("replace entry %q: %w", key, err)
	}
	return nil
}

func (f *FileBackend) Remove(_ context.Context, key string) error {
	err := os.Remove(f.keyPath(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove entry %q: %w", key, err)
	}
	return nil
}

// EntryPath returns the backing file for key. Exposed so the broadcast
// subscriber can watch the durable counterpart of its well-known key.
func (f *FileBackend) EntryPath(key string) string {
	return f.keyPath(key)
}

func (f *FileBackend) keyPath(key string) string {
	return filepath.Join(f.dir, encodeKey(key)+".json")
}

// encodeKey maps a storage key to a safe file name. Keys are dotted
// identifiers; anything outside [A-Za-z0-9._-] becomes '_'.
func encodeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
