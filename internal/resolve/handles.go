package resolve

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// HandleSet manages temp-file preview handles for resolved assets. A handle
// is a file path the UI layer can hand to an external viewer; handles must be
// released when the preview goes away, and ReleaseAll reclaims everything at
// shutdown. Re-acquiring a key replaces its previous handle.
type HandleSet struct {
	mu      sync.Mutex
	dir     string
	handles map[string]string
}

// NewHandleSet creates a handle set writing preview files under dir. An empty
// dir falls back to the system temp directory.
func NewHandleSet(dir string) *HandleSet {
	if dir == "" {
		dir = os.TempDir()
	}
	return &HandleSet{dir: dir, handles: make(map[string]string)}
}

// Acquire writes data to a preview file for key and returns its path. Any
// previous handle for the same key is released first.
func (h *HandleSet) Acquire(key, ext string, data []byte) (string, error) {
	if key == "" {
		return "", fmt.Errorf("acquire preview: key is empty")
	}
	ext = strings.TrimPrefix(ext, ".")

	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.handles[key]; ok {
		_ = os.Remove(prev)
		delete(h.handles, key)
	}

	pattern := "recipekit-preview-" + key + "-*"
	if ext != "" {
		pattern += "." + ext
	}
	file, err := os.CreateTemp(h.dir, pattern)
	if err != nil {
		return "", fmt.Errorf("create preview file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		_ = os.Remove(file.Name())
		return "", fmt.Errorf("write preview file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return "", fmt.Errorf("close preview file: %w", err)
	}

	h.handles[key] = file.Name()
	return file.Name(), nil
}

// Release removes the preview file for key. Releasing an unknown key is a
// no-op.
func (h *HandleSet) Release(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if path, ok := h.handles[key]; ok {
		_ = os.Remove(path)
		delete(h.handles, key)
	}
}

// ReleaseAll removes every live preview file.
func (h *HandleSet) ReleaseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key, path := range h.handles {
		_ = os.Remove(path)
		delete(h.handles, key)
	}
}

// LiveCount returns the number of outstanding handles.
func (h *HandleSet) LiveCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handles)
}

// Path returns the live handle path for key, if any.
func (h *HandleSet) Path(key string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	path, ok := h.handles[key]
	return path, ok
}
