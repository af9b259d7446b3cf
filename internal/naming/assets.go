package naming

import (
	"fmt"
	"strings"
)

// StepImageKey derives the storage key for a new image attached to a
// walkthrough step. The base form is <category>-<stepLabel>-image; taken is
// the set of keys the document currently references, and a numeric suffix is
// appended until the key is free. Uniqueness is judged against the document
// only, never the global store, so keys freed by renames become reusable.
func StepImageKey(category, stepLabel string, taken map[string]struct{}) string {
	base := Sanitize(category, AssetNameMax, assetFallback) +
		"-" + Sanitize(stepLabel, AssetNameMax, assetFallback) +
		"-image"
	return uniquify(base, taken)
}

// GeneralImageKey derives the storage key for an image not tied to any step:
// general-image, general-image-2, ...
func GeneralImageKey(taken map[string]struct{}) string {
	return uniquify("general-image", taken)
}

func uniquify(base string, taken map[string]struct{}) string {
	if _, exists := taken[base]; !exists {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, exists := taken[candidate]; !exists {
			return candidate
		}
	}
}

// FolderAllocator hands out unique export folder names for one export run.
// Collisions are resolved against the names already allocated by this
// allocator, independent of the asset namespace.
type FolderAllocator struct {
	taken map[string]struct{}
}

// NewFolderAllocator creates an empty allocator for a single export run.
func NewFolderAllocator() *FolderAllocator {
	return &FolderAllocator{taken: make(map[string]struct{})}
}

// Allocate returns the folder id for a document title and reserves it.
func (a *FolderAllocator) Allocate(title string) string {
	name := uniquify(Sanitize(title, FolderNameMax, FolderFallback), a.taken)
	a.taken[name] = struct{}{}
	return name
}

// AssetRef is the derived (storage key, relative path) pair for a media URL.
type AssetRef struct {
	Key     string
	RelPath string
}

const imagesPrefix = "images/"

// AssetRefFromURL recognizes the two persisted URL shapes and reduces both to
// the same storage reference:
//
//	images/<name>.<ext>                      (storage-relative)
//	.../<folderId>/images/<name>.<ext>       (previously export-transformed)
//
// Returns false for anything else (external URLs, videos hosted elsewhere).
func AssetRefFromURL(url string) (AssetRef, bool) {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return AssetRef{}, false
	}

	var rel string
	switch {
	case strings.HasPrefix(trimmed, imagesPrefix):
		rel = trimmed
	default:
		idx := strings.LastIndex(trimmed, "/"+imagesPrefix)
		if idx < 0 {
			return AssetRef{}, false
		}
		rel = trimmed[idx+1:]
	}

	name := strings.TrimPrefix(rel, imagesPrefix)
	if name == "" || strings.Contains(name, "/") {
		return AssetRef{}, false
	}
	key := name
	if dot := strings.LastIndex(name, "."); dot > 0 {
		key = name[:dot]
	}
	return AssetRef{Key: key, RelPath: rel}, true
}

// IsStorageRelative reports whether url has the storage-relative shape
// images/<name>.<ext>.
func IsStorageRelative(url string) bool {
	trimmed := strings.TrimSpace(url)
	if !strings.HasPrefix(trimmed, imagesPrefix) {
		return false
	}
	name := strings.TrimPrefix(trimmed, imagesPrefix)
	return name != "" && !strings.Contains(name, "/")
}

// StorageRelativeURL builds the canonical persisted URL for a storage key and
// file extension.
func StorageRelativeURL(key, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return imagesPrefix + key
	}
	return imagesPrefix + key + "." + ext
}
