package assetdb

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxFileSizeMiB is the default per-asset size ceiling.
const MaxFileSizeMiB = 5

// ValidationResult is the structured outcome of an upload check. Callers
// branch on Valid instead of catching errors.
type ValidationResult struct {
	Valid bool
	Err   string
}

// ValidateFileType checks the file name's extension against the allow-list.
// Extensions in allowed are compared without dots, case-insensitively.
func ValidateFileType(name string, allowed []string) ValidationResult {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return ValidationResult{Err: fmt.Sprintf("file %q has no extension", name)}
	}
	for _, candidate := range allowed {
		if ext == strings.ToLower(strings.TrimPrefix(candidate, ".")) {
			return ValidationResult{Valid: true}
		}
	}
	return ValidationResult{Err: fmt.Sprintf("file type %q is not allowed", ext)}
}

// ValidateFileSize checks the byte count against a ceiling in MiB. A
// non-positive maxMiB falls back to MaxFileSizeMiB.
func ValidateFileSize(size int64, maxMiB int) ValidationResult {
	if maxMiB <= 0 {
		maxMiB = MaxFileSizeMiB
	}
	limit := int64(maxMiB) << 20
	if size <= 0 {
		return ValidationResult{Err: "file is empty"}
	}
	if size > limit {
		return ValidationResult{Err: fmt.Sprintf("file size %d exceeds the %d MiB limit", size, maxMiB)}
	}
	return ValidationResult{Valid: true}
}
