package naming

import "strings"

const (
	// AssetNameMax caps a sanitized asset name segment.
	AssetNameMax = 30
	// FolderNameMax caps a sanitized export folder name.
	FolderNameMax = 50
	// FolderFallback is the placeholder for titles that sanitize to nothing.
	FolderFallback = "unnamed-folder"
	// assetFallback is the placeholder for asset name parts that sanitize to
	// nothing.
	assetFallback = "untitled"
)

// Sanitize converts value to a lowercase hyphenated token: characters outside
// [A-Za-z0-9 _-] are dropped, whitespace runs become single hyphens, repeated
// hyphens collapse, leading/trailing hyphens are trimmed, and the result is
// truncated to max bytes. An empty result yields fallback.
func Sanitize(value string, max int, fallback string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n':
			b.WriteByte('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}

	out := b.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	out = strings.Trim(out, "-")
	if max > 0 && len(out) > max {
		out = strings.Trim(out[:max], "-")
	}
	if out == "" {
		return fallback
	}
	return out
}

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName strips filesystem-unsafe characters from a filename while
// otherwise preserving it verbatim. Used for downloadable-executable files
// whose original names must survive import.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}
