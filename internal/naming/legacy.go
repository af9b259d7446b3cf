package naming

// legacyFolderRemap maps folder ids whose published directories were renamed
// after their documents shipped. These are one-off historical facts, not a
// pattern: any newly discovered mismatch gets a new entry here rather than
// additional sanitization logic.
var legacyFolderRemap = map[string]string{
	"sourdough-basics":   "sourdough-starter-basics",
	"knife-skills-101":   "knife-skills",
	"cold-brew-two-ways": "cold-brew",
	"weeknight-pad-thai": "pad-thai",
}

// RemapFolderID returns the published directory name for a folder id,
// applying the legacy rename table. The second return reports whether a remap
// fired, so callers can flag the legacy hit in logs.
func RemapFolderID(folderID string) (string, bool) {
	if mapped, ok := legacyFolderRemap[folderID]; ok {
		return mapped, true
	}
	return folderID, false
}
