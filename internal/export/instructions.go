package export

import (
	"fmt"
	"sort"
	"strings"

	"recipekit/internal/naming"
	"recipekit/internal/recipe"
)

// deploymentInstructions renders the operator note packaged at the archive
// root. It lists the packaged folders and the steps to publish them.
func deploymentInstructions(docs []recipe.Document, folders map[string]string) []byte {
	type line struct {
		folder string
		title  string
	}
	lines := make([]line, 0, len(docs))
	for _, doc := range docs {
		folder := folders[doc.ID]
		title := strings.TrimSpace(doc.Title)
		if title == "" {
			title = naming.DisplayTitle(folder)
		}
		lines = append(lines, line{folder: folder, title: title})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].folder < lines[j].folder })

	var b strings.Builder
	b.WriteString("DEPLOYMENT INSTRUCTIONS\n")
	b.WriteString("=======================\n\n")
	b.WriteString("This archive contains the following recipe folders:\n\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "  %s/  (%s)\n", l.folder, l.title)
	}
	b.WriteString("\nTo deploy:\n\n")
	b.WriteString("  1. Unpack the archive into the site content directory, one\n")
	b.WriteString("     subdirectory per recipe folder.\n")
	b.WriteString("  2. Merge index.json with the site catalog. Entries marked\n")
	b.WriteString("     \"active\": false are staged but not listed.\n")
	b.WriteString("  3. Each folder's recipe.json is the manifest; images/ and\n")
	b.WriteString("     downloadExecutables/ hold its assets with paths relative\n")
	b.WriteString("     to the folder root.\n")
	b.WriteString("  4. Re-deploying the same folder replaces it wholesale; do not\n")
	b.WriteString("     merge folder contents across deploys.\n")
	return []byte(b.String())
}
