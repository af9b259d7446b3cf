package importer

import (
	"context"
	"sort"

	"recipekit/internal/assetdb"
	"recipekit/internal/recipe"
)

// Report summarizes image reference integrity after an import: how many
// distinct images the documents reference, and which of those are absent from
// the asset store.
type Report struct {
	TotalImages   int
	MissingImages []string
	MissingCount  int
}

// IntegrityReport checks every recognized image reference across docs against
// the image partition. Missing references are listed by storage-relative URL,
// sorted.
func IntegrityReport(ctx context.Context, docs []recipe.Document, images *assetdb.Partition) (Report, error) {
	refs := make(map[string]string)
	for _, doc := range docs {
		for _, ref := range doc.ImageRefs() {
			refs[ref.Key] = ref.RelPath
		}
	}

	report := Report{TotalImages: len(refs)}
	for key, relPath := range refs {
		exists, err := images.Exists(ctx, key)
		if err != nil {
			return Report{}, err
		}
		if !exists {
			report.MissingImages = append(report.MissingImages, relPath)
		}
	}
	sort.Strings(report.MissingImages)
	report.MissingCount = len(report.MissingImages)
	return report, nil
}
