package importer_test

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"recipekit/internal/export"
	"recipekit/internal/importer"
	"recipekit/internal/recipe"
	"recipekit/internal/resolve"
	"recipekit/internal/testsupport"
)

func makeArchive(t *testing.T, files map[string][]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "archive.zip")
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	zw := zip.NewWriter(out)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func TestImportExportRoundTrip(t *testing.T) {
	ctx := context.Background()

	srcCfg := testsupport.NewConfig(t)
	src := testsupport.MustOpenAssetDB(t, srcCfg)
	imageBytes := testsupport.PNGBytes(7)
	if err := src.Images().Put(ctx, "boil-water-image", imageBytes); err != nil {
		t.Fatalf("put image: %v", err)
	}
	payload := []byte(`{"name":"timer"}`)
	if err := src.Payloads().Put(ctx, "timer.json", payload); err != nil {
		t.Fatalf("put payload: %v", err)
	}

	doc := recipe.Document{
		ID:         "doc-1",
		Title:      "Pasta Carbonara",
		Categories: recipe.CategoryList{"cooking"},
		Steps: []recipe.WalkthroughStep{
			{
				Label: "Boil",
				Media: []recipe.MediaItem{
					{Type: recipe.MediaImage, URL: "images/boil-water-image.png"},
				},
			},
		},
		Executables: []recipe.Executable{{Name: "Timer", File: "timer.json"}},
	}

	exporter := export.NewExporter(resolve.NewResolver(src.Images(), nil, nil), src.Payloads(), srcCfg.Paths.ExportDir, nil)
	out := filepath.Join(t.TempDir(), "out.zip")
	if _, err := exporter.Export(ctx, export.Request{Documents: []recipe.Document{doc}, OutputPath: out}); err != nil {
		t.Fatalf("export: %v", err)
	}

	dstCfg := testsupport.NewConfig(t)
	dst := testsupport.MustOpenAssetDB(t, dstCfg)
	imp := importer.NewImporter(dst, dstCfg, nil)

	result, err := imp.Import(ctx, out)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 1 || result.Attempted != 1 || result.SkippedInvalid != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	got := result.Documents[0]
	if got.Title != doc.Title || got.Categories.Primary() != "cooking" || got.StepCount() != 1 {
		t.Fatalf("manifest fields lost: %+v", got)
	}
	if got.Steps[0].Media[0].URL != "images/boil-water-image.png" {
		t.Fatalf("media URL not storage-relative: %q", got.Steps[0].Media[0].URL)
	}

	restored, err := dst.Images().Get(ctx, "boil-water-image")
	if err != nil {
		t.Fatalf("get restored image: %v", err)
	}
	if string(restored) != string(imageBytes) {
		t.Fatal("image bytes did not survive the round trip")
	}
	restoredPayload, err := dst.Payloads().Get(ctx, "timer.json")
	if err != nil {
		t.Fatalf("get restored payload: %v", err)
	}
	if string(restoredPayload) != string(payload) {
		t.Fatal("payload did not survive the round trip")
	}
}

func TestImportSkipsInactiveFolders(t *testing.T) {
	manifest := []byte(`{"id":"a","title":"A","category":["cooking"]}`)
	archive := makeArchive(t, map[string][]byte{
		"live/recipe.json":   manifest,
		"staged/recipe.json": []byte(`{"id":"b","title":"B","category":["baking"]}`),
		"index.json":         []byte(`{"recipes":[{"folderId":"live","active":true},{"folderId":"staged","active":false}]}`),
	})

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenAssetDB(t, cfg)
	result, err := importer.NewImporter(store, cfg, nil).Import(context.Background(), archive)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 1 || result.SkippedInactive != 1 || result.Attempted != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Documents[0].ID != "a" {
		t.Fatalf("wrong document imported: %+v", result.Documents)
	}
}

func TestImportWithoutCatalogTreatsAllActive(t *testing.T) {
	archive := makeArchive(t, map[string][]byte{
		"one/recipe.json": []byte(`{"id":"1","title":"One","category":["cooking"]}`),
		"two/recipe.json": []byte(`{"id":"2","title":"Two","category":["baking"]}`),
	})

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenAssetDB(t, cfg)
	result, err := importer.NewImporter(store, cfg, nil).Import(context.Background(), archive)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 2 || result.SkippedInactive != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestImportSkipsInvalidAndJunk(t *testing.T) {
	archive := makeArchive(t, map[string][]byte{
		"good/recipe.json":            []byte(`{"id":"g","title":"Good","category":["cooking"]}`),
		"bad-category/recipe.json":    []byte(`{"id":"x","title":"X","category":"astrology"}`),
		"no-manifest/images/a.png":    testsupport.PNGBytes(1),
		"__MACOSX/good/recipe.json":   []byte("resource fork noise"),
		"good/.DS_Store":              []byte{0},
		"good/images/._shadow.png":    []byte{0},
		"DEPLOYMENT_INSTRUCTIONS.txt": []byte("note"),
	})

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenAssetDB(t, cfg)
	result, err := importer.NewImporter(store, cfg, nil).Import(context.Background(), archive)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 1 || result.SkippedInvalid != 2 || result.Attempted != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	// Junk must not leak into the store.
	ids, err := store.Images().ListIDs(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("unexpected stored images: %v", ids)
	}
}

func TestImportRejectsDisallowedImageTypes(t *testing.T) {
	archive := makeArchive(t, map[string][]byte{
		"tools/recipe.json":     []byte(`{"id":"t","title":"Tools","category":["cooking"]}`),
		"tools/images/evil.exe": []byte("mz"),
		"tools/images/good.png": testsupport.PNGBytes(2),
		"tools/images/noext":    []byte("bytes"),
	})

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenAssetDB(t, cfg)
	result, err := importer.NewImporter(store, cfg, nil).Import(context.Background(), archive)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	ids, err := store.Images().ListIDs(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 1 || ids[0] != "good" {
		t.Fatalf("expected only the allowed image, got %v", ids)
	}
}

func TestIntegrityReport(t *testing.T) {
	ctx := context.Background()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenAssetDB(t, cfg)

	if err := store.Images().Put(ctx, "present-image", testsupport.PNGBytes(1)); err != nil {
		t.Fatalf("put: %v", err)
	}

	docs := []recipe.Document{
		{
			ID: "a",
			Steps: []recipe.WalkthroughStep{
				{Media: []recipe.MediaItem{
					{Type: recipe.MediaImage, URL: "images/present-image.png"},
					{Type: recipe.MediaImage, URL: "images/ghost.png"},
				}},
			},
		},
	}

	report, err := importer.IntegrityReport(ctx, docs, store.Images())
	if err != nil {
		t.Fatalf("integrity report: %v", err)
	}
	if report.TotalImages != 2 || report.MissingCount != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.MissingImages) != 1 || report.MissingImages[0] != "images/ghost.png" {
		t.Fatalf("unexpected missing list: %v", report.MissingImages)
	}
}
