package workspace_test

import (
	"context"
	"testing"

	"recipekit/internal/recipe"
	"recipekit/internal/testsupport"
	"recipekit/internal/workspace"
)

func newWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return workspace.New(testsupport.NewFacade(t, cfg), cfg, nil)
}

func TestSaveAssignsIDAndIndexes(t *testing.T) {
	ws := newWorkspace(t)
	ctx := context.Background()

	doc := recipe.Document{Title: "Pasta Carbonara", Categories: recipe.CategoryList{"cooking"}}
	id, ok := ws.SaveDocument(ctx, &doc)
	if !ok || id == "" {
		t.Fatalf("save failed: id=%q ok=%v", id, ok)
	}
	if doc.ID != id {
		t.Fatalf("id not assigned on the document: %q vs %q", doc.ID, id)
	}

	loaded, ok := ws.LoadDocument(ctx, id)
	if !ok || loaded.Title != "Pasta Carbonara" {
		t.Fatalf("load failed: %+v ok=%v", loaded, ok)
	}

	ids := ws.DocumentIDs(ctx)
	if len(ids) != 1 || ids[0] != id {
		t.Fatalf("unexpected index: %v", ids)
	}

	// Re-saving the same document must not duplicate the index entry.
	if _, ok := ws.SaveDocument(ctx, &doc); !ok {
		t.Fatal("re-save failed")
	}
	if ids := ws.DocumentIDs(ctx); len(ids) != 1 {
		t.Fatalf("index duplicated: %v", ids)
	}
}

func TestSaveCleansDocument(t *testing.T) {
	ws := newWorkspace(t)
	ctx := context.Background()

	doc := recipe.Document{
		Title: "Bread",
		Steps: []recipe.WalkthroughStep{
			{
				Label:       "Knead",
				CustomLabel: "Knead well",
				Media: []recipe.MediaItem{{
					Type:       recipe.MediaImage,
					URL:        "https://recipes.example.com/content/bread/images/knead-image.png",
					DisplayURL: "file:///tmp/preview.png",
				}},
			},
		},
	}
	id, ok := ws.SaveDocument(ctx, &doc)
	if !ok {
		t.Fatal("save failed")
	}

	loaded, _ := ws.LoadDocument(ctx, id)
	if loaded.Steps[0].Label != "Knead well" {
		t.Fatalf("custom label not folded: %q", loaded.Steps[0].Label)
	}
	if loaded.Steps[0].Media[0].URL != "images/knead-image.png" {
		t.Fatalf("URL not normalized: %q", loaded.Steps[0].Media[0].URL)
	}
	if loaded.Steps[0].Media[0].DisplayURL != "" {
		t.Fatal("display URL must not be persisted")
	}
}

func TestDeleteDocument(t *testing.T) {
	ws := newWorkspace(t)
	ctx := context.Background()

	doc := recipe.Document{Title: "A"}
	id, _ := ws.SaveDocument(ctx, &doc)
	other := recipe.Document{Title: "B"}
	otherID, _ := ws.SaveDocument(ctx, &other)

	if !ws.DeleteDocument(ctx, id) {
		t.Fatal("delete reported failure")
	}
	if _, ok := ws.LoadDocument(ctx, id); ok {
		t.Fatal("deleted document still loadable")
	}
	ids := ws.DocumentIDs(ctx)
	if len(ids) != 1 || ids[0] != otherID {
		t.Fatalf("unexpected index after delete: %v", ids)
	}
}

func TestListDocumentsSkipsGhostIndexEntries(t *testing.T) {
	ws := newWorkspace(t)
	ctx := context.Background()

	a := recipe.Document{Title: "A"}
	b := recipe.Document{Title: "B"}
	ws.SaveDocument(ctx, &a)
	ws.SaveDocument(ctx, &b)

	docs := ws.ListDocuments(ctx)
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
}

func TestTabSnapshotIsSessionScoped(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	facade := testsupport.NewFacade(t, cfg)
	ws := workspace.New(facade, cfg, nil)
	ctx := context.Background()

	if !ws.SaveTabSnapshot(ctx, []byte(`{"open":["doc-1"]}`)) {
		t.Fatal("snapshot save failed")
	}
	snap, ok := ws.TabSnapshot(ctx)
	if !ok || string(snap) != `{"open":["doc-1"]}` {
		t.Fatalf("snapshot mismatch: %q ok=%v", snap, ok)
	}

	// A second workspace over a fresh façade (new process) must not see the
	// session-scoped snapshot.
	other := workspace.New(testsupport.NewFacade(t, cfg), cfg, nil)
	if _, ok := other.TabSnapshot(ctx); ok {
		t.Fatal("session snapshot leaked across facades")
	}
}

func TestActiveOverrides(t *testing.T) {
	ws := newWorkspace(t)
	ctx := context.Background()

	if overrides := ws.ActiveOverrides(ctx); len(overrides) != 0 {
		t.Fatalf("expected empty overrides, got %v", overrides)
	}
	if !ws.SetActiveOverride(ctx, "doc-1", false) {
		t.Fatal("set override failed")
	}
	overrides := ws.ActiveOverrides(ctx)
	if active, ok := overrides["doc-1"]; !ok || active {
		t.Fatalf("override not stored: %v", overrides)
	}
}

func TestClearAll(t *testing.T) {
	ws := newWorkspace(t)
	ctx := context.Background()

	doc := recipe.Document{Title: "A"}
	id, _ := ws.SaveDocument(ctx, &doc)
	ws.SetActiveOverride(ctx, id, false)
	ws.SaveTabSnapshot(ctx, []byte("snap"))

	ws.ClearAll(ctx)

	if _, ok := ws.LoadDocument(ctx, id); ok {
		t.Fatal("document survived ClearAll")
	}
	if ids := ws.DocumentIDs(ctx); len(ids) != 0 {
		t.Fatalf("index survived ClearAll: %v", ids)
	}
	if _, ok := ws.TabSnapshot(ctx); ok {
		t.Fatal("tab snapshot survived ClearAll")
	}
	if overrides := ws.ActiveOverrides(ctx); len(overrides) != 0 {
		t.Fatalf("overrides survived ClearAll: %v", overrides)
	}
}

func TestWorkspaceLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	facade := testsupport.NewFacade(t, cfg)

	first := workspace.New(facade, cfg, nil)
	if err := first.Lock(); err != nil {
		t.Fatalf("first lock: %v", err)
	}
	defer first.Unlock()

	second := workspace.New(facade, cfg, nil)
	if err := second.Lock(); err == nil {
		second.Unlock()
		t.Fatal("second lock must fail while the first is held")
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if err := second.Lock(); err != nil {
		t.Fatalf("relock after release: %v", err)
	}
	second.Unlock()
}
