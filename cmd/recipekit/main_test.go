package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recipekit/internal/broadcast"
	"recipekit/internal/kvstore"
	"recipekit/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite must refuse.
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected error on existing config without --overwrite")
	}
}

func TestImportExportStatusFlow(t *testing.T) {
	env := setupCLITestEnv(t)

	archive := writeArchive(t, map[string][]byte{
		"pasta/recipe.json": []byte(`{
			"id": "pasta-1",
			"title": "Pasta Carbonara",
			"category": ["cooking"],
			"steps": [{
				"label": "Boil",
				"config": [],
				"media": [{"type": "image", "url": "images/boil-water-image.png"}]
			}]
		}`),
		"pasta/images/boil-water-image.png": testsupport.PNGBytes(9),
	})

	out, _, err := runCLI(t, []string{"import", archive}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "imported: 1")
	requireContains(t, out, "missing: 0")

	exportPath := filepath.Join(t.TempDir(), "out.zip")
	out, _, err = runCLI(t, []string{"export", "--output", exportPath}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "Folders: 1")
	if _, err := os.Stat(exportPath); err != nil {
		t.Fatalf("expected archive at %s: %v", exportPath, err)
	}

	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Workspace documents")
	requireContains(t, out, "1")
}

func TestImportPublishesChangeBroadcast(t *testing.T) {
	env := setupCLITestEnv(t)

	archive := writeArchive(t, map[string][]byte{
		"bread/recipe.json": []byte(`{"id":"bread-1","title":"Bread","category":["baking"]}`),
	})

	if _, _, err := runCLI(t, []string{"import", archive}, env.configPath); err != nil {
		t.Fatalf("import: %v", err)
	}

	// A watcher in another process reads the durable copy of the broadcast
	// envelope from the file backend; importing must have written one.
	local := kvstore.NewFileBackend(env.cfg.KVDir())
	data, ok, err := local.Get(context.Background(), "recipekit.broadcast")
	if err != nil || !ok {
		t.Fatalf("broadcast envelope not written: ok=%v err=%v", ok, err)
	}
	var envelope broadcast.Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("parse envelope: %v", err)
	}
	if envelope.Timestamp.IsZero() {
		t.Fatal("envelope carries no timestamp")
	}
	if !strings.Contains(string(envelope.Payload), `"import"`) {
		t.Fatalf("unexpected payload: %s", envelope.Payload)
	}
}

func TestGCRunsOnEmptyStore(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"gc", "--max-age", "30"}, env.configPath)
	if err != nil {
		t.Fatalf("gc: %v", err)
	}
	requireContains(t, out, "Total deleted: 0")
}

func TestExportWithEmptyWorkspaceFails(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"export"}, env.configPath); err == nil {
		t.Fatal("expected error when the workspace holds no documents")
	}
}
