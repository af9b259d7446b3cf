package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recipekit/internal/config"
)

func TestLoadAppliesDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Storage.KeyPrefix != "recipekit." {
		t.Fatalf("unexpected key prefix: %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Assets.MaxSizeMiB != 5 {
		t.Fatalf("unexpected max size: %d", cfg.Assets.MaxSizeMiB)
	}
	if got := cfg.Storage.BackendOrder; len(got) != 3 || got[0] != "file" {
		t.Fatalf("unexpected backend order: %v", got)
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
workspace_dir = "` + filepath.Join(dir, "ws") + `"
static_base = "https://recipes.example.com/content"

[assets]
max_size_mib = 2
allowed_image_types = [".PNG", "jpg"]

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s, got %s exists=%v", path, resolved, exists)
	}
	if !filepath.IsAbs(cfg.Paths.WorkspaceDir) {
		t.Fatalf("workspace dir not absolute: %q", cfg.Paths.WorkspaceDir)
	}
	if !cfg.StaticBaseIsHTTP() {
		t.Fatal("expected http static base")
	}
	if cfg.Assets.MaxSizeMiB != 2 {
		t.Fatalf("unexpected max size: %d", cfg.Assets.MaxSizeMiB)
	}
	if got := cfg.Assets.AllowedImageTypes; got[0] != "png" || got[1] != "jpg" {
		t.Fatalf("extensions not normalized: %v", got)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected level: %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[storage]
backend_order = ["file", "redis"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "redis") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}

func TestLoadRejectsBadLoggingFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for bad logging format")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config did not load: exists=%v err=%v", exists, err)
	}
}
