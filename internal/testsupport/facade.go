package testsupport

import (
	"os"
	"testing"

	"recipekit/internal/config"
	"recipekit/internal/kvstore"
)

// NewFacade builds a storage façade over file and memory backends rooted in
// the test config's workspace. The sqlite class is left unwired; blob-class
// writes exercise the local fallback.
func NewFacade(t testing.TB, cfg *config.Config) *kvstore.Facade {
	t.Helper()

	if err := os.MkdirAll(cfg.KVDir(), 0o755); err != nil {
		t.Fatalf("create kv dir: %v", err)
	}
	facade, ok := kvstore.NewFacade(
		cfg.Storage.BackendOrder,
		kvstore.NewFileBackend(cfg.KVDir()),
		kvstore.NewMemoryBackend(),
		nil,
		nil,
	)
	if !ok {
		t.Fatal("no storage backend available for test facade")
	}
	return facade
}
