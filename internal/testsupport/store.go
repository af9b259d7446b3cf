package testsupport

import (
	"testing"

	"recipekit/internal/assetdb"
	"recipekit/internal/config"
)

// MustOpenAssetDB opens an assetdb.Store for tests and registers cleanup.
func MustOpenAssetDB(t testing.TB, cfg *config.Config) *assetdb.Store {
	t.Helper()

	store, err := assetdb.Open(cfg)
	if err != nil {
		t.Fatalf("open asset database: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close asset database: %v", err)
		}
	})
	return store
}
