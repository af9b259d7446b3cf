// Package testsupport provides shared helpers for constructing configs and
// stores inside tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"recipekit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = filepath.Join(base, "workspace")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ExportDir = filepath.Join(base, "exports")
	cfg.Paths.StaticBase = filepath.Join(base, "published")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithStaticBase overrides the published-content base on the test config.
func WithStaticBase(base string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.StaticBase = base
	}
}

// WithMaxSizeMiB overrides the per-asset size ceiling on the test config.
func WithMaxSizeMiB(mib int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Assets.MaxSizeMiB = mib
	}
}
