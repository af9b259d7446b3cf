package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"recipekit/internal/assetdb"
	"recipekit/internal/config"
	"recipekit/internal/kvstore"
	"recipekit/internal/logging"
	"recipekit/internal/workspace"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// stores bundles the wired storage stack for one command invocation.
type stores struct {
	cfg    *config.Config
	assets *assetdb.Store
	local  *kvstore.FileBackend
	facade *kvstore.Facade
	ws     *workspace.Workspace
	logger *slog.Logger
}

func (s *stores) Close() {
	if s.assets != nil {
		if err := s.assets.Close(); err != nil {
			s.logger.Warn("close asset store", logging.Error(err))
		}
	}
}

// openStores wires the asset database, the storage façade over all three
// backends, and the workspace on top of it.
func (c *commandContext) openStores() (*stores, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	assets, err := assetdb.Open(cfg)
	if err != nil {
		return nil, err
	}

	local := kvstore.NewFileBackend(cfg.KVDir())
	facade, ok := kvstore.NewFacade(
		cfg.Storage.BackendOrder,
		local,
		kvstore.NewMemoryBackend(),
		kvstore.NewSQLiteBackend(assets.DB()),
		logger,
	)
	if !ok {
		assets.Close()
		return nil, fmt.Errorf("no storage backend available; check permissions on %s", cfg.Paths.WorkspaceDir)
	}

	return &stores{
		cfg:    cfg,
		assets: assets,
		local:  local,
		facade: facade,
		ws:     workspace.New(facade, cfg, logger),
		logger: logger,
	}, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func isTerminal(f *os.File) bool {
	return f != nil && isattyCheck(f.Fd())
}
