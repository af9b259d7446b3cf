package config

import (
	"errors"
	"fmt"
)

var knownBackends = map[string]struct{}{
	"file":   {},
	"memory": {},
	"sqlite": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateAssets(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkspaceDir == "" {
		return errors.New("paths.workspace_dir must be set")
	}
	if c.Paths.ExportDir == "" {
		return errors.New("paths.export_dir must be set")
	}
	return nil
}

func (c *Config) validateStorage() error {
	for _, name := range c.Storage.BackendOrder {
		if _, ok := knownBackends[name]; !ok {
			return fmt.Errorf("storage.backend_order: unknown backend %q", name)
		}
	}
	return nil
}

func (c *Config) validateAssets() error {
	if c.Assets.MaxSizeMiB > 64 {
		return fmt.Errorf("assets.max_size_mib: %d exceeds the 64 MiB ceiling", c.Assets.MaxSizeMiB)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
