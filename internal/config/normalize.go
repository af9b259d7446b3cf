package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStorage()
	c.normalizeAssets()
	c.normalizeBroadcast()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	// The static base may be an URL; only expand filesystem paths.
	if c.Paths.StaticBase != "" && !c.StaticBaseIsHTTP() {
		if c.Paths.StaticBase, err = expandPath(c.Paths.StaticBase); err != nil {
			return fmt.Errorf("paths.static_base: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeStorage() {
	if len(c.Storage.BackendOrder) == 0 {
		c.Storage.BackendOrder = defaultBackendOrder()
	}
	for i, name := range c.Storage.BackendOrder {
		c.Storage.BackendOrder[i] = strings.ToLower(strings.TrimSpace(name))
	}
	if strings.TrimSpace(c.Storage.KeyPrefix) == "" {
		c.Storage.KeyPrefix = defaultKeyPrefix
	}
}

func (c *Config) normalizeAssets() {
	if c.Assets.MaxSizeMiB <= 0 {
		c.Assets.MaxSizeMiB = defaultMaxSizeMiB
	}
	if len(c.Assets.AllowedImageTypes) == 0 {
		c.Assets.AllowedImageTypes = defaultImageTypes()
	}
	for i, ext := range c.Assets.AllowedImageTypes {
		c.Assets.AllowedImageTypes[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	}
	if c.Assets.GCMaxAgeDays <= 0 {
		c.Assets.GCMaxAgeDays = defaultGCMaxAgeDays
	}
}

func (c *Config) normalizeBroadcast() {
	if c.Broadcast.PollInterval <= 0 {
		c.Broadcast.PollInterval = defaultPollInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
