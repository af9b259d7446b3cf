package config

const (
	defaultWorkspaceDir = "~/.local/share/recipekit/workspace"
	defaultLogDir       = "~/.local/share/recipekit/logs"
	defaultExportDir    = "~/recipekit-exports"
	defaultKeyPrefix    = "recipekit."
	defaultMaxSizeMiB   = 5
	defaultGCMaxAgeDays = 90
	defaultPollInterval = 3
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

func defaultBackendOrder() []string {
	return []string{"file", "memory", "sqlite"}
}

func defaultImageTypes() []string {
	return []string{"png", "jpg", "jpeg", "gif", "webp", "svg"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			LogDir:       defaultLogDir,
			ExportDir:    defaultExportDir,
		},
		Storage: Storage{
			BackendOrder: defaultBackendOrder(),
			KeyPrefix:    defaultKeyPrefix,
		},
		Assets: Assets{
			MaxSizeMiB:        defaultMaxSizeMiB,
			AllowedImageTypes: defaultImageTypes(),
			GCMaxAgeDays:      defaultGCMaxAgeDays,
		},
		Broadcast: Broadcast{
			PollInterval: defaultPollInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
