package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// WorkspaceDir holds the edited-document store, the asset database, and
	// the workspace lock file.
	WorkspaceDir string `toml:"workspace_dir"`
	LogDir       string `toml:"log_dir"`
	// ExportDir is where export archives are written by default.
	ExportDir string `toml:"export_dir"`
	// StaticBase is the originally-published site content: either a local
	// directory or an http(s) base URL. Used as the second tier of asset
	// resolution.
	StaticBase string `toml:"static_base"`
}

// Storage contains unified storage façade settings.
type Storage struct {
	// BackendOrder is the availability probe order. Valid entries: "file",
	// "memory", "sqlite".
	BackendOrder []string `toml:"backend_order"`
	// KeyPrefix namespaces every key this subsystem writes.
	KeyPrefix string `toml:"key_prefix"`
}

// Assets contains asset store limits and garbage collection settings.
type Assets struct {
	// MaxSizeMiB is the per-asset size ceiling.
	MaxSizeMiB int `toml:"max_size_mib"`
	// AllowedImageTypes is the image extension allow-list (without dots).
	AllowedImageTypes []string `toml:"allowed_image_types"`
	// GCMaxAgeDays is the default age cutoff for `recipekit gc`.
	GCMaxAgeDays int `toml:"gc_max_age_days"`
}

// Broadcast contains cross-process change signaling settings.
type Broadcast struct {
	// PollInterval is the subscriber poll cadence in seconds.
	PollInterval int `toml:"poll_interval"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for recipekit.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Storage   Storage   `toml:"storage"`
	Assets    Assets    `toml:"assets"`
	Broadcast Broadcast `toml:"broadcast"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/recipekit/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. The second return is the
// resolved path and the third reports whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("recipekit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories recipekit needs to operate.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkspaceDir, c.Paths.LogDir, c.Paths.ExportDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// AssetDBPath returns the path of the asset database inside the workspace.
func (c *Config) AssetDBPath() string {
	return filepath.Join(c.Paths.WorkspaceDir, "assets.db")
}

// KVDir returns the directory backing the durable small-object store.
func (c *Config) KVDir() string {
	return filepath.Join(c.Paths.WorkspaceDir, "kv")
}

// LockPath returns the workspace lock file path.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.WorkspaceDir, "workspace.lock")
}

// StaticBaseIsHTTP reports whether the static base is an http(s) URL rather
// than a local directory.
func (c *Config) StaticBaseIsHTTP() bool {
	base := strings.ToLower(strings.TrimSpace(c.Paths.StaticBase))
	return strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
