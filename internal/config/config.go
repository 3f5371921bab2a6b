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

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	IndexFile string `toml:"index_file"`
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
	APIBind   string `toml:"api_bind"`
	APIToken  string `toml:"api_token"`
}

// Source selects where index and record files are fetched from.
type Source struct {
	Kind           string `toml:"kind"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Quiz contains quiz-mode persistence settings.
type Quiz struct {
	StorageKey    string   `toml:"storage_key"`
	DefaultHidden []string `toml:"default_hidden"`
}

// Render contains configuration for the external molecule drawing tool.
type Render struct {
	Command        string   `toml:"command"`
	Args           []string `toml:"args"`
	Width          int      `toml:"width"`
	Height         int      `toml:"height"`
	Theme          string   `toml:"theme"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Viewer contains configuration for server-side view sessions.
type Viewer struct {
	IdleTimeoutMinutes int `toml:"idle_timeout_minutes"`
}

// Cache contains configuration for the in-memory index cache.
type Cache struct {
	IndexTTLSeconds int `toml:"index_ttl_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for OpenSynth.
//
// Configuration sections by subsystem:
//   - Paths: data root, index file, state/log directories and API bind address
//   - Source: filesystem or HTTP origin for index and record files
//   - Quiz: quiz settings storage key and first-run defaults
//   - Render: external structure drawing command
//   - Viewer: idle expiry for view sessions
//   - Cache: index refresh interval
//   - Logging: log format, level, and retention
type Config struct {
	Paths   Paths   `toml:"paths"`
	Source  Source  `toml:"source"`
	Quiz    Quiz    `toml:"quiz"`
	Render  Render  `toml:"render"`
	Viewer  Viewer  `toml:"viewer"`
	Cache   Cache   `toml:"cache"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
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

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("opensynth.toml")
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

// EnsureDirectories creates the state and log directories. The data directory
// is never created: a missing data root is reported by the catalog as
// unavailable data rather than silently replaced by an empty one.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// IndexPath returns the absolute filesystem path of the index file.
func (c *Config) IndexPath() string {
	return filepath.Join(c.Paths.DataDir, filepath.FromSlash(c.Paths.IndexFile))
}

// IndexLocator returns the index file as a root-relative locator.
func (c *Config) IndexLocator() string {
	return "/" + strings.TrimPrefix(filepath.ToSlash(c.Paths.IndexFile), "/")
}

// SettingsDBPath returns the location of the quiz settings database.
func (c *Config) SettingsDBPath() string {
	return filepath.Join(c.Paths.StateDir, "settings.db")
}

// UsesHTTPSource reports whether records are fetched over HTTP.
func (c *Config) UsesHTTPSource() bool {
	return c.Source.Kind == SourceHTTP
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
