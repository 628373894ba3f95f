package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the tool configuration written to config.yml.
type Config struct {
	VehiclesDir string         `yaml:"vehicles_dir"`
	DataDir     string         `yaml:"data_dir"`
	ModsPath    string         `yaml:"mods_path"`
	Log         LogConfig      `yaml:"log"`
	Update      UpdateConfig   `yaml:"update"`
	Generate    GenerateConfig `yaml:"generate"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type UpdateConfig struct {
	Enabled       bool   `yaml:"enabled"`
	VersionURL    string `yaml:"version_url"`
	RepositoryURL string `yaml:"repository_url"`
}

// GenerateConfig tunes mod generation.
type GenerateConfig struct {
	// WorkDir holds temporary build trees; empty means the system temp dir.
	WorkDir string `yaml:"work_dir,omitempty"`
	// Listen is the default address for the websocket progress feed.
	Listen string `yaml:"listen,omitempty"`
}

// Default returns the configuration used when no config file exists.
// Relative directories resolve against the working directory.
func Default() *Config {
	versionURL, repoURL := DefaultUpdateURLs()
	return &Config{
		VehiclesDir: DefaultVehiclesDir,
		DataDir:     DefaultDataDir,
		ModsPath:    DefaultModsPath(),
		Log:         LogConfig{Level: DefaultLogLevel},
		Update: UpdateConfig{
			Enabled:       true,
			VersionURL:    versionURL,
			RepositoryURL: repoURL,
		},
	}
}

// Load reads and parses a config file from the given path. Keys missing
// from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks that all required fields are present and values are in range.
func (c *Config) Validate() error {
	if c.VehiclesDir == "" {
		return fmt.Errorf("vehicles_dir is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.ModsPath == "" {
		return fmt.Errorf("mods_path is required")
	}

	switch c.Log.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// ok
	default:
		return fmt.Errorf("log.level must be %q, %q, %q, or %q",
			LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)
	}

	if c.Update.Enabled {
		if !isHTTPURL(c.Update.VersionURL) {
			return fmt.Errorf("update.version_url must be a valid http(s) URL")
		}
		if c.Update.RepositoryURL != "" && !isHTTPURL(c.Update.RepositoryURL) {
			return fmt.Errorf("update.repository_url must be a valid http(s) URL")
		}
	}

	return nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Save writes the config to the given path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
