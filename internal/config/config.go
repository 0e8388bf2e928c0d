// Package config handles global configuration for the sampledb CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/sampledb/config.yml.
// All fields are optional defaults for the corresponding CLI flags.
type Config struct {
	DBPath     string `yaml:"db_path,omitempty"`
	SamplesDir string `yaml:"samples_dir,omitempty"`
	JSONIndent int    `yaml:"json_indent,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "sampledb"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
)

// configCache caches the loaded config.
var configCache *Config

// Path returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/sampledb/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load loads the configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func Load() (*Config, error) {
	if configCache != nil {
		return configCache, nil
	}

	path := Path()
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.DBPath = ExpandTilde(cfg.DBPath)
	cfg.SamplesDir = ExpandTilde(cfg.SamplesDir)

	configCache = &cfg
	return &cfg, nil
}

// ResetCache clears the cached config. Useful for testing.
func ResetCache() {
	configCache = nil
}

// GetDBPath returns the default store path from config.
func GetDBPath() string {
	cfg, _ := Load()
	return cfg.DBPath
}

// GetSamplesDir returns the default samples directory from config.
func GetSamplesDir() string {
	cfg, _ := Load()
	return cfg.SamplesDir
}

// GetJSONIndent returns the default JSON indentation from config.
func GetJSONIndent() int {
	cfg, _ := Load()
	return cfg.JSONIndent
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
