// Package config provides configuration loading for codescan.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bebsworthy/codescan/internal/debug"
	"github.com/bebsworthy/codescan/pkg/config"
)

const (
	// ConfigFileName is the default JSON configuration file name
	ConfigFileName = ".codescan.json"

	// TOMLConfigFileName is the default TOML configuration file name
	TOMLConfigFileName = ".codescan.toml"

	// ConfigEnvVar is the environment variable to specify custom config path
	ConfigEnvVar = "CODESCAN_CONFIG"
)

// ErrConfigNotFound indicates that no configuration file exists in the search paths.
// A project without configuration is valid; callers fall back to flags.
var ErrConfigNotFound = errors.New("no configuration file found")

// Loader handles locating and loading configuration files
type Loader struct {
	// SearchPaths contains the directories searched, in order, for configuration files
	SearchPaths []string
}

// NewLoader creates a new configuration loader searching the given directories
func NewLoader(searchPaths ...string) *Loader {
	return &Loader{
		SearchPaths: searchPaths,
	}
}

// Load attempts to load configuration from the environment override or the search paths
func (l *Loader) Load() (*config.Config, error) {
	debug.LogSection("Configuration Loading")

	if envPath := os.Getenv(ConfigEnvVar); envPath != "" {
		debug.Log("Loading config from environment variable %s: %s", ConfigEnvVar, envPath)
		cfg, err := l.loadFromPath(envPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", ConfigEnvVar, err)
		}
		return cfg, nil
	}

	debug.Log("Searching for config in: %v", l.SearchPaths)
	for _, searchPath := range l.SearchPaths {
		for _, name := range []string{ConfigFileName, TOMLConfigFileName} {
			configPath := filepath.Join(searchPath, name)
			if _, err := os.Stat(configPath); err == nil {
				debug.Log("Found config at: %s", configPath)
				cfg, err := l.loadFromPath(configPath)
				if err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
				}
				return cfg, nil
			}
		}
	}

	return nil, ErrConfigNotFound
}

// LoadFromPath loads configuration from a specific file path
func (l *Loader) LoadFromPath(path string) (*config.Config, error) {
	return l.loadFromPath(path)
}

// loadFromPath loads and validates configuration from a file, choosing the
// decoder by file extension
func (l *Loader) loadFromPath(path string) (*config.Config, error) {
	debug.Log("Loading config from file: %s", path)

	// #nosec G304 - path comes from the user or a known search location
	file, err := os.Open(path)
	if err != nil {
		debug.LogError(err, "opening config file")
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }() //nolint:errcheck // Best effort cleanup

	data, err := io.ReadAll(file)
	if err != nil {
		debug.LogError(err, "reading config file")
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg *config.Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		cfg, err = config.LoadTOMLConfig(data)
	} else {
		cfg, err = config.LoadConfig(data)
	}
	if err != nil {
		debug.LogError(err, "parsing config")
		return nil, err
	}

	debug.Log("Loaded config: version=%s, rulesets=%d, exclude=%d",
		cfg.Version, len(cfg.Rulesets), len(cfg.Exclude))

	return cfg, nil
}
