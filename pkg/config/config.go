// Package config provides the core configuration types and validation logic for codescan.
package config

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Supported report formats
var Formats = []string{"text", "xml", "json", "csv"}

// Config represents a project configuration file (.codescan.json or .codescan.toml).
// Every field is optional; command-line flags take precedence.
type Config struct {
	Version         string   `json:"version" toml:"version"`
	Rulesets        []string `json:"rulesets,omitempty" toml:"rulesets,omitempty"`
	MinimumPriority int      `json:"minimumPriority,omitempty" toml:"minimum_priority,omitempty"`
	Format          string   `json:"format,omitempty" toml:"format,omitempty"`
	Exclude         []string `json:"exclude,omitempty" toml:"exclude,omitempty"`
	Threads         int      `json:"threads,omitempty" toml:"threads,omitempty"`
	Language        string   `json:"language,omitempty" toml:"language,omitempty"`
	LanguageVersion string   `json:"languageVersion,omitempty" toml:"language_version,omitempty"`
}

// RegexPattern represents a regex pattern with optional flags
type RegexPattern struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Flags   string `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// Validate performs validation on the Config
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}

	if c.MinimumPriority < 0 || c.MinimumPriority > 5 {
		return fmt.Errorf("minimum priority must be between 1 and 5")
	}

	if c.Format != "" && !IsFormat(c.Format) {
		return fmt.Errorf("unknown format %q (expected one of %s)", c.Format, strings.Join(Formats, ", "))
	}

	if c.Threads < 0 {
		return fmt.Errorf("threads must be non-negative")
	}

	for i, ref := range c.Rulesets {
		if strings.TrimSpace(ref) == "" {
			return fmt.Errorf("ruleset %d: reference is empty", i)
		}
	}

	if c.LanguageVersion != "" && c.Language == "" {
		return fmt.Errorf("languageVersion requires language")
	}

	return nil
}

// IsFormat reports whether name is a supported report format.
func IsFormat(name string) bool {
	for _, f := range Formats {
		if f == name {
			return true
		}
	}
	return false
}

// Validate performs validation on the RegexPattern
func (r *RegexPattern) Validate() error {
	if r.Pattern == "" {
		return fmt.Errorf("pattern is required")
	}

	if r.Flags != "" {
		validFlags := "imsU"
		for _, flag := range r.Flags {
			if !strings.ContainsRune(validFlags, flag) {
				return fmt.Errorf("invalid regex flag: %c", flag)
			}
		}
	}

	if _, err := r.Compile(); err != nil {
		return fmt.Errorf("invalid regex pattern: %w", err)
	}

	return nil
}

// Expression returns the pattern with its flags applied inline.
func (r *RegexPattern) Expression() string {
	if r.Flags == "" {
		return r.Pattern
	}
	return "(?" + r.Flags + ")" + r.Pattern
}

// Compile returns a compiled regular expression
func (r *RegexPattern) Compile() (*regexp.Regexp, error) {
	return regexp.Compile(r.Expression())
}

// LoadConfig loads a configuration from JSON data
func LoadConfig(data []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// LoadTOMLConfig loads a configuration from TOML data
func LoadTOMLConfig(data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// SaveConfig serializes a configuration to JSON
func SaveConfig(config *Config) ([]byte, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	return data, nil
}

// Clone creates a deep copy of the Config
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	if c.Rulesets != nil {
		clone.Rulesets = append([]string(nil), c.Rulesets...)
	}
	if c.Exclude != nil {
		clone.Exclude = append([]string(nil), c.Exclude...)
	}
	return &clone
}
