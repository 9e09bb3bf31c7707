package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingField marks a configuration error caused by an absent mandatory
// key. Constructors wrap it so callers can recognize misconfiguration with
// errors.Is.
var ErrMissingField = errors.New("missing required configuration")

type Config struct {
	LogLevel   string                    `yaml:"log_level"`
	Schedule   string                    `yaml:"schedule"`
	RunOnStart bool                      `yaml:"run_on_start"`
	APIKeys    map[string]string         `yaml:"api_keys"`
	LLM        LLMConfig                 `yaml:"llm"`
	Defaults   map[string]SourceDefaults `yaml:"defaults"`
	Sources    map[string][]SourceConfig `yaml:"sources"`
	Categories map[string]string         `yaml:"categories"`
}

// SourceDefaults holds type-level defaults applied when a source instance
// leaves a field unset.
type SourceDefaults struct {
	TimePeriod string `yaml:"time_period"`
}

// SourceConfig configures a single source instance of some type.
type SourceConfig struct {
	Name       string `yaml:"name"`
	ID         string `yaml:"id"`
	Enabled    *bool  `yaml:"enabled"`
	TimePeriod string `yaml:"time_period"`
}

// IsEnabled reports whether the source should be processed. Sources are
// enabled unless explicitly disabled.
func (c SourceConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// LLMConfig configures the LLM provider. Zero values for the tuning fields
// select per-provider defaults.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxLength   int     `yaml:"max_length"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func validate(cfg *Config) error {
	if cfg.LLM.Provider == "" {
		return fmt.Errorf("config: llm.provider is required: %w", ErrMissingField)
	}
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("config: at least one source must be configured: %w", ErrMissingField)
	}
	return nil
}

// Load reads the config file, expands environment variables, applies defaults,
// and validates the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// APIKey returns the API key configured for a source type, or "".
func (c *Config) APIKey(sourceType string) string {
	return c.APIKeys[sourceType]
}

// DefaultTimePeriod returns the type-level lookback window for a source
// type, or "" when none is configured.
func (c *Config) DefaultTimePeriod(sourceType string) string {
	return c.Defaults[sourceType].TimePeriod
}
