// Package config handles configuration loading for diagflow.
// It supports XDG config paths, project-level overrides, and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for diagflow.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Defaults  DefaultsConfig  `mapstructure:"defaults"`
	History   HistoryConfig   `mapstructure:"history"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey        string `mapstructure:"api_key"`
	Model         string `mapstructure:"model"`
	UseAWSBedrock bool   `mapstructure:"use_aws_bedrock"`
	AWSRegion     string `mapstructure:"aws_region"`
	AWSProfile    string `mapstructure:"aws_profile"`
}

// RetryConfig holds retry behavior for external calls.
type RetryConfig struct {
	MaxRetries      int           `mapstructure:"max_retries"`
	BaseDelay       time.Duration `mapstructure:"base_delay"`
	MaxDelay        time.Duration `mapstructure:"max_delay"`
	ExponentialBase float64       `mapstructure:"exponential_base"`
	Jitter          bool          `mapstructure:"jitter"`
}

// DefaultsConfig holds default run settings.
type DefaultsConfig struct {
	// Executor selects the default task executor: "rules" or "agent".
	Executor string `mapstructure:"executor"`
	// TaskTimeout is the advisory per-task timeout applied when a
	// task definition carries none.
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
	// Output is the default report format: "text", "json", or "yaml".
	Output string `mapstructure:"output"`
}

// HistoryConfig holds run history persistence settings.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// getUserConfigDir returns the XDG config directory for diagflow.
func getUserConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "diagflow")
}

// findProjectConfig looks for a .diagflow.yaml in the working
// directory, returning "" when absent.
func findProjectConfig() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	path := filepath.Join(wd, ".diagflow.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// setDefaults applies the default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_aws_bedrock", false)

	v.SetDefault("retry.max_retries", 3)
	v.SetDefault("retry.base_delay", "1s")
	v.SetDefault("retry.max_delay", "60s")
	v.SetDefault("retry.exponential_base", 2.0)
	v.SetDefault("retry.jitter", true)

	v.SetDefault("defaults.executor", "rules")
	v.SetDefault("defaults.task_timeout", "2m")
	v.SetDefault("defaults.output", "text")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
}

// Load reads the configuration: defaults, then the user config at
// ~/.config/diagflow/config.yaml, then a project-local .diagflow.yaml,
// then environment variables. Later sources take precedence.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("DIAGFLOW")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	return cfg, nil
}

// LoadFromPath reads configuration from an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	return cfg, nil
}

// Watch reloads the user config file whenever it changes on disk and
// hands the fresh Config to onChange. Load errors during a reload are
// reported to onError and the previous config stays in effect.
func Watch(onChange func(*Config), onError func(error)) error {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading user config: %w", err)
		}
		return fmt.Errorf("no config file to watch in %s", getUserConfigDir())
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := Load()
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload after %s: %w", e.Name, err))
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// envVarPattern matches ${VAR} references in config values.
var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// expandEnv replaces ${VAR} references with environment values,
// leaving unknown references untouched.
func expandEnv(value string) string {
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		name := match[2 : len(match)-1]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return match
	})
}
