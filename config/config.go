package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bitpart/dataapi/dataapi"
	"github.com/bitpart/dataapi/filter"
)

// EnvPrefix is prepended to environment overrides, e.g. DATAAPI_DATAAPI_PASSWORD
const EnvPrefix = "DATAAPI"

// DefaultRepository is the GitHub repository self-update pulls releases from
const DefaultRepository = "bitpart/dataapi"

// Load loads the configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".dataapi"))
		}

		// Check /etc
		v.AddConfigPath("/etc/dataapi/")
	}

	// Read config file; without one, defaults and environment must suffice
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so that AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Data API defaults
	v.SetDefault("dataapi.url", "")
	v.SetDefault("dataapi.username", "")
	v.SetDefault("dataapi.password", "")
	v.SetDefault("dataapi.client_id", dataapi.DefaultClientID)
	v.SetDefault("dataapi.site_id", 1)
	v.SetDefault("dataapi.timeout", 120*time.Second)
	v.SetDefault("dataapi.proxy", "")
	v.SetDefault("dataapi.debug", false)

	v.SetDefault("publish.concurrency", 3)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("update.repository", DefaultRepository)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.DataAPI.URL == "" {
		return fmt.Errorf("dataapi.url is required")
	}

	if cfg.DataAPI.Username == "" {
		return fmt.Errorf("dataapi.username is required")
	}

	if cfg.DataAPI.Timeout <= 0 {
		return fmt.Errorf("dataapi.timeout must be positive")
	}

	if cfg.Publish.Concurrency < 1 {
		return fmt.Errorf("invalid publish.concurrency: %d (must be at least 1)", cfg.Publish.Concurrency)
	}

	compiler := filter.NewExprCompiler()
	for name, expression := range cfg.Filter.Presets {
		if _, err := compiler.Compile(expression); err != nil {
			return fmt.Errorf("invalid filter preset %q: %w", name, err)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
