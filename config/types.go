package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	DataAPI DataAPIConfig `mapstructure:"dataapi"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Publish PublishConfig `mapstructure:"publish"`
	Logging LoggingConfig `mapstructure:"logging"`
	Update  UpdateConfig  `mapstructure:"update"`
}

// DataAPIConfig holds Data API connection details
type DataAPIConfig struct {
	URL      string        `mapstructure:"url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	ClientID string        `mapstructure:"client_id"`
	SiteID   int           `mapstructure:"site_id"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Proxy    string        `mapstructure:"proxy"`
	Debug    bool          `mapstructure:"debug"`
}

// FilterConfig contains named --where expressions
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// PublishConfig controls batch publishing
type PublishConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// UpdateConfig names the release repository used by self-update
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}
