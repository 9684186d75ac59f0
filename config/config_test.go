package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
dataapi:
  url: https://example.com/mt/mt-data-api.cgi/v4/
  username: melody
  password: secret
  site_id: 2
  timeout: 30s
filter:
  presets:
    drafts: 'status == "Draft"'
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/mt/mt-data-api.cgi/v4/", cfg.DataAPI.URL)
	assert.Equal(t, "melody", cfg.DataAPI.Username)
	assert.Equal(t, "secret", cfg.DataAPI.Password)
	assert.Equal(t, 2, cfg.DataAPI.SiteID)
	assert.Equal(t, 30*time.Second, cfg.DataAPI.Timeout)
	assert.Equal(t, "php-client", cfg.DataAPI.ClientID)
	assert.Equal(t, `status == "Draft"`, cfg.Filter.Presets["drafts"])
	assert.Equal(t, 3, cfg.Publish.Concurrency)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "bitpart/dataapi", cfg.Update.Repository)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
dataapi:
  url: https://example.com/v4/
  username: melody
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, cfg.DataAPI.Timeout)
	assert.Equal(t, 1, cfg.DataAPI.SiteID)
	assert.False(t, cfg.DataAPI.Debug)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Logging.Color)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
dataapi:
  url: https://example.com/v4/
  username: melody
  password: from-file
`)
	t.Setenv("DATAAPI_DATAAPI_PASSWORD", "from-env")
	t.Setenv("DATAAPI_DATAAPI_DEBUG", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.DataAPI.Password)
	assert.True(t, cfg.DataAPI.Debug)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DataAPI: DataAPIConfig{
				URL:      "https://example.com/v4/",
				Username: "melody",
				Timeout:  time.Minute,
			},
			Publish: PublishConfig{Concurrency: 1},
			Logging: LoggingConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing url",
			mutate:  func(c *Config) { c.DataAPI.URL = "" },
			wantErr: "dataapi.url is required",
		},
		{
			name:    "missing username",
			mutate:  func(c *Config) { c.DataAPI.Username = "" },
			wantErr: "dataapi.username is required",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.DataAPI.Timeout = 0 },
			wantErr: "dataapi.timeout must be positive",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Publish.Concurrency = 0 },
			wantErr: "invalid publish.concurrency: 0 (must be at least 1)",
		},
		{
			name: "valid preset",
			mutate: func(c *Config) {
				c.Filter.Presets = map[string]string{"drafts": `status == "Draft"`}
			},
		},
		{
			name: "empty preset",
			mutate: func(c *Config) {
				c.Filter.Presets = map[string]string{"stale": "  "}
			},
			wantErr: `invalid filter preset "stale": compilation error in '': empty expression`,
		},
		{
			name:    "invalid level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level: verbose",
		},
		{
			name:    "invalid format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format: xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
