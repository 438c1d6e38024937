package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 8, cfg.Forecast.ForecastDays)
	require.Equal(t, 1, cfg.Forecast.SkipDays)
	require.Equal(t, 7, cfg.Forecast.WindowDays)
	require.Equal(t, 0.6, cfg.Location.AcceptThreshold)
	require.Equal(t, time.Hour, cfg.Location.CacheTTL)
	require.Contains(t, cfg.HTTP.Retry.Exclude, "/api/v1/forecast")
}

func TestSampleConfigSkipsReplayForUpstreamRoutes(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join("..", "..", "..", "configs", "config.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Contains(t, cfg.HTTP.Retry.Exclude, "/api/v1/forecast")
	require.Contains(t, cfg.HTTP.Retry.Exclude, "/api/v1/resolve-location")
	require.Contains(t, cfg.HTTP.Retry.Exclude, "/api/v1/outfits")
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := `
http:
  address: ":9090"
location:
  cacheTtl: 30m
  redis:
    enabled: true
    addr: "localhost:6379"
forecast:
  forecastDays: 10
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LLM_MODEL", "gpt-4.1-mini")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOCATION_ACCEPT_THRESHOLD", "0.75")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 30*time.Minute, cfg.Location.CacheTTL)
	require.True(t, cfg.Location.Redis.Enabled)
	require.Equal(t, 10, cfg.Forecast.ForecastDays)
	require.Equal(t, 7, cfg.Forecast.WindowDays)
	require.Equal(t, "gpt-4.1-mini", cfg.LLM.Model)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, 0.75, cfg.Location.AcceptThreshold)
}

func TestLoadRejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [oops"), 0o600))
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty address":        func(c *Config) { c.HTTP.Address = "" },
		"threshold above one":  func(c *Config) { c.Location.AcceptThreshold = 1.5 },
		"zero threshold":       func(c *Config) { c.Location.AcceptThreshold = 0 },
		"zero confidence":      func(c *Config) { c.Location.DefaultConfidence = 0 },
		"redis without addr":   func(c *Config) { c.Location.Redis.Enabled = true },
		"window exceeds fetch": func(c *Config) { c.Forecast.ForecastDays = 7 },
		"too many days":        func(c *Config) { c.Forecast.ForecastDays = 17 },
		"archive without host": func(c *Config) { c.Forecast.Archive.Enabled = true },
		"negative sweep":       func(c *Config) { c.Scheduler.CacheSweepInterval = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
