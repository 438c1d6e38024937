package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "configs/config.yaml"

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	LLM       LLMConfig       `yaml:"llm"`
	Location  LocationConfig  `yaml:"location"`
	Forecast  ForecastConfig  `yaml:"forecast"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address         string          `yaml:"address"`
	ReadTimeout     time.Duration   `yaml:"readTimeout"`
	WriteTimeout    time.Duration   `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	AllowedOrigins  []string        `yaml:"allowedOrigins"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
	Retry           RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the per-client request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey              string        `yaml:"apiKey"`
	BaseURL             string        `yaml:"baseUrl"`
	Model               string        `yaml:"model"`
	Temperature         float32       `yaml:"temperature"`
	MaxCompletionTokens int           `yaml:"maxCompletionTokens"`
	Timeout             time.Duration `yaml:"timeout"`
}

// LocationConfig controls place resolution, its cache and its history.
type LocationConfig struct {
	Prompt            string         `yaml:"prompt"`
	AcceptThreshold   float64        `yaml:"acceptThreshold"`
	DefaultConfidence float64        `yaml:"defaultConfidence"`
	CacheTTL          time.Duration  `yaml:"cacheTtl"`
	TrendingLimit     int            `yaml:"trendingLimit"`
	HistoryCapacity   int            `yaml:"historyCapacity"`
	Redis             RedisConfig    `yaml:"redis"`
	Postgres          PostgresConfig `yaml:"postgres"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ForecastConfig controls the weather provider and the returned window.
type ForecastConfig struct {
	APIBaseURL   string             `yaml:"apiBaseUrl"`
	ForecastDays int                `yaml:"forecastDays"`
	SkipDays     int                `yaml:"skipDays"`
	WindowDays   int                `yaml:"windowDays"`
	Timeout      time.Duration      `yaml:"timeout"`
	RateLimit    ProviderRateConfig `yaml:"rateLimit"`
	Backoff      BackoffConfig      `yaml:"backoff"`
	Breaker      BreakerConfig      `yaml:"breaker"`
	Archive      ArchiveConfig      `yaml:"archive"`
}

// ProviderRateConfig throttles outbound provider calls.
type ProviderRateConfig struct {
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
}

// BackoffConfig tunes upstream retries.
type BackoffConfig struct {
	MaxRetries      int           `yaml:"maxRetries"`
	InitialInterval time.Duration `yaml:"initialInterval"`
	MaxInterval     time.Duration `yaml:"maxInterval"`
}

// BreakerConfig tunes the upstream circuit breaker.
type BreakerConfig struct {
	ConsecutiveFailures uint32        `yaml:"consecutiveFailures"`
	OpenTimeout         time.Duration `yaml:"openTimeout"`
}

// ArchiveConfig selects where raw provider payloads are kept.
type ArchiveConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Endpoint       string `yaml:"endpoint"`
	AccessKey      string `yaml:"accessKey"`
	SecretKey      string `yaml:"secretKey"`
	Bucket         string `yaml:"bucket"`
	Region         string `yaml:"region"`
	MemoryCapacity int    `yaml:"memoryCapacity"`
}

// SchedulerConfig controls background jobs.
type SchedulerConfig struct {
	CacheSweepInterval time.Duration `yaml:"cacheSweepInterval"`
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	// A missing .env is normal outside local dev.
	_ = godotenv.Load()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(defaultConfigPath); err == nil {
		if err := hydrateFromFile(cfg, defaultConfigPath); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	envString("HTTP_ADDRESS", &cfg.HTTP.Address)
	if v := os.Getenv("PORT"); v != "" && os.Getenv("HTTP_ADDRESS") == "" {
		cfg.HTTP.Address = ":" + strings.TrimPrefix(v, ":")
	}
	envDuration("HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout)
	envDuration("HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout)
	envList("HTTP_ALLOWED_ORIGINS", &cfg.HTTP.AllowedOrigins)
	envBool("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	envInt("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	envInt("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)
	envBool("HTTP_RETRY_ENABLED", &cfg.HTTP.Retry.Enabled)
	envInt("HTTP_RETRY_MAX_ATTEMPTS", &cfg.HTTP.Retry.MaxAttempts)
	envDuration("HTTP_RETRY_BASE_BACKOFF", &cfg.HTTP.Retry.BaseBackoff)

	envString("LLM_API_KEY", &cfg.LLM.APIKey)
	if cfg.LLM.APIKey == "" {
		envString("OPENAI_API_KEY", &cfg.LLM.APIKey)
	}
	envString("LLM_BASE_URL", &cfg.LLM.BaseURL)
	envString("LLM_MODEL", &cfg.LLM.Model)
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	envInt("LLM_MAX_COMPLETION_TOKENS", &cfg.LLM.MaxCompletionTokens)
	envDuration("LLM_TIMEOUT", &cfg.LLM.Timeout)

	envString("LOCATION_PROMPT", &cfg.Location.Prompt)
	envFloat("LOCATION_ACCEPT_THRESHOLD", &cfg.Location.AcceptThreshold)
	envDuration("LOCATION_CACHE_TTL", &cfg.Location.CacheTTL)
	envInt("LOCATION_TRENDING_LIMIT", &cfg.Location.TrendingLimit)
	envBool("LOCATION_REDIS_ENABLED", &cfg.Location.Redis.Enabled)
	envString("LOCATION_REDIS_ADDR", &cfg.Location.Redis.Addr)
	envString("LOCATION_POSTGRES_DSN", &cfg.Location.Postgres.DSN)
	if v := os.Getenv("LOCATION_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Location.Postgres.MaxConns = int32(parsed)
		}
	}

	envString("FORECAST_API_BASE_URL", &cfg.Forecast.APIBaseURL)
	envInt("FORECAST_DAYS", &cfg.Forecast.ForecastDays)
	envDuration("FORECAST_TIMEOUT", &cfg.Forecast.Timeout)
	envFloat("FORECAST_RATE_LIMIT_RPS", &cfg.Forecast.RateLimit.RequestsPerSecond)
	envBool("FORECAST_ARCHIVE_ENABLED", &cfg.Forecast.Archive.Enabled)
	envString("FORECAST_ARCHIVE_ENDPOINT", &cfg.Forecast.Archive.Endpoint)
	envString("FORECAST_ARCHIVE_ACCESS_KEY", &cfg.Forecast.Archive.AccessKey)
	envString("FORECAST_ARCHIVE_SECRET_KEY", &cfg.Forecast.Archive.SecretKey)
	envString("FORECAST_ARCHIVE_BUCKET", &cfg.Forecast.Archive.Bucket)
	envString("FORECAST_ARCHIVE_REGION", &cfg.Forecast.Archive.Region)

	envDuration("SCHEDULER_CACHE_SWEEP_INTERVAL", &cfg.Scheduler.CacheSweepInterval)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func envDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func envList(key string, dst *[]string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	items := make([]string, 0)
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	*dst = items
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 2,
				BaseBackoff: 150 * time.Millisecond,
				Exclude:     []string{"/api/v1/resolve-location", "/api/v1/forecast", "/api/v1/outfits"},
			},
		},
		LLM: LLMConfig{
			Model:               "gpt-4o-mini",
			Temperature:         0.2,
			MaxCompletionTokens: 400,
			Timeout:             30 * time.Second,
		},
		Location: LocationConfig{
			Prompt:            defaultLocationPrompt,
			AcceptThreshold:   0.6,
			DefaultConfidence: 0.7,
			CacheTTL:          time.Hour,
			TrendingLimit:     10,
			HistoryCapacity:   1000,
			Redis:             RedisConfig{Prefix: "sdf"},
			Postgres:          PostgresConfig{MaxConns: 4},
		},
		Forecast: ForecastConfig{
			APIBaseURL:   "https://api.open-meteo.com/v1/forecast",
			ForecastDays: 8,
			SkipDays:     1,
			WindowDays:   7,
			Timeout:      10 * time.Second,
			RateLimit: ProviderRateConfig{
				RequestsPerSecond: 5,
				Burst:             5,
			},
			Backoff: BackoffConfig{
				MaxRetries:      2,
				InitialInterval: 300 * time.Millisecond,
				MaxInterval:     3 * time.Second,
			},
			Breaker: BreakerConfig{
				ConsecutiveFailures: 5,
				OpenTimeout:         time.Minute,
			},
			Archive: ArchiveConfig{
				Bucket:         "seven-day-fit-forecasts",
				Region:         "auto",
				MemoryCapacity: 64,
			},
		},
		Scheduler: SchedulerConfig{
			CacheSweepInterval: 5 * time.Minute,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Address) == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.Location.AcceptThreshold <= 0 || c.Location.AcceptThreshold > 1 {
		return errors.New("location.acceptThreshold must be within (0,1]")
	}
	if c.Location.DefaultConfidence <= 0 || c.Location.DefaultConfidence > 1 {
		return errors.New("location.defaultConfidence must be within (0,1]")
	}
	if c.Location.CacheTTL < 0 {
		return errors.New("location.cacheTtl cannot be negative")
	}
	if c.Location.Redis.Enabled && strings.TrimSpace(c.Location.Redis.Addr) == "" {
		return errors.New("location.redis.addr cannot be empty when redis cache is enabled")
	}
	if strings.TrimSpace(c.Forecast.APIBaseURL) == "" {
		return errors.New("forecast.apiBaseUrl cannot be empty")
	}
	if c.Forecast.SkipDays < 0 || c.Forecast.WindowDays <= 0 {
		return errors.New("forecast.skipDays must be >= 0 and forecast.windowDays positive")
	}
	if c.Forecast.ForecastDays < c.Forecast.SkipDays+c.Forecast.WindowDays {
		return errors.New("forecast.forecastDays must cover skipDays + windowDays")
	}
	if c.Forecast.ForecastDays > 16 {
		return errors.New("forecast.forecastDays cannot exceed 16")
	}
	if c.Forecast.Archive.Enabled {
		a := c.Forecast.Archive
		if strings.TrimSpace(a.Endpoint) == "" || strings.TrimSpace(a.Bucket) == "" {
			return errors.New("forecast.archive.endpoint and bucket are required when the archive is enabled")
		}
	}
	if c.Scheduler.CacheSweepInterval < 0 {
		return errors.New("scheduler.cacheSweepInterval cannot be negative")
	}
	return nil
}

const defaultLocationPrompt = `Task: Convert a text input into exactly 1 canonical place candidate with coordinates.
The input may be a city, a neighborhood, a region, a landmark, or a loose description ("somewhere sunny in southern Spain").
Rules:
- Return the single most likely place. Prefer well known cities when the input is ambiguous and lower the confidence accordingly.
- lat/lon are WGS84 decimal degrees of the place center.
- name is the place name only; admin1 is the state or province; country is the country name. Use null when unknown.
- placeType is one of neighborhood, city, region, country.
- confidence is between 0 and 1.
- rationale is one short sentence.
- When the input cannot be mapped to a real place, return candidate null and put a short hint for the user in advice.
- When the input is ambiguous, set advice to a short disambiguation hint.`
