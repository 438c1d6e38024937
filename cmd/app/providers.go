package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/seven-day-fit/internal/domain/forecast"
	"github.com/yanqian/seven-day-fit/internal/domain/location"
	"github.com/yanqian/seven-day-fit/internal/infra/archive"
	"github.com/yanqian/seven-day-fit/internal/infra/config"
	"github.com/yanqian/seven-day-fit/internal/infra/llm/chatgpt"
	"github.com/yanqian/seven-day-fit/internal/infra/locationstore"
	"github.com/yanqian/seven-day-fit/internal/infra/scheduler"
	"github.com/yanqian/seven-day-fit/internal/infra/searchrepo"
	"github.com/yanqian/seven-day-fit/internal/infra/weather/openmeteo"
)

// locationCache is a location.Store the janitor can sweep.
type locationCache interface {
	location.Store
	scheduler.Sweeper
}

func provideLocationConfig(cfg *config.Config) location.Config {
	return location.Config{
		Model:               cfg.LLM.Model,
		Temperature:         cfg.LLM.Temperature,
		MaxCompletionTokens: cfg.LLM.MaxCompletionTokens,
		Prompt:              cfg.Location.Prompt,
		AcceptThreshold:     cfg.Location.AcceptThreshold,
		DefaultConfidence:   cfg.Location.DefaultConfidence,
		CacheTTL:            cfg.Location.CacheTTL,
		TrendingLimit:       cfg.Location.TrendingLimit,
	}
}

func provideForecastConfig(cfg *config.Config) forecast.Config {
	return forecast.Config{
		ForecastDays: cfg.Forecast.ForecastDays,
		SkipDays:     cfg.Forecast.SkipDays,
		WindowDays:   cfg.Forecast.WindowDays,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
}

func provideWeatherClient(cfg *config.Config, logger *slog.Logger) *openmeteo.Client {
	fc := cfg.Forecast
	return openmeteo.NewClient(openmeteo.Options{
		BaseURL: fc.APIBaseURL,
		Timeout: fc.Timeout,
		Backoff: openmeteo.Backoff{
			MaxRetries:      fc.Backoff.MaxRetries,
			InitialInterval: fc.Backoff.InitialInterval,
			MaxInterval:     fc.Backoff.MaxInterval,
		},
		BreakerFailures: fc.Breaker.ConsecutiveFailures,
		BreakerOpenFor:  fc.Breaker.OpenTimeout,
		RequestsPerSec:  fc.RateLimit.RequestsPerSecond,
		Burst:           fc.RateLimit.Burst,
	}, logger)
}

func provideLocationCache(cfg *config.Config, logger *slog.Logger) (locationCache, func()) {
	noop := func() {}
	if !cfg.Location.Redis.Enabled {
		return locationstore.NewMemoryStore(), noop
	}
	opt, err := buildValkeyOptions(cfg.Location.Redis.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return locationstore.NewMemoryStore(), noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return locationstore.NewMemoryStore(), noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return locationstore.NewMemoryStore(), noop
	}
	logger.Info("location valkey store enabled", "addr", cfg.Location.Redis.Addr)
	return locationstore.NewValkeyStore(client, cfg.Location.Redis.Prefix), client.Close
}

func provideLocationStore(cache locationCache) location.Store {
	return cache
}

func provideCacheSweeper(cache locationCache) scheduler.Sweeper {
	return cache
}

func provideSearchHistory(cfg *config.Config, logger *slog.Logger) (location.HistoryRepository, func()) {
	noop := func() {}
	fallback := searchrepo.NewMemoryRepository(cfg.Location.HistoryCapacity)
	dsn := strings.TrimSpace(cfg.Location.Postgres.DSN)
	if dsn == "" {
		logger.Info("location postgres dsn not set, using memory history")
		return fallback, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory history", "error", err)
		return fallback, noop
	}
	if cfg.Location.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Location.Postgres.MaxConns
	}
	if cfg.Location.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Location.Postgres.MinConns
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory history", "error", err)
		return fallback, noop
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory history", "error", err)
		pool.Close()
		return fallback, noop
	}
	repo := searchrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("history schema setup failed, using memory history", "error", err)
		pool.Close()
		return fallback, noop
	}
	logger.Info("location postgres history enabled")
	return repo, pool.Close
}

func provideForecastArchive(cfg *config.Config, logger *slog.Logger) forecast.Archive {
	ac := cfg.Forecast.Archive
	if !ac.Enabled {
		return archive.NewMemoryArchive(ac.MemoryCapacity)
	}
	r2, err := archive.NewR2Archive(ac.Endpoint, ac.AccessKey, ac.SecretKey, ac.Bucket, ac.Region, logger)
	if err != nil {
		logger.Error("failed to initialize r2 archive, using memory archive", "error", err)
		return archive.NewMemoryArchive(ac.MemoryCapacity)
	}
	logger.Info("forecast r2 archive enabled", "bucket", ac.Bucket)
	return r2
}

func provideJanitor(cfg *config.Config, sweeper scheduler.Sweeper, logger *slog.Logger) *scheduler.Janitor {
	return scheduler.NewJanitor(sweeper, cfg.Scheduler.CacheSweepInterval, logger)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
