package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/yanqian/seven-day-fit/internal/domain/forecast"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

var dailyMetrics = []string{
	"temperature_2m_max",
	"temperature_2m_min",
	"apparent_temperature_max",
	"precipitation_probability_max",
	"windspeed_10m_max",
	"wind_gusts_10m_max",
	"uv_index_max",
	"snowfall_sum",
	"precipitation_sum",
	"weathercode",
}

// Options tune the client. Zero values fall back to defaults.
type Options struct {
	BaseURL         string
	Timeout         time.Duration
	Backoff         Backoff
	BreakerFailures uint32
	BreakerOpenFor  time.Duration
	RequestsPerSec  float64
	Burst           int
}

// Client fetches daily forecasts from Open-Meteo in imperial units.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	backoff    Backoff
	logger     *slog.Logger
}

// NewClient builds the provider client.
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "weather.openmeteo")

	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Backoff.InitialInterval <= 0 {
		opts.Backoff.InitialInterval = 500 * time.Millisecond
	}
	if opts.Backoff.MaxRetries < 0 {
		opts.Backoff.MaxRetries = 0
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerOpenFor <= 0 {
		opts.BreakerOpenFor = time.Minute
	}
	limit := rate.Inf
	if opts.RequestsPerSec > 0 {
		limit = rate.Limit(opts.RequestsPerSec)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	failures := opts.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     opts.BreakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			var se *statusError
			return err == nil || errors.As(err, &se)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: opts.Timeout},
		breaker:    breaker,
		limiter:    rate.NewLimiter(limit, opts.Burst),
		backoff:    opts.Backoff,
		logger:     logger,
	}
}

// FetchDaily retrieves days of daily aggregates for the coordinate.
func (c *Client) FetchDaily(ctx context.Context, lat, lon float64, days int) (forecast.Payload, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return forecast.Payload{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	endpoint := c.baseURL + "?" + query(lat, lon, days).Encode()
	start := time.Now()
	body, err := doWithResilience(ctx, c.httpClient, c.breaker, c.backoff, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return forecast.Payload{}, fmt.Errorf("forecast request failed: %w", err)
	}

	var raw struct {
		Timezone string         `json:"timezone"`
		Daily    forecast.Daily `json:"daily"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return forecast.Payload{}, fmt.Errorf("decode forecast response: %w", err)
	}
	c.logger.Debug("forecast fetched", "lat", lat, "lon", lon, "days", len(raw.Daily.Time), "elapsed", time.Since(start))

	return forecast.Payload{
		Daily:     raw.Daily,
		Timezone:  raw.Timezone,
		Source:    c.baseURL,
		FetchedAt: time.Now().UTC(),
		RawJSON:   body,
	}, nil
}

func query(lat, lon float64, days int) url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("daily", strings.Join(dailyMetrics, ","))
	values.Set("timezone", "auto")
	values.Set("forecast_days", strconv.Itoa(days))
	values.Set("temperature_unit", "fahrenheit")
	values.Set("wind_speed_unit", "mph")
	values.Set("precipitation_unit", "inch")
	return values
}

var _ forecast.Client = (*Client)(nil)
