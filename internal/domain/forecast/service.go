package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/yanqian/seven-day-fit/internal/domain/outfit"
	apperrors "github.com/yanqian/seven-day-fit/pkg/errors"
	"github.com/yanqian/seven-day-fit/pkg/util"
)

// Service exposes the weekly forecast capability.
type Service interface {
	Forecast(ctx context.Context, req Request) (Response, error)
}

// Client fetches the daily forecast block from a weather provider.
type Client interface {
	FetchDaily(ctx context.Context, lat, lon float64, days int) (Payload, error)
}

// Archive keeps raw provider payloads for later inspection.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) error
}

type service struct {
	cfg     Config
	client  Client
	archive Archive
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires up the forecast domain. archive may be nil.
func NewService(cfg Config, client Client, archive Archive, logger *slog.Logger) Service {
	if cfg.ForecastDays <= 0 {
		cfg.ForecastDays = 8
	}
	if cfg.SkipDays < 0 {
		cfg.SkipDays = 0
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 7
	}
	return &service{
		cfg:     cfg,
		client:  client,
		archive: archive,
		logger:  logger.With("component", "forecast.service"),
		now:     util.NowUTC,
	}
}

func (s *service) Forecast(ctx context.Context, req Request) (Response, error) {
	lat, lon, err := validateCoordinates(req)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "lat and lon required", err)
	}

	payload, err := s.client.FetchDaily(ctx, lat, lon, s.cfg.ForecastDays)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeForecast, "weather fetch failed", err)
	}

	all := Normalize(payload.Daily)
	if len(all) == 0 {
		return Response{}, apperrors.Wrap(apperrors.CodeForecast, "weather provider returned no days", nil)
	}
	s.archiveRaw(ctx, lat, lon, payload)

	days := window(all, s.cfg.SkipDays, s.cfg.WindowDays)
	s.logger.Info("forecast normalized", "lat", lat, "lon", lon, "fetched", len(all), "returned", len(days), "timezone", payload.Timezone)
	return Response{Days: days}, nil
}

func (s *service) archiveRaw(ctx context.Context, lat, lon float64, payload Payload) {
	if s.archive == nil || len(payload.RawJSON) == 0 {
		return
	}
	ts := payload.FetchedAt
	if ts.IsZero() {
		ts = s.now()
	}
	key := fmt.Sprintf("forecasts/%s/%.4f_%.4f_%d.json", util.FormatDate(ts), lat, lon, ts.Unix())
	if err := s.archive.Put(ctx, key, payload.RawJSON, "application/json"); err != nil {
		s.logger.Warn("forecast archive failed", "key", key, "error", err)
	}
}

func validateCoordinates(req Request) (float64, float64, error) {
	if !req.Lat.Set || !req.Lon.Set {
		return 0, 0, errors.New("coordinates missing")
	}
	lat, lon := req.Lat.Value, req.Lon.Value
	if !finite(lat) || !finite(lon) {
		return 0, 0, errors.New("coordinates must be numbers")
	}
	if lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("latitude %v out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("longitude %v out of range", lon)
	}
	return lat, lon, nil
}

func window(days []outfit.DayWeather, skip, size int) []outfit.DayWeather {
	if skip >= len(days) {
		return []outfit.DayWeather{}
	}
	end := skip + size
	if end > len(days) {
		end = len(days)
	}
	return days[skip:end]
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
