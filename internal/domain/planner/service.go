package planner

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yanqian/seven-day-fit/internal/domain/forecast"
	"github.com/yanqian/seven-day-fit/internal/domain/location"
	"github.com/yanqian/seven-day-fit/internal/domain/outfit"
	apperrors "github.com/yanqian/seven-day-fit/pkg/errors"
)

const (
	unresolvedPrefix = "We couldn't resolve that description."
	fallbackAdvice   = "Try a clearer place name."
)

// Service runs the resolve, forecast and classify pipeline.
type Service interface {
	Plan(ctx context.Context, req Request) (Response, error)
	Classify(req ClassifyRequest) ClassifyResponse
}

type service struct {
	locations location.Service
	forecasts forecast.Service
	logger    *slog.Logger
}

// NewService builds the planner on top of the location and forecast domains.
func NewService(locations location.Service, forecasts forecast.Service, logger *slog.Logger) Service {
	return &service{
		locations: locations,
		forecasts: forecasts,
		logger:    logger.With("component", "planner.service"),
	}
}

func (s *service) Plan(ctx context.Context, req Request) (Response, error) {
	resolved, err := s.locations.Resolve(ctx, location.Request{Input: req.Input})
	if err != nil {
		return Response{}, err
	}
	if resolved.Location == nil {
		return Response{}, apperrors.Wrap(apperrors.CodeLocationUnresolved, unresolvedMessage(resolved.Advice), nil)
	}

	loc := resolved.Location
	weather, err := s.forecasts.Forecast(ctx, forecast.Request{
		Lat: forecast.At(loc.Lat),
		Lon: forecast.At(loc.Lon),
	})
	if err != nil {
		return Response{}, err
	}

	recs := outfit.ClassifyWeek(weather.Days)
	s.logger.Info("week planned", "location", loc.DisplayName, "days", len(weather.Days), "accepted", resolved.Accepted)
	return Response{
		Location: loc,
		Accepted: resolved.Accepted,
		Advice:   resolved.Advice,
		Days:     outfit.MergeWeek(weather.Days, recs),
	}, nil
}

func (s *service) Classify(req ClassifyRequest) ClassifyResponse {
	days := req.Days
	if days == nil {
		days = []outfit.DayWeather{}
	}
	return ClassifyResponse{Days: outfit.MergeWeek(days, outfit.ClassifyWeek(days))}
}

func unresolvedMessage(advice *string) string {
	msg := fallbackAdvice
	if advice != nil && strings.TrimSpace(*advice) != "" {
		msg = strings.TrimSpace(*advice)
	}
	return unresolvedPrefix + " " + msg
}
