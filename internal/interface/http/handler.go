package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/seven-day-fit/internal/domain/forecast"
	"github.com/yanqian/seven-day-fit/internal/domain/location"
	"github.com/yanqian/seven-day-fit/internal/domain/outfit"
	"github.com/yanqian/seven-day-fit/internal/domain/planner"
	apperrors "github.com/yanqian/seven-day-fit/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	locationSvc location.Service
	forecastSvc forecast.Service
	plannerSvc  planner.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(locationSvc location.Service, forecastSvc forecast.Service, plannerSvc planner.Service, logger *slog.Logger) *Handler {
	return &Handler{
		locationSvc: locationSvc,
		forecastSvc: forecastSvc,
		plannerSvc:  plannerSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

// ResolveLocation turns free text into a single place candidate.
func (h *Handler) ResolveLocation(c *gin.Context) {
	var req location.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, invalidRequest(err))
		return
	}

	resp, err := h.locationSvc.Resolve(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Forecast returns the seven normalized days after today.
func (h *Handler) Forecast(c *gin.Context) {
	var req forecast.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, invalidRequest(err))
		return
	}

	resp, err := h.forecastSvc.Forecast(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PlanOutfits runs resolve, forecast and classification in one call.
func (h *Handler) PlanOutfits(c *gin.Context) {
	var req planner.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, invalidRequest(err))
		return
	}

	resp, err := h.plannerSvc.Plan(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ClassifyOutfits classifies caller supplied days without any upstream calls.
func (h *Handler) ClassifyOutfits(c *gin.Context) {
	var req planner.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, invalidRequest(err))
		return
	}
	c.JSON(http.StatusOK, h.plannerSvc.Classify(req))
}

// Presets lists every outfit preset with its icon and label.
func (h *Handler) Presets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": outfit.Catalog()})
}

// TrendingLocations returns the most frequently resolved places.
func (h *Handler) TrendingLocations(c *gin.Context) {
	items, err := h.locationSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": items})
}

// RecentLocations returns the latest resolutions.
func (h *Handler) RecentLocations(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "limit must be an integer", err))
			return
		}
		limit = parsed
	}

	records, err := h.locationSvc.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"searches": records})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func invalidRequest(err error) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err)
}
