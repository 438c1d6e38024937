package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/seven-day-fit/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	logger = logger.With("component", "http.router")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	api.GET("/healthz", handler.Health)
	api.GET("/presets", handler.Presets)
	api.POST("/outfits/classify", handler.ClassifyOutfits)

	limited := api.Group("", rateLimitMiddleware(cfg.HTTP.RateLimit, logger))
	{
		limited.POST("/resolve-location", handler.ResolveLocation)
		limited.POST("/forecast", handler.Forecast)
		limited.POST("/outfits", handler.PlanOutfits)
		limited.GET("/locations/trending", handler.TrendingLocations)
		limited.GET("/locations/recent", handler.RecentLocations)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
