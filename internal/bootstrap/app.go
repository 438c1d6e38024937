package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/seven-day-fit/internal/infra/config"
	"github.com/yanqian/seven-day-fit/internal/infra/scheduler"
)

// App encapsulates the HTTP server and background job lifecycle.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	janitor *scheduler.Janitor
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, janitor *scheduler.Janitor) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, janitor: janitor}
}

// Run starts the janitor and the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	if err := a.janitor.Start(); err != nil {
		return err
	}
	defer a.janitor.Stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		timeout := a.cfg.HTTP.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		a.logger.Info("shutdown signal received")
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
