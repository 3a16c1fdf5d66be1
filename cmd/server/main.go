// Package main is the entry point for the riskgauge HTTP API.
//
// riskgauge resolves Korean listed companies, fetches quotes, candles and
// financial-ratio statements from the KIS Open API and scores them into
// stability, profitability, volatility and supply/demand risk reports.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/riskgauge/internal/config"
	"github.com/aristath/riskgauge/internal/di"
	"github.com/aristath/riskgauge/internal/server"
	"github.com/aristath/riskgauge/pkg/logger"
)

// main orchestrates startup:
// 1. Loads configuration from environment variables (.env supported)
// 2. Initializes logging
// 3. Wires all dependencies via the DI container
// 4. Starts the scheduler and the HTTP server
// 5. Waits for a shutdown signal and shuts down gracefully
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.DevMode,
		Service: "riskgauge",
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("base_url", cfg.KIS.BaseURL).
		Bool("cache", cfg.Cache.Enabled).
		Msg("Starting riskgauge")

	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	// Closes the cache database so the WAL is checkpointed
	defer container.Close()

	// Warm the token so the first request does not pay for it. A failure is
	// not fatal: /stocks and the system routes work without upstream access.
	if cfg.HasCredentials() {
		initCtx, cancel := context.WithTimeout(context.Background(), cfg.KIS.Timeout)
		if err := container.TokenProvider.Init(initCtx); err != nil {
			log.Warn().Err(err).Msg("Initial token fetch failed; will retry on first request")
		}
		cancel()
	}

	// Drop entries that expired while the server was down
	if jobs.CacheCleanup != nil {
		if err := container.Scheduler.RunNow(jobs.CacheCleanup); err != nil {
			log.Warn().Err(err).Msg("Startup cache cleanup failed")
		}
	}

	container.Scheduler.Start()

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Container: container,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
