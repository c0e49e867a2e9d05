// Command api is the Scoracle Tournament API server.
//
// Usage:
//
//	scoracle-api
//	DATA_SOURCE=postgres DATABASE_URL=postgres://... scoracle-api

// @title Scoracle Tournament API
// @version 1.0.0
// @description League standings with tie-break explanations, next-round what-if scenarios, match predictions and season forecasts.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Scoracle
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/scoracle-tournament/internal/api"
	"github.com/albapepper/scoracle-tournament/internal/api/handler"
	"github.com/albapepper/scoracle-tournament/internal/cache"
	"github.com/albapepper/scoracle-tournament/internal/config"
	"github.com/albapepper/scoracle-tournament/internal/db"
	"github.com/albapepper/scoracle-tournament/internal/jobs"
	"github.com/albapepper/scoracle-tournament/internal/league"
	"github.com/albapepper/scoracle-tournament/internal/listener"
	"github.com/albapepper/scoracle-tournament/internal/maintenance"
	"github.com/albapepper/scoracle-tournament/internal/store"

	_ "github.com/albapepper/scoracle-tournament/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	defer appCache.Close()
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Data source
	var (
		st      store.Store
		checker handler.DBChecker
		pool    *db.Pool
	)
	if cfg.UsesPostgres() {
		logger.Info("Connecting to database...")
		pool, err = db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
		st = store.NewPGStore(pool.Pool)
		checker = pool
	} else {
		st = store.NewFileStore(cfg.DataDir)
		logger.Info("Serving data files", "dir", cfg.DataDir)
	}

	svc := league.New(st, st, appCache, league.SettingsFrom(cfg), logger)
	if _, err := svc.Dataset(ctx); err != nil {
		logger.Error("Failed to load league data", "error", err)
		os.Exit(1)
	}

	runner := jobs.NewRunner(cfg.JobTTL, logger)

	// Keep the snapshot fresh when data changes outside this process
	var refresher maintenance.Refresher
	if cfg.UsesPostgres() {
		go listener.Start(ctx, cfg.DatabaseURL, svc, logger)
		refresher = maintenance.PeriodicRefresher{Target: svc}
	} else {
		refresher = maintenance.NewFileWatcher(cfg.DataDir, svc)
	}
	mcfg := maintenance.DefaultConfig()
	if cfg.UsesPostgres() {
		mcfg.RefreshInterval = 15 * time.Minute
	}
	go maintenance.Start(ctx, mcfg, runner, refresher, logger)

	// Create router
	h := handler.New(ctx, svc, runner, checker, cfg, logger)
	router := api.NewRouter(h, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Scoracle Tournament API",
			"addr", addr,
			"environment", cfg.Environment,
			"data_source", cfg.DataSource,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	runner.Wait()
	logger.Info("Server stopped")
}
