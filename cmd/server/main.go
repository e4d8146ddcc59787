// Package main is the entry point for the Holdview client holdings dashboard.
// The application loads an investment-holdings table from a spreadsheet-backed
// source, computes per-client aggregate metrics, and serves chart-ready
// summaries plus the embedded browser UI.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mgalanis/holdview/internal/clients/gsheet"
	"github.com/mgalanis/holdview/internal/config"
	"github.com/mgalanis/holdview/internal/database"
	"github.com/mgalanis/holdview/internal/datasource"
	"github.com/mgalanis/holdview/internal/modules/analyzer"
	"github.com/mgalanis/holdview/internal/modules/charts"
	"github.com/mgalanis/holdview/internal/modules/holdings"
	"github.com/mgalanis/holdview/internal/scheduler"
	"github.com/mgalanis/holdview/internal/server"
	"github.com/mgalanis/holdview/internal/sourcecache"
)

// newLogger builds the application logger at the configured level with
// console output.
func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(parsed).
		With().
		Timestamp().
		Logger()
}

// main orchestrates the startup sequence:
//  1. Load configuration from environment variables
//  2. Initialize logging
//  3. Open the source cache database
//  4. Build the holdings source (Google Sheet export or local CSV)
//  5. Load the table and wire the analyzer and chart services
//  6. Start the scheduler (cache cleanup, optional table refresh)
//  7. Start the HTTP server and wait for the shutdown signal
func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := newLogger("info")
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := newLogger(cfg.LogLevel)
	log.Info().Msg("Starting Holdview")

	// Source cache database (ephemeral; cache profile)
	cacheDB, err := database.New(database.Config{
		Path:    cfg.CacheDBPath(),
		Profile: database.ProfileCache,
		Name:    "source_cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open source cache database")
	}
	defer cacheDB.Close()

	cacheRepo := sourcecache.NewRepository(cacheDB.Conn())
	if err := cacheRepo.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize source cache schema")
	}

	// Holdings source
	var source datasource.Source
	switch cfg.SourceKind {
	case config.SourceFile:
		source = datasource.NewFileSource(cfg.CSVPath, log)
	default:
		source = gsheet.NewClient(cfg.SheetURL, cfg.SheetGID, cacheRepo, log)
	}

	store := holdings.NewTableStore(log)
	loader := datasource.NewLoader(source, store, log)

	// Initial load. A failure here is logged but not fatal: the source may
	// come back, and POST /api/source/refresh retries on demand.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := loader.Load(ctx, false); err != nil {
		log.Error().Err(err).Msg("Initial table load failed, starting with empty table")
	}
	cancel()

	// Services
	analyzerSvc := analyzer.NewService(store, cfg.AtRiskThreshold, log)
	chartsSvc := charts.NewService(analyzerSvc, log)

	// Scheduler: daily cache cleanup, plus table refresh when configured
	sched := scheduler.New(log)
	if err := sched.AddJob("@daily", sourcecache.NewCleanupJob(cacheRepo, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cache cleanup job")
	}
	if cfg.RefreshSchedule != "" {
		if err := sched.AddJob(cfg.RefreshSchedule, scheduler.NewRefreshJob(loader, log)); err != nil {
			log.Fatal().Err(err).Msg("Failed to register table refresh job")
		}
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Log:             log,
		Config:          cfg,
		Port:            cfg.Port,
		DevMode:         cfg.DevMode,
		Store:           store,
		Loader:          loader,
		AnalyzerService: analyzerSvc,
		ChartsService:   chartsSvc,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
