// Package main is the entry point for the Bulwark regulatory risk and capital
// service. The service runs credit risk, counterparty credit risk, liquidity
// and capital calculations over a bank portfolio, persists every assessment
// run, and serves results over a REST API.
//
// Startup sequence:
// 1. Loads configuration from environment variables (.env file supported)
// 2. Initializes structured logging
// 3. Opens the assessment run store (SQLite, WAL mode)
// 4. Wires the assessment pipeline (engines, store, metrics, handlers)
// 5. Registers scheduled jobs (daily assessment, database maintenance)
// 6. Starts the HTTP server
// 7. Waits for shutdown signal and performs graceful shutdown
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aristath/bulwark/internal/config"
	"github.com/aristath/bulwark/internal/database"
	"github.com/aristath/bulwark/internal/domain"
	"github.com/aristath/bulwark/internal/modules/assessment"
	assessmenthandlers "github.com/aristath/bulwark/internal/modules/assessment/handlers"
	"github.com/aristath/bulwark/internal/portfolio"
	"github.com/aristath/bulwark/internal/reports"
	"github.com/aristath/bulwark/internal/scheduler"
	"github.com/aristath/bulwark/internal/server"
	"github.com/aristath/bulwark/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger with config level
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})

	log.Info().Msg("Starting Bulwark")

	// Open the assessment run store. A single SQLite database holds the
	// headline figures and full snapshot of every run.
	db, err := database.New(database.Config{
		Path: cfg.DBPath,
		Name: "runs",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open run store")
	}
	defer db.Close()

	store := assessment.NewStore(db.Conn(), log)
	if err := store.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize run store schema")
	}

	// Pipeline metrics go on the default Prometheus registry, which the
	// server exposes at /metrics.
	metrics := assessment.NewMetrics(prometheus.DefaultRegisterer)

	// The assessment service carries the full regulatory parameter set.
	// Parameters are versioned code, not configuration.
	params := domain.DefaultRegulatoryParams()
	service := assessment.NewService(params, store, metrics, log)
	log.Info().Str("params_version", params.Version).Msg("Assessment pipeline wired")

	// Portfolio supply: a YAML file when configured, the seeded synthetic
	// generator otherwise. The supplier re-reads the file on every run so
	// edits between runs are picked up.
	supplier := portfolioSupplier(cfg)
	if cfg.PortfolioPath != "" {
		log.Info().Str("path", cfg.PortfolioPath).Msg("Serving portfolio from file")
	} else {
		log.Info().Int64("seed", cfg.GeneratorSeed).Msg("Serving synthetic portfolio from generator")
	}

	// Report output and optional S3 archiving. The archiver stays disabled
	// (nil) while no bucket is configured.
	writer := reports.NewWriter(cfg.ReportsDir, log)
	archiver, err := reports.NewS3Archiver(context.Background(), cfg.ReportBucket, cfg.ReportPrefix, cfg.ReportRegion, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize report archiver")
	}

	// Scheduled jobs: the daily assessment run and database maintenance.
	// An empty schedule disables the corresponding job.
	sched := scheduler.New(log)
	if cfg.AssessmentSchedule != "" {
		job := scheduler.NewDailyAssessmentJob(service, writer, archiver, supplier, log)
		if err := sched.AddJob(cfg.AssessmentSchedule, job); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule assessment job")
		}
	}
	if cfg.MaintenanceSchedule != "" {
		job := scheduler.NewMaintenanceJob(db, log)
		if err := sched.AddJob(cfg.MaintenanceSchedule, job); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule maintenance job")
		}
	}
	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	handler := assessmenthandlers.NewHandler(service, store, supplier, log)
	srv := server.New(server.Config{
		Log:                log,
		DB:                 db,
		Config:             cfg,
		AssessmentHandlers: handler,
		Port:               cfg.Port,
	})

	// Start server in goroutine so shutdown handling below is reached
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with a 10 second window for in-flight requests
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// portfolioSupplier builds the portfolio source for scheduled and API-default
// runs: the configured YAML file when set, the seeded generator otherwise.
func portfolioSupplier(cfg *config.Config) func() (*portfolio.File, error) {
	if cfg.PortfolioPath != "" {
		path := cfg.PortfolioPath
		return func() (*portfolio.File, error) {
			return portfolio.LoadFile(path)
		}
	}

	gen := portfolio.Generator{Seed: cfg.GeneratorSeed}
	opts := portfolio.GenerateOptions{
		Exposures: cfg.GeneratorExposures,
		Positions: cfg.GeneratorPositions,
		Trades:    cfg.GeneratorTrades,
	}
	return func() (*portfolio.File, error) {
		return gen.Generate(opts), nil
	}
}
