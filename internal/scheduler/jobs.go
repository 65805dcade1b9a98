package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/bulwark/internal/database"
	"github.com/aristath/bulwark/internal/modules/assessment"
	"github.com/aristath/bulwark/internal/portfolio"
	"github.com/aristath/bulwark/internal/reports"
)

// DailyAssessmentJob runs the full pipeline on the configured portfolio,
// writes the report set and archives it when archiving is enabled.
type DailyAssessmentJob struct {
	service  *assessment.Service
	writer   *reports.Writer
	archiver *reports.Archiver
	supply   func() (*portfolio.File, error)
	log      zerolog.Logger
}

// NewDailyAssessmentJob creates the scheduled assessment job. The supplier
// resolves the portfolio at run time so file edits between runs are picked up.
func NewDailyAssessmentJob(
	service *assessment.Service,
	writer *reports.Writer,
	archiver *reports.Archiver,
	supply func() (*portfolio.File, error),
	log zerolog.Logger,
) *DailyAssessmentJob {
	return &DailyAssessmentJob{
		service:  service,
		writer:   writer,
		archiver: archiver,
		supply:   supply,
		log:      log.With().Str("job", "daily_assessment").Logger(),
	}
}

// Name returns the job name
func (j *DailyAssessmentJob) Name() string {
	return "daily_assessment"
}

// Run executes the scheduled assessment
func (j *DailyAssessmentJob) Run() error {
	f, err := j.supply()
	if err != nil {
		return fmt.Errorf("failed to load portfolio: %w", err)
	}

	a, err := j.service.Run(context.Background(), assessment.InputFromPortfolio(f))
	if err != nil {
		return fmt.Errorf("assessment run failed: %w", err)
	}

	paths, err := j.writer.WriteAll(a)
	if err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}

	keys, err := j.archiver.Archive(context.Background(), a.ID, paths)
	if err != nil {
		// Reports exist locally; archiving can catch up on the next run.
		j.log.Warn().Err(err).Str("run_id", a.ID).Msg("Report archiving failed")
	}

	j.log.Info().
		Str("run_id", a.ID).
		Float64("total_rwa", a.Capital.TotalRWA).
		Int("reports", len(paths)).
		Int("archived", len(keys)).
		Msg("Scheduled assessment completed")

	return nil
}

// MaintenanceJob keeps the run store healthy: WAL checkpoint, integrity
// check, and a vacuum to reclaim space.
type MaintenanceJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewMaintenanceJob creates the database maintenance job.
func NewMaintenanceJob(db *database.DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		db:  db,
		log: log.With().Str("job", "db_maintenance").Logger(),
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "db_maintenance"
}

// Run executes the maintenance pass
func (j *MaintenanceJob) Run() error {
	if err := j.db.WALCheckpoint("TRUNCATE"); err != nil {
		// Not critical; the autocheckpoint still bounds WAL growth.
		j.log.Warn().Err(err).Msg("WAL checkpoint failed")
	}

	ctx := context.Background()
	if err := j.db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	if err := j.db.Vacuum(); err != nil {
		j.log.Warn().Err(err).Msg("Vacuum failed")
	}

	if stats, err := j.db.GetStats(); err == nil {
		j.log.Info().
			Int64("size_bytes", stats.SizeBytes).
			Int64("wal_bytes", stats.WALSizeBytes).
			Int64("free_pages", stats.FreelistCount).
			Msg("Database maintenance completed")
	}

	return nil
}
