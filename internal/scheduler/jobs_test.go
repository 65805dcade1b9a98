package scheduler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/bulwark/internal/database"
	"github.com/aristath/bulwark/internal/domain"
	"github.com/aristath/bulwark/internal/modules/assessment"
	"github.com/aristath/bulwark/internal/portfolio"
	"github.com/aristath/bulwark/internal/reports"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func generatorSupplier() func() (*portfolio.File, error) {
	return func() (*portfolio.File, error) {
		f := portfolio.Generator{Seed: 11}.Generate(portfolio.GenerateOptions{
			Exposures: 10,
			Positions: 8,
			Trades:    6,
		})
		return f, nil
	}
}

func TestDailyAssessmentJob_Name(t *testing.T) {
	job := &DailyAssessmentJob{log: zerolog.Nop()}
	assert.Equal(t, "daily_assessment", job.Name())
}

func TestDailyAssessmentJob_Run(t *testing.T) {
	log := testLogger()
	dir := t.TempDir()

	service := assessment.NewService(domain.DefaultRegulatoryParams(), nil, nil, log)
	writer := reports.NewWriter(dir, log)

	job := NewDailyAssessmentJob(service, writer, nil, generatorSupplier(), log)

	require.NoError(t, job.Run())

	// One run leaves the standard report set behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestDailyAssessmentJob_SupplierFailure(t *testing.T) {
	log := testLogger()

	service := assessment.NewService(domain.DefaultRegulatoryParams(), nil, nil, log)
	writer := reports.NewWriter(t.TempDir(), log)
	supply := func() (*portfolio.File, error) {
		return nil, errors.New("portfolio file unreadable")
	}

	job := NewDailyAssessmentJob(service, writer, nil, supply, log)

	err := job.Run()
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to load portfolio")
}

func TestDailyAssessmentJob_InvalidPortfolio(t *testing.T) {
	log := testLogger()

	service := assessment.NewService(domain.DefaultRegulatoryParams(), nil, nil, log)
	writer := reports.NewWriter(t.TempDir(), log)
	supply := func() (*portfolio.File, error) {
		return &portfolio.File{
			Exposures: []domain.Exposure{
				{ID: "EXP-1", Entity: "bank_eu", Class: domain.ClassCorporate, EAD: -1, PD: 0.01, LGD: 0.45},
			},
		}, nil
	}

	job := NewDailyAssessmentJob(service, writer, nil, supply, log)

	err := job.Run()
	require.Error(t, err)
	assert.ErrorContains(t, err, "assessment run failed")
}

func TestMaintenanceJob_Name(t *testing.T) {
	job := &MaintenanceJob{log: zerolog.Nop()}
	assert.Equal(t, "db_maintenance", job.Name())
}

func TestMaintenanceJob_Run(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	db, err := database.New(database.Config{Path: dbPath, Name: "runs"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	job := NewMaintenanceJob(db, testLogger())

	assert.NoError(t, job.Run())
}

func TestScheduler_AddJobValidation(t *testing.T) {
	s := New(testLogger())

	job := &DailyAssessmentJob{log: zerolog.Nop()}
	assert.Error(t, s.AddJob("not a schedule", job))
	assert.NoError(t, s.AddJob("0 0 18 * * *", job))
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(testLogger())
	log := testLogger()

	service := assessment.NewService(domain.DefaultRegulatoryParams(), nil, nil, log)
	writer := reports.NewWriter(t.TempDir(), log)
	job := NewDailyAssessmentJob(service, writer, nil, generatorSupplier(), log)

	assert.NoError(t, s.RunNow(job))
}
