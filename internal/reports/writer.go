// Package reports renders assessment results to report files and optionally
// archives them to object storage.
package reports

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/aristath/bulwark/internal/domain"
)

// Writer renders assessment results into an output directory. File names
// carry the run ID so successive runs never overwrite each other.
type Writer struct {
	dir string
	log zerolog.Logger
}

// NewWriter creates a report writer targeting dir.
func NewWriter(dir string, log zerolog.Logger) *Writer {
	return &Writer{
		dir: dir,
		log: log.With().Str("service", "reports").Logger(),
	}
}

// WriteAll renders the standard report set for one run and returns the
// written paths.
func (w *Writer) WriteAll(a *domain.Assessment) ([]string, error) {
	paths := make([]string, 0, 3)

	rwaPath, err := w.WriteRWA(a.ID, a.Credit)
	if err != nil {
		return nil, err
	}
	paths = append(paths, rwaPath)

	liqPath, err := w.WriteLiquidity(a.ID, a.Liquidity)
	if err != nil {
		return nil, err
	}
	paths = append(paths, liqPath)

	jsonPath, err := w.WriteAssessment(a)
	if err != nil {
		return nil, err
	}
	paths = append(paths, jsonPath)

	w.log.Info().
		Str("run_id", a.ID).
		Int("files", len(paths)).
		Msg("Reports written")

	return paths, nil
}

// WriteRWA writes the per-exposure credit RWA results as CSV.
func (w *Writer) WriteRWA(runID string, results []domain.RWAResult) (string, error) {
	rows := make([][]string, 0, len(results)+1)
	rows = append(rows, []string{"exposure_id", "entity", "class", "approach", "ead", "rwa", "density", "risk_weight"})
	for _, r := range results {
		rows = append(rows, []string{
			r.ExposureID,
			r.Entity,
			string(r.Class),
			string(r.Approach),
			formatFloat(r.EAD),
			formatFloat(r.RWA),
			formatFloat(r.Density),
			formatFloat(r.RiskWeight),
		})
	}

	path := filepath.Join(w.dir, fmt.Sprintf("rwa-%s.csv", runID))
	if err := w.writeCSV(path, rows); err != nil {
		return "", err
	}
	return path, nil
}

// WriteLiquidity writes the per-entity liquidity results as CSV: one row per
// ratio, then one row per maturity ladder bucket.
func (w *Writer) WriteLiquidity(runID string, report domain.LiquidityReport) (string, error) {
	rows := [][]string{{"entity", "metric", "value", "sentinel_capped"}}

	for _, lcr := range report.LCR {
		rows = append(rows, []string{lcr.Entity, "lcr", formatFloat(lcr.Ratio), strconv.FormatBool(lcr.SentinelCapped)})
	}
	for _, nsfr := range report.NSFR {
		rows = append(rows, []string{nsfr.Entity, "nsfr", formatFloat(nsfr.Ratio), strconv.FormatBool(nsfr.SentinelCapped)})
	}
	for _, ladder := range report.Ladders {
		for _, bucket := range ladder.Buckets {
			metric := fmt.Sprintf("almm_net[%s]", bucket.Label)
			rows = append(rows, []string{ladder.Entity, metric, formatFloat(bucket.Net), "false"})
		}
	}

	path := filepath.Join(w.dir, fmt.Sprintf("liquidity-%s.csv", runID))
	if err := w.writeCSV(path, rows); err != nil {
		return "", err
	}
	return path, nil
}

// WriteAssessment writes the full assessment as indented JSON.
func (w *Writer) WriteAssessment(a *domain.Assessment) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal assessment: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("assessment-%s.json", a.ID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return path, nil
}

func (w *Writer) writeCSV(path string, rows [][]string) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
