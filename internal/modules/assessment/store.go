package assessment

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/bulwark/internal/domain"
)

// ErrRunNotFound is returned when no assessment run matches the requested ID.
var ErrRunNotFound = errors.New("assessment run not found")

// Store persists assessment runs. Headline figures are stored as columns for
// cheap listing; the full result is kept as a msgpack snapshot blob.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// runsColumns is the list of columns for the runs table.
// Column order must match the scan helpers below.
const runsColumns = `id, created_at, params_version, exposure_count, trade_count, position_count, total_rwa, cet1_ratio, synthetic, snapshot`

// summaryColumns is the subset returned by listings (no snapshot blob).
const summaryColumns = `id, created_at, params_version, exposure_count, trade_count, position_count, total_rwa, cet1_ratio, synthetic`

// NewStore creates a new assessment run store.
func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With().Str("repo", "assessment").Logger(),
	}
}

// Init creates the runs table and its indexes if they do not exist.
func (s *Store) Init() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			params_version TEXT NOT NULL,
			exposure_count INTEGER NOT NULL,
			trade_count INTEGER NOT NULL,
			position_count INTEGER NOT NULL,
			total_rwa REAL NOT NULL,
			cet1_ratio REAL NOT NULL,
			synthetic INTEGER NOT NULL,
			snapshot BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize runs table: %w", err)
	}

	return nil
}

// RunSummary is the listing view of a stored run: identity plus headline
// figures, without the full snapshot.
type RunSummary struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	ParamsVersion string    `json:"params_version"`
	ExposureCount int       `json:"exposure_count"`
	TradeCount    int       `json:"trade_count"`
	PositionCount int       `json:"position_count"`
	TotalRWA      float64   `json:"total_rwa"`
	CET1Ratio     float64   `json:"cet1_ratio_pct"`
	Synthetic     bool      `json:"synthetic"`
}

// Save persists an assessment run.
func (s *Store) Save(a *domain.Assessment) error {
	snapshot, err := msgpack.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode assessment snapshot: %w", err)
	}

	query := `
		INSERT INTO runs
		(id, created_at, params_version, exposure_count, trade_count, position_count,
		 total_rwa, cet1_ratio, synthetic, snapshot)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		a.ID,
		a.CreatedAt.Unix(),
		a.ParamsVersion,
		a.ExposureCount,
		a.TradeCount,
		a.PositionCount,
		a.Capital.TotalRWA,
		a.Capital.CET1Ratio,
		boolToInt(a.Capital.Synthetic),
		snapshot,
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment run: %w", err)
	}

	s.log.Info().
		Str("run_id", a.ID).
		Float64("total_rwa", a.Capital.TotalRWA).
		Int("snapshot_bytes", len(snapshot)).
		Msg("Assessment run saved")

	return nil
}

// Get retrieves a stored run by ID. Returns ErrRunNotFound when no run with
// that ID exists.
func (s *Store) Get(id string) (*domain.Assessment, error) {
	query := "SELECT snapshot FROM runs WHERE id = ?"

	var snapshot []byte
	err := s.db.QueryRow(query, id).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment run: %w", err)
	}

	var a domain.Assessment
	if err := msgpack.Unmarshal(snapshot, &a); err != nil {
		return nil, fmt.Errorf("failed to decode assessment snapshot: %w", err)
	}

	return &a, nil
}

// Latest retrieves the most recently created run. Returns ErrRunNotFound
// when the store is empty.
func (s *Store) Latest() (*domain.Assessment, error) {
	query := "SELECT snapshot FROM runs ORDER BY created_at DESC, id DESC LIMIT 1"

	var snapshot []byte
	err := s.db.QueryRow(query).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest assessment run: %w", err)
	}

	var a domain.Assessment
	if err := msgpack.Unmarshal(snapshot, &a); err != nil {
		return nil, fmt.Errorf("failed to decode assessment snapshot: %w", err)
	}

	return &a, nil
}

// List returns run summaries, most recent first.
func (s *Store) List(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + summaryColumns + ` FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var (
			sum       RunSummary
			createdAt int64
			synthetic int
		)
		err := rows.Scan(
			&sum.ID,
			&createdAt,
			&sum.ParamsVersion,
			&sum.ExposureCount,
			&sum.TradeCount,
			&sum.PositionCount,
			&sum.TotalRWA,
			&sum.CET1Ratio,
			&synthetic,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment run: %w", err)
		}
		sum.CreatedAt = time.Unix(createdAt, 0).UTC()
		sum.Synthetic = synthetic != 0
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessment runs: %w", err)
	}

	return summaries, nil
}

// Count returns the number of stored runs.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assessment runs: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
