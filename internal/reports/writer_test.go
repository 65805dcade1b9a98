package reports

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/bulwark/internal/domain"
)

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	return NewWriter(t.TempDir(), zerolog.New(nil).Level(zerolog.Disabled))
}

func reportFixture() *domain.Assessment {
	return &domain.Assessment{
		ID:            "run-test",
		CreatedAt:     time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		ParamsVersion: "CRR3-2025.1",
		ExposureCount: 2,
		Credit: []domain.RWAResult{
			{ExposureID: "EXP-0001", Entity: "bank_eu", Class: domain.ClassCorporate, Approach: domain.ApproachIRBFoundation, EAD: 1000000, RWA: 650000, Density: 0.65, RiskWeight: 0.65},
			{ExposureID: "EXP-0002", Entity: "bank_us", Class: domain.ClassSovereign, Approach: domain.ApproachStandardised, EAD: 500000, RWA: 0, Density: 0, RiskWeight: 0},
		},
		Liquidity: domain.LiquidityReport{
			LCR:  []domain.LCRResult{{Entity: "bank_eu", Ratio: 252, SentinelCapped: false}},
			NSFR: []domain.NSFRResult{{Entity: "bank_eu", Ratio: 125.37, SentinelCapped: false}},
			Ladders: []domain.MaturityLadder{
				{
					Entity: "bank_eu",
					Buckets: []domain.ALMMBucket{
						{Label: "0-1M", Assets: 300, Liabilities: 700, Net: -400},
						{Label: "1-3M", Assets: 0, Liabilities: 0, Net: 0},
					},
				},
			},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteRWA(t *testing.T) {
	w := newTestWriter(t)
	a := reportFixture()

	path, err := w.WriteRWA(a.ID, a.Credit)
	require.NoError(t, err)
	assert.Equal(t, "rwa-run-test.csv", filepath.Base(path))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"exposure_id", "entity", "class", "approach", "ead", "rwa", "density", "risk_weight"}, rows[0])
	assert.Equal(t, "EXP-0001", rows[1][0])
	assert.Equal(t, "corporate", rows[1][2])
	assert.Equal(t, "IRB-Foundation", rows[1][3])
	assert.Equal(t, "650000", rows[1][5])
	assert.Equal(t, "EXP-0002", rows[2][0])
	assert.Equal(t, "0", rows[2][5])
}

func TestWriteLiquidity(t *testing.T) {
	w := newTestWriter(t)
	a := reportFixture()

	path, err := w.WriteLiquidity(a.ID, a.Liquidity)
	require.NoError(t, err)

	rows := readCSV(t, path)
	// Header + 1 LCR + 1 NSFR + 2 ladder buckets.
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"entity", "metric", "value", "sentinel_capped"}, rows[0])
	assert.Equal(t, []string{"bank_eu", "lcr", "252", "false"}, rows[1])
	assert.Equal(t, []string{"bank_eu", "nsfr", "125.37", "false"}, rows[2])
	assert.Equal(t, []string{"bank_eu", "almm_net[0-1M]", "-400", "false"}, rows[3])
	assert.Equal(t, []string{"bank_eu", "almm_net[1-3M]", "0", "false"}, rows[4])
}

func TestWriteAssessment(t *testing.T) {
	w := newTestWriter(t)
	a := reportFixture()

	path, err := w.WriteAssessment(a)
	require.NoError(t, err)
	assert.Equal(t, "assessment-run-test.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded domain.Assessment
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, a.ID, decoded.ID)
	assert.Equal(t, a.ParamsVersion, decoded.ParamsVersion)
	require.Len(t, decoded.Credit, 2)
	assert.InDelta(t, 650000.0, decoded.Credit[0].RWA, 1e-9)
}

func TestWriteAll(t *testing.T) {
	w := newTestWriter(t)
	a := reportFixture()

	paths, err := w.WriteAll(a)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	for _, path := range paths {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestWriteAll_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	w := NewWriter(dir, zerolog.New(nil).Level(zerolog.Disabled))

	_, err := w.WriteAll(reportFixture())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
