package creditrisk

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/bulwark/internal/domain"
)

func newTestEngine() *Engine {
	return NewEngine(domain.DefaultRegulatoryParams().Credit, zerolog.New(nil).Level(zerolog.Disabled))
}

func validExposure() domain.Exposure {
	return domain.Exposure{
		ID:            "EXP-001",
		Entity:        "bank_eu",
		Class:         domain.ClassRetailMortgage,
		EAD:           200_000,
		PD:            0.015,
		LGD:           0.20,
		MaturityYears: 15,
	}
}

func TestCalculateRWA_EmptyInput(t *testing.T) {
	engine := newTestEngine()

	results, err := engine.CalculateRWA(nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCalculateRWA_RetailMortgageWorkedExample(t *testing.T) {
	engine := newTestEngine()

	results, err := engine.CalculateRWA([]domain.Exposure{validExposure()})
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, "EXP-001", res.ExposureID)
	assert.Equal(t, domain.ApproachIRBFoundation, res.Approach)

	// K = max(0, LGD×(PD + √0.15×z×√(PD(1−PD))) − PD×LGD) ≈ 0.029096,
	// RWA = K × 12.5 × 200,000 ≈ 72,740.
	assert.InDelta(t, 72_740, res.RWA, 5)
	assert.InDelta(t, 36.37, res.Density, 0.01)
	assert.GreaterOrEqual(t, res.Density, 15.0)
	assert.LessOrEqual(t, res.Density, 40.0)
}

func TestCalculateRWA_ZeroEAD(t *testing.T) {
	engine := newTestEngine()

	for _, class := range domain.AllExposureClasses {
		exp := validExposure()
		exp.Class = class
		exp.EAD = 0

		results, err := engine.CalculateRWA([]domain.Exposure{exp})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Zero(t, results[0].RWA, "class %s", class)
		assert.Zero(t, results[0].Density, "class %s", class)
	}
}

func TestCalculateRWA_RetailCapitalMonotonicInPD(t *testing.T) {
	engine := newTestEngine()

	prev := -1.0
	for _, pd := range []float64{0.001, 0.005, 0.01, 0.03, 0.08, 0.20} {
		exp := validExposure()
		exp.PD = pd

		results, err := engine.CalculateRWA([]domain.Exposure{exp})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, results[0].RWA, prev, "pd=%v", pd)
		prev = results[0].RWA
	}
}

func TestCalculateRWA_SovereignBuckets(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name   string
		pd     float64
		weight float64
	}{
		{"top quality", 0.0005, 0.0},
		{"second bucket", 0.003, 0.20},
		{"third bucket", 0.008, 0.50},
		{"fourth bucket", 0.02, 1.00},
		{"fallback", 0.10, 1.50},
	}

	prev := -1.0
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := validExposure()
			exp.Class = domain.ClassSovereign
			exp.PD = tt.pd
			exp.EAD = 1_000_000

			results, err := engine.CalculateRWA([]domain.Exposure{exp})
			require.NoError(t, err)

			res := results[0]
			assert.Equal(t, domain.ApproachStandardised, res.Approach)
			assert.Equal(t, tt.weight, res.RiskWeight)
			assert.InDelta(t, 1_000_000*tt.weight, res.RWA, 1e-9)
			assert.GreaterOrEqual(t, res.RWA, prev, "weights are monotonic in PD bucket")
			prev = res.RWA
		})
	}
}

func TestCalculateRWA_BankBuckets(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		pd     float64
		weight float64
	}{
		{0.001, 0.20},
		{0.005, 0.50},
		{0.015, 1.00},
		{0.05, 1.50},
	}

	for _, tt := range tests {
		exp := validExposure()
		exp.Class = domain.ClassBank
		exp.PD = tt.pd
		exp.EAD = 500_000

		results, err := engine.CalculateRWA([]domain.Exposure{exp})
		require.NoError(t, err)
		assert.Equal(t, tt.weight, results[0].RiskWeight, "pd=%v", tt.pd)
	}
}

func TestCalculateRWA_OtherClassFlatWeight(t *testing.T) {
	engine := newTestEngine()

	exp := validExposure()
	exp.Class = domain.ClassOther
	exp.EAD = 750_000

	results, err := engine.CalculateRWA([]domain.Exposure{exp})
	require.NoError(t, err)
	assert.Equal(t, domain.ApproachStandardised, results[0].Approach)
	assert.Equal(t, 1.0, results[0].RiskWeight)
	assert.InDelta(t, 750_000, results[0].RWA, 1e-9)
}

func TestCalculateRWA_SMESupportingFactor(t *testing.T) {
	engine := newTestEngine()

	// At 50M EAD the firm-size adjustment is zero, so the SME number is the
	// corporate number (maturity 1, no adjustment) times the supporting factor.
	corporate := validExposure()
	corporate.Class = domain.ClassCorporate
	corporate.EAD = 50_000_000
	corporate.MaturityYears = 1

	sme := corporate
	sme.Class = domain.ClassSME

	corpResults, err := engine.CalculateRWA([]domain.Exposure{corporate})
	require.NoError(t, err)
	smeResults, err := engine.CalculateRWA([]domain.Exposure{sme})
	require.NoError(t, err)

	assert.Equal(t, domain.ApproachIRBSME, smeResults[0].Approach)
	assert.InDelta(t, corpResults[0].RWA*0.7619, smeResults[0].RWA, 1e-6)
}

func TestCalculateRWA_CorporateMaturityAdjustmentIncreasesRWA(t *testing.T) {
	engine := newTestEngine()

	short := validExposure()
	short.Class = domain.ClassCorporate
	short.MaturityYears = 1

	long := short
	long.MaturityYears = 5

	shortResults, err := engine.CalculateRWA([]domain.Exposure{short})
	require.NoError(t, err)
	longResults, err := engine.CalculateRWA([]domain.Exposure{long})
	require.NoError(t, err)

	assert.Greater(t, longResults[0].RWA, shortResults[0].RWA)
}

func TestCalculateRWA_ExtremePDsClampInsteadOfFailing(t *testing.T) {
	engine := newTestEngine()

	// PD at the edges of [0,1] saturates into the regulatory domain; the
	// formulas stay finite.
	for _, pd := range []float64{1e-9, 1.0} {
		exp := validExposure()
		exp.PD = pd

		results, err := engine.CalculateRWA([]domain.Exposure{exp})
		require.NoError(t, err, "pd=%v", pd)
		assert.False(t, math.IsNaN(results[0].RWA), "pd=%v", pd)
		assert.False(t, math.IsInf(results[0].RWA, 0), "pd=%v", pd)
		assert.GreaterOrEqual(t, results[0].RWA, 0.0, "pd=%v", pd)
	}
}

func TestCalculateRWA_MissingFields(t *testing.T) {
	engine := newTestEngine()

	exp := domain.Exposure{EAD: 1000, LGD: 0.4}
	_, err := engine.CalculateRWA([]domain.Exposure{exp})

	var missingErr *domain.MissingFieldError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "exposures", missingErr.Dataset)
	assert.ElementsMatch(t, []string{"id", "entity", "class", "pd", "maturity_years"}, missingErr.Fields)
}

func TestCalculateRWA_InvalidNumerics(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name   string
		mutate func(*domain.Exposure)
		field  string
	}{
		{"negative EAD", func(e *domain.Exposure) { e.EAD = -100 }, "ead"},
		{"NaN EAD", func(e *domain.Exposure) { e.EAD = math.NaN() }, "ead"},
		{"PD above one", func(e *domain.Exposure) { e.PD = 1.2 }, "pd"},
		{"negative LGD", func(e *domain.Exposure) { e.LGD = -0.1 }, "lgd"},
		{"infinite maturity", func(e *domain.Exposure) { e.MaturityYears = math.Inf(1) }, "maturity_years"},
		{"unknown class", func(e *domain.Exposure) { e.Class = "structured_note" }, "class"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := validExposure()
			tt.mutate(&exp)

			_, err := engine.CalculateRWA([]domain.Exposure{exp})

			var invalidErr *domain.InvalidExposureError
			require.ErrorAs(t, err, &invalidErr)
			assert.Equal(t, "exposures", invalidErr.Dataset)
			require.NotEmpty(t, invalidErr.Violations)
			assert.Equal(t, "EXP-001", invalidErr.Violations[0].RecordID)
			assert.Equal(t, tt.field, invalidErr.Violations[0].Field)
		})
	}
}

func TestCalculateRWA_Deterministic(t *testing.T) {
	engine := newTestEngine()

	exposures := []domain.Exposure{
		validExposure(),
		{ID: "EXP-002", Entity: "bank_eu", Class: domain.ClassCorporate, EAD: 3_000_000, PD: 0.02, LGD: 0.45, MaturityYears: 4},
		{ID: "EXP-003", Entity: "bank_us", Class: domain.ClassSovereign, EAD: 10_000_000, PD: 0.004, LGD: 0.45, MaturityYears: 10},
	}

	first, err := engine.CalculateRWA(exposures)
	require.NoError(t, err)
	second, err := engine.CalculateRWA(exposures)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
