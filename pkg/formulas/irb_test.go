package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalQuantile_999(t *testing.T) {
	// The Basel confidence level. Worked examples use z ≈ 3.09.
	z := NormalQuantile(0.999)
	assert.InDelta(t, 3.0902, z, 0.0005)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0001, Clamp(0.0, 0.0001, 0.9999))
	assert.Equal(t, 0.9999, Clamp(1.5, 0.0001, 0.9999))
	assert.Equal(t, 0.5, Clamp(0.5, 0.0001, 0.9999))
}

func TestIRBCapitalFactor_MonotonicInPD(t *testing.T) {
	z := NormalQuantile(0.999)

	prev := 0.0
	for _, pd := range []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.10, 0.20} {
		k := IRBCapitalFactor(pd, 0.45, 0.15, z)
		assert.GreaterOrEqual(t, k, prev, "capital factor must not decrease as PD rises (pd=%v)", pd)
		prev = k
	}
}

func TestIRBCapitalFactor_NeverNegative(t *testing.T) {
	z := NormalQuantile(0.999)

	for _, pd := range []float64{0.0001, 0.5, 0.9999} {
		k := IRBCapitalFactor(pd, 0.99, 0.01, z)
		assert.GreaterOrEqual(t, k, 0.0, "pd=%v", pd)
	}
}

func TestIRBCapitalFactor_RetailMortgageWorkedExample(t *testing.T) {
	// Same inputs as the engine-level scenario: PD=1.5%, LGD=20%, R=0.15.
	z := NormalQuantile(0.999)
	k := IRBCapitalFactor(0.015, 0.20, 0.15, z)

	// riskFactor = 0.20 × (0.015 + √0.15 × 3.0902 × √(0.015×0.985)) ≈ 0.032098
	// K = riskFactor − 0.003 ≈ 0.029098
	assert.InDelta(t, 0.0291, k, 0.0005)
}

func TestCorporateCorrelation_Bounds(t *testing.T) {
	// Low PD approaches the 0.24 ceiling, high PD the 0.12 floor.
	assert.InDelta(t, 0.24, CorporateCorrelation(0.0001), 0.002)
	assert.InDelta(t, 0.12, CorporateCorrelation(0.30), 0.001)

	mid := CorporateCorrelation(0.02)
	assert.Greater(t, mid, 0.12)
	assert.Less(t, mid, 0.24)
}

func TestFirmSizeAdjustment(t *testing.T) {
	// Smallest firms get the full 0.04 reduction, largest none.
	assert.InDelta(t, 0.04, FirmSizeAdjustment(1, 5, 45), 1e-12)
	assert.InDelta(t, 0.0, FirmSizeAdjustment(50, 5, 45), 1e-12)
	assert.InDelta(t, 0.02, FirmSizeAdjustment(27.5, 5, 45), 1e-12)
}

func TestMaturityAdjustment(t *testing.T) {
	// At M=1 the raw adjustment is below 1 and the floor binds.
	adj := MaturityAdjustment(0.01, 1.0, 1.0, 5.0)
	assert.Equal(t, 1.0, adj)

	// Longer maturities increase the adjustment.
	adj3 := MaturityAdjustment(0.01, 3.0, 1.0, 5.0)
	adj7 := MaturityAdjustment(0.01, 7.0, 1.0, 5.0)
	assert.Greater(t, adj3, 1.0)
	assert.Greater(t, adj7, adj3)
	assert.LessOrEqual(t, adj7, 5.0)
}

func TestMaturityAdjustment_CapBinds(t *testing.T) {
	// Tiny PD makes b large; extreme maturity pushes past the cap.
	adj := MaturityAdjustment(0.0001, 7.0, 1.0, 5.0)
	assert.LessOrEqual(t, adj, 5.0)
	assert.False(t, math.IsNaN(adj))
}
