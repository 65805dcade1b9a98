package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSACCRMultiplier_OneWhenNetMTMNotPositive(t *testing.T) {
	assert.Equal(t, 1.0, SACCRMultiplier(0, 1000, 0.05))
	assert.Equal(t, 1.0, SACCRMultiplier(-500, 1000, 0.05))
}

func TestSACCRMultiplier_OneWhenAddOnZero(t *testing.T) {
	assert.Equal(t, 1.0, SACCRMultiplier(500, 0, 0.05))
}

func TestSACCRMultiplier_InUnitIntervalForPositiveMTM(t *testing.T) {
	for _, v := range []float64{1, 100, 1e4, 1e8} {
		m := SACCRMultiplier(v, 1000, 0.05)
		assert.Greater(t, m, 0.05, "multiplier stays above the floor (v=%v)", v)
		assert.Less(t, m, 1.0, "multiplier is below 1 on positive net MTM (v=%v)", v)
	}
}

func TestSACCRMultiplier_DecreasingInNetMTM(t *testing.T) {
	m1 := SACCRMultiplier(100, 1000, 0.05)
	m2 := SACCRMultiplier(1000, 1000, 0.05)
	m3 := SACCRMultiplier(10000, 1000, 0.05)
	assert.Greater(t, m1, m2)
	assert.Greater(t, m2, m3)
}

func TestBACVACapital(t *testing.T) {
	// Single term: K = 2.33 × |term|.
	assert.InDelta(t, 2.33*100, BACVACapital([]float64{100}, 2.33), 1e-9)

	// 3-4-5 triangle keeps the arithmetic exact.
	assert.InDelta(t, 2.33*5, BACVACapital([]float64{3, 4}, 2.33), 1e-9)

	// Empty input carries no charge.
	assert.Equal(t, 0.0, BACVACapital(nil, 2.33))
}

func TestBACVACapital_StrictlyIncreasingPerTerm(t *testing.T) {
	base := BACVACapital([]float64{100, 200}, 2.33)
	bumped := BACVACapital([]float64{101, 200}, 2.33)
	assert.Greater(t, bumped, base)
}

func TestMarginalDefaultProbability_SumsToCumulative(t *testing.T) {
	hazard := 0.04
	var sum float64
	for tYears := 1.0; tYears <= 5; tYears++ {
		sum += MarginalDefaultProbability(hazard, tYears)
	}
	// Σ ΔPD(1..5) telescopes to 1 − e^(−5λ).
	assert.InDelta(t, 1-DiscountFactor(hazard, 5), sum, 1e-12)
}
