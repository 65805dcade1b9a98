package capital

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/bulwark/internal/domain"
)

func newTestAggregator() *Aggregator {
	return NewAggregator(domain.DefaultRegulatoryParams().Capital, zerolog.New(nil).Level(zerolog.Disabled))
}

func TestComputeCapitalRatios_SuppliedOwnFunds(t *testing.T) {
	agg := newTestAggregator()

	rwa := []domain.RWAResult{
		{ExposureID: "E1", RWA: 3_000},
		{ExposureID: "E2", RWA: 4_000},
	}
	ownFunds := &domain.OwnFunds{CET1: 1_000, Tier1: 1_200, Total: 1_500, LeverageExposure: 10_000}

	result, err := agg.ComputeCapitalRatios(rwa, 1_000, ownFunds)
	require.NoError(t, err)

	assert.InDelta(t, 7_000, result.CreditRWA, 1e-9)
	assert.InDelta(t, 1_000, result.CounterpartyRWA, 1e-9)
	assert.InDelta(t, 8_000, result.TotalRWA, 1e-9)

	assert.InDelta(t, 12.5, result.CET1Ratio, 1e-9)
	assert.InDelta(t, 15.0, result.Tier1Ratio, 1e-9)
	assert.InDelta(t, 18.75, result.TotalCapitalRatio, 1e-9)
	assert.InDelta(t, 12.0, result.LeverageRatio, 1e-9)
	assert.False(t, result.Synthetic)
}

func TestComputeCapitalRatios_SyntheticFallback(t *testing.T) {
	agg := newTestAggregator()

	rwa := []domain.RWAResult{{ExposureID: "E1", RWA: 10_000}}

	result, err := agg.ComputeCapitalRatios(rwa, 0, nil)
	require.NoError(t, err)

	assert.True(t, result.Synthetic)
	assert.InDelta(t, 1_200, result.CET1Capital, 1e-9)
	assert.InDelta(t, 1_350, result.Tier1Capital, 1e-9)
	assert.InDelta(t, 1_500, result.TotalCapital, 1e-9)
	assert.InDelta(t, 100_000, result.LeverageExposure, 1e-9)

	// Synthetic shares come straight back out as the ratios.
	assert.InDelta(t, 12.0, result.CET1Ratio, 1e-9)
	assert.InDelta(t, 13.5, result.Tier1Ratio, 1e-9)
	assert.InDelta(t, 15.0, result.TotalCapitalRatio, 1e-9)
	assert.InDelta(t, 1.35, result.LeverageRatio, 1e-9)

	// Ordering holds by construction.
	assert.LessOrEqual(t, result.CET1Capital, result.Tier1Capital)
	assert.LessOrEqual(t, result.Tier1Capital, result.TotalCapital)
}

func TestComputeCapitalRatios_ZeroRWA(t *testing.T) {
	agg := newTestAggregator()

	result, err := agg.ComputeCapitalRatios(nil, 0, nil)
	require.NoError(t, err)

	assert.Zero(t, result.TotalRWA)
	assert.Zero(t, result.CET1Ratio)
	assert.Zero(t, result.Tier1Ratio)
	assert.Zero(t, result.TotalCapitalRatio)
	assert.Zero(t, result.LeverageRatio)
	assert.True(t, result.Synthetic)
}

func TestComputeCapitalRatios_ZeroRWAWithOwnFunds(t *testing.T) {
	agg := newTestAggregator()

	ownFunds := &domain.OwnFunds{CET1: 500, Tier1: 600, Total: 700, LeverageExposure: 0}

	result, err := agg.ComputeCapitalRatios(nil, 0, ownFunds)
	require.NoError(t, err)

	// Capital carries through but every ratio collapses to zero rather
	// than dividing by zero.
	assert.InDelta(t, 500, result.CET1Capital, 1e-9)
	assert.Zero(t, result.CET1Ratio)
	assert.Zero(t, result.LeverageRatio)
	assert.False(t, result.Synthetic)
}

func TestComputeCapitalRatios_CounterpartyOnlyRWA(t *testing.T) {
	agg := newTestAggregator()

	result, err := agg.ComputeCapitalRatios(nil, 2_500, nil)
	require.NoError(t, err)

	assert.Zero(t, result.CreditRWA)
	assert.InDelta(t, 2_500, result.TotalRWA, 1e-9)
	assert.InDelta(t, 12.0, result.CET1Ratio, 1e-9)
}

func TestComputeCapitalRatios_InvalidOwnFunds(t *testing.T) {
	agg := newTestAggregator()

	tests := []struct {
		name     string
		ownFunds domain.OwnFunds
		field    string
	}{
		{"negative cet1", domain.OwnFunds{CET1: -1, Tier1: 1, Total: 1, LeverageExposure: 1}, "cet1"},
		{"nan tier1", domain.OwnFunds{CET1: 1, Tier1: math.NaN(), Total: 1, LeverageExposure: 1}, "tier1"},
		{"negative total", domain.OwnFunds{CET1: 1, Tier1: 1, Total: -5, LeverageExposure: 1}, "total"},
		{"infinite leverage exposure", domain.OwnFunds{CET1: 1, Tier1: 1, Total: 1, LeverageExposure: math.Inf(1)}, "leverage_exposure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			of := tt.ownFunds
			_, err := agg.ComputeCapitalRatios(nil, 0, &of)

			var invErr *domain.InvalidExposureError
			require.ErrorAs(t, err, &invErr)
			assert.Equal(t, "own_funds", invErr.Dataset)
			require.Len(t, invErr.Violations, 1)
			assert.Equal(t, tt.field, invErr.Violations[0].Field)
		})
	}
}
