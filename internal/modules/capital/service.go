// Package capital aggregates engine RWA outputs and own funds into the
// headline capital ratios.
package capital

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/bulwark/internal/domain"
)

// Aggregator turns credit and counterparty RWA plus own funds into capital
// ratios. When no own-funds record is supplied it fabricates illustrative
// figures from total RWA and flags the result as synthetic.
type Aggregator struct {
	params domain.CapitalParams
	log    zerolog.Logger
}

// NewAggregator creates a capital ratio aggregator.
func NewAggregator(params domain.CapitalParams, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		params: params,
		log:    log.With().Str("service", "capital").Logger(),
	}
}

// ComputeCapitalRatios combines per-exposure credit RWA with the counterparty
// RWA contribution and expresses own funds as percentages of the total. Zero
// denominators yield ratio 0, never infinity.
func (a *Aggregator) ComputeCapitalRatios(rwa []domain.RWAResult, counterpartyRWA float64, ownFunds *domain.OwnFunds) (domain.CapitalRatios, error) {
	if ownFunds != nil {
		if err := validateOwnFunds(ownFunds); err != nil {
			return domain.CapitalRatios{}, err
		}
	}

	var creditRWA float64
	for _, r := range rwa {
		creditRWA += r.RWA
	}
	totalRWA := creditRWA + counterpartyRWA

	result := domain.CapitalRatios{
		TotalRWA:        totalRWA,
		CreditRWA:       creditRWA,
		CounterpartyRWA: counterpartyRWA,
	}

	if ownFunds == nil {
		// Illustrative capital derived from RWA itself. The flag travels with
		// the result so no consumer can present these figures as real.
		result.Synthetic = true
		result.CET1Capital = a.params.SyntheticCET1Share * totalRWA
		result.Tier1Capital = a.params.SyntheticTier1Share * totalRWA
		result.TotalCapital = a.params.SyntheticTotalShare * totalRWA
		result.LeverageExposure = a.params.SyntheticLeverageTimes * totalRWA
	} else {
		result.CET1Capital = ownFunds.CET1
		result.Tier1Capital = ownFunds.Tier1
		result.TotalCapital = ownFunds.Total
		result.LeverageExposure = ownFunds.LeverageExposure
	}

	result.CET1Ratio = ratio(result.CET1Capital, totalRWA)
	result.Tier1Ratio = ratio(result.Tier1Capital, totalRWA)
	result.TotalCapitalRatio = ratio(result.TotalCapital, totalRWA)
	result.LeverageRatio = ratio(result.Tier1Capital, result.LeverageExposure)

	a.log.Info().
		Float64("total_rwa", totalRWA).
		Float64("cet1_ratio", result.CET1Ratio).
		Bool("synthetic", result.Synthetic).
		Msg("capital ratios computed")

	return result, nil
}

// ratio expresses component over denominator in percent, 0 on a zero
// denominator.
func ratio(component, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return component / denominator * 100
}

func validateOwnFunds(of *domain.OwnFunds) error {
	components := []struct {
		field string
		value float64
	}{
		{"cet1", of.CET1},
		{"tier1", of.Tier1},
		{"total", of.Total},
		{"leverage_exposure", of.LeverageExposure},
	}

	var violations []domain.FieldViolation
	for _, c := range components {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			violations = append(violations, domain.FieldViolation{RecordID: "own_funds", Field: c.field, Reason: "is not a finite number"})
		} else if c.value < 0 {
			violations = append(violations, domain.FieldViolation{RecordID: "own_funds", Field: c.field, Reason: "must not be negative"})
		}
	}
	if len(violations) > 0 {
		return &domain.InvalidExposureError{Dataset: "own_funds", Violations: violations}
	}
	return nil
}
