// Package creditrisk implements the credit-risk RWA engine. Each exposure is
// mapped to a risk-weighted amount using the IRB Foundation formulas (retail,
// corporate, SME) or the standardised PD-bucket tables (sovereign, bank,
// other), selected by the exposure class.
package creditrisk

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/aristath/bulwark/pkg/formulas"
)

// Engine computes per-exposure risk-weighted amounts. It is a pure function
// of its input: no I/O, no clocks, no shared mutable state, so a single
// instance is safe for concurrent use.
type Engine struct {
	params domain.CreditParams
	z      float64
	log    zerolog.Logger
}

// NewEngine creates a credit risk engine with the given regulatory parameter
// set. The normal quantile at the confidence level is evaluated once here.
func NewEngine(params domain.CreditParams, log zerolog.Logger) *Engine {
	return &Engine{
		params: params,
		z:      formulas.NormalQuantile(params.ConfidenceLevel),
		log:    log.With().Str("service", "creditrisk").Logger(),
	}
}

// CalculateRWA maps every exposure to an RWA result, preserving input order.
// An empty input yields an empty result. Validation covers the whole dataset
// before any computation: missing required fields fail with
// *domain.MissingFieldError, malformed numerics with
// *domain.InvalidExposureError. Rows are never silently skipped.
func (e *Engine) CalculateRWA(exposures []domain.Exposure) ([]domain.RWAResult, error) {
	if len(exposures) == 0 {
		return []domain.RWAResult{}, nil
	}

	if err := validateExposures(exposures); err != nil {
		return nil, err
	}

	e.log.Debug().Int("exposures", len(exposures)).Msg("Calculating RWA")

	results := make([]domain.RWAResult, 0, len(exposures))
	totalRWA := 0.0
	for _, exp := range exposures {
		res := e.calculate(exp)
		totalRWA += res.RWA
		results = append(results, res)
	}

	e.log.Info().
		Int("exposures", len(exposures)).
		Float64("total_rwa", totalRWA).
		Msg("RWA calculation complete")

	return results, nil
}

// calculate routes one exposure to its formula family by exposure class.
func (e *Engine) calculate(exp domain.Exposure) domain.RWAResult {
	switch exp.Class {
	case domain.ClassRetailMortgage:
		return e.irbRetail(exp, e.params.RetailMortgageCorrelation)
	case domain.ClassRetailOther:
		return e.irbRetail(exp, e.params.RetailOtherCorrelation)
	case domain.ClassCorporate:
		return e.irbCorporate(exp)
	case domain.ClassSME:
		return e.irbSME(exp)
	case domain.ClassSovereign:
		return e.standardised(exp, e.params.SovereignWeights)
	case domain.ClassBank:
		return e.standardised(exp, e.params.BankWeights)
	default:
		return e.flatWeight(exp)
	}
}

// irbRetail applies the IRB Foundation retail formula with a fixed asset
// correlation per sub-class. Retail carries no maturity adjustment.
func (e *Engine) irbRetail(exp domain.Exposure, correlation float64) domain.RWAResult {
	k := e.capitalFactor(exp.PD, exp.LGD, correlation)
	rwa := k * e.params.RWAScalar * exp.EAD
	return e.result(exp, domain.ApproachIRBFoundation, rwa, 0)
}

// irbCorporate applies the corporate IRB formula: PD-dependent correlation
// reduced by the firm-size proxy, plus the b-factor maturity adjustment for
// maturities beyond one year.
func (e *Engine) irbCorporate(exp domain.Exposure) domain.RWAResult {
	p := e.params
	pd := formulas.Clamp(exp.PD, p.PDFloor, p.PDCap)
	maturity := formulas.Clamp(exp.MaturityYears, p.MaturityFloor, p.MaturityCap)

	correlation := formulas.CorporateCorrelation(pd)
	correlation -= formulas.FirmSizeAdjustment(exp.EAD/1e6, p.FirmSizeFloorMillions, p.FirmSizeRangeMillions)
	correlation = formulas.Clamp(correlation, p.CorporateCorrelationFloor, p.CorporateCorrelationCap)

	k := e.capitalFactor(pd, exp.LGD, correlation)

	adjustment := 1.0
	if maturity > p.MaturityAdjustmentGateYear {
		adjustment = formulas.MaturityAdjustment(pd, maturity, p.MaturityAdjustmentFloor, p.MaturityAdjustmentCap)
	}

	rwa := k * adjustment * p.RWAScalar * exp.EAD
	return e.result(exp, domain.ApproachIRBFoundation, rwa, 0)
}

// irbSME applies the corporate correlation without the firm-size adjustment,
// no maturity adjustment, and the SME supporting factor on the final RWA.
func (e *Engine) irbSME(exp domain.Exposure) domain.RWAResult {
	p := e.params
	pd := formulas.Clamp(exp.PD, p.PDFloor, p.PDCap)

	correlation := formulas.Clamp(formulas.CorporateCorrelation(pd), p.CorporateCorrelationFloor, p.CorporateCorrelationCap)
	k := e.capitalFactor(pd, exp.LGD, correlation)

	rwa := k * p.RWAScalar * exp.EAD * p.SMESupportingFactor
	return e.result(exp, domain.ApproachIRBSME, rwa, 0)
}

// standardised selects a risk weight from the PD bucket table and applies it
// to the exposure amount.
func (e *Engine) standardised(exp domain.Exposure, table []domain.PDBucketWeight) domain.RWAResult {
	pd := formulas.Clamp(exp.PD, e.params.PDFloor, e.params.PDCap)

	weight := e.params.FallbackWeight
	for _, bucket := range table {
		if pd <= bucket.MaxPD {
			weight = bucket.Weight
			break
		}
	}

	return e.result(exp, domain.ApproachStandardised, exp.EAD*weight, weight)
}

// flatWeight is the standardised safe default for unclassified exposures.
func (e *Engine) flatWeight(exp domain.Exposure) domain.RWAResult {
	weight := e.params.OtherRiskWeight
	return e.result(exp, domain.ApproachStandardised, exp.EAD*weight, weight)
}

// capitalFactor clamps PD, LGD and correlation into their regulatory domains
// and evaluates the IRB capital factor K.
func (e *Engine) capitalFactor(pd, lgd, correlation float64) float64 {
	p := e.params
	pd = formulas.Clamp(pd, p.PDFloor, p.PDCap)
	lgd = formulas.Clamp(lgd, p.LGDFloor, p.LGDCap)
	correlation = formulas.Clamp(correlation, p.CorrelationFloor, p.CorrelationCap)
	return formulas.IRBCapitalFactor(pd, lgd, correlation, e.z)
}

func (e *Engine) result(exp domain.Exposure, approach domain.Approach, rwa, riskWeight float64) domain.RWAResult {
	density := 0.0
	if exp.EAD != 0 {
		density = rwa / exp.EAD * 100
	}
	return domain.RWAResult{
		ExposureID: exp.ID,
		Entity:     exp.Entity,
		Class:      exp.Class,
		Approach:   approach,
		EAD:        exp.EAD,
		RWA:        rwa,
		Density:    density,
		RiskWeight: riskWeight,
	}
}

// validateExposures checks the whole dataset up front: first for absent
// required fields, then for malformed numerics. Zero PD and zero maturity are
// treated as absent; zero EAD is a legitimate exposure of zero size.
func validateExposures(exposures []domain.Exposure) error {
	var missing []string
	for _, exp := range exposures {
		if exp.ID == "" {
			missing = append(missing, "id")
		}
		if exp.Entity == "" {
			missing = append(missing, "entity")
		}
		if exp.Class == "" {
			missing = append(missing, "class")
		}
		if exp.PD == 0 {
			missing = append(missing, "pd")
		}
		if exp.MaturityYears == 0 {
			missing = append(missing, "maturity_years")
		}
	}
	if len(missing) > 0 {
		return domain.NewMissingFieldError("exposures", missing...)
	}

	var violations []domain.FieldViolation
	for _, exp := range exposures {
		violations = append(violations, exposureViolations(exp)...)
	}
	if len(violations) > 0 {
		return &domain.InvalidExposureError{Dataset: "exposures", Violations: violations}
	}
	return nil
}

func exposureViolations(exp domain.Exposure) []domain.FieldViolation {
	var violations []domain.FieldViolation

	add := func(field, reason string) {
		violations = append(violations, domain.FieldViolation{RecordID: exp.ID, Field: field, Reason: reason})
	}

	if !exp.Class.Valid() {
		add("class", fmt.Sprintf("unrecognized exposure class %q", string(exp.Class)))
	}

	numeric := []struct {
		field string
		value float64
	}{
		{"ead", exp.EAD},
		{"pd", exp.PD},
		{"lgd", exp.LGD},
		{"maturity_years", exp.MaturityYears},
	}
	for _, n := range numeric {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
			add(n.field, "is not a finite number")
		}
	}

	if exp.EAD < 0 {
		add("ead", "must not be negative")
	}
	if exp.PD < 0 || exp.PD > 1 {
		add("pd", "must be within [0, 1]")
	}
	if exp.LGD < 0 || exp.LGD > 1 {
		add("lgd", "must be within [0, 1]")
	}
	if exp.MaturityYears < 0 {
		add("maturity_years", "must not be negative")
	}

	return violations
}
