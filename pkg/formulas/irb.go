package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalQuantile returns the inverse standard normal CDF at probability p.
// The IRB formulas evaluate it at the 99.9% confidence level (z ≈ 3.09).
func NormalQuantile(p float64) float64 {
	return distuv.Normal{Mu: 0, Sigma: 1}.Quantile(p)
}

// IRBCapitalFactor calculates the IRB Foundation capital factor K.
//
// Formula:
//
//	riskFactor = LGD × (PD + √R × z × √(PD×(1−PD)))
//	K          = max(0, riskFactor − PD×LGD)
//
// where R is the asset correlation and z the normal quantile at the
// confidence level. The PD×LGD subtraction removes the expected-loss
// component, leaving the unexpected-loss capital requirement.
// Inputs must already be clamped into their regulatory domains.
func IRBCapitalFactor(pd, lgd, correlation, z float64) float64 {
	riskFactor := lgd * (pd + math.Sqrt(correlation)*z*math.Sqrt(pd*(1-pd)))
	return math.Max(0, riskFactor-pd*lgd)
}

// CorporateCorrelation calculates the PD-dependent corporate asset
// correlation, interpolating between 0.24 (low PD) and 0.12 (high PD):
//
//	w = (1 − e^(−50·PD)) / (1 − e^(−50))
//	R = 0.12·w + 0.24·(1 − w)
func CorporateCorrelation(pd float64) float64 {
	w := (1 - math.Exp(-50*pd)) / (1 - math.Exp(-50))
	return 0.12*w + 0.24*(1-w)
}

// FirmSizeAdjustment returns the correlation reduction for smaller corporate
// obligors, using EAD in millions as the firm-size proxy mapped onto the
// 5–50M range. The reduction reaches 0.04 for the smallest firms and fades
// to zero at the top of the range.
func FirmSizeAdjustment(eadMillions, floorMillions, rangeMillions float64) float64 {
	share := Clamp((eadMillions-floorMillions)/rangeMillions, 0, 1)
	return 0.04 * (1 - share)
}

// MaturityAdjustment calculates the corporate maturity adjustment:
//
//	b   = (0.11852 − 0.05478·ln(PD))²
//	adj = (1 + (M − 2.5)·b) / (1 + 1.5·b)
//
// clamped into [floor, cap]. PD must be positive (callers clamp it first).
func MaturityAdjustment(pd, maturityYears, floor, cap float64) float64 {
	b := 0.11852 - 0.05478*math.Log(pd)
	b *= b
	adj := (1 + (maturityYears-2.5)*b) / (1 + 1.5*b)
	return Clamp(adj, floor, cap)
}
