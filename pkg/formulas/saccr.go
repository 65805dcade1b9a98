package formulas

import "math"

// SACCRMultiplier calculates the PFE multiplier recognizing overcollateralization
// and negative mark-to-market:
//
//	multiplier = min(1, floor + (1−floor)·exp(−V / (2·(1−floor)·AddOn)))
//
// where V is the net mark-to-market of the portfolio and AddOn the aggregate
// add-on. The multiplier is 1 exactly when V ≤ 0 or AddOn = 0 (no mitigation
// benefit to apply) and lies in (floor, 1) otherwise.
func SACCRMultiplier(netMTM, addOn, floor float64) float64 {
	if netMTM <= 0 || addOn == 0 {
		return 1
	}
	m := floor + (1-floor)*math.Exp(-netMTM/(2*(1-floor)*addOn))
	return math.Min(1, m)
}

// BACVACapital calculates the Basic Approach CVA capital charge:
//
//	K = quantile × √(Σᵢ termᵢ²)
//
// over per-counterparty terms weightᵢ×maturityᵢ×EADᵢ. The square-root of the
// sum of squares is order-independent and strictly increasing in every term.
func BACVACapital(terms []float64, quantile float64) float64 {
	var sumSquares float64
	for _, t := range terms {
		sumSquares += t * t
	}
	return quantile * math.Sqrt(sumSquares)
}

// DiscountFactor returns the continuously compounded discount factor e^(−r·t).
func DiscountFactor(rate, years float64) float64 {
	return math.Exp(-rate * years)
}

// MarginalDefaultProbability returns the probability of default occurring in
// (t−1, t] under a constant hazard rate λ:
//
//	ΔPD(t) = e^(−λ·(t−1)) − e^(−λ·t)
func MarginalDefaultProbability(hazard, t float64) float64 {
	return math.Exp(-hazard*(t-1)) - math.Exp(-hazard*t)
}
