// Package formulas provides the pure regulatory math used by the risk
// engines: IRB Foundation capital factors, SA-CCR aggregation terms and the
// BA-CVA charge. Functions here are free of I/O and logging and operate on
// plain float64 values so they can be unit-tested against worked examples.
package formulas

// Clamp saturates v into [lo, hi]. Regulatory formulas clamp their inputs
// into documented domains before evaluation; saturation is a formula
// convention, never an error.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
