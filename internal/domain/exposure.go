// Package domain provides the shared value types, enumerations, regulatory
// parameters and error taxonomy used by the risk engines.
package domain

// ExposureClass identifies the regulatory exposure class of a credit exposure.
// The class selects the RWA formula family: retail and corporate/SME classes
// route to IRB Foundation, sovereign and bank to the standardised tables,
// anything else to a flat standardised weight.
type ExposureClass string

const (
	ClassRetailMortgage ExposureClass = "retail_mortgage"
	ClassRetailOther    ExposureClass = "retail_other"
	ClassCorporate      ExposureClass = "corporate"
	ClassSME            ExposureClass = "sme"
	ClassSovereign      ExposureClass = "sovereign"
	ClassBank           ExposureClass = "bank"
	ClassOther          ExposureClass = "other"
)

// AllExposureClasses lists every recognized exposure class.
var AllExposureClasses = []ExposureClass{
	ClassRetailMortgage,
	ClassRetailOther,
	ClassCorporate,
	ClassSME,
	ClassSovereign,
	ClassBank,
	ClassOther,
}

// Valid reports whether the class is one of the recognized values.
func (c ExposureClass) Valid() bool {
	switch c {
	case ClassRetailMortgage, ClassRetailOther, ClassCorporate, ClassSME,
		ClassSovereign, ClassBank, ClassOther:
		return true
	}
	return false
}

// Approach identifies the RWA methodology applied to an exposure.
type Approach string

const (
	ApproachIRBFoundation Approach = "IRB-Foundation"
	ApproachIRBSME        Approach = "IRB-SME"
	ApproachStandardised  Approach = "Standardised"
)

// Exposure is a single credit exposure row. Produced by a supplier
// (file loader or generator), consumed read-only by the credit risk engine.
type Exposure struct {
	ID            string        `json:"id" yaml:"id" validate:"required"`
	Entity        string        `json:"entity" yaml:"entity" validate:"required"`
	Class         ExposureClass `json:"class" yaml:"class" validate:"required,oneof=retail_mortgage retail_other corporate sme sovereign bank other"`
	EAD           float64       `json:"ead" yaml:"ead" validate:"gte=0"`
	PD            float64       `json:"pd" yaml:"pd" validate:"gte=0,lte=1"`
	LGD           float64       `json:"lgd" yaml:"lgd" validate:"gte=0,lte=1"`
	MaturityYears float64       `json:"maturity_years" yaml:"maturity_years" validate:"gte=0"`
}

// RWAResult is the per-exposure output of the credit risk engine.
// Density is RWA/EAD expressed in percent, 0 when EAD is 0.
// RiskWeight is populated on standardised rows only.
type RWAResult struct {
	ExposureID string        `json:"exposure_id"`
	Entity     string        `json:"entity"`
	Class      ExposureClass `json:"class"`
	Approach   Approach      `json:"approach"`
	EAD        float64       `json:"ead"`
	RWA        float64       `json:"rwa"`
	Density    float64       `json:"density_pct"`
	RiskWeight float64       `json:"risk_weight,omitempty"`
}
