package domain

// AssetClass identifies the SA-CCR asset class of a derivative trade.
type AssetClass string

const (
	AssetInterestRate AssetClass = "interest_rate"
	AssetFX           AssetClass = "fx"
	AssetEquity       AssetClass = "equity"
	AssetCommodity    AssetClass = "commodity"
	AssetCredit       AssetClass = "credit"
)

// AllAssetClasses lists every recognized asset class in canonical reporting
// order.
var AllAssetClasses = []AssetClass{
	AssetInterestRate,
	AssetFX,
	AssetEquity,
	AssetCommodity,
	AssetCredit,
}

// Valid reports whether the asset class is recognized.
func (a AssetClass) Valid() bool {
	switch a {
	case AssetInterestRate, AssetFX, AssetEquity, AssetCommodity, AssetCredit:
		return true
	}
	return false
}

// MaturityBucket is the supervisory maturity bucket for interest-rate trades.
type MaturityBucket string

const (
	BucketShort  MaturityBucket = "0-1Y"
	BucketMedium MaturityBucket = "1-5Y"
	BucketLong   MaturityBucket = "5Y+"
)

// AllMaturityBuckets lists the supervisory maturity buckets in ascending
// order.
var AllMaturityBuckets = []MaturityBucket{BucketShort, BucketMedium, BucketLong}

// Valid reports whether the maturity bucket is recognized.
func (b MaturityBucket) Valid() bool {
	switch b {
	case BucketShort, BucketMedium, BucketLong:
		return true
	}
	return false
}

// Rating is the credit quality band of a credit-derivative reference.
type Rating string

const (
	RatingInvestmentGrade Rating = "IG"
	RatingHighYield       Rating = "HY"
)

// Valid reports whether the rating is recognized.
func (r Rating) Valid() bool {
	return r == RatingInvestmentGrade || r == RatingHighYield
}

// Trade is a single derivative trade row. Every trade belongs to exactly one
// netting set. MaturityBucket is required for interest-rate trades, Rating for
// credit trades; both are ignored elsewhere.
type Trade struct {
	ID             string         `json:"id" yaml:"id" validate:"required"`
	NettingSet     string         `json:"netting_set" yaml:"netting_set" validate:"required"`
	AssetClass     AssetClass     `json:"asset_class" yaml:"asset_class" validate:"required,oneof=interest_rate fx equity commodity credit"`
	Notional       float64        `json:"notional" yaml:"notional" validate:"gte=0"`
	MaturityBucket MaturityBucket `json:"maturity_bucket,omitempty" yaml:"maturity_bucket,omitempty" validate:"omitempty,oneof=0-1Y 1-5Y 5Y+"`
	Rating         Rating         `json:"rating,omitempty" yaml:"rating,omitempty" validate:"omitempty,oneof=IG HY"`
	MTM            float64        `json:"mtm" yaml:"mtm"`
}

// Collateral is collateral received against one netting set.
type Collateral struct {
	NettingSet string  `json:"netting_set" yaml:"netting_set" validate:"required"`
	Amount     float64 `json:"amount" yaml:"amount" validate:"gte=0"`
}

// AssetClassAddOn is the PFE add-on contribution of one asset class.
type AssetClassAddOn struct {
	AssetClass AssetClass `json:"asset_class"`
	AddOn      float64    `json:"add_on"`
}

// NettingSetRC is the replacement cost contribution of one netting set.
type NettingSetRC struct {
	NettingSet      string  `json:"netting_set"`
	ReplacementCost float64 `json:"replacement_cost"`
}

// SACCRResult is the portfolio-level output of the SA-CCR computation.
// Replacement cost aggregates per netting set; PFE add-ons aggregate per
// asset class across the whole supplied portfolio.
type SACCRResult struct {
	ReplacementCost float64           `json:"replacement_cost"`
	NettingSets     []NettingSetRC    `json:"netting_sets"`
	AddOns          []AssetClassAddOn `json:"add_ons"`
	AddOnTotal      float64           `json:"add_on_total"`
	NetMTM          float64           `json:"net_mtm"`
	Multiplier      float64           `json:"multiplier"`
	Alpha           float64           `json:"alpha"`
	PFE             float64           `json:"pfe"`
	EAD             float64           `json:"ead"`
	RWA             float64           `json:"rwa"`
	TradeCount      int               `json:"trade_count"`
}

// CounterpartyExposure is one counterparty's EAD input to the BA-CVA charge.
// Weight and Maturity default to 1.0 when left at zero.
type CounterpartyExposure struct {
	Counterparty  string  `json:"counterparty" yaml:"counterparty"`
	EAD           float64 `json:"ead" yaml:"ead"`
	Weight        float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	MaturityYears float64 `json:"maturity_years,omitempty" yaml:"maturity_years,omitempty"`
}

// CVATerm is the per-counterparty term weight x maturity x EAD.
type CVATerm struct {
	Counterparty  string  `json:"counterparty"`
	Weight        float64 `json:"weight"`
	MaturityYears float64 `json:"maturity_years"`
	EAD           float64 `json:"ead"`
	Term          float64 `json:"term"`
}

// CVACapitalResult is the BA-CVA capital charge K with its term breakdown.
type CVACapitalResult struct {
	K     float64   `json:"k_cva"`
	Terms []CVATerm `json:"terms"`
}

// CVABucket is one time bucket's contribution to the simplified CVA estimate.
type CVABucket struct {
	TimeYears        float64 `json:"time_years"`
	DiscountFactor   float64 `json:"discount_factor"`
	ExpectedExposure float64 `json:"expected_exposure"`
	Contribution     float64 `json:"contribution"`
}

// CVAPricingResult is the simplified exposure-profile CVA estimate.
// Method labels the approximation so downstream consumers cannot mistake it
// for a desk-quality CVA model.
type CVAPricingResult struct {
	CVA          float64     `json:"cva"`
	RecoveryRate float64     `json:"recovery_rate"`
	DiscountRate float64     `json:"discount_rate"`
	Method       string      `json:"method"`
	Buckets      []CVABucket `json:"buckets"`
}
