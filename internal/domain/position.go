package domain

// BalanceSide distinguishes asset-side from liability-side products.
type BalanceSide string

const (
	SideAsset     BalanceSide = "asset"
	SideLiability BalanceSide = "liability"
)

// ProductType classifies a balance-sheet position for liquidity purposes.
type ProductType string

const (
	ProductMortgageLoan     ProductType = "mortgage_loan"
	ProductRetailLoan       ProductType = "retail_loan"
	ProductCorporateLoan    ProductType = "corporate_loan"
	ProductOtherAsset       ProductType = "other_asset"
	ProductRetailDeposit    ProductType = "retail_deposit"
	ProductCorporateDeposit ProductType = "corporate_deposit"
	ProductWholesaleFunding ProductType = "wholesale_funding"
	ProductOtherLiability   ProductType = "other_liability"
)

// AllProductTypes lists every recognized product type, asset side first.
var AllProductTypes = []ProductType{
	ProductMortgageLoan,
	ProductRetailLoan,
	ProductCorporateLoan,
	ProductOtherAsset,
	ProductRetailDeposit,
	ProductCorporateDeposit,
	ProductWholesaleFunding,
	ProductOtherLiability,
}

// Valid reports whether the product type is recognized.
func (p ProductType) Valid() bool {
	switch p {
	case ProductMortgageLoan, ProductRetailLoan, ProductCorporateLoan, ProductOtherAsset,
		ProductRetailDeposit, ProductCorporateDeposit, ProductWholesaleFunding, ProductOtherLiability:
		return true
	}
	return false
}

// Side returns which side of the balance sheet the product sits on.
func (p ProductType) Side() BalanceSide {
	switch p {
	case ProductRetailDeposit, ProductCorporateDeposit, ProductWholesaleFunding, ProductOtherLiability:
		return SideLiability
	}
	return SideAsset
}

// Position is a single balance-sheet position row consumed by the liquidity
// engine. Amount is the position's EAD-equivalent carrying amount.
type Position struct {
	ID            string      `json:"id" yaml:"id" validate:"required"`
	Entity        string      `json:"entity" yaml:"entity" validate:"required"`
	Product       ProductType `json:"product" yaml:"product" validate:"required,oneof=mortgage_loan retail_loan corporate_loan other_asset retail_deposit corporate_deposit wholesale_funding other_liability"`
	Amount        float64     `json:"amount" yaml:"amount" validate:"gte=0"`
	MaturityYears float64     `json:"maturity_years" yaml:"maturity_years" validate:"gte=0"`
}

// LCRResult is the per-entity Liquidity Coverage Ratio record. HQLA levels
// are post-haircut, post-cap amounts. Ratio is in percent; a zero net outflow
// reports the 200 sentinel rather than a division by zero.
type LCRResult struct {
	Entity         string  `json:"entity"`
	Level1         float64 `json:"level1"`
	Level2A        float64 `json:"level2a"`
	Level2B        float64 `json:"level2b"`
	HQLA           float64 `json:"hqla"`
	GrossOutflows  float64 `json:"gross_outflows"`
	CappedInflows  float64 `json:"capped_inflows"`
	NetOutflows    float64 `json:"net_outflows"`
	Ratio          float64 `json:"ratio_pct"`
	SentinelCapped bool    `json:"sentinel_capped,omitempty"`
}

// NSFRResult is the per-entity Net Stable Funding Ratio record. Ratio is in
// percent; a zero RSF reports the 150 sentinel.
type NSFRResult struct {
	Entity         string  `json:"entity"`
	ASF            float64 `json:"asf"`
	RSF            float64 `json:"rsf"`
	Ratio          float64 `json:"ratio_pct"`
	SentinelCapped bool    `json:"sentinel_capped,omitempty"`
}

// ALMMBucket is one maturity bucket of the mismatch ladder.
type ALMMBucket struct {
	Label       string  `json:"label"`
	Assets      float64 `json:"assets"`
	Liabilities float64 `json:"liabilities"`
	Net         float64 `json:"net"`
}

// MaturityLadder is the per-entity ALMM ladder. Buckets are reported in
// ascending maturity order with no cumulative carry-forward. Methodology
// names the allocation convention used to fill the buckets.
type MaturityLadder struct {
	Entity      string       `json:"entity"`
	Methodology string       `json:"methodology"`
	Buckets     []ALMMBucket `json:"buckets"`
}

// LiquidityReport bundles the per-entity liquidity results of one run,
// ordered by entity for deterministic output.
type LiquidityReport struct {
	LCR     []LCRResult      `json:"lcr"`
	NSFR    []NSFRResult     `json:"nsfr"`
	Ladders []MaturityLadder `json:"ladders"`
}
