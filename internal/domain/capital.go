package domain

import "time"

// OwnFunds carries externally supplied capital figures. A nil *OwnFunds makes
// the aggregator fabricate illustrative figures from total RWA; results built
// that way carry Synthetic=true and must never be presented as real capital.
type OwnFunds struct {
	CET1             float64 `json:"cet1" yaml:"cet1" validate:"gte=0"`
	Tier1            float64 `json:"tier1" yaml:"tier1" validate:"gte=0"`
	Total            float64 `json:"total" yaml:"total" validate:"gte=0"`
	LeverageExposure float64 `json:"leverage_exposure" yaml:"leverage_exposure" validate:"gte=0"`
}

// CapitalRatios is the output of the capital ratio aggregation. Ratios are in
// percent. Zero denominators yield ratio 0, never infinity.
type CapitalRatios struct {
	TotalRWA          float64 `json:"total_rwa"`
	CreditRWA         float64 `json:"credit_rwa"`
	CounterpartyRWA   float64 `json:"counterparty_rwa"`
	CET1Capital       float64 `json:"cet1_capital"`
	Tier1Capital      float64 `json:"tier1_capital"`
	TotalCapital      float64 `json:"total_capital"`
	LeverageExposure  float64 `json:"leverage_exposure"`
	CET1Ratio         float64 `json:"cet1_ratio_pct"`
	Tier1Ratio        float64 `json:"tier1_ratio_pct"`
	TotalCapitalRatio float64 `json:"total_capital_ratio_pct"`
	LeverageRatio     float64 `json:"leverage_ratio_pct"`
	Synthetic         bool    `json:"synthetic"`
}

// Assessment is the combined result of one full pipeline run across the four
// engines. Input counts are recorded for traceability.
type Assessment struct {
	ID            string           `json:"id"`
	CreatedAt     time.Time        `json:"created_at"`
	ParamsVersion string           `json:"params_version"`
	ExposureCount int              `json:"exposure_count"`
	TradeCount    int              `json:"trade_count"`
	PositionCount int              `json:"position_count"`
	Credit        []RWAResult      `json:"credit"`
	SACCR         SACCRResult      `json:"saccr"`
	CVACapital    CVACapitalResult `json:"cva_capital"`
	CVAPricing    CVAPricingResult `json:"cva_pricing"`
	Capital       CapitalRatios    `json:"capital"`
	Liquidity     LiquidityReport  `json:"liquidity"`
}
