package domain

// PDBucketWeight maps a PD bucket upper bound (inclusive) to a standardised
// risk weight. Buckets are evaluated in ascending MaxPD order; a PD above
// every bound takes the table's fallback weight.
type PDBucketWeight struct {
	MaxPD  float64 `json:"max_pd"`
	Weight float64 `json:"weight"`
}

// CreditParams carries every constant of the credit risk engine. Clamp bounds
// implement silent saturation into regulatory-valid domains; saturation is a
// formula convention, not a validation failure.
type CreditParams struct {
	// Numeric domain clamps applied before any formula evaluation.
	PDFloor       float64 `json:"pd_floor"`
	PDCap         float64 `json:"pd_cap"`
	LGDFloor      float64 `json:"lgd_floor"`
	LGDCap        float64 `json:"lgd_cap"`
	MaturityFloor float64 `json:"maturity_floor"`
	MaturityCap   float64 `json:"maturity_cap"`

	// IRB Foundation.
	ConfidenceLevel            float64 `json:"confidence_level"`
	RetailMortgageCorrelation  float64 `json:"retail_mortgage_correlation"`
	RetailOtherCorrelation     float64 `json:"retail_other_correlation"`
	CorrelationFloor           float64 `json:"correlation_floor"`
	CorrelationCap             float64 `json:"correlation_cap"`
	CorporateCorrelationFloor  float64 `json:"corporate_correlation_floor"`
	CorporateCorrelationCap    float64 `json:"corporate_correlation_cap"`
	FirmSizeFloorMillions      float64 `json:"firm_size_floor_millions"`
	FirmSizeRangeMillions      float64 `json:"firm_size_range_millions"`
	MaturityAdjustmentFloor    float64 `json:"maturity_adjustment_floor"`
	MaturityAdjustmentCap      float64 `json:"maturity_adjustment_cap"`
	MaturityAdjustmentGateYear float64 `json:"maturity_adjustment_gate_year"`
	SMESupportingFactor        float64 `json:"sme_supporting_factor"`
	RWAScalar                  float64 `json:"rwa_scalar"`

	// Standardised tables.
	SovereignWeights []PDBucketWeight `json:"sovereign_weights"`
	BankWeights      []PDBucketWeight `json:"bank_weights"`
	FallbackWeight   float64          `json:"fallback_weight"`
	OtherRiskWeight  float64          `json:"other_risk_weight"`
}

// CounterpartyParams carries every constant of the SA-CCR, BA-CVA and
// simplified CVA pricing computations.
type CounterpartyParams struct {
	Alpha           float64 `json:"alpha"`
	MultiplierFloor float64 `json:"multiplier_floor"`
	CapitalWeight   float64 `json:"capital_weight"`

	// Supervisory add-on factors.
	IRFactorShort   float64 `json:"ir_factor_short"`
	IRFactorMedium  float64 `json:"ir_factor_medium"`
	IRFactorLong    float64 `json:"ir_factor_long"`
	FXFactor        float64 `json:"fx_factor"`
	EquityFactor    float64 `json:"equity_factor"`
	CommodityFactor float64 `json:"commodity_factor"`
	CreditIGFactor  float64 `json:"credit_ig_factor"`
	CreditHYFactor  float64 `json:"credit_hy_factor"`

	// BA-CVA.
	CVAQuantile     float64 `json:"cva_quantile"`
	DefaultWeight   float64 `json:"default_weight"`
	DefaultMaturity float64 `json:"default_maturity"`

	// Simplified CVA pricing.
	RecoveryRate         float64 `json:"recovery_rate"`
	DiscountRate         float64 `json:"discount_rate"`
	HazardIG             float64 `json:"hazard_ig"`
	HazardHY             float64 `json:"hazard_hy"`
	HazardDefault        float64 `json:"hazard_default"`
	PricingHorizonYears  int     `json:"pricing_horizon_years"`
	MidpointShortYears   float64 `json:"midpoint_short_years"`
	MidpointMediumYears  float64 `json:"midpoint_medium_years"`
	MidpointLongYears    float64 `json:"midpoint_long_years"`
	DefaultTradeMaturity float64 `json:"default_trade_maturity"`
}

// CapitalParams carries the synthetic own-funds fallback percentages used when
// no own-funds record is supplied.
type CapitalParams struct {
	SyntheticCET1Share     float64 `json:"synthetic_cet1_share"`
	SyntheticTier1Share    float64 `json:"synthetic_tier1_share"`
	SyntheticTotalShare    float64 `json:"synthetic_total_share"`
	SyntheticLeverageTimes float64 `json:"synthetic_leverage_times"`
}

// LiquidityParams carries the LCR/NSFR factor set and sentinel values.
type LiquidityParams struct {
	// HQLA composition shares of total assets and haircut retentions.
	Level1Share     float64 `json:"level1_share"`
	Level2AShare    float64 `json:"level2a_share"`
	Level2BShare    float64 `json:"level2b_share"`
	Level2ARetained float64 `json:"level2a_retained"`
	Level2BRetained float64 `json:"level2b_retained"`
	// Level-2 may not exceed two thirds of level-1 (the 40% of HQLA cap);
	// level-2B may not exceed 15% of total HQLA.
	Level2MaxToLevel1 float64 `json:"level2_max_to_level1"`
	Level2BMaxShare   float64 `json:"level2b_max_share"`

	// 30-day stress flow rates.
	RetailOutflowRate    float64 `json:"retail_outflow_rate"`
	CorporateOutflowRate float64 `json:"corporate_outflow_rate"`
	OtherOutflowRate     float64 `json:"other_outflow_rate"`
	InflowRate           float64 `json:"inflow_rate"`
	InflowCapShare       float64 `json:"inflow_cap_share"`
	NetOutflowFloorShare float64 `json:"net_outflow_floor_share"`
	LCRSentinel          float64 `json:"lcr_sentinel"`

	// NSFR factors.
	ASFCapitalShare  float64 `json:"asf_capital_share"`
	ASFRetail        float64 `json:"asf_retail"`
	ASFCorporate     float64 `json:"asf_corporate"`
	ASFWholesale     float64 `json:"asf_wholesale"`
	RSFHQLAShare     float64 `json:"rsf_hqla_share"`
	RSFHQLAFactor    float64 `json:"rsf_hqla_factor"`
	RSFMortgage      float64 `json:"rsf_mortgage"`
	RSFRetailLoan    float64 `json:"rsf_retail_loan"`
	RSFCorporateLoan float64 `json:"rsf_corporate_loan"`
	RSFResidual      float64 `json:"rsf_residual"`
	NSFRSentinel     float64 `json:"nsfr_sentinel"`
}

// RegulatoryParams groups every engine constant into one versioned structure
// so a regulatory amendment touches a single place. Engines receive their
// sub-struct at construction; call-time overrides are expressed by
// constructing an engine with a modified copy.
type RegulatoryParams struct {
	Version      string             `json:"version"`
	Credit       CreditParams       `json:"credit"`
	Counterparty CounterpartyParams `json:"counterparty"`
	Capital      CapitalParams      `json:"capital"`
	Liquidity    LiquidityParams    `json:"liquidity"`
}

// DefaultRegulatoryParams returns the CRR3 parameter set the engines ship with.
func DefaultRegulatoryParams() RegulatoryParams {
	return RegulatoryParams{
		Version: "CRR3-2025.1",
		Credit: CreditParams{
			PDFloor:       0.0001,
			PDCap:         0.9999,
			LGDFloor:      0.01,
			LGDCap:        0.99,
			MaturityFloor: 1.0,
			MaturityCap:   7.0,

			ConfidenceLevel:            0.999,
			RetailMortgageCorrelation:  0.15,
			RetailOtherCorrelation:     0.04,
			CorrelationFloor:           0.01,
			CorrelationCap:             0.99,
			CorporateCorrelationFloor:  0.12,
			CorporateCorrelationCap:    0.24,
			FirmSizeFloorMillions:      5.0,
			FirmSizeRangeMillions:      45.0,
			MaturityAdjustmentFloor:    1.0,
			MaturityAdjustmentCap:      5.0,
			MaturityAdjustmentGateYear: 1.0,
			SMESupportingFactor:        0.7619,
			RWAScalar:                  12.5,

			SovereignWeights: []PDBucketWeight{
				{MaxPD: 0.001, Weight: 0.0},
				{MaxPD: 0.005, Weight: 0.20},
				{MaxPD: 0.01, Weight: 0.50},
				{MaxPD: 0.03, Weight: 1.00},
			},
			BankWeights: []PDBucketWeight{
				{MaxPD: 0.002, Weight: 0.20},
				{MaxPD: 0.01, Weight: 0.50},
				{MaxPD: 0.02, Weight: 1.00},
			},
			FallbackWeight:  1.50,
			OtherRiskWeight: 1.00,
		},
		Counterparty: CounterpartyParams{
			Alpha:           1.4,
			MultiplierFloor: 0.05,
			CapitalWeight:   1.0,

			IRFactorShort:   0.0005,
			IRFactorMedium:  0.0005,
			IRFactorLong:    0.0015,
			FXFactor:        0.04,
			EquityFactor:    0.32,
			CommodityFactor: 0.18,
			CreditIGFactor:  0.0038,
			CreditHYFactor:  0.054,

			CVAQuantile:     2.33,
			DefaultWeight:   1.0,
			DefaultMaturity: 1.0,

			RecoveryRate:         0.40,
			DiscountRate:         0.03,
			HazardIG:             0.01,
			HazardHY:             0.04,
			HazardDefault:        0.01,
			PricingHorizonYears:  5,
			MidpointShortYears:   0.5,
			MidpointMediumYears:  3.0,
			MidpointLongYears:    7.5,
			DefaultTradeMaturity: 3.0,
		},
		Capital: CapitalParams{
			SyntheticCET1Share:     0.12,
			SyntheticTier1Share:    0.135,
			SyntheticTotalShare:    0.15,
			SyntheticLeverageTimes: 10.0,
		},
		Liquidity: LiquidityParams{
			Level1Share:       0.10,
			Level2AShare:      0.05,
			Level2BShare:      0.03,
			Level2ARetained:   0.85,
			Level2BRetained:   0.50,
			Level2MaxToLevel1: 2.0 / 3.0,
			Level2BMaxShare:   0.15,

			RetailOutflowRate:    0.05,
			CorporateOutflowRate: 0.25,
			OtherOutflowRate:     0.03,
			InflowRate:           0.02,
			InflowCapShare:       0.75,
			NetOutflowFloorShare: 0.05,
			LCRSentinel:          200.0,

			ASFCapitalShare:  0.12,
			ASFRetail:        0.95,
			ASFCorporate:     0.50,
			ASFWholesale:     1.0,
			RSFHQLAShare:     0.18,
			RSFHQLAFactor:    0.05,
			RSFMortgage:      0.65,
			RSFRetailLoan:    0.85,
			RSFCorporateLoan: 1.0,
			RSFResidual:      1.0,
			NSFRSentinel:     150.0,
		},
	}
}
