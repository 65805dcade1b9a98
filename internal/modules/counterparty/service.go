// Package counterparty implements the counterparty credit risk engine:
// SA-CCR exposure-at-default over derivative netting sets, the BA-CVA
// capital charge, and a simplified CVA pricing estimate.
package counterparty

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/aristath/bulwark/pkg/formulas"
)

// PricingMethod labels the simplified CVA estimate so downstream consumers
// cannot mistake it for a desk-quality model.
const PricingMethod = "simplified exposure-profile approximation"

// Engine computes SA-CCR, BA-CVA and CVA pricing figures. Like the other
// engines it is pure: deterministic output, no I/O, safe for concurrent use.
type Engine struct {
	params domain.CounterpartyParams
	log    zerolog.Logger
}

// NewEngine creates a counterparty risk engine with the given parameter set.
func NewEngine(params domain.CounterpartyParams, log zerolog.Logger) *Engine {
	return &Engine{
		params: params,
		log:    log.With().Str("service", "counterparty").Logger(),
	}
}

// ComputeSACCR runs the SA-CCR aggregation: replacement cost per netting set,
// PFE add-ons per asset class across the whole portfolio, the multiplier, and
// EAD = alpha × (RC + PFE). An empty trade set yields a zero-valued result.
func (e *Engine) ComputeSACCR(trades []domain.Trade, collateral []domain.Collateral) (domain.SACCRResult, error) {
	result := domain.SACCRResult{
		NettingSets: []domain.NettingSetRC{},
		AddOns:      []domain.AssetClassAddOn{},
		Multiplier:  1,
		Alpha:       e.params.Alpha,
	}
	if len(trades) == 0 {
		return result, nil
	}

	if err := validateTrades(trades); err != nil {
		return domain.SACCRResult{}, err
	}
	if err := validateCollateral(collateral); err != nil {
		return domain.SACCRResult{}, err
	}

	// Replacement cost: positive mark-to-market per netting set, reduced by
	// collateral received against that set, floored at zero.
	positiveMTM := make(map[string]float64)
	netMTM := 0.0
	for _, trade := range trades {
		if trade.MTM > 0 {
			positiveMTM[trade.NettingSet] += trade.MTM
		}
		netMTM += trade.MTM
	}
	collateralBySet := make(map[string]float64)
	for _, c := range collateral {
		collateralBySet[c.NettingSet] += c.Amount
	}

	sets := make([]string, 0, len(positiveMTM))
	seen := make(map[string]struct{})
	for _, trade := range trades {
		if _, ok := seen[trade.NettingSet]; ok {
			continue
		}
		seen[trade.NettingSet] = struct{}{}
		sets = append(sets, trade.NettingSet)
	}
	sort.Strings(sets)

	for _, set := range sets {
		rc := math.Max(positiveMTM[set]-collateralBySet[set], 0)
		result.NettingSets = append(result.NettingSets, domain.NettingSetRC{NettingSet: set, ReplacementCost: rc})
		result.ReplacementCost += rc
	}

	// PFE add-ons aggregate per asset class across the whole portfolio.
	addOnByClass := make(map[domain.AssetClass]float64)
	for _, trade := range trades {
		addOnByClass[trade.AssetClass] += e.supervisoryFactor(trade) * trade.Notional
	}
	for _, class := range domain.AllAssetClasses {
		addOn, ok := addOnByClass[class]
		if !ok {
			continue
		}
		result.AddOns = append(result.AddOns, domain.AssetClassAddOn{AssetClass: class, AddOn: addOn})
		result.AddOnTotal += addOn
	}

	result.NetMTM = netMTM
	result.Multiplier = formulas.SACCRMultiplier(netMTM, result.AddOnTotal, e.params.MultiplierFloor)
	result.PFE = result.Multiplier * result.AddOnTotal
	result.EAD = e.params.Alpha * (result.ReplacementCost + result.PFE)
	result.RWA = result.EAD * e.params.CapitalWeight
	result.TradeCount = len(trades)

	e.log.Info().
		Int("trades", len(trades)).
		Int("netting_sets", len(sets)).
		Float64("ead", result.EAD).
		Msg("SA-CCR computed")

	return result, nil
}

// ComputeCVACapital calculates the BA-CVA charge K = 2.33 × √(Σ term²) over
// per-counterparty terms weight × maturity × EAD. Weight and maturity default
// to 1 when left at zero.
func (e *Engine) ComputeCVACapital(exposures []domain.CounterpartyExposure) (domain.CVACapitalResult, error) {
	result := domain.CVACapitalResult{Terms: []domain.CVATerm{}}
	if len(exposures) == 0 {
		return result, nil
	}

	if err := validateCounterpartyExposures(exposures); err != nil {
		return domain.CVACapitalResult{}, err
	}

	terms := make([]float64, 0, len(exposures))
	for _, exp := range exposures {
		weight := exp.Weight
		if weight == 0 {
			weight = e.params.DefaultWeight
		}
		maturity := exp.MaturityYears
		if maturity == 0 {
			maturity = e.params.DefaultMaturity
		}
		term := weight * maturity * exp.EAD
		terms = append(terms, term)
		result.Terms = append(result.Terms, domain.CVATerm{
			Counterparty:  exp.Counterparty,
			Weight:        weight,
			MaturityYears: maturity,
			EAD:           exp.EAD,
			Term:          term,
		})
	}

	result.K = formulas.BACVACapital(terms, e.params.CVAQuantile)

	e.log.Debug().
		Int("counterparties", len(exposures)).
		Float64("k_cva", result.K).
		Msg("BA-CVA capital computed")

	return result, nil
}

// ComputeCVAPricing produces the simplified exposure-profile CVA estimate:
// CVA = (1−recovery) × Σ_t DF(t) × Σ_trades ΔPD(t) × EE(t) over annual time
// buckets. The result is an approximation for illustration, labelled as such.
func (e *Engine) ComputeCVAPricing(trades []domain.Trade) (domain.CVAPricingResult, error) {
	result := domain.CVAPricingResult{
		RecoveryRate: e.params.RecoveryRate,
		DiscountRate: e.params.DiscountRate,
		Method:       PricingMethod,
		Buckets:      []domain.CVABucket{},
	}
	if len(trades) == 0 {
		return result, nil
	}

	if err := validateTrades(trades); err != nil {
		return domain.CVAPricingResult{}, err
	}

	lossRate := 1 - e.params.RecoveryRate
	for year := 1; year <= e.params.PricingHorizonYears; year++ {
		t := float64(year)
		df := formulas.DiscountFactor(e.params.DiscountRate, t)

		var exposure, weighted float64
		for _, trade := range trades {
			// Exposure amortizes linearly to zero at the trade's maturity.
			profile := math.Max(0, 1-t/e.tradeMaturity(trade))
			ee := trade.Notional * e.supervisoryFactor(trade) * profile
			exposure += ee
			weighted += formulas.MarginalDefaultProbability(e.hazardRate(trade), t) * ee
		}

		contribution := lossRate * df * weighted
		result.CVA += contribution
		result.Buckets = append(result.Buckets, domain.CVABucket{
			TimeYears:        t,
			DiscountFactor:   df,
			ExpectedExposure: exposure,
			Contribution:     contribution,
		})
	}

	e.log.Debug().
		Int("trades", len(trades)).
		Float64("cva", result.CVA).
		Msg("CVA pricing estimate computed")

	return result, nil
}

// DeriveCounterpartyExposures allocates the portfolio SA-CCR figures back to
// netting sets so they can feed the BA-CVA charge: each set keeps its own
// replacement cost and receives a notional-weighted share of the portfolio
// PFE, scaled by alpha. Weight and maturity are left to their defaults.
func (e *Engine) DeriveCounterpartyExposures(trades []domain.Trade, collateral []domain.Collateral) ([]domain.CounterpartyExposure, error) {
	saccr, err := e.ComputeSACCR(trades, collateral)
	if err != nil {
		return nil, err
	}
	if saccr.TradeCount == 0 {
		return []domain.CounterpartyExposure{}, nil
	}

	notionalBySet := make(map[string]float64)
	totalNotional := 0.0
	for _, trade := range trades {
		notionalBySet[trade.NettingSet] += trade.Notional
		totalNotional += trade.Notional
	}

	exposures := make([]domain.CounterpartyExposure, 0, len(saccr.NettingSets))
	for _, set := range saccr.NettingSets {
		share := 0.0
		if totalNotional > 0 {
			share = notionalBySet[set.NettingSet] / totalNotional
		}
		exposures = append(exposures, domain.CounterpartyExposure{
			Counterparty: set.NettingSet,
			EAD:          e.params.Alpha * (set.ReplacementCost + share*saccr.PFE),
		})
	}
	return exposures, nil
}

// supervisoryFactor returns the PFE add-on factor for one trade: maturity
// bucket for interest-rate trades, rating band for credit trades, flat
// factors elsewhere.
func (e *Engine) supervisoryFactor(trade domain.Trade) float64 {
	switch trade.AssetClass {
	case domain.AssetInterestRate:
		if trade.MaturityBucket == domain.BucketLong {
			return e.params.IRFactorLong
		}
		if trade.MaturityBucket == domain.BucketMedium {
			return e.params.IRFactorMedium
		}
		return e.params.IRFactorShort
	case domain.AssetFX:
		return e.params.FXFactor
	case domain.AssetEquity:
		return e.params.EquityFactor
	case domain.AssetCommodity:
		return e.params.CommodityFactor
	case domain.AssetCredit:
		if trade.Rating == domain.RatingHighYield {
			return e.params.CreditHYFactor
		}
		return e.params.CreditIGFactor
	}
	return 0
}

// tradeMaturity proxies the residual maturity for the pricing profile: the
// supervisory bucket midpoint for interest-rate trades, a fixed tenor
// elsewhere.
func (e *Engine) tradeMaturity(trade domain.Trade) float64 {
	if trade.AssetClass != domain.AssetInterestRate {
		return e.params.DefaultTradeMaturity
	}
	switch trade.MaturityBucket {
	case domain.BucketShort:
		return e.params.MidpointShortYears
	case domain.BucketLong:
		return e.params.MidpointLongYears
	default:
		return e.params.MidpointMediumYears
	}
}

func (e *Engine) hazardRate(trade domain.Trade) float64 {
	if trade.AssetClass != domain.AssetCredit {
		return e.params.HazardDefault
	}
	if trade.Rating == domain.RatingHighYield {
		return e.params.HazardHY
	}
	return e.params.HazardIG
}

// validateTrades checks the whole trade dataset up front: missing identifiers
// first, then enum validity and malformed numerics.
func validateTrades(trades []domain.Trade) error {
	var missing []string
	for _, trade := range trades {
		if trade.ID == "" {
			missing = append(missing, "id")
		}
		if trade.NettingSet == "" {
			missing = append(missing, "netting_set")
		}
		if trade.AssetClass == "" {
			missing = append(missing, "asset_class")
		}
		if trade.AssetClass == domain.AssetInterestRate && trade.MaturityBucket == "" {
			missing = append(missing, "maturity_bucket")
		}
		if trade.AssetClass == domain.AssetCredit && trade.Rating == "" {
			missing = append(missing, "rating")
		}
	}
	if len(missing) > 0 {
		return domain.NewMissingFieldError("trades", missing...)
	}

	var violations []domain.FieldViolation
	for _, trade := range trades {
		add := func(field, reason string) {
			violations = append(violations, domain.FieldViolation{RecordID: trade.ID, Field: field, Reason: reason})
		}

		if !trade.AssetClass.Valid() {
			add("asset_class", fmt.Sprintf("unrecognized asset class %q", string(trade.AssetClass)))
		}
		if trade.AssetClass == domain.AssetInterestRate && !trade.MaturityBucket.Valid() {
			add("maturity_bucket", fmt.Sprintf("unrecognized maturity bucket %q", string(trade.MaturityBucket)))
		}
		if trade.AssetClass == domain.AssetCredit && !trade.Rating.Valid() {
			add("rating", fmt.Sprintf("unrecognized rating %q", string(trade.Rating)))
		}
		if math.IsNaN(trade.Notional) || math.IsInf(trade.Notional, 0) {
			add("notional", "is not a finite number")
		} else if trade.Notional < 0 {
			add("notional", "must not be negative")
		}
		if math.IsNaN(trade.MTM) || math.IsInf(trade.MTM, 0) {
			add("mtm", "is not a finite number")
		}
	}
	if len(violations) > 0 {
		return &domain.InvalidExposureError{Dataset: "trades", Violations: violations}
	}
	return nil
}

func validateCollateral(collateral []domain.Collateral) error {
	var missing []string
	for _, c := range collateral {
		if c.NettingSet == "" {
			missing = append(missing, "netting_set")
		}
	}
	if len(missing) > 0 {
		return domain.NewMissingFieldError("collateral", missing...)
	}

	var violations []domain.FieldViolation
	for _, c := range collateral {
		if math.IsNaN(c.Amount) || math.IsInf(c.Amount, 0) {
			violations = append(violations, domain.FieldViolation{RecordID: c.NettingSet, Field: "amount", Reason: "is not a finite number"})
		} else if c.Amount < 0 {
			violations = append(violations, domain.FieldViolation{RecordID: c.NettingSet, Field: "amount", Reason: "must not be negative"})
		}
	}
	if len(violations) > 0 {
		return &domain.InvalidExposureError{Dataset: "collateral", Violations: violations}
	}
	return nil
}

func validateCounterpartyExposures(exposures []domain.CounterpartyExposure) error {
	var missing []string
	for _, exp := range exposures {
		if exp.Counterparty == "" {
			missing = append(missing, "counterparty")
		}
	}
	if len(missing) > 0 {
		return domain.NewMissingFieldError("counterparty_exposures", missing...)
	}

	var violations []domain.FieldViolation
	for _, exp := range exposures {
		add := func(field, reason string) {
			violations = append(violations, domain.FieldViolation{RecordID: exp.Counterparty, Field: field, Reason: reason})
		}
		numeric := []struct {
			field string
			value float64
		}{
			{"ead", exp.EAD},
			{"weight", exp.Weight},
			{"maturity_years", exp.MaturityYears},
		}
		for _, n := range numeric {
			if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
				add(n.field, "is not a finite number")
			} else if n.value < 0 {
				add(n.field, "must not be negative")
			}
		}
	}
	if len(violations) > 0 {
		return &domain.InvalidExposureError{Dataset: "counterparty_exposures", Violations: violations}
	}
	return nil
}
