// Package liquidity implements the liquidity engine: per-entity LCR, NSFR and
// the ALMM maturity-mismatch ladder over balance-sheet positions.
package liquidity

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/bulwark/internal/domain"
)

// ladderMethodology names the allocation convention of the ALMM ladder: each
// position lands in exactly one bucket by contractual residual maturity.
const ladderMethodology = "contractual residual maturity, full allocation to a single bucket"

// almmBuckets fixes the ladder's shape: a position lands in the first bucket
// whose upper bound (in years) is at or above its maturity.
var almmBuckets = []struct {
	label string
	bound float64
}{
	{"0-1M", 1.0 / 12},
	{"1-3M", 0.25},
	{"3-6M", 0.5},
	{"6-12M", 1},
	{"1-2Y", 2},
	{"2-5Y", 5},
	{"5Y+", math.Inf(1)},
}

// Engine computes the liquidity ratios. Pure and deterministic like the other
// engines: no I/O, safe for concurrent use.
type Engine struct {
	params domain.LiquidityParams
	log    zerolog.Logger
}

// NewEngine creates a liquidity engine with the given parameter set.
func NewEngine(params domain.LiquidityParams, log zerolog.Logger) *Engine {
	return &Engine{
		params: params,
		log:    log.With().Str("service", "liquidity").Logger(),
	}
}

// CalculateLiquidity groups positions by entity and produces per-entity LCR,
// NSFR and maturity-ladder records, entities in sorted order. An empty
// position set yields an empty report.
func (e *Engine) CalculateLiquidity(positions []domain.Position) (domain.LiquidityReport, error) {
	report := domain.LiquidityReport{
		LCR:     []domain.LCRResult{},
		NSFR:    []domain.NSFRResult{},
		Ladders: []domain.MaturityLadder{},
	}
	if len(positions) == 0 {
		return report, nil
	}

	if err := validatePositions(positions); err != nil {
		return domain.LiquidityReport{}, err
	}

	byEntity := make(map[string][]domain.Position)
	for _, pos := range positions {
		byEntity[pos.Entity] = append(byEntity[pos.Entity], pos)
	}
	entities := make([]string, 0, len(byEntity))
	for entity := range byEntity {
		entities = append(entities, entity)
	}
	sort.Strings(entities)

	for _, entity := range entities {
		b := buildBook(byEntity[entity])
		report.LCR = append(report.LCR, e.lcr(entity, b))
		report.NSFR = append(report.NSFR, e.nsfr(entity, b))
		report.Ladders = append(report.Ladders, e.ladder(entity, byEntity[entity]))
	}

	e.log.Info().
		Int("positions", len(positions)).
		Int("entities", len(entities)).
		Msg("liquidity ratios computed")

	return report, nil
}

// book aggregates one entity's positions by product category.
type book struct {
	totalAssets       float64
	mortgages         float64
	retailLoans       float64
	corporateLoans    float64
	otherAssets       float64
	retailDeposits    float64
	corporateDeposits float64
	wholesaleFunding  float64
	otherLiabilities  float64
}

func buildBook(positions []domain.Position) book {
	var b book
	for _, pos := range positions {
		switch pos.Product {
		case domain.ProductMortgageLoan:
			b.mortgages += pos.Amount
		case domain.ProductRetailLoan:
			b.retailLoans += pos.Amount
		case domain.ProductCorporateLoan:
			b.corporateLoans += pos.Amount
		case domain.ProductOtherAsset:
			b.otherAssets += pos.Amount
		case domain.ProductRetailDeposit:
			b.retailDeposits += pos.Amount
		case domain.ProductCorporateDeposit:
			b.corporateDeposits += pos.Amount
		case domain.ProductWholesaleFunding:
			b.wholesaleFunding += pos.Amount
		case domain.ProductOtherLiability:
			b.otherLiabilities += pos.Amount
		}
		if pos.Product.Side() == domain.SideAsset {
			b.totalAssets += pos.Amount
		}
	}
	return b
}

func (b book) loanBook() float64 {
	return b.mortgages + b.retailLoans + b.corporateLoans
}

// lcr builds one entity's Liquidity Coverage Ratio record. HQLA levels are
// asset-share proxies with haircuts; the level-2 composition caps trim
// level-2B before level-2A.
func (e *Engine) lcr(entity string, b book) domain.LCRResult {
	p := e.params

	level1 := p.Level1Share * b.totalAssets
	level2A := p.Level2AShare * b.totalAssets * p.Level2ARetained
	level2B := p.Level2BShare * b.totalAssets * p.Level2BRetained

	// Level-2 may not exceed two thirds of level-1 (the 40%-of-HQLA cap).
	if level2Cap := p.Level2MaxToLevel1 * level1; level2A+level2B > level2Cap {
		excess := level2A + level2B - level2Cap
		trim := math.Min(excess, level2B)
		level2B -= trim
		level2A -= excess - trim
	}
	// Level-2B may not exceed its share of total HQLA, L2B ≤ 15%×(L1+L2A+L2B).
	if level2BCap := p.Level2BMaxShare / (1 - p.Level2BMaxShare) * (level1 + level2A); level2B > level2BCap {
		level2B = level2BCap
	}
	hqla := level1 + level2A + level2B

	// Wholesale funding is term funding outside the 30-day stress window and
	// contributes no outflow here; it carries full ASF weight in the NSFR.
	outflows := p.RetailOutflowRate*b.retailDeposits +
		p.CorporateOutflowRate*b.corporateDeposits +
		p.OtherOutflowRate*b.otherLiabilities
	inflows := math.Min(p.InflowRate*b.loanBook(), p.InflowCapShare*outflows)
	netOutflows := math.Max(outflows-inflows, p.NetOutflowFloorShare*b.totalAssets)

	result := domain.LCRResult{
		Entity:        entity,
		Level1:        level1,
		Level2A:       level2A,
		Level2B:       level2B,
		HQLA:          hqla,
		GrossOutflows: outflows,
		CappedInflows: inflows,
		NetOutflows:   netOutflows,
	}
	if netOutflows == 0 {
		result.Ratio = p.LCRSentinel
		result.SentinelCapped = true
	} else {
		result.Ratio = hqla / netOutflows * 100
	}
	return result
}

// nsfr builds one entity's Net Stable Funding Ratio record. The capital and
// HQLA terms are asset-share proxies; residual assets are whatever remains of
// the other-asset book once the HQLA proxy is carved out.
func (e *Engine) nsfr(entity string, b book) domain.NSFRResult {
	p := e.params

	asf := p.ASFCapitalShare*b.totalAssets +
		p.ASFRetail*b.retailDeposits +
		p.ASFCorporate*b.corporateDeposits +
		p.ASFWholesale*b.wholesaleFunding

	hqlaProxy := p.RSFHQLAShare * b.totalAssets
	residual := math.Max(b.otherAssets-hqlaProxy, 0)
	rsf := p.RSFHQLAFactor*hqlaProxy +
		p.RSFMortgage*b.mortgages +
		p.RSFRetailLoan*b.retailLoans +
		p.RSFCorporateLoan*b.corporateLoans +
		p.RSFResidual*residual

	result := domain.NSFRResult{Entity: entity, ASF: asf, RSF: rsf}
	if rsf == 0 {
		result.Ratio = p.NSFRSentinel
		result.SentinelCapped = true
	} else {
		result.Ratio = asf / rsf * 100
	}
	return result
}

// ladder fills the ALMM buckets for one entity. Buckets are independent;
// no cumulative gap is carried forward.
func (e *Engine) ladder(entity string, positions []domain.Position) domain.MaturityLadder {
	buckets := make([]domain.ALMMBucket, len(almmBuckets))
	for i, b := range almmBuckets {
		buckets[i].Label = b.label
	}

	for _, pos := range positions {
		i := bucketIndex(pos.MaturityYears)
		if pos.Product.Side() == domain.SideAsset {
			buckets[i].Assets += pos.Amount
		} else {
			buckets[i].Liabilities += pos.Amount
		}
	}
	for i := range buckets {
		buckets[i].Net = buckets[i].Assets - buckets[i].Liabilities
	}

	return domain.MaturityLadder{Entity: entity, Methodology: ladderMethodology, Buckets: buckets}
}

func bucketIndex(maturityYears float64) int {
	for i, b := range almmBuckets {
		if maturityYears <= b.bound {
			return i
		}
	}
	return len(almmBuckets) - 1
}

// validatePositions checks the whole dataset up front: absent fields first,
// then unrecognized products and malformed numerics.
func validatePositions(positions []domain.Position) error {
	var missing []string
	for _, pos := range positions {
		if pos.ID == "" {
			missing = append(missing, "id")
		}
		if pos.Entity == "" {
			missing = append(missing, "entity")
		}
		if pos.Product == "" {
			missing = append(missing, "product")
		}
		if pos.MaturityYears == 0 {
			missing = append(missing, "maturity_years")
		}
	}
	if len(missing) > 0 {
		return domain.NewMissingFieldError("positions", missing...)
	}

	var violations []domain.FieldViolation
	for _, pos := range positions {
		add := func(field, reason string) {
			violations = append(violations, domain.FieldViolation{RecordID: pos.ID, Field: field, Reason: reason})
		}

		if !pos.Product.Valid() {
			add("product", fmt.Sprintf("unrecognized product type %q", string(pos.Product)))
		}
		if math.IsNaN(pos.Amount) || math.IsInf(pos.Amount, 0) {
			add("amount", "is not a finite number")
		} else if pos.Amount < 0 {
			add("amount", "must not be negative")
		}
		if math.IsNaN(pos.MaturityYears) || math.IsInf(pos.MaturityYears, 0) {
			add("maturity_years", "is not a finite number")
		} else if pos.MaturityYears < 0 {
			add("maturity_years", "must not be negative")
		}
	}
	if len(violations) > 0 {
		return &domain.InvalidExposureError{Dataset: "positions", Violations: violations}
	}
	return nil
}
