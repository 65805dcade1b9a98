// Package assessment orchestrates the four regulatory engines into one
// pipeline run and persists the results.
package assessment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/aristath/bulwark/internal/modules/capital"
	"github.com/aristath/bulwark/internal/modules/counterparty"
	"github.com/aristath/bulwark/internal/modules/creditrisk"
	"github.com/aristath/bulwark/internal/modules/liquidity"
	"github.com/aristath/bulwark/internal/portfolio"
)

// RunInput carries the datasets for one assessment run. Any section may be
// empty; a nil OwnFunds selects the synthetic capital fallback.
type RunInput struct {
	Exposures  []domain.Exposure
	Trades     []domain.Trade
	Collateral []domain.Collateral
	Positions  []domain.Position
	OwnFunds   *domain.OwnFunds
}

// InputFromPortfolio maps a loaded portfolio onto the pipeline input.
func InputFromPortfolio(f *portfolio.File) RunInput {
	return RunInput{
		Exposures:  f.Exposures,
		Trades:     f.Trades,
		Collateral: f.Collateral,
		Positions:  f.Positions,
		OwnFunds:   f.OwnFunds,
	}
}

// Service runs the full assessment pipeline: credit risk, counterparty risk
// and liquidity fan out concurrently, then capital aggregation folds their
// outputs together. Completed runs are persisted when a store is attached.
type Service struct {
	credit        *creditrisk.Engine
	counterparty  *counterparty.Engine
	capital       *capital.Aggregator
	liquidity     *liquidity.Engine
	store         *Store
	metrics       *Metrics
	paramsVersion string
	log           zerolog.Logger
}

// NewService creates the assessment service. The engines are built from one
// parameter set so every stage of a run prices under the same version.
// Store and metrics may be nil.
func NewService(params domain.RegulatoryParams, store *Store, metrics *Metrics, log zerolog.Logger) *Service {
	return &Service{
		credit:        creditrisk.NewEngine(params.Credit, log),
		counterparty:  counterparty.NewEngine(params.Counterparty, log),
		capital:       capital.NewAggregator(params.Capital, log),
		liquidity:     liquidity.NewEngine(params.Liquidity, log),
		store:         store,
		metrics:       metrics,
		paramsVersion: params.Version,
		log:           log.With().Str("service", "assessment").Logger(),
	}
}

// Run executes one assessment over the supplied datasets. The independent
// stages run concurrently; the first stage error aborts the run, reported in
// stage order so failures are deterministic.
func (s *Service) Run(ctx context.Context, input RunInput) (*domain.Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		wg sync.WaitGroup

		creditResults []domain.RWAResult
		creditErr     error

		saccr      domain.SACCRResult
		cvaCapital domain.CVACapitalResult
		cvaPricing domain.CVAPricingResult
		ctrErr     error

		liqReport domain.LiquidityReport
		liqErr    error
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		st := s.metrics.StartStageTimer("credit")
		creditResults, creditErr = s.credit.CalculateRWA(input.Exposures)
		st.Stop(stageResult(creditErr))
	}()

	go func() {
		defer wg.Done()
		st := s.metrics.StartStageTimer("counterparty")
		saccr, ctrErr = s.counterparty.ComputeSACCR(input.Trades, input.Collateral)
		if ctrErr == nil {
			var exposures []domain.CounterpartyExposure
			exposures, ctrErr = s.counterparty.DeriveCounterpartyExposures(input.Trades, input.Collateral)
			if ctrErr == nil {
				cvaCapital, ctrErr = s.counterparty.ComputeCVACapital(exposures)
			}
		}
		if ctrErr == nil {
			cvaPricing, ctrErr = s.counterparty.ComputeCVAPricing(input.Trades)
		}
		st.Stop(stageResult(ctrErr))
	}()

	go func() {
		defer wg.Done()
		st := s.metrics.StartStageTimer("liquidity")
		liqReport, liqErr = s.liquidity.CalculateLiquidity(input.Positions)
		st.Stop(stageResult(liqErr))
	}()

	wg.Wait()

	stages := []struct {
		name string
		err  error
	}{
		{"credit risk", creditErr},
		{"counterparty risk", ctrErr},
		{"liquidity", liqErr},
	}
	for _, stage := range stages {
		if stage.err != nil {
			s.metrics.RecordRun("error")
			return nil, fmt.Errorf("%s stage failed: %w", stage.name, stage.err)
		}
	}

	st := s.metrics.StartStageTimer("capital")
	ratios, err := s.capital.ComputeCapitalRatios(creditResults, saccr.RWA, input.OwnFunds)
	st.Stop(stageResult(err))
	if err != nil {
		s.metrics.RecordRun("error")
		return nil, fmt.Errorf("capital stage failed: %w", err)
	}

	a := &domain.Assessment{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		ParamsVersion: s.paramsVersion,
		ExposureCount: len(input.Exposures),
		TradeCount:    len(input.Trades),
		PositionCount: len(input.Positions),
		Credit:        creditResults,
		SACCR:         saccr,
		CVACapital:    cvaCapital,
		CVAPricing:    cvaPricing,
		Capital:       ratios,
		Liquidity:     liqReport,
	}

	if s.store != nil {
		st := s.metrics.StartStageTimer("persist")
		err := s.store.Save(a)
		st.Stop(stageResult(err))
		if err != nil {
			s.metrics.RecordRun("error")
			return nil, fmt.Errorf("failed to persist assessment run: %w", err)
		}
	}

	s.metrics.RecordRun("success")
	s.metrics.RecordLastRun(a)

	s.log.Info().
		Str("run_id", a.ID).
		Str("params_version", a.ParamsVersion).
		Int("exposures", a.ExposureCount).
		Int("trades", a.TradeCount).
		Int("positions", a.PositionCount).
		Float64("total_rwa", a.Capital.TotalRWA).
		Float64("cet1_ratio", a.Capital.CET1Ratio).
		Bool("synthetic", a.Capital.Synthetic).
		Msg("Assessment run completed")

	return a, nil
}

func stageResult(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
