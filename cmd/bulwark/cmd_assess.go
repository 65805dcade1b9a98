package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/bulwark/internal/config"
	"github.com/aristath/bulwark/internal/database"
	"github.com/aristath/bulwark/internal/domain"
	"github.com/aristath/bulwark/internal/modules/assessment"
	"github.com/aristath/bulwark/internal/portfolio"
	"github.com/aristath/bulwark/internal/reports"
)

var (
	assessSeed      int64
	assessExposures int
	assessPositions int
	assessTrades    int
	assessSave      bool
	assessReportDir string
	assessFormat    string
)

// assessCmd implements the 'bulwark assess' command
var assessCmd = &cobra.Command{
	Use:   "assess [portfolio.yaml]",
	Short: "Run one assessment over a portfolio",
	Long: `Run the full assessment pipeline over a portfolio file, or over a
synthetic portfolio when no file is given.

Example usage:
  bulwark assess portfolio.yaml             # Assess a portfolio file
  bulwark assess                            # Assess a synthetic portfolio
  bulwark assess --exposures=500 --seed=42  # Size the synthetic portfolio
  bulwark assess --save                     # Persist the run to the run store
  bulwark assess --reports=./out            # Write report files
  bulwark assess --format=json              # Full result as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAssess,
}

func init() {
	rootCmd.AddCommand(assessCmd)

	assessCmd.Flags().Int64Var(&assessSeed, "seed", 1, "Seed for the synthetic portfolio generator")
	assessCmd.Flags().IntVar(&assessExposures, "exposures", 0, "Number of synthetic exposures (0 = default)")
	assessCmd.Flags().IntVar(&assessPositions, "positions", 0, "Number of synthetic positions (0 = default)")
	assessCmd.Flags().IntVar(&assessTrades, "trades", 0, "Number of synthetic trades (0 = default)")
	assessCmd.Flags().BoolVar(&assessSave, "save", false, "Persist the run to the run store")
	assessCmd.Flags().StringVar(&assessReportDir, "reports", "", "Write CSV/JSON reports to this directory")
	assessCmd.Flags().StringVar(&assessFormat, "format", "table", "Output format: table, json")
}

func runAssess(cmd *cobra.Command, args []string) error {
	log := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	var f *portfolio.File
	var err error
	if len(args) == 1 {
		f, err = portfolio.LoadFile(args[0])
		if err != nil {
			return err
		}
	} else {
		f = portfolio.Generator{Seed: assessSeed}.Generate(portfolio.GenerateOptions{
			Exposures: assessExposures,
			Positions: assessPositions,
			Trades:    assessTrades,
		})
	}

	// The run store only comes into play with --save; a plain assessment
	// needs no database at all.
	var store *assessment.Store
	if assessSave {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		db, err := database.New(database.Config{Path: cfg.DBPath, Name: "runs"})
		if err != nil {
			return fmt.Errorf("failed to open run store: %w", err)
		}
		defer db.Close()

		store = assessment.NewStore(db.Conn(), log)
		if err := store.Init(); err != nil {
			return fmt.Errorf("failed to initialize run store schema: %w", err)
		}
	}

	service := assessment.NewService(domain.DefaultRegulatoryParams(), store, nil, log)
	a, err := service.Run(context.Background(), assessment.InputFromPortfolio(f))
	if err != nil {
		return err
	}

	if assessReportDir != "" {
		writer := reports.NewWriter(assessReportDir, log)
		paths, err := writer.WriteAll(a)
		if err != nil {
			return fmt.Errorf("failed to write reports: %w", err)
		}
		for _, p := range paths {
			fmt.Fprintf(os.Stderr, "wrote %s\n", p)
		}
	}

	switch strings.ToLower(assessFormat) {
	case "json":
		return outputAssessmentJSON(a)
	case "table":
		fallthrough
	default:
		return outputAssessmentTable(a)
	}
}

func outputAssessmentJSON(a *domain.Assessment) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(a)
}

func outputAssessmentTable(a *domain.Assessment) error {
	fmt.Printf("Assessment %s (parameters %s)\n", a.ID, a.ParamsVersion)
	fmt.Printf("Inputs: %d exposures, %d trades, %d positions\n", a.ExposureCount, a.TradeCount, a.PositionCount)

	// Credit RWA aggregated by exposure class
	type classTotals struct {
		count int
		ead   float64
		rwa   float64
	}
	totals := make(map[domain.ExposureClass]*classTotals)
	for _, r := range a.Credit {
		t, ok := totals[r.Class]
		if !ok {
			t = &classTotals{}
			totals[r.Class] = t
		}
		t.count++
		t.ead += r.EAD
		t.rwa += r.RWA
	}

	fmt.Println("\nCredit risk:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Class\tExposures\tEAD\tRWA\tDensity")
	fmt.Fprintln(w, "-----\t---------\t---\t---\t-------")
	for _, class := range domain.AllExposureClasses {
		t, ok := totals[class]
		if !ok {
			continue
		}
		density := 0.0
		if t.ead > 0 {
			density = t.rwa / t.ead * 100
		}
		fmt.Fprintf(w, "%s\t%d\t%.0f\t%.0f\t%.1f%%\n", class, t.count, t.ead, t.rwa, density)
	}
	w.Flush()

	fmt.Println("\nCounterparty credit risk:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SA-CCR EAD\t%.0f\n", a.SACCR.EAD)
	fmt.Fprintf(w, "SA-CCR RWA\t%.0f\n", a.SACCR.RWA)
	fmt.Fprintf(w, "BA-CVA capital\t%.0f\n", a.CVACapital.K)
	fmt.Fprintf(w, "CVA estimate (%s)\t%.0f\n", a.CVAPricing.Method, a.CVAPricing.CVA)
	w.Flush()

	fmt.Println("\nCapital:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Total RWA\t%.0f\n", a.Capital.TotalRWA)
	fmt.Fprintf(w, "CET1 ratio\t%.2f%%\n", a.Capital.CET1Ratio)
	fmt.Fprintf(w, "Tier 1 ratio\t%.2f%%\n", a.Capital.Tier1Ratio)
	fmt.Fprintf(w, "Total capital ratio\t%.2f%%\n", a.Capital.TotalCapitalRatio)
	fmt.Fprintf(w, "Leverage ratio\t%.2f%%\n", a.Capital.LeverageRatio)
	w.Flush()
	if a.Capital.Synthetic {
		fmt.Println("Note: capital figures are synthetic (no own funds supplied)")
	}

	fmt.Println("\nLiquidity:")
	nsfrByEntity := make(map[string]domain.NSFRResult, len(a.Liquidity.NSFR))
	for _, n := range a.Liquidity.NSFR {
		nsfrByEntity[n.Entity] = n
	}
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Entity\tLCR\tNSFR")
	fmt.Fprintln(w, "------\t---\t----")
	for _, lcr := range a.Liquidity.LCR {
		fmt.Fprintf(w, "%s\t%.1f%%\t%.1f%%\n", lcr.Entity, lcr.Ratio, nsfrByEntity[lcr.Entity].Ratio)
	}
	w.Flush()

	return nil
}
