package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aristath/bulwark/internal/portfolio"
)

var (
	generateSeed      int64
	generateExposures int
	generatePositions int
	generateTrades    int
	generateOut       string
)

// generateCmd implements the 'bulwark generate' command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic portfolio file",
	Long: `Generate a deterministic synthetic portfolio and write it as YAML.
The same seed and sizes always produce the same portfolio, so generated
files are suitable for regression comparisons.

Example usage:
  bulwark generate                           # Default sizes to stdout
  bulwark generate --exposures=500 --seed=42
  bulwark generate --out=portfolio.yaml      # Write to a file`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Int64Var(&generateSeed, "seed", 1, "Generator seed")
	generateCmd.Flags().IntVar(&generateExposures, "exposures", 0, "Number of exposures (0 = default)")
	generateCmd.Flags().IntVar(&generatePositions, "positions", 0, "Number of positions (0 = default)")
	generateCmd.Flags().IntVar(&generateTrades, "trades", 0, "Number of trades (0 = default)")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "Output file (stdout when empty)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	f := portfolio.Generator{Seed: generateSeed}.Generate(portfolio.GenerateOptions{
		Exposures: generateExposures,
		Positions: generatePositions,
		Trades:    generateTrades,
	})

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal portfolio: %w", err)
	}

	if generateOut == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(generateOut, data, 0644); err != nil {
		return fmt.Errorf("failed to write portfolio file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", generateOut)
	return nil
}
