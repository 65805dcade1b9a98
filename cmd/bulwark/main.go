package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command for the Bulwark CLI
var rootCmd = &cobra.Command{
	Use:   "bulwark",
	Short: "Bulwark regulatory risk and capital engine",
	Long: `Bulwark computes credit risk RWA (IRB Foundation and Standardised),
counterparty credit risk (SA-CCR, BA-CVA), capital ratios and liquidity
metrics (LCR, NSFR, maturity ladder) over a bank portfolio.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Bulwark regulatory risk and capital engine")
		fmt.Println("Use 'bulwark assess' to run the pipeline over a portfolio")
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
