package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/bulwark/internal/config"
	"github.com/aristath/bulwark/internal/database"
	"github.com/aristath/bulwark/internal/domain"
	"github.com/aristath/bulwark/internal/modules/assessment"
)

var runsLimit int

// runsCmd is the parent command for run store operations
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect persisted assessment runs",
	Long: `Commands for inspecting assessment runs persisted by the server or
by 'bulwark assess --save'. The run store location follows the same
BULWARK_DB_PATH / BULWARK_DATA_DIR configuration as the server.`,
}

// runsListCmd implements 'bulwark runs list'
var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted assessment runs, newest first",
	RunE:  runRunsList,
}

// runsShowCmd implements 'bulwark runs show'
var runsShowCmd = &cobra.Command{
	Use:   "show <id|latest>",
	Short: "Print one persisted run as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)

	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")
}

// openStore opens the configured run store. The caller must invoke the
// returned cleanup function.
func openStore() (*assessment.Store, func(), error) {
	log := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := database.New(database.Config{Path: cfg.DBPath, Name: "runs"})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open run store: %w", err)
	}

	store := assessment.NewStore(db.Conn(), log)
	if err := store.Init(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to initialize run store schema: %w", err)
	}

	return store, func() { db.Close() }, nil
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	summaries, err := store.List(runsLimit)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No assessment runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCreated\tParams\tExposures\tTotal RWA\tCET1\tSynthetic")
	fmt.Fprintln(w, "--\t-------\t------\t---------\t---------\t----\t---------")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0f\t%.2f%%\t%t\n",
			s.ID,
			s.CreatedAt.Format(time.RFC3339),
			s.ParamsVersion,
			s.ExposureCount,
			s.TotalRWA,
			s.CET1Ratio,
			s.Synthetic,
		)
	}
	return w.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	var a *domain.Assessment
	if args[0] == "latest" {
		a, err = store.Latest()
	} else {
		a, err = store.Get(args[0])
	}
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(a)
}
