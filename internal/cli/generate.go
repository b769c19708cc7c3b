//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesdash/internal/datagen"
	"github.com/pgEdge/pgedge-salesdash/internal/dashboard"
)

var (
	genRows       int
	genCustomers  int
	genSeed       uint64
	genProfile    string
	genStart      string
	genYears      int
	genOutput     string
	genNoProgress bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic sales dataset",
	Long: `Generate a Superstore-style sales dataset with seasonal demand and write
it as CSV or XLSX, chosen by the output file extension.

Profiles:
  retail - consumer store (holiday peak, weekend bonus)
  b2b    - business purchasing (weekday, quarter-end push)
  flat   - uniform demand

Example:
  pgedge-salesdash generate --rows 10000 --output data/superstore.csv
  pgedge-salesdash generate --profile b2b --seed 7 --output data/b2b.xlsx`,
	RunE: runGenerate,
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List available demand profiles",
	Long: `List the seasonal demand profiles used by 'generate'. A profile sets
the relative order volume of each day and the yearly growth.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available demand profiles:")
		cmd.Println()
		for _, name := range datagen.ListProfiles() {
			p, _ := datagen.GetProfile(name)
			cmd.Printf("  %-7s - %s\n", p.Name(), p.Description())
		}
	},
}

func init() {
	generateCmd.Flags().IntVar(&genRows, "rows", 0,
		"number of order lines (default: 10000)")
	generateCmd.Flags().IntVar(&genCustomers, "customers", 0,
		"size of the customer pool (default: 800)")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0,
		"random seed for reproducible output (0 = random)")
	generateCmd.Flags().StringVar(&genProfile, "profile", "",
		"demand profile: retail, b2b, flat")
	generateCmd.Flags().StringVar(&genStart, "start", "",
		"first order date, YYYY-MM-DD (default: 2014-01-01)")
	generateCmd.Flags().IntVar(&genYears, "years", 0,
		"years of history (default: 4)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "",
		"output file, .csv or .xlsx (default: data/superstore.csv)")
	generateCmd.Flags().BoolVar(&genNoProgress, "no-progress", false,
		"disable the progress bar")

	generateCmd.AddCommand(profilesCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if genRows > 0 {
		cfg.Generate.Rows = genRows
	}
	if genCustomers > 0 {
		cfg.Generate.Customers = genCustomers
	}
	if genSeed > 0 {
		cfg.Generate.Seed = genSeed
	}
	if genProfile != "" {
		cfg.Generate.Profile = genProfile
	}
	if genStart != "" {
		cfg.Generate.StartDate = genStart
	}
	if genYears > 0 {
		cfg.Generate.Years = genYears
	}
	if genOutput != "" {
		cfg.Generate.Output = genOutput
	}

	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}
	start, _ := time.Parse("2006-01-02", cfg.Generate.StartDate)

	var progress io.Writer = cmd.ErrOrStderr()
	if genNoProgress {
		progress = nil
	}

	g, err := datagen.New(datagen.Config{
		Rows:      cfg.Generate.Rows,
		Customers: cfg.Generate.Customers,
		Seed:      cfg.Generate.Seed,
		Profile:   cfg.Generate.Profile,
		Start:     start,
		Years:     cfg.Generate.Years,
		Output:    cfg.Generate.Output,
		Progress:  progress,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	summary, err := g.Generate(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Wrote %s order lines (%s orders, %s customers) to %s\n",
		dashboard.FormatCount(summary.Rows),
		dashboard.FormatCount(summary.Orders),
		dashboard.FormatCount(summary.Customers),
		summary.Path)
	cmd.Printf("Order dates %s to %s, revenue %s\n",
		summary.First.Format("2006-01-02"),
		summary.Last.Format("2006-01-02"),
		dashboard.FormatAmount(summary.Revenue))
	return nil
}
