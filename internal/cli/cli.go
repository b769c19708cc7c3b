//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-salesdash.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesdash/internal/config"
	"github.com/pgEdge/pgedge-salesdash/internal/dashboard"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
	"github.com/pgEdge/pgedge-salesdash/internal/sources"
	"github.com/pgEdge/pgedge-salesdash/pkg/version"
)

var (
	// Global flags
	cfgFile     string
	datasetPath string
	sourceName  string
	logLevel    string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-salesdash",
		Short: "Sales dashboard over a static transaction dataset",
		Long: `pgedge-salesdash loads a sales transaction dataset from a CSV file,
an Excel workbook or a database table, and computes a dashboard from it:
revenue, profit and order KPIs, monthly sales, sales by region, customer
segments and a 180-day sales forecast.

The dashboard can be served over HTTP, printed as a report, or computed for
any subset of regions.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	defer sources.CloseAll()
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-salesdash.yaml)")
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "",
		"dataset file path (default: $"+config.DatasetEnvVar+" or data/superstore.csv)")
	rootCmd.PersistentFlags().StringVar(&sourceName, "source", "",
		"dataset source (csv, xlsx, postgres, mysql)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(regionsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if datasetPath != "" {
		cfg.Dataset.Path = datasetPath
	}
	if sourceName != "" {
		cfg.Dataset.Source = sourceName
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

// newService builds a dashboard service for the configured dataset.
func newService(metrics *dashboard.Metrics) (*dashboard.Service, error) {
	src, err := sources.Get(cfg.Dataset.Source)
	if err != nil {
		return nil, err
	}
	opts, err := sources.OptionsFromConfig(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	return dashboard.NewService(src, opts, nil, metrics), nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List available dataset sources",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available dataset sources:")
		cmd.Println()
		for _, src := range sources.All() {
			cmd.Printf("  %-9s - %s\n", src.Name(), src.Description())
		}
		cmd.Println()
		cmd.Println("Select a source with --source or dataset.source in the config file.")
	},
}
