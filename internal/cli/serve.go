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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesdash/internal/dashboard"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
	"github.com/pgEdge/pgedge-salesdash/internal/server"
)

var (
	serveAddr    string
	servePreload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API over HTTP",
	Long: `Serve dashboards over HTTP until interrupted with Ctrl+C.

Endpoints:
  GET  /api/v1/regions                       regions in the dataset
  GET  /api/v1/dashboard?region=East         dashboard for the given regions
  POST /api/v1/dashboard {"regions": [...]}  dashboard for the given regions
  GET  /healthz                              liveness
  GET  /metrics                              Prometheus metrics

Without a region selection every region is included. The dataset is loaded
on first use and reloaded whenever it changes.

Example:
  pgedge-salesdash serve --dataset data/superstore.csv --addr :9000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (default: :8080)")
	serveCmd.Flags().BoolVar(&servePreload, "preload", false,
		"load the dataset before accepting requests")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc, err := newService(dashboard.NewMetrics(reg))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if servePreload {
		if _, err := svc.Table(ctx); err != nil {
			return err
		}
	}

	logging.Info().
		Str("source", cfg.Dataset.Source).
		Str("addr", cfg.Server.Addr).
		Msg("Starting dashboard server")

	return server.New(svc, reg, cfg.Server).Run(ctx)
}
