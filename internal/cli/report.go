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
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesdash/internal/analytics"
	"github.com/pgEdge/pgedge-salesdash/internal/dashboard"
)

var (
	reportRegions   []string
	reportNoRegions bool
	reportFormat    string
	reportCurrency  string
	reportTop       int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the dashboard for a region selection",
	Long: `Build the dashboard once and print it.

Without --region every region is included. --region may be repeated;
--no-regions selects no region at all, which yields empty tables and zero
totals.

Example:
  pgedge-salesdash report --region East --region West
  pgedge-salesdash report --format json > dashboard.json`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringArrayVar(&reportRegions, "region", nil,
		"region to include (repeatable; default: all regions)")
	reportCmd.Flags().BoolVar(&reportNoRegions, "no-regions", false,
		"select no regions")
	reportCmd.Flags().StringVar(&reportFormat, "format", "text",
		"output format: text or json")
	reportCmd.Flags().StringVar(&reportCurrency, "currency", "",
		"currency symbol (default: display.currency)")
	reportCmd.Flags().IntVar(&reportTop, "top", 10,
		"number of customers to list in text output")
	reportCmd.MarkFlagsMutuallyExclusive("region", "no-regions")
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if reportCurrency != "" {
		cfg.Display.Currency = reportCurrency
	}

	svc, err := newService(nil)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := svc.Dashboard(ctx, selection(reportRegions, reportNoRegions))
	if err != nil {
		return err
	}

	switch reportFormat {
	case "json":
		return writeJSONReport(cmd.OutOrStdout(), res)
	case "text":
		return writeTextReport(cmd.OutOrStdout(), res, cfg.Display.Currency, reportTop)
	default:
		return fmt.Errorf("unknown format %q (use text or json)", reportFormat)
	}
}

// selection turns region flags into an allowed set. No flags select every
// region.
func selection(regions []string, none bool) analytics.RegionSet {
	if none {
		return analytics.NewRegionSet()
	}
	if len(regions) == 0 {
		return nil
	}
	return analytics.NewRegionSet(regions...)
}

func writeJSONReport(w io.Writer, res *dashboard.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func writeTextReport(w io.Writer, res *dashboard.Result, currency string, top int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	money := func(v float64) string { return dashboard.FormatCurrency(currency, v) }

	fmt.Fprintf(tw, "Dataset:\t%s\n", res.Source)
	if res.Rejected > 0 {
		fmt.Fprintf(tw, "Rejected rows:\t%s\n", dashboard.FormatCount(res.Rejected))
	}
	fmt.Fprintf(tw, "Regions:\t%s\n", listOrNone(res.Regions.Selected))
	if len(res.Regions.Unknown) > 0 {
		fmt.Fprintf(tw, "Unknown regions:\t%s\n", strings.Join(res.Regions.Unknown, ", "))
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Total Revenue\t%s\n", money(res.KPIs.Revenue))
	fmt.Fprintf(tw, "Total Profit\t%s\n", money(res.KPIs.Profit))
	fmt.Fprintf(tw, "Total Orders\t%s\n", dashboard.FormatCount(res.KPIs.Orders))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "MONTH\tSALES")
	for _, m := range res.Monthly {
		fmt.Fprintf(tw, "%s\t%s\n", m.Month, dashboard.FormatAmount(m.Sales))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "REGION\tSALES")
	for _, r := range res.RegionTotals {
		fmt.Fprintf(tw, "%s\t%s\n", r.Region, dashboard.FormatAmount(r.Sales))
	}
	fmt.Fprintln(tw)

	if top > 0 && len(res.Customers) > 0 {
		fmt.Fprintln(tw, "CUSTOMER\tSALES\tPROFIT")
		for _, c := range topCustomers(res.Customers, top) {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Customer,
				dashboard.FormatAmount(c.Sales), dashboard.FormatAmount(c.Profit))
		}
		fmt.Fprintln(tw)
	}

	if res.Segments.Available {
		fmt.Fprintln(tw, "SEGMENT\tCUSTOMERS\tAVG SALES\tAVG PROFIT")
		for _, c := range res.Segments.Result.Centroids {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", c.Segment, c.Size,
				dashboard.FormatAmount(c.Sales), dashboard.FormatAmount(c.Profit))
		}
	} else {
		fmt.Fprintf(tw, "Segments:\t%s\n", res.Segments.Message)
	}
	fmt.Fprintln(tw)

	if res.Forecast.Available {
		f := res.Forecast.Result
		future := f.Future()
		last := future[len(future)-1]
		fmt.Fprintf(tw, "Forecast:\t%s\n", f.Insight.Message)
		fmt.Fprintf(tw, "Model:\t%s\n", strings.Join(f.Components, " + "))
		fmt.Fprintf(tw, "%s:\t%s (%s to %s)\n", last.Date.Format("2006-01-02"),
			dashboard.FormatAmount(last.Yhat),
			dashboard.FormatAmount(last.YhatLower),
			dashboard.FormatAmount(last.YhatUpper))
	} else {
		fmt.Fprintf(tw, "Forecast:\t%s\n", res.Forecast.Message)
	}

	return tw.Flush()
}

// topCustomers returns the n customers with the highest sales.
func topCustomers(customers analytics.Customers, n int) analytics.Customers {
	sorted := make(analytics.Customers, len(customers))
	copy(sorted, customers)
	// Ties keep their name order.
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Sales > sorted[j].Sales })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
