//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package dashboard assembles the sales dashboard from a loaded table: KPI
// cards, monthly trend, regional totals, customer segments and the sales
// forecast. Segmentation and forecasting may fail on small inputs; when they
// do only their section is omitted, with a message in its place.
package dashboard

import (
	"errors"
	"time"

	"github.com/pgEdge/pgedge-salesdash/internal/analytics"
	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/forecast"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
	"github.com/pgEdge/pgedge-salesdash/internal/segment"
)

// Stage names used for timing.
const (
	StageLoad      = "load"
	StageFilter    = "filter"
	StageAggregate = "aggregate"
	StageSegment   = "segment"
	StageForecast  = "forecast"
)

// Section names.
const (
	SectionSegments = "segments"
	SectionForecast = "forecast"
)

// Regions lists the regions of the dataset and those selected.
type Regions struct {
	// Available is every region in the dataset, in first-appearance order.
	Available []string `json:"available"`

	// Selected is the selected regions present in the dataset, in
	// Available order.
	Selected []string `json:"selected"`

	// Unknown is the selected regions absent from the dataset, sorted.
	Unknown []string `json:"unknown,omitempty"`
}

// SegmentsSection holds the segmentation or the reason it is missing.
type SegmentsSection struct {
	Available bool            `json:"available"`
	Message   string          `json:"message,omitempty"`
	Result    *segment.Result `json:"result,omitempty"`
}

// ForecastSection holds the forecast or the reason it is missing.
type ForecastSection struct {
	Available bool             `json:"available"`
	Message   string           `json:"message,omitempty"`
	Result    *forecast.Result `json:"result,omitempty"`
}

// Result is a fully computed dashboard.
type Result struct {
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`

	// Rejected is the number of input rows dropped while loading.
	Rejected int `json:"rejected"`

	Regions      Regions                 `json:"regions"`
	KPIs         analytics.KPIs          `json:"kpis"`
	Monthly      analytics.MonthlySeries `json:"monthly"`
	RegionTotals []analytics.RegionTotal `json:"region_totals"`
	Customers    analytics.Customers     `json:"customers"`
	Segments     SegmentsSection         `json:"segments"`
	Forecast     ForecastSection         `json:"forecast"`
}

// Build computes the dashboard for the rows of table whose region is in
// allowed. A nil set selects every region; an empty non-nil set selects
// none. It never fails: an empty selection yields zero KPIs and empty
// tables, and sections that cannot be computed carry a message instead.
func Build(table *dataset.Table, allowed analytics.RegionSet) *Result {
	return build(table, allowed, nil)
}

func build(table *dataset.Table, allowed analytics.RegionSet, m *Metrics) *Result {
	if allowed == nil {
		allowed = analytics.AllRegions(table)
	}
	res := &Result{
		Source:   table.Source(),
		LoadedAt: table.LoadedAt(),
		Rejected: table.Rejected(),
		Regions:  selectRegions(table.Regions(), allowed),
	}

	stop := m.time(StageFilter)
	filtered := analytics.Filter(table, allowed)
	stop()

	stop = m.time(StageAggregate)
	res.KPIs = analytics.ComputeKPIs(filtered)
	res.Monthly = analytics.ComputeMonthly(filtered)
	res.RegionTotals = analytics.ComputeRegionTotals(filtered).Sorted()
	res.Customers = analytics.ComputeCustomers(filtered)
	daily := analytics.ComputeDaily(filtered)
	stop()

	stop = m.time(StageSegment)
	seg, err := segment.Segment(res.Customers)
	stop()
	if err != nil {
		res.Segments = SegmentsSection{Message: sectionMessage(err)}
		m.omitted(SectionSegments)
	} else {
		res.Segments = SegmentsSection{Available: true, Result: seg}
	}

	stop = m.time(StageForecast)
	fc, err := forecast.Forecast(daily)
	stop()
	if err != nil {
		res.Forecast = ForecastSection{Message: sectionMessage(err)}
		m.omitted(SectionForecast)
	} else {
		res.Forecast = ForecastSection{Available: true, Result: fc}
	}

	logging.Debug().
		Int("rows", filtered.Len()).
		Int("regions", len(res.Regions.Selected)).
		Bool("segments", res.Segments.Available).
		Bool("forecast", res.Forecast.Available).
		Msg("Built dashboard")

	return res
}

// sectionMessage explains why a section is missing.
func sectionMessage(err error) string {
	var ide *segment.InsufficientDataError
	if errors.As(err, &ide) {
		return "Not enough customers to segment: " + ide.Error()
	}
	var ihe *forecast.InsufficientHistoryError
	if errors.As(err, &ihe) {
		return "Not enough history to forecast: " + ihe.Error()
	}
	logging.Warn().Err(err).Msg("Dashboard section failed")
	return err.Error()
}

func selectRegions(available []string, allowed analytics.RegionSet) Regions {
	r := Regions{
		Available: available,
		Selected:  make([]string, 0, len(available)),
	}
	present := make(map[string]bool, len(available))
	for _, name := range available {
		present[name] = true
		if allowed.Contains(name) {
			r.Selected = append(r.Selected, name)
		}
	}
	for _, name := range allowed.Sorted() {
		if !present[name] {
			r.Unknown = append(r.Unknown, name)
		}
	}
	return r
}
