package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pgEdge/pgedge-salesdash/internal/analytics"
	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/sources"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// scenarioTable is the three-row table used by the East filter scenario.
func scenarioTable() *dataset.Table {
	return dataset.NewTable("scenario.csv", []dataset.Transaction{
		{OrderID: "1", OrderDate: day(2023, 1, 5), Region: "East", Customer: "Alice", Sales: 100, Profit: 20},
		{OrderID: "2", OrderDate: day(2023, 1, 20), Region: "East", Customer: "Bob", Sales: 50, Profit: -5},
		{OrderID: "3", OrderDate: day(2023, 2, 1), Region: "West", Customer: "Alice", Sales: 30, Profit: 3},
	}, 0)
}

// richTable has enough customers and history for every section.
func richTable() *dataset.Table {
	var rows []dataset.Transaction
	regions := []string{"West", "East", "Central", "South"}
	for i := 0; i < 400; i++ {
		rows = append(rows, dataset.Transaction{
			OrderID:   fmt.Sprintf("CA-%d", i),
			OrderDate: day(2022, 1, 1).AddDate(0, 0, i),
			Region:    regions[i%len(regions)],
			Customer:  fmt.Sprintf("Customer %02d", i%25),
			Sales:     float64(100 + (i%25)*40 + i%7),
			Profit:    float64((i%25)*4 - 10),
		})
	}
	return dataset.NewTable("rich.csv", rows, 2)
}

func TestBuildEastScenario(t *testing.T) {
	res := Build(scenarioTable(), analytics.NewRegionSet("East"))

	if res.KPIs.Revenue != 150 || res.KPIs.Profit != 15 || res.KPIs.Orders != 2 {
		t.Errorf("Unexpected KPIs: %+v", res.KPIs)
	}
	if len(res.Monthly) != 1 || res.Monthly[0].Month.String() != "2023-01" || res.Monthly[0].Sales != 150 {
		t.Errorf("Unexpected monthly series: %+v", res.Monthly)
	}
	if len(res.RegionTotals) != 1 || res.RegionTotals[0].Region != "East" || res.RegionTotals[0].Sales != 150 {
		t.Errorf("Unexpected region totals: %+v", res.RegionTotals)
	}

	// Two customers cannot be split into three segments.
	if res.Segments.Available || res.Segments.Message == "" || res.Segments.Result != nil {
		t.Errorf("Expected omitted segments section, got %+v", res.Segments)
	}
	// Two distinct dates are enough for a forecast.
	if !res.Forecast.Available || res.Forecast.Result == nil {
		t.Fatalf("Expected forecast section, got %+v", res.Forecast)
	}
	if got := len(res.Forecast.Result.Points); got != 2+180 {
		t.Errorf("Expected 182 forecast points, got %d", got)
	}

	if strings.Join(res.Regions.Available, ",") != "East,West" {
		t.Errorf("Unexpected available regions: %v", res.Regions.Available)
	}
	if strings.Join(res.Regions.Selected, ",") != "East" {
		t.Errorf("Unexpected selected regions: %v", res.Regions.Selected)
	}
}

func TestBuildEmptySelection(t *testing.T) {
	res := Build(scenarioTable(), analytics.NewRegionSet())

	if res.KPIs != (analytics.KPIs{}) {
		t.Errorf("Expected zero KPIs, got %+v", res.KPIs)
	}
	if len(res.Monthly) != 0 || len(res.RegionTotals) != 0 || len(res.Customers) != 0 {
		t.Error("Expected empty tables")
	}
	if res.Segments.Available || res.Forecast.Available {
		t.Error("Expected both model sections to be omitted")
	}
	if !strings.Contains(res.Segments.Message, "customers") {
		t.Errorf("Unexpected segments message: %s", res.Segments.Message)
	}
	if !strings.Contains(res.Forecast.Message, "history") {
		t.Errorf("Unexpected forecast message: %s", res.Forecast.Message)
	}
	if len(res.Regions.Selected) != 0 {
		t.Errorf("Expected no selected regions, got %v", res.Regions.Selected)
	}
}

func TestBuildNilSelectsAllRegions(t *testing.T) {
	table := scenarioTable()
	res := Build(table, nil)
	all := Build(table, analytics.AllRegions(table))

	if res.KPIs != all.KPIs {
		t.Errorf("Expected nil selection to match all regions: %+v vs %+v", res.KPIs, all.KPIs)
	}
	if res.KPIs.Orders != 3 {
		t.Errorf("Expected 3 orders, got %d", res.KPIs.Orders)
	}
	if strings.Join(res.Regions.Selected, ",") != "East,West" {
		t.Errorf("Expected East and West selected, got %v", res.Regions.Selected)
	}
}

func TestBuildAllSections(t *testing.T) {
	table := richTable()
	res := Build(table, analytics.AllRegions(table))

	if !res.Segments.Available || !res.Forecast.Available {
		t.Fatalf("Expected all sections, got segments=%q forecast=%q",
			res.Segments.Message, res.Forecast.Message)
	}
	if len(res.Segments.Result.Points) != 25 {
		t.Errorf("Expected 25 segmented customers, got %d", len(res.Segments.Result.Points))
	}
	if res.Rejected != 2 {
		t.Errorf("Expected rejected count 2, got %d", res.Rejected)
	}
	var total float64
	for _, rt := range res.RegionTotals {
		total += rt.Sales
	}
	if total != res.KPIs.Revenue {
		t.Errorf("Region totals %f do not sum to revenue %f", total, res.KPIs.Revenue)
	}
}

func TestBuildUnknownRegion(t *testing.T) {
	res := Build(scenarioTable(), analytics.NewRegionSet("West", "North"))

	if strings.Join(res.Regions.Unknown, ",") != "North" {
		t.Errorf("Expected unknown region North, got %v", res.Regions.Unknown)
	}
	if res.KPIs.Orders != 1 {
		t.Errorf("Expected 1 order, got %d", res.KPIs.Orders)
	}
}

type stubSource struct {
	mu      sync.Mutex
	table   *dataset.Table
	err     error
	version string
	loads   int
}

func (s *stubSource) Name() string        { return "stub" }
func (s *stubSource) Description() string { return "stub" }

func (s *stubSource) Identity(ctx context.Context, opts sources.Options) (dataset.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dataset.Key{Locator: "stub", Version: s.version}, nil
}

func (s *stubSource) Load(ctx context.Context, opts sources.Options) (*dataset.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	return s.table, s.err
}

func TestServiceCachesTable(t *testing.T) {
	src := &stubSource{table: scenarioTable(), version: "1"}
	reg := prometheus.NewRegistry()
	svc := NewService(src, sources.Options{}, nil, NewMetrics(reg))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Dashboard(context.Background(), nil); err != nil {
				t.Errorf("Dashboard failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if src.loads != 1 {
		t.Errorf("Expected a single load, got %d", src.loads)
	}

	src.mu.Lock()
	src.version = "2"
	src.mu.Unlock()
	if _, err := svc.Dashboard(context.Background(), nil); err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if src.loads != 2 {
		t.Errorf("Expected a reload after the identity changed, got %d loads", src.loads)
	}

	if got := testutil.ToFloat64(svc.metrics.builds.WithLabelValues("ok")); got != 9 {
		t.Errorf("Expected 9 successful builds, got %f", got)
	}
	if got := testutil.ToFloat64(svc.metrics.rows); got != 3 {
		t.Errorf("Expected rows gauge 3, got %f", got)
	}
	if got := testutil.ToFloat64(svc.metrics.omissions.WithLabelValues(SectionSegments)); got != 9 {
		t.Errorf("Expected 9 segment omissions, got %f", got)
	}
}

func TestServiceNilSelectsAllRegions(t *testing.T) {
	svc := NewService(&stubSource{table: scenarioTable(), version: "1"}, sources.Options{}, nil, nil)

	all, err := svc.Dashboard(context.Background(), nil)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if all.KPIs.Orders != 3 {
		t.Errorf("Expected 3 orders for all regions, got %d", all.KPIs.Orders)
	}

	none, err := svc.Dashboard(context.Background(), analytics.RegionSet{})
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if none.KPIs.Orders != 0 {
		t.Errorf("Expected 0 orders for the empty set, got %d", none.KPIs.Orders)
	}

	regions, err := svc.Regions(context.Background())
	if err != nil {
		t.Fatalf("Regions failed: %v", err)
	}
	if strings.Join(regions, ",") != "East,West" {
		t.Errorf("Unexpected regions: %v", regions)
	}
}

func TestServiceLoadError(t *testing.T) {
	loadErr := &dataset.LoadError{Source: "stub", Reason: dataset.ReasonBadDate, Line: 4}
	reg := prometheus.NewRegistry()
	svc := NewService(&stubSource{err: loadErr, version: "1"}, sources.Options{}, nil, NewMetrics(reg))

	res, err := svc.Dashboard(context.Background(), nil)
	if res != nil {
		t.Error("Expected no partial dashboard on load failure")
	}
	var lerr *dataset.LoadError
	if !errors.As(err, &lerr) || lerr.Reason != dataset.ReasonBadDate {
		t.Fatalf("Expected LoadError, got %v", err)
	}
	if got := testutil.ToFloat64(svc.metrics.builds.WithLabelValues("error")); got != 1 {
		t.Errorf("Expected 1 failed build, got %f", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{FormatCurrency("₹", 0), "₹0"},
		{FormatCurrency("₹", 150), "₹150"},
		{FormatCurrency("₹", 1234567.6), "₹1,234,568"},
		{FormatCurrency("$", -4200.2), "-$4,200"},
		{FormatCurrency("₹", 999.4), "₹999"},
		{FormatCount(0), "0"},
		{FormatCount(1000), "1,000"},
		{FormatCount(-12345), "-12,345"},
		{FormatAmount(1234.5), "1,234.50"},
		{FormatAmount(-0.126), "-0.13"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, tt.got)
		}
	}
}
