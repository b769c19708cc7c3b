//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen generates synthetic Superstore-style sales datasets.
package datagen

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/pgEdge/pgedge-salesdash/internal/logging"
)

// Header is the column layout of generated files.
var Header = []string{
	"Row ID", "Order ID", "Order Date", "Ship Date", "Ship Mode",
	"Customer ID", "Customer Name", "Segment", "Country", "City", "State",
	"Region", "Category", "Sub-Category", "Sales", "Quantity", "Discount",
	"Profit",
}

// Config holds configuration for data generation.
type Config struct {
	// Rows is the number of order lines to generate.
	Rows int

	// Customers is the size of the customer pool.
	Customers int

	// Seed makes generation reproducible; 0 picks a random seed.
	Seed uint64

	// Profile names the seasonal demand profile.
	Profile string

	// Start is the first possible order date.
	Start time.Time

	// Years is the length of the generated history.
	Years int

	// Output is the file to write; .csv or .xlsx.
	Output string

	// Progress receives the progress bar; nil disables it.
	Progress io.Writer
}

// Summary describes a generated dataset.
type Summary struct {
	Path      string
	Rows      int
	Orders    int
	Customers int
	First     time.Time
	Last      time.Time
	Revenue   float64
}

// Line is one generated order line.
type Line struct {
	RowID       int
	OrderID     string
	OrderDate   time.Time
	ShipDate    time.Time
	ShipMode    string
	CustomerID  string
	Customer    string
	Segment     string
	City        string
	State       string
	Region      string
	Category    string
	SubCategory string
	Sales       float64
	Quantity    int
	Discount    float64
	Profit      float64
}

// Record returns the line as text cells in Header order.
func (l Line) Record() []string {
	return []string{
		strconv.Itoa(l.RowID),
		l.OrderID,
		l.OrderDate.Format("2006-01-02"),
		l.ShipDate.Format("2006-01-02"),
		l.ShipMode,
		l.CustomerID,
		l.Customer,
		l.Segment,
		"United States",
		l.City,
		l.State,
		l.Region,
		l.Category,
		l.SubCategory,
		strconv.FormatFloat(l.Sales, 'f', 2, 64),
		strconv.Itoa(l.Quantity),
		strconv.FormatFloat(l.Discount, 'f', 2, 64),
		strconv.FormatFloat(l.Profit, 'f', 2, 64),
	}
}

type customer struct {
	id      string
	name    string
	segment string
	region  string
	state   string
	city    string
}

// Generator produces order lines.
type Generator struct {
	cfg     Config
	faker   *Faker
	profile Profile
	days    []time.Time
	cum     []float64
}

// New creates a generator for cfg.
func New(cfg Config) (*Generator, error) {
	if cfg.Rows < 1 {
		return nil, fmt.Errorf("rows must be at least 1")
	}
	if cfg.Customers < 1 {
		return nil, fmt.Errorf("customers must be at least 1")
	}
	if cfg.Years < 1 {
		return nil, fmt.Errorf("years must be at least 1")
	}
	profile, err := GetProfile(cfg.Profile)
	if err != nil {
		return nil, err
	}

	f := NewFaker()
	if cfg.Seed != 0 {
		f = NewFakerWithSeed(cfg.Seed)
	}

	g := &Generator{cfg: cfg, faker: f, profile: profile}
	g.buildCalendar()
	return g, nil
}

// buildCalendar weights every day of the history by the profile's demand.
func (g *Generator) buildCalendar() {
	start := time.Date(g.cfg.Start.Year(), g.cfg.Start.Month(), g.cfg.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(g.cfg.Years, 0, 0)
	growth := g.profile.YearlyGrowth()

	var total float64
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		years := d.Sub(start).Hours() / 24 / 365.25
		total += g.profile.DemandLevel(d) * (1 + growth*years)
		g.days = append(g.days, d)
		g.cum = append(g.cum, total)
	}
}

// pickDay samples a day in proportion to its demand.
func (g *Generator) pickDay() time.Time {
	total := g.cum[len(g.cum)-1]
	r := g.faker.Float64(0, total)
	i := sort.SearchFloat64s(g.cum, r)
	if i >= len(g.days) {
		i = len(g.days) - 1
	}
	return g.days[i]
}

func (g *Generator) customers() []customer {
	seen := make(map[string]bool, g.cfg.Customers)
	out := make([]customer, 0, g.cfg.Customers)
	for i := 0; i < g.cfg.Customers; i++ {
		name := g.faker.Name()
		for attempt := 0; seen[name] && attempt < 10; attempt++ {
			name = g.faker.Name()
		}
		if seen[name] {
			name = name + " " + strconv.Itoa(i)
		}
		seen[name] = true

		region := ChooseWeighted(g.faker, regionNames, regionWeights)
		out = append(out, customer{
			id:      fmt.Sprintf("%s-%d", Initials(name), 10000+i*10+g.faker.Int(0, 9)),
			name:    name,
			segment: ChooseWeighted(g.faker, segmentNames, segmentWeights),
			region:  region,
			state:   Choose(g.faker, regionStates[region]),
			city:    g.faker.City(),
		})
	}
	return out
}

// Lines generates the configured number of order lines sorted by order
// date, with Row IDs assigned in that order.
func (g *Generator) Lines(ctx context.Context) ([]Line, error) {
	pool := g.customers()
	lines := make([]Line, 0, g.cfg.Rows)
	orderNum := 100000

	for len(lines) < g.cfg.Rows {
		if len(lines)%4096 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// Skew orders toward a minority of frequent customers.
		u := g.faker.Float64(0, 1)
		c := pool[min(int(float64(len(pool))*u*u), len(pool)-1)]

		orderNum++
		date := g.pickDay()
		mode := ChooseWeighted(g.faker, shipModes, shipModeWeights)
		ship := date.AddDate(0, 0, g.faker.Int(mode.MinDays, mode.MaxDays))
		orderID := fmt.Sprintf("US-%d-%d", date.Year(), orderNum)

		n := ChooseWeighted(g.faker, linesPerOrder, linesPerOrderWts)
		for i := 0; i < n && len(lines) < g.cfg.Rows; i++ {
			lines = append(lines, g.line(orderID, date, ship, mode.Name, c))
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].OrderDate.Before(lines[j].OrderDate)
	})
	for i := range lines {
		lines[i].RowID = i + 1
	}
	return lines, nil
}

func (g *Generator) line(orderID string, date, ship time.Time, mode string, c customer) Line {
	category := ChooseWeighted(g.faker, categoryNames, categoryWeights)
	sub := Choose(g.faker, subCategories[category])
	qty := ChooseWeighted(g.faker, quantities, quantityWeights)
	discount := ChooseWeighted(g.faker, discounts, discountWeights)

	price := g.faker.Price(sub.MinPrice, sub.MaxPrice)
	sales := round2(price * float64(qty) * (1 - discount))
	margin := sub.Margin - 1.6*discount + g.faker.Float64(-0.05, 0.05)

	return Line{
		OrderID:     orderID,
		OrderDate:   date,
		ShipDate:    ship,
		ShipMode:    mode,
		CustomerID:  c.id,
		Customer:    c.name,
		Segment:     c.segment,
		City:        c.city,
		State:       c.state,
		Region:      c.region,
		Category:    category,
		SubCategory: sub.Name,
		Sales:       sales,
		Quantity:    qty,
		Discount:    discount,
		Profit:      round2(sales * margin),
	}
}

// Generate writes the dataset to cfg.Output.
func (g *Generator) Generate(ctx context.Context) (Summary, error) {
	lines, err := g.Lines(ctx)
	if err != nil {
		return Summary{}, err
	}

	w, err := NewWriter(g.cfg.Output)
	if err != nil {
		return Summary{}, err
	}

	bar := newProgressBar(g.cfg.Progress, len(lines))
	if err := w.WriteHeader(Header); err != nil {
		w.Abort()
		return Summary{}, err
	}

	summary := Summary{Path: g.cfg.Output, Rows: len(lines)}
	orders := make(map[string]struct{})
	customers := make(map[string]struct{})
	for i, l := range lines {
		if i%4096 == 0 && ctx.Err() != nil {
			w.Abort()
			return Summary{}, ctx.Err()
		}
		if err := w.WriteLine(l); err != nil {
			w.Abort()
			return Summary{}, err
		}
		orders[l.OrderID] = struct{}{}
		customers[l.Customer] = struct{}{}
		summary.Revenue += l.Sales
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if err := w.Close(); err != nil {
		return Summary{}, err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	summary.Orders = len(orders)
	summary.Customers = len(customers)
	if len(lines) > 0 {
		summary.First = lines[0].OrderDate
		summary.Last = lines[len(lines)-1].OrderDate
	}

	logging.Info().
		Str("output", summary.Path).
		Str("profile", g.profile.Name()).
		Int("rows", summary.Rows).
		Int("orders", summary.Orders).
		Int("customers", summary.Customers).
		Msg("Generated dataset")

	return summary, nil
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	if w == nil {
		return nil
	}
	return progressbar.NewOptions64(int64(total),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Generating rows"),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
