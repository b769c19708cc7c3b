//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
)

// KPIs are the headline scalars.
type KPIs struct {
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
	Orders  int     `json:"orders"`
}

// ComputeKPIs sums sales and profit and counts rows.
func ComputeKPIs(t *dataset.Table) KPIs {
	var k KPIs
	t.Range(func(_ int, tx dataset.Transaction) bool {
		k.Revenue += tx.Sales
		k.Profit += tx.Profit
		k.Orders++
		return true
	})
	return k
}

// Month is a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Before reports whether m precedes o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalText implements encoding.TextMarshaler.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// MonthlyPoint is total sales for one month.
type MonthlyPoint struct {
	Month Month   `json:"month"`
	Sales float64 `json:"sales"`
}

// MonthlySeries is ordered ascending by month with no duplicates. Months
// without transactions are absent.
type MonthlySeries []MonthlyPoint

// ComputeMonthly groups sales by calendar month.
func ComputeMonthly(t *dataset.Table) MonthlySeries {
	sums := make(map[Month]float64)
	t.Range(func(_ int, tx dataset.Transaction) bool {
		sums[MonthOf(tx.OrderDate)] += tx.Sales
		return true
	})

	series := make(MonthlySeries, 0, len(sums))
	for m, s := range sums {
		series = append(series, MonthlyPoint{Month: m, Sales: s})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month.Before(series[j].Month)
	})
	return series
}

// RegionTotals maps region to total sales.
type RegionTotals map[string]float64

// RegionTotal is one entry of RegionTotals.
type RegionTotal struct {
	Region string  `json:"region"`
	Sales  float64 `json:"sales"`
}

// ComputeRegionTotals groups sales by region.
func ComputeRegionTotals(t *dataset.Table) RegionTotals {
	totals := make(RegionTotals)
	t.Range(func(_ int, tx dataset.Transaction) bool {
		totals[tx.Region] += tx.Sales
		return true
	})
	return totals
}

// Sorted returns the totals ordered by region name.
func (r RegionTotals) Sorted() []RegionTotal {
	out := make([]RegionTotal, 0, len(r))
	for region, sales := range r {
		out = append(out, RegionTotal{Region: region, Sales: sales})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out
}

// Sum returns the sum over all regions.
func (r RegionTotals) Sum() float64 {
	var total float64
	for _, s := range r {
		total += s
	}
	return total
}

// CustomerTotal is the aggregate for one customer name.
type CustomerTotal struct {
	Customer string  `json:"customer"`
	Sales    float64 `json:"sales"`
	Profit   float64 `json:"profit"`
}

// Customers is ordered by customer name. Customers sharing a name are
// merged.
type Customers []CustomerTotal

// ComputeCustomers groups sales and profit by customer name.
func ComputeCustomers(t *dataset.Table) Customers {
	index := make(map[string]int)
	var out Customers
	t.Range(func(_ int, tx dataset.Transaction) bool {
		i, ok := index[tx.Customer]
		if !ok {
			i = len(out)
			index[tx.Customer] = i
			out = append(out, CustomerTotal{Customer: tx.Customer})
		}
		out[i].Sales += tx.Sales
		out[i].Profit += tx.Profit
		return true
	})
	if out == nil {
		out = Customers{}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Customer < out[j].Customer })
	return out
}

// DailyPoint is total sales for one calendar day.
type DailyPoint struct {
	Date  time.Time `json:"date"`
	Sales float64   `json:"sales"`
}

// DailySeries is ordered ascending by date; days without transactions are
// absent.
type DailySeries []DailyPoint

// ComputeDaily groups sales by calendar day.
func ComputeDaily(t *dataset.Table) DailySeries {
	sums := make(map[time.Time]float64)
	t.Range(func(_ int, tx dataset.Transaction) bool {
		sums[dataset.Date(tx.OrderDate)] += tx.Sales
		return true
	})

	series := make(DailySeries, 0, len(sums))
	for d, s := range sums {
		series = append(series, DailyPoint{Date: d, Sales: s})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series
}
