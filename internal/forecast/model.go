//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package forecast

import (
	"math"
	"time"
)

const (
	weeklyPeriod = 7.0
	yearlyPeriod = 365.25

	weeklyOrder = 3
	yearlyOrder = 10

	// Minimum history span, in days, before a seasonality is modelled.
	weeklyMinSpan = 14
	yearlyMinSpan = 730

	maxChangepoints  = 25
	changepointRange = 0.8
	rowsPerCPoint    = 10
	seasonalityRidge = 1e-3
	changepointRidge = 1e-1
	rowsPerParameter = 2
	secondsPerDay    = 24 * 60 * 60
)

// design describes the regressors of the additive model:
//
//	y(t) = a + b*t + sum_j d_j*max(0, t-s_j) + weekly(t) + yearly(t)
//
// where t is time scaled to [0, 1] over the history.
type design struct {
	origin       time.Time
	span         float64
	changepoints []float64
	weekly       bool
	yearly       bool
}

// newDesign picks the components the history can support. Components are enabled in order while there are at least
// rowsPerParameter rows per column.
func newDesign(dates []time.Time) *design {
	n := len(dates)
	first, last := dates[0], dates[n-1]
	d := &design{
		origin: first,
		span:   last.Sub(first).Hours() / 24,
	}

	cols := 2
	fits := func(extra int) bool { return n >= rowsPerParameter*(cols+extra) }

	if d.span >= weeklyMinSpan && fits(2*weeklyOrder) {
		d.weekly = true
		cols += 2 * weeklyOrder
	}
	if d.span >= yearlyMinSpan && fits(2*yearlyOrder) {
		d.yearly = true
		cols += 2 * yearlyOrder
	}
	if k := min(maxChangepoints, n/rowsPerCPoint); k > 0 && fits(k) {
		d.changepoints = placeChangepoints(d, dates, k)
	}
	return d
}

// placeChangepoints spreads k changepoints evenly over the rows of the first
// part of the history.
func placeChangepoints(d *design, dates []time.Time, k int) []float64 {
	histRows := int(math.Floor(float64(len(dates)) * changepointRange))
	if histRows < 2 {
		return nil
	}
	cps := make([]float64, 0, k)
	step := float64(histRows-1) / float64(k)
	for j := 1; j <= k; j++ {
		idx := int(math.Round(float64(j) * step))
		s := d.scale(dates[idx])
		if len(cps) > 0 && s <= cps[len(cps)-1] {
			continue
		}
		cps = append(cps, s)
	}
	return cps
}

func (d *design) scale(date time.Time) float64 {
	return date.Sub(d.origin).Hours() / 24 / d.span
}

// columns is the number of regressors.
func (d *design) columns() int {
	c := 2 + len(d.changepoints)
	if d.weekly {
		c += 2 * weeklyOrder
	}
	if d.yearly {
		c += 2 * yearlyOrder
	}
	return c
}

// penalties returns the ridge weight of each column. Intercept and slope are
// never penalised.
func (d *design) penalties() []float64 {
	p := make([]float64, 0, d.columns())
	p = append(p, 0, 0)
	for range d.changepoints {
		p = append(p, changepointRidge)
	}
	for i := 0; i < d.seasonalColumns(); i++ {
		p = append(p, seasonalityRidge)
	}
	return p
}

func (d *design) seasonalColumns() int {
	c := 0
	if d.weekly {
		c += 2 * weeklyOrder
	}
	if d.yearly {
		c += 2 * yearlyOrder
	}
	return c
}

// components names the enabled model terms.
func (d *design) components() []string {
	out := []string{"trend"}
	if len(d.changepoints) > 0 {
		out = append(out, "changepoints")
	}
	if d.weekly {
		out = append(out, "weekly")
	}
	if d.yearly {
		out = append(out, "yearly")
	}
	return out
}

// row appends the regressors for date to dst.
func (d *design) row(dst []float64, date time.Time) []float64 {
	t := d.scale(date)
	dst = append(dst, 1, t)
	for _, s := range d.changepoints {
		dst = append(dst, math.Max(0, t-s))
	}
	days := float64(date.Unix()) / secondsPerDay
	if d.weekly {
		dst = fourier(dst, days, weeklyPeriod, weeklyOrder)
	}
	if d.yearly {
		dst = fourier(dst, days, yearlyPeriod, yearlyOrder)
	}
	return dst
}

func fourier(dst []float64, days, period float64, order int) []float64 {
	for k := 1; k <= order; k++ {
		x := 2 * math.Pi * float64(k) * days / period
		dst = append(dst, math.Sin(x), math.Cos(x))
	}
	return dst
}
