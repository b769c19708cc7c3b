//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package forecast fits an additive trend and seasonality model to a daily
// sales series and predicts Horizon days past the last observed date.
//
// The model is a linear trend with hinge changepoints plus weekly and yearly
// Fourier terms, fitted by ridge-regularised least squares. Components that
// the history cannot support are left out. Fitting is deterministic: the
// same series always yields the same predictions.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pgEdge/pgedge-salesdash/internal/analytics"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
)

const (
	// Horizon is the number of future calendar days predicted.
	Horizon = 180

	// IntervalWidth is the coverage of the uncertainty band.
	IntervalWidth = 0.8

	// MinDates is the minimum number of distinct dates needed for a fit.
	MinDates = 2
)

// InsufficientHistoryError is returned when the series has fewer than
// MinDates distinct dates.
type InsufficientHistoryError struct {
	Dates    int
	Required int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("forecast needs at least %d distinct order dates, got %d",
		e.Required, e.Dates)
}

// Point is one day of the forecast series. Actual is set for historical
// dates only.
type Point struct {
	Date      time.Time `json:"date"`
	Yhat      float64   `json:"yhat"`
	YhatLower float64   `json:"yhat_lower"`
	YhatUpper float64   `json:"yhat_upper"`
	Actual    *float64  `json:"actual,omitempty"`
}

// Result is a fitted forecast.
type Result struct {
	Points     []Point  `json:"points"`
	History    int      `json:"history"`
	Horizon    int      `json:"horizon"`
	Components []string `json:"components"`
	Insight    Insight  `json:"insight"`
}

// Future returns the predicted points past the last observed date.
func (r *Result) Future() []Point {
	return r.Points[r.History:]
}

// Forecast fits the model to series and predicts Horizon days ahead. The
// series may be unsorted and may repeat dates; values on the same date are
// summed.
func Forecast(series analytics.DailySeries) (*Result, error) {
	hist := normalize(series)
	if len(hist) < MinDates {
		return nil, &InsufficientHistoryError{Dates: len(hist), Required: MinDates}
	}

	n := len(hist)
	dates := make([]time.Time, n)
	y := make([]float64, n)
	scale := 0.0
	for i, p := range hist {
		dates[i] = p.Date
		y[i] = p.Sales
		scale = math.Max(scale, math.Abs(p.Sales))
	}
	if scale == 0 {
		scale = 1
	}

	d := newDesign(dates)
	beta, err := fit(d, dates, y, scale)
	if err != nil {
		return nil, err
	}

	last := dates[n-1]
	all := make([]time.Time, 0, n+Horizon)
	all = append(all, dates...)
	for h := 1; h <= Horizon; h++ {
		all = append(all, last.AddDate(0, 0, h))
	}

	yhat := predict(d, all, beta, scale)

	residuals := make([]float64, n)
	for i := range hist {
		residuals[i] = y[i] - yhat[i]
	}
	sigma := 0.0
	if n > 1 {
		sigma = stat.StdDev(residuals, nil)
	}
	if math.IsNaN(sigma) {
		sigma = 0
	}
	z := distuv.UnitNormal.Quantile(0.5 + IntervalWidth/2)

	res := &Result{
		Points:     make([]Point, len(all)),
		History:    n,
		Horizon:    Horizon,
		Components: d.components(),
	}
	for i, date := range all {
		// The band widens with distance past the last observation.
		spread := z * sigma
		if i >= n {
			spread *= math.Sqrt(1 + float64(i-n+1)/float64(n))
		}
		p := Point{
			Date:      date,
			Yhat:      yhat[i],
			YhatLower: yhat[i] - spread,
			YhatUpper: yhat[i] + spread,
		}
		if i < n {
			actual := y[i]
			p.Actual = &actual
		}
		res.Points[i] = p
	}
	res.Insight = summarize(res)

	logging.Debug().
		Int("history", n).
		Strs("components", res.Components).
		Float64("sigma", sigma).
		Msg("Fitted sales forecast")

	return res, nil
}

// normalize sorts the series by date and merges repeated dates.
func normalize(series analytics.DailySeries) analytics.DailySeries {
	out := make(analytics.DailySeries, len(series))
	copy(out, series)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	merged := out[:0]
	for _, p := range out {
		if len(merged) > 0 && merged[len(merged)-1].Date.Equal(p.Date) {
			merged[len(merged)-1].Sales += p.Sales
			continue
		}
		merged = append(merged, p)
	}
	return merged
}

// fit solves (X'X + L) b = X'y for the scaled target.
func fit(d *design, dates []time.Time, y []float64, scale float64) (*mat.VecDense, error) {
	n, cols := len(dates), d.columns()

	data := make([]float64, 0, n*cols)
	for _, date := range dates {
		data = d.row(data, date)
	}
	x := mat.NewDense(n, cols, data)

	ys := make([]float64, n)
	for i, v := range y {
		ys[i] = v / scale
	}
	yv := mat.NewVecDense(n, ys)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for i, p := range d.penalties() {
		xtx.Set(i, i, xtx.At(i, i)+p)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), yv)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("forecast fit failed: %w", err)
		}
		logging.Debug().Float64("condition", float64(cond)).Msg("Forecast normal equations are ill-conditioned")
	}
	for i := 0; i < beta.Len(); i++ {
		if v := beta.AtVec(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("forecast fit failed: non-finite coefficient")
		}
	}
	return &beta, nil
}

// predict evaluates the fitted model at each date.
func predict(d *design, dates []time.Time, beta *mat.VecDense, scale float64) []float64 {
	cols := d.columns()
	data := make([]float64, 0, len(dates)*cols)
	for _, date := range dates {
		data = d.row(data, date)
	}
	x := mat.NewDense(len(dates), cols, data)

	var out mat.VecDense
	out.MulVec(x, beta)

	yhat := make([]float64, len(dates))
	for i := range yhat {
		yhat[i] = out.AtVec(i) * scale
	}
	return yhat
}
