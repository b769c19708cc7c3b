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
	"fmt"
	"math"
)

// Trend directions reported by an Insight.
const (
	TrendGrowth  = "growth"
	TrendDecline = "decline"
	TrendFlat    = "flat"
)

// FlatThreshold is the relative change below which sales count as flat.
const FlatThreshold = 0.02

// Insight compares predicted sales with the recent fitted history.
type Insight struct {
	Trend   string  `json:"trend"`
	Change  float64 `json:"change"`
	Message string  `json:"message"`
}

// summarize compares the mean prediction over the horizon with the mean
// fitted value over the last Horizon historical days.
func summarize(r *Result) Insight {
	recentFrom := max(0, r.History-r.Horizon)
	recent := meanYhat(r.Points[recentFrom:r.History])
	future := meanYhat(r.Future())

	var change float64
	switch {
	case recent != 0:
		change = (future - recent) / math.Abs(recent)
	case future > 0:
		change = 1
	case future < 0:
		change = -1
	}

	in := Insight{Change: change}
	switch {
	case change > FlatThreshold:
		in.Trend = TrendGrowth
		in.Message = fmt.Sprintf("Sales expected to grow %.1f%% over the next %d days", change*100, r.Horizon)
	case change < -FlatThreshold:
		in.Trend = TrendDecline
		in.Message = fmt.Sprintf("Sales expected to decline %.1f%% over the next %d days", -change*100, r.Horizon)
	default:
		in.Trend = TrendFlat
		in.Message = fmt.Sprintf("Sales expected to stay flat over the next %d days", r.Horizon)
	}
	return in
}

func meanYhat(points []Point) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.Yhat
	}
	return sum / float64(len(points))
}
