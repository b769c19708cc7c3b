//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dashboard

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "salesdash"

// Metrics records dashboard activity. A nil *Metrics records nothing.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	builds        *prometheus.CounterVec
	cache         *prometheus.CounterVec
	omissions     *prometheus.CounterVec
	rows          prometheus.Gauge
	rejected      prometheus.Gauge
}

// NewMetrics registers the dashboard metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each dashboard stage.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"stage"}),
		builds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_builds_total",
			Help:      "Dashboard builds by outcome.",
		}, []string{"outcome"}),
		cache: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_cache_requests_total",
			Help:      "Dataset cache lookups by result.",
		}, []string{"result"}),
		omissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "section_omissions_total",
			Help:      "Dashboard sections omitted because they could not be computed.",
		}, []string{"section"}),
		rows: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows in the most recently loaded dataset.",
		}),
		rejected: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rejected_rows",
			Help:      "Rows dropped while loading the most recent dataset.",
		}),
	}
}

// time starts timing stage and returns the function that stops it.
func (m *Metrics) time(stage string) func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) build(ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.builds.WithLabelValues(outcome).Inc()
}

func (m *Metrics) cacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(result).Inc()
}

func (m *Metrics) omitted(section string) {
	if m == nil {
		return
	}
	m.omissions.WithLabelValues(section).Inc()
}

func (m *Metrics) loaded(rows, rejected int) {
	if m == nil {
		return
	}
	m.rows.Set(float64(rows))
	m.rejected.Set(float64(rejected))
}
