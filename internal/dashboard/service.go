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
	"context"

	"github.com/pgEdge/pgedge-salesdash/internal/analytics"
	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
	"github.com/pgEdge/pgedge-salesdash/internal/sources"
)

// Service builds dashboards from one configured dataset. The loaded table
// is shared through a cache keyed by the dataset identity, so a dataset is
// read again only after it changes. Every build is recomputed from the
// cached table.
type Service struct {
	src     sources.Source
	opts    sources.Options
	cache   *dataset.Cache
	metrics *Metrics
}

// NewService creates a service. cache and metrics may be nil.
func NewService(src sources.Source, opts sources.Options, cache *dataset.Cache, metrics *Metrics) *Service {
	if cache == nil {
		cache = dataset.NewCache()
	}
	return &Service{src: src, opts: opts, cache: cache, metrics: metrics}
}

// Table returns the current dataset, loading it if needed.
func (s *Service) Table(ctx context.Context) (*dataset.Table, error) {
	stop := s.metrics.time(StageLoad)
	table, hit, err := sources.Open(ctx, s.cache, s.src, s.opts)
	stop()
	if err != nil {
		return nil, err
	}
	s.metrics.cacheLookup(hit)
	if !hit {
		s.metrics.loaded(table.Len(), table.Rejected())
		logging.Info().
			Str("source", s.src.Name()).
			Str("dataset", table.Source()).
			Int("rows", table.Len()).
			Int("rejected", table.Rejected()).
			Msg("Loaded dataset")
	}
	return table, nil
}

// Regions returns the dataset's regions in first-appearance order.
func (s *Service) Regions(ctx context.Context) ([]string, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	return table.Regions(), nil
}

// Dashboard builds the dashboard for the allowed regions. A nil set selects
// every region; an empty non-nil set selects none.
func (s *Service) Dashboard(ctx context.Context, allowed analytics.RegionSet) (*Result, error) {
	table, err := s.Table(ctx)
	if err != nil {
		s.metrics.build(false)
		return nil, err
	}
	res := build(table, allowed, s.metrics)
	s.metrics.build(true)
	return res, nil
}
