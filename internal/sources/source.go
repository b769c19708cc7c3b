//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package sources defines the dataset source interface and its registry.
// Implementations live in subpackages and register themselves from init.
package sources

import (
	"context"
	"fmt"

	"github.com/pgEdge/pgedge-salesdash/internal/config"
	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
)

// Options tells a source where its dataset lives and how to parse it.
type Options struct {
	// Path is the file path for file-backed sources.
	Path string

	// Connection is the database URL for database-backed sources.
	Connection string

	// Table is the table name for database-backed sources.
	Table string

	// Encoding is the text encoding of CSV files (utf-8 or latin1).
	Encoding string

	// Parse controls date layouts and the bad row policy.
	Parse dataset.ParseOptions
}

// OptionsFromConfig builds Options from the dataset configuration.
func OptionsFromConfig(cfg config.DatasetConfig) (Options, error) {
	policy, err := dataset.ParsePolicy(cfg.BadRows)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Path:       cfg.Path,
		Connection: cfg.Connection,
		Table:      cfg.Table,
		Encoding:   cfg.Encoding,
		Parse: dataset.ParseOptions{
			Layouts: cfg.Layouts(),
			Policy:  policy,
		},
	}, nil
}

// Source loads a transaction table from one kind of storage.
type Source interface {
	// Name returns the source name used in configuration.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Identity returns the cache key of the dataset as it is now. The key
	// changes whenever the underlying data changes.
	Identity(ctx context.Context, opts Options) (dataset.Key, error)

	// Load reads the full dataset.
	Load(ctx context.Context, opts Options) (*dataset.Table, error)
}

// Closer is implemented by sources that hold connections.
type Closer interface {
	Close()
}

// Loader returns a dataset.LoadFunc that loads opts from src.
func Loader(src Source, opts Options) dataset.LoadFunc {
	return func(ctx context.Context) (*dataset.Table, error) {
		return src.Load(ctx, opts)
	}
}

// Open resolves the dataset identity and loads it through the cache.
func Open(ctx context.Context, cache *dataset.Cache, src Source, opts Options) (*dataset.Table, bool, error) {
	key, err := src.Identity(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	table, hit, err := cache.Get(ctx, key, Loader(src, opts))
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s dataset: %w", src.Name(), err)
	}
	return table, hit, nil
}
