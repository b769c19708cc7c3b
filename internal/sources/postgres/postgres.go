//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package postgres loads transactions from a PostgreSQL table created by
// the import command.
package postgres

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/db"
	"github.com/pgEdge/pgedge-salesdash/internal/sources"
)

// Name is the registered source name.
const Name = "postgres"

func init() {
	sources.Register(New())
}

// Source reads a sales table through a pool per connection string.
type Source struct {
	mu    sync.Mutex
	pools map[string]*pgxpool.Pool
}

// New creates a postgres source.
func New() *Source {
	return &Source{pools: make(map[string]*pgxpool.Pool)}
}

// Name returns the source name.
func (s *Source) Name() string {
	return Name
}

// Description returns a human-readable description.
func (s *Source) Description() string {
	return "PostgreSQL table written by the import command"
}

// Identity uses the import timestamp recorded in the metadata table. Tables
// not written by import fall back to their row count.
func (s *Source) Identity(ctx context.Context, opts sources.Options) (dataset.Key, error) {
	pool, err := s.pool(ctx, opts)
	if err != nil {
		return dataset.Key{}, err
	}

	key := dataset.Key{Locator: Name + ":" + opts.Table}
	info, ok, err := db.GetImportInfo(ctx, pool, opts.Table)
	if err != nil {
		return dataset.Key{}, s.unreadable(opts, err)
	}
	if ok {
		key.Version = "import:" + strconv.FormatInt(info.ImportedAt.UnixNano(), 10)
		return key, nil
	}

	exists, err := db.TableExists(ctx, pool, opts.Table)
	if err != nil {
		return dataset.Key{}, s.unreadable(opts, err)
	}
	if !exists {
		return dataset.Key{}, &dataset.LoadError{
			Source: opts.Table,
			Reason: dataset.ReasonNotFound,
			Err:    fmt.Errorf("table %s does not exist", opts.Table),
		}
	}
	n, err := db.CountRows(ctx, pool, opts.Table)
	if err != nil {
		return dataset.Key{}, s.unreadable(opts, err)
	}
	key.Version = "rows:" + strconv.FormatInt(n, 10)
	return key, nil
}

// Load reads the table in insertion order.
func (s *Source) Load(ctx context.Context, opts sources.Options) (*dataset.Table, error) {
	pool, err := s.pool(ctx, opts)
	if err != nil {
		return nil, err
	}

	b := dataset.NewBuilder(opts.Table, opts.Parse)
	err = db.ScanTransactions(ctx, pool, opts.Table, func(pos int, tx dataset.Transaction) error {
		return b.Append(pos, tx)
	})
	if err != nil {
		return nil, s.unreadable(opts, err)
	}
	return b.Table(), nil
}

// Close closes every pool opened by the source.
func (s *Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn, pool := range s.pools {
		pool.Close()
		delete(s.pools, conn)
	}
}

func (s *Source) pool(ctx context.Context, opts sources.Options) (*pgxpool.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pool, ok := s.pools[opts.Connection]; ok {
		return pool, nil
	}
	pool, err := db.Connect(ctx, opts.Connection)
	if err != nil {
		return nil, s.unreadable(opts, err)
	}
	s.pools[opts.Connection] = pool
	return pool, nil
}

// unreadable wraps err in a LoadError unless it already is one.
func (s *Source) unreadable(opts sources.Options, err error) error {
	return dataset.WrapError(opts.Table, err)
}
