//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package mysql loads transactions from a MySQL or MariaDB table with the
// same columns as the PostgreSQL sales table.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
	"github.com/pgEdge/pgedge-salesdash/internal/sources"
)

// Name is the registered source name.
const Name = "mysql"

var tableName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

const selectSalesSQL = "SELECT order_id, order_date, region, customer_name, sales, profit FROM %s"

const primaryKeySQL = `
SELECT k.COLUMN_NAME
FROM information_schema.KEY_COLUMN_USAGE k
WHERE k.TABLE_SCHEMA = DATABASE() AND k.TABLE_NAME = ? AND k.CONSTRAINT_NAME = 'PRIMARY'
ORDER BY k.ORDINAL_POSITION`

const identitySQL = `
SELECT t.TABLE_ROWS, COALESCE(DATE_FORMAT(t.UPDATE_TIME, '%%Y%%m%%d%%H%%i%%s'), '')
FROM information_schema.TABLES t
WHERE t.TABLE_SCHEMA = DATABASE() AND t.TABLE_NAME = ?`

func init() {
	sources.Register(New())
}

// Source reads a sales table through a *sql.DB per connection string.
type Source struct {
	mu  sync.Mutex
	dbs map[string]*sql.DB
}

// New creates a mysql source.
func New() *Source {
	return &Source{dbs: make(map[string]*sql.DB)}
}

// Name returns the source name.
func (s *Source) Name() string {
	return Name
}

// Description returns a human-readable description.
func (s *Source) Description() string {
	return "MySQL or MariaDB table (mysql:// or mariadb:// URL, or driver DSN)"
}

// Identity combines the table's row estimate, last update time and exact
// row count.
func (s *Source) Identity(ctx context.Context, opts sources.Options) (dataset.Key, error) {
	db, err := s.open(ctx, opts)
	if err != nil {
		return dataset.Key{}, err
	}

	var estimate sql.NullInt64
	var updated string
	err = db.QueryRowContext(ctx, identitySQL, opts.Table).Scan(&estimate, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return dataset.Key{}, &dataset.LoadError{
			Source: opts.Table,
			Reason: dataset.ReasonNotFound,
			Err:    fmt.Errorf("table %s does not exist", opts.Table),
		}
	}
	if err != nil {
		return dataset.Key{}, dataset.WrapError(opts.Table, err)
	}

	var count int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(opts.Table)).Scan(&count); err != nil {
		return dataset.Key{}, dataset.WrapError(opts.Table, err)
	}

	return dataset.Key{
		Locator: Name + ":" + opts.Table,
		Version: "rows:" + strconv.FormatInt(count, 10) + "/updated:" + updated,
	}, nil
}

// Load reads every row of the table.
func (s *Source) Load(ctx context.Context, opts sources.Options) (*dataset.Table, error) {
	db, err := s.open(ctx, opts)
	if err != nil {
		return nil, err
	}

	keys, err := primaryKey(ctx, db, opts.Table)
	if err != nil {
		return nil, dataset.WrapError(opts.Table, err)
	}
	if len(keys) == 0 {
		logging.Warn().
			Str("table", opts.Table).
			Msg("Table has no primary key; row order is server-defined")
	}

	rows, err := db.QueryContext(ctx, selectQuery(opts.Table, keys))
	if err != nil {
		return nil, dataset.WrapError(opts.Table, err)
	}
	defer rows.Close()

	b := dataset.NewBuilder(opts.Table, opts.Parse)
	pos := 0
	for rows.Next() {
		pos++
		var (
			orderID sql.NullString
			tx      dataset.Transaction
		)
		if err := rows.Scan(&orderID, &tx.OrderDate, &tx.Region, &tx.Customer, &tx.Sales, &tx.Profit); err != nil {
			return nil, &dataset.LoadError{Source: opts.Table, Reason: dataset.ReasonUnreadable, Line: pos, Err: err}
		}
		tx.OrderID = orderID.String
		tx.Region = strings.TrimSpace(tx.Region)
		tx.Customer = strings.TrimSpace(tx.Customer)
		if err := b.Append(pos, tx); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, dataset.WrapError(opts.Table, err)
	}
	return b.Table(), nil
}

// primaryKey returns the table's primary key columns in key order.
func primaryKey(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, primaryKeySQL, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return nil, err
		}
		keys = append(keys, col)
	}
	return keys, rows.Err()
}

// selectQuery reads the table in primary key order, which is insertion
// order for an auto-increment key.
func selectQuery(table string, keys []string) string {
	q := fmt.Sprintf(selectSalesSQL, quoteIdent(table))
	if len(keys) == 0 {
		return q
	}
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = quoteIdent(k)
	}
	return q + " ORDER BY " + strings.Join(quoted, ", ")
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// Close closes every database handle opened by the source.
func (s *Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn, db := range s.dbs {
		_ = db.Close()
		delete(s.dbs, conn)
	}
}

func (s *Source) open(ctx context.Context, opts sources.Options) (*sql.DB, error) {
	if !tableName.MatchString(opts.Table) {
		return nil, &dataset.LoadError{
			Source: opts.Table,
			Reason: dataset.ReasonUnreadable,
			Err:    fmt.Errorf("invalid table name %q", opts.Table),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.dbs[opts.Connection]; ok {
		return db, nil
	}

	dsn, err := toMySQLDSN(opts.Connection)
	if err != nil {
		return nil, dataset.WrapError(opts.Table, err)
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, dataset.WrapError(opts.Table, err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, dataset.WrapError(opts.Table, fmt.Errorf("failed to ping database: %w", err))
	}

	logging.Info().Str("table", opts.Table).Msg("Connected to MySQL")
	s.dbs[opts.Connection] = db
	return db, nil
}

// toMySQLDSN converts mysql:// and mariadb:// URLs into driver DSNs. Other
// values are parsed as driver DSNs. Dates are always scanned as UTC
// time.Time values.
func toMySQLDSN(conn string) (string, error) {
	var cfg *driver.Config
	if strings.HasPrefix(conn, "mariadb://") || strings.HasPrefix(conn, "mysql://") {
		u, err := url.Parse(conn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		cfg = driver.NewConfig()
		if u.User != nil {
			cfg.User = u.User.Username()
			cfg.Passwd, _ = u.User.Password()
		}
		cfg.Net = "tcp"
		cfg.Addr = u.Host
		cfg.DBName = strings.TrimPrefix(u.Path, "/")
		if cfg.User == "" || cfg.Addr == "" || cfg.DBName == "" {
			return "", fmt.Errorf("incomplete dsn: user, host and database are required")
		}
	} else {
		var err error
		if cfg, err = driver.ParseDSN(conn); err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}
