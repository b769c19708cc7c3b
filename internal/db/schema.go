//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
)

// DefaultSalesTable is the table transactions are imported into.
const DefaultSalesTable = "sales_transactions"

// salesColumns are the columns written by CopyTransactions, in order.
var salesColumns = []string{
	"order_id", "order_date", "region", "customer_name", "sales", "profit",
}

const createSalesTableSQL = `
CREATE TABLE IF NOT EXISTS %s (
    row_id        BIGSERIAL PRIMARY KEY,
    order_id      TEXT NOT NULL,
    order_date    DATE NOT NULL,
    region        TEXT NOT NULL,
    customer_name TEXT NOT NULL,
    sales         DOUBLE PRECISION NOT NULL CHECK (sales >= 0),
    profit        DOUBLE PRECISION NOT NULL
)`

const selectSalesSQL = `
SELECT order_id, order_date, region, customer_name, sales, profit
FROM %s
ORDER BY row_id`

func quoteTable(table string) string {
	return pgx.Identifier{table}.Sanitize()
}

// CreateSalesTable creates the sales transaction table if it doesn't exist.
func CreateSalesTable(ctx context.Context, db DB, table string) error {
	if _, err := db.Exec(ctx, fmt.Sprintf(createSalesTableSQL, quoteTable(table))); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

// DropSalesTable drops the sales transaction table.
func DropSalesTable(ctx context.Context, db DB, table string) error {
	if _, err := db.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTable(table))); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	return nil
}

// CopyTransactions bulk loads the table's rows with COPY and returns the
// number of rows written.
func CopyTransactions(ctx context.Context, db DB, table string, t *dataset.Table) (int64, error) {
	rows := make([][]any, 0, t.Len())
	t.Range(func(_ int, tx dataset.Transaction) bool {
		rows = append(rows, []any{
			tx.OrderID, tx.OrderDate, tx.Region, tx.Customer, tx.Sales, tx.Profit,
		})
		return true
	})

	start := time.Now()
	n, err := db.CopyFrom(ctx, pgx.Identifier{table}, salesColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to copy into %s: %w", table, err)
	}

	logging.Info().
		Str("table", table).
		Int64("rows", n).
		Dur("elapsed", time.Since(start)).
		Msg("Copied transactions")

	return n, nil
}

// ScanTransactions reads every row of the sales table in insertion order
// and hands it to fn along with its 1-based position.
func ScanTransactions(ctx context.Context, db DB, table string, fn func(pos int, tx dataset.Transaction) error) error {
	rows, err := db.Query(ctx, fmt.Sprintf(selectSalesSQL, quoteTable(table)))
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	pos := 0
	for rows.Next() {
		pos++
		var tx dataset.Transaction
		if err := rows.Scan(&tx.OrderID, &tx.OrderDate, &tx.Region, &tx.Customer, &tx.Sales, &tx.Profit); err != nil {
			return fmt.Errorf("failed to scan %s row %d: %w", table, pos, err)
		}
		if err := fn(pos, tx); err != nil {
			return err
		}
	}
	return rows.Err()
}

// TableExists checks if a table exists in the search path.
func TableExists(ctx context.Context, db DB, table string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, quoteTable(table)).Scan(&exists)
	return exists, err
}

// CountRows returns the number of rows in the table.
func CountRows(ctx context.Context, db DB, table string) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", quoteTable(table))).Scan(&n)
	return n, err
}
