//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dataset

import (
	"time"
)

// Transaction is one row of sales data.
type Transaction struct {
	// OrderID is the opaque order key. Rows without an order column get
	// their 1-based line number.
	OrderID string

	// OrderDate is a calendar date at midnight UTC.
	OrderDate time.Time

	Region   string
	Customer string
	Sales    float64
	Profit   float64
}

// Table is an ordered, read-only sequence of transactions.
type Table struct {
	source   string
	rows     []Transaction
	rejected int
	loadedAt time.Time
}

// NewTable creates a table. The table takes ownership of rows; callers must
// not modify the slice afterwards.
func NewTable(source string, rows []Transaction, rejected int) *Table {
	if rows == nil {
		rows = []Transaction{}
	}
	return &Table{
		source:   source,
		rows:     rows,
		rejected: rejected,
		loadedAt: time.Now().UTC(),
	}
}

// Source describes where the rows came from.
func (t *Table) Source() string {
	return t.source
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// At returns the i-th row.
func (t *Table) At(i int) Transaction {
	return t.rows[i]
}

// Rows returns a copy of all rows.
func (t *Table) Rows() []Transaction {
	out := make([]Transaction, len(t.rows))
	copy(out, t.rows)
	return out
}

// Range calls fn for each row in order until fn returns false.
func (t *Table) Range(fn func(i int, tx Transaction) bool) {
	for i, tx := range t.rows {
		if !fn(i, tx) {
			return
		}
	}
}

// Rejected returns how many input rows were dropped while loading.
func (t *Table) Rejected() int {
	return t.rejected
}

// LoadedAt returns when the table was built.
func (t *Table) LoadedAt() time.Time {
	return t.loadedAt
}

// Regions returns the distinct regions in order of first appearance.
func (t *Table) Regions() []string {
	seen := make(map[string]struct{})
	regions := make([]string, 0, 4)
	for _, tx := range t.rows {
		if _, ok := seen[tx.Region]; ok {
			continue
		}
		seen[tx.Region] = struct{}{}
		regions = append(regions, tx.Region)
	}
	return regions
}

// Date truncates t to a calendar date at midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
