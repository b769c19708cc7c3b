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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pgEdge/pgedge-salesdash/internal/logging"
)

// Column names expected in the header row.
const (
	ColumnOrderID   = "Order ID"
	ColumnOrderDate = "Order Date"
	ColumnRegion    = "Region"
	ColumnCustomer  = "Customer Name"
	ColumnSales     = "Sales"
	ColumnProfit    = "Profit"
)

// RequiredColumns lists the columns every dataset must provide.
var RequiredColumns = []string{
	ColumnOrderDate, ColumnRegion, ColumnCustomer, ColumnSales, ColumnProfit,
}

// BadRowPolicy decides what happens to a row that fails to parse.
type BadRowPolicy int

const (
	// PolicyAbort fails the load on the first bad row.
	PolicyAbort BadRowPolicy = iota
	// PolicyDrop skips bad rows and counts them.
	PolicyDrop
)

// ParsePolicy converts a configuration value into a BadRowPolicy.
func ParsePolicy(s string) (BadRowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return PolicyAbort, nil
	case "drop":
		return PolicyDrop, nil
	default:
		return PolicyAbort, fmt.Errorf("unknown bad row policy: %s", s)
	}
}

func (p BadRowPolicy) String() string {
	if p == PolicyDrop {
		return "drop"
	}
	return "abort"
}

// ParseOptions controls how raw values become transactions.
type ParseOptions struct {
	// Layouts are tried in order for the order date.
	Layouts []string
	Policy  BadRowPolicy
}

// DefaultParseOptions returns ISO then US month-first layouts and the abort
// policy.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Layouts: []string{"2006-01-02", "1/2/2006"},
		Policy:  PolicyAbort,
	}
}

// ParseDate parses a calendar date using the given layouts in order. A
// trailing time component ("2016-11-08 00:00:00", "2016-11-08T00:00:00Z")
// is ignored.
func ParseDate(value string, layouts []string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	candidates := []string{v}
	if i := strings.IndexAny(v, " T"); i > 0 {
		candidates = append(candidates, v[:i])
	}
	for _, c := range candidates {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, c); err == nil {
				return Date(t), nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("date %q matches none of the layouts %v", v, layouts)
}

// ParseAmount parses a monetary value. Commas are accepted only as
// thousands separators, so a decimal comma such as "1,5" is an error.
func ParseAmount(value string) (float64, error) {
	v := strings.TrimSpace(value)
	if strings.Contains(v, ",") {
		if !validGrouping(v) {
			return 0, fmt.Errorf("misplaced thousands separator: %s", value)
		}
		v = strings.ReplaceAll(v, ",", "")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %s", value)
	}
	return f, nil
}

// validGrouping reports whether the commas in v separate groups of three
// integer digits.
func validGrouping(v string) bool {
	v = strings.TrimLeft(v, "+-")
	intPart, frac, _ := strings.Cut(v, ".")
	if strings.Contains(frac, ",") {
		return false
	}
	groups := strings.Split(intPart, ",")
	if len(groups[0]) < 1 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}

// Columns maps required fields to header positions. OrderID is -1 when the
// header has no order column.
type Columns struct {
	OrderID   int
	OrderDate int
	Region    int
	Customer  int
	Sales     int
	Profit    int
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ReplaceAll(h, "_", " ")
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// ResolveColumns locates the required columns in a header row. Matching
// ignores case, surrounding whitespace and underscores.
func ResolveColumns(source string, header []string) (Columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	find := func(name string) (int, error) {
		i, ok := index[normalizeHeader(name)]
		if !ok {
			return -1, &LoadError{Source: source, Reason: ReasonMissingColumn, Column: name}
		}
		return i, nil
	}

	cols := Columns{OrderID: -1}
	var err error
	if cols.OrderDate, err = find(ColumnOrderDate); err != nil {
		return cols, err
	}
	if cols.Region, err = find(ColumnRegion); err != nil {
		return cols, err
	}
	if cols.Customer, err = find(ColumnCustomer); err != nil {
		return cols, err
	}
	if cols.Sales, err = find(ColumnSales); err != nil {
		return cols, err
	}
	if cols.Profit, err = find(ColumnProfit); err != nil {
		return cols, err
	}
	if i, ok := index[normalizeHeader(ColumnOrderID)]; ok {
		cols.OrderID = i
	}
	return cols, nil
}

// HasAll reports whether header contains every required column.
func HasAll(header []string) bool {
	_, err := ResolveColumns("", header)
	return err == nil
}

// RawRecord holds the unparsed values of one row.
type RawRecord struct {
	OrderID   string
	OrderDate string
	Region    string
	Customer  string
	Sales     string
	Profit    string
}

// Record extracts a RawRecord from a row. Short rows yield empty values.
func (c Columns) Record(row []string) RawRecord {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}
	return RawRecord{
		OrderID:   cell(c.OrderID),
		OrderDate: cell(c.OrderDate),
		Region:    strings.TrimSpace(cell(c.Region)),
		Customer:  strings.TrimSpace(cell(c.Customer)),
		Sales:     cell(c.Sales),
		Profit:    cell(c.Profit),
	}
}

// Builder accumulates transactions and applies the bad row policy.
type Builder struct {
	source   string
	opts     ParseOptions
	rows     []Transaction
	rejected int
}

// NewBuilder creates a builder for the named source.
func NewBuilder(source string, opts ParseOptions) *Builder {
	if len(opts.Layouts) == 0 {
		opts.Layouts = DefaultParseOptions().Layouts
	}
	return &Builder{source: source, opts: opts}
}

// Add parses and appends a raw row. Under PolicyDrop a bad row is counted
// and Add returns nil; under PolicyAbort it returns a *LoadError.
func (b *Builder) Add(line int, rec RawRecord) error {
	tx, lerr := b.parse(line, rec)
	if lerr != nil {
		return b.reject(lerr)
	}
	b.rows = append(b.rows, tx)
	return nil
}

// Append adds an already typed row, checking the same invariants as Add.
func (b *Builder) Append(line int, tx Transaction) error {
	if tx.OrderDate.IsZero() {
		return b.reject(&LoadError{Source: b.source, Reason: ReasonBadDate, Line: line, Column: ColumnOrderDate})
	}
	if lerr := b.checkAmounts(line, tx.Sales, tx.Profit); lerr != nil {
		return b.reject(lerr)
	}
	if tx.OrderID == "" {
		tx.OrderID = strconv.Itoa(line)
	}
	tx.OrderDate = Date(tx.OrderDate)
	b.rows = append(b.rows, tx)
	return nil
}

// Rejected returns the number of rows dropped so far.
func (b *Builder) Rejected() int {
	return b.rejected
}

// Table returns the accumulated table.
func (b *Builder) Table() *Table {
	if b.rejected > 0 {
		logging.Warn().
			Str("source", b.source).
			Int("rejected", b.rejected).
			Int("loaded", len(b.rows)).
			Msg("Dropped rows that failed to parse")
	}
	return NewTable(b.source, b.rows, b.rejected)
}

func (b *Builder) reject(lerr *LoadError) error {
	if b.opts.Policy == PolicyDrop {
		b.rejected++
		logging.Debug().Err(lerr).Msg("Dropping row")
		return nil
	}
	return lerr
}

func (b *Builder) parse(line int, rec RawRecord) (Transaction, *LoadError) {
	date, err := ParseDate(rec.OrderDate, b.opts.Layouts)
	if err != nil {
		return Transaction{}, &LoadError{
			Source: b.source, Reason: ReasonBadDate, Line: line,
			Column: ColumnOrderDate, Value: rec.OrderDate, Err: err,
		}
	}
	sales, err := ParseAmount(rec.Sales)
	if err != nil {
		return Transaction{}, &LoadError{
			Source: b.source, Reason: ReasonBadNumber, Line: line,
			Column: ColumnSales, Value: rec.Sales, Err: err,
		}
	}
	profit, err := ParseAmount(rec.Profit)
	if err != nil {
		return Transaction{}, &LoadError{
			Source: b.source, Reason: ReasonBadNumber, Line: line,
			Column: ColumnProfit, Value: rec.Profit, Err: err,
		}
	}
	if lerr := b.checkAmounts(line, sales, profit); lerr != nil {
		return Transaction{}, lerr
	}

	id := strings.TrimSpace(rec.OrderID)
	if id == "" {
		id = strconv.Itoa(line)
	}
	return Transaction{
		OrderID:   id,
		OrderDate: date,
		Region:    rec.Region,
		Customer:  rec.Customer,
		Sales:     sales,
		Profit:    profit,
	}, nil
}

func (b *Builder) checkAmounts(line int, sales, profit float64) *LoadError {
	if sales < 0 || math.IsNaN(sales) || math.IsInf(sales, 0) {
		return &LoadError{
			Source: b.source, Reason: ReasonBadNumber, Line: line, Column: ColumnSales,
			Value: strconv.FormatFloat(sales, 'f', -1, 64), Err: fmt.Errorf("sales must be a non-negative number"),
		}
	}
	if math.IsNaN(profit) || math.IsInf(profit, 0) {
		return &LoadError{
			Source: b.source, Reason: ReasonBadNumber, Line: line, Column: ColumnProfit,
			Err: fmt.Errorf("profit must be a finite number"),
		}
	}
	return nil
}
