//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package dataset holds the in-memory transaction table, the rules for
// turning raw rows into transactions, and the process-wide table cache.
//
// Order dates are parsed with an ordered list of Go layouts. The default list
// accepts ISO dates (2006-01-02) and US month-first dates (1/2/2006); a date
// that matches none of the layouts rejects its row. What happens to rejected
// rows is decided by a BadRowPolicy: PolicyAbort fails the whole load with a
// LoadError, PolicyDrop skips the row and counts it on the resulting Table.
package dataset
