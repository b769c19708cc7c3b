//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package analytics implements the region filter and the aggregations that
// feed the dashboard. Every function here is pure and total: it never
// modifies its input and accepts empty tables.
package analytics

import (
	"sort"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
)

// RegionSet is a set of allowed region names.
type RegionSet map[string]struct{}

// NewRegionSet builds a set from names.
func NewRegionSet(names ...string) RegionSet {
	s := make(RegionSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// AllRegions returns a set holding every region present in t.
func AllRegions(t *dataset.Table) RegionSet {
	return NewRegionSet(t.Regions()...)
}

// Contains reports whether region is in the set.
func (s RegionSet) Contains(region string) bool {
	_, ok := s[region]
	return ok
}

// Sorted returns the members in ascending order.
func (s RegionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Filter returns a new table with the rows of t whose region is in allowed,
// in their original order. An empty set yields an empty table.
func Filter(t *dataset.Table, allowed RegionSet) *dataset.Table {
	rows := make([]dataset.Transaction, 0, t.Len())
	if len(allowed) > 0 {
		t.Range(func(_ int, tx dataset.Transaction) bool {
			if allowed.Contains(tx.Region) {
				rows = append(rows, tx)
			}
			return true
		})
	}
	return dataset.NewTable(t.Source(), rows, t.Rejected())
}
