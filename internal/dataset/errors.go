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
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Reason classifies a LoadError.
type Reason int

const (
	// ReasonNotFound means the dataset does not exist.
	ReasonNotFound Reason = iota + 1
	// ReasonUnreadable means the dataset exists but cannot be read or decoded.
	ReasonUnreadable
	// ReasonMissingColumn means a required column is absent from the header.
	ReasonMissingColumn
	// ReasonBadDate means an order date matched none of the layouts.
	ReasonBadDate
	// ReasonBadNumber means sales or profit is not a valid number.
	ReasonBadNumber
)

func (r Reason) String() string {
	switch r {
	case ReasonNotFound:
		return "not found"
	case ReasonUnreadable:
		return "unreadable"
	case ReasonMissingColumn:
		return "missing column"
	case ReasonBadDate:
		return "bad date"
	case ReasonBadNumber:
		return "bad number"
	default:
		return "unknown"
	}
}

// LoadError reports why a dataset could not be loaded.
type LoadError struct {
	Source string
	Reason Reason

	// Line is the 1-based input line for row errors, 0 otherwise.
	Line int

	// Column names the offending column, if any.
	Column string

	// Value is the raw value that failed to parse, if any.
	Value string

	Err error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "load %s: %s", e.Source, e.Reason)
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " in column %q", e.Column)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " (value %q)", e.Value)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// WrapError returns err as a *LoadError for source. Existing LoadErrors pass
// through; missing files map to ReasonNotFound and anything else to
// ReasonUnreadable.
func WrapError(source string, err error) *LoadError {
	var lerr *LoadError
	if errors.As(err, &lerr) {
		return lerr
	}
	reason := ReasonUnreadable
	if errors.Is(err, fs.ErrNotExist) {
		reason = ReasonNotFound
	}
	return &LoadError{Source: source, Reason: reason, Err: err}
}
