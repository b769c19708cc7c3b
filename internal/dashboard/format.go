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
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency prefixes monetary values when none is configured.
const DefaultCurrency = "₹"

// FormatCurrency renders v rounded to whole units with thousands
// separators, e.g. "₹1,234,568" or "-₹42".
func FormatCurrency(symbol string, v float64) string {
	d := decimal.NewFromFloat(v).Round(0)
	neg := d.IsNegative()
	s := group(d.Abs().StringFixed(0))
	if neg {
		return "-" + symbol + s
	}
	return symbol + s
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	d := decimal.NewFromInt(int64(n))
	if d.IsNegative() {
		return "-" + group(d.Abs().String())
	}
	return group(d.String())
}

// FormatAmount renders v with two decimals and thousands separators.
func FormatAmount(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	out := group(intPart) + "." + frac
	if d.IsNegative() {
		return "-" + out
	}
	return out
}

// group inserts commas every three digits of an unsigned integer string.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
