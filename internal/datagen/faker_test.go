//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"testing"
	"time"
)

func TestNewFaker(t *testing.T) {
	f := NewFaker()
	if f == nil {
		t.Fatal("NewFaker returned nil")
	}
	if f.faker == nil {
		t.Fatal("faker field is nil")
	}
}

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
	if f1.Name() != f2.Name() {
		t.Error("Same seed produced different names")
	}
}

func TestFakerName(t *testing.T) {
	f := NewFaker()
	if f.Name() == "" {
		t.Error("Name returned empty string")
	}
	if f.City() == "" {
		t.Error("City returned empty string")
	}
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Claire Gute", "CG"},
		{"darrin van huff", "DV"},
		{"Cher", "CX"},
		{"", "XX"},
	}
	for _, tt := range tests {
		if got := Initials(tt.name); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Int(10, 20)
		if v < 10 || v > 20 {
			t.Errorf("Int(10, 20) returned %d, out of range", v)
		}
	}
}

func TestFakerFloat64(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Float64(0.5, 1.5)
		if v < 0.5 || v > 1.5 {
			t.Errorf("Float64(0.5, 1.5) returned %f, out of range", v)
		}
	}
}

func TestFakerDateRange(t *testing.T) {
	f := NewFaker()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		d := f.DateRange(start, end)
		if d.Before(start) || d.After(end) {
			t.Errorf("DateRange returned %v, outside range", d)
		}
	}
}

func TestFakerDigits(t *testing.T) {
	f := NewFaker()
	d := f.Digits(6)
	if len(d) != 6 {
		t.Errorf("Expected 6 digits, got %q", d)
	}
	for _, c := range d {
		if c < '0' || c > '9' {
			t.Errorf("Non-digit character in %q", d)
		}
	}
}

func TestChoose(t *testing.T) {
	f := NewFaker()
	items := []string{"a", "b", "c"}
	for i := 0; i < 50; i++ {
		v := Choose(f, items)
		if v != "a" && v != "b" && v != "c" {
			t.Errorf("Choose returned unexpected value %q", v)
		}
	}
	if v := Choose(f, []int{}); v != 0 {
		t.Errorf("Choose on empty slice should return zero value, got %d", v)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFakerWithSeed(1)
	items := []string{"never", "always"}
	weights := []int{0, 10}
	for i := 0; i < 50; i++ {
		if v := ChooseWeighted(f, items, weights); v != "always" {
			t.Errorf("ChooseWeighted returned %q with zero weight", v)
		}
	}
}
