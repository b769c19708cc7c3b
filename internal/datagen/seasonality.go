//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"fmt"
	"sort"
	"time"
)

// Profile shapes how orders are spread over the calendar.
type Profile interface {
	// Name returns the profile name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// DemandLevel returns the relative order volume on day (0.0 to 1.0+).
	// Values above 1.0 indicate higher-than-normal demand, e.g. holiday
	// season for stores.
	DemandLevel(day time.Time) float64

	// YearlyGrowth is the fractional increase in volume per year of
	// history, applied on top of DemandLevel.
	YearlyGrowth() float64
}

var profiles = make(map[string]Profile)

// RegisterProfile adds a profile to the registry.
func RegisterProfile(p Profile) {
	profiles[p.Name()] = p
}

// GetProfile retrieves a profile by name.
func GetProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s", name)
	}
	return p, nil
}

// ListProfiles returns all registered profile names in sorted order.
func ListProfiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterProfile(Retail{})
	RegisterProfile(B2B{})
	RegisterProfile(Flat{})
}

// Retail follows a consumer store calendar.
// Jan - Feb: post-holiday slump (60%)
// Mar - Aug: steady (80%)
// Sep: back to school (110%)
// Oct: (90%)
// Nov - Dec: holiday peak (150%)
// Weekend: 120% of weekday
// Growth: 10% a year
type Retail struct{}

func (Retail) Name() string {
	return "retail"
}

func (Retail) Description() string {
	return "Consumer store (holiday peak, weekend bonus, yearly growth)"
}

func (Retail) DemandLevel(day time.Time) float64 {
	var base float64

	switch day.Month() {
	case time.January, time.February:
		base = 0.60
	case time.September:
		base = 1.10
	case time.October:
		base = 0.90
	case time.November, time.December:
		base = 1.50
	default:
		base = 0.80
	}

	// Weekend bonus: 120% of weekday
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		base *= 1.20
	}

	return base
}

func (Retail) YearlyGrowth() float64 {
	return 0.10
}

// B2B follows a business purchasing calendar.
// Weekdays only; weekends at 10%
// Last month of each quarter: budget push (140%)
// August and the last two weeks of December: holidays (50%)
// Growth: 5% a year
type B2B struct{}

func (B2B) Name() string {
	return "b2b"
}

func (B2B) Description() string {
	return "Business purchasing (weekday, quarter-end push)"
}

func (B2B) DemandLevel(day time.Time) float64 {
	// Weekend: 10% activity
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return 0.10
	}

	base := 1.0
	switch {
	case day.Month() == time.August:
		base = 0.50
	case day.Month() == time.December && day.Day() > 17:
		base = 0.50
	case day.Month()%3 == 0:
		base = 1.40
	}
	return base
}

func (B2B) YearlyGrowth() float64 {
	return 0.05
}

// Flat spreads orders evenly.
type Flat struct{}

func (Flat) Name() string {
	return "flat"
}

func (Flat) Description() string {
	return "Uniform demand"
}

func (Flat) DemandLevel(time.Time) float64 {
	return 1.0
}

func (Flat) YearlyGrowth() float64 {
	return 0
}
