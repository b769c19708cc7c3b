//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

// Reference data for Superstore-style orders.

var (
	regionNames   = []string{"West", "East", "Central", "South"}
	regionWeights = []int{32, 28, 23, 17}

	regionStates = map[string][]string{
		"West":    {"California", "Washington", "Arizona", "Colorado", "Oregon", "Utah", "Nevada", "New Mexico"},
		"East":    {"New York", "Pennsylvania", "Ohio", "Massachusetts", "New Jersey", "Delaware", "Connecticut", "Maryland"},
		"Central": {"Texas", "Illinois", "Michigan", "Indiana", "Wisconsin", "Minnesota", "Missouri", "Iowa"},
		"South":   {"Florida", "North Carolina", "Virginia", "Georgia", "Tennessee", "Kentucky", "Alabama", "Louisiana"},
	}

	segmentNames   = []string{"Consumer", "Corporate", "Home Office"}
	segmentWeights = []int{52, 30, 18}

	shipModes = []shipMode{
		{Name: "Standard Class", MinDays: 4, MaxDays: 7},
		{Name: "Second Class", MinDays: 2, MaxDays: 5},
		{Name: "First Class", MinDays: 1, MaxDays: 3},
		{Name: "Same Day", MinDays: 0, MaxDays: 0},
	}
	shipModeWeights = []int{60, 19, 16, 5}

	categoryNames   = []string{"Office Supplies", "Furniture", "Technology"}
	categoryWeights = []int{60, 21, 19}

	subCategories = map[string][]subCategory{
		"Office Supplies": {
			{Name: "Binders", MinPrice: 2, MaxPrice: 60, Margin: 0.30},
			{Name: "Paper", MinPrice: 3, MaxPrice: 40, Margin: 0.43},
			{Name: "Storage", MinPrice: 10, MaxPrice: 300, Margin: 0.10},
			{Name: "Art", MinPrice: 2, MaxPrice: 40, Margin: 0.25},
			{Name: "Appliances", MinPrice: 15, MaxPrice: 400, Margin: 0.17},
			{Name: "Labels", MinPrice: 2, MaxPrice: 20, Margin: 0.44},
			{Name: "Envelopes", MinPrice: 4, MaxPrice: 40, Margin: 0.42},
			{Name: "Fasteners", MinPrice: 1, MaxPrice: 15, Margin: 0.31},
			{Name: "Supplies", MinPrice: 3, MaxPrice: 120, Margin: 0.05},
		},
		"Furniture": {
			{Name: "Furnishings", MinPrice: 5, MaxPrice: 150, Margin: 0.14},
			{Name: "Chairs", MinPrice: 40, MaxPrice: 600, Margin: 0.08},
			{Name: "Tables", MinPrice: 80, MaxPrice: 900, Margin: 0.03},
			{Name: "Bookcases", MinPrice: 60, MaxPrice: 700, Margin: 0.04},
		},
		"Technology": {
			{Name: "Phones", MinPrice: 20, MaxPrice: 700, Margin: 0.13},
			{Name: "Accessories", MinPrice: 8, MaxPrice: 300, Margin: 0.22},
			{Name: "Machines", MinPrice: 50, MaxPrice: 2500, Margin: 0.12},
			{Name: "Copiers", MinPrice: 300, MaxPrice: 3500, Margin: 0.37},
		},
	}

	discounts       = []float64{0, 0.1, 0.15, 0.2, 0.3, 0.4, 0.5, 0.7, 0.8}
	discountWeights = []int{48, 6, 2, 32, 3, 3, 2, 3, 1}

	quantities       = []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	quantityWeights  = []int{9, 25, 24, 12, 12, 6, 5, 4, 3}
	linesPerOrder    = []int{1, 2, 3, 4}
	linesPerOrderWts = []int{50, 25, 15, 10}
)

type shipMode struct {
	Name    string
	MinDays int
	MaxDays int
}

type subCategory struct {
	Name     string
	MinPrice float64
	MaxPrice float64

	// Margin is the profit share of an undiscounted sale.
	Margin float64
}
