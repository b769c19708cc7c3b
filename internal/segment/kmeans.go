//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package segment clusters customers by (sales, profit) with k-means.
//
// Centroids are initialised with k-means++ driven by a PCG generator seeded
// with Seed, then refined with Lloyd iterations until assignments stop
// changing or MaxIterations is reached. For identical input the labels are
// identical across runs. Labels are finally renumbered so that segment 0 has
// the lowest centroid sales and segment Clusters-1 the highest.
package segment

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/pgEdge/pgedge-salesdash/internal/analytics"
)

const (
	// Clusters is the number of customer segments.
	Clusters = 3

	// Seed feeds the centroid initialisation.
	Seed uint64 = 42

	// MaxIterations bounds the Lloyd loop.
	MaxIterations = 300
)

// InsufficientDataError is returned when there are fewer customers than
// segments.
type InsufficientDataError struct {
	Customers int
	Required  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("customer segmentation needs at least %d distinct customers, got %d",
		e.Required, e.Customers)
}

// Point is a customer with its segment label.
type Point struct {
	Customer string  `json:"customer"`
	Sales    float64 `json:"sales"`
	Profit   float64 `json:"profit"`
	Segment  int     `json:"segment"`
}

// Centroid is the mean (sales, profit) of a segment.
type Centroid struct {
	Segment int     `json:"segment"`
	Sales   float64 `json:"sales"`
	Profit  float64 `json:"profit"`
	Size    int     `json:"size"`
}

// Result is the outcome of a segmentation run.
type Result struct {
	Points     []Point    `json:"points"`
	Centroids  []Centroid `json:"centroids"`
	Iterations int        `json:"iterations"`
	Converged  bool       `json:"converged"`

	// Inertia is the sum of squared distances to the assigned centroids.
	Inertia float64 `json:"inertia"`
}

type vec struct{ x, y float64 }

func dist2(a, b vec) float64 {
	dx, dy := a.x-b.x, a.y-b.y
	return dx*dx + dy*dy
}

// Segment partitions customers into Clusters groups.
func Segment(customers analytics.Customers) (*Result, error) {
	if len(customers) < Clusters {
		return nil, &InsufficientDataError{Customers: len(customers), Required: Clusters}
	}

	points := make([]vec, len(customers))
	for i, c := range customers {
		points[i] = vec{c.Sales, c.Profit}
	}

	rng := rand.New(rand.NewPCG(Seed, Seed))
	centroids := initPlusPlus(points, Clusters, rng)

	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	res := &Result{}
	for iter := 1; iter <= MaxIterations; iter++ {
		res.Iterations = iter
		changed := assign(points, centroids, labels)
		if !changed {
			res.Converged = true
			break
		}
		recompute(points, labels, centroids)
	}

	order := rankBySales(centroids)
	res.Points = make([]Point, len(points))
	sizes := make([]int, Clusters)
	for i, c := range customers {
		seg := order[labels[i]]
		sizes[seg]++
		res.Points[i] = Point{Customer: c.Customer, Sales: c.Sales, Profit: c.Profit, Segment: seg}
		res.Inertia += dist2(points[i], centroids[labels[i]])
	}
	res.Centroids = make([]Centroid, Clusters)
	for k, c := range centroids {
		seg := order[k]
		res.Centroids[seg] = Centroid{Segment: seg, Sales: c.x, Profit: c.y, Size: sizes[seg]}
	}
	return res, nil
}

// initPlusPlus picks k starting centroids, each new one with probability
// proportional to its squared distance from the nearest chosen centroid.
func initPlusPlus(points []vec, k int, rng *rand.Rand) []vec {
	centroids := make([]vec, 0, k)
	chosen := make([]bool, len(points))

	first := rng.IntN(len(points))
	centroids = append(centroids, points[first])
	chosen[first] = true

	d2 := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			best := math.Inf(1)
			for _, c := range centroids {
				best = math.Min(best, dist2(p, c))
			}
			d2[i] = best
			total += best
		}

		next := -1
		if total > 0 {
			target := rng.Float64() * total
			var acc float64
			for i, d := range d2 {
				if d == 0 {
					continue
				}
				acc += d
				if acc >= target {
					next = i
					break
				}
			}
			if next < 0 {
				// Rounding left target above acc; take the last candidate.
				for i := len(d2) - 1; i >= 0; i-- {
					if d2[i] > 0 {
						next = i
						break
					}
				}
			}
		} else {
			// Every point coincides with a centroid; pick an unused one.
			remaining := make([]int, 0, len(points))
			for i := range points {
				if !chosen[i] {
					remaining = append(remaining, i)
				}
			}
			next = remaining[rng.IntN(len(remaining))]
		}
		centroids = append(centroids, points[next])
		chosen[next] = true
	}
	return centroids
}

// assign moves each point to its nearest centroid, lowest index on ties.
func assign(points, centroids []vec, labels []int) bool {
	changed := false
	for i, p := range points {
		best, bestD := 0, math.Inf(1)
		for k, c := range centroids {
			if d := dist2(p, c); d < bestD {
				best, bestD = k, d
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
	}
	return changed
}

// recompute sets each centroid to the mean of its points. An empty cluster
// keeps its previous centroid.
func recompute(points []vec, labels []int, centroids []vec) {
	sums := make([]vec, len(centroids))
	counts := make([]int, len(centroids))
	for i, p := range points {
		k := labels[i]
		sums[k].x += p.x
		sums[k].y += p.y
		counts[k]++
	}
	for k := range centroids {
		if counts[k] == 0 {
			continue
		}
		centroids[k] = vec{sums[k].x / float64(counts[k]), sums[k].y / float64(counts[k])}
	}
}

// rankBySales maps raw cluster index to a label ordered by centroid sales.
func rankBySales(centroids []vec) []int {
	idx := make([]int, len(centroids))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ca, cb := centroids[idx[a]], centroids[idx[b]]
		if ca.x != cb.x {
			return ca.x < cb.x
		}
		return ca.y < cb.y
	})
	order := make([]int, len(centroids))
	for rank, k := range idx {
		order[k] = rank
	}
	return order
}
