// Package valuation scores items by rating per unit of cost and finds the
// items that no other item beats on both value and price.
package valuation

import (
	"math"

	"github.com/okian/arena/internal/domain/model"
)

// Range is a closed [Min, Max] interval.
type Range struct {
	Min float64
	Max float64
}

// normalize shifts v into [1,2]. A degenerate range maps everything to 1.
func (r Range) normalize(v float64) float64 {
	if r.Max == r.Min {
		return 1
	}
	return (v-r.Min)/(r.Max-r.Min) + 1
}

// CostRange returns the min and max over items with a positive cost.
// With no such items it returns (0,0).
func CostRange(items []model.Item) Range {
	var r Range
	found := false
	for _, it := range items {
		c, ok := it.Cost.Positive()
		if !ok {
			continue
		}
		if !found {
			r = Range{Min: c, Max: c}
			found = true
			continue
		}
		r.Min = math.Min(r.Min, c)
		r.Max = math.Max(r.Max, c)
	}
	return r
}

// GlickoRange returns the min and max Glicko rating over items, ignoring
// non-finite ratings. With no ratings it returns (1500,1500).
func GlickoRange(items []model.Item) Range {
	r := Range{Min: model.DefaultGlicko, Max: model.DefaultGlicko}
	found := false
	for _, it := range items {
		g := it.Glicko
		if math.IsNaN(g) || math.IsInf(g, 0) {
			continue
		}
		if !found {
			r = Range{Min: g, Max: g}
			found = true
			continue
		}
		r.Min = math.Min(r.Min, g)
		r.Max = math.Max(r.Max, g)
	}
	return r
}

// NormalizedCost maps item's cost into [1,2] relative to items.
func NormalizedCost(item model.Item, items []model.Item) float64 {
	c, _ := item.Cost.Value()
	return CostRange(items).normalize(c)
}

// NormalizedGlicko maps item's Glicko rating into [1,2] relative to items.
func NormalizedGlicko(item model.Item, items []model.Item) float64 {
	return GlickoRange(items).normalize(item.Glicko)
}

// AdjustedScore is normalized rating divided by normalized cost. It is only
// defined for items with a positive cost and a finite rating.
func AdjustedScore(item model.Item, items []model.Item) (float64, bool) {
	return newScorer(items).score(item)
}

// Score is an item's adjusted score. Valid is false when the item has no
// score, in which case Adjusted is -Inf.
type Score struct {
	ID       string
	Adjusted float64
	Valid    bool
	Cost     model.Cost
}

// Scores computes adjusted scores for all items, in item order.
func Scores(items []model.Item) []Score {
	s := newScorer(items)
	out := make([]Score, len(items))
	for i, it := range items {
		adj, ok := s.score(it)
		if !ok {
			adj = math.Inf(-1)
		}
		out[i] = Score{ID: it.ID, Adjusted: adj, Valid: ok, Cost: it.Cost}
	}
	return out
}

type scorer struct {
	cost   Range
	glicko Range
}

func newScorer(items []model.Item) scorer {
	return scorer{cost: CostRange(items), glicko: GlickoRange(items)}
}

func (s scorer) score(it model.Item) (float64, bool) {
	c, ok := it.Cost.Positive()
	if !ok || math.IsNaN(it.Glicko) || math.IsInf(it.Glicko, 0) {
		return 0, false
	}
	return s.glicko.normalize(it.Glicko) / s.cost.normalize(c), true
}
