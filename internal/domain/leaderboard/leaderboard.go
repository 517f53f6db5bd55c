// Package leaderboard turns an arena's items into sorted, ranked rows.
package leaderboard

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/types"
	"github.com/okian/arena/internal/domain/valuation"
)

// SortKey names a leaderboard column.
type SortKey string

// Sort keys.
const (
	ByName     SortKey = "name"
	ByElo      SortKey = "elo"
	ByGlicko   SortKey = "glicko"
	ByCost     SortKey = "cost"
	ByAdjusted SortKey = "adjusted"
)

// Order is the sort direction.
type Order string

// Sort orders.
const (
	Desc Order = "desc"
	Asc  Order = "asc"
)

// ErrInvalidSort is returned for unknown sort keys or orders.
var ErrInvalidSort = errors.New("invalid sort")

// ParseSortKey parses a sort key. Empty input means ByElo.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return ByElo, nil
	case ByName, ByElo, ByGlicko, ByCost, ByAdjusted:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown key %q", ErrInvalidSort, s)
	}
}

// ParseOrder parses a sort order. Empty input means Desc.
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return Desc, nil
	case Asc, Desc:
		return o, nil
	default:
		return "", fmt.Errorf("%w: unknown order %q", ErrInvalidSort, s)
	}
}

type row struct {
	item  model.Item
	score valuation.Score
}

// Build returns one row per item, sorted by key in the given order.
// Ties keep item insertion order. Items without a cost always sort last
// under ByCost; items without an adjusted score count as -Inf under ByAdjusted.
func Build(items []model.Item, key SortKey, order Order) []types.Entry {
	scores := valuation.Scores(items)
	pareto := make(map[string]bool)
	for _, s := range valuation.Frontier(scores) {
		pareto[s.ID] = true
	}

	rows := make([]row, len(items))
	for i := range items {
		rows[i] = row{item: items[i], score: scores[i]}
	}
	slices.SortStableFunc(rows, compare(key, order))

	entries := make([]types.Entry, len(rows))
	for i, r := range rows {
		entries[i] = toEntry(i+1, r, pareto[r.item.ID])
	}
	return entries
}

// Pareto returns rows for the frontier items only, in item order.
func Pareto(items []model.Item) []types.Entry {
	scores := valuation.Scores(items)
	frontier := valuation.Frontier(scores)
	byID := make(map[string]row, len(items))
	for i := range items {
		byID[items[i].ID] = row{item: items[i], score: scores[i]}
	}
	entries := make([]types.Entry, len(frontier))
	for i, s := range frontier {
		entries[i] = toEntry(i+1, byID[s.ID], true)
	}
	return entries
}

func toEntry(rank int, r row, pareto bool) types.Entry {
	e := types.Entry{
		Rank:       rank,
		ItemID:     r.item.ID,
		Name:       r.item.Name,
		Elo:        r.item.Elo,
		Glicko:     r.item.Glicko,
		RD:         r.item.RD,
		Volatility: r.item.Volatility,
		Cost:       r.item.Cost.Ptr(),
		Pareto:     pareto,
	}
	if r.score.Valid {
		adj := r.score.Adjusted
		e.Adjusted = &adj
	}
	return e
}

func compare(key SortKey, order Order) func(a, b row) int {
	dir := 1
	if order == Desc {
		dir = -1
	}
	return func(a, b row) int {
		switch key {
		case ByName:
			return dir * strings.Compare(strings.ToLower(a.item.Name), strings.ToLower(b.item.Name))
		case ByGlicko:
			return dir * cmp.Compare(a.item.Glicko, b.item.Glicko)
		case ByCost:
			ac, aok := a.item.Cost.Value()
			bc, bok := b.item.Cost.Value()
			switch {
			case !aok && !bok:
				return 0
			case !aok:
				return 1
			case !bok:
				return -1
			}
			return dir * cmp.Compare(ac, bc)
		case ByAdjusted:
			return dir * cmp.Compare(a.score.Adjusted, b.score.Adjusted)
		default:
			return dir * cmp.Compare(a.item.Elo, b.item.Elo)
		}
	}
}
