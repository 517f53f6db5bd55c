package valuation

import "github.com/okian/arena/internal/domain/model"

// Frontier returns the scores that no other score dominates, in input order.
// O(n^2) dominance check, fine for arena-sized item sets.
func Frontier(scores []Score) []Score {
	var frontier []Score
	for i := range scores {
		dominated := false
		for j := range scores {
			if i == j {
				continue
			}
			if Dominates(scores[j], scores[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, scores[i])
		}
	}
	return frontier
}

// Dominates reports whether b dominates a: at least as good on adjusted score
// and cost, and strictly better on one of them. A missing cost never compares,
// so items without a cost neither dominate nor get dominated.
func Dominates(b, a Score) bool {
	bc, bok := b.Cost.Value()
	ac, aok := a.Cost.Value()
	if !bok || !aok {
		return false
	}
	if b.Adjusted < a.Adjusted || bc > ac {
		return false
	}
	return b.Adjusted > a.Adjusted || bc < ac
}

// ParetoItems returns the ids of the frontier for items.
func ParetoItems(items []model.Item) []string {
	f := Frontier(Scores(items))
	ids := make([]string, len(f))
	for i, s := range f {
		ids[i] = s.ID
	}
	return ids
}
