// Package replay derives every item's ratings from an arena's outcome history.
//
// Ratings are never updated incrementally: each call resets all items to the
// default rating and replays the full, ordered history. Editing or deleting an
// outcome therefore only requires a new replay.
package replay

import (
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/rating"
)

// Result is the outcome of a replay.
type Result struct {
	// Items holds the input items, in input order, with recomputed ratings.
	// Names and costs pass through unchanged.
	Items []model.Item
	// Applied counts the outcomes that were replayed.
	Applied int
	// Skipped counts outcomes ignored because they referenced a missing
	// item, paired an item with itself, or named a winner outside the pair.
	Skipped int
	// Resets counts Glicko-2 updates that fell back to default values.
	Resets int
}

type game struct {
	opponent int
	score    float64
}

// Replay recomputes ratings for items from outcomes in order.
//
// For every outcome the Elo update is applied to the two participants, then a
// Glicko-2 period is run for every item in item order over all of its games
// so far. Opponent ratings are read from the running values at that moment,
// so items later in the order see ratings already updated for this outcome.
// The cost is O(outcomes x games), which is fine for human-scale histories.
func Replay(outcomes []model.Outcome, items []model.Item) Result {
	res := Result{Items: make([]model.Item, len(items))}
	index := make(map[string]int, len(items))
	for i, it := range items {
		it.Rating = model.DefaultRating()
		res.Items[i] = it
		index[it.ID] = i
	}

	// games[i] grows with every outcome item i takes part in; it is exactly
	// the per-item sub-history up to the current outcome.
	games := make([][]game, len(items))
	for _, o := range outcomes {
		w, wok := index[o.Winner]
		i1, ok1 := index[o.Item1]
		i2, ok2 := index[o.Item2]
		if !wok || !ok1 || !ok2 || i1 == i2 || (w != i1 && w != i2) {
			res.Skipped++
			continue
		}
		l := i1
		if w == i1 {
			l = i2
		}

		cur := res.Items
		cur[w].Elo, cur[l].Elo = rating.Elo(cur[w].Elo, cur[l].Elo)

		games[i1] = append(games[i1], game{opponent: i2, score: score(i1, w)})
		games[i2] = append(games[i2], game{opponent: i1, score: score(i2, w)})

		for i := range cur {
			matches := make([]rating.Match, len(games[i]))
			for j, g := range games[i] {
				matches[j] = rating.Match{Opponent: cur[g.opponent].Rating, Score: g.score}
			}
			r := rating.Glicko(cur[i].Rating, matches)
			if r.Reset {
				res.Resets++
			}
			cur[i].Glicko, cur[i].RD, cur[i].Volatility = r.Glicko, r.RD, r.Volatility
		}
		res.Applied++
	}
	return res
}

// Arena replays an arena's history and returns a copy with updated items.
func Arena(a model.Arena) (model.Arena, Result) {
	res := Replay(a.Outcomes, a.Items)
	out := a.Clone()
	out.Items = res.Items
	return out, res
}

func score(self, winner int) float64 {
	if self == winner {
		return 1
	}
	return 0
}
