package valuation_test

import (
	"math"
	"testing"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/valuation"
	. "github.com/smartystreets/goconvey/convey"
)

func item(id string, glicko float64, cost model.Cost) model.Item {
	r := model.DefaultRating()
	r.Glicko = glicko
	return model.Item{ID: id, Name: id, Cost: cost, Rating: r}
}

func TestRanges(t *testing.T) {
	Convey("Given items with mixed costs", t, func() {
		items := []model.Item{
			item("A1", 1600, model.CostOf(1)),
			item("A2", 1400, model.CostOf(3)),
			item("A3", 1500, model.NoCost()),
			item("A4", 1450, model.CostOf(0)),
		}

		Convey("Then the cost range only covers positive costs", func() {
			So(valuation.CostRange(items), ShouldResemble, valuation.Range{Min: 1, Max: 3})
		})

		Convey("Then the rating range covers every item", func() {
			So(valuation.GlickoRange(items), ShouldResemble, valuation.Range{Min: 1400, Max: 1600})
		})
	})

	Convey("Given no usable values", t, func() {
		items := []model.Item{item("A1", math.NaN(), model.NoCost())}

		Convey("Then the ranges fall back to their defaults", func() {
			So(valuation.CostRange(items), ShouldResemble, valuation.Range{})
			So(valuation.GlickoRange(items), ShouldResemble, valuation.Range{Min: 1500, Max: 1500})
			So(valuation.GlickoRange(nil), ShouldResemble, valuation.Range{Min: 1500, Max: 1500})
		})
	})
}

func TestNormalization(t *testing.T) {
	Convey("Given a spread of ratings and costs", t, func() {
		items := []model.Item{
			item("A1", 1600, model.CostOf(1)),
			item("A2", 1400, model.CostOf(3)),
			item("A3", 1500, model.CostOf(2)),
		}

		Convey("Then normalized values lie in [1,2]", func() {
			for _, it := range items {
				c := valuation.NormalizedCost(it, items)
				g := valuation.NormalizedGlicko(it, items)
				So(c, ShouldBeBetweenOrEqual, 1, 2)
				So(g, ShouldBeBetweenOrEqual, 1, 2)
			}
			So(valuation.NormalizedGlicko(items[0], items), ShouldEqual, 2)
			So(valuation.NormalizedCost(items[0], items), ShouldEqual, 1)
			So(valuation.NormalizedCost(items[2], items), ShouldEqual, 1.5)
		})

		Convey("Then adjusted scores are rating over cost", func() {
			a1, ok := valuation.AdjustedScore(items[0], items)
			So(ok, ShouldBeTrue)
			So(a1, ShouldEqual, 2)
			a2, _ := valuation.AdjustedScore(items[1], items)
			So(a2, ShouldEqual, 0.5)
			a3, _ := valuation.AdjustedScore(items[2], items)
			So(a3, ShouldEqual, 1)
		})
	})

	Convey("Given a degenerate range", t, func() {
		items := []model.Item{item("A1", 1500, model.CostOf(2)), item("A2", 1500, model.CostOf(2))}

		Convey("Then everything normalizes to 1", func() {
			So(valuation.NormalizedCost(items[0], items), ShouldEqual, 1)
			So(valuation.NormalizedGlicko(items[1], items), ShouldEqual, 1)
			adj, ok := valuation.AdjustedScore(items[0], items)
			So(ok, ShouldBeTrue)
			So(adj, ShouldEqual, 1)
		})
	})

	Convey("Given items without a usable cost or rating", t, func() {
		items := []model.Item{
			item("A1", 1500, model.NoCost()),
			item("A2", 1500, model.CostOf(0)),
			item("A3", math.Inf(1), model.CostOf(1)),
		}

		Convey("Then they have no adjusted score", func() {
			for _, it := range items {
				_, ok := valuation.AdjustedScore(it, items)
				So(ok, ShouldBeFalse)
			}
			for _, s := range valuation.Scores(items) {
				So(s.Valid, ShouldBeFalse)
				So(math.IsInf(s.Adjusted, -1), ShouldBeTrue)
			}
		})
	})
}

func TestPareto(t *testing.T) {
	Convey("Given a cheap favourite", t, func() {
		items := []model.Item{
			item("A1", 1600, model.CostOf(1)),
			item("A2", 1400, model.CostOf(3)),
			item("A3", 1500, model.CostOf(2)),
		}

		Convey("Then it alone forms the frontier", func() {
			So(valuation.ParetoItems(items), ShouldResemble, []string{"A1"})
		})
	})

	Convey("Given a trade-off between value and price", t, func() {
		items := []model.Item{
			item("A1", 1700, model.CostOf(2)),
			item("A2", 1400, model.CostOf(1)),
			item("A3", 1450, model.CostOf(4)),
		}
		scores := valuation.Scores(items)

		Convey("Then the non-dominated items remain in insertion order", func() {
			// A1: 2/1.33 = 1.5, A2: 1/1 = 1, A3: 1.17/2 is dominated by A1.
			So(valuation.ParetoItems(items), ShouldResemble, []string{"A1", "A2"})
			So(valuation.Dominates(scores[0], scores[2]), ShouldBeTrue)
			So(valuation.Dominates(scores[2], scores[0]), ShouldBeFalse)
		})
	})

	Convey("Given two identical items", t, func() {
		a := valuation.Score{ID: "A1", Adjusted: 1.2, Valid: true, Cost: model.CostOf(2)}
		b := valuation.Score{ID: "A2", Adjusted: 1.2, Valid: true, Cost: model.CostOf(2)}

		Convey("Then neither dominates and both stay on the frontier", func() {
			So(valuation.Dominates(a, b), ShouldBeFalse)
			So(valuation.Dominates(b, a), ShouldBeFalse)
			So(len(valuation.Frontier([]valuation.Score{a, b})), ShouldEqual, 2)
		})
	})

	Convey("Given an item without a score but with a cost", t, func() {
		noScore := valuation.Score{ID: "A1", Adjusted: math.Inf(-1), Cost: model.CostOf(5)}
		scored := valuation.Score{ID: "A2", Adjusted: 1, Valid: true, Cost: model.CostOf(3)}

		Convey("Then it is dominated and never dominates", func() {
			So(valuation.Dominates(scored, noScore), ShouldBeTrue)
			So(valuation.Dominates(noScore, scored), ShouldBeFalse)
		})
	})

	Convey("Given an item without a cost", t, func() {
		noCost := valuation.Score{ID: "A1", Adjusted: math.Inf(-1), Cost: model.NoCost()}
		scored := valuation.Score{ID: "A2", Adjusted: 1, Valid: true, Cost: model.CostOf(3)}

		Convey("Then it is incomparable", func() {
			So(valuation.Dominates(scored, noCost), ShouldBeFalse)
			So(valuation.Dominates(noCost, scored), ShouldBeFalse)
			So(len(valuation.Frontier([]valuation.Score{noCost, scored})), ShouldEqual, 2)
		})
	})
}
