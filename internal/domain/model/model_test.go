package model_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/arena/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleArena() model.Arena {
	return model.DefaultCollection().Arenas[0]
}

func TestArena(t *testing.T) {
	Convey("Given the seed arena", t, func() {
		a := sampleArena()

		Convey("Then it should hold the two sample apples", func() {
			So(a.Key, ShouldEqual, "apples")
			So(a.Name, ShouldEqual, "Apple Battle Arena")
			So(len(a.Items), ShouldEqual, 2)
			So(a.ItemName("A1"), ShouldEqual, "Royal Gala")
			So(a.ItemName("A2"), ShouldEqual, "Pink Lady")
			So(a.Items[0].Rating, ShouldResemble, model.DefaultRating())
		})

		Convey("When allocating item ids", func() {
			first := a.NewItemID()
			second := a.NewItemID()

			Convey("Then ids should continue the counter", func() {
				So(first, ShouldEqual, "A3")
				So(second, ShouldEqual, "A4")
				So(a.NextItemID, ShouldEqual, 5)
			})
		})

		Convey("When an arena has no counter yet", func() {
			fresh := model.Arena{}
			So(fresh.NewItemID(), ShouldEqual, "A1")
		})

		Convey("When resolving an unknown id", func() {
			So(a.ItemName("A99"), ShouldEqual, "Unknown")
		})

		Convey("When cloning", func() {
			c := a.Clone()
			c.Items[0].Name = "Changed"
			c.Outcomes = append(c.Outcomes, model.Outcome{ID: "x"})

			Convey("Then the original should be untouched", func() {
				So(a.Items[0].Name, ShouldEqual, "Royal Gala")
				So(len(a.Outcomes), ShouldEqual, 0)
			})
		})

		Convey("When updating an item", func() {
			it, _ := a.Item("A2")
			it.Name = "Pink Lady Organic"
			So(a.UpdateItem(it), ShouldBeTrue)
			So(a.ItemName("A2"), ShouldEqual, "Pink Lady Organic")
			So(a.UpdateItem(model.Item{ID: "nope"}), ShouldBeFalse)
		})
	})
}

func TestArenaKey(t *testing.T) {
	Convey("Arena keys are lower case with whitespace runs collapsed to dashes", t, func() {
		So(model.ArenaKey("Apple Battle Arena"), ShouldEqual, "apple-battle-arena")
		So(model.ArenaKey("  Best   Coffee\tBeans "), ShouldEqual, "best-coffee-beans")
		So(model.ArenaKey("tea"), ShouldEqual, "tea")
	})
}

func TestOutcome(t *testing.T) {
	Convey("Given an outcome", t, func() {
		o := model.Outcome{Item1: "A1", Item2: "A2", Winner: "A2"}
		So(o.Loser(), ShouldEqual, "A1")
		So(o.Involves("A1"), ShouldBeTrue)
		So(o.Involves("A3"), ShouldBeFalse)
	})
}

func TestValidateOutcome(t *testing.T) {
	Convey("Given the seed arena", t, func() {
		a := sampleArena()

		Convey("A well formed outcome validates", func() {
			So(a.ValidateOutcome("A1", "A2", "A1"), ShouldBeNil)
		})

		Convey("A self match is rejected", func() {
			So(errors.Is(a.ValidateOutcome("A1", "A1", "A1"), model.ErrSelfMatch), ShouldBeTrue)
		})

		Convey("A winner outside the pair is rejected", func() {
			So(errors.Is(a.ValidateOutcome("A1", "A2", "A3"), model.ErrInvalidWinner), ShouldBeTrue)
		})

		Convey("An unknown participant is rejected", func() {
			So(errors.Is(a.ValidateOutcome("A1", "A7", "A1"), model.ErrUnknownItem), ShouldBeTrue)
		})

		Convey("An arena with fewer than two items is rejected", func() {
			a.Items = a.Items[:1]
			So(errors.Is(a.ValidateOutcome("A1", "A2", "A1"), model.ErrNotEnoughItems), ShouldBeTrue)
		})
	})
}

func TestPruneAndRemove(t *testing.T) {
	Convey("Given an arena with a mixed history", t, func() {
		a := sampleArena()
		a.Items = append(a.Items, model.Item{ID: "A3", Name: "Fuji", Rating: model.DefaultRating()})
		a.Outcomes = []model.Outcome{
			{ID: "o1", Item1: "A1", Item2: "A2", Winner: "A1"},
			{ID: "o2", Item1: "A1", Item2: "A1", Winner: "A1"},
			{ID: "o3", Item1: "A2", Item2: "A3", Winner: "A1"},
			{ID: "o4", Item1: "A2", Item2: "A9", Winner: "A2"},
			{ID: "o5", Item1: "A3", Item2: "A1", Winner: "A3"},
		}

		Convey("When pruning", func() {
			dropped := a.Prune()

			Convey("Then only replayable outcomes remain, in order", func() {
				So(dropped, ShouldEqual, 3)
				So(len(a.Outcomes), ShouldEqual, 2)
				So(a.Outcomes[0].ID, ShouldEqual, "o1")
				So(a.Outcomes[1].ID, ShouldEqual, "o5")
			})
		})

		Convey("When removing an item", func() {
			So(a.RemoveItem("A1"), ShouldBeTrue)

			Convey("Then its outcomes cascade away", func() {
				So(len(a.Items), ShouldEqual, 2)
				for _, o := range a.Outcomes {
					So(o.Involves("A1"), ShouldBeFalse)
				}
				So(a.RemoveItem("A1"), ShouldBeFalse)
			})
		})

		Convey("When removing an outcome", func() {
			So(a.RemoveOutcome("o3"), ShouldBeTrue)
			So(a.RemoveOutcome("o3"), ShouldBeFalse)
			So(len(a.Outcomes), ShouldEqual, 4)
		})
	})
}

func TestCost(t *testing.T) {
	Convey("Given costs", t, func() {
		Convey("An unset cost is reported as absent", func() {
			c := model.NoCost()
			So(c.IsSet(), ShouldBeFalse)
			So(c.Ptr(), ShouldBeNil)
			So(c.String(), ShouldEqual, "N/A")
			_, ok := c.Positive()
			So(ok, ShouldBeFalse)
		})

		Convey("A set cost round trips through a pointer", func() {
			c := model.CostOf(1.5)
			So(*c.Ptr(), ShouldEqual, 1.5)
			So(model.CostFromPtr(c.Ptr()), ShouldResemble, c)
			So(model.CostFromPtr(nil).IsSet(), ShouldBeFalse)
			So(c.String(), ShouldEqual, "1.50")
		})

		Convey("A zero cost is set but not positive", func() {
			_, ok := model.CostOf(0).Positive()
			So(ok, ShouldBeFalse)
		})

		Convey("Parsing accepts positive numbers only", func() {
			c, err := model.ParseCost(" 4.50 ")
			So(err, ShouldBeNil)
			v, _ := c.Value()
			So(v, ShouldEqual, 4.5)

			for _, bad := range []string{"", "abc", "0", "-1", "NaN", "Inf"} {
				_, err := model.ParseCost(bad)
				So(errors.Is(err, model.ErrInvalidCost), ShouldBeTrue)
			}
			So(model.ValidateCost(math.Inf(1)), ShouldNotBeNil)
		})
	})
}

func TestValidateName(t *testing.T) {
	Convey("Names are trimmed and must not be blank", t, func() {
		n, err := model.ValidateName("  Fuji ")
		So(err, ShouldBeNil)
		So(n, ShouldEqual, "Fuji")

		_, err = model.ValidateName("   ")
		So(errors.Is(err, model.ErrInvalidName), ShouldBeTrue)
	})
}
