package rating_test

import (
	"math"
	"testing"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

const tolerance = 1e-9

func TestExpectedScore(t *testing.T) {
	Convey("Given two ratings", t, func() {
		Convey("Equal ratings give even odds", func() {
			So(rating.ExpectedScore(1500, 1500), ShouldEqual, 0.5)
		})

		Convey("A 400 point gap gives 10 to 1 odds", func() {
			So(rating.ExpectedScore(1900, 1500), ShouldAlmostEqual, 10.0/11.0, tolerance)
		})

		Convey("The two expectations always sum to one", func() {
			for _, pair := range [][2]float64{{1500, 1500}, {1516, 1484}, {2200, 900}, {-50, 3000}} {
				sum := rating.ExpectedScore(pair[0], pair[1]) + rating.ExpectedScore(pair[1], pair[0])
				So(sum, ShouldAlmostEqual, 1.0, tolerance)
			}
		})
	})
}

func TestElo(t *testing.T) {
	Convey("Given two items at the default rating", t, func() {
		w, l := rating.Elo(1500, 1500)

		Convey("Then the winner gains half of K and the loser loses it", func() {
			So(w, ShouldEqual, 1516.0)
			So(l, ShouldEqual, 1484.0)
		})

		Convey("And the update is zero-sum", func() {
			for _, pair := range [][2]float64{{1484, 1516}, {1800, 1200}, {1000, 2000}} {
				nw, nl := rating.Elo(pair[0], pair[1])
				So(nw+nl, ShouldAlmostEqual, pair[0]+pair[1], tolerance)
				So(nw, ShouldBeGreaterThan, pair[0])
				So(nl, ShouldBeLessThan, pair[1])
			}
		})

		Convey("And an underdog win swings more than a favourite win", func() {
			under, _ := rating.Elo(1484, 1516)
			fav, _ := rating.Elo(1516, 1484)
			So(under-1484, ShouldBeGreaterThan, fav-1516)
		})
	})
}

func TestGlickoScale(t *testing.T) {
	Convey("Scale conversions are inverses of each other", t, func() {
		for _, r := range [][2]float64{{1500, 350}, {1662.2, 290.2}, {900, 30}} {
			mu, phi := rating.ToGlickoScale(r[0], r[1])
			back, rd := rating.FromGlickoScale(mu, phi)
			So(back, ShouldAlmostEqual, r[0], tolerance)
			So(rd, ShouldAlmostEqual, r[1], tolerance)
		}
		mu, _ := rating.ToGlickoScale(1500, 350)
		So(mu, ShouldEqual, 0)
	})
}

func TestGlicko(t *testing.T) {
	Convey("Given a default rated item", t, func() {
		self := model.DefaultRating()
		opp := model.DefaultRating()

		Convey("When it has no games", func() {
			self.Glicko = 1620
			self.RD = 120
			self.Volatility = 0.07
			r := rating.Glicko(self, nil)

			Convey("Then the rating is kept and RD and volatility reset", func() {
				So(r.Glicko, ShouldEqual, 1620)
				So(r.RD, ShouldEqual, model.DefaultRD)
				So(r.Volatility, ShouldEqual, model.DefaultVolatility)
				So(r.Reset, ShouldBeFalse)
			})
		})

		Convey("When it wins one game against an equal opponent", func() {
			r := rating.Glicko(self, []rating.Match{{Opponent: opp, Score: 1}})

			Convey("Then the rating rises and RD shrinks", func() {
				So(r.Glicko, ShouldAlmostEqual, 1662.2120014703455, 1e-6)
				So(r.RD, ShouldAlmostEqual, 290.23050778223865, 1e-6)
				So(r.Volatility, ShouldEqual, model.DefaultVolatility)
			})
		})

		Convey("When it loses the same game", func() {
			win := rating.Glicko(self, []rating.Match{{Opponent: opp, Score: 1}})
			loss := rating.Glicko(self, []rating.Match{{Opponent: opp, Score: 0}})

			Convey("Then the change mirrors the win around 1500", func() {
				So(loss.Glicko, ShouldAlmostEqual, 3000-win.Glicko, 1e-9)
				So(loss.RD, ShouldAlmostEqual, win.RD, 1e-9)
			})
		})

		Convey("When it beats an opponent so strong the win had no expected chance", func() {
			giant := model.Rating{Glicko: 1e7, RD: model.DefaultRD, Volatility: model.DefaultVolatility}
			r := rating.Glicko(self, []rating.Match{{Opponent: giant, Score: 1}})

			Convey("Then the zero variance is floored and the result stays finite", func() {
				So(math.IsNaN(r.Glicko) || math.IsInf(r.Glicko, 0), ShouldBeFalse)
				So(math.IsNaN(r.RD) || math.IsInf(r.RD, 0), ShouldBeFalse)
				So(r.Reset, ShouldBeFalse)
				So(r.Glicko, ShouldBeGreaterThan, model.DefaultGlicko)
				So(r.RD, ShouldAlmostEqual, model.DefaultRD, 0.01)
				So(r.RD, ShouldBeLessThanOrEqualTo, model.DefaultRD)
			})
		})

		Convey("When the input is not finite", func() {
			self.Glicko = math.NaN()
			r := rating.Glicko(self, []rating.Match{{Opponent: opp, Score: 1}})

			Convey("Then it falls back to the defaults and keeps volatility", func() {
				So(r.Reset, ShouldBeTrue)
				So(r.Glicko, ShouldEqual, model.DefaultGlicko)
				So(r.RD, ShouldEqual, model.DefaultRD)
				So(r.Volatility, ShouldEqual, model.DefaultVolatility)
			})
		})
	})
}
