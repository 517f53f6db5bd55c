// Package rating implements the Elo and Glicko-2 update formulas.
//
// All functions are pure: they take the current public-scale ratings and
// return new ones without touching shared state.
package rating

import (
	"math"

	"github.com/okian/arena/internal/domain/model"
)

// Rating system constants.
const (
	// KFactor is the Elo swing applied per outcome.
	KFactor = 32.0
	// eloBase is the rating gap that gives 10-to-1 odds.
	eloBase = 400.0

	// glickoScale converts between the public and internal Glicko-2 scales.
	glickoScale  = 173.7178
	glickoCenter = 1500.0

	// varianceEpsilon replaces an exactly zero variance sum.
	varianceEpsilon = 0.000001
)

// ExpectedScore returns the probability that a player rated ratingA beats
// a player rated ratingB.
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1 / (1 + math.Pow(10, (ratingB-ratingA)/eloBase))
}

// Elo applies a single outcome to the winner and loser ratings.
// The loser loses exactly what the winner gains.
func Elo(winner, loser float64) (newWinner, newLoser float64) {
	expWin := ExpectedScore(winner, loser)
	newWinner = winner + KFactor*(1-expWin)
	newLoser = loser + KFactor*(0-(1-expWin))
	return newWinner, newLoser
}

// ToGlickoScale maps a public rating/RD pair onto the internal scale.
func ToGlickoScale(r, rd float64) (mu, phi float64) {
	return (r - glickoCenter) / glickoScale, rd / glickoScale
}

// FromGlickoScale maps an internal mu/phi pair back to the public scale.
func FromGlickoScale(mu, phi float64) (r, rd float64) {
	return mu*glickoScale + glickoCenter, phi * glickoScale
}

// G is the Glicko-2 weighting of an opponent's deviation.
func G(phi float64) float64 {
	return 1 / math.Sqrt(1+(3*phi*phi)/(math.Pi*math.Pi))
}

// E is the Glicko-2 expected score against an opponent.
func E(mu, muj, phij float64) float64 {
	return 1 / (1 + math.Exp(-G(phij)*(mu-muj)))
}

// Match is one game of a rating period from the rated item's point of view.
type Match struct {
	Opponent model.Rating
	Score    float64 // 1 for a win, 0 for a loss
}

// Result is the outcome of a single-period Glicko-2 update.
type Result struct {
	Glicko     float64
	RD         float64
	Volatility float64
	// Reset is true when the update produced a non-finite value and the
	// rating fell back to the defaults.
	Reset bool
}

// Glicko runs one simplified Glicko-2 rating period for self.
//
// Volatility is carried through unchanged: the iterative volatility
// re-estimation of the full algorithm is not performed. With no matches the
// rating keeps its value and RD and volatility return to their defaults.
func Glicko(self model.Rating, matches []Match) Result {
	if len(matches) == 0 {
		return Result{Glicko: self.Glicko, RD: model.DefaultRD, Volatility: model.DefaultVolatility}
	}

	mu, phi := ToGlickoScale(self.Glicko, self.RD)
	vol := self.Volatility

	var sum, deltaSum float64
	for _, m := range matches {
		muj, phij := ToGlickoScale(m.Opponent.Glicko, m.Opponent.RD)
		e := E(mu, muj, phij)
		g := G(phij)
		sum += g * g * e * (1 - e)
		deltaSum += g * (m.Score - e)
	}
	if sum == 0 {
		sum = varianceEpsilon
	}
	v := 1 / sum
	delta := v * deltaSum

	muNew := mu + (phi*phi*delta)/(phi*phi+v)
	phiNew := math.Sqrt(1 / ((1 / (phi * phi)) + (1 / v)))
	r, rd := FromGlickoScale(muNew, phiNew)

	if !finite(r) || !finite(rd) {
		return Result{Glicko: model.DefaultGlicko, RD: model.DefaultRD, Volatility: vol, Reset: true}
	}
	return Result{Glicko: r, RD: rd, Volatility: vol}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
