package subtree

import "github.com/lox/resolvecore/internal/deck"

// bayesianEpsilon stabilises the Bayesian range update's denominator when
// an action has near-zero total probability mass.
const bayesianEpsilon = 0.0001

// BayesianRangeUpdate concentrates range r onto the hole-pairs whose prior
// strategy prescribed actionIndex: p(a) = Σ_h strategy[h,a] / Σ_h,a'
// strategy[h,a'] (+ε), then r'[h] = r[h] · strategy[h,a] / p(a).
func BayesianRangeUpdate(r []float64, strategy Strategy, actionIndex int) []float64 {
	var actionMass, totalMass float64
	for h := range strategy {
		actionMass += strategy[h][actionIndex]
		for a := 0; a < NumActions; a++ {
			totalMass += strategy[h][a]
		}
	}
	pAction := actionMass/totalMass + bayesianEpsilon

	result := make([]float64, len(r))
	for h := range r {
		result[h] = r[h] * strategy[h][actionIndex] / pAction
	}
	return result
}

// UpdateRangeFromPublicCards zeroes out range entries for every hole-pair
// that now conflicts with a newly revealed public card, keeping ranges
// board-consistent.
func UpdateRangeFromPublicCards(r []float64, newPublicCards []deck.Card) []float64 {
	result := append([]float64(nil), r...)
	for _, c := range newPublicCards {
		for other := 0; other < 52; other++ {
			if int(c) == other {
				continue
			}
			idx := deck.HolePairIndex(c, deck.Card(other))
			result[idx] = 0
		}
	}
	return result
}
