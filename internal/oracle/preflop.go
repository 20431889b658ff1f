package oracle

import "github.com/lox/resolvecore/internal/deck"

// PokerHandType is the 169-way pre-flop canonicalisation of a hole-pair:
// pairs (Low == High), suited and offsuit hands, used both for the cheat
// sheet index and the fast preflop-only comparator below.
type PokerHandType struct {
	Low, High deck.Rank
	Suited    bool
}

// CanonicalHandType canonicalises a two-card hole-pair into its hand type.
func CanonicalHandType(hole []deck.Card) PokerHandType {
	r1, r2 := hole[0].Rank(), hole[1].Rank()
	low, high := r1, r2
	if low > high {
		low, high = high, low
	}
	return PokerHandType{
		Low:    low,
		High:   high,
		Suited: hole[0].Suit() == hole[1].Suit(),
	}
}

// handTypeToLookupIndex returns the 0..168 row index for a hand type. Pairs
// occupy 0..12 in rank order; unpaired hands follow in lexicographic
// (low, high, suited-before-offsuit) order, filling 13..168.
func handTypeToLookupIndex(t PokerHandType) int {
	if t.Low == t.High {
		return int(t.Low)
	}

	offset := 0
	for l := deck.Two; l < t.Low; l++ {
		offset += int(deck.Ace) - int(l)
	}
	offset += int(t.High) - int(t.Low) - 1

	idx := deck.NumRanks + 2*offset
	if !t.Suited {
		idx++
	}
	return idx
}

// NumHandTypes is the 169 strategic pre-flop hand types.
const NumHandTypes = deck.NumRanks + 2*(deck.NumRanks*(deck.NumRanks-1)/2)

// preflopScore gives a fast board-less hand strength: pairs rank strictly
// above every non-pair hand (ranked by pair rank), and non-pairs rank by
// their higher card with the lower card as tiebreak. Higher score is
// stronger, the opposite convention from evaluator.HandRank, so callers
// that mix the two must invert the comparison. Its only consumer today is
// the empty-board utility matrix, which no traversal path reads (showdown
// always has a 5-card board); revisit the low-card tiebreak before wiring
// this anywhere that compares against rollout-derived strengths.
func preflopScore(hole []deck.Card) int {
	t := CanonicalHandType(hole)
	if t.Low == t.High {
		return 2000 + int(t.Low)*10
	}
	return int(t.High)*deck.NumRanks + int(t.Low)
}

// compareHoleCardsPreflop returns +1 if a is stronger than b, -1 if weaker,
// 0 on a tie, using the board-less shortcut above.
func compareHoleCardsPreflop(a, b []deck.Card) int {
	sa, sb := preflopScore(a), preflopScore(b)
	switch {
	case sa > sb:
		return 1
	case sa < sb:
		return -1
	default:
		return 0
	}
}
