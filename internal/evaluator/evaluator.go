// Package evaluator ranks 5-, 6-, and 7-card Texas Hold'em hands using the
// perfect-hash lookup scheme: a suit-weight sum resolves
// flush detection, and a quinary (per-rank count) hash resolves everything
// else. Smaller HandRank values denote stronger hands.
package evaluator

import (
	"fmt"

	"github.com/lox/resolvecore/internal/deck"
)

// Evaluate ranks a 5-, 6-, or 7-card hand and returns the best 5-card
// HandRank achievable from it. A malformed hand size is a programmer error
// and panics.
func Evaluate(cards []deck.Card) HandRank {
	n := len(cards)
	if n < 5 || n > 7 {
		panic(fmt.Sprintf("evaluator: hand size must be 5-7, got %d", n))
	}
	ensureTables()

	var suitSum uint32
	for _, c := range cards {
		suitSum += suitbitByID[c]
	}

	if flushSuit := lookupFlushSuit(suitSum); flushSuit >= 0 {
		var mask uint32
		for _, c := range cards {
			if int(c.Suit()) == flushSuit {
				mask |= binariesByID[c]
			}
		}
		return flush[mask]
	}

	var counts [13]int
	for _, c := range cards {
		counts[int(c.Rank())]++
	}
	hash := hashQuinary(counts)

	var table map[uint32]HandRank
	switch n {
	case 5:
		table = noFlush5
	case 6:
		table = noFlush6
	case 7:
		table = noFlush7
	}
	if rank, ok := table[hash]; ok {
		return rank
	}
	// Every reachable quinary bucket is populated at init; reaching here
	// means a caller passed cards outside the board/hole invariants (e.g.
	// duplicate card ids producing an impossible count vector).
	return classifyCounts(counts)
}

// EvaluateAll evaluates every hand in hands, returning ranks in the same
// order.
func EvaluateAll(hands [][]deck.Card) []HandRank {
	ensureTables()
	out := make([]HandRank, len(hands))
	for i, h := range hands {
		out[i] = Evaluate(h)
	}
	return out
}
