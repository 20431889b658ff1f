// Package oracle evaluates hand matchups: the 1326×1326 utility matrix,
// rollout win-probability estimation, and the pre-flop cheat sheet.
package oracle

import (
	"github.com/lox/resolvecore/internal/deck"
	"github.com/lox/resolvecore/internal/evaluator"
)

// UtilityMatrix is the signed 1326×1326 matrix U: U[i][j] is +1 if
// hole-pair i beats hole-pair j on the given public board, -1 if it loses,
// 0 on a tie or when either hole-pair conflicts with the board.
type UtilityMatrix struct {
	rows [deck.NumHolePairs][deck.NumHolePairs]int8
}

// At returns U[i][j].
func (u *UtilityMatrix) At(i, j int) int8 {
	return u.rows[i][j]
}

// Row returns a read-only view of row i, U[i][*].
func (u *UtilityMatrix) Row(i int) []int8 {
	return u.rows[i][:]
}

// ComputeUtilityMatrix builds U for the given public board (0, 3, 4 or 5
// cards). Hole-pairs that share a card with the board contribute zero in
// both their row and column.
func ComputeUtilityMatrix(board []deck.Card) *UtilityMatrix {
	if len(board) == 0 {
		return computeUtilityMatrixPreflop()
	}

	strengths := make([]evaluator.HandRank, deck.NumHolePairs)
	conflict := make([]bool, deck.NumHolePairs)

	for h := 0; h < deck.NumHolePairs; h++ {
		if deck.SharesCard(h, board) {
			conflict[h] = true
			continue
		}
		c1, c2 := deck.HoleCardIDs(h)
		hand := make([]deck.Card, 0, 2+len(board))
		hand = append(hand, c1, c2)
		hand = append(hand, board...)
		strengths[h] = evaluator.Evaluate(hand)
	}

	u := &UtilityMatrix{}
	for i := 0; i < deck.NumHolePairs; i++ {
		if conflict[i] {
			continue
		}
		for j := i + 1; j < deck.NumHolePairs; j++ {
			if conflict[j] {
				continue
			}
			switch {
			case strengths[i] < strengths[j]:
				u.rows[i][j] = 1
				u.rows[j][i] = -1
			case strengths[i] > strengths[j]:
				u.rows[i][j] = -1
				u.rows[j][i] = 1
			}
		}
	}
	return u
}

// computeUtilityMatrixPreflop uses the board-less comparator since
// evaluator.Evaluate requires 5-7 cards and a bare hole-pair has only 2.
func computeUtilityMatrixPreflop() *UtilityMatrix {
	u := &UtilityMatrix{}
	for i := 0; i < deck.NumHolePairs; i++ {
		ci1, ci2 := deck.HoleCardIDs(i)
		for j := i + 1; j < deck.NumHolePairs; j++ {
			cj1, cj2 := deck.HoleCardIDs(j)
			cmp := compareHoleCardsPreflop([]deck.Card{ci1, ci2}, []deck.Card{cj1, cj2})
			u.rows[i][j] = int8(cmp)
			u.rows[j][i] = int8(-cmp)
		}
	}
	return u
}
