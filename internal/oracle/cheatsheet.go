package oracle

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/lox/resolvecore/internal/deck"
)

// MinOpponents and MaxOpponents bound the cheat sheet's opponent-count
// columns.
const (
	MinOpponents       = 2
	MaxOpponents       = 6
	NumOpponentColumns = MaxOpponents - MinOpponents + 1
)

// CheatSheet is the persisted 169×5 pre-flop win-probability table: row
// index is handTypeToLookupIndex, column index is (opponents - MinOpponents).
type CheatSheet struct {
	rows [NumHandTypes][NumOpponentColumns]float64
}

// Lookup returns the win probability for a hole-pair against numOpponents
// opponents, canonicalising the hole cards to their 169-way hand type.
func (cs *CheatSheet) Lookup(hole []deck.Card, numOpponents int) float64 {
	row := handTypeToLookupIndex(CanonicalHandType(hole))
	col := numOpponents - MinOpponents
	if col < 0 {
		col = 0
	}
	if col >= NumOpponentColumns {
		col = NumOpponentColumns - 1
	}
	return cs.rows[row][col]
}

// representativeHole returns one concrete hole-pair instance of a hand
// type, used to drive the rollout that fills a cheat sheet row.
func representativeHole(t PokerHandType) []deck.Card {
	if t.Low == t.High {
		return []deck.Card{
			deck.NewCard(t.Low, deck.Clubs),
			deck.NewCard(t.Low, deck.Diamonds),
		}
	}
	suitHigh := deck.Clubs
	suitLow := deck.Diamonds
	if t.Suited {
		suitLow = suitHigh
	}
	return []deck.Card{
		deck.NewCard(t.High, suitHigh),
		deck.NewCard(t.Low, suitLow),
	}
}

// handTypeFromIndex is the inverse of handTypeToLookupIndex, used only to
// drive generation (iterate every row once).
func handTypeFromIndex(idx int) PokerHandType {
	for low := deck.Two; low <= deck.Ace; low++ {
		for high := low; high <= deck.Ace; high++ {
			if low == high {
				if idx == handTypeToLookupIndex(PokerHandType{Low: low, High: high}) {
					return PokerHandType{Low: low, High: high}
				}
				continue
			}
			for _, suited := range []bool{true, false} {
				t := PokerHandType{Low: low, High: high, Suited: suited}
				if idx == handTypeToLookupIndex(t) {
					return t
				}
			}
		}
	}
	panic(fmt.Sprintf("oracle: no hand type maps to index %d", idx))
}

// GenerateCheatSheet computes the full 169×5 table via the rollout
// win-probability estimator, one row per hand type and one column per
// opponent count, fanned out across rows with an errgroup (the generation
// is itself offline tooling, not part of a resolve call's hot path).
func GenerateCheatSheet(seed int64, rolloutsPerCell int) (*CheatSheet, error) {
	cs := &CheatSheet{}
	var g errgroup.Group

	for row := 0; row < NumHandTypes; row++ {
		row := row
		g.Go(func() error {
			t := handTypeFromIndex(row)
			hole := representativeHole(t)
			rng := rand.New(rand.NewSource(seed + int64(row)))
			for col := 0; col < NumOpponentColumns; col++ {
				opponents := MinOpponents + col
				cs.rows[row][col] = WinProbability(rng, hole, nil, opponents+1, rolloutsPerCell)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cs, nil
}

// SaveCheatSheet persists the table as a flat binary array of float64s,
// row major.
func SaveCheatSheet(cs *CheatSheet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, 8)
	for row := 0; row < NumHandTypes; row++ {
		for col := 0; col < NumOpponentColumns; col++ {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(cs.rows[row][col]))
			if _, err := f.Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadCheatSheet reads a table persisted by SaveCheatSheet.
func LoadCheatSheet(path string) (*CheatSheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cs := &CheatSheet{}
	buf := make([]byte, 8)
	for row := 0; row < NumHandTypes; row++ {
		for col := 0; col < NumOpponentColumns; col++ {
			if _, err := io.ReadFull(f, buf); err != nil {
				return nil, fmt.Errorf("read cheat sheet: %w", err)
			}
			cs.rows[row][col] = math.Float64frombits(binary.LittleEndian.Uint64(buf))
		}
	}
	return cs, nil
}
