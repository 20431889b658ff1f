package evaluator

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/resolvecore/internal/deck"
)

func TestEvaluateRoyalFlush(t *testing.T) {
	rank := Evaluate(MustParseCards("AsKsQsJsTs"))
	assert.Equal(t, StraightFlushType, rank.Category())
}

func TestEvaluateStraightFlushBeatsQuads(t *testing.T) {
	sf := Evaluate(MustParseCards("9h8h7h6h5h"))
	quads := Evaluate(MustParseCards("AsAhAdAcKs"))
	assert.True(t, sf.Stronger(quads))
}

func TestEvaluateCategories(t *testing.T) {
	tests := []struct {
		hand     string
		category int
	}{
		{"AsAhAdAcKs", FourOfAKindType},
		{"KsKhKdQcQs", FullHouseType},
		{"AcJc9c7c5c", FlushType},
		{"9s8h7d6c5s", StraightType},
		{"As2h3d4c5s", StraightType},
		{"QsQhQd8c5s", ThreeOfAKindType},
		{"JsJh8d8c5s", TwoPairType},
		{"TsTh8d6c2s", OnePairType},
		{"AsJh8d6c2s", HighCardType},
	}
	for _, tt := range tests {
		rank := Evaluate(MustParseCards(tt.hand))
		assert.Equal(t, tt.category, rank.Category(), "hand %s", tt.hand)
	}
}

func TestEvaluateKickerOrdering(t *testing.T) {
	aceKicker := Evaluate(MustParseCards("QsQhQd8cAs"))
	kingKicker := Evaluate(MustParseCards("QsQhQd8cKs"))
	assert.True(t, aceKicker.Stronger(kingKicker))

	acesUp := Evaluate(MustParseCards("AsAh8d8c5s"))
	kingsUp := Evaluate(MustParseCards("KsKh8d8c5s"))
	assert.True(t, acesUp.Stronger(kingsUp))
}

func TestEvaluateWheelIsLowestStraight(t *testing.T) {
	wheel := Evaluate(MustParseCards("As2h3d4c5s"))
	sixHigh := Evaluate(MustParseCards("2h3d4c5s6h"))
	assert.True(t, sixHigh.Stronger(wheel))
	assert.Equal(t, StraightType, wheel.Category())
}

func TestEvaluateSevenCardPicksBestFive(t *testing.T) {
	// Board makes a flush; the pair in the hole is irrelevant.
	rank := Evaluate(MustParseCards("2s2h AcJc9c7c5c"))
	assert.Equal(t, FlushType, rank.Category())

	// Six cards, straight hidden among them.
	rank = Evaluate(MustParseCards("9s8h7d6c5s5h"))
	assert.Equal(t, StraightType, rank.Category())
}

func TestEvaluateOrderInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	hands := []string{
		"AsKsQsJsTs",
		"2s2h3d4c5s6h7d",
		"KsKhKdQcQs9h",
		"AcJc9c7c5c2d3h",
	}
	for _, h := range hands {
		cards := MustParseCards(h)
		want := Evaluate(cards)

		shuffled := append([]deck.Card(nil), cards...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		assert.Equal(t, want, Evaluate(shuffled), "hand %s", h)

		sorted := append([]deck.Card(nil), cards...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		assert.Equal(t, want, Evaluate(sorted), "hand %s", h)
	}
}

func TestEvaluatePanicsOnBadHandSize(t *testing.T) {
	assert.Panics(t, func() { Evaluate(MustParseCards("AsKs")) })
	assert.Panics(t, func() { Evaluate(MustParseCards("AsKsQsJsTs9s8s7s")) })
}

func TestParseCardsRejectsGarbage(t *testing.T) {
	_, err := ParseCards("Xx")
	require.Error(t, err)
	_, err = ParseCards("As K")
	require.Error(t, err)
}

func TestFlushSuitLookup(t *testing.T) {
	ensureTables()

	// Five hearts plus two offsuit cards sums to a key in the SUITS hash.
	cards := MustParseCards("2h5h9hJhKh As3c")
	var sum uint32
	for _, c := range cards {
		sum += suitbitByID[c]
	}
	assert.Equal(t, int(deck.Hearts), lookupFlushSuit(sum))

	// Four hearts is not a flush.
	cards = MustParseCards("2h5h9hJh Ks As3c")
	sum = 0
	for _, c := range cards {
		sum += suitbitByID[c]
	}
	assert.Equal(t, -1, lookupFlushSuit(sum))
}

func BenchmarkEvaluate7(b *testing.B) {
	cards := MustParseCards("2s2hAcJc9c7c5c")
	ensureTables()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Evaluate(cards)
	}
}

func BenchmarkEvaluate5(b *testing.B) {
	cards := MustParseCards("KsKhKdQcQs")
	ensureTables()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Evaluate(cards)
	}
}
