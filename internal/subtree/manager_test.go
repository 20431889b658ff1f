package subtree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/resolvecore/internal/deck"
	"github.com/lox/resolvecore/internal/state"
	"github.com/lox/resolvecore/internal/valuenet"
)

func testConfig() Config {
	return Config{
		AllowedRaises:       [2]int{10, 20},
		AvgPotSize:          200,
		NbrRandomEvents:     3,
		NbrActionsInRollout: 3,
		BetPerStageLimit:    2,
	}
}

func uniformRange() []float64 {
	r := make([]float64, deck.NumHolePairs)
	for i := range r {
		r[i] = 1
	}
	return r
}

func TestNewManagerBuildsPlayerRoot(t *testing.T) {
	s := state.NewGameState(2, 1000, 2)
	rng := rand.New(rand.NewSource(1))
	m, err := NewManager(s, state.Flop, 1, NewUniformStrategy(), testConfig(), valuenet.NewRegistry(), rng)
	require.NoError(t, err)
	assert.Equal(t, PlayerNode, m.Root.Type)
	assert.NotEmpty(t, m.Root.Children)
}

func TestWonNodeValuesSignByWinner(t *testing.T) {
	s := state.NewGameState(2, 1000, 2)
	rng := rand.New(rand.NewSource(1))
	m, err := NewManager(s, state.Flop, 1, NewUniformStrategy(), testConfig(), valuenet.NewRegistry(), rng)
	require.NoError(t, err)

	wonState := s.Copy()
	wonState.StateType = state.WinnerState
	wonState.WinnerIndex = s.CurrentPlayer
	wonState.Pot = 200
	node := newNode(wonState, 0, WonNode, m.Root.Strategy, newZeroStrategy(), [2][]float64{make([]float64, deck.NumHolePairs), make([]float64, deck.NumHolePairs)}, m.Root.UtilityMatrix)

	v1, v2, err := m.SubtreeTraversalRollout(node, uniformRange(), uniformRange())
	require.NoError(t, err)
	assert.Equal(t, 1.0, v1[0])
	assert.Equal(t, -1.0, v2[0])
}

func TestShowdownValuesAreAntisymmetric(t *testing.T) {
	s := state.NewGameState(2, 1000, 2)
	s.Stage = state.Showdown
	s.Pot = 200
	rng := rand.New(rand.NewSource(2))
	m, err := NewManager(s, state.Flop, 1, NewUniformStrategy(), testConfig(), valuenet.NewRegistry(), rng)
	require.NoError(t, err)

	node := newNode(s, 0, ShowdownNode, m.Root.Strategy, newZeroStrategy(), [2][]float64{make([]float64, deck.NumHolePairs), make([]float64, deck.NumHolePairs)}, m.Root.UtilityMatrix)
	r1, r2 := uniformRange(), uniformRange()
	v1, v2, err := m.SubtreeTraversalRollout(node, r1, r2)
	require.NoError(t, err)

	var dot1, dot2 float64
	for h := 0; h < deck.NumHolePairs; h++ {
		dot1 += v1[h]
		dot2 += v2[h]
	}
	assert.InDelta(t, 0, dot1+dot2, 1e-6)
}

func TestBayesianRangeUpdateConcentratesOnAction(t *testing.T) {
	strategy := NewUniformStrategy()
	strategy[0][1] = 1
	for a := 0; a < NumActions; a++ {
		if a != 1 {
			strategy[0][a] = 0
		}
	}

	r := uniformRange()
	updated := BayesianRangeUpdate(r, strategy, 1)
	assert.Greater(t, updated[0], r[0])
}

func TestUpdateRangeFromPublicCardsZeroesConflicts(t *testing.T) {
	r := uniformRange()
	card := deck.NewCard(deck.Ace, deck.Spades)
	updated := UpdateRangeFromPublicCards(r, []deck.Card{card})

	other := deck.NewCard(deck.King, deck.Hearts)
	idx := deck.HolePairIndex(card, other)
	assert.Zero(t, updated[idx])
}

func TestRolloutAndStrategyUpdateProducesValidDistribution(t *testing.T) {
	s := state.NewGameState(2, 1000, 2)
	rng := rand.New(rand.NewSource(4))
	m, err := NewManager(s, state.Flop, 1, NewUniformStrategy(), testConfig(), valuenet.NewRegistry(), rng)
	require.NoError(t, err)

	r1, r2 := uniformRange(), uniformRange()
	_, _, err = m.SubtreeTraversalRollout(m.Root, r1, r2)
	require.NoError(t, err)
	strategy := m.UpdateStrategyAtNode(m.Root)
	require.NotNil(t, strategy)

	for h := 0; h < deck.NumHolePairs; h++ {
		var sum float64
		for a := 0; a < NumActions; a++ {
			assert.GreaterOrEqual(t, strategy[h][a], 0.0)
			sum += strategy[h][a]
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestGenerateChildrenIsIdempotentForSameActions(t *testing.T) {
	s := state.NewGameState(2, 1000, 2)
	rng := rand.New(rand.NewSource(5))
	m, err := NewManager(s, state.Flop, 1, NewUniformStrategy(), testConfig(), valuenet.NewRegistry(), rng)
	require.NoError(t, err)

	before := len(m.Root.Children)
	require.NoError(t, m.generateChildren(m.Root, -1))
	after := len(m.Root.Children)
	assert.Equal(t, before, after)
}
