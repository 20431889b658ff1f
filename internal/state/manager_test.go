package state

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() (*Manager, *GameState) {
	m := NewManager([2]int{10, 20})
	s := NewGameState(2, 1000, 2)
	return m, s
}

func TestLegalActionsFreshState(t *testing.T) {
	m, s := newTestManager()
	actions := m.LegalActions(s)
	assert.Contains(t, actions, Fold)
	assert.Contains(t, actions, Check)
	assert.Contains(t, actions, Raise)
	assert.Contains(t, actions, AllIn)
	assert.NotContains(t, actions, Call)
}

// TestRaiseAndAllInIncrementStageBetCount: only RAISE and ALL_IN increment
// StageBetCount; FOLD, CALL and CHECK never do.
func TestRaiseAndAllInIncrementStageBetCount(t *testing.T) {
	m, s := newTestManager()

	afterCheck := m.ApplyAction(s, Action{Type: Check})
	assert.Equal(t, 0, afterCheck.StageBetCount)

	afterRaise := m.ApplyAction(s, Action{Type: Raise, Amount: 10})
	assert.Equal(t, 1, afterRaise.StageBetCount)

	afterAllIn := m.ApplyAction(s, Action{Type: AllIn})
	assert.Equal(t, 1, afterAllIn.StageBetCount)
}

// TestBetPerStageLimitRemovesRaiseAndAllIn: after
// BET_PER_STAGE_LIMIT raises/all-ins in a stage, RAISE and ALL_IN are gone
// from legal actions.
func TestBetPerStageLimitRemovesRaiseAndAllIn(t *testing.T) {
	m, s := newTestManager()
	s.StageBetCount = s.BetPerStageLimit

	actions := m.LegalActions(s)
	assert.NotContains(t, actions, Raise)
	assert.NotContains(t, actions, AllIn)
}

// TestFoldLeavesSoloWinner: with only one player left
// in PlayersInGame, the state transitions to WINNER regardless of the
// action that got it there.
func TestFoldLeavesSoloWinner(t *testing.T) {
	m, s := newTestManager()
	next := m.ApplyAction(s, Action{Type: Fold})
	assert.Equal(t, WinnerState, next.StateType)
	assert.Equal(t, 1, next.WinnerIndex)
}

func TestApplyActionIsCopyOnWrite(t *testing.T) {
	m, s := newTestManager()
	original := s.Copy()

	_ = m.ApplyAction(s, Action{Type: Raise, Amount: 10})

	assert.Equal(t, original.PlayerBets, s.PlayerBets)
	assert.Equal(t, original.Pot, s.Pot)
	assert.Equal(t, original.StageBetCount, s.StageBetCount)
}

func TestProgressStageDealsCorrectCounts(t *testing.T) {
	m, s := newTestManager()
	rng := rand.New(rand.NewSource(1))

	flop, err := m.ProgressStage(s, s.Deck, rng)
	require.NoError(t, err)
	assert.Equal(t, Flop, flop.Stage)
	assert.Len(t, flop.PublicCards, 3)
	assert.Equal(t, 0, flop.StageBetCount)
	assert.Equal(t, PlayerState, flop.StateType)

	turn, err := m.ProgressStage(flop, flop.Deck, rng)
	require.NoError(t, err)
	assert.Equal(t, Turn, turn.Stage)
	assert.Len(t, turn.PublicCards, 4)

	river, err := m.ProgressStage(turn, turn.Deck, rng)
	require.NoError(t, err)
	assert.Equal(t, River, river.Stage)
	assert.Len(t, river.PublicCards, 5)

	showdown, err := m.ProgressStage(river, river.Deck, rng)
	require.NoError(t, err)
	assert.Equal(t, Showdown, showdown.Stage)
	assert.Len(t, showdown.PublicCards, 5)
}

func TestResetForNewRoundIsIdempotent(t *testing.T) {
	_, s := newTestManager()
	s.Pot = 500
	s.StageBetCount = 2

	s.ResetForNewRound(false, 1000)
	first := s.Copy()
	s.ResetForNewRound(false, 1000)

	assert.Equal(t, first.Pot, s.Pot)
	assert.Equal(t, first.PlayerChips, s.PlayerChips)
	assert.Equal(t, 0, s.StageBetCount)
}

func TestResetForNewRoundRedistributesChips(t *testing.T) {
	_, s := newTestManager()
	s.PlayerChips[0] = 0
	s.ResetForNewRound(true, 1000)
	assert.Equal(t, 1000, s.PlayerChips[0])
}

func TestGetActionsWithNewStatesExpandsRaiseAmounts(t *testing.T) {
	m, s := newTestManager()
	children := m.GetActionsWithNewStates(s)

	raiseCount := 0
	for _, c := range children {
		if c.Action.Type == Raise {
			raiseCount++
		}
	}
	assert.Equal(t, 2, raiseCount)
}

func TestGetChildStatesDealerBranch(t *testing.T) {
	m, s := newTestManager()
	s.StateType = DealerState
	rng := rand.New(rand.NewSource(3))

	children, err := m.GetChildStates(s, 5, rng)
	require.NoError(t, err)
	assert.Len(t, children, 5)
	for _, c := range children {
		assert.Len(t, c.State.PublicCards, 3)
	}
}

func TestAgentActionIndexRoundTrips(t *testing.T) {
	allowed := [2]int{10, 20}
	for _, action := range AgentActions(allowed) {
		idx, err := AgentActionIndex(action, allowed)
		require.NoError(t, err)
		assert.Equal(t, AgentActions(allowed)[idx], action)
	}
}

func TestApplyAgentActionRejectsIllegalAsFold(t *testing.T) {
	m, s := newTestManager()

	// Put the current player behind a bet so CHECK is illegal.
	raised := m.ApplyAction(s, Action{Type: Raise, Amount: 10})
	require.NotContains(t, m.LegalActions(raised), Check)

	next := m.ApplyAgentAction(raised, Action{Type: Check})
	assert.False(t, next.PlayersInGame[raised.CurrentPlayer])
	assert.Equal(t, WinnerState, next.StateType)
}

func TestApplyAgentActionPassesLegalThrough(t *testing.T) {
	m, s := newTestManager()
	next := m.ApplyAgentAction(s, Action{Type: Check})
	assert.True(t, next.PlayerChecks[s.CurrentPlayer])
	assert.True(t, next.PlayersInGame[s.CurrentPlayer])
}
