package state

import (
	"math/rand"

	"github.com/lox/resolvecore/internal/corelog"
	"github.com/lox/resolvecore/internal/deck"
)

var logger = corelog.Component("state")

// ChildState pairs the action that produced a state with the resulting
// state, the unit GetChildStates and GetActionsWithNewStates return.
// Action is nil for a DEALER child, which is reached by a chance sample
// rather than a player decision.
type ChildState struct {
	Action *Action
	State  *GameState
}

// Manager applies the betting and stage-progression rules shared by every
// caller of the public tree: the resolver's subtree builder, an interactive
// game loop, and training-data generation all drive a hand through the same
// Manager rather than duplicating the rules.
type Manager struct {
	AllowedRaises [2]int
}

// NewManager constructs a Manager configured with the two fixed raise
// amounts derived from the blinds.
func NewManager(allowedRaises [2]int) *Manager {
	return &Manager{AllowedRaises: allowedRaises}
}

// CanAffordBet reports whether the given player's stack covers amount.
func (m *Manager) CanAffordBet(s *GameState, playerIndex, amount int) bool {
	return s.PlayerChips[playerIndex] >= amount
}

// LegalActions returns the legal action types for the current player at a
// PLAYER state.
func (m *Manager) LegalActions(s *GameState) []ActionType {
	actions := []ActionType{Fold}

	betToMatch := 0
	for _, b := range s.PlayerBets {
		if b > betToMatch {
			betToMatch = b
		}
	}
	playerBet := s.PlayerBets[s.CurrentPlayer]
	diff := betToMatch - playerBet
	if diff < 0 {
		diff = 0
	}
	canAffordCall := m.CanAffordBet(s, s.CurrentPlayer, diff)
	allIn := s.PlayersAllIn[s.CurrentPlayer]

	if diff == 0 || allIn {
		actions = append(actions, Check)
	}
	if diff > 0 && canAffordCall && !s.PlayerChecks[s.CurrentPlayer] {
		actions = append(actions, Call)
	}

	canAffordRaise := m.CanAffordBet(s, s.CurrentPlayer, diff+1)
	if canAffordRaise && s.StageBetCount < s.BetPerStageLimit {
		actions = append(actions, Raise)
	}
	if s.PlayerChips[s.CurrentPlayer] > 0 && s.StageBetCount < s.BetPerStageLimit {
		actions = append(actions, AllIn)
	}

	return actions
}

// betAmount deducts amount from playerIndex's stack and commits it to the
// pot, raising BetToMatch if the new total bet exceeds it.
func (m *Manager) betAmount(s *GameState, playerIndex, amount int) *GameState {
	c := s.Copy()
	c.PlayerChips[playerIndex] -= amount
	c.PlayerBets[playerIndex] += amount
	c.Pot += amount
	if c.PlayerBets[playerIndex] > c.BetToMatch {
		c.BetToMatch = c.PlayerBets[playerIndex]
	}
	return c
}

// ApplyAction returns the state resulting from the current player taking
// action: FOLD/CALL/CHECK/RAISE/ALL_IN update chips, pot, and per-player
// flags; only RAISE and ALL_IN increment StageBetCount; the state then
// transitions to DEALER once every player still in the hand has checked,
// or to WINNER if only one player remains.
func (m *Manager) ApplyAction(s *GameState, action Action) *GameState {
	c := s.Copy()
	potRaised := false
	actor := c.CurrentPlayer

	switch action.Type {
	case Fold:
		c.PlayersInGame[actor] = false
		c.PlayerChecks[actor] = false

	case Call:
		diff := c.BetToMatch - c.PlayerBets[actor]
		if diff < 0 {
			diff = 0
		}
		if m.CanAffordBet(c, actor, diff) {
			c = m.betAmount(c, actor, diff)
			c.PlayerChecks[actor] = true
		}

	case Check:
		c.PlayerChecks[actor] = true

	case Raise:
		diff := c.BetToMatch - c.PlayerBets[actor]
		if diff < 0 {
			diff = 0
		}
		total := diff + action.Amount
		if m.CanAffordBet(c, actor, total) {
			c = m.betAmount(c, actor, total)
			potRaised = true
		}

	case AllIn:
		amount := c.PlayerChips[actor]
		c = m.betAmount(c, actor, amount)
		c.PlayerChecks[actor] = false
		c.PlayersAllIn[actor] = true
		potRaised = true
	}

	if potRaised {
		for i := range c.PlayerChecks {
			c.PlayerChecks[i] = false
		}
		c.PlayerChecks[actor] = true
		c.StageBetCount++
	}

	if allChecksMatchInGame(c) {
		c.StateType = DealerState
	}
	if remaining := countInGame(c); remaining == 1 {
		c.StateType = WinnerState
		c.WinnerIndex = soleRemainingPlayer(c)
	}

	c.IncrementPlayerIndex()
	return c
}

// ApplyAgentAction is the agent-facing variant of ApplyAction: an action
// whose type is not currently legal is rejected and applied as FOLD
// instead, with a warning. The subtree builder bypasses this check
// since it only ever applies actions enumerated by LegalActions.
func (m *Manager) ApplyAgentAction(s *GameState, action Action) *GameState {
	legal := false
	for _, t := range m.LegalActions(s) {
		if t == action.Type {
			legal = true
			break
		}
	}
	if !legal {
		logger.Warn().
			Stringer("action", action.Type).
			Int("player", s.CurrentPlayer).
			Msg("illegal action from agent, treating as fold")
		action = Action{Type: Fold}
	}
	return m.ApplyAction(s, action)
}

func allChecksMatchInGame(s *GameState) bool {
	for i := range s.PlayersInGame {
		if s.PlayerChecks[i] != s.PlayersInGame[i] {
			return false
		}
	}
	return true
}

func countInGame(s *GameState) int {
	n := 0
	for _, in := range s.PlayersInGame {
		if in {
			n++
		}
	}
	return n
}

func soleRemainingPlayer(s *GameState) int {
	for i, in := range s.PlayersInGame {
		if in {
			return i
		}
	}
	return -1
}

// ProgressStage deals the next stage's public cards from deck and resets
// per-stage betting state: PRE_FLOP deals 3
// cards, FLOP and TURN each deal 1, RIVER deals none and the state becomes
// SHOWDOWN.
func (m *Manager) ProgressStage(s *GameState, d *deck.Deck, rng *rand.Rand) (*GameState, error) {
	c := s.Copy()
	for i := range c.PlayerChecks {
		c.PlayerChecks[i] = false
	}
	c.PlayerChecks[c.CurrentPlayer] = true
	c.StateType = PlayerState
	c.StageBetCount = 0

	var n int
	switch c.Stage {
	case PreFlop:
		c.Stage = Flop
		n = 3
	case Flop:
		c.Stage = Turn
		n = 1
	case Turn:
		c.Stage = River
		n = 1
	case River:
		c.Stage = Showdown
		n = 0
	}

	if n > 0 {
		drawn, err := d.Draw(rng, n)
		if err != nil {
			return nil, err
		}
		c.PublicCards = append(c.PublicCards, drawn...)
	}
	c.Deck = d
	return c, nil
}

// GetChildStates enumerates every child of s: at a PLAYER state, every
// legal (action, resulting state) pair; at a DEALER state,
// nbrRandomEvents independently-sampled stage progressions, each dealt
// from a fresh deck with the already-public cards removed (chance
// sampling). A WINNER or SHOWDOWN state has no children.
func (m *Manager) GetChildStates(s *GameState, nbrRandomEvents int, rng *rand.Rand) ([]ChildState, error) {
	switch s.StateType {
	case PlayerState:
		return m.GetActionsWithNewStates(s), nil
	case DealerState:
		children := make([]ChildState, 0, nbrRandomEvents)
		for i := 0; i < nbrRandomEvents; i++ {
			c := s.Copy()
			d := deck.NewDeck()
			d.RemoveCards(c.PublicCards)
			next, err := m.ProgressStage(c, d, rng)
			if err != nil {
				return nil, err
			}
			children = append(children, ChildState{State: next})
		}
		return children, nil
	default:
		return nil, nil
	}
}

// GetActionsWithNewStates enumerates every legal (action, resulting state)
// pair at a PLAYER state: RAISE expands to one entry per allowed raise
// size, ALL_IN is parameterised by the current player's remaining chips.
func (m *Manager) GetActionsWithNewStates(s *GameState) []ChildState {
	base := s.Copy()
	types := m.LegalActions(base)

	var result []ChildState
	for _, t := range types {
		amounts := []int{0}
		switch t {
		case Raise:
			amounts = []int{m.AllowedRaises[0], m.AllowedRaises[1]}
		case AllIn:
			amounts = []int{base.PlayerChips[base.CurrentPlayer]}
		}

		for _, amount := range amounts {
			if !m.CanAffordBet(base, base.CurrentPlayer, amount) {
				continue
			}
			action := Action{Type: t, Amount: amount}
			result = append(result, ChildState{Action: &action, State: m.ApplyAction(base, action)})
		}
	}
	return result
}
