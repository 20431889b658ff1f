// Package state implements the public game state and the legal-action,
// apply-action and stage-progression rules of two-raise limit hold'em.
package state

import "github.com/lox/resolvecore/internal/deck"

// Stage is the betting round the state belongs to.
type Stage int

const (
	PreFlop Stage = iota
	Flop
	Turn
	River
	Showdown
)

// String renders a stage for logging.
func (s Stage) String() string {
	switch s {
	case PreFlop:
		return "PRE_FLOP"
	case Flop:
		return "FLOP"
	case Turn:
		return "TURN"
	case River:
		return "RIVER"
	case Showdown:
		return "SHOWDOWN"
	default:
		return "UNKNOWN"
	}
}

// GameStateType classifies who acts next at a node: a human or resolving
// player, the dealer (chance event), or a determined winner.
type GameStateType int

const (
	PlayerState GameStateType = iota
	DealerState
	WinnerState
)

// GameState is the public state of a hand in progress: every field here is
// visible to both players, with private hole cards tracked only as range
// vectors outside this struct.
type GameState struct {
	Stage             Stage
	CurrentPlayer     int
	PlayerBets        []int
	PlayerChips       []int
	PlayerChecks      []bool
	PlayersInGame     []bool
	PlayersAllIn      []bool
	Pot               int
	BetToMatch        int
	PublicCards       []deck.Card
	Deck              *deck.Deck
	StateType         GameStateType
	WinnerIndex       int
	StageBetCount     int
	BetPerStageLimit  int
}

// NewGameState builds the initial pre-flop state for numPlayers players,
// each starting with startChips and a fresh, full deck.
func NewGameState(numPlayers, startChips, betPerStageLimit int) *GameState {
	s := &GameState{
		Stage:            PreFlop,
		PlayerBets:       make([]int, numPlayers),
		PlayerChips:      make([]int, numPlayers),
		PlayerChecks:     make([]bool, numPlayers),
		PlayersInGame:    make([]bool, numPlayers),
		PlayersAllIn:     make([]bool, numPlayers),
		PublicCards:      nil,
		Deck:             deck.NewDeck(),
		StateType:        PlayerState,
		WinnerIndex:      -1,
		BetPerStageLimit: betPerStageLimit,
	}
	for i := 0; i < numPlayers; i++ {
		s.PlayerChips[i] = startChips
		s.PlayersInGame[i] = true
	}
	return s
}

// Copy returns an independent deep copy. Every mutating
// operation in this package copies before writing, so the caller's state
// is never observed to change out from under it.
func (s *GameState) Copy() *GameState {
	c := *s
	c.PlayerBets = append([]int(nil), s.PlayerBets...)
	c.PlayerChips = append([]int(nil), s.PlayerChips...)
	c.PlayerChecks = append([]bool(nil), s.PlayerChecks...)
	c.PlayersInGame = append([]bool(nil), s.PlayersInGame...)
	c.PlayersAllIn = append([]bool(nil), s.PlayersAllIn...)
	c.PublicCards = append([]deck.Card(nil), s.PublicCards...)
	if s.Deck != nil {
		c.Deck = s.Deck.Copy()
	}
	return &c
}

// IncrementPlayerIndex advances CurrentPlayer to the next seat, wrapping
// around the table.
func (s *GameState) IncrementPlayerIndex() {
	s.CurrentPlayer = (s.CurrentPlayer + 1) % len(s.PlayerBets)
}

// ResetForNewRound clears betting state and deals a fresh deck for a new
// hand. When redistributeChips is true every player's stack is reset to
// startChips, for training episodes that restart from level stacks.
func (s *GameState) ResetForNewRound(redistributeChips bool, startChips int) {
	n := len(s.PlayerBets)
	s.Pot = 0
	s.BetToMatch = 0
	s.PlayerBets = make([]int, n)
	s.PlayerChecks = make([]bool, n)
	s.PlayersInGame = make([]bool, n)
	s.PlayersAllIn = make([]bool, n)
	for i := 0; i < n; i++ {
		s.PlayersInGame[i] = true
	}
	s.Deck = deck.NewDeck()
	s.Stage = PreFlop
	s.PublicCards = nil
	s.StateType = PlayerState
	s.StageBetCount = 0
	s.WinnerIndex = -1

	if redistributeChips {
		s.PlayerChips = make([]int, n)
		for i := 0; i < n; i++ {
			s.PlayerChips[i] = startChips
		}
	}
}
