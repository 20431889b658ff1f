package state

import "fmt"

// ActionType is one of the five legal moves a player can make at a PLAYER
// state.
type ActionType int

const (
	Fold ActionType = iota
	Call
	Check
	AllIn
	Raise
)

// String renders an action type for logging.
func (t ActionType) String() string {
	switch t {
	case Fold:
		return "FOLD"
	case Call:
		return "CALL"
	case Check:
		return "CHECK"
	case AllIn:
		return "ALL_IN"
	case Raise:
		return "RAISE"
	default:
		return "UNKNOWN"
	}
}

// Action is a single player move, carrying the chip amount for RAISE (one
// of the two ALLOWED_RAISES values) and the all-in stake for ALL_IN.
type Action struct {
	Type   ActionType
	Amount int
}

// AgentActions is the fixed 6-entry action space the resolver's strategy
// vectors are indexed over: FOLD, CALL, CHECK, ALL_IN, then one
// RAISE entry per allowed raise size.
func AgentActions(allowedRaises [2]int) []Action {
	return []Action{
		{Type: Fold},
		{Type: Call},
		{Type: Check},
		{Type: AllIn},
		{Type: Raise, Amount: allowedRaises[0]},
		{Type: Raise, Amount: allowedRaises[1]},
	}
}

// AgentActionIndex returns the index of action within AgentActions(allowedRaises),
// the fixed ordering the resolver's regret and strategy tables are keyed on.
func AgentActionIndex(action Action, allowedRaises [2]int) (int, error) {
	switch action.Type {
	case Fold:
		return 0, nil
	case Call:
		return 1, nil
	case Check:
		return 2, nil
	case AllIn:
		return 3, nil
	case Raise:
		for i, amount := range allowedRaises {
			if amount == action.Amount {
				return 4 + i, nil
			}
		}
		return -1, fmt.Errorf("state: invalid raise amount %d", action.Amount)
	default:
		return -1, fmt.Errorf("state: unknown action type %d", action.Type)
	}
}
