// Package subtree builds and traverses the public re-solving tree: node
// classification, bottom-up counterfactual value rollouts, and post-order
// CFR+ regret-matching strategy updates.
package subtree

import (
	"github.com/lox/resolvecore/internal/deck"
	"github.com/lox/resolvecore/internal/oracle"
	"github.com/lox/resolvecore/internal/state"
)

// NumActions is the width of every per-hole-pair strategy/regret row: the
// fixed AgentActions action space (FOLD, CALL, CHECK, ALL_IN, RAISE×2).
const NumActions = 6

// NodeType classifies a subtree node.
type NodeType int

const (
	PlayerNode NodeType = iota
	ChanceNode
	ShowdownNode
	TerminalNode
	WonNode
)

// String renders a node type for logging.
func (t NodeType) String() string {
	switch t {
	case PlayerNode:
		return "PLAYER"
	case ChanceNode:
		return "CHANCE"
	case ShowdownNode:
		return "SHOWDOWN"
	case TerminalNode:
		return "TERMINAL"
	case WonNode:
		return "WON"
	default:
		return "UNKNOWN"
	}
}

// Strategy is a per-hole-pair probability distribution over AgentActions,
// one row per of the 1326 hole-pairs, each row summing to 1.
type Strategy [][NumActions]float64

// NewUniformStrategy returns the all-actions-equally-likely strategy that
// seeds a fresh Manager.
func NewUniformStrategy() Strategy {
	s := make(Strategy, deck.NumHolePairs)
	for h := range s {
		for a := 0; a < NumActions; a++ {
			s[h][a] = 1.0 / float64(NumActions)
		}
	}
	return s
}

func newZeroStrategy() Strategy {
	return make(Strategy, deck.NumHolePairs)
}

// Child pairs the action that produced a node with the node itself. Action
// is nil for a CHANCE node's children, which are reached by sampling
// rather than a player decision.
type Child struct {
	Action *state.Action
	Node   *Node
}

// Node is one vertex of the public re-solving tree.
type Node struct {
	Stage         state.Stage
	State         *state.GameState
	Depth         int
	Type          NodeType
	Strategy      Strategy
	UtilityMatrix *oracle.UtilityMatrix
	Regrets       Strategy
	Values        [2][]float64
	Children      []Child
}

// newNode builds a node. A freshly created child inherits copies of its
// parent's regrets and values at expansion time rather than zeros. The
// inherited values are replaced by the child's next traversal rollout; the
// inherited regrets stay as the baseline that later strategy updates add
// to.
func newNode(s *state.GameState, depth int, nodeType NodeType, strategy, regrets Strategy, values [2][]float64, utility *oracle.UtilityMatrix) *Node {
	return &Node{
		Stage:         s.Stage,
		State:         s,
		Depth:         depth,
		Type:          nodeType,
		Strategy:      strategy,
		UtilityMatrix: utility,
		Regrets:       regrets,
		Values:        values,
	}
}

func cloneStrategy(s Strategy) Strategy {
	c := make(Strategy, len(s))
	copy(c, s)
	return c
}

func cloneValues(v [2][]float64) [2][]float64 {
	return [2][]float64{
		append([]float64(nil), v[0]...),
		append([]float64(nil), v[1]...),
	}
}
