package subtree

import (
	"math/rand"

	"github.com/lox/resolvecore/internal/deck"
	"github.com/lox/resolvecore/internal/oracle"
	"github.com/lox/resolvecore/internal/state"
	"github.com/lox/resolvecore/internal/valuenet"
)

// Config holds the tunables the subtree builder consumes.
type Config struct {
	AllowedRaises       [2]int
	AvgPotSize          int
	NbrRandomEvents     int
	NbrActionsInRollout int
	BetPerStageLimit    int
}

// Manager builds and rolls out the public re-solving tree rooted at a game
// state. One Manager is constructed per resolve call and owns
// every node it creates; nothing about it is shared across resolve calls.
type Manager struct {
	Root            *Node
	endStage        state.Stage
	endDepth        int
	rootPlayerIndex int
	cfg             Config
	stateManager    *state.Manager
	values          *valuenet.Registry
	rng             *rand.Rand
}

// NewManager constructs the initial subtree for state: computes the root's
// utility matrix on its concrete public board, then fully expands one
// level of children.
func NewManager(s *state.GameState, endStage state.Stage, endDepth int, strategy Strategy, cfg Config, values *valuenet.Registry, rng *rand.Rand) (*Manager, error) {
	utility := oracle.ComputeUtilityMatrix(s.PublicCards)
	root := newNode(s, 0, PlayerNode, strategy, newZeroStrategy(), [2][]float64{make([]float64, deck.NumHolePairs), make([]float64, deck.NumHolePairs)}, utility)

	m := &Manager{
		Root:            root,
		endStage:        endStage,
		endDepth:        endDepth,
		rootPlayerIndex: s.CurrentPlayer,
		cfg:             cfg,
		stateManager:    state.NewManager(cfg.AllowedRaises),
		values:          values,
		rng:             rng,
	}

	if err := m.generateChildren(root, -1); err != nil {
		return nil, err
	}
	return m, nil
}

// classify determines a child node's NodeType from the state it was built
// from.
func (m *Manager) classify(parent *Node, childState *state.GameState, depth int) NodeType {
	switch {
	case childState.Stage == state.Showdown:
		return ShowdownNode
	case childState.StateType == state.WinnerState:
		return WonNode
	case int(childState.Stage) > int(m.endStage) || (childState.Stage == m.endStage && depth == m.endDepth):
		return TerminalNode
	case childState.StateType == state.DealerState:
		return ChanceNode
	default:
		return PlayerNode
	}
}

// generateChildren adds children to node based on its state, deferring to
// the state manager for legal (action, state) pairs at PLAYER nodes and
// NbrRandomEvents sampled progressions at DEALER nodes. actionLimit caps
// how many shuffled player actions this call considers (-1 means
// unlimited); actions that already have a child count toward the cap and
// are skipped, so fewer than actionLimit new children may be appended.
// Chance-node expansion is always unlimited.
func (m *Manager) generateChildren(node *Node, actionLimit int) error {
	if node.Type == ShowdownNode || node.Type == TerminalNode || node.Type == WonNode {
		return nil
	}

	childStates, err := m.stateManager.GetChildStates(node.State, m.cfg.NbrRandomEvents, m.rng)
	if err != nil {
		return err
	}
	m.rng.Shuffle(len(childStates), func(i, j int) {
		childStates[i], childStates[j] = childStates[j], childStates[i]
	})

	nbrActions := 0
	for _, cs := range childStates {
		if cs.Action != nil && actionLimit != -1 {
			if nbrActions >= actionLimit {
				break
			}
			nbrActions++
		}
		if cs.Action != nil && m.hasChildAction(node, *cs.Action) {
			continue
		}

		depth := node.Depth
		if node.Stage == cs.State.Stage {
			depth++
		} else {
			depth = 0
		}

		nodeType := m.classify(node, cs.State, depth)
		utility := node.UtilityMatrix
		if nodeType == TerminalNode || nodeType == ChanceNode {
			utility = oracle.ComputeUtilityMatrix(cs.State.PublicCards)
		}

		child := newNode(cs.State, depth, nodeType, node.Strategy, cloneStrategy(node.Regrets), cloneValues(node.Values), utility)
		node.Children = append(node.Children, Child{Action: cs.Action, Node: child})
	}
	return nil
}

func (m *Manager) hasChildAction(node *Node, action state.Action) bool {
	for _, c := range node.Children {
		if c.Action != nil && *c.Action == action {
			return true
		}
	}
	return false
}

func avgPotScale(pot, avgPotSize int) float64 {
	if avgPotSize <= 0 {
		return 1
	}
	return float64(pot) / float64(avgPotSize)
}

// SubtreeTraversalRollout computes bottom-up counterfactual values for
// node given input ranges r1, r2, storing the result on node.Values and
// returning it.
func (m *Manager) SubtreeTraversalRollout(node *Node, r1, r2 []float64) (v1, v2 []float64, err error) {
	v1 = make([]float64, len(r1))
	v2 = make([]float64, len(r2))

	switch node.Type {
	case ShowdownNode:
		scale := avgPotScale(node.State.Pot, m.cfg.AvgPotSize)
		for h := 0; h < deck.NumHolePairs; h++ {
			var dot float64
			for j := 0; j < deck.NumHolePairs; j++ {
				dot += float64(node.UtilityMatrix.At(h, j)) * r2[j]
			}
			v1[h] = dot * scale
		}
		for h := 0; h < deck.NumHolePairs; h++ {
			var dot float64
			for j := 0; j < deck.NumHolePairs; j++ {
				dot += r1[j] * float64(node.UtilityMatrix.At(j, h))
			}
			v2[h] = -dot * scale
		}

	case WonNode:
		scale := avgPotScale(node.State.Pot, m.cfg.AvgPotSize)
		sign := 1.0
		if node.State.WinnerIndex != node.State.CurrentPlayer {
			sign = -1.0
		}
		for h := range v1 {
			v1[h] = sign * scale
			v2[h] = -sign * scale
		}

	case TerminalNode:
		predictor := m.values.Get(node.Stage)
		v1, v2 = predictor.Predict(r1, r2, node.State.PublicCards, node.State.Pot)

	case PlayerNode:
		playerIndex := (node.State.CurrentPlayer + m.rootPlayerIndex) % 2
		ranges := [2][]float64{r1, r2}
		rP := ranges[playerIndex]
		rO := ranges[1-playerIndex]

		if err := m.generateChildren(node, m.cfg.NbrActionsInRollout); err != nil {
			return nil, nil, err
		}

		start := len(node.Children) - m.cfg.NbrActionsInRollout
		if start < 0 {
			start = 0
		}
		for _, child := range node.Children[start:] {
			a, err := state.AgentActionIndex(*child.Action, m.cfg.AllowedRaises)
			if err != nil {
				return nil, nil, err
			}
			rPA := BayesianRangeUpdate(rP, node.Strategy, a)
			rOA := rO

			actionRanges := [2][]float64{rPA, rOA}
			r1A := actionRanges[playerIndex]
			r2A := actionRanges[1-playerIndex]

			v1A, v2A, err := m.SubtreeTraversalRollout(child.Node, r1A, r2A)
			if err != nil {
				return nil, nil, err
			}
			for h := 0; h < deck.NumHolePairs; h++ {
				v1[h] += node.Strategy[h][a] * v1A[h]
				v2[h] += node.Strategy[h][a] * v2A[h]
			}
		}

	case ChanceNode:
		if err := m.generateChildren(node, -1); err != nil {
			return nil, nil, err
		}
		s := len(node.Children)
		if s == 0 {
			break
		}
		for _, child := range node.Children {
			r1e := UpdateRangeFromPublicCards(r1, node.State.PublicCards)
			r2e := UpdateRangeFromPublicCards(r2, node.State.PublicCards)

			v1e, v2e, err := m.SubtreeTraversalRollout(child.Node, r1e, r2e)
			if err != nil {
				return nil, nil, err
			}
			for h := 0; h < deck.NumHolePairs; h++ {
				v1[h] += v1e[h]
				v2[h] += v2e[h]
			}
		}
		for h := 0; h < deck.NumHolePairs; h++ {
			v1[h] /= float64(s)
			v2[h] /= float64(s)
		}
	}

	node.Values = [2][]float64{v1, v2}
	return v1, v2, nil
}

// regretPlus clamps negative regrets to zero, the CFR+ positive-regret
// projection.
func regretPlus(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// UpdateStrategyAtNode performs the CFR+ regret-matching update in
// post-order: every PLAYER node's regrets are incremented by the
// value each action's child would have delivered relative to the node's
// realised value, then the strategy row is renormalised from positive
// regrets (uniform if the row sums to zero).
func (m *Manager) UpdateStrategyAtNode(node *Node) Strategy {
	for _, child := range node.Children {
		m.UpdateStrategyAtNode(child.Node)
	}
	if node.Type != PlayerNode {
		return nil
	}

	playerIndex := (node.State.CurrentPlayer + m.rootPlayerIndex) % 2
	for h := 0; h < deck.NumHolePairs; h++ {
		nodeValue := node.Values[playerIndex][h]
		for _, child := range node.Children {
			a, err := state.AgentActionIndex(*child.Action, m.cfg.AllowedRaises)
			if err != nil {
				continue
			}
			childValue := child.Node.Values[playerIndex][h]
			node.Regrets[h][a] += childValue - nodeValue
		}
	}

	strategy := make(Strategy, deck.NumHolePairs)
	for h := 0; h < deck.NumHolePairs; h++ {
		var sum float64
		var plus [NumActions]float64
		for a := 0; a < NumActions; a++ {
			plus[a] = regretPlus(node.Regrets[h][a])
			sum += plus[a]
		}
		if sum == 0 {
			for a := 0; a < NumActions; a++ {
				strategy[h][a] = 1.0 / float64(NumActions)
			}
			continue
		}
		for a := 0; a < NumActions; a++ {
			strategy[h][a] = plus[a] / sum
		}
	}
	node.Strategy = strategy
	return strategy
}
