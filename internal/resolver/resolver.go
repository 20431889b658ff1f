// Package resolver implements the continual re-solving loop: construct a
// subtree, run T rollout/strategy-update iterations, average the root
// strategy, sample an action weighted by the acting player's range, and
// return the updated ranges.
package resolver

import (
	"fmt"
	"math/rand"

	"github.com/lox/resolvecore/internal/corelog"
	"github.com/lox/resolvecore/internal/deck"
	"github.com/lox/resolvecore/internal/state"
	"github.com/lox/resolvecore/internal/subtree"
	"github.com/lox/resolvecore/internal/valuenet"
)

var logger = corelog.Component("resolver")

// Resolver runs the continual re-solving procedure against a game state.
type Resolver struct {
	Config subtree.Config
	Values *valuenet.Registry
}

// New constructs a Resolver sharing one value-network registry and
// subtree configuration across every resolve call.
func New(cfg subtree.Config, values *valuenet.Registry) *Resolver {
	return &Resolver{Config: cfg, Values: values}
}

// Result is the resolver's output: the sampled action, the acting
// player's updated range, the opponent's range (unchanged unless the
// caller applies its own update), and the acting player's mean strategy
// for the opponent to use as its next opponent model.
type Result struct {
	Action        state.Action
	R1            []float64
	R2            []float64
	OpponentModel subtree.Strategy
}

// Resolve runs the T-iteration continual re-solving procedure rooted at
// state and returns the sampled action plus updated ranges.
func (r *Resolver) Resolve(s *state.GameState, r1, r2 []float64, endStage state.Stage, endDepth, iterations int, rng *rand.Rand) (*Result, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("resolver: iterations must be positive, got %d", iterations)
	}
	if len(r1) != deck.NumHolePairs || len(r2) != deck.NumHolePairs {
		return nil, fmt.Errorf("resolver: ranges must have length %d", deck.NumHolePairs)
	}

	r1 = append([]float64(nil), r1...)
	r2 = append([]float64(nil), r2...)
	s = s.Copy()

	tree, err := subtree.NewManager(s, endStage, endDepth, subtree.NewUniformStrategy(), r.Config, r.Values, rng)
	if err != nil {
		return nil, fmt.Errorf("resolver: build subtree: %w", err)
	}

	logger.Debug().
		Stringer("stage", s.Stage).
		Int("pot", s.Pot).
		Int("iterations", iterations).
		Msg("resolve started")

	sum := make(subtree.Strategy, deck.NumHolePairs)
	for t := 0; t < iterations; t++ {
		if _, _, err := tree.SubtreeTraversalRollout(tree.Root, r1, r2); err != nil {
			return nil, fmt.Errorf("resolver: traversal rollout %d: %w", t, err)
		}
		logger.Debug().Int("iteration", t).Msg("rollout complete")
		iterStrategy := tree.UpdateStrategyAtNode(tree.Root)
		for h := 0; h < deck.NumHolePairs; h++ {
			for a := 0; a < subtree.NumActions; a++ {
				sum[h][a] += iterStrategy[h][a]
			}
		}
	}

	meanStrategy := make(subtree.Strategy, deck.NumHolePairs)
	for h := 0; h < deck.NumHolePairs; h++ {
		for a := 0; a < subtree.NumActions; a++ {
			meanStrategy[h][a] = sum[h][a] / float64(iterations)
		}
	}

	actionIndex, err := sampleAction(r1, meanStrategy, rng)
	if err != nil {
		return nil, fmt.Errorf("resolver: sample action: %w", err)
	}

	r1Updated := subtree.BayesianRangeUpdate(r1, meanStrategy, actionIndex)
	action := state.AgentActions(r.Config.AllowedRaises)[actionIndex]

	logger.Debug().
		Stringer("action", action.Type).
		Int("amount", action.Amount).
		Msg("resolve finished")

	return &Result{
		Action:        action,
		R1:            r1Updated,
		R2:            r2,
		OpponentModel: meanStrategy,
	}, nil
}

// sampleAction computes action probabilities as r1 · meanStrategy,
// renormalises, and samples an index weighted by those probabilities. A
// degenerate (all-zero) distribution falls back to uniform.
func sampleAction(r1 []float64, meanStrategy subtree.Strategy, rng *rand.Rand) (int, error) {
	var probs [subtree.NumActions]float64
	var total float64
	for a := 0; a < subtree.NumActions; a++ {
		for h := 0; h < deck.NumHolePairs; h++ {
			probs[a] += r1[h] * meanStrategy[h][a]
		}
		total += probs[a]
	}

	if total <= 0 {
		logger.Warn().Msg("zero action distribution at root, falling back to uniform")
		for a := range probs {
			probs[a] = 1.0 / float64(subtree.NumActions)
		}
		total = 1
	}

	target := rng.Float64() * total
	var cumulative float64
	for a := 0; a < subtree.NumActions; a++ {
		cumulative += probs[a]
		if target < cumulative {
			return a, nil
		}
	}
	return subtree.NumActions - 1, nil
}
