package oracle

import (
	"context"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/lox/resolvecore/internal/deck"
	"github.com/lox/resolvecore/internal/evaluator"
)

// WinProbability estimates the agent's equity by drawing R completions of
// the remaining public cards and opponents' hole-pairs, uniformly without
// replacement from the remaining deck, and counting how often the agent's
// best 7-card hand strictly beats every opponent (a tie counts as a loss).
// Samples are fanned out across GOMAXPROCS workers with an errgroup and a
// weighted semaphore.
func WinProbability(rng *rand.Rand, hole []deck.Card, public []deck.Card, numPlayers, R int) float64 {
	if R <= 0 {
		return 0
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > R {
		workers = R
	}
	if workers < 1 {
		workers = 1
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, ctx := errgroup.WithContext(context.Background())

	wins := make([]int, R)
	seeds := make([]int64, R)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	for i := 0; i < R; i++ {
		i := i
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			workerRng := rand.New(rand.NewSource(seeds[i]))
			if rolloutWins(workerRng, hole, public, numPlayers) {
				wins[i] = 1
			}
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, w := range wins {
		total += w
	}
	return float64(total) / float64(R)
}

func rolloutWins(rng *rand.Rand, hole []deck.Card, public []deck.Card, numPlayers int) bool {
	d := deck.NewDeck()
	used := make([]deck.Card, 0, len(hole)+len(public))
	used = append(used, hole...)
	used = append(used, public...)
	d.RemoveCards(used)

	boardNeeded := 5 - len(public)
	completion, err := d.Draw(rng, boardNeeded)
	if err != nil {
		return false
	}
	board := append(append([]deck.Card{}, public...), completion...)

	heroHand := append(append([]deck.Card{}, hole...), board...)
	heroRank := evaluator.Evaluate(heroHand)

	for p := 1; p < numPlayers; p++ {
		oppHole, err := d.Draw(rng, 2)
		if err != nil {
			return false
		}
		oppHand := append(append([]deck.Card{}, oppHole...), board...)
		oppRank := evaluator.Evaluate(oppHand)
		if oppRank <= heroRank {
			return false
		}
	}
	return true
}
