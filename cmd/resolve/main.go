// Command resolve is a thin operator harness around the re-solving core:
// it loads configuration, builds a game state from flags, runs a single
// resolve call, and prints the sampled action. It also hosts the offline
// pre-flop cheat-sheet generator.
package main

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/lox/resolvecore/internal/coreconfig"
	"github.com/lox/resolvecore/internal/corelog"
	"github.com/lox/resolvecore/internal/deck"
	"github.com/lox/resolvecore/internal/evaluator"
	"github.com/lox/resolvecore/internal/oracle"
	"github.com/lox/resolvecore/internal/resolver"
	"github.com/lox/resolvecore/internal/state"
	"github.com/lox/resolvecore/internal/subtree"
	"github.com/lox/resolvecore/internal/valuenet"
)

var cli struct {
	Debug  bool   `help:"enable debug logging"`
	Config string `help:"path to HCL config file" default:"resolvecore.hcl"`

	Act        ActCmd        `cmd:"" help:"run one resolve call against a game state and print the action"`
	CheatSheet CheatSheetCmd `cmd:"" name:"cheatsheet" help:"generate the 169x5 pre-flop win-probability table"`
}

type ActCmd struct {
	Stage       string `help:"stage to resolve at (preflop|flop|turn|river)" enum:"preflop,flop,turn,river" default:"preflop"`
	Public      string `help:"public cards, e.g. Jh8h4h" default:""`
	Pot         int    `help:"current pot size" default:"0"`
	Stack       int    `help:"starting stack per player" default:"1000"`
	EndStage    string `help:"depth-limit stage" enum:"preflop,flop,turn,river,showdown" default:"river"`
	EndDepth    int    `help:"depth within the end stage to stop at" default:"1"`
	Iterations  int    `help:"rollout iterations T (0 uses config nbr_rollouts)" default:"0"`
	Checkpoints string `help:"value-network checkpoint root directory" default:"checkpoints"`
	Seed        int64  `help:"random seed; 0 uses time seed" default:"0"`
}

type CheatSheetCmd struct {
	Out      string `help:"path to write the flat binary table" required:""`
	Rollouts int    `help:"rollouts per cell" default:"1000"`
	Seed     int64  `help:"random seed; 0 uses time seed" default:"0"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("resolve"),
		kong.Description("continual re-solving harness"),
		kong.UsageOnError(),
	)

	if cli.Debug {
		corelog.SetLevel(zerolog.DebugLevel)
	}
	logger := corelog.Component("cli")

	cfg, err := coreconfig.LoadCoreConfig(cli.Config)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	switch ctx.Command() {
	case "act":
		if err := cli.Act.Run(cfg); err != nil {
			logger.Fatal().Err(err).Msg("resolve failed")
		}
	case "cheatsheet":
		if err := cli.CheatSheet.Run(); err != nil {
			logger.Fatal().Err(err).Msg("cheat sheet generation failed")
		}
	default:
		logger.Fatal().Msgf("unknown command: %s", ctx.Command())
	}
}

func parseStage(s string) state.Stage {
	switch s {
	case "preflop":
		return state.PreFlop
	case "flop":
		return state.Flop
	case "turn":
		return state.Turn
	case "river":
		return state.River
	default:
		return state.Showdown
	}
}

func seededRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func (cmd *ActCmd) Run(cfg *coreconfig.CoreConfig) error {
	public, err := evaluator.ParseCards(cmd.Public)
	if err != nil {
		return fmt.Errorf("parse public cards: %w", err)
	}

	s := state.NewGameState(2, cmd.Stack, cfg.BetPerStageLimit)
	s.Stage = parseStage(cmd.Stage)
	s.PublicCards = public
	s.Pot = cmd.Pot
	s.Deck.RemoveCards(public)

	values := valuenet.NewRegistry()
	if err := values.LoadCheckpoints(cmd.Checkpoints); err != nil {
		return err
	}

	iterations := cmd.Iterations
	if iterations == 0 {
		iterations = cfg.NbrRollouts
	}

	r := resolver.New(subtree.Config{
		AllowedRaises:       cfg.AllowedRaises(),
		AvgPotSize:          cfg.AvgPotSize,
		NbrRandomEvents:     cfg.NbrRandomEvents,
		NbrActionsInRollout: cfg.NbrActionsInRollout,
		BetPerStageLimit:    cfg.BetPerStageLimit,
	}, values)

	r1 := boardConsistentUniform(public)
	r2 := boardConsistentUniform(public)

	result, err := r.Resolve(s, r1, r2, parseStage(cmd.EndStage), cmd.EndDepth, iterations, seededRNG(cmd.Seed))
	if err != nil {
		return err
	}

	fmt.Printf("action: %s", result.Action.Type)
	if result.Action.Type == state.Raise || result.Action.Type == state.AllIn {
		fmt.Printf(" %d", result.Action.Amount)
	}
	fmt.Println()

	printTopRange("updated range", result.R1, 10)
	return nil
}

// boardConsistentUniform builds the uniform range with board-conflicting
// hole-pairs zeroed, then renormalised.
func boardConsistentUniform(public []deck.Card) []float64 {
	r := make([]float64, deck.NumHolePairs)
	var live int
	for h := range r {
		if !deck.SharesCard(h, public) {
			r[h] = 1
			live++
		}
	}
	if live == 0 {
		return r
	}
	for h := range r {
		r[h] /= float64(live)
	}
	return r
}

func printTopRange(label string, r []float64, n int) {
	type entry struct {
		idx  int
		mass float64
	}
	entries := make([]entry, 0, len(r))
	for h, mass := range r {
		if mass > 0 {
			entries = append(entries, entry{h, mass})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].mass > entries[j].mass })
	if len(entries) > n {
		entries = entries[:n]
	}

	fmt.Printf("%s (top %d):\n", label, len(entries))
	for _, e := range entries {
		c1, c2 := deck.HoleCardIDs(e.idx)
		fmt.Printf("  %s%s  %.5f\n", c1, c2, e.mass)
	}
}

func (cmd *CheatSheetCmd) Run() error {
	seed := cmd.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cs, err := oracle.GenerateCheatSheet(seed, cmd.Rollouts)
	if err != nil {
		return err
	}
	if err := oracle.SaveCheatSheet(cs, cmd.Out); err != nil {
		return err
	}
	fmt.Printf("wrote %dx%d cheat sheet to %s\n", oracle.NumHandTypes, oracle.NumOpponentColumns, cmd.Out)
	return nil
}
