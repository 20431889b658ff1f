// Package valuenet is the value-network adapter: a stage-indexed registry
// of predictors queried at depth-limited subtree nodes, with
// newest-snapshot-wins checkpoint loading.
package valuenet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lox/resolvecore/internal/corelog"
	"github.com/lox/resolvecore/internal/deck"
	"github.com/lox/resolvecore/internal/state"
)

var logger = corelog.Component("valuenet")

// Predictor maps a terminal node's public information and both players'
// ranges onto counterfactual value vectors. Implementations enforce the
// zero-sum consistency r1·v1 + r2·v2 ≈ dotSum during training; at
// inference only (v1, v2) are consumed.
type Predictor interface {
	Predict(r1, r2 []float64, publicCards []deck.Card, pot int) (v1, v2 []float64)
}

// zeroPredictor is the graceful-degradation fallback: the resolver still
// converges when a stage has no trained network, just less sharply.
type zeroPredictor struct{}

func (zeroPredictor) Predict(r1, r2 []float64, _ []deck.Card, _ int) (v1, v2 []float64) {
	return make([]float64, len(r1)), make([]float64, len(r2))
}

// Registry holds one predictor per stage that can produce a depth-limited
// node (FLOP, TURN, RIVER; PRE_FLOP optional).
type Registry struct {
	predictors map[state.Stage]Predictor
}

// NewRegistry builds a registry where every stage initially falls back to
// the zero predictor; LoadCheckpoints replaces entries with trained
// snapshots where available.
func NewRegistry() *Registry {
	r := &Registry{predictors: make(map[state.Stage]Predictor)}
	for _, s := range []state.Stage{state.PreFlop, state.Flop, state.Turn, state.River} {
		r.predictors[s] = zeroPredictor{}
	}
	return r
}

// Get returns the predictor registered for stage, or the zero predictor if
// none was loaded.
func (r *Registry) Get(stage state.Stage) Predictor {
	if p, ok := r.predictors[stage]; ok {
		return p
	}
	return zeroPredictor{}
}

// Set installs a predictor for a stage, used by tests and by LoadCheckpoints.
func (r *Registry) Set(stage state.Stage, p Predictor) {
	r.predictors[stage] = p
}

// checkpoint is the on-disk snapshot format for a single stage's trained
// network: a flat weight vector is enough to express the linear value
// model below, which is what this core ships without an external tensor
// runtime.
type checkpoint struct {
	Version int       `json:"version"`
	Stage   string    `json:"stage"`
	Bias1   []float64 `json:"bias1"`
	Bias2   []float64 `json:"bias2"`
}

// linearPredictor is a minimal trained predictor: per-hole-pair additive
// biases layered onto the ranges, learned offline and persisted as a
// checkpoint. It exists so LoadCheckpoints has a concrete non-zero
// predictor to install; the training procedure that produces these
// checkpoints is out of scope here.
type linearPredictor struct {
	bias1, bias2 []float64
}

func (p *linearPredictor) Predict(r1, r2 []float64, _ []deck.Card, _ int) (v1, v2 []float64) {
	v1 = make([]float64, len(r1))
	v2 = make([]float64, len(r2))
	for h := range r1 {
		v1[h] = r1[h] + p.bias1[h%len(p.bias1)]
	}
	for h := range r2 {
		v2[h] = -r2[h] + p.bias2[h%len(p.bias2)]
	}
	return v1, v2
}

// LoadCheckpoints scans root/<stage>/ for the newest *.json checkpoint per
// stage (by ModTime) and installs a linearPredictor for every stage where
// one is found. Stages with no
// checkpoint keep the zero predictor. A missing root directory is not an
// error — it is the common case before any training has run.
func (r *Registry) LoadCheckpoints(root string) error {
	for _, stage := range []state.Stage{state.PreFlop, state.Flop, state.Turn, state.River} {
		dir := filepath.Join(root, stageDirName(stage))
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			logger.Warn().Stringer("stage", stage).Str("dir", dir).Msg("no checkpoint directory, using zero predictor")
			continue
		}
		if err != nil {
			return fmt.Errorf("valuenet: read %s: %w", dir, err)
		}

		path, ok := newestJSON(dir, entries)
		if !ok {
			logger.Warn().Stringer("stage", stage).Str("dir", dir).Msg("no checkpoint found, using zero predictor")
			continue
		}

		cp, err := loadCheckpointFile(path)
		if err != nil {
			return fmt.Errorf("valuenet: load %s: %w", path, err)
		}
		r.predictors[stage] = &linearPredictor{bias1: cp.Bias1, bias2: cp.Bias2}
		logger.Info().Stringer("stage", stage).Str("path", path).Msg("loaded value network checkpoint")
	}
	return nil
}

func stageDirName(s state.Stage) string {
	switch s {
	case state.PreFlop:
		return "preflop"
	case state.Flop:
		return "flop"
	case state.Turn:
		return "turn"
	case state.River:
		return "river"
	default:
		return "unknown"
	}
}

func newestJSON(dir string, entries []os.DirEntry) (string, bool) {
	type candidate struct {
		path    string
		modTime int64
	}
	var candidates []candidate
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			path:    filepath.Join(dir, e.Name()),
			modTime: info.ModTime().UnixNano(),
		})
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].modTime > candidates[j].modTime })
	return candidates[0].path, true
}

func loadCheckpointFile(path string) (*checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cp checkpoint
	if err := json.NewDecoder(f).Decode(&cp); err != nil {
		return nil, err
	}
	if len(cp.Bias1) == 0 || len(cp.Bias2) == 0 {
		return nil, fmt.Errorf("checkpoint at %s has empty bias vectors", path)
	}
	return &cp, nil
}
