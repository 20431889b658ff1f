// Package coreconfig loads the engine configuration from an HCL file:
// parse if present, fall back to DefaultCoreConfig otherwise, then backfill
// any zero fields left unset by a partial file.
package coreconfig

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// CoreConfig holds every configuration key the core consumes.
type CoreConfig struct {
	SmallBlind           int  `hcl:"small_blind,optional"`
	BigBlind             int  `hcl:"big_blind,optional"`
	BetPerStageLimit     int  `hcl:"bet_per_stage_limit,optional"`
	AvgPotSize           int  `hcl:"avg_pot_size,optional"`
	NbrRandomEvents      int  `hcl:"nbr_random_events,optional"`
	NbrActionsInRollout  int  `hcl:"nbr_actions_in_rollout,optional"`
	NbrRollouts          int  `hcl:"nbr_rollouts,optional"`
	RedistributeChips    bool `hcl:"redistribute_chips,optional"`
}

// AllowedRaises returns the two fixed raise amounts: the small blind and
// the big blind.
func (c *CoreConfig) AllowedRaises() [2]int {
	return [2]int{c.SmallBlind, c.BigBlind}
}

// DefaultCoreConfig returns sane defaults for every key, used whenever no
// file is present or a field is left zero.
func DefaultCoreConfig() *CoreConfig {
	return &CoreConfig{
		SmallBlind:          5,
		BigBlind:            10,
		BetPerStageLimit:    2,
		AvgPotSize:          200,
		NbrRandomEvents:     5,
		NbrActionsInRollout: 4,
		NbrRollouts:         1000,
		RedistributeChips:   false,
	}
}

// LoadCoreConfig loads configuration from an HCL file, applying
// DefaultCoreConfig for any field the file leaves unset (or if the file
// does not exist at all).
func LoadCoreConfig(filename string) (*CoreConfig, error) {
	def := DefaultCoreConfig()
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return def, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse HCL file: %s", diags.Error())
	}

	var cfg CoreConfig
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decode HCL: %s", diags.Error())
	}

	if cfg.SmallBlind == 0 {
		cfg.SmallBlind = def.SmallBlind
	}
	if cfg.BigBlind == 0 {
		cfg.BigBlind = def.BigBlind
	}
	if cfg.BetPerStageLimit == 0 {
		cfg.BetPerStageLimit = def.BetPerStageLimit
	}
	if cfg.AvgPotSize == 0 {
		cfg.AvgPotSize = def.AvgPotSize
	}
	if cfg.NbrRandomEvents == 0 {
		cfg.NbrRandomEvents = def.NbrRandomEvents
	}
	if cfg.NbrActionsInRollout == 0 {
		cfg.NbrActionsInRollout = def.NbrActionsInRollout
	}
	if cfg.NbrRollouts == 0 {
		cfg.NbrRollouts = def.NbrRollouts
	}

	return &cfg, nil
}

// Validate sanity-checks the loaded configuration.
func (c *CoreConfig) Validate() error {
	if c.SmallBlind <= 0 || c.BigBlind <= c.SmallBlind {
		return fmt.Errorf("invalid blinds: small=%d big=%d", c.SmallBlind, c.BigBlind)
	}
	if c.BetPerStageLimit < 1 {
		return fmt.Errorf("bet_per_stage_limit must be >= 1, got %d", c.BetPerStageLimit)
	}
	if c.AvgPotSize <= 0 {
		return fmt.Errorf("avg_pot_size must be positive, got %d", c.AvgPotSize)
	}
	if c.NbrRollouts <= 0 {
		return fmt.Errorf("nbr_rollouts must be positive, got %d", c.NbrRollouts)
	}
	return nil
}
