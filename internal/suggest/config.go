// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package suggest

import (
	"fmt"

	"github.com/mkaya-dev/scholarmesh/internal/config"
)

// SignalWeights is the weight table for the composite score.
// Weights should sum to at most 1.0 so composite scores stay in [0, 1].
type SignalWeights struct {
	Tag        float64
	Skill      float64
	Department float64
	Network    float64
	Semantic   float64
}

// Named weight presets. "semantic" is the canonical weighting; the
// others are earlier weight sets kept as selectable alternatives for
// deployments without an embeddings provider.
var presets = map[string]SignalWeights{
	"semantic": {Tag: 0.3, Skill: 0.2, Department: 0.1, Network: 0.2, Semantic: 0.2},
	"network":  {Tag: 0.4, Skill: 0.2, Department: 0.1, Network: 0.3},
	"content":  {Tag: 0.5, Skill: 0.3, Department: 0.2},
}

// Sum returns the total of all signal weights.
func (w SignalWeights) Sum() float64 {
	return w.Tag + w.Skill + w.Department + w.Network + w.Semantic
}

// Options holds the tunable policy of the scoring engine.
type Options struct {
	Weights SignalWeights

	// ScoreCutoff discards candidates scoring at or below this value.
	ScoreCutoff float64

	// DefaultLimit and MaxLimit clamp the requested suggestion count.
	DefaultLimit int
	MaxLimit     int

	// NetworkSaturation is the mutual-collaborator count at which the
	// network signal reaches 1.0.
	NetworkSaturation int

	// MinBioLength is the minimum biography length in characters for
	// the semantic signal to be computed.
	MinBioLength int
}

// DefaultOptions returns the engine's built-in policy.
func DefaultOptions() Options {
	return Options{
		Weights:           presets["semantic"],
		ScoreCutoff:       0.1,
		DefaultLimit:      10,
		MaxLimit:          50,
		NetworkSaturation: 3,
		MinBioLength:      10,
	}
}

// OptionsFromConfig builds engine options from the suggest config
// section. The preset is applied first; explicitly set weights (any
// non-zero field) replace the whole preset table.
func OptionsFromConfig(cfg *config.SuggestConfig) (Options, error) {
	opts := DefaultOptions()

	preset := cfg.WeightPreset
	if preset == "" {
		preset = "semantic"
	}
	w, ok := presets[preset]
	if !ok {
		return Options{}, fmt.Errorf("unknown weight preset %q", preset)
	}
	opts.Weights = w

	explicit := SignalWeights{
		Tag:        cfg.Weights.Tag,
		Skill:      cfg.Weights.Skill,
		Department: cfg.Weights.Department,
		Network:    cfg.Weights.Network,
		Semantic:   cfg.Weights.Semantic,
	}
	if explicit.Sum() > 0 {
		opts.Weights = explicit
	}

	if cfg.ScoreCutoff > 0 {
		opts.ScoreCutoff = cfg.ScoreCutoff
	}
	if cfg.DefaultLimit > 0 {
		opts.DefaultLimit = cfg.DefaultLimit
	}
	if cfg.MaxLimit > 0 {
		opts.MaxLimit = cfg.MaxLimit
	}
	if cfg.NetworkSaturation > 0 {
		opts.NetworkSaturation = cfg.NetworkSaturation
	}
	if cfg.MinBioLength > 0 {
		opts.MinBioLength = cfg.MinBioLength
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate checks option consistency.
func (o Options) Validate() error {
	if sum := o.Weights.Sum(); sum <= 0 || sum > 1.0+1e-9 {
		return fmt.Errorf("signal weights must sum to (0, 1], got %.4f", sum)
	}
	if o.ScoreCutoff < 0 || o.ScoreCutoff >= 1 {
		return fmt.Errorf("score cutoff must be in [0, 1), got %.4f", o.ScoreCutoff)
	}
	if o.DefaultLimit < 1 || o.MaxLimit < 1 || o.DefaultLimit > o.MaxLimit {
		return fmt.Errorf("invalid limits: default=%d max=%d", o.DefaultLimit, o.MaxLimit)
	}
	if o.NetworkSaturation < 1 {
		return fmt.Errorf("network saturation must be >= 1, got %d", o.NetworkSaturation)
	}
	return nil
}

// ClampLimit normalizes a requested suggestion count: non-positive
// values get the default, values above the maximum are capped.
func (o Options) ClampLimit(limit int) int {
	if limit <= 0 {
		return o.DefaultLimit
	}
	if limit > o.MaxLimit {
		return o.MaxLimit
	}
	return limit
}
