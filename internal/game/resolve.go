// resolve.go
package game

import (
	"fmt"

	"github.com/xtding233/enchant-engine/internal/enchant"
)

// Resolver turns a game name into validated engine rules.
type Resolver interface {
	// Returns merged RawConfig and normalized Rules
	Resolve(game string) (RawConfig, enchant.Rules, error)
}

var _ Resolver = (*Loader)(nil)

// Resolve validates a merged RawConfig and normalizes it into enchant.Rules.
// Fields left unset keep the builtin defaults.
func Resolve(cfg RawConfig) (enchant.Rules, error) {
	if err := ValidateRaw(cfg); err != nil {
		return enchant.Rules{}, err
	}
	rules := enchant.DefaultRules()
	if cfg.BaseRate != nil {
		rules.BaseRate = *cfg.BaseRate
	}
	if cfg.LevelPenalty != nil {
		rules.LevelPenalty = *cfg.LevelPenalty
	}

	if len(cfg.Items) > 0 {
		rules.Items = make(map[enchant.ItemTier]enchant.ItemSpec, len(cfg.Items))
		for _, it := range cfg.Items {
			spec := enchant.ItemSpec{Name: it.Name, Color: it.Color}
			if it.Divisor != nil {
				spec.Divisor = *it.Divisor
			}
			if it.Cap != nil {
				spec.Cap = *it.Cap
			}
			rules.Items[enchant.ItemTier(it.Tier)] = spec
		}
	}
	if len(cfg.Orbs) > 0 {
		rules.Orbs = make(map[enchant.OrbTier]enchant.OrbSpec, len(cfg.Orbs))
		for _, o := range cfg.Orbs {
			spec := enchant.OrbSpec{Name: o.Name, Color: o.Color}
			if o.Multiplier != nil {
				spec.Multiplier = *o.Multiplier
			}
			rules.Orbs[enchant.OrbTier(o.Tier)] = spec
		}
	}
	if len(cfg.Fallback) > 0 {
		rules.Fallback = make(map[enchant.ItemTier]enchant.OrbTier, len(cfg.Fallback))
		for it, ot := range cfg.Fallback {
			rules.Fallback[enchant.ItemTier(it)] = enchant.OrbTier(ot)
		}
	}

	if s := cfg.Simulation; s != nil {
		lim := &rules.Limits
		if s.DefaultRuns != nil {
			lim.DefaultRuns = *s.DefaultRuns
		}
		if s.MaxRuns != nil {
			lim.MaxRuns = *s.MaxRuns
		}
		if s.MaxAttempts != nil {
			lim.MaxAttempts = *s.MaxAttempts
		}
		if s.HistogramBuckets != nil {
			lim.HistogramBuckets = *s.HistogramBuckets
		}
		if s.SlowAbove != nil {
			lim.SlowAbove = *s.SlowAbove
		}
		if s.ImpracticalAbove != nil {
			lim.ImpracticalAbove = *s.ImpracticalAbove
		}
	}

	if err := rules.Validate(); err != nil {
		return enchant.Rules{}, fmt.Errorf("resolve rules: %w", err)
	}
	return rules, nil
}

// FromRules renders engine rules back into a RawConfig, used as the base
// layer every file merges onto.
func FromRules(r enchant.Rules) RawConfig {
	cfg := RawConfig{
		BaseRate:     ptr(r.BaseRate),
		LevelPenalty: ptr(r.LevelPenalty),
		Fallback:     make(map[int]int, len(r.Fallback)),
		Simulation: &SimConfig{
			DefaultRuns:      ptr(r.Limits.DefaultRuns),
			MaxRuns:          ptr(r.Limits.MaxRuns),
			MaxAttempts:      ptr(r.Limits.MaxAttempts),
			HistogramBuckets: ptr(r.Limits.HistogramBuckets),
			SlowAbove:        ptr(r.Limits.SlowAbove),
			ImpracticalAbove: ptr(r.Limits.ImpracticalAbove),
		},
	}
	for _, t := range r.ItemTiers() {
		it := r.Items[t]
		cfg.Items = append(cfg.Items, ItemConfig{
			Tier: int(t), Name: it.Name, Color: it.Color,
			Divisor: ptr(it.Divisor), Cap: ptr(it.Cap),
		})
	}
	for _, t := range r.OrbTiers() {
		o := r.Orbs[t]
		cfg.Orbs = append(cfg.Orbs, OrbConfig{
			Tier: int(t), Name: o.Name, Color: o.Color,
			Multiplier: ptr(o.Multiplier),
		})
	}
	for it, ot := range r.Fallback {
		cfg.Fallback[int(it)] = int(ot)
	}
	return cfg
}

func ptr[T any](v T) *T { return &v }
