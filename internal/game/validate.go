package game

import (
	"fmt"
	"strings"
)

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	if cfg.BaseRate != nil && *cfg.BaseRate <= 0 {
		errs = append(errs, "base_rate must be > 0")
	}
	if cfg.LevelPenalty != nil && *cfg.LevelPenalty < 0 {
		errs = append(errs, "level_penalty must be >= 0")
	}

	// items
	seenItem := make(map[int]bool, len(cfg.Items))
	for i, it := range cfg.Items {
		if it.Tier <= 0 {
			errs = append(errs, fmt.Sprintf("items[%d].tier must be >= 1", i))
		}
		if seenItem[it.Tier] {
			errs = append(errs, fmt.Sprintf("items[%d].tier %d is duplicated", i, it.Tier))
		}
		seenItem[it.Tier] = true
		if it.Divisor == nil {
			errs = append(errs, fmt.Sprintf("items[%d].divisor is required", i))
		} else if *it.Divisor <= 0 {
			errs = append(errs, fmt.Sprintf("items[%d].divisor must be > 0", i))
		}
		if it.Cap == nil {
			errs = append(errs, fmt.Sprintf("items[%d].cap is required", i))
		} else if *it.Cap < 0 {
			errs = append(errs, fmt.Sprintf("items[%d].cap must be >= 0", i))
		}
	}

	// orbs
	seenOrb := make(map[int]bool, len(cfg.Orbs))
	for i, o := range cfg.Orbs {
		if o.Tier <= 0 {
			errs = append(errs, fmt.Sprintf("orbs[%d].tier must be >= 1", i))
		}
		if seenOrb[o.Tier] {
			errs = append(errs, fmt.Sprintf("orbs[%d].tier %d is duplicated", i, o.Tier))
		}
		seenOrb[o.Tier] = true
		if o.Multiplier == nil {
			errs = append(errs, fmt.Sprintf("orbs[%d].multiplier is required", i))
		} else if *o.Multiplier <= 0 {
			errs = append(errs, fmt.Sprintf("orbs[%d].multiplier must be > 0", i))
		}
	}

	// fallback must point at known tiers when the tables are present
	for it, ot := range cfg.Fallback {
		if len(cfg.Items) > 0 && !seenItem[it] {
			errs = append(errs, fmt.Sprintf("fallback.%d: unknown item tier", it))
		}
		if len(cfg.Orbs) > 0 && !seenOrb[ot] {
			errs = append(errs, fmt.Sprintf("fallback.%d: unknown orb tier %d", it, ot))
		}
	}

	// simulation (optional)
	if s := cfg.Simulation; s != nil {
		if s.MaxAttempts != nil && *s.MaxAttempts <= 0 {
			errs = append(errs, "simulation.max_attempts must be >= 1")
		}
		if s.HistogramBuckets != nil && *s.HistogramBuckets <= 0 {
			errs = append(errs, "simulation.histogram_buckets must be >= 1")
		}
		if s.DefaultRuns != nil && *s.DefaultRuns <= 0 {
			errs = append(errs, "simulation.default_runs must be >= 1")
		}
		if s.MaxRuns != nil && *s.MaxRuns < 0 {
			errs = append(errs, "simulation.max_runs must be >= 0 (0 means unlimited)")
		}
		if s.SlowAbove != nil && s.ImpracticalAbove != nil && *s.ImpracticalAbove < *s.SlowAbove {
			errs = append(errs, "simulation.impractical_above must be >= slow_above")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
