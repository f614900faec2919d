package enchant

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ItemTier is the rarity class of the item being enchanted (1 = White .. 5 = Godly).
type ItemTier int

const (
	White ItemTier = iota + 1
	Radiant
	Blessed
	Holy
	Godly
)

// OrbTier is the quality of the orb consumed by one attempt (1 = Minor .. 5 = Divine).
type OrbTier int

const (
	Minor OrbTier = iota + 1
	Lesser
	Greater
	Major
	Divine
)

var ErrInvalidRules = errors.New("invalid enchant rules")

// ItemSpec is one row of the item tier table.
type ItemSpec struct {
	Name    string
	Color   string
	Divisor float64 // success rate is divided by this
	Cap     int     // maximum attainable level
}

// OrbSpec is one row of the orb tier table.
type OrbSpec struct {
	Name       string
	Color      string
	Multiplier float64 // success rate is multiplied by this
}

// Limits bounds the simulator and drives the practicality guard.
type Limits struct {
	DefaultRuns      int     `json:"default_runs"`
	MaxRuns          int     `json:"max_runs"`
	MaxAttempts      int     `json:"max_attempts"` // per-trial safety valve
	HistogramBuckets int     `json:"histogram_buckets"`
	SlowAbove        float64 `json:"slow_above"`        // expected orbs above which a simulation is flagged slow
	ImpracticalAbove float64 `json:"impractical_above"` // expected orbs above which a simulation is refused
}

// Rules are the static game-design tables the engine computes over.
// They are supplied by configuration, never derived.
type Rules struct {
	BaseRate     float64 // success rate at level 0 before tier scaling
	LevelPenalty float64 // percentage points lost per level
	Items        map[ItemTier]ItemSpec
	Orbs         map[OrbTier]OrbSpec

	// Fallback maps an item tier to the orb tier recommended when no orb
	// reaches the requested success rate.
	Fallback map[ItemTier]OrbTier
	Limits   Limits
}

// DefaultLimits returns the stock simulation limits.
func DefaultLimits() Limits {
	return Limits{
		DefaultRuns:      10000,
		MaxRuns:          100000,
		MaxAttempts:      10_000_000,
		HistogramBuckets: 10,
		SlowAbove:        10_000,
		ImpracticalAbove: 1_000_000,
	}
}

// DefaultRules returns the shipped Dreadmyst tables.
func DefaultRules() Rules {
	return Rules{
		BaseRate:     100,
		LevelPenalty: 7,
		Items: map[ItemTier]ItemSpec{
			White:   {Name: "White", Color: "#ffffff", Divisor: 1.0, Cap: 1},
			Radiant: {Name: "Radiant", Color: "#00ff00", Divisor: 1.5, Cap: 3},
			Blessed: {Name: "Blessed", Color: "#00bfff", Divisor: 3.0, Cap: 4},
			Holy:    {Name: "Holy", Color: "#ff69b4", Divisor: 6.0, Cap: 7},
			Godly:   {Name: "Godly", Color: "#a855f7", Divisor: 8.0, Cap: 10},
		},
		Orbs: map[OrbTier]OrbSpec{
			Minor:   {Name: "Minor", Color: "#ffffff", Multiplier: 1.0},
			Lesser:  {Name: "Lesser", Color: "#00ff00", Multiplier: 1.5},
			Greater: {Name: "Greater", Color: "#00bfff", Multiplier: 3.0},
			Major:   {Name: "Major", Color: "#ff69b4", Multiplier: 6.0},
			Divine:  {Name: "Divine", Color: "#a855f7", Multiplier: 8.0},
		},
		Fallback: map[ItemTier]OrbTier{
			White:   Minor,
			Radiant: Lesser,
			Blessed: Greater,
			Holy:    Major,
			Godly:   Divine,
		},
		Limits: DefaultLimits(),
	}
}

// Validate checks the tables for values that would make the math meaningless.
func (r Rules) Validate() error {
	var errs []string
	if r.BaseRate <= 0 {
		errs = append(errs, "base_rate must be > 0")
	}
	if r.LevelPenalty < 0 {
		errs = append(errs, "level_penalty must be >= 0")
	}
	if len(r.Items) == 0 {
		errs = append(errs, "items must not be empty")
	}
	if len(r.Orbs) == 0 {
		errs = append(errs, "orbs must not be empty")
	}
	for _, t := range r.ItemTiers() {
		it := r.Items[t]
		if it.Divisor <= 0 {
			errs = append(errs, fmt.Sprintf("items[%d].divisor must be > 0", t))
		}
		if it.Cap < 0 {
			errs = append(errs, fmt.Sprintf("items[%d].cap must be >= 0", t))
		}
	}
	for _, t := range r.OrbTiers() {
		if r.Orbs[t].Multiplier <= 0 {
			errs = append(errs, fmt.Sprintf("orbs[%d].multiplier must be > 0", t))
		}
	}
	for it, ot := range r.Fallback {
		if _, ok := r.Orbs[ot]; !ok {
			errs = append(errs, fmt.Sprintf("fallback[%d] refers to unknown orb tier %d", it, ot))
		}
	}
	l := r.Limits
	if l.MaxAttempts <= 0 {
		errs = append(errs, "limits.max_attempts must be > 0")
	}
	if l.HistogramBuckets <= 0 {
		errs = append(errs, "limits.histogram_buckets must be > 0")
	}
	if l.DefaultRuns <= 0 || (l.MaxRuns > 0 && l.DefaultRuns > l.MaxRuns) {
		errs = append(errs, "limits.default_runs must be in (0, max_runs]")
	}
	if l.SlowAbove < 0 || l.ImpracticalAbove < l.SlowAbove {
		errs = append(errs, "limits must satisfy 0 <= slow_above <= impractical_above")
	}
	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("%w: %s", ErrInvalidRules, strings.Join(errs, "; "))
	}
	return nil
}

// ItemTiers returns the configured item tiers in ascending order.
func (r Rules) ItemTiers() []ItemTier {
	out := make([]ItemTier, 0, len(r.Items))
	for t := range r.Items {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// OrbTiers returns the configured orb tiers in ascending (cheapest first) order.
func (r Rules) OrbTiers() []OrbTier {
	out := make([]OrbTier, 0, len(r.Orbs))
	for t := range r.Orbs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Cap returns the level cap for an item tier; unknown tiers have cap 0.
func (r Rules) Cap(item ItemTier) int {
	return r.Items[item].Cap
}

func (r Rules) HasItem(item ItemTier) bool {
	_, ok := r.Items[item]
	return ok
}

func (r Rules) HasOrb(orb OrbTier) bool {
	_, ok := r.Orbs[orb]
	return ok
}

// ItemName returns the display name, or "Item(n)" for unknown tiers.
func (r Rules) ItemName(item ItemTier) string {
	if s, ok := r.Items[item]; ok && s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("Item(%d)", int(item))
}

// OrbName returns the display name, or "Orb(n)" for unknown tiers.
func (r Rules) OrbName(orb OrbTier) string {
	if s, ok := r.Orbs[orb]; ok && s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("Orb(%d)", int(orb))
}

// minOrb and maxOrb return the cheapest and best configured orb tiers.
func (r Rules) minOrb() OrbTier {
	tiers := r.OrbTiers()
	if len(tiers) == 0 {
		return Minor
	}
	return tiers[0]
}

func (r Rules) maxOrb() OrbTier {
	tiers := r.OrbTiers()
	if len(tiers) == 0 {
		return Divine
	}
	return tiers[len(tiers)-1]
}

// matchingOrb resolves the explicit item → orb fallback mapping.
func (r Rules) matchingOrb(item ItemTier) (OrbTier, bool) {
	ot, ok := r.Fallback[item]
	if !ok || !r.HasOrb(ot) {
		return 0, false
	}
	return ot, true
}

// clone deep-copies the maps so an Engine never shares them with the caller.
func (r Rules) clone() Rules {
	out := r
	out.Items = make(map[ItemTier]ItemSpec, len(r.Items))
	for k, v := range r.Items {
		out.Items[k] = v
	}
	out.Orbs = make(map[OrbTier]OrbSpec, len(r.Orbs))
	for k, v := range r.Orbs {
		out.Orbs[k] = v
	}
	out.Fallback = make(map[ItemTier]OrbTier, len(r.Fallback))
	for k, v := range r.Fallback {
		out.Fallback[k] = v
	}
	return out
}
