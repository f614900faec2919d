// Package orb tracks how many orbs of each tier a player holds and how far
// that falls short of a plan's expected consumption.
package orb

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/xtding233/enchant-engine/internal/enchant"
)

var ErrInvalidInventory = errors.New("invalid inventory")

// Inventory is orb count per orb tier.
type Inventory map[enchant.OrbTier]int

// Total returns the number of orbs held across all tiers.
func (inv Inventory) Total() int {
	n := 0
	for _, c := range inv {
		n += c
	}
	return n
}

// Tiers returns the tiers with a positive count in ascending order.
func (inv Inventory) Tiers() []enchant.OrbTier {
	out := make([]enchant.OrbTier, 0, len(inv))
	for t, c := range inv {
		if c > 0 {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Need rounds expected consumption up to whole orbs. ok is false when the
// expectation is infinite, in which case no inventory is ever enough.
func Need(expected enchant.Cost) (n int, ok bool) {
	if expected.IsInfinite() {
		return 0, false
	}
	if expected <= 0 {
		return 0, true
	}
	return int(math.Ceil(float64(expected))), true
}

// Shortage is the missing count for one tier.
type Shortage struct {
	Orb      enchant.OrbTier `json:"orb_tier"`
	Need     int             `json:"need"`
	Have     int             `json:"have"`
	Missing  int             `json:"missing"`
	Infinite bool            `json:"infinite,omitempty"`
}

// Shortfall compares the inventory with expected consumption per tier.
// Only tiers that fall short are returned, cheapest first.
func (inv Inventory) Shortfall(expected map[enchant.OrbTier]enchant.Cost) []Shortage {
	tiers := make([]enchant.OrbTier, 0, len(expected))
	for t := range expected {
		tiers = append(tiers, t)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })

	var out []Shortage
	for _, t := range tiers {
		have := inv[t]
		need, ok := Need(expected[t])
		if !ok {
			out = append(out, Shortage{Orb: t, Have: have, Infinite: true})
			continue
		}
		if have < need {
			out = append(out, Shortage{Orb: t, Need: need, Have: have, Missing: need - have})
		}
	}
	return out
}

// Covers reports whether the inventory meets expected consumption on every tier.
func (inv Inventory) Covers(expected map[enchant.OrbTier]enchant.Cost) bool {
	return len(inv.Shortfall(expected)) == 0
}

// Validate rejects negative counts and tiers the rules do not define.
func (inv Inventory) Validate(rules enchant.Rules) error {
	var errs []string
	for _, t := range inv.sortedKeys() {
		if inv[t] < 0 {
			errs = append(errs, fmt.Sprintf("orb tier %d: count must be >= 0", t))
		}
		if !rules.HasOrb(t) {
			errs = append(errs, fmt.Sprintf("orb tier %d: unknown", t))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInventory, strings.Join(errs, "; "))
	}
	return nil
}

// Parse reads "tier=count" pairs separated by commas, e.g. "1=40,3=5".
func Parse(s string) (Inventory, error) {
	inv := Inventory{}
	s = strings.TrimSpace(s)
	if s == "" {
		return inv, nil
	}
	for _, part := range strings.Split(s, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return nil, fmt.Errorf("%w: %q is not tier=count", ErrInvalidInventory, part)
		}
		tier, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("%w: tier %q: %v", ErrInvalidInventory, k, err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%w: count %q: %v", ErrInvalidInventory, v, err)
		}
		inv[enchant.OrbTier(tier)] += n
	}
	return inv, nil
}

// String renders the inventory in the format Parse accepts.
func (inv Inventory) String() string {
	parts := make([]string, 0, len(inv))
	for _, t := range inv.sortedKeys() {
		parts = append(parts, fmt.Sprintf("%d=%d", t, inv[t]))
	}
	return strings.Join(parts, ",")
}

func (inv Inventory) sortedKeys() []enchant.OrbTier {
	out := make([]enchant.OrbTier, 0, len(inv))
	for t := range inv {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
