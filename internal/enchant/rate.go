package enchant

import "math"

// SuccessRate returns the success chance, in percent [0, 100], of one attempt
// at level with the given tiers:
//
//	base = max(0, BaseRate - LevelPenalty*level)
//	rate = base / divisor(item) * multiplier(orb)
//
// The result is non-increasing in level and non-decreasing in orb tier.
// Unknown tiers yield 0.
func (e *Engine) SuccessRate(level int, item ItemTier, orb OrbTier) float64 {
	it, ok := e.rules.Items[item]
	if !ok || it.Divisor <= 0 {
		return 0
	}
	ot, ok := e.rules.Orbs[orb]
	if !ok {
		return 0
	}
	base := math.Max(0, e.rules.BaseRate-e.rules.LevelPenalty*float64(level))
	return clampRate(base / it.Divisor * ot.Multiplier)
}

// probability converts SuccessRate to [0, 1].
func (e *Engine) probability(level int, item ItemTier, orb OrbTier) float64 {
	return e.SuccessRate(level, item, orb) / 100
}

func clampRate(r float64) float64 {
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

// RateRow is one line of the per-level success table.
type RateRow struct {
	From        int     `json:"from"`
	To          int     `json:"to"`
	SuccessRate float64 `json:"success_rate"`
	FailureRate float64 `json:"failure_rate"`
}

// RateTable lists success/failure rates for every step from level to target.
func (e *Engine) RateTable(level, target int, item ItemTier, orb OrbTier) []RateRow {
	if level < 0 {
		level = 0
	}
	if target <= level {
		return nil
	}
	rows := make([]RateRow, 0, target-level)
	for l := level; l < target; l++ {
		r := e.SuccessRate(l, item, orb)
		rows = append(rows, RateRow{From: l, To: l + 1, SuccessRate: r, FailureRate: 100 - r})
	}
	return rows
}
