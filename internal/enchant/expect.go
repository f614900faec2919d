package enchant

import "math"

// ExpectationTable holds E[L] for L = 0..cap for one (item, orb) pair:
//
//	E[0] = 0
//	E[L] = (1 + (1-p[L-1]) * E[L-1]) / p[L-1]
//
// Once a step has zero probability every later entry is +Inf.
// The table is built once and read-only afterwards.
type ExpectationTable struct {
	Item ItemTier
	Orb  OrbTier
	e    []Cost
	p    []float64 // p[L] = success probability at level L, L = 0..cap-1
}

// ExpectationTable builds the table for a fixed orb tier.
func (e *Engine) ExpectationTable(item ItemTier, orb OrbTier) ExpectationTable {
	t := buildTable(e.Cap(item), func(level int) float64 {
		return e.probability(level, item, orb)
	})
	t.Item, t.Orb = item, orb
	return t
}

// buildTable fills E bottom-up from a per-level success probability, which
// lets strategies vary the orb per level.
func buildTable(maxLevel int, prob func(level int) float64) ExpectationTable {
	if maxLevel < 0 {
		maxLevel = 0
	}
	t := ExpectationTable{
		e: make([]Cost, maxLevel+1),
		p: make([]float64, maxLevel),
	}
	for l := 0; l < maxLevel; l++ {
		t.p[l] = prob(l)
	}
	for l := 1; l <= maxLevel; l++ {
		if t.e[l-1].IsInfinite() || t.p[l-1] <= 0 {
			t.e[l] = Infinite
			continue
		}
		t.e[l] = stepCost(t.p[l-1], t.e[l-1])
	}
	return t
}

// stepCost is the expected attempts to cross one step with success
// probability p, where eL is the expected cost to climb back after a failure.
func stepCost(p float64, eL Cost) Cost {
	switch {
	case p <= 0 || math.IsNaN(p):
		return Infinite
	case p >= 1:
		return 1
	case eL.IsInfinite():
		return Infinite
	}
	return Cost((1 + (1-p)*float64(eL)) / p)
}

// Cap is the highest level the table covers.
func (t ExpectationTable) Cap() int { return len(t.e) - 1 }

// At returns E[level]; levels outside 0..cap return 0 below and +Inf above.
func (t ExpectationTable) At(level int) Cost {
	if level <= 0 {
		return 0
	}
	if level >= len(t.e) {
		return Infinite
	}
	return t.e[level]
}

// Step returns the expected attempts to go from level to level+1, including
// the cost of recovering from every failure below it. There is no step past
// the cap, so levels at or above it cost +Inf.
func (t ExpectationTable) Step(level int) Cost {
	if level < 0 {
		level = 0
	}
	if level >= len(t.p) {
		return Infinite
	}
	return stepCost(t.p[level], t.e[level])
}

// Total sums Step over from..to-1. This is not E[to]-E[from].
func (t ExpectationTable) Total(from, to int) Cost {
	if from < 0 {
		from = 0
	}
	if to > len(t.p) {
		to = len(t.p)
	}
	var total Cost
	for l := from; l < to; l++ {
		total = total.Add(t.Step(l))
	}
	return total
}

// ExpectedCostForStep returns the expected orbs to go from level to level+1
// with a fixed orb tier. It is +Inf when the step's success rate is 0,
// which includes every level at or above the cap. Pass a prebuilt table to
// avoid rebuilding it; a table for a different pair is ignored.
func (e *Engine) ExpectedCostForStep(level int, item ItemTier, orb OrbTier, table *ExpectationTable) Cost {
	if level >= e.Cap(item) || e.probability(level, item, orb) <= 0 {
		return Infinite
	}
	if table == nil || table.Item != item || table.Orb != orb {
		t := e.ExpectationTable(item, orb)
		table = &t
	}
	return table.Step(level)
}

// TotalExpectedCost is the expected orbs from currentLevel to the item's cap.
// It is 0 at or above the cap and +Inf when any remaining step is impossible.
func (e *Engine) TotalExpectedCost(currentLevel int, item ItemTier, orb OrbTier) Cost {
	return e.ExpectedCostBetween(currentLevel, e.Cap(item), item, orb)
}

// ExpectedCostBetween is the expected orbs from level to target (clamped to cap).
func (e *Engine) ExpectedCostBetween(level, target int, item ItemTier, orb OrbTier) Cost {
	if level >= target || level >= e.Cap(item) {
		return 0
	}
	return e.ExpectationTable(item, orb).Total(level, target)
}
