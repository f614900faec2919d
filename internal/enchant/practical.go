package enchant

import "fmt"

// Practicality is the advisory check a caller runs before Simulate.
type Practicality struct {
	Practical     bool   `json:"practical"`
	EstimatedCost Cost   `json:"estimated_cost"`
	Warning       string `json:"warning,omitempty"`
}

// IsSimulationPractical compares the expected cost from currentLevel to
// targetLevel against Limits.ImpracticalAbove and Limits.SlowAbove. Simulate
// does not enforce it.
func (e *Engine) IsSimulationPractical(currentLevel, targetLevel int, item ItemTier, orb OrbTier) Practicality {
	cost := e.ExpectedCostBetween(currentLevel, targetLevel, item, orb)
	lim := e.rules.Limits
	switch {
	case cost.IsInfinite():
		return Practicality{
			Practical:     false,
			EstimatedCost: cost,
			Warning: fmt.Sprintf("%s orbs cannot reach +%d on a %s item: some step has a 0%% success rate.",
				e.rules.OrbName(orb), targetLevel, e.rules.ItemName(item)),
		}
	case float64(cost) > lim.ImpracticalAbove:
		return Practicality{
			Practical:     false,
			EstimatedCost: cost,
			Warning: fmt.Sprintf("This combination averages %s orbs, which is too many to simulate. Use a higher orb tier.",
				cost),
		}
	case float64(cost) > lim.SlowAbove:
		return Practicality{
			Practical:     true,
			EstimatedCost: cost,
			Warning:       fmt.Sprintf("This combination averages %s orbs; the simulation may take a while.", cost),
		}
	}
	return Practicality{Practical: true, EstimatedCost: cost}
}
