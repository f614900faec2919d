package enchant

// RiskLevel classifies a success rate.
type RiskLevel string

const (
	RiskSafe      RiskLevel = "safe"      // >= 70%
	RiskModerate  RiskLevel = "moderate"  // >= 40%
	RiskRisky     RiskLevel = "risky"     // >= 20%
	RiskDangerous RiskLevel = "dangerous" // < 20%
)

// DefaultMinRate is the success rate RecommendedOrbTier aims for.
const DefaultMinRate = 70.0

// Risk returns the band for a success rate in percent. Lower bounds are inclusive.
func Risk(successRate float64) RiskLevel {
	switch {
	case successRate >= 70:
		return RiskSafe
	case successRate >= 40:
		return RiskModerate
	case successRate >= 20:
		return RiskRisky
	default:
		return RiskDangerous
	}
}

// RecommendedOrbTier returns the cheapest orb tier whose success rate at
// level reaches minRate. If none does, it falls back to the item's mapped
// orb tier and then to the best orb tier.
//
// This is a greedy per-level choice, not a cost-optimal policy.
func (e *Engine) RecommendedOrbTier(level int, item ItemTier, minRate float64) OrbTier {
	for _, orb := range e.rules.OrbTiers() {
		if e.SuccessRate(level, item, orb) >= minRate {
			return orb
		}
	}
	if orb, ok := e.rules.matchingOrb(item); ok {
		return orb
	}
	return e.rules.maxOrb()
}

// PathStep is one row of a plan from the current level to the cap.
type PathStep struct {
	FromLevel          int       `json:"from_level"`
	ToLevel            int       `json:"to_level"`
	SuccessRate        float64   `json:"success_rate"`
	ExpectedOrbs       Cost      `json:"expected_orbs"`
	RiskLevel          RiskLevel `json:"risk_level"`
	RecommendedOrbTier OrbTier   `json:"recommended_orb_tier"`
}

// AnalyzePath returns one step per level from currentLevel to cap-1, all
// priced with orb. It is empty when currentLevel >= cap.
func (e *Engine) AnalyzePath(currentLevel int, item ItemTier, orb OrbTier) []PathStep {
	maxLevel := e.Cap(item)
	if currentLevel < 0 {
		currentLevel = 0
	}
	if currentLevel >= maxLevel {
		return []PathStep{}
	}
	table := e.ExpectationTable(item, orb)
	steps := make([]PathStep, 0, maxLevel-currentLevel)
	for l := currentLevel; l < maxLevel; l++ {
		rate := e.SuccessRate(l, item, orb)
		steps = append(steps, PathStep{
			FromLevel:          l,
			ToLevel:            l + 1,
			SuccessRate:        rate,
			ExpectedOrbs:       table.Step(l),
			RiskLevel:          Risk(rate),
			RecommendedOrbTier: e.RecommendedOrbTier(l, item, DefaultMinRate),
		})
	}
	return steps
}

// PathTotal sums the expected orbs of a plan.
func PathTotal(steps []PathStep) Cost {
	var total Cost
	for _, s := range steps {
		total = total.Add(s.ExpectedOrbs)
	}
	return total
}
