package enchant

// RiskProfile is the qualitative risk label attached to a policy.
type RiskProfile string

const (
	RiskLow    RiskProfile = "low"
	RiskMedium RiskProfile = "medium"
	RiskHigh   RiskProfile = "high"
)

// Policy chooses the orb tier to use at each level.
type Policy struct {
	Name        string
	Description string
	Risk        RiskProfile
	OrbFor      func(level int) OrbTier
}

// ConstantPolicy always uses orb.
func ConstantPolicy(name, description string, risk RiskProfile, orb OrbTier) Policy {
	return Policy{
		Name:        name,
		Description: description,
		Risk:        risk,
		OrbFor:      func(int) OrbTier { return orb },
	}
}

// SafePolicy always uses the orb tier mapped to the item tier.
func (e *Engine) SafePolicy(item ItemTier) Policy {
	return ConstantPolicy("Safe Path",
		"Match orb tier to item quality. Highest success, most expensive.",
		RiskLow, e.matchOrMax(item))
}

// HybridPolicy uses one orb tier below the matching one for the first half
// of the remaining path from currentLevel, then the matching tier.
func (e *Engine) HybridPolicy(item ItemTier, currentLevel int) Policy {
	match := e.matchOrMax(item)
	below := e.orbBelow(match)
	remaining := e.Cap(item) - currentLevel
	if remaining < 0 {
		remaining = 0
	}
	switchAt := currentLevel + remaining/2
	return Policy{
		Name:        "Hybrid Path",
		Description: "One tier below early, match tier for higher levels. Balanced approach.",
		Risk:        RiskMedium,
		OrbFor: func(level int) OrbTier {
			if level < switchAt {
				return below
			}
			return match
		},
	}
}

// AggressivePolicy always uses the cheapest orb tier.
func (e *Engine) AggressivePolicy() Policy {
	return ConstantPolicy("Aggressive Path",
		"Always the cheapest orbs. Maximum gambling, lowest orb cost.",
		RiskHigh, e.rules.minOrb())
}

// DefaultPolicies returns the safe, hybrid and aggressive policies in that order.
func (e *Engine) DefaultPolicies(item ItemTier, currentLevel int) []Policy {
	return []Policy{e.SafePolicy(item), e.HybridPolicy(item, currentLevel), e.AggressivePolicy()}
}

func (e *Engine) matchOrMax(item ItemTier) OrbTier {
	if orb, ok := e.rules.matchingOrb(item); ok {
		return orb
	}
	return e.rules.maxOrb()
}

// orbBelow returns the next cheaper configured orb tier, or orb itself when
// it is already the cheapest.
func (e *Engine) orbBelow(orb OrbTier) OrbTier {
	below := orb
	for _, t := range e.rules.OrbTiers() {
		if t >= orb {
			break
		}
		below = t
	}
	return below
}

// PolicyStep is one level of a policy's plan.
type PolicyStep struct {
	FromLevel    int     `json:"from_level"`
	ToLevel      int     `json:"to_level"`
	Orb          OrbTier `json:"orb_tier"`
	SuccessRate  float64 `json:"success_rate"`
	ExpectedOrbs Cost    `json:"expected_orbs"`
}

// Comparison is the evaluation of one policy.
type Comparison struct {
	Policy      string           `json:"policy"`
	Description string           `json:"description"`
	Risk        RiskProfile      `json:"risk"`
	Steps       []PolicyStep     `json:"steps"`
	Total       Cost             `json:"total_expected_orbs"`
	OrbsByTier  map[OrbTier]Cost `json:"orbs_by_tier"`
}

// EvaluatePolicy prices every step from currentLevel to the cap with the
// orb the policy picks at that level. Failure recovery below each step is
// also priced with the policy's orbs.
func (e *Engine) EvaluatePolicy(currentLevel int, item ItemTier, p Policy) Comparison {
	cmp := Comparison{
		Policy:      p.Name,
		Description: p.Description,
		Risk:        p.Risk,
		Steps:       []PolicyStep{},
		OrbsByTier:  map[OrbTier]Cost{},
	}
	maxLevel := e.Cap(item)
	if currentLevel < 0 {
		currentLevel = 0
	}
	if currentLevel >= maxLevel || p.OrbFor == nil {
		return cmp
	}
	table := buildTable(maxLevel, func(level int) float64 {
		return e.probability(level, item, p.OrbFor(level))
	})
	for l := currentLevel; l < maxLevel; l++ {
		orb := p.OrbFor(l)
		cost := table.Step(l)
		cmp.Steps = append(cmp.Steps, PolicyStep{
			FromLevel:    l,
			ToLevel:      l + 1,
			Orb:          orb,
			SuccessRate:  e.SuccessRate(l, item, orb),
			ExpectedOrbs: cost,
		})
		cmp.Total = cmp.Total.Add(cost)
		cmp.OrbsByTier[orb] = cmp.OrbsByTier[orb].Add(cost)
	}
	return cmp
}

// ComparePolicies evaluates each policy independently. Results keep the
// input order; ranking is left to the caller.
func (e *Engine) ComparePolicies(currentLevel int, item ItemTier, policies []Policy) []Comparison {
	out := make([]Comparison, 0, len(policies))
	for _, p := range policies {
		out = append(out, e.EvaluatePolicy(currentLevel, item, p))
	}
	return out
}
