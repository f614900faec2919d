package enchant

// NextLevel applies one attempt's outcome: success advances a level, failure
// drops one level, and level 0 absorbs failures.
func NextLevel(level int, success bool) int {
	if success {
		return level + 1
	}
	if level <= 0 {
		return 0
	}
	return level - 1
}

// AttemptResult is the outcome of rolling a single attempt.
type AttemptResult struct {
	FromLevel   int     `json:"from_level"`
	ToLevel     int     `json:"to_level"`
	SuccessRate float64 `json:"success_rate"`
	Success     bool    `json:"success"`
}

// Attempt rolls one enchant attempt at level. Attempts at or above the cap
// are no-ops that report success=false and leave the level unchanged.
func (e *Engine) Attempt(level int, item ItemTier, orb OrbTier, rng RandomSource) (AttemptResult, error) {
	if level < 0 {
		level = 0
	}
	rate := e.SuccessRate(level, item, orb)
	res := AttemptResult{FromLevel: level, ToLevel: level, SuccessRate: rate}
	if level >= e.Cap(item) {
		return res, nil
	}
	ok, err := Draw(rate/100, rng)
	if err != nil {
		return AttemptResult{}, err
	}
	res.Success = ok
	res.ToLevel = NextLevel(level, ok)
	return res, nil
}
