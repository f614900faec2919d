// Package enchant models the item-enchanting random walk: per-attempt success
// rates, expected orb costs, step-by-step plans, Monte Carlo simulation and
// orb-selection strategy comparison.
//
// Every method on Engine is a pure function of its arguments and the Rules
// the Engine was built with. Inputs outside the configured tiers are not
// rejected here; they produce degenerate values (rate 0, cap 0) and callers
// are expected to validate first.
package enchant

import "fmt"

// Engine evaluates the enchant model over a fixed set of Rules.
type Engine struct {
	rules Rules
}

// New validates rules and returns an Engine holding a private copy of them.
func New(rules Rules) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Engine{rules: rules.clone()}, nil
}

// MustNew is New for static tables known to be valid.
func MustNew(rules Rules) *Engine {
	e, err := New(rules)
	if err != nil {
		panic(fmt.Sprintf("enchant: %v", err))
	}
	return e
}

// Default returns an Engine over DefaultRules.
func Default() *Engine {
	return MustNew(DefaultRules())
}

// Rules returns a copy of the engine's tables.
func (e *Engine) Rules() Rules {
	return e.rules.clone()
}

// Cap returns the level cap for item.
func (e *Engine) Cap(item ItemTier) int {
	return e.rules.Cap(item)
}
