package enchant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSimulationPractical(t *testing.T) {
	e := Default()

	ok := e.IsSimulationPractical(0, 4, Blessed, Greater)
	assert.True(t, ok.Practical)
	assert.Empty(t, ok.Warning)
	assert.Equal(t, e.TotalExpectedCost(0, Blessed, Greater), ok.EstimatedCost)

	at := e.IsSimulationPractical(4, 4, Blessed, Greater)
	assert.True(t, at.Practical)
	assert.Equal(t, Cost(0), at.EstimatedCost)
}

func TestIsSimulationPracticalThresholds(t *testing.T) {
	r := DefaultRules()
	r.Limits.SlowAbove = 5
	r.Limits.ImpracticalAbove = 50
	e := MustNew(r)

	// Blessed + Minor to +2 costs 3 + 9.9 = 12.9
	slow := e.IsSimulationPractical(0, 2, Blessed, Minor)
	assert.True(t, slow.Practical)
	assert.NotEmpty(t, slow.Warning)

	bad := e.IsSimulationPractical(0, 4, Blessed, Minor)
	assert.False(t, bad.Practical)
	assert.NotEmpty(t, bad.Warning)
	assert.Greater(t, float64(bad.EstimatedCost), 50.0)
}

func TestIsSimulationPracticalInfinite(t *testing.T) {
	e := MustNew(steepRules())
	res := e.IsSimulationPractical(0, 5, Godly, Divine)
	assert.False(t, res.Practical)
	assert.True(t, res.EstimatedCost.IsInfinite())
	assert.Contains(t, res.Warning, "0%")
}
