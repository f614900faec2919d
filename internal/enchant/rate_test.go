package enchant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessRateScenarios(t *testing.T) {
	e := Default()
	tests := []struct {
		name  string
		level int
		item  ItemTier
		orb   OrbTier
		want  float64
	}{
		{"white minor at 0", 0, White, Minor, 100},
		{"godly minor at 0", 0, Godly, Minor, 12.5},
		{"godly divine at 0", 0, Godly, Divine, 100},
		{"blessed minor at 1", 1, Blessed, Minor, 31},
		{"radiant greater clamps", 2, Radiant, Greater, 100},
		{"penalty exhausts base", 15, Godly, Divine, 0},
		{"beyond exhaustion", 40, White, Divine, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, e.SuccessRate(tt.level, tt.item, tt.orb), 1e-9)
		})
	}
}

func TestSuccessRateMonotoneAndBounded(t *testing.T) {
	e := Default()
	r := e.Rules()
	for _, item := range r.ItemTiers() {
		for _, orb := range r.OrbTiers() {
			prev := 101.0
			for level := 0; level <= 30; level++ {
				rate := e.SuccessRate(level, item, orb)
				require.GreaterOrEqual(t, rate, 0.0)
				require.LessOrEqual(t, rate, 100.0)
				require.LessOrEqual(t, rate, prev, "item=%d orb=%d level=%d", item, orb, level)
				prev = rate
			}
		}
	}
}

func TestSuccessRateNonDecreasingInOrb(t *testing.T) {
	e := Default()
	r := e.Rules()
	for _, item := range r.ItemTiers() {
		for level := 0; level <= r.Cap(item); level++ {
			prev := -1.0
			for _, orb := range r.OrbTiers() {
				rate := e.SuccessRate(level, item, orb)
				require.GreaterOrEqual(t, rate, prev)
				prev = rate
			}
		}
	}
}

func TestSuccessRateUnknownTier(t *testing.T) {
	e := Default()
	assert.Equal(t, 0.0, e.SuccessRate(0, ItemTier(9), Minor))
	assert.Equal(t, 0.0, e.SuccessRate(0, White, OrbTier(0)))
}

func TestRateTable(t *testing.T) {
	e := Default()
	rows := e.RateTable(1, 4, Blessed, Minor)
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].From)
	assert.Equal(t, 4, rows[2].To)
	for _, r := range rows {
		assert.InDelta(t, 100, r.SuccessRate+r.FailureRate, 1e-9)
	}
	assert.Empty(t, e.RateTable(4, 4, Blessed, Minor))
}

func TestRulesValidate(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())

	bad := DefaultRules()
	bad.Items[Holy] = ItemSpec{Name: "Holy", Divisor: 0, Cap: 7}
	bad.Fallback[Godly] = OrbTier(9)
	bad.Limits.MaxAttempts = 0
	err := bad.Validate()
	require.ErrorIs(t, err, ErrInvalidRules)
	assert.Contains(t, err.Error(), "items[4].divisor")
	assert.Contains(t, err.Error(), "fallback[5]")
	assert.Contains(t, err.Error(), "max_attempts")

	_, err = New(bad)
	require.ErrorIs(t, err, ErrInvalidRules)
}

func TestEngineCopiesRules(t *testing.T) {
	rules := DefaultRules()
	e := MustNew(rules)
	rules.Items[White] = ItemSpec{Name: "White", Divisor: 100, Cap: 1}
	assert.Equal(t, 100.0, e.SuccessRate(0, White, Minor))
}
