package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/enchant-engine/internal/enchant"
	"github.com/xtding233/enchant-engine/internal/service"
)

var configDir = filepath.Join("..", "..", "configs")

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), append([]string{"-config", configDir}, args...), &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestRate(t *testing.T) {
	out, _, err := runCLI(t, "rate", "-item", "godly", "-orb", "divine")
	require.NoError(t, err)
	assert.Contains(t, out, "Godly item, Divine orb, +0 -> +1: 100.00% success (safe)")

	_, _, err = runCLI(t, "rate", "-item", "mythic")
	assert.ErrorContains(t, err, `unknown item tier "mythic"`)
}

func TestPathAndCost(t *testing.T) {
	out, _, err := runCLI(t, "path", "-item", "4", "-orb", "4", "-level", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "+1 -> +2")
	assert.Contains(t, out, "+6 -> +7")
	assert.Contains(t, out, "TOTAL")

	out, _, err = runCLI(t, "path", "-item", "white", "-level", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "already at max level (+1)")

	out, _, err = runCLI(t, "cost", "-item", "white", "-orb", "minor")
	require.NoError(t, err)
	assert.Contains(t, out, "+0 -> +1 with Minor orbs: 1.00 orbs expected")
}

func TestSimulate(t *testing.T) {
	out, _, err := runCLI(t, "simulate", "-item", "radiant", "-orb", "lesser", "-runs", "200", "-seed", "5", "-limit", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "200 runs of Radiant item with Lesser orbs")
	assert.Contains(t, out, "chance to finish within 4 orbs")
	assert.Contains(t, out, "histogram:")
}

func TestCompare(t *testing.T) {
	out, _, err := runCLI(t, "compare", "-item", "holy", "-level", "1", "-inventory", "4=1000")
	require.NoError(t, err)
	assert.Contains(t, out, "Safe Path")
	assert.Contains(t, out, "Hybrid Path")
	assert.Contains(t, out, "Aggressive Path")
	assert.Contains(t, out, "cheapest: Safe Path")
	assert.Contains(t, out, "Aggressive Path: short")
}

func TestCheapestPolicy(t *testing.T) {
	policy := func(name string, total enchant.Cost) service.PolicyResult {
		return service.PolicyResult{Comparison: enchant.Comparison{Policy: name, Total: total}}
	}
	assert.Equal(t, "b", cheapestPolicy([]service.PolicyResult{
		policy("a", 40), policy("b", 12), policy("c", 12), policy("d", enchant.Infinite),
	}))
	assert.Empty(t, cheapestPolicy([]service.PolicyResult{policy("a", enchant.Infinite)}))
	assert.Empty(t, cheapestPolicy(nil))
}

func TestAttemptAndTables(t *testing.T) {
	out, _, err := runCLI(t, "attempt", "-item", "white", "-orb", "minor", "-n", "3", "-seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 +0 (100.00%) success -> +1")
	assert.Contains(t, out, "used 1 Minor orbs, now +1 of +1")

	out, _, err = runCLI(t, "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "base rate 100%, -7% per level")
	assert.Contains(t, out, "Godly")
	assert.Contains(t, out, "Divine")
}

func TestUsage(t *testing.T) {
	_, errOut, err := runCLI(t)
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, errOut, "commands:")

	_, _, err = runCLI(t, "bogus")
	assert.ErrorIs(t, err, errUsage)
}
