package enchant

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidProb = errors.New("enchant: success probability outside [0, 1]")

// Draw resolves a single enchant attempt that succeeds with probability p.
// The boundary probabilities never consult rng.
func Draw(p float64, rng RandomSource) (bool, error) {
	switch {
	case math.IsNaN(p) || p < 0 || p > 1:
		return false, fmt.Errorf("%w: %v", ErrInvalidProb, p)
	case p == 0:
		return false, nil
	case p == 1:
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}
