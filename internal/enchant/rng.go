package enchant

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource yields uniform variates in [0, 1).
type RandomSource interface {
	Float64() float64
}

type pcgRNG struct{ r *rand.Rand }

func (s *pcgRNG) Float64() float64 { return s.r.Float64() }

// DefaultRNG returns a PCG source seeded from crypto/rand. It is not safe for
// concurrent use; each simulation takes its own.
func DefaultRNG() RandomSource {
	var buf [16]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// fall back to the runtime-seeded global generator
		return &pcgRNG{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	hi := binary.BigEndian.Uint64(buf[:8])
	lo := binary.BigEndian.Uint64(buf[8:])
	return &pcgRNG{r: rand.New(rand.NewPCG(hi, lo))}
}

// NewSeededRNG returns a reproducible source, for tests and replays.
func NewSeededRNG(seed uint64) RandomSource {
	return &pcgRNG{r: rand.New(rand.NewPCG(seed, 0))}
}
