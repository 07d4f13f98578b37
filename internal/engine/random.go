package engine

import (
	crand "crypto/rand"
	"math/rand/v2"
	"time"

	"github.com/oklog/ulid/v2"
)

// Rand is the randomness the engine consumes: fabric choice, the visual-match
// placeholder, the ethnic garment pick and confidence jitter.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewSeededRand returns a deterministic Rand for reproducible runs.
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func newRandomRand() Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// IDGenerator hands out synthetic item ids. One generator serves one call.
type IDGenerator interface {
	Next() string
}

// ulidGenerator issues ULIDs from monotonic entropy so ids minted within the
// same millisecond of one call still sort and never collide.
type ulidGenerator struct {
	ms      uint64
	entropy *ulid.MonotonicEntropy
}

func newULIDGenerator(now time.Time) IDGenerator {
	return &ulidGenerator{
		ms:      ulid.Timestamp(now),
		entropy: ulid.Monotonic(crand.Reader, 0),
	}
}

func (g *ulidGenerator) Next() string {
	return "SYNTH_" + ulid.MustNew(g.ms, g.entropy).String()
}
