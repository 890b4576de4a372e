// Package dice provides the randomness abstraction for the arena combat engine.
package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

// Source is the randomness provider for all combat rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a uniformly distributed int in [0, n).
//
// Precondition: n > 0. Panics if n <= 0 or crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// seededSource is a reproducible PCG-backed Source guarded by a mutex.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source; the same seed yields the same sequence.
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: mrand.New(mrand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
