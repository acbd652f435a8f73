// Package random provides seeded pseudo-random sources for shuffles.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"
)

// NewSeed reads a seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// New returns a generator seeded from crypto/rand, falling back to the clock
// when the entropy source is unavailable.
func New() *rand.Rand {
	seed, err := NewSeed()
	if err != nil {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// NewSeeded returns a deterministic generator for tests and replays.
func NewSeeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
