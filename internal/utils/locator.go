package utils

import (
	"math/rand"
	"sync"
)

const locatorChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// LocatorGenerator produces six-letter record locators from an
// injected randomness source so tests can seed it deterministically.
// It is safe for concurrent use.
type LocatorGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLocatorGenerator wraps the given source.  Callers own the
// source's seeding; pass rand.New(rand.NewSource(...)).
func NewLocatorGenerator(rng *rand.Rand) *LocatorGenerator {
	return &LocatorGenerator{rng: rng}
}

// Generate returns a locator of six letters drawn uniformly from A-Z.
// Uniqueness is enforced by the pnrs table's unique constraint; the
// caller retries on collision.
func (g *LocatorGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	b := make([]byte, 6)
	for i := range b {
		b[i] = locatorChars[g.rng.Intn(len(locatorChars))]
	}
	return string(b)
}
