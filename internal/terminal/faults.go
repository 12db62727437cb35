package terminal

import (
	"math/rand"
	"sync"
)

// FaultInjector randomly fails commands to mimic host congestion.
// Probability is per command; the generator is guarded because the
// dispatcher is called from many goroutines.
type FaultInjector struct {
	mu          sync.Mutex
	probability float64
	rng         *rand.Rand
}

// NewFaultInjector returns an injector firing with the given
// probability per eligible command. Pass a seeded source for
// reproducible runs.
func NewFaultInjector(probability float64, rng *rand.Rand) *FaultInjector {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &FaultInjector{probability: probability, rng: rng}
}

// NoFaults returns an injector that never fires.
func NoFaults() *FaultInjector {
	return &FaultInjector{probability: 0}
}

// Fire reports whether this command should fail with the busy response.
func (f *FaultInjector) Fire() bool {
	if f.probability <= 0 {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.Float64() < f.probability
}

// Delay returns a simulated processing delay in milliseconds within
// [min, max).
func (f *FaultInjector) Delay(min, max int) int {
	if max <= min {
		return min
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rng == nil {
		return min
	}
	return min + f.rng.Intn(max-min)
}
