package random

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the randomness every shuffling component draws from. Tests pass a
// seeded Roller so pools and turn orders are reproducible.
type Source interface {
	// Intn returns a uniform value in [0, n). n must be > 0.
	Intn(n int) int
}

// Roller is a goroutine safe, optionally seeded Source
type Roller struct {
	mu     sync.Mutex
	random *rand.Rand
}

// Config for the roller
type Config struct {
	// Optional seed for testing
	Seed int64
}

// New creates a new roller
func New(cfg *Config) *Roller {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &Roller{
		random: rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a value in [0, n). Non-positive n yields 0.
func (r *Roller) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Intn(n)
}

// Shuffle permutes items in place (Fisher-Yates)
func Shuffle[T any](src Source, items []T) {
	for n := len(items) - 1; n > 0; n-- {
		k := src.Intn(n + 1)
		items[k], items[n] = items[n], items[k]
	}
}

// Pick returns a uniformly chosen element, or the zero value for an empty slice
func Pick[T any](src Source, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[src.Intn(len(items))]
}
