package dice

import (
	"math/rand"
	"sync"
)

// seededSource implements Source with a deterministic PRNG. A fixed seed
// reproduces the same roll sequence, which is what the simulator and tests
// rely on to replay encounters.
type seededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSource returns a deterministic Source seeded with seed.
//
// Postcondition: Two sources created with the same seed produce identical
// Intn sequences.
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a deterministic pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// queueSource returns scripted values in order, for forcing specific rolls.
type queueSource struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewQueueSource returns a Source that yields the given values in order,
// wrapping around when exhausted. Intended for tests that force exact rolls.
//
// Precondition: len(values) > 0.
// Note: values are returned as-is; callers of Intn(n)+1 idioms should queue
// the zero-based draw, not the die face.
func NewQueueSource(values ...int) Source {
	if len(values) == 0 {
		panic("dice: NewQueueSource requires at least one value")
	}
	return &queueSource{values: values}
}

func (q *queueSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	v := q.values[q.next%len(q.values)]
	q.next++
	return v % n
}
