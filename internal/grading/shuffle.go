package grading

import (
	"math/rand"
	"time"
)

// Shuffler produces the presentation permutations used when rendering
// options, answers and item pools.
type Shuffler struct {
	rng *rand.Rand
}

// NewShuffler wraps rng; a nil rng gets a time-seeded source. Tests pass a
// fixed seed to make permutations reproducible.
func NewShuffler(rng *rand.Rand) *Shuffler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Shuffler{rng: rng}
}

// Permutation returns a Fisher-Yates permutation of [0, n). The value at
// display position i is the original index of the element shown there.
func (s *Shuffler) Permutation(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// IdentityPermutation returns [0, 1, ..., n-1], the authored order.
func IdentityPermutation(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}
