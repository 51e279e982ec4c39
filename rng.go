package tunadice

import "math/rand"

// file rng.go holds the injectable source of randomness. The PRNG algorithm
// itself is an external collaborator (spec.md section 1); this package only
// needs a uniform integer draw, so the contract is kept to exactly that.

// Source draws uniform integers for die rolls. Intn(n) must return a value in
// [0, n), uniformly distributed, for n > 0.
//
// The package-level default wraps math/rand's global source. Callers that
// need determinism (tests, replays) supply their own Source, typically
// rand.New(rand.NewSource(seed)).
type Source interface {
	Intn(n int) int
}

// defaultSource adapts the top-level math/rand functions (which share the
// package's global, auto-seeded generator) to Source.
type defaultSource struct{}

func (defaultSource) Intn(n int) int { return rand.Intn(n) }

// NewSeededSource returns a Source backed by a deterministic, seeded
// generator, suitable for reproducible tests and replays.
func NewSeededSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// rollDie draws one value in [1, size] from src. size must be >= 1; callers
// are expected to have already rejected smaller sizes as a ValueError.
func rollDie(src Source, size int) int {
	return src.Intn(size) + 1
}

// rollPercentile draws one multiple of 10 in [0, 90] from src, for the d%
// sentinel die size.
func rollPercentile(src Source) int {
	return src.Intn(10) * 10
}
