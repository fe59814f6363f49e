package sentinel

import "math/rand"

// Seeder derives one independent *rand.Rand per subsystem from a single
// top-level seed, the way ca_ecs.go's seed() and particles_ecs.go seed their
// own PRNGs rather than sharing a package-global rand source. Reseeding the
// top-level configuration fully determines every derived stream.
type Seeder struct {
	base int64
	n    int64
}

func NewSeeder(seed int64) *Seeder {
	return &Seeder{base: seed}
}

// Derive returns a fresh *rand.Rand seeded deterministically from the
// Seeder's base seed and the number of streams already handed out. Calling
// Derive the same number of times in the same order always reproduces the
// same sequence of streams.
func (s *Seeder) Derive() *rand.Rand {
	s.n++
	// splitmix-style mixing so sequential small seeds don't produce
	// correlated low-order bits across subsystems.
	mixed := s.base ^ (s.n * 0x9E3779B97F4A7C15)
	return rand.New(rand.NewSource(mixed))
}
