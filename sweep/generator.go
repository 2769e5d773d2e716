package sweep

import "math/rand/v2"

// Generator produces the input handed to an algorithm for a given size.
type Generator interface {
	Permutation(n int) []int
}

// seeder is implemented by generators that can be replayed from a seed.
type seeder interface {
	Seed() uint64
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(n int) []int

func (f GeneratorFunc) Permutation(n int) []int { return f(n) }

// RandomGenerator yields uniformly shuffled permutations of 0..n-1.
type RandomGenerator struct {
	seed uint64
	rng  *rand.Rand
}

// NewRandomGenerator seeds a PCG source so a run can be replayed.
func NewRandomGenerator(seed uint64) *RandomGenerator {
	return &RandomGenerator{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (g *RandomGenerator) Seed() uint64 { return g.seed }

func (g *RandomGenerator) Permutation(n int) []int {
	return g.rng.Perm(n)
}
