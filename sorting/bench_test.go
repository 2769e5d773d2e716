package sorting

import (
	"math/rand/v2"
	"testing"
)

func prepare(n int) []int {
	rng := rand.New(rand.NewPCG(42, 42))
	return rng.Perm(n)
}

func BenchmarkBubbleSort(b *testing.B) {
	src := prepare(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BubbleSort(src)
	}
}

func BenchmarkMergeSort(b *testing.B) {
	src := prepare(100_000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MergeSort(src)
	}
}
