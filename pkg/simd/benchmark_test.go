package simd

import (
	"fmt"
	"math/rand"
	"testing"
)

// Benchmark sequence lengths, from short amplicons to whole genomes
var benchmarkSizes = []int{100, 1000, 29903, 1 << 20}

// distanceReference is the naive definition all kernels must match.
func distanceReference(a, b []byte, gap byte) uint64 {
	var d uint64
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != gap && b[i] != gap && a[i] != b[i] {
			d++
		}
	}
	return d
}

// BenchmarkDistance benchmarks every tier at various sequence lengths
func BenchmarkDistance(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	for _, size := range benchmarkSizes {
		x := randomSeq(r, size)
		y := randomSeq(r, size)
		name := fmt.Sprintf("%d", size)

		for _, tier := range allTiers {
			k := mustKernel(b, tier, DefaultGap)
			b.Run(string(tier)+"-"+name, func(b *testing.B) {
				b.SetBytes(int64(size * 2))
				for i := 0; i < b.N; i++ {
					_ = k.Distance(x, y)
				}
			})
		}

		b.Run("Reference-"+name, func(b *testing.B) {
			b.SetBytes(int64(size * 2))
			for i := 0; i < b.N; i++ {
				_ = distanceReference(x, y, DefaultGap)
			}
		})
	}
}
