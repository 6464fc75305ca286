// Package simd provides block-vectorized discordance counting for aligned
// byte sequences.
//
// The distance between two sequences is the number of positions where both
// bytes are known (not the gap byte) and differ. Three interchangeable
// kernels implement it and always agree bit-for-bit:
//
//   - wide: 64-byte blocks, one 64-bit mask per block (AVX-512BW class CPUs)
//   - narrow: 32-byte blocks, one 32-bit mask per block (AVX2 / NEON class CPUs)
//   - scalar: one byte at a time, used for every non-aligned remainder
//
// For each block a kernel builds three byte masks ("bytes differ", "a is not
// a gap", "b is not a gap"), ANDs them together and adds the population
// count of the result to the running total. The masks are computed eight
// bytes at a time inside 64-bit words, so every kernel is pure Go and can be
// exercised on any platform.
//
// The package detects CPU capabilities at runtime and selects the widest
// kernel the hardware supports. Detection happens once per process; the
// selected kernel services every comparison for the lifetime of the run.
// Build with -tags nosimd to force the scalar kernel.
//
// # Usage
//
//	import "github.com/orneryd/snprank/pkg/simd"
//
//	ref := []byte("ACGT-ACGT")
//	qry := []byte("ACTT-ACGA")
//
//	// Default kernel with '-' as the gap byte
//	d := simd.Distance(ref, qry) // 2
//
//	// Kernel for a custom gap byte
//	k := simd.Select('N')
//	d = k.Distance(ref, qry)
//
//	info := simd.Info()
//	fmt.Printf("kernel: %s (%s)\n", info.Tier, info.Features)
//
// # Length mismatch
//
// Only the overlapping prefix of two sequences is compared. Bytes past the
// end of the shorter operand never contribute to the distance.
//
// # Thread Safety
//
// Kernels are immutable values. All functions in this package are safe for
// concurrent use.
package simd
