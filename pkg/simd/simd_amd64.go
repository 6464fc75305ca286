//go:build amd64 && !nosimd

package simd

import (
	"golang.org/x/sys/cpu"
)

// x86/amd64 tier selection.
// AVX-512BW compares 64 bytes per instruction, AVX2 compares 32, so the block
// width of the selected kernel follows the widest register the CPU offers.

var (
	hasAVX512BW = cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW
	hasAVX2     = cpu.X86.HasAVX2
)

func runtimeInfo() RuntimeInfo {
	switch {
	case hasAVX512BW:
		return RuntimeInfo{
			Tier:        TierWide,
			Features:    []string{"avx512f", "avx512bw"},
			Accelerated: true,
		}
	case hasAVX2:
		return RuntimeInfo{
			Tier:        TierNarrow,
			Features:    []string{"avx2"},
			Accelerated: true,
		}
	}
	return RuntimeInfo{
		Tier:        TierScalar,
		Features:    []string{"sse2"},
		Accelerated: false,
	}
}
