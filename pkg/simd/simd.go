package simd

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultGap is the byte that marks an unknown or unaligned position.
const DefaultGap byte = '-'

// Tier identifies one of the interchangeable distance kernels.
type Tier string

const (
	// TierScalar compares one byte at a time (no vectorization)
	TierScalar Tier = "scalar"
	// TierNarrow compares 32-byte blocks
	TierNarrow Tier = "narrow"
	// TierWide compares 64-byte blocks
	TierWide Tier = "wide"
	// TierAuto asks the dispatcher to probe the CPU
	TierAuto Tier = "auto"
)

// Block sizes in bytes for the vector tiers.
const (
	WideBlock   = 64
	NarrowBlock = 32
)

// RuntimeInfo contains information about the kernel selected for this process
type RuntimeInfo struct {
	// Tier is the selected kernel
	Tier Tier
	// Features lists the CPU features the selection was based on
	Features []string
	// Accelerated indicates whether a vector tier was selected
	Accelerated bool
}

// Kernel computes discordant-position counts between two byte sequences.
//
// Every implementation returns exactly the same value for the same inputs.
type Kernel interface {
	// Distance counts positions i < min(len(a), len(b)) where
	// a[i] != gap, b[i] != gap and a[i] != b[i].
	Distance(a, b []byte) uint64
	// Tier reports which strategy the kernel implements.
	Tier() Tier
	// Gap returns the byte excluded from comparison.
	Gap() byte
}

// NewKernel returns the kernel for an explicit tier, bypassing CPU detection.
// TierAuto resolves through the dispatcher.
func NewKernel(tier Tier, gap byte) (Kernel, error) {
	switch tier {
	case TierWide:
		return wideKernel{gap: gap, gapWord: broadcast(gap)}, nil
	case TierNarrow:
		return narrowKernel{gap: gap, gapWord: broadcast(gap)}, nil
	case TierScalar:
		return scalarKernel{gap: gap}, nil
	case TierAuto, "":
		return Select(gap), nil
	default:
		return nil, fmt.Errorf("simd: unknown kernel tier %q", tier)
	}
}

// ParseTier parses a tier name (auto, wide, narrow, scalar), case-insensitive.
func ParseTier(s string) (Tier, error) {
	switch t := Tier(strings.ToLower(strings.TrimSpace(s))); t {
	case "", TierAuto:
		return TierAuto, nil
	case TierWide, TierNarrow, TierScalar:
		return t, nil
	default:
		return "", fmt.Errorf("simd: unknown kernel tier %q (want auto, wide, narrow or scalar)", s)
	}
}

// Select returns the widest kernel supported by the executing CPU for the
// given gap byte.
//
// Example:
//
//	k := simd.Select('-')
//	d := k.Distance([]byte("ACGT"), []byte("ACTT")) // 1
func Select(gap byte) Kernel {
	switch Info().Tier {
	case TierWide:
		return wideKernel{gap: gap, gapWord: broadcast(gap)}
	case TierNarrow:
		return narrowKernel{gap: gap, gapWord: broadcast(gap)}
	default:
		return scalarKernel{gap: gap}
	}
}

var defaultKernel = sync.OnceValue(func() Kernel { return Select(DefaultGap) })

// Default returns the process-wide kernel for DefaultGap. The choice is made
// on first use and never changes afterwards.
func Default() Kernel {
	return defaultKernel()
}

// Distance computes the discordant-position count of a and b using the
// default kernel.
//
// Example:
//
//	simd.Distance([]byte("ACGT-"), []byte("ACTT-")) // 1
//	simd.Distance([]byte("ACGTACGT"), []byte("ACGA")) // 1, only 4 positions compared
func Distance(a, b []byte) uint64 {
	return Default().Distance(a, b)
}

var runtimeInfoOnce = sync.OnceValue(runtimeInfo)

// Info returns information about the kernel tier selected for this CPU.
//
// Example:
//
//	info := simd.Info()
//	if info.Accelerated {
//	    fmt.Printf("Using %s kernel\n", info.Tier)
//	}
func Info() RuntimeInfo {
	return runtimeInfoOnce()
}
