//go:build arm64 && !nosimd

package simd

import (
	"github.com/viterin/vek/vek32"
	"golang.org/x/sys/cpu"
)

// ARM64 tier selection.
// NEON (ASIMD) is mandatory on ARMv8 but can be missing on emulated or
// restricted targets; vek's own probe is consulted as well so that the
// reported feature list matches what the vector libraries see.

func runtimeInfo() RuntimeInfo {
	info := vek32.Info()
	return selectARM64(cpu.ARM64.HasASIMD, info.Acceleration, info.CPUFeatures)
}

func selectARM64(hasASIMD, vekAccelerated bool, vekFeatures []string) RuntimeInfo {
	var features []string
	if hasASIMD {
		features = append(features, "asimd")
	}
	features = append(features, vekFeatures...)
	if hasASIMD || vekAccelerated {
		return RuntimeInfo{Tier: TierNarrow, Features: features, Accelerated: true}
	}
	return RuntimeInfo{Tier: TierScalar, Features: features, Accelerated: false}
}
