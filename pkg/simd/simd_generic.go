//go:build (!amd64 && !arm64) || nosimd

package simd

// Platforms without capability probing, or builds tagged nosimd, always use
// the scalar kernel. Nothing is detected at runtime.

func runtimeInfo() RuntimeInfo {
	return RuntimeInfo{
		Tier:        TierScalar,
		Features:    nil,
		Accelerated: false,
	}
}
