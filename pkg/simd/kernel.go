package simd

import (
	"encoding/binary"
	"math/bits"
)

// Byte-lane constants for 8-lanes-per-word mask arithmetic.
const (
	laneLow7   = 0x7f7f7f7f7f7f7f7f
	laneHigh   = 0x8080808080808080
	laneOnes   = 0x0101010101010101
	gatherMult = 0x0102040810204080
)

func broadcast(b byte) uint64 {
	return uint64(b) * laneOnes
}

// nonZeroLanes sets the high bit of every byte lane of x that is non-zero and
// clears everything else. No carry crosses a lane boundary.
func nonZeroLanes(x uint64) uint64 {
	return (((x & laneLow7) + laneLow7) | x) & laneHigh
}

// movemask packs the high bit of each byte lane into an 8-bit mask, lane j
// landing on bit j.
func movemask(lanes uint64) uint64 {
	return ((lanes >> 7) * gatherMult) >> 56
}

// wordMask compares 8 bytes of a and b and returns the packed mask of
// discordant positions.
func wordMask(a, b []byte, gapWord uint64) uint64 {
	x := binary.LittleEndian.Uint64(a)
	y := binary.LittleEndian.Uint64(b)
	differ := nonZeroLanes(x ^ y)
	aKnown := nonZeroLanes(x ^ gapWord)
	bKnown := nonZeroLanes(y ^ gapWord)
	return movemask(differ & aKnown & bKnown)
}

func scalarDistance(a, b []byte, gap byte) uint64 {
	n := min(len(a), len(b))
	a, b = a[:n], b[:n]
	var d uint64
	for i := range a {
		if a[i] != gap && b[i] != gap && a[i] != b[i] {
			d++
		}
	}
	return d
}

type scalarKernel struct {
	gap byte
}

func (k scalarKernel) Distance(a, b []byte) uint64 { return scalarDistance(a, b, k.gap) }
func (k scalarKernel) Tier() Tier                  { return TierScalar }
func (k scalarKernel) Gap() byte                   { return k.gap }

type narrowKernel struct {
	gap     byte
	gapWord uint64
}

func (k narrowKernel) Distance(a, b []byte) uint64 {
	n := min(len(a), len(b))
	var d uint64
	i := 0
	for ; i <= n-NarrowBlock; i += NarrowBlock {
		ba := a[i : i+NarrowBlock : i+NarrowBlock]
		bb := b[i : i+NarrowBlock : i+NarrowBlock]
		mask := uint32(wordMask(ba[0:], bb[0:], k.gapWord)) |
			uint32(wordMask(ba[8:], bb[8:], k.gapWord))<<8 |
			uint32(wordMask(ba[16:], bb[16:], k.gapWord))<<16 |
			uint32(wordMask(ba[24:], bb[24:], k.gapWord))<<24
		d += uint64(bits.OnesCount32(mask))
	}
	return d + scalarDistance(a[i:n], b[i:n], k.gap)
}

func (k narrowKernel) Tier() Tier { return TierNarrow }
func (k narrowKernel) Gap() byte  { return k.gap }

type wideKernel struct {
	gap     byte
	gapWord uint64
}

func (k wideKernel) Distance(a, b []byte) uint64 {
	n := min(len(a), len(b))
	var d uint64
	i := 0
	for ; i <= n-WideBlock; i += WideBlock {
		ba := a[i : i+WideBlock : i+WideBlock]
		bb := b[i : i+WideBlock : i+WideBlock]
		var mask uint64
		for w := 0; w < WideBlock/8; w++ {
			mask |= wordMask(ba[w*8:], bb[w*8:], k.gapWord) << (8 * w)
		}
		d += uint64(bits.OnesCount64(mask))
	}
	return d + scalarDistance(a[i:n], b[i:n], k.gap)
}

func (k wideKernel) Tier() Tier { return TierWide }
func (k wideKernel) Gap() byte  { return k.gap }
