package primitives

import (
	"fmt"
	"iter"
	"math/bits"
	"strings"
)

// Mask efficiently represents a set of board cells, one bit per dense
// cell index. The zero value is the empty set.
//
// A Mask is a plain value; all operations return new masks and the type
// is safe to share freely.
type Mask uint64

// MaxMaskBits is the largest cell index a Mask can hold.
const MaxMaskBits = 64

// FullMask returns the mask with the lowest n bits set.
func FullMask(n int) Mask {
	if n <= 0 {
		return 0
	}
	if n >= MaxMaskBits {
		return ^Mask(0)
	}
	return (Mask(1) << n) - 1
}

// Set returns the mask with the given bit added.
func (m Mask) Set(bit int) Mask {
	return m | (Mask(1) << bit)
}

// Has checks if a bit is in the set.
func (m Mask) Has(bit int) bool {
	return m&(Mask(1)<<bit) != 0
}

// Overlaps reports whether the two sets share any bit.
func (m Mask) Overlaps(other Mask) bool {
	return m&other != 0
}

// Count returns the number of bits in the set.
func (m Mask) Count() int {
	return bits.OnesCount64(uint64(m))
}

// LowestClear returns the lowest bit of full that is missing from m,
// or -1 if m already contains all of full.
func (m Mask) LowestClear(full Mask) int {
	missing := full &^ m
	if missing == 0 {
		return -1
	}
	return bits.TrailingZeros64(uint64(missing))
}

// Bits returns a sequence of the bit indexes in the set, lowest first.
func (m Mask) Bits() iter.Seq[int] {
	return func(yield func(int) bool) {
		for rest := uint64(m); rest != 0; rest &= rest - 1 {
			if !yield(bits.TrailingZeros64(rest)) {
				return
			}
		}
	}
}

// DebugString renders the lowest width bits, highest first, for test output.
func (m Mask) DebugString(width int) string {
	var sb strings.Builder
	for bit := width - 1; bit >= 0; bit-- {
		if m.Has(bit) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return fmt.Sprintf("Mask{%s}", sb.String())
}
