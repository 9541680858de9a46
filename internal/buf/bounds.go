// Package buf contains overflow-safe size arithmetic and bounds-checked
// slicing used when turning caller-supplied sizes and addresses into byte
// ranges of an extent.
package buf

import (
	"fmt"
	"math"
	"math/bits"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow uint64.
func AddOverflowSafe(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// MulOverflowSafe multiplies a and b, returning ok = false when the result would overflow uint64.
// This is the count * elementSize check of zero-initialising allocations.
func MulOverflowSafe(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// ArraySize validates a count of elements of elementSize bytes and returns
// the total byte size as an int.
//
//	n, err := buf.ArraySize(count, size)
//	if err != nil {
//	    return fmt.Errorf("calloc: %w", err)
//	}
func ArraySize(count, elementSize int) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("negative count: %d", count)
	}
	if elementSize < 0 {
		return 0, fmt.Errorf("negative element size: %d", elementSize)
	}
	total, ok := MulOverflowSafe(uint64(count), uint64(elementSize))
	if !ok || total > math.MaxInt {
		return 0, fmt.Errorf("overflow: count=%d * elemSize=%d", count, elementSize)
	}
	return int(total), nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n uint64) ([]byte, bool) {
	if off > uint64(len(b)) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > uint64(len(b)) {
		return nil, false
	}
	return b[off:end], true
}
