package format

// Align8 returns n aligned up to the next 8-byte boundary.
// Used for block sizes and header addresses.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
//	Align8(40) = 40
func Align8(n uint64) uint64 {
	return (n + AlignmentMask) &^ AlignmentMask
}

// IsAligned reports whether n sits on the word boundary.
func IsAligned(n uint64) bool {
	return n&AlignmentMask == 0
}

// AlignUp returns n rounded up to a multiple of unit. Extent sizes are not
// required to be powers of two, so this divides instead of masking.
//
// Example:
//
//	AlignUp(1, 4096)    = 4096
//	AlignUp(4096, 4096) = 4096
//	AlignUp(5120, 4096) = 8192
func AlignUp(n, unit uint64) uint64 {
	if unit == 0 {
		return n
	}
	return ((n + unit - 1) / unit) * unit
}
