// Package format describes the in-band block header that precedes every
// block of heap memory, allocated or free. It keeps the byte layout in one
// place so the higher-level packages never compute field offsets themselves.
package format

const (
	// Alignment is the word boundary honoured by every block address and size.
	Alignment = 8

	// AlignmentMask is Alignment-1, used for rounding.
	AlignmentMask = Alignment - 1

	// HeaderSize is the number of bytes occupied by a block header. The
	// usable payload of a block starts immediately after it.
	HeaderSize = 0x28

	// SplitSlack is the minimum number of bytes a free block must have beyond
	// a request before it is split: one word of payload plus a header.
	SplitSlack = Alignment + HeaderSize

	// DefaultExtentSize is the number of bytes requested from the arena
	// source on each growth (2 MiB).
	DefaultExtentSize = 2 << 20

	// MinExtentSize is the smallest extent that still holds two fenceposts
	// and one splittable free block.
	MinExtentSize = 4 * HeaderSize

	// HeapBase is the address of the first extent. Addresses below it are
	// never handed out, so address 0 can serve as both the list sentinel and
	// the null pointer.
	HeapBase = 0x1000
)

// Block header layout (little-endian, 8-byte fields):
//
//	Offset  Size  Description
//	0x00    8     Size: total span of the block in bytes, header included.
//	              Zero for fenceposts.
//	0x08    8     LeftSize: size of the left physical neighbour when this
//	              header was written.
//	0x10    8     Next: address of the following header in the block list.
//	0x18    8     Prev: address of the preceding header in the block list.
//	0x20    8     Flags: bit 0 set when the block is allocated.
const (
	HeaderSizeOffset     = 0x00
	HeaderLeftSizeOffset = 0x08
	HeaderNextOffset     = 0x10
	HeaderPrevOffset     = 0x18
	HeaderFlagsOffset    = 0x20
)

const (
	// FlagAllocated marks a block as in use. Fenceposts always carry it.
	FlagAllocated uint64 = 1 << 0

	// knownFlags is the set of flag bits a valid header may carry.
	knownFlags = FlagAllocated
)
