package format

import "fmt"

// Header is a decoded copy of a block header. The heap itself reads and
// writes fields in place; Header exists for diagnostics and tests.
type Header struct {
	Size      uint64
	LeftSize  uint64
	Next      uint64
	Prev      uint64
	Allocated bool
}

// IsFencepost reports whether the header marks an extent boundary.
func (h Header) IsFencepost() bool {
	return h.Size == 0 && h.Allocated
}

// DecodeHeader decodes the header at the start of b.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("header: %w", ErrTruncated)
	}
	flags := ReadU64(b, HeaderFlagsOffset)
	if flags&^knownFlags != 0 {
		return Header{}, fmt.Errorf("header: flags 0x%X: %w", flags, ErrUnknownFlags)
	}
	size := ReadU64(b, HeaderSizeOffset)
	if !IsAligned(size) {
		return Header{}, fmt.Errorf("header: size %d: %w", size, ErrMisaligned)
	}
	return Header{
		Size:      size,
		LeftSize:  ReadU64(b, HeaderLeftSizeOffset),
		Next:      ReadU64(b, HeaderNextOffset),
		Prev:      ReadU64(b, HeaderPrevOffset),
		Allocated: flags&FlagAllocated != 0,
	}, nil
}

// PutHeader encodes h at the start of b. b must hold at least HeaderSize bytes.
func PutHeader(b []byte, h Header) {
	var flags uint64
	if h.Allocated {
		flags |= FlagAllocated
	}
	PutU64(b, HeaderSizeOffset, h.Size)
	PutU64(b, HeaderLeftSizeOffset, h.LeftSize)
	PutU64(b, HeaderNextOffset, h.Next)
	PutU64(b, HeaderPrevOffset, h.Prev)
	PutU64(b, HeaderFlagsOffset, flags)
}
