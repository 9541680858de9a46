package block

import "github.com/joshuapare/heapkit/internal/format"

// Header is a view of a block header living inside an extent. Setters write
// through to the extent bytes; a Header value is cheap to copy.
type Header struct {
	ref Ref
	b   []byte
}

// Ref returns the header's own address.
func (h Header) Ref() Ref { return h.ref }

// PayloadRef returns the address of the first usable byte after the header.
func (h Header) PayloadRef() Ref { return h.ref + format.HeaderSize }

func (h Header) Size() uint64     { return format.ReadU64(h.b, format.HeaderSizeOffset) }
func (h Header) LeftSize() uint64 { return format.ReadU64(h.b, format.HeaderLeftSizeOffset) }
func (h Header) Next() Ref        { return Ref(format.ReadU64(h.b, format.HeaderNextOffset)) }
func (h Header) Prev() Ref        { return Ref(format.ReadU64(h.b, format.HeaderPrevOffset)) }

func (h Header) SetSize(n uint64)     { format.PutU64(h.b, format.HeaderSizeOffset, n) }
func (h Header) SetLeftSize(n uint64) { format.PutU64(h.b, format.HeaderLeftSizeOffset, n) }
func (h Header) SetNext(r Ref)        { format.PutU64(h.b, format.HeaderNextOffset, uint64(r)) }
func (h Header) SetPrev(r Ref)        { format.PutU64(h.b, format.HeaderPrevOffset, uint64(r)) }

// Flags returns the raw flag word.
func (h Header) Flags() uint64 { return format.ReadU64(h.b, format.HeaderFlagsOffset) }

// SetFlags overwrites the raw flag word.
func (h Header) SetFlags(f uint64) { format.PutU64(h.b, format.HeaderFlagsOffset, f) }

// Allocated reports whether the block is in use.
func (h Header) Allocated() bool { return h.Flags()&format.FlagAllocated != 0 }

// SetAllocated sets or clears the in-use flag.
func (h Header) SetAllocated(v bool) {
	if v {
		h.SetFlags(h.Flags() | format.FlagAllocated)
	} else {
		h.SetFlags(h.Flags() &^ format.FlagAllocated)
	}
}

// Init overwrites the header with an unlinked block of the given shape.
func (h Header) Init(size, leftSize uint64, allocated bool) {
	format.PutHeader(h.b, format.Header{
		Size:      size,
		LeftSize:  leftSize,
		Allocated: allocated,
	})
}

// IsSentinel reports whether h is the list sentinel.
func (h Header) IsSentinel() bool { return h.ref == Sentinel }

// IsFencepost reports whether h marks an extent boundary.
func (h Header) IsFencepost() bool { return !h.IsSentinel() && h.Size() == 0 && h.Allocated() }

// Mergeable reports whether h is free space a neighbour may absorb.
// Fenceposts are excluded by their zero size.
func (h Header) Mergeable() bool { return !h.Allocated() && h.Size() != 0 }

// Span returns the number of bytes h occupies in its extent.
func (h Header) Span() uint64 {
	if size := h.Size(); size != 0 {
		return size
	}
	return format.HeaderSize
}

// Decode returns a detached copy of the header fields. It fails on flag bits
// the heap does not define and on a misaligned size.
func (h Header) Decode() (format.Header, error) {
	return format.DecodeHeader(h.b)
}
