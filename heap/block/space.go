package block

import (
	"errors"
	"fmt"
	"sort"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Ref is an address in the heap's address space. Extents are laid out back
// to back starting at format.HeapBase, in the order they were acquired.
type Ref uint64

// Sentinel is the address of the list sentinel. It never holds payload and
// doubles as the null pointer.
const Sentinel Ref = 0

// ErrBadRef indicates an address that does not name a header inside any extent.
var ErrBadRef = errors.New("block: reference outside heap")

// Extent describes one contiguous region obtained from the arena source.
type Extent struct {
	Base Ref
	Size uint64
}

// End returns the first address past the extent.
func (e Extent) End() Ref { return e.Base + Ref(e.Size) }

type extent struct {
	base Ref
	data []byte
}

// Space maps addresses to extent bytes and owns the list sentinel.
// It is not safe for concurrent use.
type Space struct {
	sentinel [format.HeaderSize]byte
	extents  []extent
	end      Ref
}

// NewSpace returns an empty address space whose block list holds only the
// sentinel, linked to itself.
func NewSpace() *Space {
	s := &Space{end: format.HeapBase}
	format.PutHeader(s.sentinel[:], format.Header{Allocated: true})
	return s
}

// AddExtent places data at the end of the address space and returns its
// base address. The caller is responsible for writing headers into it.
func (s *Space) AddExtent(data []byte) (Ref, error) {
	n := uint64(len(data))
	if n < format.MinExtentSize || !format.IsAligned(n) {
		return 0, fmt.Errorf("block: extent of %d bytes: %w", n, format.ErrMisaligned)
	}
	if _, ok := buf.AddOverflowSafe(uint64(s.end), n); !ok {
		return 0, fmt.Errorf("block: address space exhausted at 0x%X", uint64(s.end))
	}
	base := s.end
	s.extents = append(s.extents, extent{base: base, data: data})
	s.end += Ref(n)
	return base, nil
}

// Extents returns the extents in address order.
func (s *Space) Extents() []Extent {
	out := make([]Extent, len(s.extents))
	for i, e := range s.extents {
		out[i] = Extent{Base: e.base, Size: uint64(len(e.data))}
	}
	return out
}

// find returns the index of the extent containing r.
func (s *Space) find(r Ref) (int, bool) {
	i := sort.Search(len(s.extents), func(i int) bool {
		e := s.extents[i]
		return e.base+Ref(len(e.data)) > r
	})
	if i == len(s.extents) || r < s.extents[i].base {
		return 0, false
	}
	return i, true
}

// Lookup returns the header at r after checking that r is word aligned and
// that a whole header fits inside one extent.
func (s *Space) Lookup(r Ref) (Header, error) {
	if r == Sentinel {
		return Header{ref: Sentinel, b: s.sentinel[:]}, nil
	}
	if !format.IsAligned(uint64(r)) {
		return Header{}, fmt.Errorf("0x%X misaligned: %w", uint64(r), ErrBadRef)
	}
	i, ok := s.find(r)
	if !ok {
		return Header{}, fmt.Errorf("0x%X: %w", uint64(r), ErrBadRef)
	}
	e := s.extents[i]
	b, ok := buf.Slice(e.data, uint64(r-e.base), format.HeaderSize)
	if !ok {
		return Header{}, fmt.Errorf("0x%X crosses extent end: %w", uint64(r), ErrBadRef)
	}
	return Header{ref: r, b: b}, nil
}

// At returns the header at r. It panics when r is not a valid header
// address; the engine only calls it with addresses read from the list.
func (s *Space) At(r Ref) Header {
	h, err := s.Lookup(r)
	if err != nil {
		panic(fmt.Sprintf("block: corrupt list: %v", err))
	}
	return h
}

// Payload returns the usable bytes of the block described by h.
// Fenceposts and the sentinel have no payload.
func (s *Space) Payload(h Header) ([]byte, error) {
	size := h.Size()
	if h.ref == Sentinel || size < format.HeaderSize {
		return nil, nil
	}
	i, ok := s.find(h.ref)
	if !ok {
		return nil, fmt.Errorf("0x%X: %w", uint64(h.ref), ErrBadRef)
	}
	e := s.extents[i]
	b, ok := buf.Slice(e.data, uint64(h.ref-e.base)+format.HeaderSize, size-format.HeaderSize)
	if !ok {
		return nil, fmt.Errorf("block 0x%X size %d crosses extent end: %w", uint64(h.ref), size, ErrBadRef)
	}
	return b, nil
}
