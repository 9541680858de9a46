package verify

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/joshuapare/heapkit/heap/block"
	"github.com/joshuapare/heapkit/internal/format"
)

// ValidationError describes one broken heap invariant.
type ValidationError struct {
	Type    string
	Message string
	Ref     block.Ref
	Details map[string]any
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Ref != block.Sentinel {
		return fmt.Sprintf("%s at 0x%X: %s", e.Type, uint64(e.Ref), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// AllInvariants validates all heap invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(s *block.Space) error {
	if err := Links(s); err != nil {
		return err
	}
	if err := Order(s); err != nil {
		return err
	}
	if err := Extents(s); err != nil {
		return err
	}
	if err := Coalesced(s); err != nil {
		return err
	}
	return nil
}

// collect walks the list from the sentinel using checked lookups and returns
// every header in list order. It fails on a dangling pointer, a next/prev
// mismatch, or a cycle that does not pass through the sentinel.
func collect(s *block.Space) ([]block.Header, error) {
	seen := roaring64.New()
	var out []block.Header

	cur := s.At(block.Sentinel)
	for {
		nextRef := cur.Next()
		next, err := s.Lookup(nextRef)
		if err != nil {
			return nil, &ValidationError{
				Type:    "Links",
				Message: fmt.Sprintf("next pointer 0x%X is not a header: %v", uint64(nextRef), err),
				Ref:     cur.Ref(),
			}
		}
		if !next.IsSentinel() && !seen.CheckedAdd(uint64(next.Ref())) {
			return nil, &ValidationError{
				Type:    "Links",
				Message: "list revisits a header without reaching the sentinel",
				Ref:     next.Ref(),
				Details: map[string]any{"visited": seen.GetCardinality()},
			}
		}
		if next.Prev() != cur.Ref() {
			return nil, &ValidationError{
				Type: "Links",
				Message: fmt.Sprintf("prev of next does not point back: next=0x%X, next.prev=0x%X",
					uint64(next.Ref()), uint64(next.Prev())),
				Ref: cur.Ref(),
			}
		}
		if next.IsSentinel() {
			return out, nil
		}
		out = append(out, next)
		cur = next
	}
}

// Links validates that the list is circular through the sentinel and that
// every next/prev pair is mutually consistent.
func Links(s *block.Space) error {
	_, err := collect(s)
	return err
}

// Order validates that list order is strictly increasing address order.
func Order(s *block.Space) error {
	hs, err := collect(s)
	if err != nil {
		return err
	}
	for i := 1; i < len(hs); i++ {
		if hs[i].Ref() <= hs[i-1].Ref() {
			return &ValidationError{
				Type: "Order",
				Message: fmt.Sprintf("address decreases along list: prev=0x%X",
					uint64(hs[i-1].Ref())),
				Ref: hs[i].Ref(),
			}
		}
	}
	return nil
}

// Extents validates that the blocks of each extent tile it exactly: a head
// fencepost at the base, a foot fencepost in the last header slot, and
// aligned interior blocks of at least one header each with no gaps.
func Extents(s *block.Space) error {
	hs, err := collect(s)
	if err != nil {
		return err
	}

	i := 0
	for _, ext := range s.Extents() {
		if i >= len(hs) || hs[i].Ref() != ext.Base {
			return &ValidationError{
				Type:    "Extents",
				Message: "extent base is not linked",
				Ref:     ext.Base,
			}
		}
		if !hs[i].IsFencepost() {
			return &ValidationError{
				Type:    "Extents",
				Message: "missing head fencepost",
				Ref:     ext.Base,
			}
		}

		footRef := ext.End() - format.HeaderSize
		pos := ext.Base
		for ; i < len(hs) && hs[i].Ref() < ext.End(); i++ {
			h := hs[i]
			if h.Ref() != pos {
				return &ValidationError{
					Type:    "Extents",
					Message: fmt.Sprintf("blocks do not tile extent: expected header at 0x%X", uint64(pos)),
					Ref:     h.Ref(),
				}
			}
			if _, err := h.Decode(); err != nil {
				return &ValidationError{
					Type:    "Extents",
					Message: fmt.Sprintf("malformed header: %v", err),
					Ref:     h.Ref(),
					Details: map[string]any{"flags": h.Flags(), "size": h.Size()},
					Err:     err,
				}
			}
			edge := pos == ext.Base || pos == footRef
			switch {
			case !edge && h.Size() < format.HeaderSize:
				return &ValidationError{
					Type:    "Extents",
					Message: fmt.Sprintf("interior block smaller than a header: %d bytes", h.Size()),
					Ref:     h.Ref(),
				}
			case uint64(ext.End()-pos) < h.Span():
				return &ValidationError{
					Type:    "Extents",
					Message: fmt.Sprintf("block crosses extent end: size=%d, available=%d", h.Size(), uint64(ext.End()-pos)),
					Ref:     h.Ref(),
					Details: map[string]any{"extent_base": uint64(ext.Base), "extent_size": ext.Size},
				}
			}
			pos += block.Ref(h.Span())
		}

		last := hs[i-1]
		if pos != ext.End() || last.Ref() != footRef || !last.IsFencepost() {
			return &ValidationError{
				Type:    "Extents",
				Message: "missing foot fencepost",
				Ref:     footRef,
			}
		}
	}

	if i != len(hs) {
		return &ValidationError{
			Type:    "Extents",
			Message: fmt.Sprintf("%d linked headers lie outside every extent", len(hs)-i),
			Ref:     hs[i].Ref(),
		}
	}
	return nil
}

// Coalesced validates that no two list neighbours are both free.
func Coalesced(s *block.Space) error {
	hs, err := collect(s)
	if err != nil {
		return err
	}
	for i := 1; i < len(hs); i++ {
		if hs[i-1].Mergeable() && hs[i].Mergeable() {
			return &ValidationError{
				Type: "Coalesced",
				Message: fmt.Sprintf("adjacent free blocks: left=0x%X size %d, right size %d",
					uint64(hs[i-1].Ref()), hs[i-1].Size(), hs[i].Size()),
				Ref: hs[i].Ref(),
			}
		}
	}
	return nil
}
