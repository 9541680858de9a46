package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap/block"
	"github.com/joshuapare/heapkit/internal/format"
)

// header resolves a payload address to the header in front of it. Only the
// cheap checks are made: the header must lie inside an extent, be aligned,
// and not be a fencepost. An interior payload address that happens to pass
// those checks is not detected.
func (e *Engine) header(p block.Ref) (block.Header, error) {
	if p < format.HeapBase+format.HeaderSize {
		return block.Header{}, fmt.Errorf("0x%X: %w", uint64(p), ErrBadRef)
	}
	h, err := e.space.Lookup(p - format.HeaderSize)
	if err != nil {
		return block.Header{}, fmt.Errorf("0x%X: %w", uint64(p), err)
	}
	if h.IsFencepost() {
		return block.Header{}, fmt.Errorf("0x%X: fencepost: %w", uint64(p), ErrBadRef)
	}
	return h, nil
}

// Free releases the block whose payload starts at p and merges it with any
// free immediate neighbour. The surviving free block is the lowest-addressed
// of the merged ones, and adjacent free blocks never remain afterwards.
func (e *Engine) Free(p block.Ref) error {
	e.stats.FreeCalls++

	h, err := e.header(p)
	if err != nil {
		return err
	}
	if !h.Allocated() {
		return fmt.Errorf("0x%X: %w", uint64(p), ErrNotAllocated)
	}
	e.stats.BytesFreed += h.Size()

	left, right := e.space.Prev(h), e.space.Next(h)
	switch lm, rm := left.Mergeable(), right.Mergeable(); {
	case lm && rm:
		left.SetSize(left.Size() + h.Size() + right.Size())
		e.space.Join(left, e.space.Next(right))
		e.stats.CoalesceBoth++
	case lm:
		left.SetSize(left.Size() + h.Size())
		e.space.Join(left, right)
		e.stats.CoalesceLeft++
	case rm:
		h.SetSize(h.Size() + right.Size())
		e.space.Join(h, e.space.Next(right))
		e.stats.CoalesceRight++
	}
	// h may now be an absorbed, stale header. Its flag is cleared either way.
	h.SetAllocated(false)
	return nil
}

// Payload returns the usable bytes of the block at p.
func (e *Engine) Payload(p block.Ref) ([]byte, error) {
	h, err := e.header(p)
	if err != nil {
		return nil, err
	}
	return e.space.Payload(h)
}

// UsableSize returns the number of usable bytes of the block at p, which may
// exceed the size originally requested.
func (e *Engine) UsableSize(p block.Ref) (int, error) {
	h, err := e.header(p)
	if err != nil {
		return 0, err
	}
	if h.Size() < format.HeaderSize {
		return 0, nil
	}
	return int(h.Size() - format.HeaderSize), nil
}
