package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap/block"
	"github.com/joshuapare/heapkit/internal/format"
)

// requestSize converts a payload request into a block size: header plus
// payload, rounded up to the alignment.
func requestSize(n int) (uint64, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	return format.Align8(uint64(n) + format.HeaderSize), nil
}

// Alloc returns the payload address of a block with at least n usable bytes.
// A zero-byte request still yields a distinct block.
//
// The list is scanned first-fit. On a miss one extent sized for the request
// is acquired and the scan is retried once.
func (e *Engine) Alloc(n int) (block.Ref, error) {
	e.stats.AllocCalls++

	need, err := requestSize(n)
	if err != nil {
		return block.Sentinel, err
	}
	if err := e.ensureInit(); err != nil {
		return block.Sentinel, err
	}

	h, ok := e.firstFit(need)
	if ok {
		e.stats.AllocFastPath++
	} else {
		if _, err := e.Grow(need); err != nil {
			return block.Sentinel, err
		}
		if h, ok = e.firstFit(need); !ok {
			return block.Sentinel, fmt.Errorf("%w: %d bytes after growth", ErrNoSpace, need)
		}
		e.stats.AllocSlowPath++
	}

	h = e.claim(h, need)
	e.stats.BytesAllocated += h.Size()
	return h.PayloadRef(), nil
}

// firstFit returns the lowest-addressed free block of at least need bytes.
func (e *Engine) firstFit(need uint64) (block.Header, bool) {
	var (
		found block.Header
		ok    bool
	)
	e.space.Walk(func(h block.Header) bool {
		if h.Allocated() || h.Size() < need {
			return true
		}
		found, ok = h, true
		return false
	})
	return found, ok
}

// claim marks need bytes of the free block h as allocated. When the
// remainder could hold a minimal block, the allocation is carved from the
// high end of h and linked after it, leaving h free with the low bytes.
// Otherwise h is claimed whole and keeps its full size.
func (e *Engine) claim(h block.Header, need uint64) block.Header {
	size := h.Size()
	if size < need+format.SplitSlack {
		h.SetAllocated(true)
		e.stats.WholeClaims++
		return h
	}

	rest := size - need
	h.SetSize(rest)
	n := e.space.At(h.Ref() + block.Ref(rest))
	n.Init(need, rest, true)
	e.space.InsertAfter(h, n)
	e.stats.SplitCount++
	return n
}
