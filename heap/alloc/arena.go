package alloc

import (
	"fmt"
	"math"

	"github.com/joshuapare/heapkit/heap/block"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// extentFor returns the extent size needed to hold a block of need bytes:
// the configured increment, or the smallest multiple of it that fits the
// block between two fenceposts.
func (e *Engine) extentFor(need uint64) (uint64, error) {
	framed, ok := buf.AddOverflowSafe(need, 2*format.HeaderSize)
	if !ok || framed > math.MaxInt {
		return 0, fmt.Errorf("%w: %d bytes", ErrBadSize, need)
	}
	size := e.extentSize
	if framed > size {
		size = format.AlignUp(framed, e.extentSize)
	}
	if size > math.MaxInt {
		return 0, fmt.Errorf("%w: %d bytes", ErrBadSize, need)
	}
	return size, nil
}

// Grow acquires one extent able to hold a block of need bytes (header
// included), frames it with fenceposts and links it after the current list
// tail. It returns the extent's single free block.
//
// Layout of a fresh extent of size S at base B:
//
//	B          head fencepost  size 0, allocated
//	B+40       free block      size S-80
//	B+S-40     foot fencepost  size 0, allocated
//
// The first call also records the heap start.
func (e *Engine) Grow(need uint64) (block.Header, error) {
	size, err := e.extentFor(need)
	if err != nil {
		return block.Header{}, err
	}

	data, err := e.src.RequestExtent(int(size))
	if err != nil {
		e.log.Error("extent request failed",
			"bytes", size, "heap_bytes", e.stats.GrowBytes, "err", err)
		return block.Header{}, fmt.Errorf("%w: extent of %d bytes: %w", ErrOutOfMemory, size, err)
	}
	if uint64(len(data)) < size {
		return block.Header{}, fmt.Errorf("%w: got %d of %d bytes", ErrShortExtent, len(data), size)
	}
	base, err := e.space.AddExtent(data[:size])
	if err != nil {
		return block.Header{}, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	e.stats.GrowCalls++
	e.stats.GrowBytes += size

	// The previous foot fencepost (or the sentinel on first growth).
	tail := e.space.Last()
	var leftSize uint64
	if !tail.IsSentinel() {
		leftSize = e.space.Prev(tail).Size()
	}

	head := e.space.At(base)
	head.Init(0, 0, true)
	free := e.space.At(base + format.HeaderSize)
	free.Init(size-2*format.HeaderSize, leftSize, false)
	foot := e.space.At(base + block.Ref(size) - format.HeaderSize)
	foot.Init(0, 0, true)

	e.space.InsertAfter(tail, head)
	e.space.InsertAfter(head, free)
	e.space.InsertAfter(free, foot)

	if !e.ready {
		e.memStart = free.Ref()
		e.ready = true
	}

	e.log.Debug("extent acquired",
		"base", uint64(base), "bytes", size,
		"extents", e.stats.GrowCalls, "heap_bytes", e.stats.GrowBytes)

	if e.onGrow != nil {
		e.onGrow(size)
	}
	return free, nil
}
