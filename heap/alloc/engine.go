package alloc

import (
	"log/slog"

	"github.com/joshuapare/heapkit/heap/block"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
)

// Engine is a first-fit allocator over extents obtained from a Source.
//   - One address-ordered list threads every block, so the list neighbours
//     of a block are its physical neighbours
//   - Allocation carves from the high end of the first free block that fits
//   - Release merges with free immediate neighbours
//
// Engine is not safe for concurrent use; pkg/malloc serialises access.
type Engine struct {
	space      *block.Space
	src        Source
	extentSize uint64
	log        *slog.Logger

	// memStart is the first real block of the first extent. Free-list
	// offsets are reported relative to it.
	memStart block.Ref
	ready    bool

	// Statistics for testing and instrumentation
	stats Stats

	// Test hook: called after each extent is linked (nil in production)
	onGrow func(size uint64)
}

// Stats holds engine counters.
type Stats struct {
	GrowCalls      int    // Extents acquired
	GrowBytes      uint64 // Total bytes claimed from the source
	AllocCalls     int    // Total Alloc() calls
	AllocFastPath  int    // Allocations that succeeded without growth
	AllocSlowPath  int    // Allocations that required growth
	FreeCalls      int    // Total Free() calls
	SplitCount     int    // Free blocks split on allocation
	WholeClaims    int    // Free blocks claimed without splitting
	CoalesceLeft   int    // Releases absorbed into the left neighbour only
	CoalesceRight  int    // Releases that absorbed the right neighbour only
	CoalesceBoth   int    // Releases merged with both neighbours
	BytesAllocated uint64 // Block bytes handed out, headers included
	BytesFreed     uint64 // Block bytes released, headers included
}

// FreeBlock is one entry of the free-list dump.
type FreeBlock struct {
	Offset int64  `json:"offset"` // Header address relative to MemStart
	Size   uint64 `json:"size"`   // Block size, header included
}

// Option configures an Engine.
type Option func(*Engine)

// WithExtentSize sets the number of bytes requested per growth. Values below
// format.MinExtentSize are raised to it; sizes are rounded to the word size.
func WithExtentSize(n int) Option {
	return func(e *Engine) {
		switch {
		case n <= 0:
			e.extentSize = format.DefaultExtentSize
		case n < format.MinExtentSize:
			e.extentSize = format.MinExtentSize
		default:
			e.extentSize = format.Align8(uint64(n))
		}
	}
}

// WithLogger routes engine logging to l.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an engine drawing extents from src. No memory is requested
// until the first allocation. A nil src means OSSource.
func New(src Source, opts ...Option) *Engine {
	if src == nil {
		src = OSSource{}
	}
	e := &Engine{
		space:      block.NewSpace(),
		src:        src,
		extentSize: format.DefaultExtentSize,
		log:        logger.L,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ensureInit acquires the first extent on first use.
func (e *Engine) ensureInit() error {
	if e.ready {
		return nil
	}
	_, err := e.Grow(0)
	return err
}

// Space exposes the block list for verification and diagnostics.
func (e *Engine) Space() *block.Space { return e.space }

// HeapSize returns the total bytes claimed from the source. It never decreases.
func (e *Engine) HeapSize() uint64 { return e.stats.GrowBytes }

// MemStart returns the address of the first block of the first extent, or
// block.Sentinel before initialisation.
func (e *Engine) MemStart() block.Ref { return e.memStart }

// ExtentSize returns the configured growth increment.
func (e *Engine) ExtentSize() uint64 { return e.extentSize }

// Stats returns a copy of the engine counters.
func (e *Engine) Stats() Stats { return e.stats }

// FreeBlocks lists every free block in address order, initialising the heap
// if needed.
func (e *Engine) FreeBlocks() ([]FreeBlock, error) {
	if err := e.ensureInit(); err != nil {
		return nil, err
	}
	var out []FreeBlock
	e.space.Walk(func(h block.Header) bool {
		if h.Allocated() {
			return true
		}
		out = append(out, FreeBlock{
			Offset: int64(h.Ref()) - int64(e.memStart),
			Size:   h.Size(),
		})
		return true
	})
	return out, nil
}
