// Package alloc implements the placement and coalescing engine of the heap.
//
// # Overview
//
// An Engine carves variable-sized blocks out of extents obtained from a
// Source. Every block, free or allocated, carries an inline 40-byte header
// and is threaded on one address-ordered list (see package block). There is
// no segregated free list: the allocator walks the whole list first-fit.
//
// # Allocation
//
//   - Request size: Align8(n + 40)
//   - Placement: the first free block whose size is at least the request
//   - Split: when the block is at least request + 48 bytes, the new block is
//     taken from its high end and the low part stays free in place
//   - Whole claim: otherwise the block is marked allocated and keeps its
//     full size, so UsableSize may exceed the request
//
// # Growth
//
// The first allocation acquires the first extent. When no block fits, one
// extent of max(extentSize, AlignUp(request+80, extentSize)) bytes is
// acquired, framed with fenceposts and linked at the list tail, and the scan
// is retried once. A single growth therefore always satisfies the request.
//
// # Release
//
// Free merges the released block with free list neighbours:
//
//	left free, right free:  left absorbs both
//	left free only:         left absorbs the block
//	right free only:        the block absorbs right
//	neither:                the block is marked free
//
// Fenceposts are allocated and have size zero, so merges never cross an
// extent boundary.
//
// # Usage Example
//
//	e := alloc.New(alloc.OSSource{}, alloc.WithExtentSize(1<<20))
//	p, err := e.Alloc(128)
//	if err != nil {
//	    return err
//	}
//	b, _ := e.Payload(p)
//	copy(b, data)
//	err = e.Free(p)
//
// Engine is not safe for concurrent use.
package alloc
