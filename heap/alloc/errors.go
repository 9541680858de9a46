package alloc

import (
	"errors"

	"github.com/joshuapare/heapkit/heap/block"
)

var (
	// ErrOutOfMemory indicates the arena source could not supply an extent.
	ErrOutOfMemory = errors.New("alloc: arena source exhausted")

	// ErrNoSpace indicates that no free block was large enough even after growth.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrBadSize indicates a negative or unrepresentable request size.
	ErrBadSize = errors.New("alloc: invalid request size")

	// ErrBadRef indicates a pointer that does not name a block of this heap.
	ErrBadRef = block.ErrBadRef

	// ErrNotAllocated indicates a release of a block that is not marked allocated.
	ErrNotAllocated = errors.New("alloc: block is not allocated")

	// ErrShortExtent indicates the arena source returned fewer bytes than requested.
	ErrShortExtent = errors.New("alloc: arena source returned a short extent")
)
