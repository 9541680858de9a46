// Package block is the boundary layer between raw extent bytes and the
// allocator: it decodes block headers in place and maintains the single
// address-ordered block list.
//
// # Address Space
//
// Every extent obtained from the arena source is appended to a Space and
// given a base address immediately after the previous extent, starting at
// 0x1000. A Ref is an address in that space:
//
//	0x0000           sentinel (not backed by an extent)
//	0x1000           extent 0: [head fencepost][blocks...][foot fencepost]
//	0x1000+size(0)   extent 1: [head fencepost][blocks...][foot fencepost]
//
// Because extents are placed in acquisition order, address order and list
// order agree across the whole heap.
//
// # Block List
//
// The list is circular and doubly linked through the sentinel and threads
// every header, including fenceposts:
//
//	sentinel → head₀ → … → foot₀ → head₁ → … → footₙ → sentinel
//
// The prev and next of any block are therefore its physical neighbours,
// which is what coalescing relies on.
//
// # Safety
//
// All unchecked arithmetic on addresses is confined to Space. Lookup
// validates alignment and extent bounds and returns ErrBadRef; At panics on
// the same conditions and is meant for addresses read back from the list.
package block
