// Package verify provides validation functions for heap block lists.
//
// # Overview
//
// The checks walk a block.Space with bounds-checked lookups, so a corrupt
// heap yields a ValidationError rather than a panic. They are used by the
// allocator tests after every operation and by mallocctl after a stress or
// replay run.
//
// Validation categories:
//   - Links: the list is circular through the sentinel and next/prev agree
//   - Order: list order is strictly increasing address order
//   - Extents: each extent is framed by fenceposts and tiled by its blocks
//   - Coalesced: no two list neighbours are both free
//
// # Quick Start
//
//	if err := verify.AllInvariants(engine.Space()); err != nil {
//	    fmt.Printf("Validation failed: %v\n", err)
//	}
//
// # ValidationError
//
// Every failure is a *ValidationError carrying the check name in Type and,
// where one applies, the address of the offending header in Ref:
//
//	var ve *verify.ValidationError
//	if errors.As(err, &ve) {
//	    fmt.Printf("%s failed at 0x%X\n", ve.Type, ve.Ref)
//	}
//
// Links uses a roaring64 bitmap to detect cycles that skip the sentinel.
package verify
