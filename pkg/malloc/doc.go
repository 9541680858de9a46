// Package malloc is the public face of the heap: a lock-protected allocator
// with Malloc, Free, Realloc and Calloc over the first-fit engine in
// heap/alloc.
//
// # Quick Start
//
//	a := malloc.New()
//	p := a.Malloc(64)
//	copy(a.Bytes(p), "hello")
//	p = a.Realloc(p, 256)
//	a.Free(p)
//
// The package-level functions use a process-wide allocator configured from
// the environment:
//
//	defer malloc.AtExit()
//	p := malloc.Calloc(16, 8)
//	defer malloc.Free(p)
//
// # Pointers
//
// A Ptr is an address in the allocator's own address space, not a Go
// pointer. Bytes returns a slice over the payload; it aliases heap memory and
// must not be used after the pointer is freed.
//
// # Failure
//
// Exhaustion of the arena source is fatal: the configured handler runs (by
// default the process exits with status 2) and no failure value is returned
// to the caller. Releasing a foreign pointer or releasing twice is undefined;
// the cases the engine can detect cheaply are logged at Warn and ignored.
//
// # Environment
//
//	MALLOCVERBOSE=NO          suppress the summary printed by AtExit
//	MALLOC_LOG=debug          log to stderr at the given level
//	MALLOC_EXTENT_SIZE=65536  bytes requested per growth (default 2 MiB)
package malloc
