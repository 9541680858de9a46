package malloc

import (
	"io"
	"os"
	"sync"

	"github.com/joshuapare/heapkit/internal/logger"
)

// Default returns the process-wide allocator, created on first call from the
// environment (see LoadConfig).
var Default = sync.OnceValue(func() *Allocator {
	cfg, err := LoadConfig()
	if err != nil {
		logger.L.Warn("ignoring malformed allocator environment", "err", err)
	}
	return New(WithConfig(cfg))
})

// Malloc allocates from the default allocator.
func Malloc(n int) Ptr { return Default().Malloc(n) }

// Free releases p to the default allocator.
func Free(p Ptr) { Default().Free(p) }

// Realloc resizes p in the default allocator.
func Realloc(p Ptr, n int) Ptr { return Default().Realloc(p, n) }

// Calloc allocates zeroed memory from the default allocator.
func Calloc(count, size int) Ptr { return Default().Calloc(count, size) }

// Bytes returns the payload of p in the default allocator.
func Bytes(p Ptr) []byte { return Default().Bytes(p) }

// AtExit prints the default allocator's summary to stdout unless
// MALLOCVERBOSE=NO. Typically deferred in main.
func AtExit() {
	atExit(Default(), os.Stdout)
}

// atExit writes the exit report; a write failure is logged since there is
// no caller left to return it to.
func atExit(a *Allocator, w io.Writer) {
	if err := a.Exit(w); err != nil {
		a.log.Error("write heap summary at exit", "err", err)
	}
}
