package malloc

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/block"
	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/logger"
)

// Ptr is the address of an allocated payload.
type Ptr uint64

// Nil is the null pointer.
const Nil Ptr = 0

func (p Ptr) ref() block.Ref { return block.Ref(p) }

// Counters holds the number of calls to each public operation.
type Counters struct {
	Mallocs  uint64
	Reallocs uint64
	Callocs  uint64
	Frees    uint64
}

// Allocator is a thread-safe heap. Every operation holds one lock for its
// whole duration.
type Allocator struct {
	mu       sync.Mutex
	engine   *alloc.Engine
	cfg      Config
	log      *slog.Logger
	fatal    func(error)
	counters Counters
}

type options struct {
	cfg   Config
	src   alloc.Source
	log   *slog.Logger
	fatal func(error)
}

// Option configures an Allocator.
type Option func(*options)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithSource sets the arena source. Default: alloc.OSSource.
func WithSource(src alloc.Source) Option {
	return func(o *options) { o.src = src }
}

// WithLogger routes allocator logging to l, overriding Config.Log.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithFatalHandler sets the function called when the arena source is
// exhausted. The default logs, prints to stderr and exits with status 2. If
// the handler returns, the failing operation returns Nil.
func WithFatalHandler(fn func(error)) Option {
	return func(o *options) { o.fatal = fn }
}

// New creates an allocator. No memory is requested until first use.
func New(opts ...Option) *Allocator {
	o := options{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}

	log := o.log
	if log == nil {
		if o.cfg.Log {
			log = logger.New(logger.Options{Enabled: true, Writer: os.Stderr, Level: o.cfg.LogLevel})
		} else {
			log = logger.L
		}
	}

	a := &Allocator{
		cfg:   o.cfg,
		log:   log,
		fatal: o.fatal,
	}
	if a.fatal == nil {
		a.fatal = a.exit
	}
	a.engine = alloc.New(o.src,
		alloc.WithExtentSize(o.cfg.ExtentSize),
		alloc.WithLogger(log))
	return a
}

// exit is the default fatal handler.
func (a *Allocator) exit(err error) {
	a.log.Error("allocator cannot continue", "err", err)
	fmt.Fprintf(os.Stderr, "malloc: %v\n", err)
	os.Exit(2)
}

// Config returns the allocator's configuration.
func (a *Allocator) Config() Config { return a.cfg }

// alloc is Malloc without locking or counting.
func (a *Allocator) alloc(n int) Ptr {
	p, err := a.engine.Alloc(n)
	if err != nil {
		a.fatal(err)
		return Nil
	}
	return Ptr(p)
}

// release is Free without locking or counting.
func (a *Allocator) release(p Ptr) {
	if err := a.engine.Free(p.ref()); err != nil {
		a.log.Warn("ignoring release of pointer not owned by the allocator",
			"ptr", fmt.Sprintf("0x%X", uint64(p)), "err", err)
	}
}

// Malloc returns a pointer to at least n usable bytes. Exhaustion of the arena
// source is fatal.
func (a *Allocator) Malloc(n int) Ptr {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.counters.Mallocs++
	return a.alloc(n)
}

// Free releases p. Freeing Nil is a no-op. Releasing a pointer this
// allocator did not hand out is undefined; the cheap cases are logged and
// ignored.
func (a *Allocator) Free(p Ptr) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.counters.Frees++
	if p == Nil {
		return
	}
	a.release(p)
}

// Realloc moves p into a block of at least n usable bytes, copying
// min(old usable size, n) bytes and releasing the old block. Realloc(Nil, n)
// behaves like Malloc(n). The block is never resized in place.
func (a *Allocator) Realloc(p Ptr, n int) Ptr {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.counters.Reallocs++
	q := a.alloc(n)
	if p == Nil || q == Nil {
		return q
	}

	src, err := a.engine.Payload(p.ref())
	if err != nil {
		a.log.Warn("realloc of pointer not owned by the allocator; contents not copied",
			"ptr", fmt.Sprintf("0x%X", uint64(p)), "err", err)
		return q
	}
	dst, err := a.engine.Payload(q.ref())
	if err != nil {
		a.fatal(err)
		return Nil
	}
	copy(dst[:min(len(src), n)], src)
	a.release(p)
	return q
}

// Calloc returns a pointer to count*size zeroed bytes. The whole usable
// payload is cleared.
func (a *Allocator) Calloc(count, size int) Ptr {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.counters.Callocs++
	n, err := buf.ArraySize(count, size)
	if err != nil {
		a.fatal(fmt.Errorf("%w: calloc(%d, %d): %w", alloc.ErrBadSize, count, size, err))
		return Nil
	}
	p := a.alloc(n)
	if p == Nil {
		return Nil
	}
	b, err := a.engine.Payload(p.ref())
	if err != nil {
		a.fatal(err)
		return Nil
	}
	clear(b)
	return p
}

// Bytes returns the usable payload of p as a slice aliasing heap memory. The
// slice is valid until p is freed. It returns nil for Nil or a pointer the
// allocator does not recognise.
func (a *Allocator) Bytes(p Ptr) []byte {
	if p == Nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	b, err := a.engine.Payload(p.ref())
	if err != nil {
		return nil
	}
	return b
}

// UsableSize returns the number of usable bytes at p, which may exceed the
// size requested. It returns 0 for Nil or an unrecognised pointer.
func (a *Allocator) UsableSize(p Ptr) int {
	if p == Nil {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	n, err := a.engine.UsableSize(p.ref())
	if err != nil {
		return 0
	}
	return n
}

// Summary returns the heap-summary report.
func (a *Allocator) Summary() printer.Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	return printer.Summary{
		HeapSize: a.engine.HeapSize(),
		Mallocs:  a.counters.Mallocs,
		Reallocs: a.counters.Reallocs,
		Callocs:  a.counters.Callocs,
		Frees:    a.counters.Frees,
	}
}

// FreeList returns every free block in address order, with offsets relative
// to the start of the heap. The heap is initialised if needed.
func (a *Allocator) FreeList() []alloc.FreeBlock {
	a.mu.Lock()
	defer a.mu.Unlock()

	fl, err := a.engine.FreeBlocks()
	if err != nil {
		a.fatal(err)
		return nil
	}
	return fl
}

// PrintSummary writes the heap-summary report to w.
func (a *Allocator) PrintSummary(w io.Writer, opts printer.Options) error {
	return printer.New(w, opts).PrintSummary(a.Summary())
}

// PrintFreeList writes the free-list dump to w.
func (a *Allocator) PrintFreeList(w io.Writer, opts printer.Options) error {
	return printer.New(w, opts).PrintFreeList(a.FreeList())
}

// Exit writes the heap summary to w when the allocator is verbose. Call it
// once at program exit.
func (a *Allocator) Exit(w io.Writer) error {
	if !a.cfg.Verbose {
		return nil
	}
	return a.PrintSummary(w, printer.DefaultOptions())
}

// Verify checks every heap invariant.
func (a *Allocator) Verify() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	return verify.AllInvariants(a.engine.Space())
}

// Stats returns the public call counters and the engine counters.
func (a *Allocator) Stats() (Counters, alloc.Stats) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.counters, a.engine.Stats()
}
