package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/pkg/malloc"
)

var (
	stressWorkers int
	stressOps     int
	stressMaxSize int
	stressLive    int
	stressRate    float64
	stressSeed    int64
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVarP(&stressWorkers, "workers", "w", 4, "Number of concurrent workers")
	cmd.Flags().IntVarP(&stressOps, "ops", "n", 10000, "Operations per worker")
	cmd.Flags().IntVar(&stressMaxSize, "max-size", 1024, "Largest request in bytes")
	cmd.Flags().IntVar(&stressLive, "live", 64, "Live allocations kept per worker")
	cmd.Flags().Float64Var(&stressRate, "rate", 0, "Operations per second per worker (0 = unlimited)")
	cmd.Flags().Int64Var(&stressSeed, "seed", 1, "Random seed; worker i uses seed+i")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Hammer the allocator from concurrent workers",
		Long: `The stress command runs workers that malloc, calloc, realloc and free
at random, writing a per-worker byte pattern into every block and checking it
before the block is resized or released. Invariants are verified at the end.

Example:
  mallocctl stress
  mallocctl stress --workers 16 --ops 100000 --max-size 8192
  mallocctl stress --rate 500 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress(cmd.Context())
		},
	}
	return cmd
}

type stressResult struct {
	Workers  int             `json:"workers"`
	Ops      int             `json:"ops"`
	Elapsed  string          `json:"elapsed"`
	Summary  printer.Summary `json:"summary"`
	Engine   alloc.Stats     `json:"engine"`
	Verified bool            `json:"verified"`
}

func runStress(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if stressWorkers <= 0 || stressOps < 0 || stressMaxSize <= 0 || stressLive <= 0 {
		return fmt.Errorf("workers, max-size and live must be positive and ops non-negative")
	}

	a, err := newAllocator(extentSize)
	if err != nil {
		return err
	}

	printVerbose("Starting %d workers x %d ops\n", stressWorkers, stressOps)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for w := range stressWorkers {
		g.Go(func() error {
			sw := &stressWorker{
				id:      w,
				a:       a,
				rng:     rand.New(rand.NewSource(stressSeed + int64(w))),
				pattern: byte(w%255 + 1),
			}
			if stressRate > 0 {
				sw.limiter = rate.NewLimiter(rate.Limit(stressRate), 1)
			}
			return sw.run(ctx, stressOps)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := a.Verify(); err != nil {
		return fmt.Errorf("heap invariants violated: %w", err)
	}
	_, st := a.Stats()

	if jsonOut {
		return printJSON(stressResult{
			Workers:  stressWorkers,
			Ops:      stressWorkers * stressOps,
			Elapsed:  elapsed.String(),
			Summary:  a.Summary(),
			Engine:   st,
			Verified: true,
		})
	}

	printInfo("stress: %d ops across %d workers in %s, invariants OK\n",
		stressWorkers*stressOps, stressWorkers, elapsed.Round(time.Millisecond))
	printVerbose("extents: %d, splits: %d, whole claims: %d, merges: %d left / %d right / %d both\n",
		st.GrowCalls, st.SplitCount, st.WholeClaims, st.CoalesceLeft, st.CoalesceRight, st.CoalesceBoth)
	return printReport(a)
}

// stressWorker owns a set of live blocks, each filled with the worker's
// pattern.
type stressWorker struct {
	id      int
	a       *malloc.Allocator
	rng     *rand.Rand
	limiter *rate.Limiter
	pattern byte
	live    []malloc.Ptr
}

func (w *stressWorker) run(ctx context.Context, ops int) error {
	defer w.releaseAll()

	for i := range ops {
		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				return err
			}
		} else if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := w.step(); err != nil {
			return fmt.Errorf("worker %d, op %d: %w", w.id, i, err)
		}
	}
	return nil
}

func (w *stressWorker) step() error {
	full := len(w.live) >= stressLive
	switch op := w.rng.Intn(10); {
	case len(w.live) > 0 && (full || op < 3):
		k := w.rng.Intn(len(w.live))
		p := w.live[k]
		if err := w.check(p, len(w.a.Bytes(p))); err != nil {
			return err
		}
		w.a.Free(p)
		w.live[k] = w.live[len(w.live)-1]
		w.live = w.live[:len(w.live)-1]

	case len(w.live) > 0 && op < 5:
		k := w.rng.Intn(len(w.live))
		old := len(w.a.Bytes(w.live[k]))
		n := w.rng.Intn(stressMaxSize) + 1
		p := w.a.Realloc(w.live[k], n)
		if p == malloc.Nil {
			return fmt.Errorf("realloc(%d) returned nil", n)
		}
		if err := w.check(p, min(old, n)); err != nil {
			return fmt.Errorf("realloc lost contents: %w", err)
		}
		w.fill(p)
		w.live[k] = p

	case op < 7:
		count := w.rng.Intn(16) + 1
		size := w.rng.Intn(stressMaxSize/count+1) + 1
		p := w.a.Calloc(count, size)
		if p == malloc.Nil {
			return fmt.Errorf("calloc(%d, %d) returned nil", count, size)
		}
		for i, v := range w.a.Bytes(p) {
			if v != 0 {
				return fmt.Errorf("calloc byte %d is 0x%02X", i, v)
			}
		}
		w.fill(p)
		w.live = append(w.live, p)

	default:
		n := w.rng.Intn(stressMaxSize) + 1
		p := w.a.Malloc(n)
		if p == malloc.Nil {
			return fmt.Errorf("malloc(%d) returned nil", n)
		}
		w.fill(p)
		w.live = append(w.live, p)
	}
	return nil
}

func (w *stressWorker) fill(p malloc.Ptr) {
	b := w.a.Bytes(p)
	for i := range b {
		b[i] = w.pattern
	}
}

// check verifies the first n bytes at p carry the worker's pattern.
func (w *stressWorker) check(p malloc.Ptr, n int) error {
	b := w.a.Bytes(p)
	if len(b) < n {
		return fmt.Errorf("block 0x%X shrank to %d bytes", uint64(p), len(b))
	}
	for i, v := range b[:n] {
		if v != w.pattern {
			return fmt.Errorf("block 0x%X byte %d is 0x%02X, want 0x%02X", uint64(p), i, v, w.pattern)
		}
	}
	return nil
}

func (w *stressWorker) releaseAll() {
	for _, p := range w.live {
		w.a.Free(p)
	}
	w.live = nil
}
