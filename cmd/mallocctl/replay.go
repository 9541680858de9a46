package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/pkg/malloc"
)

func init() {
	rootCmd.AddCommand(newReplayCmd())
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>",
		Short: "Replay an allocation trace",
		Long: `The replay command executes an allocation trace against a fresh heap,
verifies its invariants and prints the heap summary and free list.

Trace format, one operation per line:
  a <id> <size>          malloc
  c <id> <count> <size>  calloc
  r <id> <size>          realloc (an unknown id reallocs nil)
  f <id>                 free
  # comment

Use "-" to read the trace from stdin.

Example:
  mallocctl replay workload.trace
  mallocctl replay workload.trace --extent-size 65536 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args)
		},
	}
	return cmd
}

// traceOp is one parsed trace line.
type traceOp struct {
	Line  int
	Kind  byte
	ID    string
	Count int
	Size  int
}

// parseTrace reads a trace, skipping blank lines and comments.
func parseTrace(r io.Reader) ([]traceOp, error) {
	var ops []traceOp
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		op := traceOp{Line: line}

		var want int
		switch fields[0] {
		case "a", "r":
			want = 3
		case "c":
			want = 4
		case "f":
			want = 2
		default:
			return nil, fmt.Errorf("line %d: unknown operation %q", line, fields[0])
		}
		if len(fields) != want {
			return nil, fmt.Errorf("line %d: %q takes %d fields, got %d", line, fields[0], want, len(fields))
		}
		op.Kind, op.ID = fields[0][0], fields[1]

		nums := make([]int, 0, 2)
		for _, f := range fields[2:] {
			n, err := strconv.Atoi(f)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("line %d: invalid size %q", line, f)
			}
			nums = append(nums, n)
		}
		switch op.Kind {
		case 'a', 'r':
			op.Size = nums[0]
		case 'c':
			op.Count, op.Size = nums[0], nums[1]
		}
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return ops, nil
}

// runTrace executes ops against a, tracking live pointers by id. Blocks
// still live at the end are left allocated.
func runTrace(a *malloc.Allocator, ops []traceOp) (map[string]malloc.Ptr, error) {
	live := make(map[string]malloc.Ptr)
	for _, op := range ops {
		p, ok := live[op.ID]
		switch op.Kind {
		case 'a', 'c':
			if ok {
				return nil, fmt.Errorf("line %d: id %q is already live", op.Line, op.ID)
			}
			if op.Kind == 'a' {
				live[op.ID] = a.Malloc(op.Size)
			} else {
				live[op.ID] = a.Calloc(op.Count, op.Size)
			}
		case 'r':
			live[op.ID] = a.Realloc(p, op.Size)
		case 'f':
			if !ok {
				return nil, fmt.Errorf("line %d: free of unknown id %q", op.Line, op.ID)
			}
			a.Free(p)
			delete(live, op.ID)
		}
		printVerbose("line %d: %c %s\n", op.Line, op.Kind, op.ID)
	}
	return live, nil
}

func runReplay(args []string) error {
	var r io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open trace: %w", err)
		}
		defer f.Close()
		r = f
	}

	ops, err := parseTrace(r)
	if err != nil {
		return err
	}

	a, err := newAllocator(extentSize)
	if err != nil {
		return err
	}
	live, err := runTrace(a, ops)
	if err != nil {
		return err
	}
	if err := a.Verify(); err != nil {
		return fmt.Errorf("heap invariants violated: %w", err)
	}

	printInfo("replayed %d operations, %d blocks live\n", len(ops), len(live))
	return printReport(a)
}
