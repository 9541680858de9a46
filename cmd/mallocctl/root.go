package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/internal/logger"
	"github.com/joshuapare/heapkit/pkg/malloc"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	group      bool
	extentSize int
)

var rootCmd = &cobra.Command{
	Use:   "mallocctl",
	Short: "Exercise and inspect the first-fit heap allocator",
	Long: `mallocctl runs the heap allocator outside of a host program. It can
replay allocation traces, stress the allocator from concurrent workers, and
print the heap summary and free list after each run.`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.Init(logOptions())
		}
	},
}

// logOptions returns the debug logger settings used with --verbose. With
// --json the log records are JSON too.
func logOptions() logger.Options {
	return logger.Options{
		Enabled: true,
		Writer:  os.Stderr,
		Level:   slog.LevelDebug,
		JSON:    jsonOut,
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&group, "group", false, "Group digits in the heap summary")
	rootCmd.PersistentFlags().
		IntVar(&extentSize, "extent-size", 0, "Bytes requested per heap growth (default from MALLOC_EXTENT_SIZE or 2 MiB)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newAllocator builds an allocator from the environment and global flags.
// A non-zero override replaces the configured extent size.
func newAllocator(override int) (*malloc.Allocator, error) {
	cfg, err := malloc.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if override > 0 {
		cfg.ExtentSize = override
	}
	opts := []malloc.Option{malloc.WithConfig(cfg)}
	if verbose {
		opts = append(opts, malloc.WithLogger(logger.L))
	}
	return malloc.New(opts...), nil
}

// printerOptions maps the global output flags onto printer options.
func printerOptions() printer.Options {
	opts := printer.DefaultOptions()
	opts.Grouping = group
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	return opts
}

// printReport prints the heap summary and free list unless quiet.
func printReport(a *malloc.Allocator) error {
	if quiet {
		return nil
	}
	if jsonOut {
		return printJSON(struct {
			Summary  printer.Summary   `json:"summary"`
			FreeList []alloc.FreeBlock `json:"free_list"`
		}{a.Summary(), nonNil(a.FreeList())})
	}
	if err := a.PrintSummary(os.Stdout, printerOptions()); err != nil {
		return err
	}
	return a.PrintFreeList(os.Stdout, printerOptions())
}

// nonNil keeps empty slices rendering as [] in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet && !jsonOut {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet && !jsonOut {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
