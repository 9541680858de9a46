// Package printer renders the heap summary and free-list dump as text or JSON.
package printer

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs the human-readable report.
	FormatText Format = "text"

	// FormatJSON outputs one JSON document per call.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// Grouping renders byte counts with thousands separators (text only).
	// Default: false
	Grouping bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:   FormatText,
		Grouping: false,
	}
}

// Summary is the heap-summary report: bytes claimed from the arena source
// and the number of calls to each public operation.
type Summary struct {
	HeapSize uint64 `json:"heap_size"`
	Mallocs  uint64 `json:"mallocs"`
	Reallocs uint64 `json:"reallocs"`
	Callocs  uint64 `json:"callocs"`
	Frees    uint64 `json:"frees"`
}

// Printer handles formatted output of heap diagnostics.
type Printer struct {
	opts   Options
	writer io.Writer
	msg    *message.Printer
}

// New creates a new Printer writing to w.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintFreeList(blocks)
func New(w io.Writer, opts Options) *Printer {
	return &Printer{
		opts:   opts,
		writer: w,
		msg:    message.NewPrinter(language.English),
	}
}

// PrintSummary prints the heap-summary report.
func (p *Printer) PrintSummary(s Summary) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(s)
	case FormatText:
		return p.printSummaryText(s)
	default:
		return p.printSummaryText(s)
	}
}

// PrintFreeList prints every free block as an offset/size pair, in address
// order.
func (p *Printer) PrintFreeList(blocks []alloc.FreeBlock) error {
	switch p.opts.Format {
	case FormatJSON:
		if blocks == nil {
			blocks = []alloc.FreeBlock{}
		}
		return p.printJSON(jsonFreeList{FreeList: blocks})
	case FormatText:
		return p.printFreeListText(blocks)
	default:
		return p.printFreeListText(blocks)
	}
}
