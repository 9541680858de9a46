package printer

import (
	"fmt"
	"strings"

	"github.com/joshuapare/heapkit/heap/alloc"
)

const rule = "-------------------"

// printf formats through the locale-aware printer when grouping is on.
func (p *Printer) printf(format string, args ...any) error {
	var err error
	if p.opts.Grouping {
		_, err = p.msg.Fprintf(p.writer, format, args...)
	} else {
		_, err = fmt.Fprintf(p.writer, format, args...)
	}
	return err
}

// printSummaryText prints the summary as a ruled block of tab-separated
// counters.
func (p *Printer) printSummaryText(s Summary) error {
	return p.printf("\n%s\n"+
		"HeapSize:\t%d bytes\n"+
		"# mallocs:\t%d\n"+
		"# reallocs:\t%d\n"+
		"# callocs:\t%d\n"+
		"# frees:\t%d\n"+
		"\n%s\n",
		rule, s.HeapSize, s.Mallocs, s.Reallocs, s.Callocs, s.Frees, rule)
}

// printFreeListText prints the free list on one line:
//
//	FreeList: [offset:0,size:3872]->[offset:4096,size:4016]
func (p *Printer) printFreeListText(blocks []alloc.FreeBlock) error {
	var sb strings.Builder
	sb.WriteString("FreeList: ")
	for i, b := range blocks {
		if i > 0 {
			sb.WriteString("->")
		}
		fmt.Fprintf(&sb, "[offset:%d,size:%d]", b.Offset, b.Size)
	}
	sb.WriteByte('\n')
	_, err := fmt.Fprint(p.writer, sb.String())
	return err
}
