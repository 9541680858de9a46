package printer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/alloc"
)

var testSummary = Summary{
	HeapSize: 2097152,
	Mallocs:  3,
	Reallocs: 1,
	Callocs:  0,
	Frees:    2,
}

func TestPrinter_PrintSummary_Text(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, DefaultOptions())
	require.NoError(t, p.PrintSummary(testSummary))

	want := "\n-------------------\n" +
		"HeapSize:\t2097152 bytes\n" +
		"# mallocs:\t3\n" +
		"# reallocs:\t1\n" +
		"# callocs:\t0\n" +
		"# frees:\t2\n" +
		"\n-------------------\n"
	require.Equal(t, want, buf.String())
}

func TestPrinter_PrintSummary_Grouping(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Grouping = true
	p := New(&buf, opts)
	require.NoError(t, p.PrintSummary(testSummary))

	output := buf.String()
	t.Logf("Grouped output:\n%s", output)
	require.Contains(t, output, "HeapSize:\t2,097,152 bytes\n")
	require.Contains(t, output, "# mallocs:\t3\n")
}

func TestPrinter_PrintSummary_JSON(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{Format: FormatJSON})
	require.NoError(t, p.PrintSummary(testSummary))

	var got Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, testSummary, got)
	require.Contains(t, buf.String(), `"heap_size":2097152`)
}

func TestPrinter_PrintFreeList_Text(t *testing.T) {
	tests := []struct {
		name   string
		blocks []alloc.FreeBlock
		want   string
	}{
		{"empty", nil, "FreeList: \n"},
		{"single", []alloc.FreeBlock{{Offset: 0, Size: 4016}}, "FreeList: [offset:0,size:4016]\n"},
		{
			"chain",
			[]alloc.FreeBlock{{Offset: 0, Size: 3872}, {Offset: 4096, Size: 4016}},
			"FreeList: [offset:0,size:3872]->[offset:4096,size:4016]\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := DefaultOptions()
			opts.Grouping = true // never applied to the free list
			require.NoError(t, New(&buf, opts).PrintFreeList(tt.blocks))
			require.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrinter_PrintFreeList_JSON(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{Format: FormatJSON})

	require.NoError(t, p.PrintFreeList(nil))
	require.Equal(t, "{\"free_list\":[]}\n", buf.String())

	buf.Reset()
	require.NoError(t, p.PrintFreeList([]alloc.FreeBlock{{Offset: 280, Size: 48}}))
	require.Equal(t, "{\"free_list\":[{\"offset\":280,\"size\":48}]}\n", buf.String())
}

func TestPrinter_UnknownFormatFallsBackToText(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{Format: "reg"})
	require.NoError(t, p.PrintFreeList([]alloc.FreeBlock{{Offset: 8, Size: 48}}))
	require.Equal(t, "FreeList: [offset:8,size:48]\n", buf.String())
}
