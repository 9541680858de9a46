package printer

import (
	"encoding/json"
	"fmt"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// jsonFreeList wraps the free list so the document is an object.
type jsonFreeList struct {
	FreeList []alloc.FreeBlock `json:"free_list"`
}

// printJSON writes v as one line of JSON.
func (p *Printer) printJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}
