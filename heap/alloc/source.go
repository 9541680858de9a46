package alloc

import (
	"errors"
	"fmt"

	"github.com/joshuapare/heapkit/internal/osmem"
)

// Source supplies zero-filled contiguous extents. Extents are never
// returned; the engine holds them for its whole lifetime.
type Source interface {
	RequestExtent(size int) ([]byte, error)
}

// OSSource maps each extent directly from the kernel.
type OSSource struct{}

// RequestExtent implements Source.
func (OSSource) RequestExtent(size int) ([]byte, error) {
	return osmem.Map(size)
}

// HeapSource carves extents from the Go heap. Useful in tests and on
// platforms without anonymous mappings.
type HeapSource struct{}

// RequestExtent implements Source.
func (HeapSource) RequestExtent(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("heap source: invalid extent size %d", size)
	}
	return make([]byte, size), nil
}

// ErrLimitReached is returned by LimitSource once its budget is spent.
var ErrLimitReached = errors.New("alloc: source limit reached")

// LimitSource caps the total bytes another source may hand out.
type LimitSource struct {
	Source    Source
	Remaining int
}

// RequestExtent implements Source.
func (l *LimitSource) RequestExtent(size int) ([]byte, error) {
	if size > l.Remaining {
		return nil, fmt.Errorf("%w: want %d bytes, %d left", ErrLimitReached, size, l.Remaining)
	}
	data, err := l.Source.RequestExtent(size)
	if err != nil {
		return nil, err
	}
	l.Remaining -= len(data)
	return data, nil
}
