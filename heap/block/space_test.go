package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

// layoutExtent writes [fencepost][free block][fencepost] into a fresh extent
// and links the three headers after the current list tail.
func layoutExtent(t *testing.T, s *Space, size int) (head, free, foot Header) {
	t.Helper()
	base, err := s.AddExtent(make([]byte, size))
	require.NoError(t, err)

	head = s.At(base)
	head.Init(0, 0, true)
	free = s.At(base + format.HeaderSize)
	free.Init(uint64(size)-2*format.HeaderSize, 0, false)
	foot = s.At(base + Ref(size) - format.HeaderSize)
	foot.Init(0, 0, true)

	tail := s.Last()
	s.InsertAfter(tail, head)
	s.InsertAfter(head, free)
	s.InsertAfter(free, foot)
	return head, free, foot
}

func TestNewSpaceEmptyList(t *testing.T) {
	s := NewSpace()
	assert.True(t, s.First().IsSentinel())
	assert.True(t, s.Last().IsSentinel())
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Extents())
}

func TestAddExtentPlacesBackToBack(t *testing.T) {
	s := NewSpace()
	b0, err := s.AddExtent(make([]byte, 4096))
	require.NoError(t, err)
	b1, err := s.AddExtent(make([]byte, 8192))
	require.NoError(t, err)

	assert.Equal(t, Ref(format.HeapBase), b0)
	assert.Equal(t, b0+4096, b1)
	assert.Equal(t, []Extent{{Base: b0, Size: 4096}, {Base: b1, Size: 8192}}, s.Extents())
	assert.Equal(t, b1+8192, s.Extents()[1].End())
}

func TestAddExtentRejectsBadSizes(t *testing.T) {
	s := NewSpace()
	_, err := s.AddExtent(make([]byte, format.MinExtentSize-8))
	require.Error(t, err)
	_, err = s.AddExtent(make([]byte, 4097))
	require.Error(t, err)
}

func TestLookupBounds(t *testing.T) {
	s := NewSpace()
	base, err := s.AddExtent(make([]byte, 4096))
	require.NoError(t, err)

	_, err = s.Lookup(base)
	require.NoError(t, err)

	_, err = s.Lookup(base + 4096 - format.HeaderSize)
	require.NoError(t, err, "last header slot is addressable")

	_, err = s.Lookup(base + 4096 - 8)
	require.ErrorIs(t, err, ErrBadRef, "header may not cross the extent end")

	_, err = s.Lookup(base + 4)
	require.ErrorIs(t, err, ErrBadRef, "misaligned")

	_, err = s.Lookup(0x800)
	require.ErrorIs(t, err, ErrBadRef, "below heap base")

	_, err = s.Lookup(base + 4096)
	require.ErrorIs(t, err, ErrBadRef, "past last extent")

	assert.Panics(t, func() { s.At(base + 4) })
}

func TestHeaderFieldsWriteThrough(t *testing.T) {
	s := NewSpace()
	_, free, _ := layoutExtent(t, s, 4096)

	free.SetSize(1024)
	free.SetLeftSize(64)
	free.SetAllocated(true)

	again := s.At(free.Ref())
	assert.Equal(t, uint64(1024), again.Size())
	assert.Equal(t, uint64(64), again.LeftSize())
	assert.True(t, again.Allocated())
	assert.False(t, again.Mergeable())

	again.SetAllocated(false)
	assert.True(t, free.Mergeable())
	assert.Equal(t, free.Ref()+format.HeaderSize, free.PayloadRef())
}

func TestPayload(t *testing.T) {
	s := NewSpace()
	head, free, _ := layoutExtent(t, s, 4096)

	p, err := s.Payload(free)
	require.NoError(t, err)
	assert.Len(t, p, 4096-3*format.HeaderSize)

	p, err = s.Payload(head)
	require.NoError(t, err)
	assert.Nil(t, p, "fenceposts have no payload")

	free.SetSize(8192)
	_, err = s.Payload(free)
	require.ErrorIs(t, err, ErrBadRef)
}

func TestFencepostAndSpan(t *testing.T) {
	s := NewSpace()
	head, free, foot := layoutExtent(t, s, 4096)

	assert.True(t, head.IsFencepost())
	assert.True(t, foot.IsFencepost())
	assert.False(t, free.IsFencepost())
	assert.False(t, s.At(Sentinel).IsFencepost(), "sentinel is not a fencepost")
	assert.False(t, head.Mergeable())

	assert.Equal(t, uint64(format.HeaderSize), head.Span())
	assert.Equal(t, free.Size(), free.Span())
	d, err := head.Decode()
	require.NoError(t, err)
	assert.Equal(t, format.Header{Size: 0, Allocated: true, Next: uint64(free.Ref())}, d)
}
