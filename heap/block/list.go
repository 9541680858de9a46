package block

// The block list is circular and doubly linked through the sentinel. It
// threads every header, free or allocated, fenceposts included, in address
// order. Mutations only ever link a header next to the block it was carved
// from or spliced after, which keeps that order without any sorting.

// First returns the lowest-addressed header, or the sentinel when the list is empty.
func (s *Space) First() Header { return s.At(s.At(Sentinel).Next()) }

// Last returns the highest-addressed header, or the sentinel when the list is empty.
func (s *Space) Last() Header { return s.At(s.At(Sentinel).Prev()) }

// Next returns the header following h.
func (s *Space) Next(h Header) Header { return s.At(h.Next()) }

// Prev returns the header preceding h.
func (s *Space) Prev(h Header) Header { return s.At(h.Prev()) }

// InsertAfter links n immediately after at.
func (s *Space) InsertAfter(at, n Header) {
	next := s.At(at.Next())
	n.SetPrev(at.ref)
	n.SetNext(next.ref)
	next.SetPrev(n.ref)
	at.SetNext(n.ref)
}

// InsertBefore links n immediately before at.
func (s *Space) InsertBefore(at, n Header) {
	s.InsertAfter(s.At(at.Prev()), n)
}

// Join makes a and b direct neighbours, unlinking every header between them.
// Unlinked headers are left in place; their bytes become part of a's span.
func (s *Space) Join(a, b Header) {
	a.SetNext(b.ref)
	b.SetPrev(a.ref)
}

// Walk calls fn for every header in address order, stopping early when fn
// returns false.
func (s *Space) Walk(fn func(Header) bool) {
	for h := s.First(); !h.IsSentinel(); h = s.Next(h) {
		if !fn(h) {
			return
		}
	}
}

// Len returns the number of headers in the list, fenceposts included.
func (s *Space) Len() int {
	n := 0
	s.Walk(func(Header) bool {
		n++
		return true
	})
	return n
}
