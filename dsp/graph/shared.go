package graph

// Shared memoizes one upstream node per batch so that several downstream
// consumers can read it without recomputation. The first Sample call within
// a batch samples the underlying node and stores the buffer; subsequent
// calls carrying the same BatchIndex return the stored buffer unsampled.
//
// All consumers hold the same *Shared; the garbage collector reclaims the
// wrapper and its cached buffer once the last consumer drops its reference.
type Shared[T any] struct {
	node  Node[T]
	batch uint64
	valid bool
	buf   Buffer[T]
}

// NewShared wraps node in a once-per-batch cache.
func NewShared[T any](node Node[T]) *Shared[T] {
	return &Shared[T]{node: node}
}

// Sample returns the cached buffer when ctx.BatchIndex matches the previous
// call, and samples the underlying node otherwise.
func (s *Shared[T]) Sample(ctx Context) Buffer[T] {
	if s.valid && s.batch == ctx.BatchIndex {
		return s.buf
	}

	s.buf = s.node.Sample(ctx)
	s.batch = ctx.BatchIndex
	s.valid = true

	return s.buf
}
