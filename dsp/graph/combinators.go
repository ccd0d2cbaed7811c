package graph

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
)

type mapNode[A, B any] struct {
	in  Node[A]
	fn  func(A) B
	out []B
}

// Map applies fn elementwise to the output of in. The output buffer is
// reused between batches.
func Map[A, B any](in Node[A], fn func(A) B) Node[B] {
	return &mapNode[A, B]{in: in, fn: fn}
}

func (m *mapNode[A, B]) Sample(ctx Context) Buffer[B] {
	src := m.in.Sample(ctx)
	if v, ok := src.Constant(); ok {
		return Constant(m.fn(v), src.Len())
	}

	data, _ := src.Data()
	m.out = core.EnsureLen(m.out, len(data))

	for i, v := range data {
		m.out[i] = m.fn(v)
	}

	return FromSlice(m.out)
}

type zipNode[A, B, C any] struct {
	a   Node[A]
	b   Node[B]
	fn  func(A, B) C
	out []C
}

// Zip pairs two nodes elementwise through fn. Both inputs are sampled with
// the same context, so their buffer lengths always match; a mismatch means
// an input violated the Node contract and panics before the sample loop.
func Zip[A, B, C any](a Node[A], b Node[B], fn func(A, B) C) Node[C] {
	return &zipNode[A, B, C]{a: a, b: b, fn: fn}
}

func (z *zipNode[A, B, C]) Sample(ctx Context) Buffer[C] {
	ba := z.a.Sample(ctx)
	bb := z.b.Sample(ctx)
	checkSameLen(ba.Len(), bb.Len())

	av, aConst := ba.Constant()
	bv, bConst := bb.Constant()

	if aConst && bConst {
		return Constant(z.fn(av, bv), ba.Len())
	}

	z.out = core.EnsureLen(z.out, ba.Len())
	for i := range z.out {
		z.out[i] = z.fn(ba.At(i), bb.At(i))
	}

	return FromSlice(z.out)
}

func checkSameLen(a, b int) {
	if a != b {
		panic(fmt.Sprintf("graph: buffer length mismatch: %d vs %d (inputs must be sampled with the same context)", a, b))
	}
}
