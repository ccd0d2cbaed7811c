package graph

import "github.com/cwbudde/algo-synth/dsp/core"

// Node produces one buffer of output per sampling call. Implementations may
// mutate internal state but must not perform external I/O; the returned
// buffer must hold exactly ctx.NumSamples logical elements.
type Node[T any] interface {
	Sample(ctx Context) Buffer[T]
}

// NodeFunc adapts a plain function to the Node interface.
type NodeFunc[T any] func(ctx Context) Buffer[T]

// Sample calls f.
func (f NodeFunc[T]) Sample(ctx Context) Buffer[T] { return f(ctx) }

type constNode[T any] struct {
	value T
}

// Const lifts a scalar to a node that always returns a constant buffer of
// the requested batch length.
func Const[T any](value T) Node[T] {
	return constNode[T]{value: value}
}

func (c constNode[T]) Sample(ctx Context) Buffer[T] {
	return Constant(c.value, ctx.NumSamples)
}

type playbackNode struct {
	data []float64
	pos  int
	out  []float64
}

// Playback returns a node that plays data once across successive batches
// and yields silence afterwards. Useful for feeding recorded buffers or
// test impulses into a graph.
func Playback(data []float64) Node[float64] {
	return &playbackNode{data: data}
}

func (p *playbackNode) Sample(ctx Context) Buffer[float64] {
	n := ctx.NumSamples
	if p.pos >= len(p.data) {
		return Constant(0.0, n)
	}

	p.out = core.EnsureLen(p.out, n)
	copied := copy(p.out, p.data[p.pos:])
	p.pos += copied

	for i := copied; i < n; i++ {
		p.out[i] = 0
	}

	return FromSlice(p.out)
}
