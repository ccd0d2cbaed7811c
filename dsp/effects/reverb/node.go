package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/graph"
)

// Node drives a [Reverb] from the signal graph. Room size and damping are
// graph nodes; out-of-range or non-finite control values are clamped per
// sample and applied immediately, unsmoothed. The delay lengths are fixed
// at construction, so the node keeps the sample rate it was built with
// regardless of the context sample rate.
type Node struct {
	in       graph.Node[float64]
	roomSize graph.Node[float64]
	damp     graph.Node[float64]

	reverb *Reverb
	out    []float64
}

// NewNode constructs a graph-driven reverb for the given sample rate.
// roomSize and damp may be nil to hold the configured defaults.
func NewNode(sampleRate float64, in graph.Node[float64], roomSize, damp graph.Node[float64], opts ...Option) (*Node, error) {
	if in == nil {
		return nil, fmt.Errorf("reverb: input node must not be nil")
	}

	r, err := New(sampleRate, opts...)
	if err != nil {
		return nil, err
	}

	return &Node{
		in:       in,
		roomSize: roomSize,
		damp:     damp,
		reverb:   r,
	}, nil
}

// Reverb exposes the underlying processor.
func (n *Node) Reverb() *Reverb { return n.reverb }

// Sample processes one batch.
func (n *Node) Sample(ctx graph.Context) graph.Buffer[float64] {
	in := n.in.Sample(ctx)
	n.out = core.EnsureLen(n.out, in.Len())

	var room, damp graph.Buffer[float64]
	if n.roomSize != nil {
		room = n.roomSize.Sample(ctx)
	}

	if n.damp != nil {
		damp = n.damp.Sample(ctx)
	}

	r := n.reverb
	for i := range n.out {
		if n.roomSize != nil {
			if v := room.At(i); core.IsFinite(v) {
				if v = core.Clamp(v, 0, 1); v != r.roomSize {
					r.setRoomSizeUnchecked(v)
				}
			}
		}

		if n.damp != nil {
			if v := damp.At(i); core.IsFinite(v) {
				if v = core.Clamp(v, 0, 1); v != r.damp {
					r.setDampUnchecked(v)
				}
			}
		}

		n.out[i] = r.ProcessSample(in.At(i))
	}

	return graph.FromSlice(n.out)
}
