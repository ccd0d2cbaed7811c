package ladder

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/graph"
)

// Node drives a [Filter] from the signal graph: the audio input, cutoff and
// resonance are all graph nodes, so an envelope can sweep the cutoff while
// control values stay constant-cost when lifted with graph.Const.
// Coefficients are rederived only on samples where cutoff, resonance or the
// context sample rate actually changed.
type Node struct {
	in        graph.Node[float64]
	cutoff    graph.Node[float64]
	resonance graph.Node[float64]

	filter *Filter
	out    []float64
}

// NewNode constructs a graph-driven ladder filter. cutoff and resonance may
// be nil to hold the configured defaults.
func NewNode(in graph.Node[float64], cutoff, resonance graph.Node[float64], opts ...Option) (*Node, error) {
	if in == nil {
		return nil, fmt.Errorf("ladder: input node must not be nil")
	}

	filter, err := New(core.DefaultProcessorConfig().SampleRate, opts...)
	if err != nil {
		return nil, err
	}

	return &Node{
		in:        in,
		cutoff:    cutoff,
		resonance: resonance,
		filter:    filter,
	}, nil
}

// Filter exposes the underlying processor for state inspection.
func (n *Node) Filter() *Filter { return n.filter }

// Sample filters one batch.
func (n *Node) Sample(ctx graph.Context) graph.Buffer[float64] {
	f := n.filter
	f.sampleRate = ctx.SampleRate

	in := n.in.Sample(ctx)
	n.out = core.EnsureLen(n.out, in.Len())

	var cutoff, resonance graph.Buffer[float64]
	if n.cutoff != nil {
		cutoff = n.cutoff.Sample(ctx)
	}

	if n.resonance != nil {
		resonance = n.resonance.Sample(ctx)
	}

	for i := range n.out {
		if n.cutoff != nil {
			if c := cutoff.At(i); core.IsFinite(c) {
				f.cutoffHz = core.Clamp(c, minCutoffHz, nyquistHeadroom*ctx.SampleRate)
			}
		}

		if n.resonance != nil {
			if r := resonance.At(i); core.IsFinite(r) {
				f.resonance = core.Clamp(r, 0, maxResonance)
			}
		}

		n.out[i] = f.ProcessSample(in.At(i))
	}

	return graph.FromSlice(n.out)
}
