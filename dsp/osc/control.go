package osc

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/graph"
)

// PeriodicGate is a boolean node that is true for the duty fraction of each
// period. Combined with [RisingEdge] it provides a periodic trigger source.
type PeriodicGate struct {
	freq graph.Node[float64]
	duty float64

	phase float64
	out   []bool
}

// NewPeriodicGate constructs a gate running at the frequency read from
// freq. duty must be in (0, 1].
func NewPeriodicGate(freq graph.Node[float64], duty float64) (*PeriodicGate, error) {
	if freq == nil {
		return nil, fmt.Errorf("osc: gate frequency node must not be nil")
	}

	if !core.IsFinite(duty) || duty <= 0 || duty > 1 {
		return nil, fmt.Errorf("osc: gate duty must be in (0, 1]: %f", duty)
	}

	return &PeriodicGate{freq: freq, duty: duty}, nil
}

// Sample produces the gate states for one batch.
func (g *PeriodicGate) Sample(ctx graph.Context) graph.Buffer[bool] {
	g.out = core.EnsureLen(g.out, ctx.NumSamples)
	freq := g.freq.Sample(ctx)

	for i := range g.out {
		g.out[i] = g.phase < g.duty

		next := g.phase + freq.At(i)/ctx.SampleRate
		if core.IsFinite(next) {
			g.phase = next - math.Floor(next)
		}
	}

	return graph.FromSlice(g.out)
}

type risingEdgeNode struct {
	in   graph.Node[bool]
	last bool
	out  []bool
}

// RisingEdge converts a level-held gate into a trigger that is true for
// exactly the samples where a 0→1 transition occurred. The previous gate
// value is carried across batches, so a gate held high over a batch
// boundary never fires spuriously.
func RisingEdge(in graph.Node[bool]) graph.Node[bool] {
	return &risingEdgeNode{in: in}
}

func (r *risingEdgeNode) Sample(ctx graph.Context) graph.Buffer[bool] {
	buf := r.in.Sample(ctx)
	r.out = core.EnsureLen(r.out, buf.Len())

	for i := range r.out {
		g := buf.At(i)
		r.out[i] = g && !r.last
		r.last = g
	}

	return graph.FromSlice(r.out)
}
