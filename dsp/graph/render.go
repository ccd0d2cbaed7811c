package graph

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// Render pulls numSamples samples from node in fixed-size batches and
// returns the concatenated output. It is the offline stand-in for an audio
// device driving the graph.
func Render(node Node[float64], numSamples int, opts ...core.ProcessorOption) ([]float64, error) {
	if node == nil {
		return nil, fmt.Errorf("graph: render node must not be nil")
	}

	if numSamples <= 0 {
		return nil, fmt.Errorf("graph: render sample count must be > 0: %d", numSamples)
	}

	cfg := core.ApplyProcessorOptions(opts...)

	out := make([]float64, 0, numSamples)

	var batch uint64
	for remaining := numSamples; remaining > 0; batch++ {
		n := cfg.BatchSize
		if n > remaining {
			n = remaining
		}

		ctx := Context{
			SampleRate: cfg.SampleRate,
			BatchIndex: batch,
			NumSamples: n,
		}

		buf := node.Sample(ctx)
		if buf.Len() != n {
			return nil, fmt.Errorf("graph: node returned %d samples for a %d-sample batch", buf.Len(), n)
		}

		out = buf.AppendTo(out)
		remaining -= n
	}

	return out, nil
}

// RenderSeconds renders seconds of audio at the configured sample rate.
func RenderSeconds(node Node[float64], seconds float64, opts ...core.ProcessorOption) ([]float64, error) {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return nil, fmt.Errorf("graph: render duration must be > 0 and finite: %f", seconds)
	}

	cfg := core.ApplyProcessorOptions(opts...)

	return Render(node, int(math.Ceil(seconds*cfg.SampleRate)), opts...)
}
