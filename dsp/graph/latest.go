package graph

import (
	"sync"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// LatestValue bridges an external producer thread (for example a live input
// stream) into the graph. Push appends samples from the producer side;
// Sample drains whatever has arrived and holds the most recent value for
// the remainder of the batch. Sample never blocks waiting for the producer,
// so it is safe to call from an audio callback without risking underruns.
//
// Before the first Push the node yields silence.
type LatestValue struct {
	mu      sync.Mutex
	pending []float64
	last    float64
	out     []float64
}

// NewLatestValue returns an empty bridge.
func NewLatestValue() *LatestValue {
	return &LatestValue{}
}

// Push appends samples from the producer side. Safe for concurrent use with
// Sample.
func (l *LatestValue) Push(samples []float64) {
	if len(samples) == 0 {
		return
	}

	l.mu.Lock()
	l.pending = append(l.pending, samples...)
	l.mu.Unlock()
}

// Sample consumes up to ctx.NumSamples pending samples and repeats the last
// seen value for any shortfall.
func (l *LatestValue) Sample(ctx Context) Buffer[float64] {
	n := ctx.NumSamples

	l.mu.Lock()

	l.out = core.EnsureLen(l.out, n)
	take := copy(l.out, l.pending)

	if take > 0 {
		l.last = l.out[take-1]
		remaining := copy(l.pending, l.pending[take:])
		l.pending = l.pending[:remaining]
	}

	last := l.last
	l.mu.Unlock()

	for i := take; i < n; i++ {
		l.out[i] = last
	}

	return FromSlice(l.out)
}
