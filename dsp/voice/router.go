package voice

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/graph"
)

// NoteFrequency returns the equal-tempered frequency in Hz for a MIDI-style
// note number (69 = A4 = 440 Hz).
func NoteFrequency(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

type routedVoice struct {
	held     bool
	note     int
	freqHz   float64
	velocity float64

	gate []bool
	trig []bool
	freq []float64
	vel  []float64
}

// Router splits a note-event stream into per-voice control streams. Events
// are applied in arrival order within each batch: a press allocates a voice
// (dropped when the pool is exhausted), a release frees and gates off every
// voice mapped to that note. The per-voice gate, trigger, frequency and
// velocity nodes all share one routing pass per batch.
type Router struct {
	source graph.Node[Events]
	alloc  *Allocator
	voices []*routedVoice

	batch   uint64
	valid   bool
	dropped uint64
}

// NewRouter constructs a router over source with numVoices voices.
func NewRouter(source graph.Node[Events], numVoices int) (*Router, error) {
	if source == nil {
		return nil, fmt.Errorf("voice: event source must not be nil")
	}

	alloc, err := NewAllocator(numVoices)
	if err != nil {
		return nil, err
	}

	voices := make([]*routedVoice, numVoices)
	for i := range voices {
		voices[i] = &routedVoice{}
	}

	return &Router{source: source, alloc: alloc, voices: voices}, nil
}

// NumVoices returns the pool size.
func (r *Router) NumVoices() int { return len(r.voices) }

// DroppedEvents returns how many press events were dropped because the
// pool was exhausted.
func (r *Router) DroppedEvents() uint64 { return r.dropped }

// Gate returns the level-held gate stream for one voice.
func (r *Router) Gate(voice int) graph.Node[bool] {
	v := r.voices[voice]

	return graph.NodeFunc[bool](func(ctx graph.Context) graph.Buffer[bool] {
		r.update(ctx)
		return graph.FromSlice(v.gate)
	})
}

// Trigger returns the press-trigger stream for one voice: true for exactly
// the samples where a press was routed to it.
func (r *Router) Trigger(voice int) graph.Node[bool] {
	v := r.voices[voice]

	return graph.NodeFunc[bool](func(ctx graph.Context) graph.Buffer[bool] {
		r.update(ctx)
		return graph.FromSlice(v.trig)
	})
}

// FrequencyHz returns the note frequency stream for one voice. The value
// persists after release so a releasing envelope keeps its pitch.
func (r *Router) FrequencyHz(voice int) graph.Node[float64] {
	v := r.voices[voice]

	return graph.NodeFunc[float64](func(ctx graph.Context) graph.Buffer[float64] {
		r.update(ctx)
		return graph.FromSlice(v.freq)
	})
}

// Velocity returns the press velocity stream for one voice.
func (r *Router) Velocity(voice int) graph.Node[float64] {
	v := r.voices[voice]

	return graph.NodeFunc[float64](func(ctx graph.Context) graph.Buffer[float64] {
		r.update(ctx)
		return graph.FromSlice(v.vel)
	})
}

// update runs the routing pass once per batch; every per-voice stream node
// for the same BatchIndex sees the same routing result.
func (r *Router) update(ctx graph.Context) {
	if r.valid && r.batch == ctx.BatchIndex {
		return
	}

	n := ctx.NumSamples
	for _, v := range r.voices {
		v.gate = core.EnsureLen(v.gate, n)
		v.trig = core.EnsureLen(v.trig, n)
		v.freq = core.EnsureLen(v.freq, n)
		v.vel = core.EnsureLen(v.vel, n)
		core.Zero(v.trig)
	}

	events := r.source.Sample(ctx)

	for i := 0; i < n; i++ {
		for _, ev := range events.At(i) {
			if ev.Pressed {
				idx, ok := r.alloc.Allocate(ev.Note)
				if !ok {
					r.dropped++
					continue
				}

				v := r.voices[idx]
				v.held = true
				v.note = ev.Note
				v.freqHz = NoteFrequency(ev.Note)
				v.velocity = ev.Velocity
				v.trig[i] = true

				continue
			}

			for _, idx := range r.alloc.Release(ev.Note, ctx.BatchIndex) {
				r.voices[idx].held = false
			}
		}

		for _, v := range r.voices {
			v.gate[i] = v.held
			v.freq[i] = v.freqHz
			v.vel[i] = v.velocity
		}
	}

	r.batch = ctx.BatchIndex
	r.valid = true
}
