// Package sequencer turns a fixed step pattern into a note-event stream for
// the voice router.
package sequencer

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/graph"
	"github.com/cwbudde/algo-synth/dsp/voice"
)

const (
	minTempoBPM = 20.0
	maxTempoBPM = 400.0
)

// Step is one slot of the pattern. Disabled steps are rests.
type Step struct {
	Enabled  bool
	Note     int
	Velocity float64
}

// Sequencer emits a press at the start of every enabled step and a release
// after the gate fraction of the step has elapsed, looping over the pattern.
// It implements graph.Node[voice.Events].
type Sequencer struct {
	steps []Step
	bpm   float64
	gate  float64

	step    int
	counter int
	out     []voice.Events
}

// New constructs a sequencer playing steps as sixteenth notes at bpm.
// gate is the fraction of each step the note is held, in (0, 1].
func New(steps []Step, bpm, gate float64) (*Sequencer, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("sequencer: pattern must not be empty")
	}

	if !core.IsFinite(bpm) || bpm < minTempoBPM || bpm > maxTempoBPM {
		return nil, fmt.Errorf("sequencer: tempo must be in [%g, %g] BPM: %f", minTempoBPM, maxTempoBPM, bpm)
	}

	if !core.IsFinite(gate) || gate <= 0 || gate > 1 {
		return nil, fmt.Errorf("sequencer: gate must be in (0, 1]: %f", gate)
	}

	return &Sequencer{
		steps: append([]Step(nil), steps...),
		bpm:   bpm,
		gate:  gate,
	}, nil
}

// Reset rewinds the sequencer to the first step.
func (s *Sequencer) Reset() {
	s.step = 0
	s.counter = 0
}

// Sample produces the events for one batch.
func (s *Sequencer) Sample(ctx graph.Context) graph.Buffer[voice.Events] {
	s.out = core.EnsureLen(s.out, ctx.NumSamples)

	// Sixteenth notes: four steps per beat.
	stepSamples := int(ctx.SampleRate * 60 / s.bpm / 4)
	if stepSamples < 1 {
		stepSamples = 1
	}

	gateSamples := int(float64(stepSamples) * s.gate)
	if gateSamples < 1 {
		gateSamples = 1
	}

	// A full gate still releases before the next press so a repeated note
	// frees its voice instead of stacking.
	if gateSamples >= stepSamples {
		gateSamples = stepSamples - 1
	}

	for i := range s.out {
		s.out[i] = nil

		st := s.steps[s.step]
		if st.Enabled {
			switch s.counter {
			case 0:
				s.out[i] = voice.Events{{Note: st.Note, Pressed: true, Velocity: st.Velocity}}
			case gateSamples:
				s.out[i] = voice.Events{{Note: st.Note}}
			}
		}

		s.counter++
		if s.counter >= stepSamples {
			s.counter = 0
			s.step++
			if s.step >= len(s.steps) {
				s.step = 0
			}
		}
	}

	return graph.FromSlice(s.out)
}
