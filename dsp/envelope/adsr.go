package envelope

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/graph"
)

const (
	defaultAttackSeconds  = 0.01
	defaultDecaySeconds   = 0.1
	defaultSustainLevel   = 0.7
	defaultReleaseSeconds = 0.2
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	attack  float64
	decay   float64
	sustain float64
	release float64
}

func defaultConfig() config {
	return config{
		attack:  defaultAttackSeconds,
		decay:   defaultDecaySeconds,
		sustain: defaultSustainLevel,
		release: defaultReleaseSeconds,
	}
}

// WithAttack sets the attack time in seconds. Non-positive values make the
// attack instantaneous.
func WithAttack(seconds float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(seconds) {
			return fmt.Errorf("envelope: attack must be finite: %v", seconds)
		}

		cfg.attack = seconds

		return nil
	}
}

// WithDecay sets the decay time in seconds. Non-positive values make the
// decay instantaneous.
func WithDecay(seconds float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(seconds) {
			return fmt.Errorf("envelope: decay must be finite: %v", seconds)
		}

		cfg.decay = seconds

		return nil
	}
}

// WithSustain sets the sustain level in [0, 1].
func WithSustain(level float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(level) || level < 0 || level > 1 {
			return fmt.Errorf("envelope: sustain must be in [0, 1]: %v", level)
		}

		cfg.sustain = level

		return nil
	}
}

// WithRelease sets the release time in seconds. Non-positive values make
// the release instantaneous.
func WithRelease(seconds float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(seconds) {
			return fmt.Errorf("envelope: release must be finite: %v", seconds)
		}

		cfg.release = seconds

		return nil
	}
}

// State is a snapshot of the generator's per-sample state.
type State struct {
	Level          float64
	PastAttackPeak bool
}

// ADSR is a four-phase envelope generator node. The gate input holds the
// note; the optional trigger input forces a fresh attack even while the
// gate is already held (re-triggering a sustained note). Attack runs until
// the level reaches exactly 1, decay approaches the sustain level and holds
// there, and releasing the gate ramps the level back to 0. Output is always
// in [0, 1].
type ADSR struct {
	gate    graph.Node[bool]
	trigger graph.Node[bool]

	attack  float64
	decay   float64
	sustain float64
	release float64

	level    float64
	pastPeak bool

	out []float64
}

// New constructs an ADSR driven by gate. trigger may be nil when
// re-triggering is not needed.
func New(gate, trigger graph.Node[bool], opts ...Option) (*ADSR, error) {
	if gate == nil {
		return nil, fmt.Errorf("envelope: gate node must not be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &ADSR{
		gate:    gate,
		trigger: trigger,
		attack:  cfg.attack,
		decay:   cfg.decay,
		sustain: cfg.sustain,
		release: cfg.release,
	}, nil
}

// Attack returns the attack time in seconds.
func (e *ADSR) Attack() float64 { return e.attack }

// Decay returns the decay time in seconds.
func (e *ADSR) Decay() float64 { return e.decay }

// Sustain returns the sustain level.
func (e *ADSR) Sustain() float64 { return e.sustain }

// Release returns the release time in seconds.
func (e *ADSR) Release() float64 { return e.release }

// SetAttack updates the attack time in seconds.
func (e *ADSR) SetAttack(seconds float64) error {
	if !core.IsFinite(seconds) {
		return fmt.Errorf("envelope: attack must be finite: %v", seconds)
	}

	e.attack = seconds

	return nil
}

// SetDecay updates the decay time in seconds.
func (e *ADSR) SetDecay(seconds float64) error {
	if !core.IsFinite(seconds) {
		return fmt.Errorf("envelope: decay must be finite: %v", seconds)
	}

	e.decay = seconds

	return nil
}

// SetSustain updates the sustain level in [0, 1].
func (e *ADSR) SetSustain(level float64) error {
	if !core.IsFinite(level) || level < 0 || level > 1 {
		return fmt.Errorf("envelope: sustain must be in [0, 1]: %v", level)
	}

	e.sustain = level

	return nil
}

// SetRelease updates the release time in seconds.
func (e *ADSR) SetRelease(seconds float64) error {
	if !core.IsFinite(seconds) {
		return fmt.Errorf("envelope: release must be finite: %v", seconds)
	}

	e.release = seconds

	return nil
}

// State returns a copy of the current per-sample state.
func (e *ADSR) State() State {
	return State{Level: e.level, PastAttackPeak: e.pastPeak}
}

// Reset returns the envelope to silence.
func (e *ADSR) Reset() {
	e.level = 0
	e.pastPeak = false
}

// Sample produces one batch of envelope levels.
func (e *ADSR) Sample(ctx graph.Context) graph.Buffer[float64] {
	e.out = core.EnsureLen(e.out, ctx.NumSamples)

	gate := e.gate.Sample(ctx)

	var trig graph.Buffer[bool]
	if e.trigger != nil {
		trig = e.trigger.Sample(ctx)
	} else {
		trig = graph.Constant(false, ctx.NumSamples)
	}

	for i := range e.out {
		e.tick(gate.At(i), trig.At(i), ctx.SampleRate)
		e.out[i] = e.level
	}

	return graph.FromSlice(e.out)
}

func (e *ADSR) tick(gate, trig bool, sampleRate float64) {
	switch {
	case trig:
		e.pastPeak = false
	case gate:
		if !e.pastPeak {
			if e.attack <= 0 {
				e.level = 1
			} else {
				e.level += 1 / (e.attack * sampleRate)
			}

			if e.level >= 1 {
				e.level = 1
				e.pastPeak = true
			}
		} else {
			if e.decay <= 0 {
				e.level = e.sustain
			} else {
				e.level -= 1 / (e.decay * sampleRate)
			}

			if e.level < e.sustain {
				e.level = e.sustain
			}
		}
	default:
		e.pastPeak = false

		if e.release <= 0 {
			e.level = 0
		} else {
			e.level -= 1 / (e.release * sampleRate)
		}

		if e.level < 0 {
			e.level = 0
		}
	}
}
