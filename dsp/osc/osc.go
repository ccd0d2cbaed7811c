package osc

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/graph"
)

const (
	defaultPulseWidth = 0.5
	defaultNoiseSeed  = 1
)

// Waveform selects the oscillator's phase-to-amplitude shape.
type Waveform int

const (
	// WaveSine is a pure sine.
	WaveSine Waveform = iota
	// WaveTriangle rises from -1 at phase 0 to +1 at phase 0.5.
	WaveTriangle
	// WaveSquare is high for the first half of each period.
	WaveSquare
	// WaveSaw rises linearly from -1 to +1 over each period.
	WaveSaw
	// WavePulse is high for the width fraction of each period.
	WavePulse
	// WaveNoise is seeded uniform white noise; frequency input is ignored.
	WaveNoise
)

func (w Waveform) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveTriangle:
		return "triangle"
	case WaveSquare:
		return "square"
	case WaveSaw:
		return "saw"
	case WavePulse:
		return "pulse"
	case WaveNoise:
		return "noise"
	default:
		return "unknown"
	}
}

func validWaveform(w Waveform) bool {
	return w >= WaveSine && w <= WaveNoise
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	initialPhase float64
	width        graph.Node[float64]
	seed         int64
}

// WithInitialPhase sets the starting phase in [0, 1).
func WithInitialPhase(phase float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(phase) || phase < 0 || phase >= 1 {
			return fmt.Errorf("osc: initial phase must be in [0, 1): %f", phase)
		}

		cfg.initialPhase = phase

		return nil
	}
}

// WithPulseWidth sets the pulse width input for WavePulse. Values are
// clamped to [0, 1] per sample.
func WithPulseWidth(width graph.Node[float64]) Option {
	return func(cfg *config) error {
		if width == nil {
			return fmt.Errorf("osc: pulse width node must not be nil")
		}

		cfg.width = width

		return nil
	}
}

// WithSeed sets the deterministic noise seed for WaveNoise.
func WithSeed(seed int64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}

// Oscillator is a sample-rate-independent phase accumulator node. Phase
// advances by freq/sampleRate per sample and wraps to [0, 1); a pathological
// frequency that would produce a non-finite phase leaves the previous valid
// phase in place instead of silencing the voice permanently.
type Oscillator struct {
	waveform Waveform
	freq     graph.Node[float64]
	width    graph.Node[float64]

	phase float64
	rng   *rand.Rand
	out   []float64
}

// New constructs an oscillator reading its frequency in Hz from freq.
func New(waveform Waveform, freq graph.Node[float64], opts ...Option) (*Oscillator, error) {
	if !validWaveform(waveform) {
		return nil, fmt.Errorf("osc: invalid waveform: %d", waveform)
	}

	if freq == nil && waveform != WaveNoise {
		return nil, fmt.Errorf("osc: frequency node must not be nil")
	}

	cfg := config{
		width: graph.Const(defaultPulseWidth),
		seed:  defaultNoiseSeed,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	o := &Oscillator{
		waveform: waveform,
		freq:     freq,
		width:    cfg.width,
		phase:    cfg.initialPhase,
	}

	if waveform == WaveNoise {
		o.rng = rand.New(rand.NewSource(cfg.seed))
	}

	return o, nil
}

// Waveform returns the configured waveform.
func (o *Oscillator) Waveform() Waveform { return o.waveform }

// Phase returns the current phase in [0, 1).
func (o *Oscillator) Phase() float64 { return o.phase }

// Reset rewinds the phase accumulator to zero.
func (o *Oscillator) Reset() { o.phase = 0 }

// Sample produces one batch of samples in the nominal range [-1, 1].
func (o *Oscillator) Sample(ctx graph.Context) graph.Buffer[float64] {
	n := ctx.NumSamples
	o.out = core.EnsureLen(o.out, n)

	if o.waveform == WaveNoise {
		for i := range o.out {
			o.out[i] = o.rng.Float64()*2 - 1
		}

		return graph.FromSlice(o.out)
	}

	freq := o.freq.Sample(ctx)

	// The waveform switch sits outside the sample loop; each branch runs a
	// monomorphic loop over the batch.
	switch o.waveform {
	case WaveSine:
		for i := range o.out {
			o.out[i] = math.Sin(2 * math.Pi * o.phase)
			o.advance(freq.At(i), ctx.SampleRate)
		}
	case WaveTriangle:
		for i := range o.out {
			o.out[i] = 1 - 4*math.Abs(o.phase-0.5)
			o.advance(freq.At(i), ctx.SampleRate)
		}
	case WaveSquare:
		for i := range o.out {
			o.out[i] = squareAmp(o.phase, 0.5)
			o.advance(freq.At(i), ctx.SampleRate)
		}
	case WaveSaw:
		for i := range o.out {
			o.out[i] = 2*o.phase - 1
			o.advance(freq.At(i), ctx.SampleRate)
		}
	case WavePulse:
		width := o.width.Sample(ctx)
		for i := range o.out {
			o.out[i] = squareAmp(o.phase, core.Clamp(width.At(i), 0, 1))
			o.advance(freq.At(i), ctx.SampleRate)
		}
	}

	return graph.FromSlice(o.out)
}

func (o *Oscillator) advance(freqHz, sampleRate float64) {
	next := o.phase + freqHz/sampleRate
	if !core.IsFinite(next) {
		return
	}

	o.phase = next - math.Floor(next)
}

func squareAmp(phase, width float64) float64 {
	if phase < width {
		return 1
	}

	return -1
}
