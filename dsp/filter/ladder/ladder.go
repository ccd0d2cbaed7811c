package ladder

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
)

const (
	defaultCutoffHz  = 1000.0
	defaultResonance = 0.5
	defaultDrive     = 1.0

	minCutoffHz  = 1.0
	maxResonance = 1.0
	minDrive     = 0.1
	maxDrive     = 24.0

	// Cutoff is clamped below Nyquist with headroom before coefficient
	// derivation; the tangent prewarp becomes unstable near fs/2.
	nyquistHeadroom = 0.45

	resonanceFeedbackScale = 4.0
)

// Variant selects the saturating nonlinearity.
type Variant int

const (
	// VariantExact uses math.Tanh.
	VariantExact Variant = iota
	// VariantLightweight replaces tanh with a clamped polynomial
	// approximation for lower CPU use.
	VariantLightweight
)

func (v Variant) String() string {
	switch v {
	case VariantExact:
		return "exact"
	case VariantLightweight:
		return "lightweight"
	default:
		return "unknown"
	}
}

func validVariant(v Variant) bool {
	return v == VariantExact || v == VariantLightweight
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	variant   Variant
	cutoffHz  float64
	resonance float64
	drive     float64
}

func defaultConfig() config {
	return config{
		variant:   VariantExact,
		cutoffHz:  defaultCutoffHz,
		resonance: defaultResonance,
		drive:     defaultDrive,
	}
}

// WithVariant selects the saturation variant.
func WithVariant(variant Variant) Option {
	return func(cfg *config) error {
		if !validVariant(variant) {
			return fmt.Errorf("ladder: invalid variant: %d", variant)
		}

		cfg.variant = variant

		return nil
	}
}

// WithCutoffHz sets the cutoff in Hz. Must be finite and >= 1.
func WithCutoffHz(cutoffHz float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(cutoffHz, minCutoffHz, math.Inf(1), "cutoff"); err != nil {
			return err
		}

		cfg.cutoffHz = cutoffHz

		return nil
	}
}

// WithResonance sets feedback resonance in [0, 1]; 1 approaches
// self-oscillation.
func WithResonance(resonance float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(resonance, 0, maxResonance, "resonance"); err != nil {
			return err
		}

		cfg.resonance = resonance

		return nil
	}
}

// WithDrive sets the saturation drive in [0.1, 24].
func WithDrive(drive float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(drive, minDrive, maxDrive, "drive"); err != nil {
			return err
		}

		cfg.drive = drive

		return nil
	}
}

// State contains the four retained one-pole stage states.
type State struct {
	Stage [4]float64
}

// Filter is a four-pole nonlinear low-pass ladder processor.
type Filter struct {
	sampleRate float64
	cutoffHz   float64
	resonance  float64
	drive      float64
	variant    Variant

	// Derived coefficients, valid for the cached triple below.
	alpha  float64
	beta   [4]float64
	gamma  float64
	alpha0 float64

	coeffSampleRate float64
	coeffCutoffHz   float64
	coeffResonance  float64
	coeffValid      bool

	state State
}

// New constructs a ladder filter.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("ladder: sample rate must be > 0 and finite: %f", sampleRate)
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

	f := &Filter{
		sampleRate: sampleRate,
		cutoffHz:   cfg.cutoffHz,
		resonance:  cfg.resonance,
		drive:      cfg.drive,
		variant:    cfg.variant,
	}

	f.ensureCoefficients()

	return f, nil
}

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// CutoffHz returns the cutoff frequency in Hz.
func (f *Filter) CutoffHz() float64 { return f.cutoffHz }

// Resonance returns the feedback resonance.
func (f *Filter) Resonance() float64 { return f.resonance }

// Drive returns the saturation drive.
func (f *Filter) Drive() float64 { return f.drive }

// Variant returns the saturation variant.
func (f *Filter) Variant() Variant { return f.variant }

// SetSampleRate updates the sample rate. Coefficients are rederived on the
// next processed sample.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return fmt.Errorf("ladder: sample rate must be > 0 and finite: %f", sampleRate)
	}

	f.sampleRate = sampleRate

	return nil
}

// SetCutoffHz updates the cutoff frequency in Hz.
func (f *Filter) SetCutoffHz(cutoffHz float64) error {
	if err := validateFiniteRange(cutoffHz, minCutoffHz, math.Inf(1), "cutoff"); err != nil {
		return err
	}

	f.cutoffHz = cutoffHz

	return nil
}

// SetResonance updates feedback resonance in [0, 1].
func (f *Filter) SetResonance(resonance float64) error {
	if err := validateFiniteRange(resonance, 0, maxResonance, "resonance"); err != nil {
		return err
	}

	f.resonance = resonance

	return nil
}

// SetDrive updates the saturation drive.
func (f *Filter) SetDrive(drive float64) error {
	if err := validateFiniteRange(drive, minDrive, maxDrive, "drive"); err != nil {
		return err
	}

	f.drive = drive

	return nil
}

// Reset clears the stage states.
func (f *Filter) Reset() {
	f.state = State{}
}

// State returns a copy of the current stage states.
func (f *Filter) State() State {
	return f.state
}

// SetState restores an externally saved state.
func (f *Filter) SetState(state State) error {
	for _, v := range state.Stage {
		if !core.IsFinite(v) {
			return fmt.Errorf("ladder: state contains NaN or Inf")
		}
	}

	f.state = state

	return nil
}

// ProcessSample processes one sample.
func (f *Filter) ProcessSample(input float64) float64 {
	if !core.IsFinite(input) {
		input = 0
	}

	f.ensureCoefficients()

	k := resonanceFeedbackScale * f.resonance

	sigma := f.beta[0]*f.state.Stage[0] +
		f.beta[1]*f.state.Stage[1] +
		f.beta[2]*f.state.Stage[2] +
		f.beta[3]*f.state.Stage[3]

	u := f.alpha0 * (input*(1+k) - k*sigma)
	u = f.saturate(f.drive * u)

	x := u
	for s := range f.state.Stage {
		v := (x - f.state.Stage[s]) * f.alpha
		y := v + f.state.Stage[s]
		f.state.Stage[s] = core.FlushDenormals(y + v)
		x = y
	}

	if !core.IsFinite(x) {
		return 0
	}

	return x
}

// ProcessInPlace processes a mono buffer in place.
func (f *Filter) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = f.ProcessSample(buf[i])
	}
}

// ProcessTo processes src into dst. Both slices must have the same length.
func (f *Filter) ProcessTo(dst, src []float64) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
}

// ensureCoefficients rederives cached coefficients when the last-seen
// (sample rate, cutoff, resonance) triple changed. The tangent prewarp is
// expensive relative to the four multiply-adds of the filter tick, so it
// only runs on actual parameter changes.
func (f *Filter) ensureCoefficients() {
	sameCutoff := f.coeffValid &&
		f.coeffSampleRate == f.sampleRate &&
		f.coeffCutoffHz == f.cutoffHz
	sameResonance := f.coeffValid && f.coeffResonance == f.resonance

	if sameCutoff && sameResonance {
		return
	}

	if !sameCutoff {
		fc := core.Clamp(f.cutoffHz, minCutoffHz, nyquistHeadroom*f.sampleRate)
		g := math.Tan(math.Pi * fc / f.sampleRate)

		f.alpha = g / (1 + g)
		f.gamma = f.alpha * f.alpha * f.alpha * f.alpha

		f.beta[3] = 1 / (1 + g)
		f.beta[2] = f.alpha * f.beta[3]
		f.beta[1] = f.alpha * f.beta[2]
		f.beta[0] = f.alpha * f.beta[1]

		f.coeffSampleRate = f.sampleRate
		f.coeffCutoffHz = f.cutoffHz
	}

	k := resonanceFeedbackScale * f.resonance
	f.alpha0 = 1 / (1 + k*f.gamma)
	f.coeffResonance = f.resonance
	f.coeffValid = true
}

func (f *Filter) saturate(x float64) float64 {
	if f.variant == VariantLightweight {
		return fastTanhApprox(x)
	}

	return math.Tanh(x)
}

func validateFiniteRange(value, min, max float64, name string) error {
	if !core.IsFinite(value) {
		return fmt.Errorf("ladder: %s must be finite: %v", name, value)
	}

	if value < min || value > max {
		return fmt.Errorf("ladder: %s must be in [%g, %g]: %f", name, min, max, value)
	}

	return nil
}

func fastTanhApprox(x float64) float64 {
	if x > 3 {
		return 1
	}

	if x < -3 {
		return -1
	}

	x2 := x * x

	return core.Clamp(x*(27+x2)/(27+9*x2), -1, 1)
}
