package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
)

const (
	numCombs     = 8
	numAllpasses = 4

	fixedInputGain  = 0.015
	allpassFeedback = 0.5

	// Affine parameter mappings from the classic tuning. The feedback
	// offset keeps the comb network stable for room sizes in [0, 1] while
	// the fixed input gain compensates for its amplitude growth.
	scaleRoom  = 0.28
	offsetRoom = 0.7
	scaleDamp  = 0.4

	defaultRoomSize = 0.5
	defaultDamp     = 0.5
	defaultWet      = 1.0
	defaultDry      = 0.0

	// Tunings are calibrated for 44.1 kHz and scaled to the target rate.
	// Lengths are near mutually prime to avoid audible periodicity.
	referenceSampleRate = 44100.0
)

var combTunings = [numCombs]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}

var allpassTunings = [numAllpasses]int{556, 441, 341, 225}

type comb struct {
	feedback    float64
	filterStore float64
	dampA       float64
	dampB       float64
	buffer      []float64
	index       int
}

func newComb(size int) comb {
	return comb{buffer: make([]float64, size)}
}

func (c *comb) setDamp(v float64) {
	c.dampA = v
	c.dampB = 1 - v
}

func (c *comb) process(input float64) float64 {
	output := c.buffer[c.index]

	c.filterStore = core.FlushDenormals(output*c.dampB + c.filterStore*c.dampA)

	c.buffer[c.index] = input + c.filterStore*c.feedback

	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}

	return output
}

func (c *comb) reset() {
	for i := range c.buffer {
		c.buffer[i] = 0
	}

	c.index = 0
	c.filterStore = 0
}

type allpass struct {
	feedback float64
	buffer   []float64
	index    int
}

func newAllpass(size int) allpass {
	return allpass{feedback: allpassFeedback, buffer: make([]float64, size)}
}

func (a *allpass) process(input float64) float64 {
	bufOut := a.buffer[a.index]
	output := bufOut - input

	a.buffer[a.index] = input + bufOut*a.feedback

	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}

	return output
}

func (a *allpass) reset() {
	for i := range a.buffer {
		a.buffer[i] = 0
	}

	a.index = 0
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	roomSize float64
	damp     float64
	wet      float64
	dry      float64
}

func defaultConfig() config {
	return config{
		roomSize: defaultRoomSize,
		damp:     defaultDamp,
		wet:      defaultWet,
		dry:      defaultDry,
	}
}

// WithRoomSize sets the room size in [0, 1].
func WithRoomSize(v float64) Option {
	return func(cfg *config) error {
		if err := validateUnitRange(v, "room size"); err != nil {
			return err
		}

		cfg.roomSize = v

		return nil
	}
}

// WithDamp sets high-frequency damping in [0, 1].
func WithDamp(v float64) Option {
	return func(cfg *config) error {
		if err := validateUnitRange(v, "damp"); err != nil {
			return err
		}

		cfg.damp = v

		return nil
	}
}

// WithWet sets the wet mix gain. Must be finite and >= 0.
func WithWet(v float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(v) || v < 0 {
			return fmt.Errorf("reverb: wet must be >= 0 and finite: %f", v)
		}

		cfg.wet = v

		return nil
	}
}

// WithDry sets the dry mix gain. Must be finite and >= 0.
func WithDry(v float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(v) || v < 0 {
			return fmt.Errorf("reverb: dry must be >= 0 and finite: %f", v)
		}

		cfg.dry = v

		return nil
	}
}

// Reverb is a mono comb/all-pass reverb network.
type Reverb struct {
	sampleRate float64
	roomSize   float64
	damp       float64
	wet        float64
	dry        float64
	gain       float64

	combs   [numCombs]comb
	allpass [numAllpasses]allpass
}

// New constructs a reverb with delay lengths scaled for sampleRate.
func New(sampleRate float64, opts ...Option) (*Reverb, error) {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("reverb: sample rate must be > 0 and finite: %f", sampleRate)
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

	r := &Reverb{
		sampleRate: sampleRate,
		gain:       fixedInputGain,
	}

	scale := sampleRate / referenceSampleRate
	for i := range r.combs {
		r.combs[i] = newComb(scaledTuning(combTunings[i], scale))
	}

	for i := range r.allpass {
		r.allpass[i] = newAllpass(scaledTuning(allpassTunings[i], scale))
	}

	r.setRoomSizeUnchecked(cfg.roomSize)
	r.setDampUnchecked(cfg.damp)
	r.wet = cfg.wet
	r.dry = cfg.dry

	return r, nil
}

func scaledTuning(samples int, scale float64) int {
	n := int(math.Round(float64(samples) * scale))
	if n < 1 {
		n = 1
	}

	return n
}

// SampleRate returns the sample rate the delay lengths were scaled for.
func (r *Reverb) SampleRate() float64 { return r.sampleRate }

// RoomSize returns the room size.
func (r *Reverb) RoomSize() float64 { return r.roomSize }

// Damp returns the damping amount.
func (r *Reverb) Damp() float64 { return r.damp }

// Wet returns the wet mix gain.
func (r *Reverb) Wet() float64 { return r.wet }

// Dry returns the dry mix gain.
func (r *Reverb) Dry() float64 { return r.dry }

// SetRoomSize updates comb feedback via the affine room-size mapping.
// Takes effect on the next processed sample.
func (r *Reverb) SetRoomSize(v float64) error {
	if err := validateUnitRange(v, "room size"); err != nil {
		return err
	}

	r.setRoomSizeUnchecked(v)

	return nil
}

func (r *Reverb) setRoomSizeUnchecked(v float64) {
	r.roomSize = v
	feedback := v*scaleRoom + offsetRoom

	for i := range r.combs {
		r.combs[i].feedback = feedback
	}
}

// SetDamp updates the damping one-pole coefficient in every comb.
// Takes effect on the next processed sample.
func (r *Reverb) SetDamp(v float64) error {
	if err := validateUnitRange(v, "damp"); err != nil {
		return err
	}

	r.setDampUnchecked(v)

	return nil
}

func (r *Reverb) setDampUnchecked(v float64) {
	r.damp = v

	for i := range r.combs {
		r.combs[i].setDamp(v * scaleDamp)
	}
}

// SetWet updates the wet mix gain.
func (r *Reverb) SetWet(v float64) error {
	if !core.IsFinite(v) || v < 0 {
		return fmt.Errorf("reverb: wet must be >= 0 and finite: %f", v)
	}

	r.wet = v

	return nil
}

// SetDry updates the dry mix gain.
func (r *Reverb) SetDry(v float64) error {
	if !core.IsFinite(v) || v < 0 {
		return fmt.Errorf("reverb: dry must be >= 0 and finite: %f", v)
	}

	r.dry = v

	return nil
}

// Reset clears all delay and damping state.
func (r *Reverb) Reset() {
	for i := range r.combs {
		r.combs[i].reset()
	}

	for i := range r.allpass {
		r.allpass[i].reset()
	}
}

// ProcessSample processes one sample.
func (r *Reverb) ProcessSample(input float64) float64 {
	if !core.IsFinite(input) {
		input = 0
	}

	x := r.gain * input

	var acc float64
	for i := range r.combs {
		acc += r.combs[i].process(x)
	}

	for i := range r.allpass {
		acc = r.allpass[i].process(acc)
	}

	return acc*r.wet + input*r.dry
}

// ProcessInPlace processes a mono buffer in place.
func (r *Reverb) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = r.ProcessSample(buf[i])
	}
}

// ProcessTo processes src into dst. Both slices must have the same length.
func (r *Reverb) ProcessTo(dst, src []float64) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	for i, x := range src {
		dst[i] = r.ProcessSample(x)
	}
}

func validateUnitRange(v float64, name string) error {
	if !core.IsFinite(v) || v < 0 || v > 1 {
		return fmt.Errorf("reverb: %s must be in [0, 1]: %f", name, v)
	}

	return nil
}
