package envelope

import (
	"fmt"
	"math"

	"github.com/meko-christian/algo-approx"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/graph"
)

const maxShaperCurvature = 60.0

// ShaperOption mutates shaper configuration.
type ShaperOption func(*ExpShaper)

// WithFastExp trades a little accuracy for speed by using a polynomial
// exponential approximation inside the curve.
func WithFastExp() ShaperOption {
	return func(s *ExpShaper) {
		s.fast = true
	}
}

// ExpShaper maps envelope levels through an exponential curve with matched
// endpoints f(0)=0 and f(1)=1. Positive curvature bows the curve downward
// (slow start, fast finish), negative curvature the opposite; zero is the
// identity. The shaper is stateless and separate from the ADSR state
// machine.
type ExpShaper struct {
	curvature float64
	norm      float64
	fast      bool
}

// NewExpShaper constructs a shaper with the given curvature.
func NewExpShaper(curvature float64, opts ...ShaperOption) (*ExpShaper, error) {
	if !core.IsFinite(curvature) || math.Abs(curvature) > maxShaperCurvature {
		return nil, fmt.Errorf("envelope: shaper curvature must be finite and in [-%g, %g]: %v",
			maxShaperCurvature, maxShaperCurvature, curvature)
	}

	s := &ExpShaper{curvature: curvature}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if curvature != 0 {
		s.norm = 1 / (s.exp(curvature) - 1)
	}

	return s, nil
}

// Curvature returns the configured curvature.
func (s *ExpShaper) Curvature() float64 { return s.curvature }

// Apply maps a single level. Input is clamped to [0, 1].
func (s *ExpShaper) Apply(x float64) float64 {
	x = core.Clamp(x, 0, 1)
	if s.curvature == 0 {
		return x
	}

	return (s.exp(s.curvature*x) - 1) * s.norm
}

// Node wraps the shaper as an elementwise graph node over in.
func (s *ExpShaper) Node(in graph.Node[float64]) graph.Node[float64] {
	return graph.Map(in, s.Apply)
}

func (s *ExpShaper) exp(x float64) float64 {
	if s.fast {
		return approx.FastExp(x)
	}

	return math.Exp(x)
}
