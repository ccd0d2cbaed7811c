package response

import (
	"errors"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by response analysis functions.
var (
	ErrEmptyResponse     = errors.New("response: signal is empty")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrInvalidWindow     = errors.New("response: analysis window out of range")
)

// Impulse returns a unit impulse of the given length: 1 at sample 0,
// silence after. Feed it through graph.Playback to excite a graph.
func Impulse(length int) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	out[0] = 1

	return out
}

// Analyzer computes offline metrics from rendered signals.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates an analyzer for signals rendered at sampleRate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

// MagnitudeSpectrum returns |X[k]| for the non-negative-frequency bins of
// the signal, zero-padded to the next power of two. Use [Analyzer.BinFrequency]
// with the returned FFT size to map bins to Hz.
func (a *Analyzer) MagnitudeSpectrum(signal []float64) (mag []float64, fftSize int, err error) {
	if len(signal) == 0 {
		return nil, 0, ErrEmptyResponse
	}

	if a.SampleRate <= 0 {
		return nil, 0, ErrInvalidSampleRate
	}

	fftSize = nextPowerOfTwo(len(signal))

	in := make([]complex128, fftSize)
	for i, v := range signal {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, 0, err
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, 0, err
	}

	half := fftSize/2 + 1
	re := make([]float64, half)
	im := make([]float64, half)

	for i := 0; i < half; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag = make([]float64, half)
	vecmath.Magnitude(mag, re, im)

	return mag, fftSize, nil
}

// BinFrequency returns the center frequency in Hz of the given FFT bin.
func (a *Analyzer) BinFrequency(bin, fftSize int) float64 {
	if fftSize <= 0 {
		return 0
	}

	return float64(bin) * a.SampleRate / float64(fftSize)
}

// MagnitudeNear returns the spectrum magnitude at the bin closest to
// freqHz.
func (a *Analyzer) MagnitudeNear(mag []float64, fftSize int, freqHz float64) (float64, error) {
	if len(mag) == 0 {
		return 0, ErrEmptyResponse
	}

	if a.SampleRate <= 0 || fftSize <= 0 {
		return 0, ErrInvalidSampleRate
	}

	bin := int(math.Round(freqHz * float64(fftSize) / a.SampleRate))
	if bin < 0 || bin >= len(mag) {
		return 0, ErrInvalidWindow
	}

	return mag[bin], nil
}

// Peak returns the largest absolute sample value.
func (a *Analyzer) Peak(signal []float64) (float64, error) {
	if len(signal) == 0 {
		return 0, ErrEmptyResponse
	}

	return vecmath.MaxAbs(signal), nil
}

// WindowRMS returns the root-mean-square level of the window starting at
// startSec and lasting durationSec.
func (a *Analyzer) WindowRMS(signal []float64, startSec, durationSec float64) (float64, error) {
	if len(signal) == 0 {
		return 0, ErrEmptyResponse
	}

	if a.SampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	if startSec < 0 || durationSec <= 0 {
		return 0, ErrInvalidWindow
	}

	start := int(startSec * a.SampleRate)
	length := int(durationSec * a.SampleRate)

	if start >= len(signal) || length < 1 {
		return 0, ErrInvalidWindow
	}

	end := start + length
	if end > len(signal) {
		end = len(signal)
	}

	segment := signal[start:end]
	sumSquares := vecmath.DotProduct(segment, segment)

	return math.Sqrt(sumSquares / float64(len(segment))), nil
}

// TailDecayed reports whether the RMS of the window at lateSec has dropped
// below the RMS of the window at earlySec. Both windows use windowSec
// seconds of signal.
func (a *Analyzer) TailDecayed(signal []float64, earlySec, lateSec, windowSec float64) (bool, error) {
	early, err := a.WindowRMS(signal, earlySec, windowSec)
	if err != nil {
		return false, err
	}

	late, err := a.WindowRMS(signal, lateSec, windowSec)
	if err != nil {
		return false, err
	}

	return late < early, nil
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
