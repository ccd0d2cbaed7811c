package ladder_test

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/filter/ladder"
)

func benchInput(n int) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/48000)
	}

	return buf
}

func BenchmarkProcessSampleExact(b *testing.B) {
	f, err := ladder.New(48000, ladder.WithResonance(0.7))
	if err != nil {
		b.Fatalf("New: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		f.ProcessSample(0.5)
	}
}

func BenchmarkProcessSampleLightweight(b *testing.B) {
	f, err := ladder.New(48000, ladder.WithResonance(0.7), ladder.WithVariant(ladder.VariantLightweight))
	if err != nil {
		b.Fatalf("New: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		f.ProcessSample(0.5)
	}
}

func BenchmarkProcessInPlace(b *testing.B) {
	f, err := ladder.New(48000)
	if err != nil {
		b.Fatalf("New: %v", err)
	}

	buf := benchInput(1024)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		f.ProcessInPlace(buf)
	}
}
