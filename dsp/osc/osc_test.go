package osc_test

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/graph"
	"github.com/cwbudde/algo-synth/dsp/osc"
)

func testContext(batch uint64, n int) graph.Context {
	return graph.Context{SampleRate: 48000, BatchIndex: batch, NumSamples: n}
}

func sampleFloats(t *testing.T, node graph.Node[float64], ctx graph.Context) []float64 {
	t.Helper()

	buf := node.Sample(ctx)
	if buf.Len() != ctx.NumSamples {
		t.Fatalf("batch length = %d, want %d", buf.Len(), ctx.NumSamples)
	}

	out := make([]float64, 0, buf.Len())

	return buf.AppendTo(out)
}

func TestNewValidation(t *testing.T) {
	if _, err := osc.New(osc.Waveform(99), graph.Const(440.0)); err == nil {
		t.Fatal("expected error for invalid waveform")
	}

	if _, err := osc.New(osc.WaveSine, nil); err == nil {
		t.Fatal("expected error for nil frequency node")
	}

	if _, err := osc.New(osc.WaveSine, graph.Const(440.0), osc.WithInitialPhase(1.0)); err == nil {
		t.Fatal("expected error for out-of-range initial phase")
	}

	if _, err := osc.New(osc.WaveSine, graph.Const(440.0), osc.WithInitialPhase(math.NaN())); err == nil {
		t.Fatal("expected error for NaN initial phase")
	}

	if _, err := osc.New(osc.WavePulse, graph.Const(440.0), osc.WithPulseWidth(nil)); err == nil {
		t.Fatal("expected error for nil pulse width node")
	}
}

func TestSquareWaveform(t *testing.T) {
	o, err := osc.New(osc.WaveSquare, graph.Const(1.0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := graph.Context{SampleRate: 8, NumSamples: 8}
	got := sampleFloats(t, o, ctx)
	want := []float64{1, 1, 1, 1, -1, -1, -1, -1}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestSawWaveform(t *testing.T) {
	o, err := osc.New(osc.WaveSaw, graph.Const(1.0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := graph.Context{SampleRate: 4, NumSamples: 4}
	got := sampleFloats(t, o, ctx)
	want := []float64{-1, -0.5, 0, 0.5}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestTriangleWaveform(t *testing.T) {
	o, err := osc.New(osc.WaveTriangle, graph.Const(1.0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := graph.Context{SampleRate: 4, NumSamples: 4}
	got := sampleFloats(t, o, ctx)
	want := []float64{-1, 0, 1, 0}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestSineWaveform(t *testing.T) {
	o, err := osc.New(osc.WaveSine, graph.Const(1.0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := graph.Context{SampleRate: 4, NumSamples: 4}
	got := sampleFloats(t, o, ctx)
	want := []float64{0, 1, 0, -1}

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestPulseWidth(t *testing.T) {
	o, err := osc.New(osc.WavePulse, graph.Const(1.0), osc.WithPulseWidth(graph.Const(0.25)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := graph.Context{SampleRate: 4, NumSamples: 4}
	got := sampleFloats(t, o, ctx)
	want := []float64{1, -1, -1, -1}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestPhaseWrapsAcrossBatches(t *testing.T) {
	o, err := osc.New(osc.WaveSaw, graph.Const(3.0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Increment of 0.75 per sample over two batches of two: phases
	// 0, 0.75, 0.5, 0.25.
	first := sampleFloats(t, o, graph.Context{SampleRate: 4, BatchIndex: 0, NumSamples: 2})
	second := sampleFloats(t, o, graph.Context{SampleRate: 4, BatchIndex: 1, NumSamples: 2})

	got := append(first, second...)
	want := []float64{-1, 0.5, 0, -0.5}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestNonFiniteFrequencyHoldsPhase(t *testing.T) {
	o, err := osc.New(osc.WaveSaw, graph.Const(math.NaN()), osc.WithInitialPhase(0.25))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := sampleFloats(t, o, graph.Context{SampleRate: 4, NumSamples: 4})

	for i, v := range got {
		if v != -0.5 {
			t.Fatalf("sample %d = %f, want phase held at 0.25 (amp -0.5)", i, v)
		}
	}

	if o.Phase() != 0.25 {
		t.Fatalf("phase = %f, want 0.25", o.Phase())
	}
}

func TestNoiseDeterministicSeed(t *testing.T) {
	a, err := osc.New(osc.WaveNoise, nil, osc.WithSeed(7))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	b, err := osc.New(osc.WaveNoise, nil, osc.WithSeed(7))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := testContext(0, 64)
	ga := sampleFloats(t, a, ctx)
	gb := sampleFloats(t, b, ctx)

	for i := range ga {
		if ga[i] != gb[i] {
			t.Fatalf("sample %d diverged: %f vs %f", i, ga[i], gb[i])
		}

		if ga[i] < -1 || ga[i] > 1 {
			t.Fatalf("sample %d = %f out of [-1, 1]", i, ga[i])
		}
	}

	c, err := osc.New(osc.WaveNoise, nil, osc.WithSeed(8))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	gc := sampleFloats(t, c, ctx)

	same := true
	for i := range ga {
		if ga[i] != gc[i] {
			same = false
			break
		}
	}

	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestReset(t *testing.T) {
	o, err := osc.New(osc.WaveSaw, graph.Const(440.0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sampleFloats(t, o, testContext(0, 16))

	if o.Phase() == 0 {
		t.Fatal("phase did not advance")
	}

	o.Reset()

	if o.Phase() != 0 {
		t.Fatalf("phase after reset = %f, want 0", o.Phase())
	}
}

func TestWaveformString(t *testing.T) {
	tests := []struct {
		w    osc.Waveform
		want string
	}{
		{osc.WaveSine, "sine"},
		{osc.WaveTriangle, "triangle"},
		{osc.WaveSquare, "square"},
		{osc.WaveSaw, "saw"},
		{osc.WavePulse, "pulse"},
		{osc.WaveNoise, "noise"},
		{osc.Waveform(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.w.String(); got != tt.want {
			t.Errorf("Waveform(%d).String() = %q, want %q", tt.w, got, tt.want)
		}
	}
}
