package reverb_test

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/effects/reverb"
)

func impulseResponse(t *testing.T, r *reverb.Reverb, n int) []float64 {
	t.Helper()

	out := make([]float64, n)
	out[0] = r.ProcessSample(1)
	for i := 1; i < n; i++ {
		out[i] = r.ProcessSample(0)
	}

	return out
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		sr   float64
		opts []reverb.Option
	}{
		{"zero sample rate", 0, nil},
		{"NaN sample rate", math.NaN(), nil},
		{"room size above 1", 44100, []reverb.Option{reverb.WithRoomSize(1.5)}},
		{"negative room size", 44100, []reverb.Option{reverb.WithRoomSize(-0.1)}},
		{"damp above 1", 44100, []reverb.Option{reverb.WithDamp(2)}},
		{"negative wet", 44100, []reverb.Option{reverb.WithWet(-1)}},
		{"NaN dry", 44100, []reverb.Option{reverb.WithDry(math.NaN())}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := reverb.New(tt.sr, tt.opts...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	r, err := reverb.New(44100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if r.RoomSize() != 0.5 {
		t.Errorf("room size = %f, want 0.5", r.RoomSize())
	}

	if r.Damp() != 0.5 {
		t.Errorf("damp = %f, want 0.5", r.Damp())
	}

	if r.Wet() != 1 {
		t.Errorf("wet = %f, want 1", r.Wet())
	}

	if r.Dry() != 0 {
		t.Errorf("dry = %f, want 0", r.Dry())
	}
}

func TestImpulseArrivesAfterShortestCombDelay(t *testing.T) {
	r, err := reverb.New(44100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ir := impulseResponse(t, r, 2000)

	// The shortest comb holds 1116 samples at 44.1 kHz; the network output
	// is silent until it first wraps.
	for i := 0; i < 1100; i++ {
		if ir[i] != 0 {
			t.Fatalf("sample %d = %g before the shortest comb delay", i, ir[i])
		}
	}

	var heard bool
	for i := 1100; i < 2000; i++ {
		if ir[i] != 0 {
			heard = true
			break
		}
	}

	if !heard {
		t.Fatal("no reverb output within 2000 samples of the impulse")
	}
}

func TestTailDecays(t *testing.T) {
	r, err := reverb.New(44100, reverb.WithRoomSize(0.5), reverb.WithDamp(0.5))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ir := impulseResponse(t, r, 88200)

	window := func(start, n int) float64 {
		var p float64
		for _, v := range ir[start : start+n] {
			p += v * v
		}

		return p
	}

	early := window(4410, 4410)
	late := window(66150, 4410)

	if early == 0 {
		t.Fatal("early window is silent")
	}

	if late >= early/10 {
		t.Fatalf("late power %g vs early power %g, want decaying tail", late, early)
	}

	for i, v := range ir {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d = %f, want finite", i, v)
		}
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	a, err := reverb.New(44100, reverb.WithRoomSize(0.8), reverb.WithDamp(0.2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	b, err := reverb.New(44100, reverb.WithRoomSize(0.8), reverb.WithDamp(0.2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ia := impulseResponse(t, a, 8192)
	ib := impulseResponse(t, b, 8192)

	for i := range ia {
		if ia[i] != ib[i] {
			t.Fatalf("sample %d diverged: %g vs %g", i, ia[i], ib[i])
		}
	}
}

func TestResetRestoresFreshResponse(t *testing.T) {
	r, err := reverb.New(44100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first := impulseResponse(t, r, 4096)

	r.Reset()

	second := impulseResponse(t, r, 4096)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d after reset = %g, want %g", i, second[i], first[i])
		}
	}
}

func TestDryPassthrough(t *testing.T) {
	r, err := reverb.New(44100, reverb.WithWet(0), reverb.WithDry(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 64; i++ {
		x := math.Sin(float64(i) * 0.3)
		if y := r.ProcessSample(x); y != x {
			t.Fatalf("sample %d = %g, want dry input %g", i, y, x)
		}
	}
}

func TestNaNInputTreatedAsZero(t *testing.T) {
	r, err := reverb.New(44100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r.ProcessSample(1)
	r.ProcessSample(math.NaN())

	for i := 0; i < 4096; i++ {
		if y := r.ProcessSample(0); math.IsNaN(y) || math.IsInf(y, 0) {
			t.Fatalf("sample %d after NaN = %f, want finite", i, y)
		}
	}
}

func TestSetterValidation(t *testing.T) {
	r, err := reverb.New(44100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := r.SetRoomSize(1.5); err == nil {
		t.Fatal("expected error for room size above 1")
	}

	if err := r.SetDamp(-1); err == nil {
		t.Fatal("expected error for negative damp")
	}

	if err := r.SetWet(math.Inf(1)); err == nil {
		t.Fatal("expected error for infinite wet")
	}

	if err := r.SetRoomSize(0.9); err != nil {
		t.Fatalf("SetRoomSize: %v", err)
	}

	if r.RoomSize() != 0.9 {
		t.Fatalf("room size = %f, want 0.9", r.RoomSize())
	}
}

func TestProcessToMatchesProcessSample(t *testing.T) {
	a, err := reverb.New(44100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	b, err := reverb.New(44100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	src := make([]float64, 2048)
	src[0] = 1

	dst := make([]float64, len(src))
	a.ProcessTo(dst, src)

	for i, x := range src {
		want := b.ProcessSample(x)
		if dst[i] != want {
			t.Fatalf("sample %d: ProcessTo %g vs ProcessSample %g", i, dst[i], want)
		}
	}
}
