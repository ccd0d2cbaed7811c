package graph_test

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/graph"
)

func ExampleRender() {
	// Mix a constant offset with a scaled constant and render one second.
	mix := graph.Sum(
		graph.Const(0.25),
		graph.Gain(graph.Const(1.0), 0.5),
	)

	out, err := graph.Render(mix, 4, core.WithSampleRate(1000), core.WithBatchSize(2))
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.2f %.2f %.2f %.2f\n", out[0], out[1], out[2], out[3])
	// Output:
	// 0.75 0.75 0.75 0.75
}

func ExampleNewShared() {
	// A playback node shared by two consumers is only advanced once per
	// batch; both read identical data.
	src := graph.NewShared[float64](graph.Playback([]float64{1, 2, 3, 4}))

	left := graph.Gain(src, 1)
	right := graph.Gain(src, -1)
	mix := graph.Add(left, right)

	out, err := graph.Render(mix, 4, core.WithBatchSize(2))
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.0f %.0f %.0f %.0f\n", out[0], out[1], out[2], out[3])
	// Output:
	// 0 0 0 0
}

func ExampleMap() {
	squared := graph.Map(graph.Playback([]float64{1, 2, 3}), func(x float64) float64 {
		return x * x
	})

	out, err := graph.Render(squared, 3, core.WithBatchSize(3))
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.0f %.0f %.0f\n", out[0], out[1], out[2])
	// Output:
	// 1 4 9
}
