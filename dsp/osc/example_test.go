package osc_test

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/graph"
	"github.com/cwbudde/algo-synth/dsp/osc"
)

func ExampleNew() {
	// One square-wave period sampled at eight points.
	o, err := osc.New(osc.WaveSquare, graph.Const(1.0))
	if err != nil {
		panic(err)
	}

	buf := o.Sample(graph.Context{SampleRate: 8, NumSamples: 8})
	for i := 0; i < buf.Len(); i++ {
		fmt.Printf("%+.0f ", buf.At(i))
	}
	fmt.Println()
	// Output:
	// +1 +1 +1 +1 -1 -1 -1 -1
}

func ExampleRisingEdge() {
	gate, err := osc.NewPeriodicGate(graph.Const(2.0), 0.5)
	if err != nil {
		panic(err)
	}

	trig := osc.RisingEdge(gate)

	buf := trig.Sample(graph.Context{SampleRate: 8, NumSamples: 8})
	for i := 0; i < buf.Len(); i++ {
		if buf.At(i) {
			fmt.Printf("trigger at sample %d\n", i)
		}
	}
	// Output:
	// trigger at sample 0
	// trigger at sample 4
}
