// Package graph implements the pull-based signal graph at the heart of
// algo-synth. A graph is a tree of [Node] values; the consumer (an audio
// device adapter or the offline [Render] driver) samples the root once per
// output batch and every upstream node is sampled transitively within that
// single call stack.
//
// Nodes are generic over their item type: audio rates use float64, control
// gates and triggers use bool, and note events travel as small ordered
// collections. Buffers returned by Sample always hold exactly
// ctx.NumSamples logical elements but may be represented as a single
// repeated value, so constant parameters cost O(1) per batch regardless of
// batch size.
//
// Sharing one upstream node between several consumers requires a [Shared]
// wrapper; sampling a stateful node twice within one batch silently
// desynchronizes its phase-accumulating state.
package graph
