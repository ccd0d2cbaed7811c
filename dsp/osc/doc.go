// Package osc provides phase-accumulating signal sources for the graph:
// band-unlimited waveform oscillators, deterministic noise, a periodic gate
// and a gate-to-trigger edge detector. Frequencies and pulse widths are
// themselves graph nodes, so any parameter can be modulated by another part
// of the graph or held constant via graph.Const.
package osc
