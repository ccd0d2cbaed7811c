// Package core provides scalar numeric helpers, slice length management and
// the shared processor configuration used across algo-synth. Everything here
// is allocation-free on the steady-state path and safe to call from
// per-sample loops.
package core
