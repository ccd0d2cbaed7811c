// Package envelope implements a gate/trigger driven ADSR generator and a
// stateless exponential output shaper. The ADSR integrates at sample
// granularity, so attack, decay and release rates expressed in seconds stay
// exact regardless of batch size.
package envelope
