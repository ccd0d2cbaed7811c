// Package ladder implements a four-pole low-pass ladder filter in the
// tradition of analog synthesizer filter circuits: four one-pole stages in
// series with global resonance feedback and a saturating nonlinearity at
// the input of the cascade.
//
// Coefficient derivation uses a bilinear tangent prewarp and is cached
// against the last-seen (sample rate, cutoff, resonance) triple, so
// envelope-driven cutoff modulation only pays the trigonometric cost on
// samples where the cutoff actually changed.
package ladder
