// Package reverb implements a Schroeder/Freeverb-style mono reverb: eight
// parallel feedback comb filters with one-pole damping in their feedback
// paths, summed and diffused through four serial all-pass filters.
//
// Delay lengths are fixed constants chosen to avoid harmonic coincidence
// and are never resized after construction. Room-size and damping map
// affinely onto comb feedback gain and the damping one-pole coefficient;
// changes take effect on the sample where they are observed, with no
// smoothing. Rapid modulation can therefore click audibly - an accepted
// trade-off inherited from the classic tuning, not a defect to compensate.
package reverb
