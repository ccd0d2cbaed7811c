package graph

// Context describes one sampling call. It is immutable per call and passed
// by value through the graph.
//
// BatchIndex increases monotonically from the driver's point of view.
// Stateful nodes must not assume successive calls carry adjacent or
// non-overlapping indices; the only guarantee is that caching wrappers
// treat two calls as the same batch exactly when BatchIndex is unchanged.
type Context struct {
	// SampleRate is the output sample rate in Hz. Always positive.
	SampleRate float64
	// BatchIndex identifies the batch being rendered.
	BatchIndex uint64
	// NumSamples is the number of samples requested for this batch.
	NumSamples int
}

// SamplePeriod returns the duration of one sample in seconds.
func (c Context) SamplePeriod() float64 {
	if c.SampleRate <= 0 {
		return 0
	}

	return 1 / c.SampleRate
}
