// Package sweep generates the exponential (logarithmic) sine sweep used as
// the excitation signal of an impulse response measurement, together with its
// matched inverse filter.
//
// A logarithmic sweep spends equal time per octave, so it carries less energy
// per Hz at high frequencies. The inverse filter is the time-reversed sweep
// weighted by the instantaneous angular frequency
//
//	w(t) = 2π·f1·exp(t·ln(f2/f1)/T)
//
// which restores a flat magnitude response when the two are convolved.
//
// # Usage
//
//	s := sweep.FromConfig(cfg)
//	pair := s.Pair()
//	// ... play pair.Excitation, record the response ...
//	// synchronize against pair.Sweep, deconvolve with pair.Inverse
//
// Generation never fails: a degenerate configuration (f1 == f2, non-positive
// frequencies, zero duration) yields degenerate but finite output. Call
// Validate when the configuration comes from an untrusted source.
package sweep
