// Package spectrum provides spectrum-domain helpers for impulse response
// analysis.
//
// The package does not implement an FFT. It operates on complex bins produced
// by an FFT backend and turns them into magnitude or relative level
// curves, with optional fractional-octave smoothing.
package spectrum
