// Package conv provides linear convolution and cross-correlation of real
// signals.
//
// Two strategies are available:
//
//   - Direct: O(N*M) time-domain convolution, best for short kernels
//   - Overlap-add (OLA): FFT-based block convolution for long kernels
//
// [Convolve] picks between them by kernel length. Measurement signals are
// long (a sweep and its inverse filter are typically several hundred
// thousand samples) so the FFT path carries almost all of the real work.
//
// # Usage
//
//	y, err := conv.Convolve(recording, inverse)  // full linear convolution
//	c, err := conv.Correlate(recording, sweep)   // full cross-correlation
//	idx, _ := conv.FindPeakAbs(c)
//	lag := conv.LagFromIndex(idx, len(sweep))
//
// For repeated convolution with the same kernel, reuse an [OverlapAdd]:
//
//	oa, err := conv.NewOverlapAdd(kernel, 0)
//	y, err := oa.Process(signal)
package conv
