package conv

import "math"

// Correlate computes the full cross-correlation of a and b.
// The result has length len(a) + len(b) - 1.
// Output index k corresponds to lag k - (len(b) - 1): a positive lag means
// b appears that many samples into a.
//
// Cross-correlation is convolution with the time-reversed second signal.
func Correlate(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}

	rev := make([]float64, len(b))
	for i := range b {
		rev[i] = b[len(b)-1-i]
	}

	return Convolve(a, rev)
}

// FindPeakAbs returns the index and signed value of the sample with the
// largest magnitude. Ties resolve to the first occurrence. An empty input
// returns index -1.
func FindPeakAbs(x []float64) (index int, value float64) {
	if len(x) == 0 {
		return -1, 0
	}

	best := -1.0

	for i, v := range x {
		if a := math.Abs(v); a > best {
			index = i
			value = v
			best = a
		}
	}

	return index, value
}

// LagFromIndex converts a correlation result index to a lag value.
// For a correlation against a reference of length lenB, the lag at index i
// is i - (lenB - 1).
func LagFromIndex(index, lenB int) int {
	return index - (lenB - 1)
}
