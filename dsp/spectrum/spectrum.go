package spectrum

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// ErrInvalidInput reports inconsistent spectrum inputs.
var ErrInvalidInput = errors.New("spectrum: invalid input")

// levelFloor keeps log10 finite for empty bins.
const levelFloor = 1e-12

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)

	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}

	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

func split(in []complex128) (re, im []float64, buf *scratchBuf) {
	re, im, buf = getScratch(len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	return re, im, buf
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := split(in)
	vecmath.Magnitude(out, re, im)
	putScratch(buf)

	return out
}

// RelativeDB converts magnitudes to decibels relative to their maximum:
//
//	L[k] = 20*log10(|X[k]| / max|X| + 1e-12)
//
// The loudest bin is 0 dB. An all-zero input maps to the floor, -240 dB.
func RelativeDB(mag []float64) []float64 {
	out := make([]float64, len(mag))

	peak := 0.0
	for _, v := range mag {
		peak = math.Max(peak, math.Abs(v))
	}

	for i, v := range mag {
		ratio := 0.0
		if peak > 0 {
			ratio = math.Abs(v) / peak
		}

		out[i] = 20 * math.Log10(ratio+levelFloor)
	}

	return out
}

// BinFrequencies returns the centre frequency of each of the n/2+1 bins of a
// real FFT of size n.
func BinFrequencies(n int, sampleRate float64) []float64 {
	if n <= 0 {
		return nil
	}

	out := make([]float64, n/2+1)
	for k := range out {
		out[k] = float64(k) * sampleRate / float64(n)
	}

	return out
}

// SmoothFractionalOctave applies simple 1/N-octave smoothing on linear-domain
// values using arithmetic mean over each fractional-octave band.
//
// freqHz and values must have equal length and freqHz must be strictly
// increasing with positive values.
func SmoothFractionalOctave(freqHz, values []float64, fraction int) ([]float64, error) {
	if len(freqHz) == 0 || len(values) == 0 {
		return nil, fmt.Errorf("%w: fractional-octave smoothing requires non-empty inputs", ErrInvalidInput)
	}

	if len(freqHz) != len(values) {
		return nil, fmt.Errorf("%w: fractional-octave length mismatch: %d != %d", ErrInvalidInput, len(freqHz), len(values))
	}

	if fraction <= 0 {
		return nil, fmt.Errorf("%w: fractional-octave fraction must be > 0: %d", ErrInvalidInput, fraction)
	}

	for i := range freqHz {
		if freqHz[i] <= 0 {
			return nil, fmt.Errorf("%w: frequencies must be > 0 at index %d", ErrInvalidInput, i)
		}

		if i > 0 && !(freqHz[i] > freqHz[i-1]) {
			return nil, fmt.Errorf("%w: frequencies must be strictly increasing at index %d", ErrInvalidInput, i)
		}
	}

	out := make([]float64, len(values))
	halfBand := math.Pow(2, 1/(2*float64(fraction)))

	for i, f := range freqHz {
		fLo := f / halfBand
		fHi := f * halfBand

		i0 := sort.Search(len(freqHz), func(k int) bool { return freqHz[k] >= fLo })
		i1 := sort.Search(len(freqHz), func(k int) bool { return freqHz[k] > fHi })

		if i0 >= i1 {
			out[i] = values[i]
			continue
		}

		sum := 0.0
		for j := i0; j < i1; j++ {
			sum += values[j]
		}

		out[i] = sum / float64(i1-i0)
	}

	return out, nil
}
