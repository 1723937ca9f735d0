// Package deconv recovers an impulse response from a sweep recording.
package deconv

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-roomir/dsp/conv"
	"github.com/cwbudde/algo-roomir/measure/diag"
)

// Errors returned by Deconvolve.
var (
	ErrEmptyRecording = errors.New("deconv: empty recording")
	ErrEmptyFilter    = errors.New("deconv: empty inverse filter")
)

// Result is a peak-normalized impulse response.
type Result struct {
	// IR has length len(recording) + len(inverse) - 1. Its largest absolute
	// sample is exactly 1, unless the raw response was all zeros.
	IR []float64
	// Peak is the absolute peak of the raw convolution, before normalization.
	Peak float64
	// PeakIndex is the index of that peak in IR.
	PeakIndex int
	Events    diag.Events
}

// Deconvolve convolves an aligned recording with the inverse filter of the
// sweep it contains. The full linear convolution is kept so late energy at
// the recording's tail is not lost.
//
// A raw response with zero peak is returned unnormalized with a warning; it
// means the signal path was silent or disconnected.
func Deconvolve(recording, inverse []float64) (Result, error) {
	if len(recording) == 0 {
		return Result{}, ErrEmptyRecording
	}

	if len(inverse) == 0 {
		return Result{}, ErrEmptyFilter
	}

	ir, err := conv.Convolve(recording, inverse)
	if err != nil {
		return Result{}, fmt.Errorf("deconv: %w", err)
	}

	idx, val := conv.FindPeakAbs(ir)

	peak := val
	if peak < 0 {
		peak = -peak
	}

	res := Result{IR: ir, Peak: peak, PeakIndex: idx}

	if peak == 0 {
		res.Events = append(res.Events, diag.NewWarning(diag.StageDeconv, "impulse response is silent, normalization skipped", nil))
		return res, nil
	}

	// Divide rather than multiply by the reciprocal: x/x is exactly 1.
	for i := range ir {
		ir[i] /= peak
	}

	res.Events = append(res.Events, diag.NewInfo(diag.StageDeconv, "impulse response normalized", map[string]float64{
		"peak":       peak,
		"peak_index": float64(idx),
		"samples":    float64(len(ir)),
	}))

	return res, nil
}
