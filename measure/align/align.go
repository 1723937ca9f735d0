// Package align locates the excitation sweep inside a raw recording.
//
// The recording is cross-correlated against the bare sweep; the lag of the
// largest correlation magnitude is the onset of the sweep. Alignment is the
// most fragile stage of a measurement: on low-SNR recordings the correlation
// peak can lock onto noise, so the returned offset is provisional until the
// direct-sound timing of the resulting impulse response has been checked.
package align

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-roomir/dsp/conv"
	"github.com/cwbudde/algo-roomir/measure/diag"
)

// Errors returned by Align. Both are fatal for the measurement.
var (
	ErrEmptySweep    = errors.New("align: empty sweep")
	ErrInputTooShort = errors.New("align: recording shorter than sweep")
	ErrOutOfRange    = errors.New("align: offset beyond end of recording")
)

// Alignment is the recording trimmed to the sweep onset.
type Alignment struct {
	// Offset is the sample index in the original recording where the sweep starts.
	Offset int
	// Samples is a copy of recording[Offset:].
	Samples []float64
	// Correlation is the magnitude of the correlation peak.
	Correlation float64
	Events      diag.Events
}

// Align returns the part of recording that starts at the onset of sweep.
//
// The offset is argmax|corr| - (len(sweep) - 1) over the full
// cross-correlation. A negative offset is clamped to zero with a warning. A
// result shorter than half the sweep is returned with a warning.
func Align(recording, sweep []float64) (Alignment, error) {
	if len(sweep) == 0 {
		return Alignment{}, ErrEmptySweep
	}

	if len(recording) < len(sweep) {
		return Alignment{}, fmt.Errorf("%w: %d < %d samples", ErrInputTooShort, len(recording), len(sweep))
	}

	corr, err := conv.Correlate(recording, sweep)
	if err != nil {
		return Alignment{}, fmt.Errorf("align: correlate: %w", err)
	}

	idx, val := conv.FindPeakAbs(corr)
	offset := conv.LagFromIndex(idx, len(sweep))
	peak := math.Abs(val)

	var events diag.Events

	if peak == 0 {
		events = append(events, diag.NewWarning(diag.StageSync, "recording does not correlate with sweep, alignment is arbitrary", nil))
	}

	if offset < 0 {
		events = append(events, diag.NewWarning(diag.StageSync, "negative offset clamped to zero", map[string]float64{
			"offset": float64(offset),
		}))
		offset = 0
	}

	if offset >= len(recording) {
		return Alignment{}, fmt.Errorf("%w: offset %d, recording %d samples", ErrOutOfRange, offset, len(recording))
	}

	samples := slices.Clone(recording[offset:])

	events = append(events, diag.NewInfo(diag.StageSync, "sweep located", map[string]float64{
		"offset":      float64(offset),
		"correlation": peak,
	}))

	if len(samples) < len(sweep)/2 {
		events = append(events, diag.NewWarning(diag.StageSync, "aligned recording is shorter than half the sweep", map[string]float64{
			"samples": float64(len(samples)),
			"sweep":   float64(len(sweep)),
		}))
	}

	return Alignment{
		Offset:      offset,
		Samples:     samples,
		Correlation: peak,
		Events:      events,
	}, nil
}
