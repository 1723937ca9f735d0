package ir

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-roomir/measure/diag"
	timestats "github.com/cwbudde/algo-roomir/stats/time"
)

const (
	lateDirectTime    = 0.1  // s
	minSNR            = 40.0 // dB
	noiseFloorSamples = 1000
	sectionLength     = 0.5 // s
	maxSections       = 10
)

// Quality summarizes how trustworthy a measured IR is.
type Quality struct {
	DirectIndex     int
	DirectTime      float64 // seconds from IR start
	Peak            float64 // |IR| at the direct sound
	NoiseFloor      float64 // RMS of the lead-in
	SNR             Metric  // dB, peak over noise floor
	PreDirectShare  float64 // percent of energy before the direct sound
	SectionEnergies []float64
	Decaying        bool // section energies never increase
}

// DirectTiming returns the delay of the direct sound after zeroLag, the
// index in ir that corresponds to zero acoustic delay, in seconds.
//
// The whole IR is searched. A direct sound more than 5 ms before zeroLag is a
// negative delay, which no room produces: synchronization cut the recording
// too late. A
// direct sound later than 100 ms after zeroLag usually means synchronization
// locked onto the wrong lag. Both raise a warning.
func (a *Analyzer) DirectTiming(ir []float64, zeroLag int) (float64, diag.Events) {
	if len(ir) == 0 || a.sampleRate <= 0 {
		return 0, diag.Events{diag.NewWarning(diag.StageIR, "cannot locate direct sound", nil)}
	}

	zeroLag = min(max(0, zeroLag), len(ir)-1)
	idx := DirectIndex(ir)
	t := float64(idx-zeroLag) / a.sampleRate
	fields := map[string]float64{
		"direct_index": float64(idx),
		"zero_lag":     float64(zeroLag),
		"direct_time":  t,
	}

	switch {
	case t < -directHalfSpan:
		return t, diag.Events{diag.NewWarning(diag.StageIR, "direct sound precedes zero lag, synchronization cut too late", fields)}
	case t > lateDirectTime:
		return t, diag.Events{diag.NewWarning(diag.StageIR, "direct sound arrives late, check synchronization", fields)}
	}

	return t, diag.Events{diag.NewInfo(diag.StageIR, "direct sound", fields)}
}

// TrimToDirect returns a copy of ir starting pre seconds before the direct
// sound, or at the first sample if the direct sound comes sooner.
func TrimToDirect(ir []float64, sampleRate, pre float64) []float64 {
	if len(ir) == 0 {
		return []float64{}
	}

	start := max(0, DirectIndex(ir)-max(0, int(pre*sampleRate)))

	out := make([]float64, len(ir)-start)
	copy(out, ir[start:])

	return out
}

// Quality estimates the noise floor from the lead-in, the signal-to-noise
// ratio of the direct sound and whether the energy decays steadily in
// half-second sections after it.
//
// The noise floor is the RMS of the first max(1000, DirectIndex/2) samples;
// an SNR below 40 dB raises a warning.
func (a *Analyzer) Quality(ir []float64) (Quality, diag.Events) {
	var q Quality

	if len(ir) == 0 {
		q.SNR = Unavailable(ReasonEmpty)
		return q, diag.Events{diag.NewWarning(diag.StageIR, string(ReasonEmpty), nil)}
	}

	n := len(ir)
	idx := DirectIndex(ir)

	q.DirectIndex = idx
	q.Peak = math.Abs(ir[idx])

	if a.sampleRate > 0 {
		q.DirectTime = float64(idx) / a.sampleRate
	}

	total := floats.Dot(ir, ir)
	if total > 0 {
		q.PreDirectShare = 100 * floats.Dot(ir[:idx], ir[:idx]) / total
	}

	q.NoiseFloor = timestats.RMS(ir[:min(n, max(noiseFloorSamples, idx/2))])

	var events diag.Events

	switch {
	case q.Peak == 0:
		q.SNR = Unavailable(ReasonSilent)
	case q.NoiseFloor == 0:
		q.SNR = Ok(math.Inf(1))
	default:
		q.SNR = Ok(20 * math.Log10(q.Peak/q.NoiseFloor))
	}

	if q.SNR.Available && q.SNR.Value < minSNR {
		events = append(events, diag.NewWarning(diag.StageIR, "low signal-to-noise ratio", map[string]float64{
			"snr_db":      q.SNR.Value,
			"noise_floor": q.NoiseFloor,
		}))
	}

	q.SectionEnergies, q.Decaying = a.sectionEnergies(ir, idx)
	if !q.Decaying {
		events = append(events, diag.NewWarning(diag.StageIR, "energy does not decay steadily, noise may dominate", map[string]float64{
			"sections": float64(len(q.SectionEnergies)),
		}))
	}

	return q, events
}

// sectionEnergies returns the energy of consecutive half-second sections
// after the direct sound and whether they are non-increasing. Fewer than two
// sections count as decaying.
func (a *Analyzer) sectionEnergies(ir []float64, idx int) ([]float64, bool) {
	span := sectionLength * a.sampleRate
	if span < 1 {
		return nil, true
	}

	sections := min(maxSections, int(float64(len(ir)-idx)/span))
	if sections < 2 {
		return nil, true
	}

	out := make([]float64, 0, sections)

	for i := range sections {
		start := idx + int(float64(i)*span)
		end := idx + int(float64(i+1)*span)

		if end > len(ir) {
			break
		}

		out = append(out, timestats.Energy(ir[start:end]))
	}

	for i := 1; i < len(out); i++ {
		if out[i] > out[i-1] {
			return out, false
		}
	}

	return out, true
}
