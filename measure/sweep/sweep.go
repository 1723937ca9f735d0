package sweep

import (
	"errors"
	"math"

	"github.com/tphakala/simd/f64"

	"github.com/cwbudde/algo-roomir/measure/config"
)

// Errors returned by Validate.
var (
	ErrInvalidFrequency  = errors.New("sweep: frequency must be positive")
	ErrInvalidDuration   = errors.New("sweep: duration must be positive")
	ErrInvalidSampleRate = errors.New("sweep: sample rate must be positive")
	ErrFrequencyOrder    = errors.New("sweep: start frequency must be less than end frequency")
	ErrNegativeSilence   = errors.New("sweep: silence padding must not be negative")
)

// LogSweep describes an exponential sine sweep and the silence around it.
type LogSweep struct {
	StartFreq   float64 // start frequency in Hz
	EndFreq     float64 // end frequency in Hz
	Duration    float64 // sweep duration in seconds
	SampleRate  float64 // sample rate in Hz
	SilencePre  float64 // zero padding before the sweep, seconds
	SilencePost float64 // zero padding after the sweep, seconds
}

// FromConfig builds the sweep described by a measurement configuration.
func FromConfig(cfg config.Config) *LogSweep {
	return &LogSweep{
		StartFreq:   cfg.SweepFreqMin,
		EndFreq:     cfg.SweepFreqMax,
		Duration:    cfg.SweepDuration,
		SampleRate:  cfg.SampleRate,
		SilencePre:  cfg.SilencePre,
		SilencePost: cfg.SilencePost,
	}
}

// Validate checks that the LogSweep parameters describe a usable excitation.
func (s *LogSweep) Validate() error {
	if s.StartFreq <= 0 || s.EndFreq <= 0 {
		return ErrInvalidFrequency
	}

	if s.StartFreq >= s.EndFreq {
		return ErrFrequencyOrder
	}

	if s.Duration <= 0 {
		return ErrInvalidDuration
	}

	if s.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}

	if s.SilencePre < 0 || s.SilencePost < 0 {
		return ErrNegativeSilence
	}

	return nil
}

// Samples returns the number of samples in the bare sweep.
func (s *LogSweep) Samples() int {
	if s.Duration <= 0 || s.SampleRate <= 0 {
		return 0
	}

	return int(math.Round(s.Duration * s.SampleRate))
}

// Generate creates the bare logarithmic sine sweep.
//
// The instantaneous frequency rises exponentially from StartFreq to EndFreq:
//
//	f(t) = f1 * exp(t/T * ln(f2/f1))
//
// and the phase is its closed-form integral, so the sweep is continuous:
//
//	x(t) = sin(2π * f1 * T / ln(f2/f1) * (exp(t/T * ln(f2/f1)) - 1))
//
// With f1 == f2 the phase law degenerates to its limit, a constant tone at f1.
// A non-positive frequency yields silence.
func (s *LogSweep) Generate() []float64 {
	n := s.Samples()
	out := make([]float64, n)

	if s.StartFreq <= 0 || s.EndFreq <= 0 {
		return out
	}

	T := s.Duration
	lnRatio := math.Log(s.EndFreq / s.StartFreq)

	for i := range out {
		t := float64(i) / s.SampleRate

		var phase float64
		if lnRatio == 0 {
			phase = 2 * math.Pi * s.StartFreq * t
		} else {
			phase = 2 * math.Pi * s.StartFreq * T / lnRatio * (math.Exp(t/T*lnRatio) - 1)
		}

		out[i] = math.Sin(phase)
	}

	return out
}

// InverseFilter creates the matched inverse filter for deconvolution.
//
// Each sweep sample is weighted by the angular frequency it carries,
// w(t) = 2π·f(t), then the weighted sweep is time-reversed and scaled to unit
// peak magnitude. The weighting lifts the high end by 6 dB/octave, which
// cancels the pink spectrum of the sweep after convolution. If the weighted
// filter is all zeros the normalization is skipped.
func (s *LogSweep) InverseFilter() []float64 {
	return s.inverseOf(s.Generate())
}

func (s *LogSweep) inverseOf(sweep []float64) []float64 {
	n := len(sweep)
	inv := make([]float64, n)

	if n == 0 || s.StartFreq <= 0 || s.EndFreq <= 0 {
		return inv
	}

	T := s.Duration
	lnRatio := math.Log(s.EndFreq / s.StartFreq)

	peak := 0.0

	for i := range inv {
		j := n - 1 - i
		t := float64(j) / s.SampleRate
		w := 2 * math.Pi * s.StartFreq * math.Exp(t*lnRatio/T)

		inv[i] = sweep[j] * w
		if a := math.Abs(inv[i]); a > peak {
			peak = a
		}
	}

	if peak > 0 {
		f64.Scale(inv, inv, 1/peak)
	}

	return inv
}

// Excitation returns the playback signal: the sweep framed by SilencePre
// seconds of zeros before and SilencePost seconds after.
func (s *LogSweep) Excitation() []float64 {
	return s.pad(s.Generate())
}

func (s *LogSweep) pad(sweep []float64) []float64 {
	pre := silenceSamples(s.SilencePre, s.SampleRate)
	post := silenceSamples(s.SilencePost, s.SampleRate)

	out := make([]float64, pre+len(sweep)+post)
	copy(out[pre:], sweep)

	return out
}

func silenceSamples(seconds, sampleRate float64) int {
	n := int(seconds * sampleRate)
	if n < 0 {
		return 0
	}

	return n
}

// Pair bundles one generated sweep with everything derived from it. The
// inverse filter is only valid together with the sweep in the same Pair.
type Pair struct {
	Excitation []float64 // playback signal including silence padding
	Sweep      []float64 // bare sweep, the synchronization reference
	Inverse    []float64 // matched inverse filter
	PreSamples int       // leading silence in Excitation
	SampleRate float64
}

// Pair generates the sweep once and derives the excitation and inverse filter
// from the same samples.
func (s *LogSweep) Pair() Pair {
	sw := s.Generate()

	return Pair{
		Excitation: s.pad(sw),
		Sweep:      sw,
		Inverse:    s.inverseOf(sw),
		PreSamples: silenceSamples(s.SilencePre, s.SampleRate),
		SampleRate: s.SampleRate,
	}
}
