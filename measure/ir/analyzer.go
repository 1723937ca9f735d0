package ir

import (
	"github.com/cwbudde/algo-roomir/dsp/conv"
	"github.com/cwbudde/algo-roomir/measure/config"
)

// Analysis windows and bounds.
const (
	fitUpperDB     = -5.0  // fit window starts below this level
	fitLowerDB     = -35.0 // and ends above this one
	minFitSamples  = 10
	flatSlope      = 1e-10 // dB/s
	maxRT60        = 30.0  // s, larger results are artifacts
	longRT60       = 5.0   // s, advisory
	shortRT60      = 0.2   // s, advisory
	clarityWindow  = 0.05  // s
	directHalfSpan = 0.005 // s
)

// Analyzer evaluates impulse responses with the parameters of one
// measurement run.
type Analyzer struct {
	sampleRate          float64
	eps                 float64
	earlyReflectionTime float64
	minPeakDB           float64
	minPeakDistanceMs   float64
	responseWindow      string
	responseSmoothing   int
}

// NewAnalyzer creates an Analyzer from the measurement configuration.
func NewAnalyzer(cfg config.Config) *Analyzer {
	eps := cfg.MinEnergy
	if eps <= 0 {
		eps = config.DefaultMinEnergy
	}

	return &Analyzer{
		sampleRate:          cfg.SampleRate,
		eps:                 eps,
		earlyReflectionTime: cfg.EarlyReflectionTime,
		minPeakDB:           cfg.MinPeakDB,
		minPeakDistanceMs:   cfg.MinPeakDistanceMs,
		responseWindow:      cfg.ResponseWindow,
		responseSmoothing:   cfg.ResponseSmoothing,
	}
}

// SampleRate returns the sample rate the Analyzer interprets IRs at.
func (a *Analyzer) SampleRate() float64 {
	return a.sampleRate
}

// DirectIndex returns the index of the direct sound, the sample with the
// largest magnitude. Ties resolve to the earliest sample; an empty IR
// returns -1.
func DirectIndex(ir []float64) int {
	idx, _ := conv.FindPeakAbs(ir)
	return idx
}

func (a *Analyzer) samples(seconds float64) int {
	n := int(seconds * a.sampleRate)
	if n < 0 {
		return 0
	}

	return n
}
