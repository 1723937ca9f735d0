package ir

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-roomir/dsp/spectrum"
	"github.com/cwbudde/algo-roomir/dsp/window"
)

// Errors returned by FrequencyResponse.
var (
	ErrEmptyIR           = errors.New("ir: impulse response is empty")
	ErrInvalidSampleRate = errors.New("ir: sample rate must be positive")
)

// Response is a magnitude response sampled at the bins of a real FFT.
type Response struct {
	Frequencies []float64 // Hz, len(ir)/2+1 bins from DC to Nyquist
	Level       []float64 // dB relative to the loudest bin
}

// FrequencyResponse windows the whole IR with the periodic form of the
// configured window (Hann by default), transforms it and returns the level of every bin relative to the
// loudest one. With ResponseSmoothing N > 0 the magnitudes above DC are
// averaged over 1/N-octave bands before the conversion to dB.
func (a *Analyzer) FrequencyResponse(ir []float64) (Response, error) {
	if len(ir) == 0 {
		return Response{}, ErrEmptyIR
	}

	if a.sampleRate <= 0 {
		return Response{}, fmt.Errorf("%w: %g", ErrInvalidSampleRate, a.sampleRate)
	}

	wt, err := window.ParseType(a.responseWindow)
	if err != nil {
		return Response{}, fmt.Errorf("ir: response window: %w", err)
	}

	windowed, err := window.ApplyCoefficients(ir, window.Generate(wt, len(ir), window.WithPeriodic()))
	if err != nil {
		return Response{}, err
	}

	coeffs := fourier.NewFFT(len(ir)).Coefficients(nil, windowed)
	mag := spectrum.Magnitude(coeffs)
	freqs := spectrum.BinFrequencies(len(ir), a.sampleRate)

	if a.responseSmoothing > 0 && len(mag) > 1 {
		smoothed, err := spectrum.SmoothFractionalOctave(freqs[1:], mag[1:], a.responseSmoothing)
		if err != nil {
			return Response{}, err
		}

		copy(mag[1:], smoothed)
	}

	return Response{Frequencies: freqs, Level: spectrum.RelativeDB(mag)}, nil
}
