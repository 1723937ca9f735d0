// Package wavio reads and writes the WAV files exchanged with the audio
// collaborator: recordings in, impulse responses and their components out.
package wavio

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/farcloser/primordium/fault"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// BitDepth is the PCM resolution of written files.
const BitDepth = 24

const pcmFormat = 1

// Errors returned by the readers and writers.
var (
	ErrInvalidFile      = errors.New("wavio: not a valid WAV file")
	ErrNoChannels       = errors.New("wavio: no channels to write")
	ErrChannelLength    = errors.New("wavio: channels differ in length")
	ErrInvalidRate      = errors.New("wavio: sample rate must be positive")
	ErrUnsupportedDepth = errors.New("wavio: unsupported bit depth")
)

// ReadMono decodes a PCM WAV file into samples in [-1, 1]. Multichannel
// files are mixed down by averaging the channels.
func ReadMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidFile, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = int(dec.BitDepth)
	}

	if depth <= 0 || depth > 32 {
		return nil, 0, fmt.Errorf("%w: %d", ErrUnsupportedDepth, depth)
	}

	channels := max(1, buf.Format.NumChannels)
	frames := len(buf.Data) / channels
	scale := 1 / (math.Pow(2, float64(depth-1)) * float64(channels))

	out := make([]float64, frames)
	for i := range out {
		sum := 0
		for c := range channels {
			sum += buf.Data[i*channels+c]
		}

		out[i] = float64(sum) * scale
	}

	return out, buf.Format.SampleRate, nil
}

// WriteMono writes samples as a 24-bit mono PCM file.
func WriteMono(path string, samples []float64, sampleRate int) error {
	return WriteChannels(path, [][]float64{samples}, sampleRate)
}

// WriteChannels writes equally long channels as one interleaved 24-bit PCM
// file. Samples are clipped to [-1, 1].
func WriteChannels(path string, channels [][]float64, sampleRate int) error {
	if len(channels) == 0 {
		return ErrNoChannels
	}

	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRate, sampleRate)
	}

	frames := len(channels[0])
	for i, ch := range channels {
		if len(ch) != frames {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", ErrChannelLength, i, len(ch), frames)
		}
	}

	fullScale := math.Pow(2, BitDepth-1) - 1
	data := make([]int, frames*len(channels))

	for c, ch := range channels {
		for i, v := range ch {
			data[i*len(channels)+c] = int(math.Round(math.Max(-1, math.Min(1, v)) * fullScale))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: create %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, sampleRate, BitDepth, len(channels), pcmFormat)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: len(channels), SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: BitDepth,
	}

	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("wavio: write %s: %w", path, err)
	}

	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("wavio: finalize %s: %w", path, err)
	}

	return f.Close()
}
