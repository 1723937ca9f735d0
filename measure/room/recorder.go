package room

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-roomir/dsp/conv"
	"github.com/cwbudde/algo-roomir/dsp/signal"
)

// Recording is a mono capture as delivered by the audio collaborator.
type Recording struct {
	Samples    []float64
	SampleRate int
}

// Recorder plays a signal and captures the room's response at the same time.
// The returned recording must cover at least the whole playback.
type Recorder interface {
	PlayRecord(ctx context.Context, playback []float64, sampleRate int) (Recording, error)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, playback []float64, sampleRate int) (Recording, error)

// PlayRecord calls f.
func (f RecorderFunc) PlayRecord(ctx context.Context, playback []float64, sampleRate int) (Recording, error) {
	return f(ctx, playback, sampleRate)
}

// simulatorPeak is the highest level the simulated room delivers to the
// capture, before noise.
const simulatorPeak = 0.5

// Simulator is a Recorder that passes the playback through a synthetic room:
// it convolves with the room's impulse response, scales the result down to
// at most simulatorPeak, delays it by the playback latency and adds white
// noise.
type Simulator struct {
	Room    signal.Room
	Latency float64 // seconds between playback and capture
	Noise   float64 // noise amplitude
	Seed    int64
}

// PlayRecord returns the simulated capture, as long as the playback.
func (s *Simulator) PlayRecord(ctx context.Context, playback []float64, sampleRate int) (Recording, error) {
	if err := ctx.Err(); err != nil {
		return Recording{}, err
	}

	gen := signal.NewGenerator(float64(sampleRate), signal.WithSeed(s.Seed))

	response, err := gen.RoomImpulse(s.Room)
	if err != nil {
		return Recording{}, fmt.Errorf("room: simulator: %w", err)
	}

	wet, err := conv.Convolve(playback, response)
	if err != nil {
		return Recording{}, fmt.Errorf("room: simulator: %w", err)
	}

	if _, peak := conv.FindPeakAbs(wet); math.Abs(peak) > simulatorPeak {
		if wet, err = signal.Normalize(wet, simulatorPeak); err != nil {
			return Recording{}, fmt.Errorf("room: simulator: %w", err)
		}
	}

	out := make([]float64, len(playback))

	if latency := int(s.Latency * float64(sampleRate)); latency < len(out) {
		copy(out[max(0, latency):], wet)
	}

	if s.Noise > 0 {
		noise, err := signal.NewGenerator(float64(sampleRate), signal.WithSeed(s.Seed+1)).WhiteNoise(s.Noise, len(out))
		if err != nil {
			return Recording{}, fmt.Errorf("room: simulator: %w", err)
		}

		for i, v := range noise {
			out[i] += v
		}
	}

	return Recording{Samples: out, SampleRate: sampleRate}, nil
}
