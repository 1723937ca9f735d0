// Package signal generates deterministic synthetic signals: test tones,
// noise and exponentially decaying room impulse responses.
package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ErrInvalidParameter reports an unusable generator argument.
var ErrInvalidParameter = errors.New("signal: invalid parameter")

// decayConstant is ln(10^3): an amplitude envelope exp(-decayConstant*t/T)
// falls by 60 dB at t = T.
const decayConstant = 6.907755278982137

// Generator creates deterministic signals at a fixed sample rate.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a signal generator for the given sample rate.
func NewGenerator(sampleRate float64, opts ...Option) *Generator {
	g := &Generator{sampleRate: sampleRate, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("%w: noise samples must be > 0: %d", ErrInvalidParameter, samples)
	}

	if amplitude < 0 {
		return nil, fmt.Errorf("%w: noise amplitude must be >= 0: %f", ErrInvalidParameter, amplitude)
	}

	out := make([]float64, samples)

	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out, nil
}

// Reflection is a discrete echo in a synthetic room response.
type Reflection struct {
	Delay float64 // seconds after the direct sound
	Gain  float64 // linear, relative to the direct sound
}

// Room describes a synthetic room impulse response.
type Room struct {
	RT60        float64 // reverberation time of the diffuse tail, seconds
	Length      float64 // response length, seconds
	Predelay    float64 // direct sound arrival, seconds
	TailLevel   float64 // initial tail amplitude relative to the direct sound
	Reflections []Reflection
}

// RoomImpulse synthesizes a room impulse response: a unit direct-sound spike
// at Predelay, discrete reflections, and a diffuse tail of white noise shaped
// by exp(-6.91*t/RT60) starting at the direct sound.
func (g *Generator) RoomImpulse(room Room) ([]float64, error) {
	if g.sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be > 0: %f", ErrInvalidParameter, g.sampleRate)
	}

	if room.RT60 <= 0 {
		return nil, fmt.Errorf("%w: RT60 must be > 0: %f", ErrInvalidParameter, room.RT60)
	}

	n := int(room.Length * g.sampleRate)
	start := int(room.Predelay * g.sampleRate)

	if room.Predelay < 0 || start >= n {
		return nil, fmt.Errorf("%w: predelay %.3f s outside response of %.3f s", ErrInvalidParameter, room.Predelay, room.Length)
	}

	noise, err := g.WhiteNoise(1, n-start)
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)

	for i, v := range noise {
		t := float64(i) / g.sampleRate
		out[start+i] = room.TailLevel * v * math.Exp(-decayConstant*t/room.RT60)
	}

	reflections := append([]Reflection(nil), room.Reflections...)
	sort.Slice(reflections, func(i, j int) bool { return reflections[i].Delay < reflections[j].Delay })

	for _, r := range reflections {
		if idx := start + int(r.Delay*g.sampleRate); idx > start && idx < n {
			out[idx] += r.Gain
		}
	}

	out[start] = 1

	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("%w: normalize target peak must be >= 0: %f", ErrInvalidParameter, targetPeak)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: normalize input must not be empty", ErrInvalidParameter)
	}

	maxAbs := 0.0
	for _, v := range data {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}

	return out, nil
}
