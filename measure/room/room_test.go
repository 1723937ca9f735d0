package room

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-roomir/dsp/signal"
	"github.com/cwbudde/algo-roomir/internal/testutil"
	"github.com/cwbudde/algo-roomir/measure/align"
	"github.com/cwbudde/algo-roomir/measure/config"
	"github.com/cwbudde/algo-roomir/measure/diag"
	"github.com/cwbudde/algo-roomir/measure/ir"
)

const testRate = 8000

func testConfig(opts ...config.Option) config.Config {
	base := []config.Option{
		config.WithSampleRate(testRate),
		config.WithSweep(1, 50, 3500),
		config.WithSilence(0.1, 0),
		config.WithRecordTail(1),
	}

	return config.Apply(config.Default(), append(base, opts...)...)
}

func testSimulator() *Simulator {
	return &Simulator{
		Room: signal.Room{
			RT60:        0.4,
			Length:      0.6,
			TailLevel:   0.1,
			Reflections: []signal.Reflection{{Delay: 0.012, Gain: 0.5}},
		},
		Latency: 0.05,
		Noise:   1e-5,
		Seed:    3,
	}
}

func TestRunSimulatedRoom(t *testing.T) {
	m := New(testConfig())

	res, err := m.Run(context.Background(), testSimulator())
	require.NoError(t, err)

	// pre-silence plus latency
	assert.InDelta(t, 1200, res.Alignment.Offset, 1)

	assert.Len(t, res.RawIR, len(res.Alignment.Samples)+len(res.Pair.Inverse)-1)
	assert.InDelta(t, 400, ir.DirectIndex(res.IR), 1, "trimmed IR keeps 50 ms before the direct sound")

	a := res.Analysis
	require.NotNil(t, a)
	assert.InDelta(t, float64(testRate), a.SampleRate, 0)

	require.True(t, a.RT60.Available, "RT60 unavailable: %s", a.RT60.Reason)
	assert.InEpsilon(t, 0.4, a.RT60.Value, 0.2)

	require.True(t, a.C50.Available, "C50 unavailable: %s", a.C50.Reason)
	assert.Greater(t, a.C50.Value, 0.0)

	assert.True(t, containsTime(a.Reflections, 0.050, 1.5/testRate), "direct sound missing from %v", a.Reflections)
	assert.True(t, containsTime(a.Reflections, 0.062, 1.5/testRate), "reflection missing from %v", a.Reflections)

	s := a.Components.Shares()
	assert.InDelta(t, 100, s.Direct+s.Early+s.Late, 1e-9)
	assert.Greater(t, s.Direct, s.Late)

	assert.Len(t, a.DecayCurve, len(res.IR))
	assert.Len(t, a.Response.Level, len(res.IR)/2+1)

	assert.Empty(t, res.Diagnostics.ByStage(diag.StageCapture).Filter(diag.Warning), "simulated capture stays below full scale")
	assert.True(t, hasMessage(res.Diagnostics.ByStage(diag.StageIR), "direct sound"))
	assert.False(t, hasMessage(res.Diagnostics.Filter(diag.Warning), "synchronization"))
	assert.NotEmpty(t, res.Diagnostics.ByStage(diag.StageSync))
	assert.NotEmpty(t, res.Diagnostics.ByStage(diag.StageDeconv))
	assert.NotEmpty(t, res.Diagnostics.ByStage(diag.StageRT60))
}

func TestProcessDetectsLateSynchronization(t *testing.T) {
	ctx := context.Background()
	m := New(testConfig())
	pair := m.Prepare()

	rec, err := testSimulator().PlayRecord(ctx, m.PlaybackSignal(pair), testRate)
	require.NoError(t, err)

	// a reference missing its first 50 ms makes the correlation lock 400
	// samples late, so the direct sound lands before zero lag
	late := pair
	late.Sweep = pair.Sweep[400:]

	res, err := m.Process(ctx, late, rec)
	require.NoError(t, err)
	assert.InDelta(t, 1600, res.Alignment.Offset, 1)

	var found *diag.Event

	for _, ev := range res.Diagnostics.ByStage(diag.StageIR).Filter(diag.Warning) {
		if strings.Contains(ev.Message, "precedes zero lag") {
			found = &ev
		}
	}

	require.NotNil(t, found, "missing synchronization warning in %+v", res.Diagnostics)
	assert.InDelta(t, -0.05, found.Fields["direct_time"], 2.0/testRate)
	assert.InDelta(t, len(pair.Inverse)-1, found.Fields["zero_lag"], 0)
}

func TestRunWithoutTrim(t *testing.T) {
	m := New(testConfig(config.WithTrim(false, 0)))

	res, err := m.Run(context.Background(), testSimulator())
	require.NoError(t, err)

	assert.Equal(t, res.RawIR, res.IR)
	assert.InDelta(t, len(res.Pair.Inverse)-1, ir.DirectIndex(res.IR), 1)
}

func TestRunSilentRecorder(t *testing.T) {
	silent := RecorderFunc(func(_ context.Context, playback []float64, sampleRate int) (Recording, error) {
		return Recording{Samples: make([]float64, len(playback)), SampleRate: sampleRate}, nil
	})

	res, err := New(testConfig()).Run(context.Background(), silent)
	require.NoError(t, err, "a silent capture degrades into unavailable metrics")

	a := res.Analysis
	assert.False(t, a.RT60.Available)
	assert.True(t, math.IsNaN(a.RT60.Float()))
	assert.False(t, a.C50.Available)
	assert.Empty(t, a.Reflections)

	for i := range res.IR {
		require.Zero(t, a.Components.Direct[i])
		require.Zero(t, a.Components.Early[i])
		require.Zero(t, a.Components.Late[i])
	}

	assert.NotEmpty(t, res.Diagnostics.ByStage(diag.StageCapture).Filter(diag.Warning), "quiet capture warning")
	assert.NotEmpty(t, res.Diagnostics.ByStage(diag.StageDeconv).Filter(diag.Warning), "zero peak warning")
}

func TestProcessErrors(t *testing.T) {
	m := New(testConfig())
	pair := m.Prepare()
	ctx := context.Background()

	_, err := m.Process(ctx, pair, Recording{SampleRate: testRate})
	require.ErrorIs(t, err, ErrEmptyRecording)

	_, err = m.Process(ctx, pair, Recording{Samples: make([]float64, 20000), SampleRate: 44100})
	require.ErrorIs(t, err, ErrSampleRateMismatch)

	_, err = m.Process(ctx, pair, Recording{Samples: make([]float64, len(pair.Sweep)-1), SampleRate: testRate})
	require.ErrorIs(t, err, align.ErrInputTooShort)
}

func TestRunCaptureError(t *testing.T) {
	boom := errors.New("device unplugged")
	failing := RecorderFunc(func(context.Context, []float64, int) (Recording, error) {
		return Recording{}, boom
	})

	_, err := New(testConfig()).Run(context.Background(), failing)
	require.ErrorIs(t, err, boom)
}

func TestPlaybackSignal(t *testing.T) {
	m := New(testConfig())
	pair := m.Prepare()

	playback := m.PlaybackSignal(pair)
	require.Len(t, playback, len(pair.Excitation)+testRate)
	assert.Equal(t, pair.Excitation, playback[:len(pair.Excitation)])

	for _, v := range playback[len(pair.Excitation):] {
		require.Zero(t, v)
	}

	assert.Equal(t, 800, pair.PreSamples)
	assert.InDelta(t, float64(testRate), m.Config().SampleRate, 0)
}

func TestAnalyze(t *testing.T) {
	response, err := signal.NewGenerator(16000, signal.WithSeed(4)).RoomImpulse(signal.Room{RT60: 0.5, Length: 0.6, Predelay: 0.01, TailLevel: 0.5})
	require.NoError(t, err)

	var buf bytes.Buffer

	m := New(testConfig(), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	a, err := m.Analyze(context.Background(), response, 16000)
	require.NoError(t, err)

	assert.InDelta(t, 16000.0, a.SampleRate, 0)
	require.True(t, a.RT60.Available)
	assert.InEpsilon(t, 0.5, a.RT60.Value, 0.1)
	assert.Contains(t, buf.String(), "stage=rt60")
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig()).Analyze(ctx, []float64{1, 0.5, 0.25}, testRate)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSimulator(t *testing.T) {
	sim := &Simulator{Room: signal.Room{RT60: 1, Length: 0.01}, Latency: 0.002}

	playback := make([]float64, 100)
	playback[0] = 1

	rec, err := sim.PlayRecord(context.Background(), playback, 8000)
	require.NoError(t, err)
	require.Len(t, rec.Samples, 100)
	assert.Equal(t, 8000, rec.SampleRate)

	for i, v := range rec.Samples {
		want := 0.0
		if i == 16 {
			want = simulatorPeak
		}

		require.InDelta(t, want, v, 1e-12, "sample %d", i)
	}

	loud := &Simulator{Room: signal.Room{RT60: 0.5, Length: 0.05, TailLevel: 0.8}, Noise: 1e-4, Seed: 2}

	rec, err = loud.PlayRecord(context.Background(), testutil.Ones(4000), 8000)
	require.NoError(t, err)

	for i, v := range rec.Samples {
		require.LessOrEqual(t, math.Abs(v), simulatorPeak+1e-4, "sample %d", i)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = sim.PlayRecord(ctx, playback, 8000)
	require.ErrorIs(t, err, context.Canceled)

	bad := &Simulator{Room: signal.Room{RT60: 0, Length: 1}}
	_, err = bad.PlayRecord(context.Background(), playback, 8000)
	require.ErrorIs(t, err, signal.ErrInvalidParameter)
}

func hasMessage(events diag.Events, substr string) bool {
	for _, ev := range events {
		if strings.Contains(ev.Message, substr) {
			return true
		}
	}

	return false
}

func containsTime(times []float64, want, tol float64) bool {
	for _, v := range times {
		if math.Abs(v-want) <= tol {
			return true
		}
	}

	return false
}
