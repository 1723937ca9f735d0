package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-roomir/measure/align"
	"github.com/cwbudde/algo-roomir/measure/config"
	"github.com/cwbudde/algo-roomir/measure/deconv"
	"github.com/cwbudde/algo-roomir/measure/diag"
	"github.com/cwbudde/algo-roomir/measure/ir"
	"github.com/cwbudde/algo-roomir/measure/sweep"
	timestats "github.com/cwbudde/algo-roomir/stats/time"
)

// Errors returned by Run and Process.
var (
	ErrEmptyRecording     = errors.New("room: recorder returned no samples")
	ErrSampleRateMismatch = errors.New("room: recording sample rate differs from configuration")
)

// quietCapture is the recording peak below which the input path is
// probably disconnected.
const quietCapture = 1e-6

// Option configures a Measurement.
type Option func(*Measurement)

// WithLogger forwards every diagnostic event to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Measurement) {
		m.logger = logger
	}
}

// Measurement runs impulse response measurements with one configuration.
type Measurement struct {
	cfg    config.Config
	sweep  *sweep.LogSweep
	logger *slog.Logger
}

// Result is everything a measurement produces.
type Result struct {
	Pair      sweep.Pair
	Alignment align.Alignment
	// RawIR is the full deconvolution output. The direct sound sits near
	// index len(Pair.Inverse)-1.
	RawIR []float64
	// IR is the analyzed response: RawIR trimmed to shortly before the
	// direct sound, or RawIR itself when trimming is disabled.
	IR          []float64
	SampleRate  float64
	Analysis    *Analysis
	Diagnostics diag.Events
}

// New creates a Measurement for cfg.
func New(cfg config.Config, opts ...Option) *Measurement {
	m := &Measurement{cfg: cfg, sweep: sweep.FromConfig(cfg)}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// Config returns the measurement configuration.
func (m *Measurement) Config() config.Config {
	return m.cfg
}

// Prepare generates the sweep and its inverse filter.
func (m *Measurement) Prepare() sweep.Pair {
	return m.sweep.Pair()
}

// PlaybackSignal returns the excitation followed by RecordTail seconds of
// silence, during which capture continues to catch the reverberation.
func (m *Measurement) PlaybackSignal(pair sweep.Pair) []float64 {
	out := make([]float64, len(pair.Excitation)+m.cfg.Samples(m.cfg.RecordTail))
	copy(out, pair.Excitation)

	return out
}

// Run generates the excitation, captures the room's response with rec and
// processes it.
func (m *Measurement) Run(ctx context.Context, rec Recorder) (*Result, error) {
	pair := m.Prepare()

	recording, err := rec.PlayRecord(ctx, m.PlaybackSignal(pair), int(m.cfg.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("room: capture: %w", err)
	}

	return m.Process(ctx, pair, recording)
}

// Process turns a captured recording into an analyzed impulse response.
// Alignment and deconvolution errors are returned; everything after them
// degrades into unavailable metrics and diagnostic events.
func (m *Measurement) Process(ctx context.Context, pair sweep.Pair, recording Recording) (*Result, error) {
	if len(recording.Samples) == 0 {
		return nil, ErrEmptyRecording
	}

	if float64(recording.SampleRate) != m.cfg.SampleRate {
		return nil, fmt.Errorf("%w: %d Hz, want %g Hz", ErrSampleRateMismatch, recording.SampleRate, m.cfg.SampleRate)
	}

	res := &Result{Pair: pair, SampleRate: m.cfg.SampleRate}
	res.Diagnostics = append(res.Diagnostics, checkCapture(recording.Samples)...)

	al, err := align.Align(recording.Samples, pair.Sweep)
	if err != nil {
		return nil, err
	}

	res.Alignment = al
	res.Diagnostics = append(res.Diagnostics, al.Events...)

	dec, err := deconv.Deconvolve(al.Samples, pair.Inverse)
	if err != nil {
		return nil, err
	}

	res.RawIR = dec.IR
	res.Diagnostics = append(res.Diagnostics, dec.Events...)

	analyzer := ir.NewAnalyzer(m.cfg)

	// Lag zero of the deconvolution; the acoustic delay is measured from here.
	_, events := analyzer.DirectTiming(dec.IR, len(pair.Inverse)-1)
	res.Diagnostics = append(res.Diagnostics, events...)

	res.IR = dec.IR
	if m.cfg.TrimIR {
		res.IR = ir.TrimToDirect(dec.IR, m.cfg.SampleRate, m.cfg.TrimPreDirect)
		res.Diagnostics = append(res.Diagnostics, diag.NewInfo(diag.StageIR, "trimmed to direct sound", map[string]float64{
			"samples": float64(len(res.IR)),
			"dropped": float64(len(dec.IR) - len(res.IR)),
		}))
	}

	analysis, err := m.analyze(ctx, analyzer, res.IR)
	if err != nil {
		return nil, err
	}

	res.Analysis = analysis
	res.Diagnostics = append(res.Diagnostics, analysis.Events...)

	diag.Log(m.logger, res.Diagnostics)

	return res, nil
}

// checkCapture reports the level of the raw recording.
func checkCapture(samples []float64) diag.Events {
	st := timestats.Calculate(samples)
	fields := map[string]float64{
		"peak_db": st.Peak_dB,
		"rms_db":  st.RMS_dB,
		"samples": float64(st.Length),
	}

	events := diag.Events{diag.NewInfo(diag.StageCapture, "recording captured", fields)}

	if st.Peak < quietCapture {
		events = append(events, diag.NewWarning(diag.StageCapture, "recording level very low, check the input path", fields))
	}

	if st.Clipped > 0 {
		events = append(events, diag.NewWarning(diag.StageCapture, "recording clipped", map[string]float64{"clipped": float64(st.Clipped)}))
	}

	return events
}
