package room

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-roomir/measure/diag"
	"github.com/cwbudde/algo-roomir/measure/ir"
)

// Analysis holds every metric derived from one impulse response.
type Analysis struct {
	SampleRate  float64
	RT60        ir.Metric
	C50         ir.Metric
	DecayCurve  []float64 // dB
	Reflections []float64 // seconds
	Components  ir.Components
	Quality     ir.Quality
	Response    ir.Response // empty if it could not be computed
	Events      diag.Events
}

// Analyze evaluates an impulse response recorded at sampleRate. The
// analyzers share nothing but the read-only IR and run concurrently. The
// only error is a cancelled context.
func (m *Measurement) Analyze(ctx context.Context, response []float64, sampleRate float64) (*Analysis, error) {
	cfg := m.cfg
	cfg.SampleRate = sampleRate

	a, err := m.analyze(ctx, ir.NewAnalyzer(cfg), response)
	if err != nil {
		return nil, err
	}

	diag.Log(m.logger, a.Events)

	return a, nil
}

func (m *Measurement) analyze(ctx context.Context, analyzer *ir.Analyzer, response []float64) (*Analysis, error) {
	out := &Analysis{SampleRate: analyzer.SampleRate()}

	// one slot per task, merged in a fixed order after Wait
	var rt60Ev, c50Ev, sepEv, qualityEv, responseEv diag.Events

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		out.RT60, rt60Ev = analyzer.RT60(response)
		out.DecayCurve = analyzer.DecayCurve(response)

		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		out.C50, c50Ev = analyzer.C50(response)

		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		out.Reflections = analyzer.Reflections(response)

		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		out.Components, sepEv = analyzer.Separate(response)

		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		out.Quality, qualityEv = analyzer.Quality(response)

		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, err := analyzer.FrequencyResponse(response)
		if err != nil {
			responseEv = diag.Events{diag.NewWarning(diag.StageIR, "frequency response unavailable: "+err.Error(), nil)}
			return nil
		}

		out.Response = resp

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Events = append(out.Events, qualityEv...)
	out.Events = append(out.Events, rt60Ev...)
	out.Events = append(out.Events, c50Ev...)
	out.Events = append(out.Events, diag.NewInfo(diag.StageReflections, "reflections detected", map[string]float64{
		"count": float64(len(out.Reflections)),
	}))
	out.Events = append(out.Events, sepEv...)
	out.Events = append(out.Events, responseEv...)

	return out, nil
}
