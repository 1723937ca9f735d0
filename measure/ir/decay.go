package ir

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-roomir/measure/diag"
)

// DecayCurve returns the Schroeder backward integral of the squared IR in dB
// relative to its maximum. Squared samples are floored at the energy floor,
// so the curve is finite everywhere. An empty IR returns nil.
//
//	S(t) = 10*log10( Σ_{τ≥t} max(h²(τ), eps) / Σ_τ max(h²(τ), eps) )
func (a *Analyzer) DecayCurve(ir []float64) []float64 {
	if len(ir) == 0 {
		return nil
	}

	curve := a.energy(ir)

	floats.Reverse(curve)
	floats.CumSum(curve, curve)
	floats.Reverse(curve)

	// ratios never exceed 1, so levels are clamped at 0 dB
	total := floats.Max(curve)
	for i, v := range curve {
		curve[i] = math.Min(energyDB(v/total), 0)
	}

	return curve
}

// energy returns the eps-floored squared samples.
func (a *Analyzer) energy(ir []float64) []float64 {
	out := make([]float64, len(ir))
	for i, v := range ir {
		out[i] = math.Max(v*v, a.eps)
	}

	return out
}

// silent reports whether no sample of ir rises above the energy floor.
func (a *Analyzer) silent(ir []float64) bool {
	for _, v := range ir {
		if v*v > a.eps {
			return false
		}
	}

	return true
}

// RT60 estimates the reverberation time by fitting a line to the decay
// curve between -5 and -35 dB and extrapolating it to -60 dB.
//
// The metric is unavailable for an empty or silent IR, for fewer than ten
// samples in the fit window, for a slope too flat to extrapolate, for a
// rising decay and for results above 30 s. Results above 5 s or below 0.2 s
// are returned with an advisory warning.
func (a *Analyzer) RT60(ir []float64) (Metric, diag.Events) {
	switch {
	case len(ir) == 0:
		return unavailable(diag.StageRT60, ReasonEmpty, nil)
	case a.sampleRate <= 0:
		return unavailable(diag.StageRT60, ReasonInvalidSampleRate, map[string]float64{"fs": a.sampleRate})
	case a.silent(ir):
		return unavailable(diag.StageRT60, ReasonSilent, map[string]float64{"samples": float64(len(ir))})
	}

	curve := a.DecayCurve(ir)

	var x, y []float64

	for i, db := range curve {
		if db < fitUpperDB && db > fitLowerDB {
			x = append(x, float64(i)/a.sampleRate)
			y = append(y, db)
		}
	}

	if len(x) < minFitSamples {
		return unavailable(diag.StageRT60, ReasonInsufficientRange, map[string]float64{
			"fit_samples": float64(len(x)),
			"required":    minFitSamples,
		})
	}

	_, slope := stat.LinearRegression(x, y, nil, false)
	if math.Abs(slope) < flatSlope {
		return unavailable(diag.StageRT60, ReasonFlatDecay, map[string]float64{"slope": slope})
	}

	rt := -60 / slope
	fields := map[string]float64{"rt60": rt, "slope": slope, "fit_samples": float64(len(x))}

	switch {
	case rt < 0:
		return unavailable(diag.StageRT60, ReasonRisingDecay, fields)
	case rt > maxRT60:
		return unavailable(diag.StageRT60, ReasonImplausible, fields)
	}

	events := diag.Events{diag.NewInfo(diag.StageRT60, "decay fit", fields)}

	switch {
	case rt > longRT60:
		events = append(events, diag.NewWarning(diag.StageRT60, "reverberation time unusually long", map[string]float64{"rt60": rt}))
	case rt < shortRT60:
		events = append(events, diag.NewWarning(diag.StageRT60, "reverberation time unusually short", map[string]float64{"rt60": rt}))
	}

	return Ok(rt), events
}

func unavailable(stage diag.Stage, reason Reason, fields map[string]float64) (Metric, diag.Events) {
	return Unavailable(reason), diag.Events{diag.NewWarning(stage, string(reason), fields)}
}
