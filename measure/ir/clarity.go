package ir

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-roomir/measure/diag"
)

// C50 returns the clarity index: the energy in the 50 ms after the direct
// sound relative to the energy after that, in dB.
//
// The metric is unavailable when the IR ends within 50 ms of the direct sound
// or when either window holds less than the energy floor.
func (a *Analyzer) C50(ir []float64) (Metric, diag.Events) {
	if len(ir) == 0 {
		return unavailable(diag.StageC50, ReasonEmpty, nil)
	}

	t0 := DirectIndex(ir)
	split := t0 + a.samples(clarityWindow)

	if split >= len(ir) {
		return unavailable(diag.StageC50, ReasonTooShort, map[string]float64{
			"direct_index": float64(t0),
			"required":     float64(split + 1),
			"samples":      float64(len(ir)),
		})
	}

	early := floats.Dot(ir[t0:split], ir[t0:split])
	late := floats.Dot(ir[split:], ir[split:])

	fields := map[string]float64{"early_energy": early, "late_energy": late}
	if early < a.eps || late < a.eps {
		return unavailable(diag.StageC50, ReasonLowEnergy, fields)
	}

	c50 := 10 * math.Log10(early/late)
	fields["c50"] = c50

	return Ok(c50), diag.Events{diag.NewInfo(diag.StageC50, "clarity", fields)}
}
