package ir

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-roomir/measure/diag"
)

// Components holds the direct, early and late parts of an IR. Each segment
// has the length of the IR, is zero outside its own index range and is
// scaled by the same factor, 1/|peak|, so energy proportions carry over.
//
// Index ranges:
//
//	direct: [DirectStart, DirectEnd)
//	early:  [DirectEnd, EarlyEnd)
//	late:   [EarlyEnd, len) and [0, DirectStart)
type Components struct {
	Direct []float64
	Early  []float64
	Late   []float64

	DirectIndex int
	DirectStart int
	DirectEnd   int
	EarlyEnd    int
	Peak        float64 // signed IR sample at DirectIndex
}

// Energies is the energy of each segment and their sum.
type Energies struct {
	Direct float64
	Early  float64
	Late   float64
	Total  float64
}

// Shares is the percentage of the total energy in each segment.
type Shares struct {
	Direct float64
	Early  float64
	Late   float64
}

// Separate splits ir into disjoint direct, early and late segments. The
// direct window spans 5 ms either side of the direct sound; the early window
// runs on to EarlyReflectionTime after the direct sound and may be empty.
// Samples before the direct window belong to the late segment, so the three
// ranges always cover the whole IR.
func (a *Analyzer) Separate(ir []float64) (Components, diag.Events) {
	n := len(ir)
	c := Components{
		Direct:      make([]float64, n),
		Early:       make([]float64, n),
		Late:        make([]float64, n),
		DirectIndex: DirectIndex(ir),
	}

	if n == 0 {
		return c, diag.Events{diag.NewWarning(diag.StageSeparate, string(ReasonEmpty), nil)}
	}

	idx := c.DirectIndex
	w := a.samples(directHalfSpan)

	c.Peak = ir[idx]
	c.DirectStart = max(0, idx-w)
	c.DirectEnd = min(n, idx+w)
	c.EarlyEnd = max(c.DirectEnd, min(n, idx+a.samples(a.earlyReflectionTime)))

	copy(c.Direct[c.DirectStart:c.DirectEnd], ir[c.DirectStart:c.DirectEnd])
	copy(c.Early[c.DirectEnd:c.EarlyEnd], ir[c.DirectEnd:c.EarlyEnd])
	copy(c.Late[c.EarlyEnd:], ir[c.EarlyEnd:])
	copy(c.Late[:c.DirectStart], ir[:c.DirectStart])

	var events diag.Events

	if peak := math.Abs(c.Peak); peak > 0 {
		floats.Scale(1/peak, c.Direct)
		floats.Scale(1/peak, c.Early)
		floats.Scale(1/peak, c.Late)
	} else {
		events = append(events, diag.NewWarning(diag.StageSeparate, "impulse response peak is zero, segments not normalized", nil))
	}

	s := c.Shares()
	events = append(events, diag.NewInfo(diag.StageSeparate, "components", map[string]float64{
		"direct_end":     float64(c.DirectEnd),
		"direct_start":   float64(c.DirectStart),
		"early_end":      float64(c.EarlyEnd),
		"direct_percent": s.Direct,
		"early_percent":  s.Early,
		"late_percent":   s.Late,
	}))

	return c, events
}

// Energies returns the sum of squares of each segment.
func (c Components) Energies() Energies {
	e := Energies{
		Direct: floats.Dot(c.Direct, c.Direct),
		Early:  floats.Dot(c.Early, c.Early),
		Late:   floats.Dot(c.Late, c.Late),
	}
	e.Total = e.Direct + e.Early + e.Late

	return e
}

// Shares returns each segment's percentage of the total energy. A silent IR
// has all shares zero.
func (c Components) Shares() Shares {
	e := c.Energies()
	if e.Total == 0 {
		return Shares{}
	}

	return Shares{
		Direct: 100 * e.Direct / e.Total,
		Early:  100 * e.Early / e.Total,
		Late:   100 * e.Late / e.Total,
	}
}
