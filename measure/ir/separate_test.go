package ir

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-roomir/internal/testutil"
	"github.com/cwbudde/algo-roomir/measure/config"
)

func TestSeparateCompleteness(t *testing.T) {
	const fs = 8000 // direct half span 40 samples, early window 640 samples

	tests := []struct {
		name   string
		n      int
		direct int
		early  float64
	}{
		{"direct mid", 4000, 500, 0.08},
		{"direct at start", 4000, 0, 0.08},
		{"direct near end", 4000, 3990, 0.08},
		{"early window inside direct", 4000, 500, 0.002},
		{"no early window", 4000, 500, 0},
		{"short ir", 30, 12, 0.08},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ir := testutil.DeterministicNoise(5, 0.1, tt.n)
			ir[tt.direct] = -1

			a := newTestAnalyzer(fs, config.WithEarlyReflectionTime(tt.early))
			c, _ := a.Separate(ir)

			if c.DirectIndex != tt.direct || c.Peak != -1 {
				t.Fatalf("direct = %d (%g), want %d (-1)", c.DirectIndex, c.Peak, tt.direct)
			}

			if len(c.Direct) != tt.n || len(c.Early) != tt.n || len(c.Late) != tt.n {
				t.Fatalf("segment lengths %d/%d/%d, want %d", len(c.Direct), len(c.Early), len(c.Late), tt.n)
			}

			for i := range ir {
				inDirect := i >= c.DirectStart && i < c.DirectEnd
				inEarly := i >= c.DirectEnd && i < c.EarlyEnd
				inLate := i >= c.EarlyEnd || i < c.DirectStart

				owners := 0
				for _, in := range []bool{inDirect, inEarly, inLate} {
					if in {
						owners++
					}
				}

				if owners != 1 {
					t.Fatalf("sample %d belongs to %d segments", i, owners)
				}

				want := [3]float64{}
				switch {
				case inDirect:
					want[0] = ir[i]
				case inEarly:
					want[1] = ir[i]
				default:
					want[2] = ir[i]
				}

				got := [3]float64{c.Direct[i], c.Early[i], c.Late[i]}
				if got != want {
					t.Fatalf("sample %d: segments %v, want %v", i, got, want)
				}
			}

			total := 0.0
			for _, v := range ir {
				total += v * v
			}

			e := c.Energies()
			if math.Abs(e.Total-total) > 1e-9*total {
				t.Errorf("segment energy %g, IR energy %g", e.Total, total)
			}

			s := c.Shares()
			if math.Abs(s.Direct+s.Early+s.Late-100) > 1e-9 {
				t.Errorf("shares sum to %g", s.Direct+s.Early+s.Late)
			}
		})
	}
}

func TestSeparateWindows(t *testing.T) {
	ir := make([]float64, 2000)
	ir[500] = 0.5

	c, _ := newTestAnalyzer(8000).Separate(ir)

	if c.DirectStart != 460 || c.DirectEnd != 540 || c.EarlyEnd != 1140 {
		t.Errorf("windows [%d, %d) [%d, %d), want [460, 540) [540, 1140)", c.DirectStart, c.DirectEnd, c.DirectEnd, c.EarlyEnd)
	}

	if c.Direct[500] != 1 {
		t.Errorf("direct peak = %g, want 1 after normalization", c.Direct[500])
	}

	if s := c.Shares(); s.Direct != 100 {
		t.Errorf("direct share = %g, want 100", s.Direct)
	}
}

func TestSeparateSilent(t *testing.T) {
	c, events := newTestAnalyzer(8000).Separate(make([]float64, 1000))

	for i := range c.Direct {
		if c.Direct[i] != 0 || c.Early[i] != 0 || c.Late[i] != 0 {
			t.Fatalf("sample %d not zero", i)
		}
	}

	if (c.Shares() != Shares{}) {
		t.Errorf("Shares = %+v, want zero", c.Shares())
	}

	if !events.HasWarnings() {
		t.Error("expected a zero-peak warning")
	}

	empty, _ := newTestAnalyzer(8000).Separate(nil)
	if len(empty.Direct)+len(empty.Early)+len(empty.Late) != 0 {
		t.Error("empty IR should give empty segments")
	}
}
