package ir

import (
	"math"
	"slices"
	"testing"

	"github.com/cwbudde/algo-roomir/measure/config"
)

func TestReflections(t *testing.T) {
	ir := make([]float64, 200)
	ir[0] = 2      // endpoint, never a peak
	ir[10] = 1     // local maximum
	ir[50] = 0.5
	ir[51] = 0.3   // shoulder of the 50 peak
	ir[120] = -0.2 // magnitude counts
	ir[150] = 0.01 // below -25 dB

	a := newTestAnalyzer(1000, config.WithPeakDetection(-25, 1))

	got := a.ReflectionIndices(ir)
	if want := []int{10, 50, 120}; !slices.Equal(got, want) {
		t.Fatalf("ReflectionIndices = %v, want %v", got, want)
	}

	times := a.Reflections(ir)
	for i, want := range []float64{0.010, 0.050, 0.120} {
		if math.Abs(times[i]-want) > 1e-12 {
			t.Errorf("times[%d] = %g, want %g", i, times[i], want)
		}
	}
}

func TestReflectionsPlateauMidpoint(t *testing.T) {
	ir := make([]float64, 100)
	ir[30], ir[31], ir[32] = 1, 1, 1

	got := newTestAnalyzer(1000).ReflectionIndices(ir)
	if !slices.Equal(got, []int{31}) {
		t.Errorf("ReflectionIndices = %v, want [31]", got)
	}
}

func TestReflectionsMinimumDistance(t *testing.T) {
	ir := make([]float64, 100)
	ir[20] = 0.6
	ir[23] = 1 // higher neighbour wins
	ir[40] = 0.5
	ir[44] = 0.5 // equal height, earlier wins
	ir[60] = 0.4
	ir[65] = 0.4 // exactly at the minimum distance, both kept

	a := newTestAnalyzer(1000, config.WithPeakDetection(-20, 5))

	got := a.ReflectionIndices(ir)
	if want := []int{23, 40, 60, 65}; !slices.Equal(got, want) {
		t.Errorf("ReflectionIndices = %v, want %v", got, want)
	}
}

func TestReflectionsThresholdIsRelative(t *testing.T) {
	ir := make([]float64, 100)
	ir[10] = 1
	ir[50] = 0.1 // -20 dB

	scaled := make([]float64, len(ir))
	for i, v := range ir {
		scaled[i] = 1e-4 * v
	}

	a := newTestAnalyzer(1000, config.WithPeakDetection(-25, 1))

	if got := a.ReflectionIndices(scaled); !slices.Equal(got, a.ReflectionIndices(ir)) || len(got) != 2 {
		t.Errorf("scaled IR gives %v, want [10 50]", got)
	}

	strict := newTestAnalyzer(1000, config.WithPeakDetection(-15, 1))
	if got := strict.ReflectionIndices(ir); !slices.Equal(got, []int{10}) {
		t.Errorf("-15 dB threshold gives %v, want [10]", got)
	}
}

func TestReflectionsDegenerate(t *testing.T) {
	a := newTestAnalyzer(1000)

	for name, ir := range map[string][]float64{
		"nil":      nil,
		"short":    {0, 1},
		"all zero": make([]float64, 500),
		"constant": {1, 1, 1, 1},
	} {
		got := a.Reflections(ir)
		if got == nil || len(got) != 0 {
			t.Errorf("%s: Reflections = %v, want empty non-nil", name, got)
		}
	}
}
