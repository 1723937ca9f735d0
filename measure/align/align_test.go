package align

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cwbudde/algo-roomir/internal/testutil"
	"github.com/cwbudde/algo-roomir/measure/diag"
	"github.com/cwbudde/algo-roomir/measure/sweep"
)

func TestAlignRoundTrip(t *testing.T) {
	s := &sweep.LogSweep{StartFreq: 50, EndFreq: 7000, Duration: 0.25, SampleRate: 16000}
	sw := s.Generate()

	for _, k := range []int{0, 1, 123, 4000} {
		t.Run(fmt.Sprintf("offset=%d", k), func(t *testing.T) {
			rec := append(testutil.DeterministicNoise(int64(k)+1, 0.05, k), sw...)
			rec = append(rec, testutil.DeterministicNoise(99, 0.05, 2000)...)

			// Noise on top of the sweep as well.
			for i, v := range testutil.DeterministicNoise(7, 0.05, len(rec)) {
				rec[i] += v
			}

			a, err := Align(rec, sw)
			if err != nil {
				t.Fatalf("Align: %v", err)
			}

			if diff := a.Offset - k; diff < -1 || diff > 1 {
				t.Errorf("offset = %d, want %d", a.Offset, k)
			}

			if len(a.Samples) != len(rec)-a.Offset {
				t.Errorf("len(Samples) = %d, want %d", len(a.Samples), len(rec)-a.Offset)
			}

			if a.Events.HasWarnings() {
				t.Errorf("unexpected warnings: %+v", a.Events)
			}
		})
	}
}

func TestAlignTrimmedRecordingStartsWithSweep(t *testing.T) {
	ref := testutil.DeterministicNoise(1, 1, 300)
	rec := make([]float64, 1000)
	copy(rec[250:], ref)

	a, err := Align(rec, ref)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, a.Samples[:len(ref)], ref, 0)

	// The result is a copy.
	a.Samples[0] = 42
	if rec[250] == 42 {
		t.Error("Align returned a view of the recording")
	}
}

func TestAlignRejectsShortRecording(t *testing.T) {
	_, err := Align(make([]float64, 99), make([]float64, 100))
	if !errors.Is(err, ErrInputTooShort) {
		t.Errorf("expected ErrInputTooShort, got %v", err)
	}

	_, err = Align(nil, []float64{1})
	if !errors.Is(err, ErrInputTooShort) {
		t.Errorf("expected ErrInputTooShort, got %v", err)
	}
}

func TestAlignRejectsEmptySweep(t *testing.T) {
	_, err := Align([]float64{1, 2, 3}, nil)
	if !errors.Is(err, ErrEmptySweep) {
		t.Errorf("expected ErrEmptySweep, got %v", err)
	}
}

func TestAlignClampsNegativeOffset(t *testing.T) {
	// The recording starts in the middle of the reference.
	ref := testutil.DeterministicNoise(5, 1, 400)
	rec := make([]float64, 600)
	copy(rec, ref[100:])

	a, err := Align(rec, ref)
	if err != nil {
		t.Fatal(err)
	}

	if a.Offset != 0 {
		t.Errorf("offset = %d, want 0", a.Offset)
	}

	if len(a.Samples) != len(rec) {
		t.Errorf("len(Samples) = %d, want %d", len(a.Samples), len(rec))
	}

	if w := a.Events.Filter(diag.Warning); len(w) != 1 || w[0].Fields["offset"] != -100 {
		t.Errorf("warnings = %+v, want one clamp warning at offset -100", w)
	}
}

func TestAlignWarnsOnShortResult(t *testing.T) {
	// Only the first quarter of the reference made it into the recording,
	// right at its end.
	ref := testutil.DeterministicNoise(6, 1, 400)
	rec := make([]float64, 500)
	copy(rec[400:], ref[:100])

	a, err := Align(rec, ref)
	if err != nil {
		t.Fatal(err)
	}

	if a.Offset != 400 {
		t.Fatalf("offset = %d, want 400", a.Offset)
	}

	warnings := a.Events.Filter(diag.Warning)
	if len(warnings) != 1 || warnings[0].Fields["samples"] != 100 {
		t.Errorf("warnings = %+v, want one short-result warning", warnings)
	}
}

func TestAlignSilentRecording(t *testing.T) {
	a, err := Align(make([]float64, 200), testutil.DeterministicNoise(2, 1, 100))
	if err != nil {
		t.Fatal(err)
	}

	if a.Offset != 0 || a.Correlation != 0 {
		t.Errorf("Offset=%d Correlation=%g, want 0 0", a.Offset, a.Correlation)
	}

	if !a.Events.HasWarnings() {
		t.Error("expected a warning for a silent recording")
	}
}
