package diag

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestEventsFilter(t *testing.T) {
	events := Events{
		NewInfo(StageSync, "aligned", map[string]float64{"offset": 12}),
		NewWarning(StageDeconv, "zero peak", nil),
		NewInfo(StageRT60, "fit", nil),
	}

	warnings := events.Filter(Warning)
	if len(warnings) != 1 || warnings[0].Stage != StageDeconv {
		t.Fatalf("Filter(Warning) = %+v, want the deconv warning", warnings)
	}

	if got := len(events.Filter(Info)); got != 3 {
		t.Errorf("Filter(Info) returned %d events, want 3", got)
	}

	if !events.HasWarnings() {
		t.Error("HasWarnings() = false, want true")
	}

	if Events(nil).HasWarnings() {
		t.Error("empty Events reports warnings")
	}

	if got := events.ByStage(StageRT60); len(got) != 1 || got[0].Message != "fit" {
		t.Errorf("ByStage(rt60) = %+v", got)
	}
}

func TestConstructorsSetSeverity(t *testing.T) {
	if ev := NewInfo(StageIR, "x", nil); ev.Severity != Info || ev.Stage != StageIR {
		t.Errorf("NewInfo = %+v", ev)
	}

	if ev := NewWarning(StageIR, "x", nil); ev.Severity != Warning || ev.Message != "x" {
		t.Errorf("NewWarning = %+v", ev)
	}
}

func TestSeverityString(t *testing.T) {
	if Info.String() != "info" || Warning.String() != "warning" {
		t.Errorf("unexpected severity names %q %q", Info, Warning)
	}

	if Severity(42).String() != "unknown" {
		t.Errorf("Severity(42) = %q", Severity(42))
	}
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	Log(logger, Events{
		NewWarning(StageSync, "sync result is short", map[string]float64{"samples": 10, "expected": 100}),
		NewInfo(StageIR, "direct sound", nil),
	})

	out := buf.String()
	for _, want := range []string{"level=WARN", "sync result is short", "stage=sync", "expected=100", "samples=10", "level=INFO"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}

	// fields are emitted in key order
	if strings.Index(out, "expected=") > strings.Index(out, "samples=") {
		t.Errorf("fields not sorted:\n%s", out)
	}

	Log(nil, Events{NewWarning(StageSync, "ignored", nil)})
}
