// Package diag carries structured diagnostic events produced by the
// measurement stages.
//
// Stages never print. They return events alongside their primary result and
// the caller decides whether to log, display or ignore them.
package diag

import (
	"context"
	"log/slog"
	"sort"
)

// Severity grades an event.
type Severity int

const (
	// Info records normal progress with numeric context.
	Info Severity = iota
	// Warning flags a recoverable condition the caller should look at.
	Warning
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Stage names the pipeline component that produced an event.
type Stage string

// Pipeline stages.
const (
	StageSweep       Stage = "sweep"
	StageCapture     Stage = "capture"
	StageSync        Stage = "sync"
	StageDeconv      Stage = "deconv"
	StageIR          Stage = "ir"
	StageRT60        Stage = "rt60"
	StageC50         Stage = "c50"
	StageReflections Stage = "reflections"
	StageSeparate    Stage = "separate"
)

// Event is one diagnostic message with its numeric context.
type Event struct {
	Severity Severity
	Stage    Stage
	Message  string
	Fields   map[string]float64
}

// NewInfo builds an Info event. Fields may be nil.
func NewInfo(stage Stage, msg string, fields map[string]float64) Event {
	return Event{Severity: Info, Stage: stage, Message: msg, Fields: fields}
}

// NewWarning builds a Warning event. Fields may be nil.
func NewWarning(stage Stage, msg string, fields map[string]float64) Event {
	return Event{Severity: Warning, Stage: stage, Message: msg, Fields: fields}
}

// Events is an ordered list of diagnostics.
type Events []Event

// Filter returns the events at or above sev, preserving order.
func (e Events) Filter(sev Severity) Events {
	var out Events

	for _, ev := range e {
		if ev.Severity >= sev {
			out = append(out, ev)
		}
	}

	return out
}

// HasWarnings reports whether any event is a warning.
func (e Events) HasWarnings() bool {
	return len(e.Filter(Warning)) > 0
}

// ByStage returns the events emitted by stage.
func (e Events) ByStage(stage Stage) Events {
	var out Events

	for _, ev := range e {
		if ev.Stage == stage {
			out = append(out, ev)
		}
	}

	return out
}

// Log forwards events to a structured logger. A nil logger discards them.
func Log(logger *slog.Logger, events Events) {
	if logger == nil {
		return
	}

	for _, ev := range events {
		level := slog.LevelInfo
		if ev.Severity == Warning {
			level = slog.LevelWarn
		}

		attrs := make([]slog.Attr, 0, len(ev.Fields)+1)
		attrs = append(attrs, slog.String("stage", string(ev.Stage)))

		keys := make([]string, 0, len(ev.Fields))
		for k := range ev.Fields {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		for _, k := range keys {
			attrs = append(attrs, slog.Float64(k, ev.Fields[k]))
		}

		logger.LogAttrs(context.Background(), level, ev.Message, attrs...)
	}
}
