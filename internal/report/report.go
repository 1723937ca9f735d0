// Package report renders measurement results for people: console, JSON or
// markdown output through the primordium formatters.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/farcloser/primordium/format"

	"github.com/cwbudde/algo-roomir/measure/diag"
	"github.com/cwbudde/algo-roomir/measure/ir"
	"github.com/cwbudde/algo-roomir/measure/room"
	timestats "github.com/cwbudde/algo-roomir/stats/time"
)

// Formats accepted by Print.
const (
	FormatConsole  = "console"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Print writes one report entry for object, e.g. the analyzed file name.
func Print(w io.Writer, object string, meta map[string]any, formatName string) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	data := &format.Data{
		Object: object,
		Meta:   meta,
	}

	return formatter.PrintAll([]*format.Data{data}, w)
}

// Build summarizes a full measurement: alignment, impulse response and
// analysis.
func Build(res *room.Result) map[string]any {
	meta := BuildAnalysis(res.Analysis)

	meta["alignment"] = map[string]any{
		"offset":      fmt.Sprintf("%d samples (%.1f ms)", res.Alignment.Offset, 1000*float64(res.Alignment.Offset)/res.SampleRate),
		"correlation": fmt.Sprintf("%.3g", res.Alignment.Correlation),
	}

	meta["impulse_response"] = fmt.Sprintf("%d samples, %.2f s at %g Hz",
		len(res.IR), float64(len(res.IR))/res.SampleRate, res.SampleRate)

	if w := warnings(res.Diagnostics); len(w) > 0 {
		meta["warnings"] = w
	}

	return meta
}

// BuildAnalysis summarizes the metrics of one impulse response.
func BuildAnalysis(a *room.Analysis) map[string]any {
	if a == nil {
		return map[string]any{}
	}

	meta := map[string]any{
		"rt60": metric(a.RT60, "s"),
		"c50":  metric(a.C50, "dB"),
	}

	refl := make([]any, len(a.Reflections))
	for i, t := range a.Reflections {
		refl[i] = fmt.Sprintf("%.2f ms", 1000*t)
	}

	meta["reflections"] = map[string]any{
		"count": fmt.Sprintf("%d", len(a.Reflections)),
		"times": refl,
	}

	s := a.Components.Shares()
	meta["energy"] = map[string]any{
		"direct": fmt.Sprintf("%.1f%%", s.Direct),
		"early":  fmt.Sprintf("%.1f%%", s.Early),
		"late":   fmt.Sprintf("%.1f%%", s.Late),
	}

	q := a.Quality
	meta["quality"] = map[string]any{
		"direct_sound": fmt.Sprintf("%.2f ms", 1000*q.DirectTime),
		"snr":          metric(q.SNR, "dB"),
		"noise_floor":  level(q.NoiseFloor),
		"decaying":     fmt.Sprintf("%t", q.Decaying),
	}

	if w := warnings(a.Events); len(w) > 0 {
		meta["warnings"] = w
	}

	return meta
}

func metric(m ir.Metric, unit string) string {
	if !m.Available {
		return fmt.Sprintf("N/A (%s)", m.Reason)
	}

	if math.IsInf(m.Value, 0) {
		return fmt.Sprintf("%v %s", m.Value, unit)
	}

	return m.String() + " " + unit
}

func level(amp float64) string {
	db := timestats.AmpToDB(amp)
	if math.IsInf(db, -1) {
		return "-inf dBFS"
	}

	return fmt.Sprintf("%.1f dBFS", db)
}

func warnings(events diag.Events) []any {
	var out []any

	for _, ev := range events.Filter(diag.Warning) {
		out = append(out, fmt.Sprintf("[%s] %s", ev.Stage, ev.Message))
	}

	return out
}
