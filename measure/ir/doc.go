// Package ir analyzes a measured room impulse response.
//
// An Analyzer is built from the measurement configuration and evaluates an
// immutable IR:
//
//   - RT60: reverberation time from a line fit to the Schroeder decay curve
//     between -5 and -35 dB
//   - C50: clarity, early (first 50 ms after the direct sound) to late energy
//   - Reflections: arrival times of discrete peaks above a relative threshold
//   - Separate: disjoint direct, early and late segments
//   - FrequencyResponse: windowed magnitude spectrum in dB re. its peak
//
// Metrics that cannot be computed are reported as an unavailable Metric with
// a machine-checkable Reason, never as an error. Every method is free of
// shared state, so the analyses may run concurrently on the same IR.
//
// # Usage
//
//	a := ir.NewAnalyzer(cfg)
//	rt60, events := a.RT60(response)
//	fmt.Println("RT60:", rt60) // "N/A" when unavailable
package ir
