package ir

import (
	"math"
	"strconv"
)

// Reason explains why a metric is unavailable.
type Reason string

// Reasons for an unavailable metric.
const (
	ReasonEmpty             Reason = "empty impulse response"
	ReasonSilent            Reason = "impulse response is silent"
	ReasonInsufficientRange Reason = "insufficient decay range for fit"
	ReasonFlatDecay         Reason = "decay slope is flat"
	ReasonRisingDecay       Reason = "decay slope is rising"
	ReasonImplausible       Reason = "result outside plausible range"
	ReasonTooShort          Reason = "impulse response too short"
	ReasonLowEnergy         Reason = "window energy below floor"
	ReasonInvalidSampleRate Reason = "sample rate must be positive"
)

// Metric is either an available value or the reason it is missing.
type Metric struct {
	Available bool
	Value     float64
	Reason    Reason
}

// Ok returns an available metric.
func Ok(v float64) Metric {
	return Metric{Available: true, Value: v}
}

// Unavailable returns a metric that could not be computed.
func Unavailable(reason Reason) Metric {
	return Metric{Reason: reason}
}

// Float returns the value, or NaN when the metric is unavailable.
func (m Metric) Float() float64 {
	if !m.Available {
		return math.NaN()
	}

	return m.Value
}

// String formats the value with three decimals, or "N/A".
func (m Metric) String() string {
	if !m.Available {
		return "N/A"
	}

	return strconv.FormatFloat(m.Value, 'f', 3, 64)
}
