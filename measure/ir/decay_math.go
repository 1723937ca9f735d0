//go:build !fastmath

package ir

import "math"

// energyDB converts an energy ratio to decibels using standard library math.
func energyDB(ratio float64) float64 {
	return 10 * math.Log10(ratio)
}
