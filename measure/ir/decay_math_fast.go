//go:build fastmath

package ir

import "github.com/meko-christian/algo-approx"

// ln10 is the natural logarithm of 10.
const ln10 = 2.302585092994045684017991454684

// energyDB converts an energy ratio to decibels using fast approximation.
// Uses the identity: 10*log10(x) = 10*ln(x)/ln(10)
func energyDB(ratio float64) float64 {
	return 10 * approx.FastLog(ratio) / ln10
}
