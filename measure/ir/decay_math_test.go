//go:build !fastmath

package ir

// decayCurveTolerance is the accepted deviation of decay curve levels, dB.
const decayCurveTolerance = 1e-9
