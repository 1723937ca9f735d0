package ir

import (
	"math"
	"sort"
)

// Reflections returns the arrival times in seconds of the peaks of |ir| that
// reach MinPeakDB relative to the IR peak and lie at least
// MinPeakDistanceMs apart. The direct sound is included when it is a local
// maximum. Times are in ascending order.
func (a *Analyzer) Reflections(ir []float64) []float64 {
	idx := a.ReflectionIndices(ir)

	times := make([]float64, len(idx))
	for i, p := range idx {
		times[i] = float64(p) / a.sampleRate
	}

	return times
}

// ReflectionIndices is Reflections in samples.
func (a *Analyzer) ReflectionIndices(ir []float64) []int {
	if len(ir) < 3 || a.sampleRate <= 0 {
		return []int{}
	}

	env := make([]float64, len(ir))

	peak := 0.0
	for i, v := range ir {
		env[i] = math.Abs(v)
		peak = math.Max(peak, env[i])
	}

	if peak == 0 {
		return []int{}
	}

	threshold := peak * math.Pow(10, a.minPeakDB/20)
	distance := max(1, int(a.sampleRate*a.minPeakDistanceMs/1000))

	var peaks []int

	for _, p := range localMaxima(env) {
		if env[p] >= threshold {
			peaks = append(peaks, p)
		}
	}

	return pruneByDistance(env, peaks, distance)
}

// localMaxima returns the indices of samples strictly greater than their
// left neighbour and greater than the next differing sample to the right.
// A flat top reports its midpoint. The first and last samples never qualify.
func localMaxima(x []float64) []int {
	var out []int

	last := len(x) - 1

	for i := 1; i < last; i++ {
		if x[i-1] >= x[i] {
			continue
		}

		ahead := i + 1
		for ahead < last && x[ahead] == x[i] {
			ahead++
		}

		if x[ahead] < x[i] {
			out = append(out, (i+ahead-1)/2)
			i = ahead - 1
		}
	}

	return out
}

// pruneByDistance keeps the highest peaks, discarding any peak closer than
// distance samples to a higher one that was kept. Equal heights favour the
// earlier peak. The result stays in index order.
func pruneByDistance(x []float64, peaks []int, distance int) []int {
	if distance <= 1 || len(peaks) < 2 {
		if peaks == nil {
			return []int{}
		}

		return peaks
	}

	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool { return x[peaks[order[i]]] > x[peaks[order[j]]] })

	keep := make([]bool, len(peaks))
	for i := range keep {
		keep[i] = true
	}

	for _, j := range order {
		if !keep[j] {
			continue
		}

		for k := j - 1; k >= 0 && peaks[j]-peaks[k] < distance; k-- {
			keep[k] = false
		}

		for k := j + 1; k < len(peaks) && peaks[k]-peaks[j] < distance; k++ {
			keep[k] = false
		}
	}

	out := make([]int, 0, len(peaks))

	for i, p := range peaks {
		if keep[i] {
			out = append(out, p)
		}
	}

	return out
}
