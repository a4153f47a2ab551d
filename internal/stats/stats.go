// Package stats implements the pure numeric core of the valuation pipeline:
// summary statistics, IQR outlier filtering, and the weighted market-value
// computation. Nothing here performs I/O and every function tolerates
// degenerate input by returning a well-defined zero value.
package stats

import (
	"math"
	"sort"

	"github.com/sells-group/marketval/internal/model"
)

// CalculateStatistics computes a summary over the given prices. The input
// slice is not mutated. Empty input returns the zero Statistics.
func CalculateStatistics(prices []float64) model.Statistics {
	n := len(prices)
	if n == 0 {
		return model.Statistics{}
	}

	sorted := make([]float64, n)
	copy(sorted, prices)
	sort.Float64s(sorted)

	var sum float64
	for _, p := range sorted {
		sum += p
	}
	mean := sum / float64(n)

	q1 := percentile(sorted, 0.25)
	median := percentile(sorted, 0.5)
	q3 := percentile(sorted, 0.75)

	variance := sampleVariance(sorted, mean)

	return model.Statistics{
		Min:        sorted[0],
		Max:        sorted[n-1],
		Mean:       mean,
		Median:     median,
		Mode:       mode(sorted),
		StdDev:     math.Sqrt(variance),
		Variance:   variance,
		Q1:         q1,
		Q3:         q3,
		IQR:        q3 - q1,
		SampleSize: n,
	}
}

// percentile returns the rank-interpolated percentile of sorted values:
// index = ceil(p*n) - 1, clamped to the valid range.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

// mode returns the most frequent value, breaking ties by the smallest value.
// Input must be sorted.
func mode(sorted []float64) float64 {
	best := sorted[0]
	bestCount := 0

	i := 0
	for i < len(sorted) {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if count := j - i; count > bestCount {
			bestCount = count
			best = sorted[i]
		}
		i = j
	}
	return best
}

// sampleVariance computes the n-1 denominator variance. A single sample has
// zero variance.
func sampleVariance(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return ss / float64(n-1)
}
