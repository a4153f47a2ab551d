package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStatistics_Basic(t *testing.T) {
	s := CalculateStatistics([]float64{10, 20, 30, 40, 50})

	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 50.0, s.Max)
	assert.Equal(t, 30.0, s.Mean)
	assert.Equal(t, 30.0, s.Median)
	assert.Equal(t, 20.0, s.Q1)
	assert.Equal(t, 40.0, s.Q3)
	assert.Equal(t, 20.0, s.IQR)
	assert.Equal(t, 5, s.SampleSize)
}

func TestCalculateStatistics_Empty(t *testing.T) {
	s := CalculateStatistics(nil)
	assert.Equal(t, 0, s.SampleSize)
	assert.Zero(t, s.Mean)
	assert.Zero(t, s.StdDev)
}

func TestCalculateStatistics_SingleValue(t *testing.T) {
	s := CalculateStatistics([]float64{42})
	assert.Equal(t, 42.0, s.Min)
	assert.Equal(t, 42.0, s.Max)
	assert.Equal(t, 42.0, s.Median)
	assert.Zero(t, s.Variance)
	assert.Zero(t, s.StdDev)
}

func TestCalculateStatistics_ModeTieBreaksSmallest(t *testing.T) {
	// 10 and 20 both appear twice; mode takes the smaller.
	s := CalculateStatistics([]float64{20, 10, 20, 10, 30})
	assert.Equal(t, 10.0, s.Mode)
}

func TestCalculateStatistics_DoesNotMutateInput(t *testing.T) {
	in := []float64{50, 10, 30}
	CalculateStatistics(in)
	assert.Equal(t, []float64{50, 10, 30}, in)
}

func TestCalculateStatistics_SampleVariance(t *testing.T) {
	s := CalculateStatistics([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	// mean 5, sum of squared deviations 32, n-1 = 7.
	assert.InDelta(t, 32.0/7.0, s.Variance, 1e-9)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.StdDev, 1e-9)
}

func TestFilterOutliersSmart_RemovesIQROutliers(t *testing.T) {
	prices := make([]float64, 0, 18)
	for v := 25.0; v <= 100; v += 5 {
		prices = append(prices, v)
	}
	require.Len(t, prices, 16)
	prices = append(prices, 500, 1000)

	res := FilterOutliersSmart(prices, DefaultFilterConfig())

	assert.Equal(t, "iqr", res.Method)
	assert.Len(t, res.Prices, 16)
	assert.ElementsMatch(t, []float64{500, 1000}, res.Outliers)
}

func TestFilterOutliersSmart_SmallSampleUnchanged(t *testing.T) {
	in := []float64{5, 5000}
	res := FilterOutliersSmart(in, DefaultFilterConfig())
	assert.Equal(t, "none", res.Method)
	assert.Equal(t, in, res.Prices)
}

func TestFilterOutliersSmart_AbandonsOverPruning(t *testing.T) {
	// A degenerate IQR of zero flags the lone high price, which exceeds
	// the configured removal budget, so filtering is abandoned.
	in := []float64{10, 10, 10, 10, 10000}
	cfg := FilterConfig{IQRMultiplier: 1.5, MaxRemovalFraction: 0.1}
	res := FilterOutliersSmart(in, cfg)
	assert.Equal(t, "none", res.Method)
	assert.Equal(t, in, res.Prices)
}

func TestFilterOutliersSmart_NoOutliers(t *testing.T) {
	in := []float64{40, 42, 45, 48, 50}
	res := FilterOutliersSmart(in, DefaultFilterConfig())
	assert.Equal(t, "iqr", res.Method)
	assert.Len(t, res.Prices, 5)
	assert.Empty(t, res.Outliers)
}

func TestStatisticsAfterFiltering_NeverNaN(t *testing.T) {
	cases := [][]float64{
		{1},
		{1, 1, 1, 1},
		{0.01, 99999, 42, 42, 37.5},
		{10, 20, 30, 40, 50, 5000},
	}
	for _, prices := range cases {
		res := FilterOutliersSmart(prices, DefaultFilterConfig())
		s := CalculateStatistics(res.Prices)
		for name, v := range map[string]float64{
			"min": s.Min, "max": s.Max, "mean": s.Mean, "median": s.Median,
			"mode": s.Mode, "stddev": s.StdDev, "variance": s.Variance,
			"q1": s.Q1, "q3": s.Q3,
		} {
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0),
				"%s is not finite for input %v", name, prices)
		}
	}
}
