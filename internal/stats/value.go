package stats

import (
	"math"
	"time"

	"github.com/sells-group/marketval/internal/model"
)

// Methodology labels for the statistical regimes.
const (
	MethodSmallSample  = "simple average (small sample)"
	MethodHighVariance = "median (high variance)"
	MethodWeighted     = "weighted statistical combination"
	MethodNoData       = "No data available"
)

// Sample is one price observation, optionally carrying the time the sale
// completed. Active listings have a nil SoldAt.
type Sample struct {
	Price  float64
	SoldAt *time.Time
}

// ValueConfig tunes the weighted market-value computation. The weights and
// the variation threshold are inherited defaults, not proven-optimal
// values; both are configurable for that reason.
type ValueConfig struct {
	// Weights for the blended regime. Should sum to 1.
	MedianWeight float64
	MeanWeight   float64
	ModeWeight   float64
	RecentWeight float64

	// CVThreshold switches to the median regime when the coefficient of
	// variation (stddev/mean) exceeds it.
	CVThreshold float64

	// RecentWindow bounds which sold samples feed the recency term.
	RecentWindow time.Duration

	// now overrides the clock in tests.
	now func() time.Time
}

// DefaultValueConfig returns the standard weighting parameters.
func DefaultValueConfig() ValueConfig {
	return ValueConfig{
		MedianWeight: 0.4,
		MeanWeight:   0.3,
		ModeWeight:   0.2,
		RecentWeight: 0.1,
		CVThreshold:  0.8,
		RecentWindow: 30 * 24 * time.Hour,
	}
}

// Value is the outcome of the weighted market-value computation.
type Value struct {
	Amount      float64
	Confidence  float64
	Methodology string
	Statistics  model.Statistics
}

// CalculateWeightedMarketValue reduces samples to a single market value with
// a confidence score. Empty input yields a zero value with the no-data
// methodology rather than an error.
func CalculateWeightedMarketValue(samples []Sample, cfg ValueConfig) Value {
	cfg = cfg.withDefaults()

	n := len(samples)
	if n == 0 {
		return Value{Methodology: MethodNoData}
	}

	prices := make([]float64, n)
	for i, s := range samples {
		prices[i] = s.Price
	}
	st := CalculateStatistics(prices)

	// Small sample: a plain mean with confidence shrinking per missing
	// observation.
	if n < 3 {
		conf := math.Max(0.3, 0.8-float64(3-n)*0.2)
		return Value{
			Amount:      st.Mean,
			Confidence:  conf,
			Methodology: MethodSmallSample,
			Statistics:  st,
		}
	}

	// High variance: the median resists skew better than any blend.
	if st.Mean > 0 && st.StdDev/st.Mean > cfg.CVThreshold {
		return Value{
			Amount:      st.Median,
			Confidence:  0.7,
			Methodology: MethodHighVariance,
			Statistics:  st,
		}
	}

	recent := recentAverage(samples, cfg, st.Mean)
	amount := cfg.MedianWeight*st.Median +
		cfg.MeanWeight*st.Mean +
		cfg.ModeWeight*st.Mode +
		cfg.RecentWeight*recent

	conf := math.Min(0.95, 0.6+float64(n)/20*0.3)

	return Value{
		Amount:      amount,
		Confidence:  conf,
		Methodology: MethodWeighted,
		Statistics:  st,
	}
}

// recentAverage computes the mean of samples sold within the recent window,
// falling back to the overall mean when none qualify.
func recentAverage(samples []Sample, cfg ValueConfig, fallback float64) float64 {
	now := time.Now()
	if cfg.now != nil {
		now = cfg.now()
	}
	cutoff := now.Add(-cfg.RecentWindow)

	var sum float64
	var count int
	for _, s := range samples {
		if s.SoldAt == nil || s.SoldAt.Before(cutoff) {
			continue
		}
		sum += s.Price
		count++
	}
	if count == 0 {
		return fallback
	}
	return sum / float64(count)
}

func (c ValueConfig) withDefaults() ValueConfig {
	def := DefaultValueConfig()
	if c.MedianWeight <= 0 && c.MeanWeight <= 0 && c.ModeWeight <= 0 && c.RecentWeight <= 0 {
		c.MedianWeight = def.MedianWeight
		c.MeanWeight = def.MeanWeight
		c.ModeWeight = def.ModeWeight
		c.RecentWeight = def.RecentWeight
	}
	if c.CVThreshold <= 0 {
		c.CVThreshold = def.CVThreshold
	}
	if c.RecentWindow <= 0 {
		c.RecentWindow = def.RecentWindow
	}
	return c
}
