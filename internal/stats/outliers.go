package stats

// FilterConfig tunes outlier filtering. The defaults mirror the classic
// 1.5x IQR fences plus a safety valve against over-pruning sparse data.
type FilterConfig struct {
	// IQRMultiplier sets the fence width: [Q1 - k*IQR, Q3 + k*IQR].
	IQRMultiplier float64

	// MaxRemovalFraction abandons filtering when it would remove more than
	// this share of the samples. The 0.5 default is a heuristic with no
	// stronger derivation; treat it as tunable.
	MaxRemovalFraction float64
}

// DefaultFilterConfig returns the standard IQR filter settings.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		IQRMultiplier:      1.5,
		MaxRemovalFraction: 0.5,
	}
}

// FilterResult holds the retained prices and how they were selected.
type FilterResult struct {
	Prices   []float64
	Outliers []float64
	Method   string // "iqr" or "none"
}

// FilterOutliersSmart removes IQR outliers from prices. Samples smaller
// than 3 are returned unchanged, as are samples where filtering would
// remove more than cfg.MaxRemovalFraction of the values.
func FilterOutliersSmart(prices []float64, cfg FilterConfig) FilterResult {
	if cfg.IQRMultiplier <= 0 {
		cfg.IQRMultiplier = 1.5
	}
	if cfg.MaxRemovalFraction <= 0 {
		cfg.MaxRemovalFraction = 0.5
	}

	if len(prices) < 3 {
		return FilterResult{Prices: prices, Method: "none"}
	}

	s := CalculateStatistics(prices)
	lower := s.Q1 - cfg.IQRMultiplier*s.IQR
	upper := s.Q3 + cfg.IQRMultiplier*s.IQR

	kept := make([]float64, 0, len(prices))
	var outliers []float64
	for _, p := range prices {
		if p < lower || p > upper {
			outliers = append(outliers, p)
			continue
		}
		kept = append(kept, p)
	}

	removed := float64(len(outliers)) / float64(len(prices))
	if removed > cfg.MaxRemovalFraction {
		return FilterResult{Prices: prices, Method: "none"}
	}

	return FilterResult{Prices: kept, Outliers: outliers, Method: "iqr"}
}
