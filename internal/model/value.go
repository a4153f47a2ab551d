package model

import "time"

// Statistics is a pure derived summary of a price sample. SampleSize always
// equals the number of prices the summary was computed from.
type Statistics struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	Mode         float64 `json:"mode"`
	StdDev       float64 `json:"std_dev"`
	Variance     float64 `json:"variance"`
	Q1           float64 `json:"q1"`
	Q3           float64 `json:"q3"`
	IQR          float64 `json:"iqr"`
	OutlierCount int     `json:"outlier_count"`
	SampleSize   int     `json:"sample_size"`
}

// MarketValueResult is the final artifact of one valuation. Confidence is
// the primary fitness signal: a zero-confidence result means no usable
// market data was found, not that the call failed.
type MarketValueResult struct {
	ItemName        string     `json:"item_name"`
	Value           float64    `json:"value"`
	Confidence      float64    `json:"confidence"`
	Methodology     string     `json:"methodology"`
	Statistics      Statistics `json:"statistics"`
	OutliersRemoved bool       `json:"outliers_removed"`
	SoldWindowDays  int        `json:"sold_window_days"`
	ActiveSearchURL string     `json:"active_search_url"`
	SoldSearchURL   string     `json:"sold_search_url"`
	QueryUsed       string     `json:"query_used"`
	ActiveCount     int        `json:"active_count"`
	SoldCount       int        `json:"sold_count"`
	Timestamp       time.Time  `json:"timestamp"`
}
