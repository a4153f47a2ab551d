package model

// SearchQuery is one generated search-query variant for an item.
// Queries are ephemeral: built per valuation request and ranked so the
// most specific variant comes first.
type SearchQuery struct {
	Text string `json:"text"`
	Rank int    `json:"rank"`
}
