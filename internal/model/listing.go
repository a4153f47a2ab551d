package model

import "time"

// Listing is a single marketplace listing extracted from a search results
// page. Immutable once produced by the parser.
type Listing struct {
	Title     string     `json:"title"`
	Price     float64    `json:"price"`
	Shipping  float64    `json:"shipping"`
	Location  string     `json:"location"`
	Condition string     `json:"condition"`
	SoldAt    *time.Time `json:"sold_at,omitempty"`
}

// TotalPrice returns the listing price including shipping.
func (l Listing) TotalPrice() float64 {
	return l.Price + l.Shipping
}
