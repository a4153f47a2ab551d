package parse

// PriceCeiling is the implausible-price threshold flagged by validation.
const PriceCeiling = 100_000

// Report is a pure data-quality assessment of a parse result. Warnings are
// advisory: the caller decides whether to retry with another query or
// proceed with degraded data.
type Report struct {
	ItemsFound        int      `json:"items_found"`
	ValidPrices       int      `json:"valid_prices"`
	NoItems           bool     `json:"no_items"`
	NoValidPrices     bool     `json:"no_valid_prices"`
	NonPositivePrices bool     `json:"non_positive_prices"`
	ImplausiblePrices bool     `json:"implausible_prices"`
	NoSoldDates       bool     `json:"no_sold_dates,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`
}

// OK reports whether the result is usable without qualification.
func (r Report) OK() bool {
	return len(r.Warnings) == 0
}

// Validate inspects a parse result for data-quality problems. sold toggles
// the sold-date check. Pure: no logging, no side effects.
func Validate(res Result, sold bool) Report {
	rep := Report{ItemsFound: res.Count}

	if res.Count == 0 {
		rep.NoItems = true
		rep.Warnings = append(rep.Warnings, "no listings found")
		if sold {
			rep.NoSoldDates = true
		}
		return rep
	}

	datesFound := 0
	for _, l := range res.Listings {
		switch {
		case l.Price <= 0:
			rep.NonPositivePrices = true
		case l.Price > PriceCeiling:
			rep.ImplausiblePrices = true
			rep.ValidPrices++
		default:
			rep.ValidPrices++
		}
		if l.SoldAt != nil {
			datesFound++
		}
	}

	if rep.ValidPrices == 0 {
		rep.NoValidPrices = true
		rep.Warnings = append(rep.Warnings, "no valid prices recovered")
	}
	if rep.NonPositivePrices {
		rep.Warnings = append(rep.Warnings, "non-positive prices present")
	}
	if rep.ImplausiblePrices {
		rep.Warnings = append(rep.Warnings, "prices above plausibility ceiling present")
	}
	if sold && datesFound == 0 {
		rep.NoSoldDates = true
		rep.Warnings = append(rep.Warnings, "no sold dates recovered")
	}

	return rep
}
