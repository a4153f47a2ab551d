// Package parse converts marketplace search-result HTML into structured
// listing records. Parsing is tolerant: malformed cards are skipped, never
// fatal, and data-quality problems surface through a separate validation
// report rather than errors.
package parse

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/marketval/internal/model"
)

// Selector sets for the listing-card markup, primary first with legacy
// fallbacks. Markup drifts; extraction tries each in order.
var (
	cardSelectors      = []string{"li.s-item", "div.s-item", "li.result-item"}
	titleSelectors     = []string{".s-item__title", ".item-title", "h3"}
	priceSelectors     = []string{".s-item__price", ".item-price", ".price"}
	shippingSelectors  = []string{".s-item__shipping", ".s-item__logisticsCost", ".shipping"}
	locationSelectors  = []string{".s-item__location", ".s-item__itemLocation", ".item-location"}
	conditionSelectors = []string{".s-item__subtitle .SECONDARY_INFO", ".s-item__subtitle", ".condition"}
	soldDateSelectors  = []string{".s-item__caption", ".s-item__title--tagblock .POSITIVE", ".s-item__endedDate"}

	adMarkerSelectors = []string{".s-item__ad-badge", ".s-item__promoted-label", ".ad-badge"}
)

// placeholderTitles are synthetic cards the marketplace injects; they carry
// no listing data.
var placeholderTitles = map[string]struct{}{
	"shop on ebay":                 {},
	"new listing":                  {},
	"results matching fewer words": {},
}

// Options tunes parsing.
type Options struct {
	// WindowDays bounds how old a sold listing may be. Default: 30.
	WindowDays int

	// MinPrice and MaxPrice drop out-of-range cards when set.
	MinPrice float64
	MaxPrice float64

	// now overrides the clock in tests.
	now func() time.Time
}

func (o Options) clock() time.Time {
	if o.now != nil {
		return o.now()
	}
	return time.Now()
}

// Result holds the listings recovered from one page.
type Result struct {
	Count    int             `json:"count"`
	Listings []model.Listing `json:"listings"`
}

// ParseActive extracts active listings from search-results HTML. It never
// fails: unparseable markup yields an empty result.
func ParseActive(html string, opts Options) Result {
	return parseListings(html, opts, false)
}

// ParseSold extracts sold listings, each carrying a parsed sold date.
// Listings older than opts.WindowDays are dropped; listings whose date
// cannot be recovered are kept undated so sparse data still contributes
// prices.
func ParseSold(html string, opts Options) Result {
	return parseListings(html, opts, true)
}

func parseListings(html string, opts Options, sold bool) Result {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		zap.L().Warn("parse: unreadable document", zap.Error(err))
		return Result{}
	}

	windowDays := opts.WindowDays
	if windowDays <= 0 {
		windowDays = 30
	}
	now := opts.clock()
	cutoff := now.AddDate(0, 0, -windowDays)

	var listings []model.Listing
	findFirst(doc.Selection, cardSelectors).Each(func(_ int, card *goquery.Selection) {
		l, ok := extractListing(card, sold, now)
		if !ok {
			return
		}
		if opts.MinPrice > 0 && l.Price < opts.MinPrice {
			return
		}
		if opts.MaxPrice > 0 && l.Price > opts.MaxPrice {
			return
		}
		if sold && l.SoldAt != nil && l.SoldAt.Before(cutoff) {
			return
		}
		listings = append(listings, l)
	})

	return Result{Count: len(listings), Listings: listings}
}

// extractListing pulls one listing from a card selection. Advertisement and
// placeholder cards are rejected.
func extractListing(card *goquery.Selection, sold bool, now time.Time) (model.Listing, bool) {
	if isAd(card) {
		return model.Listing{}, false
	}

	title := strings.TrimSpace(textFirst(card, titleSelectors))
	if title == "" {
		return model.Listing{}, false
	}
	if _, placeholder := placeholderTitles[strings.ToLower(title)]; placeholder {
		return model.Listing{}, false
	}

	price, ok := parseDollar(textFirst(card, priceSelectors))
	if !ok || price <= 0 {
		return model.Listing{}, false
	}

	l := model.Listing{
		Title:     title,
		Price:     price,
		Shipping:  parseShipping(textFirst(card, shippingSelectors)),
		Location:  defaultIfEmpty(textFirst(card, locationSelectors), "Unknown"),
		Condition: defaultIfEmpty(textFirst(card, conditionSelectors), "Unknown"),
	}

	if sold {
		if t, ok := parseSoldDate(textFirst(card, soldDateSelectors), now); ok {
			l.SoldAt = &t
		}
	}

	return l, true
}

func isAd(card *goquery.Selection) bool {
	if card.HasClass("s-item--ad") || card.HasClass("promoted") {
		return true
	}
	for _, sel := range adMarkerSelectors {
		if card.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}

// findFirst returns the selection for the first selector that matches
// anything.
func findFirst(root *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if s := root.Find(sel); s.Length() > 0 {
			return s
		}
	}
	return root.Find(selectors[0])
}

// textFirst returns trimmed text for the first matching selector.
func textFirst(card *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if s := card.Find(sel); s.Length() > 0 {
			return strings.TrimSpace(s.First().Text())
		}
	}
	return ""
}

func defaultIfEmpty(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
