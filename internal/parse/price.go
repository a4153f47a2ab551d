package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// dollarRe matches the first dollar-amount token in a text fragment. For a
// displayed range like "$10.00 to $20.00" the first match is the low bound,
// which is the value we keep.
var dollarRe = regexp.MustCompile(`\$([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

// parseDollar extracts the first dollar amount from text.
func parseDollar(text string) (float64, bool) {
	m := dollarRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseShipping maps shipping text to a cost: "free" is zero, otherwise the
// first dollar token, defaulting to zero when nothing is recognizable.
func parseShipping(text string) float64 {
	if strings.Contains(strings.ToLower(text), "free") {
		return 0
	}
	if v, ok := parseDollar(text); ok {
		return v
	}
	return 0
}
