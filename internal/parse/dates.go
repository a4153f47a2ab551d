package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	relativeRe = regexp.MustCompile(`(?i)(\d+)\s*(day|days|hour|hours)\s+ago`)
	monthDayRe = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})\b`)
	isoDateRe  = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// parseSoldDate recovers a sale timestamp from listing caption text. Three
// forms are accepted: relative ("3 days ago"), month+day with no year
// ("Oct 15", assumed current year, rolled back a year if in the future),
// and explicit ISO dates ("2025-10-15").
func parseSoldDate(text string, now time.Time) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	if m := relativeRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		unit := time.Hour
		if strings.HasPrefix(strings.ToLower(m[2]), "day") {
			unit = 24 * time.Hour
		}
		return now.Add(-time.Duration(n) * unit), true
	}

	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		t, err := time.ParseInLocation("2006-01-02", m[0], now.Location())
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	if m := monthDayRe.FindStringSubmatch(text); m != nil {
		month, ok := monthIndex[strings.ToLower(m[1])]
		if !ok {
			return time.Time{}, false
		}
		day, err := strconv.Atoi(m[2])
		if err != nil || day < 1 || day > 31 {
			return time.Time{}, false
		}
		t := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
		if t.After(now) {
			t = t.AddDate(-1, 0, 0)
		}
		return t, true
	}

	return time.Time{}, false
}
