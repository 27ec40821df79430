// Package transform implements the cleaning rule chains applied to raw
// entity batches, plus the cross-entity referential integrity filter.
//
// Every rule is a silent row-level filter: rejected rows disappear from the
// surviving set and are only visible through before/after counts. Rule order
// within each chain is a contract; each step operates on the output of the
// previous one and deduplication keeps the first-seen row in input order.
package transform

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// emailPattern is a deliberately permissive RFC-inspired check, not full
// RFC 5322 compliance.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// emailBlacklist lists known-bad literals produced by upstream systems.
// Several of these (doubled dots, leading/trailing hyphens in the domain)
// pass the regex, so this exact-match check must run as well.
var emailBlacklist = map[string]struct{}{
	"invalid_email":            {},
	"user@.com":                {},
	"user@":                    {},
	"@example.com":             {},
	"user..name@example.com":   {},
	"user name@example.com":    {},
	"user@example..com":        {},
	"user@.example.com":        {},
	"user@example.com.":        {},
	"user@-example.com":        {},
	"user@example-.com":        {},
}

// categoryTable maps lower-cased category variants to their canonical
// spelling. The raw value is lower-cased before lookup; unknown categories
// pass through unchanged.
var categoryTable = map[string]string{
	"electronics": "Electronics",
	"books":       "Books",
	"home":        "Home",
}

// dateLayouts are tried in order. ISO forms come first; month-first is
// preferred over day-first when both could match, and a 2-digit year form
// is accepted last.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"2006 1 2",
	"1-2-2006",
	"2-1-2006",
	"1/2/2006",
	"06-1-2",
}

const (
	minYear = 1900
	maxYear = 2100

	// Amounts and prices must be in (0, maxAmount].
	maxAmount = 10000
)

func blacklistedEmail(email string) bool {
	_, ok := emailBlacklist[email]
	return ok
}

func validEmailSyntax(email string) bool {
	return emailPattern.MatchString(email)
}

func normalizeCategory(raw string) string {
	if canonical, ok := categoryTable[strings.ToLower(raw)]; ok {
		return canonical
	}
	return raw
}

// parseDate attempts flexible date parsing. It fails on empty input,
// unparseable strings, impossible calendar dates (time.Parse rejects
// "2023-02-30"), and years outside [minYear, maxYear].
func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() < minYear || t.Year() > maxYear {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

func parseNumber(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return f, err == nil
}

func parseInt(raw string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return n, err == nil
}

func amountInRange(f float64) bool {
	return f > 0 && f <= maxAmount
}
