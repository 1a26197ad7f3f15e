// Package booking formats and parses customer-facing booking references.
package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	fullRefPattern  = regexp.MustCompile(`book-(\d+)-(\d+)`)
	looseRefPattern = regexp.MustCompile(`(?:book-|#|booking\s*)(\d+)`)
	bareNumber      = regexp.MustCompile(`\b(\d+)\b`)
)

// FormatReference renders an appointment id as the customer-facing
// reference, e.g. id 3 in 2025 becomes BOOK-03-2025.
func FormatReference(id int64) string {
	return FormatReferenceForYear(id, time.Now().Year())
}

// FormatReferenceForYear is FormatReference with an explicit year.
func FormatReferenceForYear(id int64, year int) string {
	return fmt.Sprintf("BOOK-%02d-%d", id, year)
}

// ExtractReference pulls an appointment id out of free text. It accepts the
// full BOOK-NN-YYYY form, an id prefixed with "book-", "#" or "booking", and
// finally a bare number when the text is clearly about a booking. Returns
// false when no reference is present.
func ExtractReference(text string) (int64, bool) {
	lower := strings.ToLower(text)

	if m := fullRefPattern.FindStringSubmatch(lower); m != nil {
		return parseID(m[1])
	}
	if m := looseRefPattern.FindStringSubmatch(lower); m != nil {
		return parseID(m[1])
	}
	if strings.Contains(lower, "booking") || strings.Contains(lower, "appointment") {
		if m := bareNumber.FindStringSubmatch(lower); m != nil {
			return parseID(m[1])
		}
	}
	return 0, false
}

func parseID(digits string) (int64, bool) {
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
