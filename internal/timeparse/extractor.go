// Package timeparse extracts appointment date/times from chat messages.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the canonical appointment datetime format used across the
// engine, storage and responses.
const Layout = "2006-01-02 15:04"

// Extractor pulls a canonical datetime string out of free text.
// The boolean is false when the text contains no recognizable date or time.
type Extractor interface {
	Extract(text string) (string, bool)
}

var (
	isoPattern = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})(?:[ t](\d{1,2}):(\d{2}))?`)

	monthDayPattern = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	dayMonthPattern = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(january|february|march|april|may|june|july|august|september|october|november|december)\b`)

	meridiemPattern = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(a\.?m\.?|p\.?m\.?)\b`)
	atClockPattern  = regexp.MustCompile(`\bat\s+(\d{1,2})(?::(\d{2}))?\b`)
)

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// RuleBased is the default Extractor. It recognizes ISO dates, month-name
// dates with ordinal suffixes, today/tomorrow, and clock times with or
// without am/pm. Date-only text defaults to 09:00; a month/day already in
// the past rolls into the next year.
type RuleBased struct {
	now func() time.Time
}

// NewRuleBased returns an extractor anchored to the wall clock.
func NewRuleBased() *RuleBased {
	return &RuleBased{now: time.Now}
}

// NewRuleBasedAt returns an extractor anchored to a supplied clock,
// for deterministic tests.
func NewRuleBasedAt(now func() time.Time) *RuleBased {
	return &RuleBased{now: now}
}

// Extract implements Extractor. It never errors; unparseable text simply
// reports no match.
func (e *RuleBased) Extract(text string) (string, bool) {
	lower := strings.ToLower(text)
	now := e.now()

	var (
		year        = now.Year()
		month       time.Month
		day         int
		hasDate     bool
		yearIsFixed bool

		isoHour, isoMinute int
		isoHasTime         bool
	)

	switch {
	case isoPattern.MatchString(lower):
		m := isoPattern.FindStringSubmatch(lower)
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if mo < 1 || mo > 12 || d < 1 || d > 31 {
			return "", false
		}
		year, month, day = y, time.Month(mo), d
		hasDate, yearIsFixed = true, true
		if m[4] != "" {
			isoHour, _ = strconv.Atoi(m[4])
			isoMinute, _ = strconv.Atoi(m[5])
			isoHasTime = isoHour < 24 && isoMinute < 60
		}
	case monthDayPattern.MatchString(lower):
		m := monthDayPattern.FindStringSubmatch(lower)
		month = months[m[1]]
		day, _ = strconv.Atoi(m[2])
		hasDate = true
	case dayMonthPattern.MatchString(lower):
		m := dayMonthPattern.FindStringSubmatch(lower)
		day, _ = strconv.Atoi(m[1])
		month = months[m[2]]
		hasDate = true
	case strings.Contains(lower, "tomorrow"):
		t := now.AddDate(0, 0, 1)
		year, month, day = t.Year(), t.Month(), t.Day()
		hasDate, yearIsFixed = true, true
	case strings.Contains(lower, "today") || strings.Contains(lower, "tonight"):
		year, month, day = now.Year(), now.Month(), now.Day()
		hasDate, yearIsFixed = true, true
	}

	hour, minute, hasTime := extractClock(lower)
	if !hasTime && isoHasTime {
		hour, minute, hasTime = isoHour, isoMinute, true
	}

	if !hasDate && !hasTime {
		return "", false
	}
	if !hasDate {
		// Time-only text means today.
		year, month, day = now.Year(), now.Month(), now.Day()
		yearIsFixed = true
	}
	if day < 1 || day > 31 {
		return "", false
	}

	result := time.Date(year, month, day, hour, minute, 0, 0, now.Location())
	if !yearIsFixed && result.Before(now) {
		result = result.AddDate(1, 0, 0)
	}
	return result.Format(Layout), true
}

// extractClock finds a clock time, defaulting to 09:00 when absent.
func extractClock(lower string) (hour, minute int, ok bool) {
	hour = 9

	if m := meridiemPattern.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h < 1 || h > 12 {
			return 9, 0, false
		}
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if strings.HasPrefix(m[3], "p") && h != 12 {
			h += 12
		}
		if strings.HasPrefix(m[3], "a") && h == 12 {
			h = 0
		}
		return h, minute, minute < 60
	}

	if m := atClockPattern.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h > 23 {
			return 9, 0, false
		}
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		return h, minute, minute < 60
	}

	return 9, 0, false
}
