package timeparse

import (
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	// Sunday June 15th 2025, 10:00 local.
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func TestExtract(t *testing.T) {
	e := NewRuleBasedAt(fixedClock())

	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"month day with pm", "December 5th at 2 PM", "2025-12-05 14:00", true},
		{"month day with minutes", "december 10th at 2:30pm", "2025-12-10 14:30", true},
		{"day of month", "the 5th of December works", "2025-12-05 09:00", true},
		{"date only defaults to morning", "July 3rd", "2025-07-03 09:00", true},
		{"past month rolls to next year", "January 10th", "2026-01-10 09:00", true},
		{"tomorrow with time", "tomorrow at 3:00 PM", "2025-06-16 15:00", true},
		{"today evening", "today at 6 pm", "2025-06-15 18:00", true},
		{"iso date with time", "2025-12-10 14:30 please", "2025-12-10 14:30", true},
		{"iso date only", "how about 2025-09-01", "2025-09-01 09:00", true},
		{"time only means today", "2pm works", "2025-06-15 14:00", true},
		{"24h clock after at", "at 18:30", "2025-06-15 18:30", true},
		{"noon", "tomorrow at 12 pm", "2025-06-16 12:00", true},
		{"midnight", "tomorrow at 12 am", "2025-06-16 00:00", true},
		{"booking reference is not a date", "cancel BOOK-02-2025", "", false},
		{"no datetime", "I want a massage", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.Extract(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Extract(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractNeverMovesFixedDates(t *testing.T) {
	e := NewRuleBasedAt(fixedClock())

	// An explicit year stays put even when it is in the past.
	got, ok := e.Extract("2024-01-05 at 10:00")
	if !ok || got != "2024-01-05 10:00" {
		t.Errorf("explicit year should not roll forward, got (%q, %v)", got, ok)
	}
}
