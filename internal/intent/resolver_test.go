package intent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenetouch/booking-assistant/internal/timeparse"
)

type failingClassifier struct{}

func (failingClassifier) Classify(ctx context.Context, text string) (Prediction, error) {
	return Prediction{}, errors.New("model unavailable")
}

func newTestResolver(c Classifier) *Resolver {
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	extractor := timeparse.NewRuleBasedAt(func() time.Time { return now })
	return NewResolver(c, extractor, nil, nil)
}

func TestResolveClassifierFallback(t *testing.T) {
	r := newTestResolver(failingClassifier{})

	// Vocabulary-free text so no keyword rule replaces the fallback
	// ("hi" hides inside words like "anything").
	res := r.Resolve(context.Background(), "mmm okay", MemoryView{})
	assert.Equal(t, LabelGreeting, res.Intent)
	assert.Equal(t, 0.7, res.Confidence)
	assert.Equal(t, "Hello! How can I help with your booking?", res.Response)
}

func TestResolveKeywordOverrides(t *testing.T) {
	r := newTestResolver(NewStaticClassifier())

	tests := []struct {
		name           string
		text           string
		wantIntent     Label
		wantConfidence float64
	}{
		{"cancel", "I want to cancel my appointment", LabelCancelBooking, 0.9},
		{"reschedule", "can we move my session", LabelRescheduleBooking, 0.9},
		{"cancel beats reschedule", "cancel it, or maybe change it", LabelCancelBooking, 0.9},
		{"booking with service", "I'd like a hot stone massage", LabelBookService, 0.9},
		{"booking without service", "set me up for something", LabelBookService, 0.85},
		{"implicit booking without service", "I'll take the usual", LabelBookService, 0.85},
		{"implicit booking give me", "give me the usual", LabelBookService, 0.85},
		{"pricing", "how much is a session", LabelPricingInquiry, 0.85},
		{"status", "status of my massage", LabelBookingStatus, 0.85},
		{"greeting", "good morning", LabelGreeting, 0.9},
		{"thanks", "thank you so much", LabelThanks, 0.9},
		{"no keywords", "the weather is lovely", LabelUnknown, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(context.Background(), tt.text, MemoryView{})
			assert.Equal(t, tt.wantIntent, res.Intent)
			assert.Equal(t, tt.wantConfidence, res.Confidence)
		})
	}
}

func TestResolveBookingAcknowledgesService(t *testing.T) {
	r := newTestResolver(NewStaticClassifier())

	res := r.Resolve(context.Background(), "I'd like a hot stone massage", MemoryView{})
	require.Equal(t, LabelBookService, res.Intent)
	assert.Equal(t, "I'd be happy to help you book a Hot Stone Massage!", res.Response)
}

func TestResolvePendingServiceDatetimeOverride(t *testing.T) {
	r := newTestResolver(NewStaticClassifier())

	mem := MemoryView{PendingService: "Thai Massage"}
	res := r.Resolve(context.Background(), "tomorrow at 3 pm", mem)
	assert.Equal(t, LabelBookService, res.Intent)
	assert.Equal(t, 0.9, res.Confidence)

	// Without a datetime the baseline stands and the engine re-asks.
	res = r.Resolve(context.Background(), "umm not sure yet", mem)
	assert.Equal(t, LabelUnknown, res.Intent)
}

func TestResolvePendingRescheduleBeatsPendingService(t *testing.T) {
	r := newTestResolver(NewStaticClassifier())

	mem := MemoryView{PendingService: "Thai Massage", HasPendingReschedule: true}
	res := r.Resolve(context.Background(), "December 5th at 2 PM", mem)
	assert.Equal(t, LabelRescheduleBooking, res.Intent)
	assert.Equal(t, 0.9, res.Confidence)
}

func TestResolveAwaitingReference(t *testing.T) {
	r := newTestResolver(NewStaticClassifier())

	// "BOOK-..." also trips the booking keyword, so the confidence carries
	// over from that rule while the intent is forced back to the action
	// that asked for the reference.
	res := r.Resolve(context.Background(), "BOOK-02-2025", MemoryView{AwaitingBookingID: "cancel"})
	assert.Equal(t, LabelCancelBooking, res.Intent)
	assert.Equal(t, 0.85, res.Confidence)

	res = r.Resolve(context.Background(), "BOOK-02-2025", MemoryView{AwaitingBookingID: "reschedule"})
	assert.Equal(t, LabelRescheduleBooking, res.Intent)

	// No reference in the message leaves the resolution alone.
	res = r.Resolve(context.Background(), "the first one", MemoryView{AwaitingBookingID: "cancel"})
	assert.Equal(t, LabelUnknown, res.Intent)
}

func TestResolveLegacyPendingReschedule(t *testing.T) {
	r := newTestResolver(NewStaticClassifier())

	res := r.Resolve(context.Background(), "next tuesday then", MemoryView{Pending: "reschedule"})
	assert.Equal(t, LabelProvideDatetime, res.Intent)
	assert.Equal(t, "Noted the time.", res.Response)
}

func TestRuleOrderIsStable(t *testing.T) {
	r := newTestResolver(NewStaticClassifier())

	assert.Equal(t, []string{
		"keyword_cancel_reschedule",
		"keyword_booking",
		"keyword_secondary",
		"pending_service_datetime",
		"pending_reschedule_datetime",
		"awaiting_reference",
		"legacy_pending_reschedule",
	}, r.RuleNames())
}
