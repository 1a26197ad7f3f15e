// Package intent resolves chat messages into booking intents.
package intent

// Label identifies a resolved conversation intent.
type Label string

const (
	LabelGreeting          Label = "greeting"
	LabelThanks            Label = "thanks"
	LabelPricingInquiry    Label = "pricing_inquiry"
	LabelBookingStatus     Label = "booking_status"
	LabelBookService       Label = "book_service"
	LabelRescheduleBooking Label = "reschedule_booking"
	LabelCancelBooking     Label = "cancel_booking"
	LabelProvideDatetime   Label = "provide_datetime"
	LabelConfirm           Label = "confirm"
	LabelDeny              Label = "deny"
	LabelUnknown           Label = "unknown"

	// LabelError is outside the classifier's set. It is produced only by
	// the turn boundary when an action against storage fails.
	LabelError Label = "error"
)

// classifierLabels is the closed set a classifier may return.
var classifierLabels = map[Label]bool{
	LabelGreeting:          true,
	LabelThanks:            true,
	LabelPricingInquiry:    true,
	LabelBookingStatus:     true,
	LabelBookService:       true,
	LabelRescheduleBooking: true,
	LabelCancelBooking:     true,
	LabelProvideDatetime:   true,
	LabelConfirm:           true,
	LabelDeny:              true,
	LabelUnknown:           true,
}

// KnownLabel reports whether s is a valid classifier label.
func KnownLabel(s string) bool {
	return classifierLabels[Label(s)]
}

// cannedResponses are the baseline per-intent replies. Action intents get
// their real response from the dialogue engine; these cover the simple
// conversational intents and serve as placeholders for the rest.
var cannedResponses = map[Label]string{
	LabelGreeting:          "Hello! How can I help with your booking?",
	LabelThanks:            "You're welcome!",
	LabelPricingInquiry:    "Let me check the prices.",
	LabelBookingStatus:     "Please provide your booking reference.",
	LabelBookService:       "I'd be happy to help you book a massage! What type would you like?",
	LabelRescheduleBooking: "Sure, let's reschedule. Provide the new date and time.",
	LabelCancelBooking:     "Got it. Confirm if you want to cancel.",
	LabelProvideDatetime:   "Noted the time.",
	LabelConfirm:           "Great, confirmed.",
	LabelDeny:              "Okay, no problem.",
}

// CannedResponse returns the baseline reply for a label.
func CannedResponse(l Label) string {
	if r, ok := cannedResponses[l]; ok {
		return r
	}
	return "I'm sorry, I didn't catch that. Could you rephrase?"
}
