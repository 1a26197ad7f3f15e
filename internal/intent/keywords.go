package intent

import "strings"

// Keyword vocabularies behind the resolver's override rules. These are
// deliberately broad: the classifier supplies nuance, the keywords supply
// certainty for the phrasings customers actually use.

var cancelKeywords = []string{
	"cancel", "remove", "delete", "cancel my", "cancel the", "cancelled",
	"canceling", "cancelling", "want to cancel", "need to cancel",
	"i want to cancel", "i need to cancel", "cancellation",
}

var rescheduleKeywords = []string{
	"reschedule", "change", "modify", "move", "shift", "postpone",
	"rescheduling", "changing", "modifying", "moving", "shifting",
	"need to reschedule", "want to reschedule",
	"i need to reschedule", "i want to reschedule",
}

var bookingKeywords = []string{
	"book", "schedule", "appointment", "reserve", "reservation",
	"set up", "setup", "make", "create", "arrange", "organize",
	"i want", "i need", "i'd like", "i would like", "can i get",
	"can i have", "i'm looking for", "looking to", "want to book",
	"need to book", "would like to", "like to schedule", "need an",
	"want an", "get me", "book me", "schedule me", "set me up",
}

// implicitBookingKeywords are desire phrasings that imply a booking when
// the message also names a service ("I'd like a hot stone massage").
var implicitBookingKeywords = []string{
	"i want", "i need", "i'd like", "i would like", "can i get",
	"can i have", "i'm looking for", "looking to", "get me", "give me",
	"i'll take", "i'll have",
}

var pricingKeywords = []string{
	"price", "cost", "how much", "pricing", "fee", "charge", "rates",
}

var statusKeywords = []string{
	"status", "check", "view", "show", "my booking", "my appointments",
	"what do i have",
}

var greetingKeywords = []string{
	"hello", "hi", "hey", "greetings",
	"good morning", "good afternoon", "good evening",
}

var thanksKeywords = []string{
	"thanks", "thank you", "appreciate", "thank", "grateful",
}

// containsAny reports whether any keyword appears in the lowercased text.
func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
