package intent

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/serenetouch/booking-assistant/internal/booking"
	"github.com/serenetouch/booking-assistant/internal/catalog"
	"github.com/serenetouch/booking-assistant/internal/observability/metrics"
	"github.com/serenetouch/booking-assistant/internal/timeparse"
	"github.com/serenetouch/booking-assistant/pkg/logging"
)

var resolverTracer = otel.Tracer("intent/resolver")

// MemoryView is the slice of conversation memory the resolver reads.
// The dialogue engine owns the full memory bag; the resolver only needs
// to know which slots are armed.
type MemoryView struct {
	PendingService       string
	HasPendingReschedule bool
	AwaitingBookingID    string // "cancel" or "reschedule" when armed
	Pending              string // legacy slot
}

// Resolution is the resolver's verdict for one message.
type Resolution struct {
	Intent     Label
	Confidence float64
	Response   string
}

// Resolver combines a classifier baseline with an ordered table of override
// rules. Rules run in declaration order; a rule either has no opinion or
// replaces the resolution produced so far.
type Resolver struct {
	classifier Classifier
	datetime   timeparse.Extractor
	metrics    *metrics.TurnMetrics
	logger     *logging.Logger
	rules      []rule
}

type ruleContext struct {
	lower      string
	text       string
	memory     MemoryView
	res        Resolution
	keywordHit bool
}

type rule struct {
	name  string
	apply func(rc *ruleContext) *Resolution
}

// NewResolver wires a resolver. Classifier and datetime extractor are
// required; metrics and logger may be nil.
func NewResolver(classifier Classifier, datetime timeparse.Extractor, m *metrics.TurnMetrics, logger *logging.Logger) *Resolver {
	if classifier == nil {
		panic("intent: classifier cannot be nil")
	}
	if datetime == nil {
		panic("intent: datetime extractor cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}

	r := &Resolver{
		classifier: classifier,
		datetime:   datetime,
		metrics:    m,
		logger:     logger,
	}
	r.rules = []rule{
		{"keyword_cancel_reschedule", r.keywordCancelReschedule},
		{"keyword_booking", r.keywordBooking},
		{"keyword_secondary", r.keywordSecondary},
		{"pending_service_datetime", r.pendingServiceDatetime},
		{"pending_reschedule_datetime", r.pendingRescheduleDatetime},
		{"awaiting_reference", r.awaitingReference},
		{"legacy_pending_reschedule", r.legacyPendingReschedule},
	}
	return r
}

// RuleNames returns the override rules in evaluation order.
func (r *Resolver) RuleNames() []string {
	names := make([]string, len(r.rules))
	for i, ru := range r.rules {
		names[i] = ru.name
	}
	return names
}

// Resolve produces the intent, confidence and baseline response for a
// message given the current memory view. It never errors: classifier
// failure degrades to a greeting.
func (r *Resolver) Resolve(ctx context.Context, text string, mem MemoryView) Resolution {
	ctx, span := resolverTracer.Start(ctx, "Resolver.Resolve")
	defer span.End()

	rc := &ruleContext{
		text:   text,
		lower:  strings.ToLower(text),
		memory: mem,
	}

	pred, err := r.classifier.Classify(ctx, text)
	if err != nil {
		r.logger.Warn("classifier failed, using fallback", "error", err)
		r.metrics.ClassifierFallback()
		pred = FallbackPrediction()
	}
	rc.res = Resolution{
		Intent:     pred.Intent,
		Confidence: pred.Confidence,
		Response:   CannedResponse(pred.Intent),
	}

	for _, ru := range r.rules {
		if out := ru.apply(rc); out != nil {
			rc.res = *out
		}
	}

	span.SetAttributes(
		attribute.String("intent.label", string(rc.res.Intent)),
		attribute.Float64("intent.confidence", rc.res.Confidence),
	)
	return rc.res
}

// keywordCancelReschedule handles explicit cancel/reschedule phrasing.
// Cancel wins over reschedule when both vocabularies match.
func (r *Resolver) keywordCancelReschedule(rc *ruleContext) *Resolution {
	switch {
	case containsAny(rc.lower, cancelKeywords):
		rc.keywordHit = true
		return &Resolution{
			Intent:     LabelCancelBooking,
			Confidence: 0.9,
			Response:   CannedResponse(LabelCancelBooking),
		}
	case containsAny(rc.lower, rescheduleKeywords):
		rc.keywordHit = true
		return &Resolution{
			Intent:     LabelRescheduleBooking,
			Confidence: 0.9,
			Response:   CannedResponse(LabelRescheduleBooking),
		}
	}
	return nil
}

// keywordBooking detects booking phrasing. Naming a service raises the
// confidence and acknowledges the service in the response.
func (r *Resolver) keywordBooking(rc *ruleContext) *Resolution {
	if rc.keywordHit {
		return nil
	}

	mentionsService := catalog.MentionsService(rc.lower)
	switch {
	case containsAny(rc.lower, bookingKeywords) && mentionsService:
		rc.keywordHit = true
		service := catalog.Match(rc.lower)
		return &Resolution{
			Intent:     LabelBookService,
			Confidence: 0.9,
			Response:   "I'd be happy to help you book a " + service + "!",
		}
	case containsAny(rc.lower, bookingKeywords):
		rc.keywordHit = true
		return &Resolution{
			Intent:     LabelBookService,
			Confidence: 0.85,
			Response:   CannedResponse(LabelBookService),
		}
	case containsAny(rc.lower, implicitBookingKeywords) && mentionsService:
		rc.keywordHit = true
		service := catalog.Match(rc.lower)
		return &Resolution{
			Intent:     LabelBookService,
			Confidence: 0.9,
			Response:   "I'd be happy to help you book a " + service + "!",
		}
	case containsAny(rc.lower, implicitBookingKeywords):
		rc.keywordHit = true
		return &Resolution{
			Intent:     LabelBookService,
			Confidence: 0.85,
			Response:   CannedResponse(LabelBookService),
		}
	}
	return nil
}

// keywordSecondary covers pricing, status, greeting and thanks phrasing.
func (r *Resolver) keywordSecondary(rc *ruleContext) *Resolution {
	if rc.keywordHit {
		return nil
	}

	var label Label
	var confidence float64
	switch {
	case containsAny(rc.lower, pricingKeywords):
		label, confidence = LabelPricingInquiry, 0.85
	case containsAny(rc.lower, statusKeywords):
		label, confidence = LabelBookingStatus, 0.85
	case containsAny(rc.lower, greetingKeywords):
		label, confidence = LabelGreeting, 0.9
	case containsAny(rc.lower, thanksKeywords):
		label, confidence = LabelThanks, 0.9
	default:
		return nil
	}

	rc.keywordHit = true
	return &Resolution{
		Intent:     label,
		Confidence: confidence,
		Response:   CannedResponse(label),
	}
}

// pendingServiceDatetime completes an armed booking: once a service is
// pending, any message carrying a datetime means "book it".
func (r *Resolver) pendingServiceDatetime(rc *ruleContext) *Resolution {
	if rc.memory.PendingService == "" {
		return nil
	}
	if _, ok := r.datetime.Extract(rc.text); !ok {
		return nil
	}
	return &Resolution{
		Intent:     LabelBookService,
		Confidence: 0.9,
		Response:   rc.res.Response,
	}
}

// pendingRescheduleDatetime completes an armed reschedule the same way.
func (r *Resolver) pendingRescheduleDatetime(rc *ruleContext) *Resolution {
	if !rc.memory.HasPendingReschedule {
		return nil
	}
	if _, ok := r.datetime.Extract(rc.text); !ok {
		return nil
	}
	return &Resolution{
		Intent:     LabelRescheduleBooking,
		Confidence: 0.9,
		Response:   rc.res.Response,
	}
}

// awaitingReference routes a bare booking reference back to the action
// that asked for it. Only the intent is forced; confidence and response
// carry over from the resolution so far.
func (r *Resolver) awaitingReference(rc *ruleContext) *Resolution {
	kind := rc.memory.AwaitingBookingID
	if kind == "" {
		return nil
	}
	if _, ok := booking.ExtractReference(rc.text); !ok {
		return nil
	}

	out := rc.res
	switch kind {
	case "cancel":
		out.Intent = LabelCancelBooking
	case "reschedule":
		out.Intent = LabelRescheduleBooking
	default:
		return nil
	}
	return &out
}

// legacyPendingReschedule is the old confirm-driven reschedule slot. It is
// kept isolated here so the whole path can be removed in one place.
func (r *Resolver) legacyPendingReschedule(rc *ruleContext) *Resolution {
	if rc.memory.Pending != "reschedule" {
		return nil
	}
	out := rc.res
	out.Intent = LabelProvideDatetime
	out.Response = CannedResponse(LabelProvideDatetime)
	return &out
}
