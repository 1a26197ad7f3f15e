package dialogue

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/serenetouch/booking-assistant/internal/appointments"
	"github.com/serenetouch/booking-assistant/internal/intent"
	"github.com/serenetouch/booking-assistant/internal/observability/metrics"
	"github.com/serenetouch/booking-assistant/internal/timeparse"
	"github.com/serenetouch/booking-assistant/pkg/logging"
)

var tracer = otel.Tracer("dialogue/engine")

const errorResponse = "I encountered an error processing your message. Please try again or rephrase your question."

// Pricing answers free-text price questions.
type Pricing interface {
	Answer(text string) string
}

// Action records the storage side effect a turn performed, if any.
type Action struct {
	Kind          string // "book", "reschedule", "cancel"
	AppointmentID int64
	Service       string
	When          string
}

// TurnResult is everything one turn produces.
type TurnResult struct {
	Intent     intent.Label
	Confidence float64
	Response   string
	Memory     Memory
	Action     *Action
}

// Engine drives one conversation turn: resolve the intent, run the matching
// flow against storage, and return the updated memory.
type Engine struct {
	resolver *intent.Resolver
	repo     appointments.Repository
	pricing  Pricing
	datetime timeparse.Extractor
	metrics  *metrics.TurnMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewEngine wires the turn engine. Resolver, repository and datetime
// extractor are required; pricing, metrics and logger may be nil.
func NewEngine(resolver *intent.Resolver, repo appointments.Repository, pricing Pricing, datetime timeparse.Extractor, m *metrics.TurnMetrics, logger *logging.Logger) *Engine {
	if resolver == nil {
		panic("dialogue: resolver cannot be nil")
	}
	if repo == nil {
		panic("dialogue: appointments repository cannot be nil")
	}
	if datetime == nil {
		panic("dialogue: datetime extractor cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		resolver: resolver,
		repo:     repo,
		pricing:  pricing,
		datetime: datetime,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// HandleTurn processes one message. It never returns an error: when an
// appointment action fails against storage, the turn degrades to an apology
// with the caller's memory unchanged.
func (e *Engine) HandleTurn(ctx context.Context, text string, mem Memory) TurnResult {
	ctx, span := tracer.Start(ctx, "Engine.HandleTurn")
	defer span.End()
	start := e.now()

	if mem == nil {
		mem = Memory{}
	}
	work := mem.Clone()

	res := e.resolver.Resolve(ctx, text, work.View())
	result, err := e.dispatch(ctx, text, res, work)
	if err != nil {
		e.logger.Error("turn action failed",
			"intent", string(res.Intent),
			"error", err,
		)
		e.metrics.ObserveAction(string(res.Intent), "error")
		result = TurnResult{
			Intent:     intent.LabelError,
			Confidence: 0,
			Response:   errorResponse,
			Memory:     mem.Clone(),
		}
	}

	e.metrics.ObserveTurn(string(result.Intent), e.now().Sub(start).Seconds())
	span.SetAttributes(
		attribute.String("turn.intent", string(result.Intent)),
		attribute.Float64("turn.confidence", result.Confidence),
	)
	return result
}

func (e *Engine) dispatch(ctx context.Context, text string, res intent.Resolution, mem Memory) (TurnResult, error) {
	switch res.Intent {
	case intent.LabelBookService:
		return e.handleBook(ctx, text, res, mem)
	case intent.LabelRescheduleBooking:
		return e.handleReschedule(ctx, text, res, mem)
	case intent.LabelCancelBooking:
		return e.handleCancel(ctx, text, res, mem)
	case intent.LabelBookingStatus:
		return e.handleStatus(ctx, res, mem)
	case intent.LabelConfirm:
		return e.handleConfirm(ctx, text, res, mem)
	case intent.LabelPricingInquiry:
		out := e.result(res, mem, nil)
		if e.pricing != nil {
			out.Response = e.pricing.Answer(text)
		}
		return out, nil
	default:
		// Conversational intents answer with the resolver's response.
		return e.result(res, mem, nil), nil
	}
}

func (e *Engine) result(res intent.Resolution, mem Memory, action *Action) TurnResult {
	return TurnResult{
		Intent:     res.Intent,
		Confidence: res.Confidence,
		Response:   res.Response,
		Memory:     mem,
		Action:     action,
	}
}

func (e *Engine) withResponse(res intent.Resolution, response string, mem Memory, action *Action) TurnResult {
	out := e.result(res, mem, action)
	out.Response = response
	return out
}
