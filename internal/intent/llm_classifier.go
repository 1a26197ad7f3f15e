package intent

import (
	"context"
	"encoding/json"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var classifierTracer = otel.Tracer("intent/llm_classifier")

const llmClassifierPrompt = `Classify this spa booking message into ONE intent. Respond with JSON only.

Intents:
- greeting: Saying hello or opening the conversation
- book_service: Wants to book a massage or appointment
- reschedule_booking: Wants to move an existing appointment to another time
- cancel_booking: Wants to cancel an existing appointment
- booking_status: Asks about their existing bookings
- pricing_inquiry: Asks about prices, costs or rates
- provide_datetime: Supplies only a date or time
- confirm: Agrees or says yes
- deny: Declines or says no
- thanks: Expresses gratitude
- unknown: Anything else

Message: %s

Respond with: {"intent": "<intent_name>", "confidence": <0.0-1.0>}`

// LLMClassifier asks an LLM for an intent label plus a confidence.
// Responses that fail to parse degrade to (unknown, 0.5) instead of erroring;
// only transport failures surface as errors.
type LLMClassifier struct {
	client LLMClient
	model  string
}

// NewLLMClassifier creates an LLM-backed intent classifier.
func NewLLMClassifier(client LLMClient, model string) *LLMClassifier {
	if client == nil {
		panic("intent: llm client cannot be nil")
	}
	return &LLMClassifier{client: client, model: model}
}

// Classify implements Classifier.
func (c *LLMClassifier) Classify(ctx context.Context, text string) (Prediction, error) {
	ctx, span := classifierTracer.Start(ctx, "LLMClassifier.Classify")
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return Prediction{Intent: LabelUnknown, Confidence: 0.5}, nil
	}

	prompt := strings.Replace(llmClassifierPrompt, "%s", text, 1)

	resp, err := c.client.Complete(ctx, LLMRequest{
		Model:       c.model,
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens:   60,
		Temperature: -1,
	})
	if err != nil {
		return Prediction{}, err
	}

	var result struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
	}

	// The model sometimes wraps the JSON in prose; take the outermost braces.
	content := strings.TrimSpace(resp.Text)
	startIdx := strings.Index(content, "{")
	endIdx := strings.LastIndex(content, "}")
	if startIdx < 0 || endIdx <= startIdx {
		return Prediction{Intent: LabelUnknown, Confidence: 0.5}, nil
	}
	if err := json.Unmarshal([]byte(content[startIdx:endIdx+1]), &result); err != nil {
		return Prediction{Intent: LabelUnknown, Confidence: 0.5}, nil
	}

	label := Label(strings.ToLower(strings.TrimSpace(result.Intent)))
	if !KnownLabel(string(label)) {
		return Prediction{Intent: LabelUnknown, Confidence: 0.5}, nil
	}

	confidence := result.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	span.SetAttributes(
		attribute.String("intent.label", string(label)),
		attribute.Float64("intent.confidence", confidence),
	)
	return Prediction{Intent: label, Confidence: confidence}, nil
}
