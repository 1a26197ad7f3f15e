package intent

import "context"

// Prediction is a classifier's opinion about a message.
type Prediction struct {
	Intent     Label
	Confidence float64
}

// Classifier turns a raw message into an intent prediction. Implementations
// may call out over the network; a returned error means the caller should
// fall back locally rather than surface the failure to the customer.
type Classifier interface {
	Classify(ctx context.Context, text string) (Prediction, error)
}

// FallbackPrediction is used when the classifier fails: greet and carry on.
func FallbackPrediction() Prediction {
	return Prediction{Intent: LabelGreeting, Confidence: 0.7}
}

// StaticClassifier always returns the same prediction. It backs the
// keyword-only deployment mode and test setups, where the resolver's rule
// table does all the work on top of a neutral baseline.
type StaticClassifier struct {
	Prediction Prediction
}

// NewStaticClassifier returns a classifier pinned to (unknown, 0.5).
func NewStaticClassifier() *StaticClassifier {
	return &StaticClassifier{Prediction: Prediction{Intent: LabelUnknown, Confidence: 0.5}}
}

// Classify implements Classifier.
func (c *StaticClassifier) Classify(ctx context.Context, text string) (Prediction, error) {
	return c.Prediction, nil
}
