package classifier

import (
	"fmt"
	"math"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
	"github.com/ewilliams-labs/moodtune/internal/features"
)

// Classifier predicts the emotion of a text. It is safe for concurrent use.
type Classifier struct {
	pipeline *features.Pipeline
	model    Model
	classes  []string
}

// New builds a Classifier from validated artifacts.
func New(a *Artifacts) (*Classifier, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{
		pipeline: features.NewPipeline(a.Lexicon, a.Vectorizer, a.Schema),
		model:    a.Model,
		classes:  append([]string(nil), a.Classes...),
	}, nil
}

// Classes returns the labels the model can output, in model order.
func (c *Classifier) Classes() []string {
	return append([]string(nil), c.classes...)
}

// Classify runs the feature pipeline and the model on text. Empty text is
// valid input.
func (c *Classifier) Classify(text string) (domain.EmotionPrediction, error) {
	probs, err := c.model.Predict(c.pipeline.Transform(text))
	if err != nil {
		return domain.EmotionPrediction{}, err
	}
	if len(probs) != len(c.classes) {
		return domain.EmotionPrediction{}, fmt.Errorf("classifier: got %d probabilities for %d classes", len(probs), len(c.classes))
	}

	var total float64
	for i, p := range probs {
		if math.IsNaN(p) || p < 0 {
			return domain.EmotionPrediction{}, fmt.Errorf("classifier: invalid probability %v for %q", p, c.classes[i])
		}
		total += p
	}
	if total == 0 {
		return domain.EmotionPrediction{}, fmt.Errorf("classifier: all probabilities are zero")
	}

	pred := domain.EmotionPrediction{Scores: make(map[string]float64, len(probs))}
	best := -1
	for i, p := range probs {
		pct := p / total * 100
		pred.Scores[c.classes[i]] = pct
		if best < 0 || p > probs[best] {
			best = i
		}
	}
	pred.Label = c.classes[best]
	pred.Confidence = pred.Scores[pred.Label]
	return pred, nil
}
