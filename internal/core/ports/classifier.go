package ports

import "github.com/ewilliams-labs/moodtune/internal/core/domain"

// EmotionClassifier predicts the emotion expressed in a text.
type EmotionClassifier interface {
	Classify(text string) (domain.EmotionPrediction, error)
}
