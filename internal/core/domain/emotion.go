package domain

import (
	"math"
	"sort"
	"strconv"
)

// Emotion categories the reference model is trained on.
const (
	EmotionJoy      = "joy"
	EmotionSadness  = "sadness"
	EmotionAnger    = "anger"
	EmotionFear     = "fear"
	EmotionLove     = "love"
	EmotionSurprise = "surprise"
)

// EmotionPrediction is the classifier output for one text.
// Confidence and Scores are percentages and are never rounded here.
type EmotionPrediction struct {
	Label      string
	Confidence float64
	Scores     map[string]float64
}

// FormattedPrediction is the two-decimal string rendering of a prediction.
type FormattedPrediction struct {
	Emotion    string            `json:"emotion"`
	Confidence string            `json:"confidence"`
	Scores     map[string]string `json:"all_scores"`
}

// Formatted renders confidence and scores with exactly two decimals.
func (p EmotionPrediction) Formatted() FormattedPrediction {
	scores := make(map[string]string, len(p.Scores))
	for label, v := range p.Scores {
		scores[label] = FormatPercent(v)
	}
	return FormattedPrediction{
		Emotion:    p.Label,
		Confidence: FormatPercent(p.Confidence),
		Scores:     scores,
	}
}

// Labels returns the scored labels sorted by descending score.
func (p EmotionPrediction) Labels() []string {
	labels := make([]string, 0, len(p.Scores))
	for label := range p.Scores {
		labels = append(labels, label)
	}
	sort.SliceStable(labels, func(i, j int) bool {
		if p.Scores[labels[i]] == p.Scores[labels[j]] {
			return labels[i] < labels[j]
		}
		return p.Scores[labels[i]] > p.Scores[labels[j]]
	})
	return labels
}

// FormatPercent renders v with exactly two decimals.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RoundPercent rounds v to two decimals for numeric JSON output.
func RoundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
