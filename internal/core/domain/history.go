package domain

import "time"

// HistoryEntry records one served analysis.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
	Source     Source    `json:"source"`
	SongCount  int       `json:"song_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Analysis is the combined result of classifying a text and recommending songs for it.
type Analysis struct {
	Prediction EmotionPrediction
	Songs      []Song
	Source     Source
}
