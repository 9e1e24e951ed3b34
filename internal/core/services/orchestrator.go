package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
	"github.com/ewilliams-labs/moodtune/internal/core/ports"
	"github.com/ewilliams-labs/moodtune/internal/logger"
	"github.com/ewilliams-labs/moodtune/internal/metrics"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Orchestrator runs classification and recommendation for one text and
// records what was served.
type Orchestrator struct {
	classifier  ports.EmotionClassifier
	recommender *Recommender
	history     ports.HistoryRepository
	sink        ports.HistorySink
	logger      *zap.Logger
	now         func() time.Time
}

// NewOrchestrator constructs an Orchestrator. history and sink may be nil,
// which disables the history feature.
func NewOrchestrator(classifier ports.EmotionClassifier, recommender *Recommender, history ports.HistoryRepository, sink ports.HistorySink, l *zap.Logger) *Orchestrator {
	if l == nil {
		l = zap.NewNop()
	}
	return &Orchestrator{
		classifier:  classifier,
		recommender: recommender,
		history:     history,
		sink:        sink,
		logger:      l,
		now:         time.Now,
	}
}

// Predict classifies text without recommending songs.
func (o *Orchestrator) Predict(ctx context.Context, text string) (domain.EmotionPrediction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.EmotionPrediction{}, domain.ErrEmptyText
	}

	start := time.Now()
	pred, err := o.classifier.Classify(text)
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.EmotionPrediction{}, fmt.Errorf("service: classify: %w", err)
	}
	metrics.PredictionsTotal.WithLabelValues(pred.Label).Inc()

	logger.FromContextOr(ctx, o.logger).Debug("service: classified text",
		zap.String("emotion", pred.Label),
		zap.Float64("confidence", pred.Confidence),
	)
	return pred, nil
}

// Analyze classifies text, recommends up to limit songs for the predicted
// emotion and queues a history entry.
func (o *Orchestrator) Analyze(ctx context.Context, text string, limit int) (domain.Analysis, error) {
	pred, err := o.Predict(ctx, text)
	if err != nil {
		return domain.Analysis{}, err
	}

	res := o.recommender.Recommend(ctx, pred.Label, limit)
	analysis := domain.Analysis{
		Prediction: pred,
		Songs:      res.Songs,
		Source:     res.Source,
	}

	o.record(ctx, strings.TrimSpace(text), analysis)
	return analysis, nil
}

// Recommend resolves songs for an emotion label directly.
func (o *Orchestrator) Recommend(ctx context.Context, emotion string, limit int) Resolution {
	return o.recommender.Recommend(ctx, emotion, limit)
}

// Genres returns the emotion to genre map in use.
func (o *Orchestrator) Genres() domain.GenreMap {
	return o.recommender.Genres()
}

// History lists the most recent analyses, newest first. limit is clamped to
// [1, MaxHistoryLimit] with DefaultHistoryLimit for non-positive values.
func (o *Orchestrator) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if o.history == nil {
		return []domain.HistoryEntry{}, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	entries, err := o.history.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: load history: %w", err)
	}
	return entries, nil
}

func (o *Orchestrator) record(ctx context.Context, text string, a domain.Analysis) {
	if o.sink == nil {
		return
	}
	source := a.Source
	if len(a.Songs) == 0 {
		source = domain.SourceNone
	}
	entry := domain.HistoryEntry{
		ID:         uuid.NewString(),
		Text:       text,
		Emotion:    a.Prediction.Label,
		Confidence: a.Prediction.Confidence,
		Source:     source,
		SongCount:  len(a.Songs),
		CreatedAt:  o.now().UTC(),
	}
	if !o.sink.Submit(entry) {
		logger.FromContextOr(ctx, o.logger).Warn("service: history queue full, dropping entry",
			zap.String("history_id", entry.ID))
	}
}
