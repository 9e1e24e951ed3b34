package ports

import (
	"context"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
)

// HistoryRepository persists served analyses.
type HistoryRepository interface {
	Save(ctx context.Context, e domain.HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}

// HistorySink accepts entries for asynchronous persistence. Submit must not block.
type HistorySink interface {
	Submit(e domain.HistoryEntry) bool
}
