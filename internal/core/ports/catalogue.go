package ports

import (
	"context"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
)

// Catalogue is the local, read-only fallback song list.
type Catalogue interface {
	Songs(ctx context.Context) ([]domain.Song, error)
}
