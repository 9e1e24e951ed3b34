package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
)

// ErrAuthFailed indicates the remote provider rejected the configured credentials.
var ErrAuthFailed = errors.New("auth failed")

// AuthError carries the provider response behind a failed authentication.
type AuthError struct {
	Err error
}

func (e AuthError) Error() string {
	if e.Err == nil {
		return ErrAuthFailed.Error()
	}
	return fmt.Sprintf("auth failed: %v", e.Err)
}

func (e AuthError) Unwrap() error { return e.Err }

func (e AuthError) Is(target error) bool {
	return target == ErrAuthFailed
}

// SongProvider fetches genre-seeded recommendations from a remote service.
type SongProvider interface {
	// Enabled reports whether the provider has the credentials it needs.
	Enabled() bool
	// Recommend returns up to limit songs seeded by genres. Authentication
	// failures match ErrAuthFailed.
	Recommend(ctx context.Context, genres []string, limit int) ([]domain.Song, error)
}
