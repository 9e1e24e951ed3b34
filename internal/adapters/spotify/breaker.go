package spotify

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
	"github.com/ewilliams-labs/moodtune/internal/metrics"
)

const breakerName = "spotify-api"

// newBreaker opens after 5 consecutive failures, or a 60% failure rate over at
// least 10 requests, and lets a trial request through after 30 seconds.
func newBreaker(logger *zap.Logger) *gobreaker.CircuitBreaker[[]domain.Song] {
	metrics.SpotifyBreakerState.Set(float64(gobreaker.StateClosed))

	return gobreaker.NewCircuitBreaker[[]domain.Song](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= 5 {
				return true
			}
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		// Empty results and caller cancellation do not count as failures.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrNoTracks) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("spotify adapter: circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.SpotifyBreakerState.Set(float64(to))
		},
	})
}
