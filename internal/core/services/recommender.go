package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
	"github.com/ewilliams-labs/moodtune/internal/core/ports"
	"github.com/ewilliams-labs/moodtune/internal/metrics"
)

// Fallback reasons reported in Resolution.Reason.
const (
	ReasonUnknownEmotion = "unknown_emotion"
	ReasonRemoteDisabled = "remote_disabled"
	ReasonAuthFailed     = "auth_failed"
	ReasonRemoteError    = "remote_error"
	ReasonRemoteEmpty    = "remote_empty"
)

const (
	defaultRecommendLimit = 5
	defaultRemoteTimeout  = 5 * time.Second
)

// Resolution is the outcome of a recommendation request. Source tells which
// branch produced Songs; Reason explains a fallback and is empty for remote results.
type Resolution struct {
	Source domain.Source
	Songs  []domain.Song
	Reason string
}

// RecommenderOptions tunes a Recommender. Zero values pick the defaults.
type RecommenderOptions struct {
	DefaultLimit  int
	RemoteTimeout time.Duration
	// Shuffle permutes n elements; defaults to math/rand/v2.
	Shuffle func(n int, swap func(i, j int))
}

// Recommender resolves an emotion into songs, degrading from the remote
// provider to the local catalogue. It never returns an error.
type Recommender struct {
	genres       domain.GenreMap
	provider     ports.SongProvider
	catalogue    ports.Catalogue
	logger       *zap.Logger
	defaultLimit int
	timeout      time.Duration
	shuffle      func(n int, swap func(i, j int))
}

// NewRecommender builds a Recommender. provider may be nil, which disables the remote path.
func NewRecommender(genres domain.GenreMap, provider ports.SongProvider, catalogue ports.Catalogue, logger *zap.Logger, opts RecommenderOptions) *Recommender {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaultRecommendLimit
	}
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = defaultRemoteTimeout
	}
	if opts.Shuffle == nil {
		opts.Shuffle = rand.Shuffle
	}
	return &Recommender{
		genres:       genres,
		provider:     provider,
		catalogue:    catalogue,
		logger:       logger,
		defaultLimit: opts.DefaultLimit,
		timeout:      opts.RemoteTimeout,
		shuffle:      opts.Shuffle,
	}
}

// Genres returns the emotion to genre map in use.
func (r *Recommender) Genres() domain.GenreMap {
	return r.genres
}

// Recommend returns at most limit songs for emotion. A limit <= 0 uses the default.
func (r *Recommender) Recommend(ctx context.Context, emotion string, limit int) Resolution {
	if limit <= 0 {
		limit = r.defaultLimit
	}

	res := r.resolve(ctx, emotion, limit)
	reason := res.Reason
	if reason == "" {
		reason = "none"
	}
	metrics.RecommendationsTotal.WithLabelValues(string(res.Source), reason).Inc()
	return res
}

func (r *Recommender) resolve(ctx context.Context, emotion string, limit int) Resolution {
	genres, ok := r.genres.Lookup(emotion)
	if !ok {
		return r.fallback(ctx, emotion, limit, ReasonUnknownEmotion, fmt.Errorf("%w: %q", domain.ErrUnknownEmotion, emotion))
	}

	if r.provider == nil || !r.provider.Enabled() {
		return r.fallback(ctx, emotion, limit, ReasonRemoteDisabled, nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	songs, err := r.provider.Recommend(callCtx, genres, limit)
	switch {
	case errors.Is(err, ports.ErrAuthFailed):
		return r.fallback(ctx, emotion, limit, ReasonAuthFailed, err)
	case errors.Is(err, domain.ErrNoTracks):
		return r.fallback(ctx, emotion, limit, ReasonRemoteEmpty, err)
	case errors.Is(err, domain.ErrRemoteDisabled):
		return r.fallback(ctx, emotion, limit, ReasonRemoteDisabled, err)
	case err != nil:
		return r.fallback(ctx, emotion, limit, ReasonRemoteError, err)
	case len(songs) == 0:
		return r.fallback(ctx, emotion, limit, ReasonRemoteEmpty, nil)
	}

	if len(songs) > limit {
		songs = songs[:limit]
	}
	return Resolution{Source: domain.SourceRemote, Songs: songs}
}

// fallback samples the catalogue. Rows whose genre equals emotion are
// preferred; without any, the whole catalogue is sampled.
func (r *Recommender) fallback(ctx context.Context, emotion string, limit int, reason string, cause error) Resolution {
	log := r.logger.With(zap.String("emotion", emotion), zap.String("reason", reason))
	if cause != nil {
		log = log.With(zap.Error(cause))
	}
	log.Warn("recommender: using fallback catalogue")

	res := Resolution{Source: domain.SourceFallback, Songs: []domain.Song{}, Reason: reason}
	if r.catalogue == nil {
		log.Warn("recommender: no catalogue configured")
		return res
	}

	all, err := r.catalogue.Songs(ctx)
	if err != nil {
		log.Warn("recommender: catalogue unavailable", zap.NamedError("catalogue_error", err))
		return res
	}

	pool := make([]domain.Song, 0, len(all))
	for _, s := range all {
		if strings.EqualFold(strings.TrimSpace(s.Genre), strings.TrimSpace(emotion)) {
			pool = append(pool, s)
		}
	}
	if len(pool) == 0 {
		pool = append(pool, all...)
	}

	res.Songs = r.sample(pool, limit)
	return res
}

// sample picks min(limit, len(pool)) songs uniformly without replacement.
// pool is reordered.
func (r *Recommender) sample(pool []domain.Song, limit int) []domain.Song {
	r.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > limit {
		pool = pool[:limit]
	}
	return pool
}
