// Package app wires configuration into a running moodtune instance.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/thejerf/suture/v4"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/moodtune/internal/adapters/catalogue"
	"github.com/ewilliams-labs/moodtune/internal/adapters/rest"
	"github.com/ewilliams-labs/moodtune/internal/adapters/spotify"
	"github.com/ewilliams-labs/moodtune/internal/adapters/sqlite"
	"github.com/ewilliams-labs/moodtune/internal/classifier"
	"github.com/ewilliams-labs/moodtune/internal/config"
	"github.com/ewilliams-labs/moodtune/internal/core/domain"
	"github.com/ewilliams-labs/moodtune/internal/core/ports"
	"github.com/ewilliams-labs/moodtune/internal/core/services"
	"github.com/ewilliams-labs/moodtune/internal/worker"
)

// App holds the wired components for one process.
type App struct {
	Config       *config.Config
	Orchestrator *services.Orchestrator
	Spotify      *spotify.Client

	pool    *worker.Pool
	history *sqlite.Adapter
	logger  *zap.Logger
}

// New loads the frozen artifacts and builds every adapter. Artifact failures
// match classifier.ErrModelUnavailable.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	artifacts, err := classifier.Load(ArtifactPaths(cfg.Artifacts))
	if err != nil {
		return nil, err
	}
	clf, err := classifier.New(artifacts)
	if err != nil {
		return nil, err
	}
	logger.Info("app: artifacts loaded",
		zap.String("dir", cfg.Artifacts.Dir),
		zap.Strings("classes", clf.Classes()),
		zap.Int("features", artifacts.Model.NumFeatures()),
	)
	for _, category := range artifacts.MissingEmojiColumns() {
		logger.Warn("app: emoji category has no schema column and is ignored",
			zap.String("category", category))
	}

	genres := domain.DefaultGenreMap()
	if cfg.Genres.File != "" {
		genres, err = domain.LoadGenreMapFile(cfg.Genres.File)
		if err != nil {
			return nil, fmt.Errorf("app: load genre map: %w", err)
		}
	}

	sp := spotify.NewClient(spotify.Config{
		ClientID:      cfg.Spotify.ClientID,
		ClientSecret:  cfg.Spotify.ClientSecret,
		RedirectURI:   cfg.Spotify.RedirectURI,
		BaseURL:       cfg.Spotify.BaseURL,
		TokenURL:      cfg.Spotify.TokenURL,
		Market:        cfg.Spotify.Market,
		Timeout:       cfg.Spotify.Timeout,
		MaxRetries:    cfg.Spotify.MaxRetries,
		RetryBackoff:  cfg.Spotify.RetryBackoff,
		RatePerSecond: cfg.Spotify.RatePerSecond,
	}, logger)
	if !sp.Enabled() {
		logger.Warn("app: spotify credentials missing, remote recommendations disabled")
	}

	var cat ports.Catalogue
	if cfg.Catalogue.Path != "" {
		cat = catalogue.NewStore(cfg.Catalogue.Path, cfg.Catalogue.CacheTTL, logger)
	}

	rec := services.NewRecommender(genres, sp, cat, logger, services.RecommenderOptions{
		DefaultLimit:  cfg.Recommend.DefaultLimit,
		RemoteTimeout: cfg.Spotify.Timeout,
	})

	a := &App{Config: cfg, Spotify: sp, logger: logger}

	var (
		repo ports.HistoryRepository
		sink ports.HistorySink
	)
	if cfg.History.Path != "" {
		a.history, err = sqlite.NewAdapter(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("app: open history: %w", err)
		}
		a.pool = worker.NewPool(a.history, cfg.History.Workers, cfg.History.QueueSize, logger)
		repo, sink = a.history, a.pool
	}

	a.Orchestrator = services.NewOrchestrator(clf, rec, repo, sink, logger)
	return a, nil
}

// ArtifactPaths resolves the configured artifact locations.
func ArtifactPaths(c config.ArtifactsConfig) classifier.Paths {
	p := classifier.DefaultPaths(c.Dir)
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&p.Model, c.Model)
	override(&p.Vectorizer, c.Vectorizer)
	override(&p.Columns, c.Columns)
	override(&p.Classes, c.Classes)
	override(&p.Emoji, c.Emoji)
	override(&p.Keywords, c.Keywords)
	return p
}

// Handler builds the HTTP handler for the configured service.
func (a *App) Handler() http.Handler {
	return rest.NewHandler(a.Orchestrator, a.logger, rest.Options{
		CORSOrigins:       a.Config.HTTP.CORSOrigins,
		RateLimitRequests: a.Config.HTTP.RateLimitRequests,
		RateLimitWindow:   a.Config.HTTP.RateLimitWindow,
		DefaultLimit:      a.Config.Recommend.DefaultLimit,
		MaxLimit:          a.Config.Recommend.MaxLimit,
	})
}

// Serve runs the HTTP server and the history worker under a supervisor until
// ctx is canceled. The listen address is bound before the supervisor starts,
// so a port that cannot be bound fails Serve instead of being retried.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(a.Config.HTTP.Port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       a.Config.HTTP.ReadTimeout,
		WriteTimeout:      a.Config.HTTP.WriteTimeout,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("app: listen %s: %w", srv.Addr, err)
	}

	sup := suture.New("moodtune", suture.Spec{
		EventHook: func(e suture.Event) {
			a.logger.Warn("app: supervisor event", zap.String("event", e.String()))
		},
		Timeout: a.Config.HTTP.ShutdownTimeout + 5*time.Second,
	})
	sup.Add(NewHTTPService(srv, ln, a.Config.HTTP.ShutdownTimeout, a.logger))
	if a.pool != nil {
		sup.Add(a.pool)
	}

	a.logger.Info("app: listening", zap.String("addr", ln.Addr().String()))
	err = sup.Serve(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Close releases the history database.
func (a *App) Close() error {
	if a.history == nil {
		return nil
	}
	return a.history.Close()
}
