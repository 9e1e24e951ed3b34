// Package rest exposes the classifier and recommender over HTTP.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
	"github.com/ewilliams-labs/moodtune/internal/core/services"
	"github.com/ewilliams-labs/moodtune/internal/metrics"
)

// Service is the part of the orchestrator the HTTP layer depends on.
type Service interface {
	Analyze(ctx context.Context, text string, limit int) (domain.Analysis, error)
	Recommend(ctx context.Context, emotion string, limit int) services.Resolution
	Genres() domain.GenreMap
	History(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}

// Options configures the HTTP handler. Zero values pick the defaults.
type Options struct {
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	DefaultLimit      int
	MaxLimit          int
}

const (
	defaultSongLimit = 5
	maxSongLimit     = 50
	maxBodyBytes     = 64 << 10
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc      Service
	router   chi.Router
	logger   *zap.Logger
	validate *validator.Validate
	opts     Options
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc Service, logger *zap.Logger, opts Options) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaultSongLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = maxSongLimit
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	h := &Handler{
		svc:      svc,
		router:   chi.NewRouter(),
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		opts:     opts,
	}
	h.routes()
	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	r := h.router
	r.Use(jsonRecoverer(h.logger))
	r.Use(requestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(accessLog(h.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))
	if h.opts.RateLimitRequests > 0 && h.opts.RateLimitWindow > 0 {
		r.Use(httprate.Limit(
			h.opts.RateLimitRequests,
			h.opts.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusTooManyRequests, "too many requests")
			}),
		))
	}
	r.Use(metrics.Middleware())

	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/predict", h.Predict)
	r.Get("/recommendations/{emotion}", h.Recommendations)
	r.Get("/genres", h.Genres)
	r.Get("/history", h.History)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
