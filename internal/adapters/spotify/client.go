// Package spotify implements the remote song provider on top of the Spotify Web API.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
	"github.com/ewilliams-labs/moodtune/internal/core/ports"
)

const (
	DefaultBaseURL  = "https://api.spotify.com/v1"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"

	defaultTimeout = 5 * time.Second
)

// Config holds the Spotify credentials and transport tuning.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	BaseURL  string
	TokenURL string
	Market   string

	Timeout       time.Duration
	MaxRetries    int
	RetryBackoff  time.Duration
	RatePerSecond float64

	// HTTPClient is the base transport; nil uses a client with Timeout.
	HTTPClient *http.Client
}

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	market      string
	enabled     bool
	tokens      oauth2.TokenSource
	maxRetries  int
	baseBackoff time.Duration
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[[]domain.Song]
	logger      *zap.Logger
}

// compile-time interface assertion
var _ ports.SongProvider = (*Client)(nil)

// NewClient constructs a new Spotify client. Missing credentials produce a
// disabled client whose Enabled reports false.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	c := &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		market:      cfg.Market,
		enabled:     cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.RedirectURI != "",
		maxRetries:  cfg.MaxRetries,
		baseBackoff: cfg.RetryBackoff,
		limiter:     rate.NewLimiter(limit, 1),
		logger:      logger.Named("spotify"),
	}

	if c.enabled {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		c.tokens = oauth2.ReuseTokenSource(nil, cc.TokenSource(tokenCtx))
	}

	c.breaker = newBreaker(c.logger)
	return c
}

// Enabled reports whether client id, secret and redirect URI are all set.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Recommend fetches up to limit tracks seeded by the first genres in order.
func (c *Client) Recommend(ctx context.Context, genres []string, limit int) ([]domain.Song, error) {
	if !c.enabled {
		return nil, domain.ErrRemoteDisabled
	}

	seeds := seedGenres(genres)
	if len(seeds) == 0 {
		return nil, fmt.Errorf("spotify adapter: no usable seed genres in %v", genres)
	}

	songs, err := c.breaker.Execute(func() ([]domain.Song, error) {
		return c.recommend(ctx, seeds, limit)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("spotify adapter: circuit open: %w", err)
		}
		return nil, err
	}
	return songs, nil
}

func (c *Client) authorize(req *http.Request) error {
	tok, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("spotify adapter: %w", ports.AuthError{Err: err})
	}
	tok.SetAuthHeader(req)
	return nil
}
