package spotify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
	"github.com/ewilliams-labs/moodtune/internal/core/ports"
)

const maxRecommendationLimit = 100

func (c *Client) recommend(ctx context.Context, seeds []string, limit int) ([]domain.Song, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxRecommendationLimit {
		limit = maxRecommendationLimit
	}

	recURL, err := url.Parse(c.baseURL + "/recommendations")
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid recommendations url: %w", err)
	}
	query := recURL.Query()
	query.Set("seed_genres", strings.Join(seeds, ","))
	query.Set("limit", strconv.Itoa(limit))
	if c.market != "" {
		query.Set("market", c.market)
	}
	recURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, recURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: failed to create recommendations request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if err := c.authorize(req); err != nil {
		return nil, err
	}

	c.logger.Debug("spotify adapter: recommendations request", zap.Strings("seeds", seeds), zap.Int("limit", limit))

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: recommendations request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("spotify adapter: %w", ports.AuthError{Err: statusError(resp)})
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("spotify adapter: recommendations: %w", statusError(resp))
	}

	var body recommendationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("spotify adapter: recommendations decode error: %w", err)
	}
	if len(body.Tracks) == 0 {
		return nil, fmt.Errorf("spotify adapter: seeds %v: %w", seeds, domain.ErrNoTracks)
	}

	songs := mapTracksToDomain(body.Tracks)
	if len(songs) > limit {
		songs = songs[:limit]
	}
	return songs, nil
}

// statusError describes a non-200 response, using the API error message when present.
func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var env errorResponse
	if err := json.Unmarshal(data, &env); err == nil && env.Error.Message != "" {
		return fmt.Errorf("status %d: %s", resp.StatusCode, env.Error.Message)
	}
	return fmt.Errorf("status %d", resp.StatusCode)
}
