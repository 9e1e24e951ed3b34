// Package catalogue reads the local fallback song list from a CSV file.
package catalogue

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
	"github.com/ewilliams-labs/moodtune/internal/core/ports"
)

// Store serves the catalogue, optionally caching it for a TTL.
// Concurrent loads of the same file are coalesced.
type Store struct {
	path   string
	cache  *expirable.LRU[string, []domain.Song]
	group  singleflight.Group
	logger *zap.Logger
}

var _ ports.Catalogue = (*Store)(nil)

// NewStore returns a Store reading path. A ttl of zero reads the file on every call.
func NewStore(path string, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{path: path, logger: logger.Named("catalogue")}
	if ttl > 0 {
		s.cache = expirable.NewLRU[string, []domain.Song](1, nil, ttl)
	}
	return s
}

// Songs returns every catalogue row. The returned slice is shared and must
// not be modified.
func (s *Store) Songs(ctx context.Context) ([]domain.Song, error) {
	if s.cache != nil {
		if songs, ok := s.cache.Get(s.path); ok {
			return songs, nil
		}
	}

	ch := s.group.DoChan(s.path, func() (any, error) {
		songs, err := Load(s.path)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Add(s.path, songs)
		}
		s.logger.Debug("catalogue: loaded", zap.String("path", s.path), zap.Int("rows", len(songs)))
		return songs, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("catalogue: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		songs, _ := res.Val.([]domain.Song)
		return songs, nil
	}
}

// Load reads and parses the CSV file at path. Failures wrap
// domain.ErrCatalogueUnavailable.
func Load(path string) ([]domain.Song, error) {
	f, err := os.Open(path) // #nosec G304 -- catalogue path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("catalogue: %w: %w", domain.ErrCatalogueUnavailable, err)
	}
	defer f.Close()

	songs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("catalogue: %s: %w: %w", path, domain.ErrCatalogueUnavailable, err)
	}
	return songs, nil
}

var columnAliases = map[string]string{
	"title":       "title",
	"name":        "title",
	"track":       "title",
	"artist":      "artist",
	"artists":     "artist",
	"genre":       "genre",
	"url":         "url",
	"spotify_url": "url",
	"link":        "url",
}

var requiredColumns = []string{"title", "artist", "genre", "url"}

// Parse reads catalogue rows. A header row is recognised by its column names,
// matched case-insensitively; without one the columns are taken to be
// title, artist, genre, url in that order. Genres are lower-cased and rows
// without a title are skipped.
func Parse(r io.Reader) ([]domain.Song, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []domain.Song{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(first) > 0 {
		first[0] = strings.TrimPrefix(first[0], "\ufeff")
	}

	index, isHeader := headerIndex(first)
	if !isHeader {
		index = map[string]int{"title": 0, "artist": 1, "genre": 2, "url": 3}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var songs []domain.Song
	if !isHeader {
		if s, ok := rowToSong(first, index); ok {
			songs = append(songs, s)
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if s, ok := rowToSong(rec, index); ok {
			songs = append(songs, s)
		}
	}
	if songs == nil {
		songs = []domain.Song{}
	}
	return songs, nil
}

func headerIndex(rec []string) (map[string]int, bool) {
	index := make(map[string]int, len(rec))
	for i, h := range rec {
		col, ok := columnAliases[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, seen := index[col]; !seen {
			index[col] = i
		}
	}
	_, hasTitle := index["title"]
	_, hasArtist := index["artist"]
	return index, hasTitle && hasArtist
}

func rowToSong(rec []string, index map[string]int) (domain.Song, bool) {
	field := func(col string) string {
		i := index[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	s := domain.Song{
		Title:  field("title"),
		Artist: field("artist"),
		Genre:  strings.ToLower(field("genre")),
		URL:    field("url"),
	}
	return s, s.Title != ""
}
