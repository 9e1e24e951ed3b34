package services

import (
	"context"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
)

// --- Mocks ---

// mockProvider is a lightweight mock of the remote song provider.
type mockProvider struct {
	enabled bool
	songs   []domain.Song
	err     error

	calls      int
	gotGenres  []string
	gotLimit   int
	hadTimeout bool
}

func (m *mockProvider) Enabled() bool { return m.enabled }

func (m *mockProvider) Recommend(ctx context.Context, genres []string, limit int) ([]domain.Song, error) {
	m.calls++
	m.gotGenres = genres
	m.gotLimit = limit
	_, m.hadTimeout = ctx.Deadline()
	if m.err != nil {
		return nil, m.err
	}
	return m.songs, nil
}

// mockCatalogue serves a fixed song list.
type mockCatalogue struct {
	songs []domain.Song
	err   error
}

func (m *mockCatalogue) Songs(ctx context.Context) ([]domain.Song, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.songs, nil
}

// mockClassifier returns a fixed prediction.
type mockClassifier struct {
	pred domain.EmotionPrediction
	err  error

	gotText string
}

func (m *mockClassifier) Classify(text string) (domain.EmotionPrediction, error) {
	m.gotText = text
	if m.err != nil {
		return domain.EmotionPrediction{}, m.err
	}
	return m.pred, nil
}

// mockHistory is an in-memory history repository.
type mockHistory struct {
	entries  []domain.HistoryEntry
	err      error
	gotLimit int
}

func (m *mockHistory) Save(ctx context.Context, e domain.HistoryEntry) error {
	m.entries = append(m.entries, e)
	return m.err
}

func (m *mockHistory) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	m.gotLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

// mockSink captures submitted entries.
type mockSink struct {
	full    bool
	entries []domain.HistoryEntry
}

func (m *mockSink) Submit(e domain.HistoryEntry) bool {
	if m.full {
		return false
	}
	m.entries = append(m.entries, e)
	return true
}

func catalogueRows() []domain.Song {
	return []domain.Song{
		{Title: "Walking on Sunshine", Artist: "Katrina", Genre: "joy", URL: "https://open.spotify.com/track/1"},
		{Title: "Happy", Artist: "Pharrell Williams", Genre: "Joy", URL: "https://open.spotify.com/track/2"},
		{Title: "Good as Hell", Artist: "Lizzo", Genre: "JOY", URL: "https://open.spotify.com/track/3"},
		{Title: "Uptown Funk", Artist: "Mark Ronson", Genre: "joy", URL: "https://open.spotify.com/track/4"},
		{Title: "Shake It Off", Artist: "Taylor Swift", Genre: "joy", URL: "https://open.spotify.com/track/5"},
		{Title: "Dancing Queen", Artist: "ABBA", Genre: "joy", URL: "https://open.spotify.com/track/6"},
		{Title: "Killing in the Name", Artist: "Rage Against the Machine", Genre: "anger", URL: "https://open.spotify.com/track/7"},
		{Title: "Break Stuff", Artist: "Limp Bizkit", Genre: "anger", URL: "https://open.spotify.com/track/8"},
		{Title: "Hurt", Artist: "Johnny Cash", Genre: "sadness", URL: "https://open.spotify.com/track/9"},
	}
}
