package domain

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// GenreMap maps emotion labels to an ordered list of seed genres.
// A GenreMap is immutable once built; accessors return copies.
type GenreMap struct {
	order  []string
	genres map[string][]string
}

// MaxGenresPerEmotion bounds the genre list of a single emotion.
const MaxGenresPerEmotion = 8

// DefaultGenreMap returns the reference emotion to genre catalogue.
func DefaultGenreMap() GenreMap {
	m, _ := NewGenreMap([]EmotionGenres{
		{Emotion: EmotionJoy, Genres: []string{
			"electropop", "tropical house", "indie pop", "funk", "bubblegum pop",
			"dance-pop", "soul", "disco",
		}},
		{Emotion: EmotionSadness, Genres: []string{
			"indie folk", "soft piano", "ambient acoustic", "slowcore", "melancholic lo-fi",
			"singer-songwriter", "post-rock", "blues",
		}},
		{Emotion: EmotionAnger, Genres: []string{
			"hardcore punk", "nu metal", "industrial rock", "thrash metal", "grunge",
			"metalcore", "hard rock", "trap-metal",
		}},
		{Emotion: EmotionFear, Genres: []string{
			"dark ambient", "drone", "experimental electronic", "minimal classical", "soundscape",
			"darksynth", "industrial", "noise",
		}},
		{Emotion: EmotionLove, Genres: []string{
			"neo-soul", "r-n-b", "soft rock", "jazz pop", "dream pop",
			"quiet storm", "alternative-rnb", "bossa-nova",
		}},
		{Emotion: EmotionSurprise, Genres: []string{
			"glitch", "hyperpop", "experimental indie", "psychedelic electronic", "avant-garde",
			"breakcore", "free-jazz", "math-rock",
		}},
	})
	return m
}

// EmotionGenres is one entry of a GenreMap.
type EmotionGenres struct {
	Emotion string   `json:"emotion" yaml:"emotion"`
	Genres  []string `json:"genres" yaml:"genres"`
}

// NewGenreMap builds a GenreMap, keeping the given emotion order.
// Emotion keys are stored lower-cased.
func NewGenreMap(entries []EmotionGenres) (GenreMap, error) {
	m := GenreMap{
		order:  make([]string, 0, len(entries)),
		genres: make(map[string][]string, len(entries)),
	}
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Emotion))
		if key == "" {
			return GenreMap{}, fmt.Errorf("domain: genre map: empty emotion")
		}
		if _, dup := m.genres[key]; dup {
			return GenreMap{}, fmt.Errorf("domain: genre map: duplicate emotion %q", key)
		}
		if len(e.Genres) == 0 || len(e.Genres) > MaxGenresPerEmotion {
			return GenreMap{}, fmt.Errorf("domain: genre map: emotion %q needs 1..%d genres, got %d",
				key, MaxGenresPerEmotion, len(e.Genres))
		}
		m.order = append(m.order, key)
		m.genres[key] = append([]string(nil), e.Genres...)
	}
	return m, nil
}

// Lookup returns the genres for emotion, matched case-insensitively.
func (m GenreMap) Lookup(emotion string) ([]string, bool) {
	g, ok := m.genres[strings.ToLower(strings.TrimSpace(emotion))]
	if !ok {
		return nil, false
	}
	return append([]string(nil), g...), true
}

// Emotions returns the mapped emotions in declaration order.
func (m GenreMap) Emotions() []string {
	return append([]string(nil), m.order...)
}

// Entries returns the map as an ordered slice.
func (m GenreMap) Entries() []EmotionGenres {
	out := make([]EmotionGenres, 0, len(m.order))
	for _, e := range m.order {
		out = append(out, EmotionGenres{Emotion: e, Genres: append([]string(nil), m.genres[e]...)})
	}
	return out
}

// LoadGenreMapFile reads a YAML mapping of emotion to genre list.
// Key order in the file is preserved.
//
//	joy: [electropop, funk]
//	sadness: [blues]
func LoadGenreMapFile(path string) (GenreMap, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator config
	if err != nil {
		return GenreMap{}, fmt.Errorf("domain: read genre file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return GenreMap{}, fmt.Errorf("domain: parse genre file: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return GenreMap{}, fmt.Errorf("domain: genre file must be a mapping")
	}

	root := doc.Content[0]
	entries := make([]EmotionGenres, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		var genres []string
		if err := root.Content[i+1].Decode(&genres); err != nil {
			return GenreMap{}, fmt.Errorf("domain: genre file: emotion %q: %w", root.Content[i].Value, err)
		}
		entries = append(entries, EmotionGenres{Emotion: root.Content[i].Value, Genres: genres})
	}
	return NewGenreMap(entries)
}
