package domain

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultGenreMap(t *testing.T) {
	m := DefaultGenreMap()

	want := []string{EmotionJoy, EmotionSadness, EmotionAnger, EmotionFear, EmotionLove, EmotionSurprise}
	got := m.Emotions()
	if len(got) != len(want) {
		t.Fatalf("emotions: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("emotion %d: got %q, want %q", i, got[i], want[i])
		}
		genres, ok := m.Lookup(want[i])
		if !ok || len(genres) != 8 {
			t.Errorf("%s: got %d genres, want 8", want[i], len(genres))
		}
	}
}

func TestGenreMapLookup(t *testing.T) {
	m := DefaultGenreMap()

	tests := []struct {
		name    string
		emotion string
		wantOK  bool
		first   string
	}{
		{name: "exact", emotion: "joy", wantOK: true, first: "electropop"},
		{name: "case insensitive", emotion: "  SaDnEsS ", wantOK: true, first: "indie folk"},
		{name: "unknown", emotion: "nonexistent_emotion"},
		{name: "empty", emotion: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			genres, ok := m.Lookup(tt.emotion)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if ok && genres[0] != tt.first {
				t.Errorf("first genre: got %q, want %q", genres[0], tt.first)
			}
		})
	}
}

func TestGenreMapIsImmutable(t *testing.T) {
	m := DefaultGenreMap()
	genres, _ := m.Lookup("joy")
	genres[0] = "polka"

	again, _ := m.Lookup("joy")
	if again[0] != "electropop" {
		t.Fatalf("lookup leaked internal slice: %q", again[0])
	}
}

func TestNewGenreMapValidation(t *testing.T) {
	tests := []struct {
		name    string
		entries []EmotionGenres
	}{
		{name: "empty emotion", entries: []EmotionGenres{{Emotion: " ", Genres: []string{"a"}}}},
		{name: "duplicate", entries: []EmotionGenres{{Emotion: "joy", Genres: []string{"a"}}, {Emotion: "JOY", Genres: []string{"b"}}}},
		{name: "no genres", entries: []EmotionGenres{{Emotion: "joy"}}},
		{name: "too many genres", entries: []EmotionGenres{{Emotion: "joy", Genres: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGenreMap(tt.entries); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadGenreMapFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genres.yaml")
	body := "sadness:\n  - blues\n  - slowcore\njoy: [funk]\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, err := LoadGenreMapFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := m.Emotions(); len(got) != 2 || got[0] != "sadness" || got[1] != "joy" {
		t.Fatalf("order: got %v", got)
	}
	if g, _ := m.Lookup("sadness"); len(g) != 2 || g[1] != "slowcore" {
		t.Errorf("sadness genres: got %v", g)
	}

	if err := os.WriteFile(path, []byte("- just\n- a list\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadGenreMapFile(path); err == nil {
		t.Error("expected error for non-mapping document")
	}

	if _, err := LoadGenreMapFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEmotionPredictionFormatted(t *testing.T) {
	p := EmotionPrediction{
		Label:      "joy",
		Confidence: 87.456,
		Scores:     map[string]float64{"joy": 87.456, "sadness": 12.5, "anger": 0.044},
	}

	f := p.Formatted()
	if f.Confidence != "87.46" {
		t.Errorf("confidence: got %q", f.Confidence)
	}
	if f.Scores["sadness"] != "12.50" || f.Scores["anger"] != "0.04" {
		t.Errorf("scores: got %v", f.Scores)
	}
	if p.Confidence != 87.456 {
		t.Error("Formatted must not mutate the prediction")
	}

	labels := p.Labels()
	if labels[0] != "joy" || labels[2] != "anger" {
		t.Errorf("labels: got %v", labels)
	}
	if RoundPercent(87.456) != 87.46 {
		t.Errorf("round: got %v", RoundPercent(87.456))
	}
}
