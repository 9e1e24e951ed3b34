package classifier

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/moodtune/internal/features"
	"github.com/ewilliams-labs/moodtune/internal/lexicon"
)

// stubModel favours joy when the joy keyword column fires and sadness otherwise.
type stubModel struct {
	features int
	classes  int
	joyCol   int
	err      error
	raw      []float64
}

func (m *stubModel) NumFeatures() int { return m.features }
func (m *stubModel) NumClasses() int  { return m.classes }

func (m *stubModel) Predict(row features.Row) ([]float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.raw != nil {
		return m.raw, nil
	}
	if row.Dense()[m.joyCol] > 0 {
		return []float64{0.7, 0.2, 0.1}, nil
	}
	return []float64{0.2, 0.5, 0.3}, nil
}

func testArtifacts(t *testing.T) (*Artifacts, *stubModel) {
	t.Helper()
	vec, err := features.NewVectorizer(features.VectorizerExport{
		Vocabulary: map[string]int{"happi": 0, "sad": 1, "angri": 2},
		IDF:        []float64{1, 1, 1},
	})
	require.NoError(t, err)
	schema, err := features.NewSchema([]string{
		"keyword_joy_count", "keyword_sadness_count", "emoji_joy", "emoji_unknown",
	})
	require.NoError(t, err)

	model := &stubModel{features: 3 + 4, classes: 3, joyCol: 3}
	return &Artifacts{
		Lexicon: &lexicon.Resources{
			Stopwords: lexicon.EnglishStopwords(),
			Stemmer:   lexicon.PorterStemmer{},
			Emoji:     lexicon.EmojiTable{{Emoji: "😊", Emotion: "joy"}},
			Keywords: lexicon.KeywordTable{
				{Emotion: "joy", Keywords: []string{"happy"}},
				{Emotion: "sadness", Keywords: []string{"sad"}},
			},
		},
		Vectorizer: vec,
		Schema:     schema,
		Classes:    []string{"joy", "sadness", "anger"},
		Model:      model,
	}, model
}

func TestClassify(t *testing.T) {
	a, _ := testArtifacts(t)
	c, err := New(a)
	require.NoError(t, err)

	tests := []struct {
		name      string
		text      string
		wantLabel string
	}{
		{"keyword drives label", "I am so happy today", "joy"},
		{"empty text", "", "sadness"},
		{"no letters", "1234 !!! ...", "sadness"},
		{"short eed forms", "eed eeds feed", "sadness"},
		{"eed form next to keyword", "agreed, eed, happy", "joy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := c.Classify(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, pred.Label)
			assert.Contains(t, c.Classes(), pred.Label)

			var sum float64
			for _, v := range pred.Scores {
				sum += v
			}
			assert.InDelta(t, 100, sum, 0.01)
			assert.Equal(t, pred.Scores[pred.Label], pred.Confidence)
		})
	}
}

func TestClassifyKeepsUnroundedScores(t *testing.T) {
	a, m := testArtifacts(t)
	m.raw = []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}
	c, err := New(a)
	require.NoError(t, err)

	pred, err := c.Classify("anything")
	require.NoError(t, err)
	assert.Equal(t, "joy", pred.Label, "ties go to the first class")
	assert.InDelta(t, 100.0/3, pred.Confidence, 1e-9)
	assert.Equal(t, "33.33", pred.Formatted().Confidence)
}

func TestClassifyRejectsBadModelOutput(t *testing.T) {
	tests := []struct {
		name string
		raw  []float64
		err  error
	}{
		{name: "wrong length", raw: []float64{1, 0}},
		{name: "nan", raw: []float64{math.NaN(), 0.5, 0.5}},
		{name: "negative", raw: []float64{-0.1, 0.6, 0.5}},
		{name: "all zero", raw: []float64{0, 0, 0}},
		{name: "model error", err: errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, m := testArtifacts(t)
			m.raw, m.err = tt.raw, tt.err
			c, err := New(a)
			require.NoError(t, err)

			_, err = c.Classify("text")
			assert.Error(t, err)
		})
	}
}

func TestValidateDetectsSchemaDrift(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Artifacts, *stubModel)
	}{
		{"feature count", func(_ *Artifacts, m *stubModel) { m.features = 99 }},
		{"class count", func(_ *Artifacts, m *stubModel) { m.classes = 6 }},
		{"no classes", func(a *Artifacts, _ *stubModel) { a.Classes = nil }},
		{"missing model", func(a *Artifacts, _ *stubModel) { a.Model = nil }},
		{"keyword emotion without column", func(a *Artifacts, _ *stubModel) {
			a.Lexicon.Keywords[0].Emotion = "Joy"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, m := testArtifacts(t)
			tt.mutate(a, m)
			_, err := New(a)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrModelUnavailable))
		})
	}
}

func TestMissingEmojiColumns(t *testing.T) {
	a, _ := testArtifacts(t)
	assert.Empty(t, a.MissingEmojiColumns())

	a.Lexicon.Emoji = append(a.Lexicon.Emoji, lexicon.EmojiEntry{Emoji: "😢", Emotion: "Sadness"})
	assert.Equal(t, []string{"Sadness"}, a.MissingEmojiColumns())
}

func TestLoadMissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}

	_, err := Load(DefaultPaths(dir))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelUnavailable))
	var ae *ArtifactError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "lexicon", ae.Artifact)

	write("emoji.json", `{"😊": "joy"}`)
	write("text.json", `{"joy": ["happy"]}`)
	write("vectorizer.json", `{"vocabulary": {"happi": 0}, "idf": [1.0]}`)
	write("model_columns.json", `["keyword_joy_count", "emoji_joy", "emoji_unknown"]`)
	write("model_classes.json", `["joy", "sadness"]`)

	_, err = Load(DefaultPaths(dir))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelUnavailable))
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "model", ae.Artifact)

	write("model_classes.json", `["joy", "joy"]`)
	_, err = Load(DefaultPaths(dir))
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "classes", ae.Artifact)
}
