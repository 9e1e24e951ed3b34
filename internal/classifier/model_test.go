package classifier

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/moodtune/internal/features"
)

const multiclassModel = "testdata/multiclass_v3.txt"

func denseRow(vals ...float64) features.Row {
	return features.Concat(features.SparseVector{}, 0, vals)
}

func TestLoadLightGBM(t *testing.T) {
	m, err := LoadLightGBM(multiclassModel)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumFeatures())
	assert.Equal(t, 3, m.NumClasses())

	tests := []struct {
		name string
		row  []float64
		want int
	}{
		{"keyword hit", []float64{1, 1}, 0},
		{"no signal", []float64{0, 0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probs, err := m.Predict(denseRow(tt.row...))
			require.NoError(t, err)
			require.Len(t, probs, 3)

			var sum float64
			best := 0
			for i, p := range probs {
				assert.True(t, p > 0 && p < 1)
				sum += p
				if p > probs[best] {
					best = i
				}
			}
			assert.InDelta(t, 1, sum, 1e-9)
			assert.Equal(t, tt.want, best)
		})
	}
}

func TestLightGBMRejectsWrongWidth(t *testing.T) {
	m, err := LoadLightGBM(multiclassModel)
	require.NoError(t, err)
	_, err = m.Predict(denseRow(1, 1, 1))
	assert.Error(t, err)
}

func TestParseLightGBMAcceptsV4Header(t *testing.T) {
	data, err := os.ReadFile(multiclassModel)
	require.NoError(t, err)
	v4 := bytes.Replace(data, []byte("version=v3"), []byte("version=v4"), 1)

	m, err := ParseLightGBM(v4)
	require.NoError(t, err)
	assert.Equal(t, 3, m.NumClasses())
	assert.Contains(t, string(v4), "version=v4", "input must not be modified")
}

func TestParseLightGBMRejectsUnknownVersion(t *testing.T) {
	data, err := os.ReadFile(multiclassModel)
	require.NoError(t, err)
	_, err = ParseLightGBM(bytes.Replace(data, []byte("version=v3"), []byte("version=v1"), 1))
	assert.Error(t, err)
}

func TestLoadArtifactsWithLightGBMModel(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	model, err := os.ReadFile(multiclassModel)
	require.NoError(t, err)
	write("model.txt", string(model))
	write("emoji.json", `{"😊": "joy"}`)
	write("text.json", `{"joy": ["happy"]}`)
	write("vectorizer.json", `{"vocabulary": {"happi": 0}, "idf": [1.0]}`)
	write("model_columns.json", `["keyword_joy_count"]`)
	write("model_classes.json", `["joy", "sadness", "anger"]`)

	a, err := Load(DefaultPaths(dir))
	require.NoError(t, err)
	assert.Equal(t, []string{"joy", "unknown"}, a.MissingEmojiColumns())

	c, err := New(a)
	require.NoError(t, err)
	pred, err := c.Classify("so happy")
	require.NoError(t, err)
	assert.Equal(t, "joy", pred.Label)

	pred, err = c.Classify("")
	require.NoError(t, err)
	assert.Equal(t, "sadness", pred.Label)
}
