// Package classifier scores texts with the frozen emotion model.
package classifier

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/moodtune/internal/features"
	"github.com/ewilliams-labs/moodtune/internal/lexicon"
)

// ErrModelUnavailable is returned when the frozen artifacts cannot be loaded
// or do not fit together. The process must not serve predictions after it.
var ErrModelUnavailable = errors.New("classifier: model unavailable")

// ArtifactError names the artifact that failed to load.
type ArtifactError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *ArtifactError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("classifier: %s: %v", e.Artifact, e.Err)
	}
	return fmt.Sprintf("classifier: %s (%s): %v", e.Artifact, e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }

func (e *ArtifactError) Is(target error) bool {
	return target == ErrModelUnavailable
}

// Paths locates every frozen artifact on disk.
type Paths struct {
	Model      string
	Vectorizer string
	Columns    string
	Classes    string
	Emoji      string
	Keywords   string
}

// DefaultPaths returns the conventional file names inside dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Model:      filepath.Join(dir, "model.txt"),
		Vectorizer: filepath.Join(dir, "vectorizer.json"),
		Columns:    filepath.Join(dir, "model_columns.json"),
		Classes:    filepath.Join(dir, "model_classes.json"),
		Emoji:      filepath.Join(dir, "emoji.json"),
		Keywords:   filepath.Join(dir, "text.json"),
	}
}

// Artifacts is the immutable bundle every prediction reads from.
type Artifacts struct {
	Lexicon    *lexicon.Resources
	Vectorizer *features.Vectorizer
	Schema     features.Schema
	Classes    []string
	Model      Model
}

// Load reads and cross-checks every artifact. Any failure is an *ArtifactError
// matching ErrModelUnavailable.
func Load(p Paths) (*Artifacts, error) {
	lex, err := lexicon.Load(p.Emoji, p.Keywords)
	if err != nil {
		return nil, &ArtifactError{Artifact: "lexicon", Path: p.Emoji + ", " + p.Keywords, Err: err}
	}

	vec, err := features.LoadVectorizer(p.Vectorizer)
	if err != nil {
		return nil, &ArtifactError{Artifact: "vectorizer", Path: p.Vectorizer, Err: err}
	}

	schema, err := features.LoadSchema(p.Columns)
	if err != nil {
		return nil, &ArtifactError{Artifact: "schema", Path: p.Columns, Err: err}
	}

	classes, err := loadClasses(p.Classes)
	if err != nil {
		return nil, &ArtifactError{Artifact: "classes", Path: p.Classes, Err: err}
	}

	model, err := LoadLightGBM(p.Model)
	if err != nil {
		return nil, &ArtifactError{Artifact: "model", Path: p.Model, Err: err}
	}

	a := &Artifacts{
		Lexicon:    lex,
		Vectorizer: vec,
		Schema:     schema,
		Classes:    classes,
		Model:      model,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks that the model input width and output count match the
// vectorizer, schema and class list, and that every keyword emotion has its
// column in the schema.
func (a *Artifacts) Validate() error {
	switch {
	case a == nil:
		return &ArtifactError{Artifact: "bundle", Err: errors.New("nil artifacts")}
	case a.Lexicon == nil || a.Vectorizer == nil || a.Model == nil:
		return &ArtifactError{Artifact: "bundle", Err: errors.New("incomplete artifacts")}
	case len(a.Classes) == 0:
		return &ArtifactError{Artifact: "classes", Err: errors.New("no classes")}
	}

	for _, emotion := range a.Lexicon.Keywords.Emotions() {
		if col := features.KeywordColumn(emotion); !a.Schema.Has(col) {
			return &ArtifactError{Artifact: "schema", Err: fmt.Errorf(
				"schema drift: keyword column %q missing for emotion %q", col, emotion)}
		}
	}

	want := a.Vectorizer.Size() + a.Schema.Len()
	if got := a.Model.NumFeatures(); got != want {
		return &ArtifactError{Artifact: "model", Err: fmt.Errorf(
			"schema drift: model expects %d features, vectorizer and schema give %d", got, want)}
	}
	if got := a.Model.NumClasses(); got != len(a.Classes) {
		return &ArtifactError{Artifact: "model", Err: fmt.Errorf(
			"schema drift: model has %d outputs for %d classes", got, len(a.Classes))}
	}
	return nil
}

// MissingEmojiColumns lists the emoji categories that have no schema column.
// Such emoji are silently dropped at inference; training only emits columns
// for the categories it saw, so this is reported rather than rejected.
func (a *Artifacts) MissingEmojiColumns() []string {
	var missing []string
	for _, category := range append(a.Lexicon.Emoji.Categories(), features.UnknownEmoji) {
		if !a.Schema.Has(features.EmojiColumn(category)) {
			missing = append(missing, category)
		}
	}
	return missing
}

func loadClasses(path string) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- artifact path comes from operator config
	if err != nil {
		return nil, err
	}
	var classes []string
	if err := json.Unmarshal(data, &classes); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		if c == "" {
			return nil, errors.New("empty class label")
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("duplicate class label %q", c)
		}
		seen[c] = struct{}{}
	}
	return classes, nil
}
