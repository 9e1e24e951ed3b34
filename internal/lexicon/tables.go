package lexicon

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/unicode/norm"
)

// ErrMalformedTable is returned when a lexicon file is not the expected JSON object.
var ErrMalformedTable = errors.New("lexicon: malformed table")

// EmojiEntry maps one emoji to an emotion category.
type EmojiEntry struct {
	Emoji   string
	Emotion string
}

// EmojiTable is the emoji lexicon in file order.
type EmojiTable []EmojiEntry

// Categories returns the distinct emotions in first-seen order.
func (t EmojiTable) Categories() []string {
	seen := make(map[string]struct{}, len(t))
	var out []string
	for _, e := range t {
		if _, ok := seen[e.Emotion]; ok {
			continue
		}
		seen[e.Emotion] = struct{}{}
		out = append(out, e.Emotion)
	}
	return out
}

// KeywordEntry lists the keywords of one emotion category.
type KeywordEntry struct {
	Emotion  string
	Keywords []string
}

// KeywordTable is the keyword lexicon in file order.
type KeywordTable []KeywordEntry

// Emotions returns the keyword categories in file order.
func (t KeywordTable) Emotions() []string {
	out := make([]string, len(t))
	for i, e := range t {
		out[i] = e.Emotion
	}
	return out
}

// LoadEmojiTable reads a JSON object of emoji to emotion.
func LoadEmojiTable(path string) (EmojiTable, error) {
	f, err := os.Open(path) // #nosec G304 -- artifact path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("lexicon: open emoji table: %w", err)
	}
	defer f.Close()
	return ParseEmojiTable(f)
}

// ParseEmojiTable decodes an emoji table, keeping key order.
// Emotion names are kept verbatim since they become column names.
func ParseEmojiTable(r io.Reader) (EmojiTable, error) {
	var table EmojiTable
	err := walkObject(r, func(key string, dec *json.Decoder) error {
		var emotion string
		if err := dec.Decode(&emotion); err != nil {
			return fmt.Errorf("%w: emoji %q: %v", ErrMalformedTable, key, err)
		}
		table = append(table, EmojiEntry{
			Emoji:   norm.NFC.String(key),
			Emotion: emotion,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// LoadKeywordTable reads a JSON object of emotion to keyword list.
func LoadKeywordTable(path string) (KeywordTable, error) {
	f, err := os.Open(path) // #nosec G304 -- artifact path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("lexicon: open keyword table: %w", err)
	}
	defer f.Close()
	return ParseKeywordTable(f)
}

// ParseKeywordTable decodes a keyword table, keeping key order.
// Keywords are lower-cased and NFC normalized; emotion names are kept verbatim
// since they become column names.
func ParseKeywordTable(r io.Reader) (KeywordTable, error) {
	var table KeywordTable
	err := walkObject(r, func(key string, dec *json.Decoder) error {
		var words []string
		if err := dec.Decode(&words); err != nil {
			return fmt.Errorf("%w: emotion %q: %v", ErrMalformedTable, key, err)
		}
		for i, w := range words {
			words[i] = norm.NFC.String(strings.ToLower(w))
		}
		table = append(table, KeywordEntry{
			Emotion:  key,
			Keywords: words,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// walkObject streams the members of a top-level JSON object in document order.
func walkObject(r io.Reader, fn func(key string, dec *json.Decoder) error) error {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: expected object", ErrMalformedTable)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedTable, err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: expected key", ErrMalformedTable)
		}
		if err := fn(key, dec); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	return nil
}
