// Package features turns raw text into the fixed-width feature row the
// emotion model was trained on.
package features

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ewilliams-labs/moodtune/internal/lexicon"
)

var (
	urlPattern     = regexp.MustCompile(`(?:http|www)[^\s\v\p{Z}\x{85}]+`)
	mentionPattern = regexp.MustCompile(`@[\p{L}\p{N}_]+|#`)
)

// Normalize lower-cases text, removes URLs, mentions, hashtag markers and
// every character that is not an ASCII letter or whitespace, then drops
// stopwords and stems what is left. Tokens are joined by single spaces.
func Normalize(text string, stop lexicon.Stopwords, stem lexicon.Stemmer) string {
	if text == "" {
		return ""
	}

	s := strings.ToLower(text)
	s = urlPattern.ReplaceAllString(s, "")
	s = mentionPattern.ReplaceAllString(s, "")
	s = strings.Map(keepLetterOrSpace, s)

	tokens := strings.Fields(s)
	out := tokens[:0]
	for _, tok := range tokens {
		if stop.Contains(tok) {
			continue
		}
		if stem != nil {
			tok = stem.Stem(tok)
		}
		if tok != "" {
			out = append(out, tok)
		}
	}
	return strings.Join(out, " ")
}

func keepLetterOrSpace(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return r
	case unicode.IsSpace(r):
		return r
	default:
		return -1
	}
}
