package lexicon

import (
	"bufio"
	_ "embed"
	"strings"
)

//go:embed stopwords_english.txt
var englishStopwords string

// Stopwords is a read-only set of words dropped during normalization.
type Stopwords map[string]struct{}

// EnglishStopwords returns the NLTK English stopword list.
func EnglishStopwords() Stopwords {
	return ParseStopwords(englishStopwords)
}

// ParseStopwords reads one word per line. Blank lines and lines starting with # are skipped.
func ParseStopwords(src string) Stopwords {
	set := make(Stopwords)
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// Contains reports whether w is a stopword.
func (s Stopwords) Contains(w string) bool {
	_, ok := s[w]
	return ok
}
