// Package lexicon holds the read-only word lists and lookup tables used by the
// feature pipeline: stopwords, the stemmer, and the emoji and keyword lexicons.
package lexicon

import "fmt"

// Resources is the immutable lexical snapshot shared by every request.
type Resources struct {
	Stopwords Stopwords
	Stemmer   Stemmer
	Emoji     EmojiTable
	Keywords  KeywordTable
}

// Load builds Resources from the emoji and keyword lexicon files using the
// embedded English stopwords and the Porter stemmer.
func Load(emojiPath, keywordPath string) (*Resources, error) {
	emoji, err := LoadEmojiTable(emojiPath)
	if err != nil {
		return nil, err
	}
	keywords, err := LoadKeywordTable(keywordPath)
	if err != nil {
		return nil, err
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("lexicon: keyword table %s is empty", keywordPath)
	}
	return &Resources{
		Stopwords: EnglishStopwords(),
		Stemmer:   PorterStemmer{},
		Emoji:     emoji,
		Keywords:  keywords,
	}, nil
}
