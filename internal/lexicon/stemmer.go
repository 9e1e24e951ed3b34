package lexicon

import porterstemmer "github.com/reiver/go-porterstemmer"

// Stemmer reduces a lower-case token to its stem.
type Stemmer interface {
	Stem(word string) string
}

// PorterStemmer applies the classic Porter algorithm.
type PorterStemmer struct{}

// Stem returns the Porter stem of word. Words of two letters or fewer are returned unchanged,
// as are words the underlying stemmer cannot handle (it indexes out of range on short "eed" forms).
func (PorterStemmer) Stem(word string) (stem string) {
	if len(word) <= 2 {
		return word
	}
	defer func() {
		if recover() != nil {
			stem = word
		}
	}()
	return porterstemmer.StemString(word)
}

// StemmerFunc adapts a plain function to the Stemmer interface.
type StemmerFunc func(string) string

// Stem calls f(word).
func (f StemmerFunc) Stem(word string) string { return f(word) }
