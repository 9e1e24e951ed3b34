package features

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ewilliams-labs/moodtune/internal/lexicon"
)

// UnknownEmoji is the emoji category used when no lexicon emoji occurs in the text.
const UnknownEmoji = "unknown"

// KeywordColumn names the keyword-hit column of an emotion.
func KeywordColumn(emotion string) string {
	return "keyword_" + emotion + "_count"
}

// EmojiColumn names the one-hot indicator column of an emoji category.
func EmojiColumn(category string) string {
	return "emoji_" + category
}

// Auxiliary computes the engineered columns for the original, unnormalized text.
//
// Every keyword of an emotion that occurs in the lower-cased text adds one to
// that emotion's count, however many times it occurs. Only the first emoji in
// lexicon order that occurs in the text is encoded; later matches are ignored.
// Emotion names from the lexicon are used as written in column names.
func Auxiliary(text string, keywords lexicon.KeywordTable, emoji lexicon.EmojiTable) map[string]float64 {
	lowered := norm.NFC.String(strings.ToLower(text))

	cols := make(map[string]float64, len(keywords)+1)
	for _, entry := range keywords {
		var hits float64
		for _, kw := range entry.Keywords {
			if kw != "" && strings.Contains(lowered, kw) {
				hits++
			}
		}
		cols[KeywordColumn(entry.Emotion)] = hits
	}

	cols[EmojiColumn(FirstEmoji(lowered, emoji))] = 1
	return cols
}

// FirstEmoji returns the category of the first lexicon emoji found in text,
// or UnknownEmoji.
func FirstEmoji(text string, emoji lexicon.EmojiTable) string {
	for _, e := range emoji {
		if e.Emoji != "" && strings.Contains(text, e.Emoji) {
			return e.Emotion
		}
	}
	return UnknownEmoji
}
