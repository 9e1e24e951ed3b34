package spotify

import (
	"strings"
	"unicode"
)

// maxSeeds is the Spotify limit on seed values per recommendations request.
const maxSeeds = 5

// seedGenres turns curated genre names into Spotify seed slugs, keeping the
// first maxSeeds distinct values in order.
func seedGenres(genres []string) []string {
	seeds := make([]string, 0, maxSeeds)
	seen := make(map[string]struct{}, maxSeeds)
	for _, g := range genres {
		slug := genreSlug(g)
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		seeds = append(seeds, slug)
		if len(seeds) == maxSeeds {
			break
		}
	}
	return seeds
}

// genreSlug lower-cases input and joins its words with single hyphens.
// "Tropical House" and "tropical  house" both become "tropical-house".
func genreSlug(input string) string {
	var out strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(input) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && out.Len() > 0 {
				out.WriteRune('-')
			}
			out.WriteRune(r)
			pendingSep = false
			continue
		}
		pendingSep = true
	}
	return out.String()
}
