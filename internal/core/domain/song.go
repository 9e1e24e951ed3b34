package domain

// DefaultArtworkURL is used when a remote track has no album image.
const DefaultArtworkURL = "https://i.imgur.com/7Q7gB7p.png"

// Song represents a recommended track in the domain layer.
type Song struct {
	Title      string
	Artist     string
	Genre      string // optional, only the fallback catalogue provides it
	URL        string
	ArtworkURL string // optional
}

// Source names where a set of recommendations came from.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
	SourceNone     Source = "none"
)
