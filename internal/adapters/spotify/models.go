package spotify

// spotifyTrack is the subset of the Spotify track object we read.
type spotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []spotifyArtist `json:"artists"`
	Album        spotifyAlbum    `json:"album"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	PreviewURL string `json:"preview_url"`
	DurationMs int    `json:"duration_ms"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyAlbum struct {
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// recommendationsResponse is the body of GET /recommendations.
type recommendationsResponse struct {
	Tracks []spotifyTrack `json:"tracks"`
}

// errorResponse is the Web API error envelope.
type errorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}
