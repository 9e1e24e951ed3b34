package rest

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
)

const internalErrorMessage = "internal server error"

type errorResponse struct {
	Error string `json:"error"`
}

type songResponse struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Genre      string `json:"genre"`
	URL        string `json:"spotify_url"`
	ArtworkURL string `json:"artwork_url,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func toSongResponses(songs []domain.Song) []songResponse {
	out := make([]songResponse, 0, len(songs))
	for _, s := range songs {
		out = append(out, songResponse{
			Title:      s.Title,
			Artist:     s.Artist,
			Genre:      s.Genre,
			URL:        s.URL,
			ArtworkURL: s.ArtworkURL,
		})
	}
	return out
}

// parseLimit reads an optional positive integer query parameter bounded by max.
func parseLimit(r *http.Request, def, max int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > max {
		return 0, false
	}
	return n, true
}
