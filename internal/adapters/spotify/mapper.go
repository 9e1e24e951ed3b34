package spotify

import (
	"strings"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
)

// mapTrackToDomain converts a raw Spotify track to a domain song.
// Remote tracks carry no genre.
func mapTrackToDomain(st spotifyTrack) domain.Song {
	artistNames := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		if a.Name != "" {
			artistNames = append(artistNames, a.Name)
		}
	}

	artwork := domain.DefaultArtworkURL
	if len(st.Album.Images) > 0 && st.Album.Images[0].URL != "" {
		artwork = st.Album.Images[0].URL
	}

	return domain.Song{
		Title:      st.Name,
		Artist:     strings.Join(artistNames, ", "),
		URL:        st.ExternalURLs.Spotify,
		ArtworkURL: artwork,
	}
}

func mapTracksToDomain(tracks []spotifyTrack) []domain.Song {
	songs := make([]domain.Song, 0, len(tracks))
	for _, t := range tracks {
		songs = append(songs, mapTrackToDomain(t))
	}
	return songs
}
