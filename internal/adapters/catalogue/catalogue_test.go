package catalogue

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
)

const sampleCSV = `Title,Artist,Genre,Spotify_URL
Happy,Pharrell Williams,JOY,https://open.spotify.com/track/1
Hurt,Johnny Cash,sadness,https://open.spotify.com/track/2
,Nobody,joy,https://open.spotify.com/track/3
Break Stuff,Limp Bizkit,Anger,https://open.spotify.com/track/4
`

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantErr   bool
		wantCount int
		first     domain.Song
	}{
		{
			name:      "header with aliases",
			src:       sampleCSV,
			wantCount: 3,
			first:     domain.Song{Title: "Happy", Artist: "Pharrell Williams", Genre: "joy", URL: "https://open.spotify.com/track/1"},
		},
		{
			name:      "reordered header with extra columns",
			src:       "url,popularity,genre,artist,name\nhttps://x/1,80,Love,Adele,Someone Like You\n",
			wantCount: 1,
			first:     domain.Song{Title: "Someone Like You", Artist: "Adele", Genre: "love", URL: "https://x/1"},
		},
		{
			name:      "headerless rows are positional",
			src:       "Hurt,Johnny Cash,sadness,https://x/2\nHappy,Pharrell,joy,https://x/1\n",
			wantCount: 2,
			first:     domain.Song{Title: "Hurt", Artist: "Johnny Cash", Genre: "sadness", URL: "https://x/2"},
		},
		{
			name:      "byte order mark",
			src:       "\ufefftitle,artist,genre,link\nA,B,Fear,https://x/3\n",
			wantCount: 1,
			first:     domain.Song{Title: "A", Artist: "B", Genre: "fear", URL: "https://x/3"},
		},
		{
			name:      "empty file",
			src:       "",
			wantCount: 0,
		},
		{
			name:    "header missing genre",
			src:     "title,artist,url\nA,B,https://x\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			songs, err := Parse(strings.NewReader(tt.src))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, songs)
			require.Len(t, songs, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.first, songs[0])
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCatalogueUnavailable))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStoreCaching(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	fresh := NewStore(path, 0, nil)
	cached := NewStore(path, time.Hour, nil)

	for _, s := range []*Store{fresh, cached} {
		songs, err := s.Songs(context.Background())
		require.NoError(t, err)
		require.Len(t, songs, 3)
	}

	require.NoError(t, os.WriteFile(path, []byte("title,artist,genre,url\nOnly,One,joy,https://x\n"), 0o600))

	songs, err := fresh.Songs(context.Background())
	require.NoError(t, err)
	assert.Len(t, songs, 1, "ttl 0 re-reads the file")

	songs, err = cached.Songs(context.Background())
	require.NoError(t, err)
	assert.Len(t, songs, 3, "cached copy is served within the ttl")
}

func TestStoreConcurrentReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))
	s := NewStore(path, time.Minute, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			songs, err := s.Songs(context.Background())
			if err == nil && len(songs) != 3 {
				err = errors.New("unexpected row count")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestStoreMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.csv"), time.Minute, nil)
	_, err := s.Songs(context.Background())
	assert.True(t, errors.Is(err, domain.ErrCatalogueUnavailable))
}
