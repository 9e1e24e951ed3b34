// Package config loads moodtune settings from defaults, an optional YAML
// file and the environment.
package config

import "time"

// Config is the full application configuration.
type Config struct {
	Env       string          `koanf:"env" validate:"oneof=prod local dev docker"`
	HTTP      HTTPConfig      `koanf:"http"`
	Logging   LoggingConfig   `koanf:"logging"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Genres    GenresConfig    `koanf:"genres"`
	Spotify   SpotifyConfig   `koanf:"spotify"`
	Catalogue CatalogueConfig `koanf:"catalogue"`
	Recommend RecommendConfig `koanf:"recommend"`
	History   HistoryConfig   `koanf:"history"`
}

type HTTPConfig struct {
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout       time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout      time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"min=0"`
}

type LoggingConfig struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

// ArtifactsConfig locates the frozen model files. Empty file entries resolve
// to their conventional names inside Dir.
type ArtifactsConfig struct {
	Dir        string `koanf:"dir" validate:"required"`
	Model      string `koanf:"model"`
	Vectorizer string `koanf:"vectorizer"`
	Columns    string `koanf:"columns"`
	Classes    string `koanf:"classes"`
	Emoji      string `koanf:"emoji"`
	Keywords   string `koanf:"keywords"`
}

// GenresConfig optionally replaces the built-in emotion to genre map.
type GenresConfig struct {
	File string `koanf:"file"`
}

// SpotifyConfig holds the remote provider credentials. The remote path is
// disabled unless ClientID, ClientSecret and RedirectURI are all set.
type SpotifyConfig struct {
	ClientID      string        `koanf:"client_id"`
	ClientSecret  string        `koanf:"client_secret"`
	RedirectURI   string        `koanf:"redirect_uri"`
	BaseURL       string        `koanf:"base_url" validate:"omitempty,url"`
	TokenURL      string        `koanf:"token_url" validate:"omitempty,url"`
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxRetries    int           `koanf:"max_retries" validate:"min=0,max=10"`
	RetryBackoff  time.Duration `koanf:"retry_backoff" validate:"min=0"`
	RatePerSecond float64       `koanf:"rate_per_second" validate:"min=0"`
	Market        string        `koanf:"market" validate:"omitempty,len=2"`
}

// Enabled reports whether all three credentials are present.
func (s SpotifyConfig) Enabled() bool {
	return s.ClientID != "" && s.ClientSecret != "" && s.RedirectURI != ""
}

type CatalogueConfig struct {
	Path     string        `koanf:"path"`
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"min=0"`
}

type RecommendConfig struct {
	DefaultLimit int `koanf:"default_limit" validate:"min=1"`
	MaxLimit     int `koanf:"max_limit" validate:"min=1,max=100"`
}

// HistoryConfig controls the SQLite history store. An empty Path disables it.
type HistoryConfig struct {
	Path      string `koanf:"path"`
	Workers   int    `koanf:"workers" validate:"min=1,max=64"`
	QueueSize int    `koanf:"queue_size" validate:"min=1"`
}

func defaultConfig() *Config {
	return &Config{
		Env: "local",
		HTTP: HTTPConfig{
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 60,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level: "",
		},
		Artifacts: ArtifactsConfig{
			Dir: "models",
		},
		Spotify: SpotifyConfig{
			BaseURL:       "https://api.spotify.com/v1",
			TokenURL:      "https://accounts.spotify.com/api/token",
			Timeout:       5 * time.Second,
			MaxRetries:    3,
			RetryBackoff:  500 * time.Millisecond,
			RatePerSecond: 5,
		},
		Catalogue: CatalogueConfig{
			Path:     "data/songs.csv",
			CacheTTL: 5 * time.Minute,
		},
		Recommend: RecommendConfig{
			DefaultLimit: 5,
			MaxLimit:     50,
		},
		History: HistoryConfig{
			Path:      "moodtune.db",
			Workers:   2,
			QueueSize: 100,
		},
	}
}
