package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names a YAML file that takes precedence over DefaultConfigPaths.
const ConfigPathEnvVar = "CONFIG_PATH"

const envPrefix = "MOODTUNE_"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config/config.yaml",
}

// envMappings covers variables that do not follow the MOODTUNE_<SECTION>_<KEY> form.
var envMappings = map[string]string{
	"spotify_client_id":     "spotify.client_id",
	"spotify_client_secret": "spotify.client_secret",
	"spotify_redirect_uri":  "spotify.redirect_uri",
	"log_level":             "logging.level",
}

// sliceConfigPaths are split on commas when they arrive as a single string.
var sliceConfigPaths = []string{
	"http.cors_origins",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads .env (if present), then layers defaults, the YAML config file
// and environment variables, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return load(findConfigFile())
}

func load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	if c.Recommend.DefaultLimit > c.Recommend.MaxLimit {
		return fmt.Errorf("config: recommend.default_limit (%d) exceeds recommend.max_limit (%d)",
			c.Recommend.DefaultLimit, c.Recommend.MaxLimit)
	}
	if (c.HTTP.RateLimitRequests == 0) != (c.HTTP.RateLimitWindow == 0) {
		return errors.New("config: http.rate_limit_requests and http.rate_limit_window must be set together")
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransformFunc maps environment variable names to koanf paths:
//   - SPOTIFY_CLIENT_ID -> spotify.client_id
//   - MOODTUNE_HTTP_PORT -> http.port
//   - MOODTUNE_HISTORY_QUEUE_SIZE -> history.queue_size
//
// Unrelated variables map to "" and are skipped.
func envTransformFunc(key string) string {
	lower := strings.ToLower(key)
	if mapped, ok := envMappings[lower]; ok {
		return mapped
	}
	if !strings.HasPrefix(key, envPrefix) {
		return ""
	}
	rest := strings.ToLower(strings.TrimPrefix(key, envPrefix))
	section, field, ok := strings.Cut(rest, "_")
	if !ok {
		return section
	}
	return section + "." + field
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("config: set %s: %w", path, err)
		}
	}
	return nil
}
