package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"

	"tunebridge/resolver"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultPlaylistName = "Tunebridge Collection"
	DefaultRedirectURI  = "http://localhost:8888/callback"
)

// Spotify holds the application credentials for the catalog backend.
// ClientID and ClientSecret can also come from the SPOTIFY_ID and
// SPOTIFY_SECRET environment variables (a .env file is honored).
type Spotify struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri"`
}

// Matching exposes the resolver tuning in the config file. Zero values
// mean "use the reference tuning".
type Matching struct {
	TitleWeight             float64 `json:"title_weight,omitempty"`
	ArtistWeight            float64 `json:"artist_weight,omitempty"`
	FuzzyThreshold          float64 `json:"fuzzy_threshold,omitempty"`
	TitleOnlyThreshold      float64 `json:"title_only_threshold,omitempty"`
	ArtistFallbackThreshold float64 `json:"artist_fallback_threshold,omitempty"`
	SearchLimit             int     `json:"search_limit,omitempty"`
}

// ResolverConfig converts the persisted tuning to a resolver.Config,
// filling defaults for unset fields.
func (m Matching) ResolverConfig() resolver.Config {
	cfg := resolver.DefaultConfig()
	if m.TitleWeight > 0 {
		cfg.TitleWeight = m.TitleWeight
	}
	if m.ArtistWeight > 0 {
		cfg.ArtistWeight = m.ArtistWeight
	}
	if m.FuzzyThreshold > 0 {
		cfg.FuzzyThreshold = m.FuzzyThreshold
	}
	if m.TitleOnlyThreshold > 0 {
		cfg.TitleOnlyThreshold = m.TitleOnlyThreshold
	}
	if m.ArtistFallbackThreshold > 0 {
		cfg.ArtistFallbackThreshold = m.ArtistFallbackThreshold
	}
	if m.SearchLimit > 0 {
		cfg.SearchLimit = m.SearchLimit
	}
	return cfg
}

// Config is an explicit value handed to the orchestration layer; there is
// no process-wide configuration singleton.
type Config struct {
	MusicDirectory string   `json:"music_directory"`
	PlaylistName   string   `json:"playlist_name"`
	Spotify        Spotify  `json:"spotify"`
	Matching       Matching `json:"matching,omitempty"`
}

// Default returns a configuration pointing at the user's music directory
// with the reference tuning.
func Default() Config {
	return Config{
		MusicDirectory: xdg.UserDirs.Music,
		PlaylistName:   DefaultPlaylistName,
		Spotify: Spotify{
			RedirectURI: DefaultRedirectURI,
		},
	}
}

// DefaultPath returns the XDG location of the persisted configuration.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("tunebridge", "config.json"))
}

// Load reads the configuration file at path (the XDG default when path is
// empty) and applies environment overrides. A missing file is not an
// error: defaults plus environment are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to environment overrides
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if cfg.PlaylistName == "" {
		cfg.PlaylistName = DefaultPlaylistName
	}
	if cfg.Spotify.RedirectURI == "" {
		cfg.Spotify.RedirectURI = DefaultRedirectURI
	}
	return cfg, nil
}

// Save writes the configuration to path (the XDG default when empty).
// Permissions stay owner-only: the file carries credentials.
func Save(cfg Config, path string) (string, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

func applyEnv(cfg *Config) {
	// Best effort: a .env in the working directory is a convenience, not
	// a requirement.
	_ = godotenv.Load()

	if id := os.Getenv("SPOTIFY_ID"); id != "" {
		cfg.Spotify.ClientID = id
	}
	if secret := os.Getenv("SPOTIFY_SECRET"); secret != "" {
		cfg.Spotify.ClientSecret = secret
	}
	if dir := os.Getenv("TUNEBRIDGE_MUSIC_DIR"); dir != "" {
		cfg.MusicDirectory = dir
	}
}
