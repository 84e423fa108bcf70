package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunebridge/resolver"
)

func TestMatchingResolverConfigDefaults(t *testing.T) {
	assert.Equal(t, resolver.DefaultConfig(), Matching{}.ResolverConfig())
}

func TestMatchingResolverConfigOverrides(t *testing.T) {
	cfg := Matching{FuzzyThreshold: 0.6, SearchLimit: 10}.ResolverConfig()
	assert.Equal(t, 0.6, cfg.FuzzyThreshold)
	assert.Equal(t, 10, cfg.SearchLimit)
	// untouched fields keep the reference tuning
	assert.Equal(t, 0.7, cfg.TitleWeight)
	assert.Equal(t, 0.45, cfg.ArtistFallbackThreshold)
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("SPOTIFY_ID", "")
	t.Setenv("SPOTIFY_SECRET", "")
	t.Setenv("TUNEBRIDGE_MUSIC_DIR", "")
	path := filepath.Join(t.TempDir(), "config.json")
	saved := Default()
	saved.MusicDirectory = "/srv/music"
	saved.PlaylistName = "Road Trip"
	saved.Spotify.ClientID = "abc"
	saved.Matching.SearchLimit = 25

	written, err := Save(saved, path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/music", loaded.MusicDirectory)
	assert.Equal(t, "Road Trip", loaded.PlaylistName)
	assert.Equal(t, "abc", loaded.Spotify.ClientID)
	assert.Equal(t, 25, loaded.Matching.SearchLimit)
	assert.Equal(t, DefaultRedirectURI, loaded.Spotify.RedirectURI)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPlaylistName, cfg.PlaylistName)
	assert.Equal(t, DefaultRedirectURI, cfg.Spotify.RedirectURI)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SPOTIFY_ID", "env-id")
	t.Setenv("SPOTIFY_SECRET", "env-secret")
	t.Setenv("TUNEBRIDGE_MUSIC_DIR", "/env/music")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, "env-id", cfg.Spotify.ClientID)
	assert.Equal(t, "env-secret", cfg.Spotify.ClientSecret)
	assert.Equal(t, "/env/music", cfg.MusicDirectory)
}
