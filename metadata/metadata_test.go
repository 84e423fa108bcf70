package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFilename(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantTitle  string
		wantArtist string
	}{
		{"artist and title", "/music/The Beatles - Yesterday.mp3", "Yesterday", "The Beatles"},
		{"no separator", "/music/Yesterday.flac", "Yesterday", ""},
		{"extra spaces", "/music/The Beatles -  Yesterday .m4a", "Yesterday", "The Beatles"},
		{"separator in title", "/music/Artist - Title - Acoustic.mp3", "Title - Acoustic", "Artist"},
		{"plain hyphen is not a separator", "/music/AC-DC Thunderstruck.ogg", "AC-DC Thunderstruck", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := FromFilename(tt.path)
			assert.Equal(t, tt.wantTitle, track.Title)
			assert.Equal(t, tt.wantArtist, track.Artist)
			assert.Equal(t, tt.path, track.Path)
		})
	}
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.mp3"))
	assert.True(t, Supported("a.FLAC"))
	assert.True(t, Supported("a.m4a"))
	assert.True(t, Supported("a.ogg"))
	assert.False(t, Supported("a.txt"))
	assert.False(t, Supported("a"))
}

func TestExtractFallsBackToFilename(t *testing.T) {
	// A file with no parseable tag header degrades to filename parsing.
	dir := t.TempDir()
	path := filepath.Join(dir, "The Beatles - Yesterday.mp3")
	require.NoError(t, os.WriteFile(path, []byte("not really audio"), 0o644))

	track, err := Extractor{}.Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "Yesterday", track.Title)
	assert.Equal(t, "The Beatles", track.Artist)
	assert.Empty(t, track.Album)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := Extractor{}.Extract(filepath.Join(t.TempDir(), "nope.mp3"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExtractionFailed))
}
