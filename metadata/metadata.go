package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"tunebridge/entity"
)

// ErrExtractionFailed marks a file whose metadata could not be read at
// all, filename fallback included. It is recoverable at the batch level:
// callers record it and move on.
var ErrExtractionFailed = errors.New("metadata extraction failed")

var supportedExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".mp4":  true,
	".wav":  true,
	".ogg":  true,
}

// Supported reports whether the file extension belongs to a readable
// audio format.
func Supported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

type Extractor struct{}

// Extract reads title/artist/album from the file's tags, falling back to
// filename parsing for any field the tags leave empty. Formats without
// readable tags (or with corrupt ones) degrade to the filename alone;
// only an unreadable file is an error.
func (Extractor) Extract(path string) (entity.LocalTrack, error) {
	file, err := os.Open(path)
	if err != nil {
		return entity.LocalTrack{}, fmt.Errorf("%w: %s: %v", ErrExtractionFailed, path, err)
	}
	defer file.Close()

	track := FromFilename(path)
	meta, err := tag.ReadFrom(file)
	if err != nil {
		return track, nil
	}
	if title := strings.TrimSpace(meta.Title()); title != "" {
		track.Title = title
	}
	if artist := strings.TrimSpace(meta.Artist()); artist != "" {
		track.Artist = artist
	}
	if album := strings.TrimSpace(meta.Album()); album != "" {
		track.Album = album
	}
	return track, nil
}

// FromFilename derives track metadata from the filename stem, parsing
// "Artist - Title" when the separator is present and treating the whole
// stem as the title otherwise.
func FromFilename(path string) entity.LocalTrack {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	track := entity.LocalTrack{Title: stem, Path: path}
	if artist, title, found := strings.Cut(stem, " - "); found {
		track.Artist = strings.TrimSpace(artist)
		track.Title = strings.TrimSpace(title)
	}
	return track
}
