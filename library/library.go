package library

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/agnivade/levenshtein"

	"tunebridge/entity"
	"tunebridge/metadata"
	"tunebridge/resolver"
)

// DefaultMaxEditDistance is how many edits apart two normalized
// artist/title keys may be and still count as the same recording.
const DefaultMaxEditDistance = 2

// Scan walks the collection root and returns every supported audio file,
// sorted for stable processing order.
func Scan(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if metadata.Supported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Dedupe prunes tracks whose normalized artist/title key is within
// maxDistance edits of an earlier track's key, keeping first occurrences.
// It returns the kept tracks and the pruned duplicates. Tracks with an
// empty key (no title signal) are always kept: they carry too little
// information to call duplicates.
func Dedupe(tracks []entity.LocalTrack, maxDistance int) (kept, dropped []entity.LocalTrack) {
	var seen []string
	for _, track := range tracks {
		key := dedupeKey(track)
		if key == "" {
			kept = append(kept, track)
			continue
		}
		if duplicate(key, seen, maxDistance) {
			dropped = append(dropped, track)
			continue
		}
		seen = append(seen, key)
		kept = append(kept, track)
	}
	return kept, dropped
}

func dedupeKey(track entity.LocalTrack) string {
	title := resolver.Normalize(track.Title)
	if title == "" {
		return ""
	}
	artist := resolver.Normalize(track.Artist)
	if artist == "" {
		return title
	}
	return artist + " - " + title
}

func duplicate(key string, seen []string, maxDistance int) bool {
	for _, other := range seen {
		if key == other {
			return true
		}
		if levenshtein.ComputeDistance(key, other) <= maxDistance {
			return true
		}
	}
	return false
}
