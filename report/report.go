package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gosimple/slug"
	jsoniter "github.com/json-iterator/go"

	"tunebridge/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TrackRecord is one per-file line of the transfer report.
type TrackRecord struct {
	Path       string  `json:"path"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist,omitempty"`
	CatalogID  string  `json:"catalog_id,omitempty"`
	Stage      string  `json:"stage,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Summary carries the per-stage counters the transfer prints at the end.
type Summary struct {
	TotalFiles     int `json:"total_files"`
	Duplicates     int `json:"duplicates"`
	Exact          int `json:"exact"`
	Fuzzy          int `json:"fuzzy"`
	TitleOnly      int `json:"title_only"`
	ArtistFallback int `json:"artist_fallback"`
	AlreadyTagged  int `json:"already_tagged"`
	NotFound       int `json:"not_found"`
	Errors         int `json:"errors"`
}

// Matched counts every track that ended up with a catalog ID.
func (s Summary) Matched() int {
	return s.Exact + s.Fuzzy + s.TitleOnly + s.ArtistFallback + s.AlreadyTagged
}

// Report accumulates the outcome of one transfer run. Every input track
// lands in exactly one of the matched/not-found/failed buckets. Not safe
// for concurrent use: a single collector routine owns it.
type Report struct {
	PlaylistName string        `json:"playlist_name"`
	PlaylistID   string        `json:"playlist_id,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	Summary      Summary       `json:"summary"`
	Matched      []TrackRecord `json:"matched,omitempty"`
	NotFound     []TrackRecord `json:"not_found,omitempty"`
	Failed       []TrackRecord `json:"failed,omitempty"`
}

func New(playlistName string) *Report {
	return &Report{
		PlaylistName: playlistName,
		StartedAt:    time.Now(),
	}
}

func (r *Report) AddMatch(track entity.LocalTrack, match *entity.MatchResult) {
	switch match.Stage {
	case entity.StageExact:
		r.Summary.Exact++
	case entity.StageFuzzy:
		r.Summary.Fuzzy++
	case entity.StageTitleOnly:
		r.Summary.TitleOnly++
	case entity.StageArtistFallback:
		r.Summary.ArtistFallback++
	}
	r.Matched = append(r.Matched, TrackRecord{
		Path:       track.Path,
		Title:      track.Title,
		Artist:     track.Artist,
		CatalogID:  match.CatalogID,
		Stage:      match.Stage.String(),
		Confidence: match.Confidence,
	})
}

// AddAlreadyTagged records a file that carried a catalog ID from a
// previous run and skipped resolution entirely.
func (r *Report) AddAlreadyTagged(track entity.LocalTrack, catalogID string) {
	r.Summary.AlreadyTagged++
	r.Matched = append(r.Matched, TrackRecord{
		Path:      track.Path,
		Title:     track.Title,
		Artist:    track.Artist,
		CatalogID: catalogID,
		Stage:     "already_tagged",
	})
}

func (r *Report) AddNotFound(track entity.LocalTrack) {
	r.Summary.NotFound++
	r.NotFound = append(r.NotFound, TrackRecord{
		Path:   track.Path,
		Title:  track.Title,
		Artist: track.Artist,
	})
}

func (r *Report) AddError(track entity.LocalTrack, err error) {
	r.Summary.Errors++
	r.Failed = append(r.Failed, TrackRecord{
		Path:   track.Path,
		Title:  track.Title,
		Artist: track.Artist,
		Error:  err.Error(),
	})
}

// SuccessRate is the matched share of all scanned files, in percent.
func (r *Report) SuccessRate() float64 {
	if r.Summary.TotalFiles == 0 {
		return 0
	}
	return float64(r.Summary.Matched()) / float64(r.Summary.TotalFiles) * 100
}

// Save writes the report as timestamped JSON under dir and returns the
// file path.
func (r *Report) Save(dir string) (string, error) {
	name := fmt.Sprintf("%s-results-%s.json",
		slug.Make(r.PlaylistName),
		r.StartedAt.Format("20060102-150405"),
	)
	path := filepath.Join(dir, name)
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
