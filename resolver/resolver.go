package resolver

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"tunebridge/entity"
)

// ErrCatalogUnavailable marks a catalog query that failed for transport or
// authentication reasons. Backends wrap their failures with it; the
// resolver propagates it unchanged and never retries.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// CatalogSearch issues one keyword query against the remote catalog and
// returns its candidates in the catalog's own relevance order. It must not
// drop results below an internal threshold: ranking belongs to the engine.
type CatalogSearch interface {
	Query(ctx context.Context, query string, limit int) ([]entity.CatalogCandidate, error)
}

// QueryDialect is an optional upgrade a CatalogSearch backend can
// implement when its catalog supports field-scoped search syntax. Without
// it the resolver falls back to plain concatenation.
type QueryDialect interface {
	CombinedQuery(title, artist string) string
	TitleQuery(title string) string
	ArtistQuery(artist string) string
}

// PlaylistSink receives resolved catalog IDs for playlist population.
// It is consumed by the surrounding transfer layer, not by the resolver;
// it lives here so a backend implements one capability surface.
type PlaylistSink interface {
	CreatePlaylist(ctx context.Context, name, description string) (string, error)
	AddTracks(ctx context.Context, playlistID string, ids []string) error
}

// Config carries the read-only tuning of the resolution strategy.
type Config struct {
	TitleWeight             float64
	ArtistWeight            float64
	FuzzyThreshold          float64
	TitleOnlyThreshold      float64
	ArtistFallbackThreshold float64
	SearchLimit             int
}

// DefaultConfig returns the reference tuning: title-heavy weighting and
// thresholds that loosen as the stages get more speculative.
func DefaultConfig() Config {
	return Config{
		TitleWeight:             0.7,
		ArtistWeight:            0.3,
		FuzzyThreshold:          0.55,
		TitleOnlyThreshold:      0.5,
		ArtistFallbackThreshold: 0.45,
		SearchLimit:             50,
	}
}

// Resolver drives one local track through the multi-stage query strategy:
// a combined title+artist query scanned for an exact match then fuzzy
// ranked, a title-only query, and finally an artist-only query ranked by
// title similarity. Each stage short-circuits on success. Stateless per
// call; safe for concurrent use if the catalog is.
type Resolver struct {
	catalog CatalogSearch
	dialect QueryDialect
	cfg     Config
	log     *logrus.Logger
}

func New(catalog CatalogSearch, cfg Config, log *logrus.Logger) *Resolver {
	if log == nil {
		log = logrus.New()
	}
	r := &Resolver{catalog: catalog, cfg: cfg, log: log}
	if dialect, ok := catalog.(QueryDialect); ok {
		r.dialect = dialect
	}
	return r
}

// Resolve returns the best catalog match for the given track, or nil when
// every stage exhausts without an acceptable candidate. A track without a
// title has no searchable signal and resolves to nil without issuing any
// query. Catalog failures propagate to the caller untouched.
func (r *Resolver) Resolve(ctx context.Context, track entity.LocalTrack) (*entity.MatchResult, error) {
	title := strings.TrimSpace(track.Title)
	artist := strings.TrimSpace(track.Artist)
	if title == "" {
		return nil, nil
	}

	// Stage 1: combined query, exact scan then fuzzy ranking over the
	// same result set. The exact branch runs first; a fuzzy score of 1.0
	// stays reachable through the alphanumeric pass and is reported as
	// fuzzy when the normalized strings differ.
	candidates, err := r.catalog.Query(ctx, r.combinedQuery(title, artist), r.cfg.SearchLimit)
	if err != nil {
		return nil, err
	}
	if match := exactMatch(candidates, title, artist); match != nil {
		r.logStage(track, match)
		return match, nil
	}
	if ranked := Rank(candidates, title, artist, r.cfg.TitleWeight, r.cfg.ArtistWeight, r.cfg.FuzzyThreshold); ranked != nil {
		match := ranked.result(entity.StageFuzzy)
		r.logStage(track, match)
		return match, nil
	}

	// Stage 2: title-only query, title similarity alone decides.
	candidates, err = r.catalog.Query(ctx, r.titleQuery(title), r.cfg.SearchLimit)
	if err != nil {
		return nil, err
	}
	if ranked := Rank(candidates, title, "", 1, 0, r.cfg.TitleOnlyThreshold); ranked != nil {
		match := ranked.result(entity.StageTitleOnly)
		r.logStage(track, match)
		return match, nil
	}

	// Stage 3: artist-only query, ranking the target title against the
	// artist's tracks with a looser threshold.
	if artist != "" {
		candidates, err = r.catalog.Query(ctx, r.artistQuery(artist), r.cfg.SearchLimit)
		if err != nil {
			return nil, err
		}
		if ranked := Rank(candidates, title, "", 1, 0, r.cfg.ArtistFallbackThreshold); ranked != nil {
			match := ranked.result(entity.StageArtistFallback)
			r.logStage(track, match)
			return match, nil
		}
	}

	r.log.WithFields(logrus.Fields{
		"title":  track.Title,
		"artist": track.Artist,
	}).Debug("no acceptable candidate in any stage")
	return nil, nil
}

// exactMatch scans candidates for normalized equality with the target.
// The artist check is skipped when the target artist normalizes to empty.
func exactMatch(candidates []entity.CatalogCandidate, title, artist string) *entity.MatchResult {
	wantTitle := Normalize(title)
	wantArtist := Normalize(artist)
	for _, candidate := range candidates {
		if Normalize(candidate.Title) != wantTitle {
			continue
		}
		if wantArtist != "" && Normalize(candidate.Artist) != wantArtist {
			continue
		}
		return &entity.MatchResult{
			CatalogID:  candidate.ID,
			Title:      candidate.Title,
			Artist:     candidate.Artist,
			Stage:      entity.StageExact,
			Confidence: 1.0,
		}
	}
	return nil
}

func (ranked *RankedCandidate) result(stage entity.Stage) *entity.MatchResult {
	return &entity.MatchResult{
		CatalogID:  ranked.Candidate.ID,
		Title:      ranked.Candidate.Title,
		Artist:     ranked.Candidate.Artist,
		Stage:      stage,
		Confidence: ranked.Score,
	}
}

func (r *Resolver) combinedQuery(title, artist string) string {
	if r.dialect != nil {
		return r.dialect.CombinedQuery(title, artist)
	}
	if artist == "" {
		return title
	}
	return artist + " " + title
}

func (r *Resolver) titleQuery(title string) string {
	if r.dialect != nil {
		return r.dialect.TitleQuery(title)
	}
	return title
}

func (r *Resolver) artistQuery(artist string) string {
	if r.dialect != nil {
		return r.dialect.ArtistQuery(artist)
	}
	return artist
}

func (r *Resolver) logStage(track entity.LocalTrack, match *entity.MatchResult) {
	r.log.WithFields(logrus.Fields{
		"title":      track.Title,
		"artist":     track.Artist,
		"catalog_id": match.CatalogID,
		"stage":      match.Stage.String(),
		"confidence": match.Confidence,
	}).Debug("resolved track")
}
