package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunebridge/entity"
)

type fakeCatalog struct {
	responses map[string][]entity.CatalogCandidate
	queries   []string
	err       error
}

func (f *fakeCatalog) Query(_ context.Context, query string, _ int) ([]entity.CatalogCandidate, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.responses[query], nil
}

type fakeDialectCatalog struct {
	fakeCatalog
}

func (f *fakeDialectCatalog) CombinedQuery(title, artist string) string {
	return fmt.Sprintf("track:%q artist:%q", title, artist)
}

func (f *fakeDialectCatalog) TitleQuery(title string) string {
	return fmt.Sprintf("track:%q", title)
}

func (f *fakeDialectCatalog) ArtistQuery(artist string) string {
	return fmt.Sprintf("artist:%q", artist)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newResolver(catalog CatalogSearch) *Resolver {
	return New(catalog, DefaultConfig(), quietLogger())
}

func TestResolveExactMatch(t *testing.T) {
	catalog := &fakeCatalog{responses: map[string][]entity.CatalogCandidate{
		"The Rolling Stones Paint It Black": {
			{ID: "target", Title: "Paint It Black", Artist: "The Rolling Stones"},
			{ID: "mono", Title: "Paint It, Black (Mono Version)", Artist: "Rolling Stones"},
		},
	}}
	match, err := newResolver(catalog).Resolve(context.Background(), entity.LocalTrack{
		Title:  "Paint It Black",
		Artist: "The Rolling Stones",
	})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "target", match.CatalogID)
	assert.Equal(t, entity.StageExact, match.Stage)
	assert.Equal(t, 1.0, match.Confidence)
	assert.Len(t, catalog.queries, 1)
}

func TestResolveExactMatchSkipsArtistCheckWithoutArtist(t *testing.T) {
	catalog := &fakeCatalog{responses: map[string][]entity.CatalogCandidate{
		"Yesterday": {
			{ID: "any", Title: "Yesterday", Artist: "Whoever Covers It"},
		},
	}}
	match, err := newResolver(catalog).Resolve(context.Background(), entity.LocalTrack{Title: "Yesterday"})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, entity.StageExact, match.Stage)
}

func TestResolveFuzzyIgnoresArtistWhenTargetArtistEmpty(t *testing.T) {
	// Titles differ from the target so the exact branch misses; the fuzzy
	// ranking must then decide on title similarity alone, with the artist
	// component forced to 1.0. Identical titles tie, first candidate wins.
	catalog := &fakeCatalog{responses: map[string][]entity.CatalogCandidate{
		"Yesterday": {
			{ID: "first", Title: "Yesterdays", Artist: "Guns N' Roses"},
			{ID: "second", Title: "Yesterdays", Artist: "The Beatles"},
		},
	}}
	match, err := newResolver(catalog).Resolve(context.Background(), entity.LocalTrack{Title: "Yesterday"})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "first", match.CatalogID)
	assert.Equal(t, entity.StageFuzzy, match.Stage)
	assert.Less(t, match.Confidence, 1.0)
	assert.Len(t, catalog.queries, 1)
}

func TestResolveEmptyTitleShortCircuits(t *testing.T) {
	catalog := &fakeCatalog{}
	match, err := newResolver(catalog).Resolve(context.Background(), entity.LocalTrack{Artist: "The Beatles"})
	require.NoError(t, err)
	assert.Nil(t, match)
	assert.Empty(t, catalog.queries)
}

func TestResolveTitleOnlyStage(t *testing.T) {
	catalog := &fakeCatalog{responses: map[string][]entity.CatalogCandidate{
		// Combined query returns nothing; the title-only query finds a
		// near-title under a different artist.
		"Nonexistent Band Yesterday": nil,
		"Yesterday": {
			{ID: "cover", Title: "Yesterdays", Artist: "Somebody Else"},
		},
	}}
	match, err := newResolver(catalog).Resolve(context.Background(), entity.LocalTrack{
		Title:  "Yesterday",
		Artist: "Nonexistent Band",
	})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, entity.StageTitleOnly, match.Stage)
	assert.Equal(t, "cover", match.CatalogID)
	assert.Equal(t, []string{"Nonexistent Band Yesterday", "Yesterday"}, catalog.queries)
}

func TestResolveArtistFallbackStage(t *testing.T) {
	catalog := &fakeCatalog{responses: map[string][]entity.CatalogCandidate{
		"The Kinks Yesterday": nil,
		"Yesterday":           nil,
		"The Kinks": {
			{ID: "fallback", Title: "Yesteryear", Artist: "The Kinks"},
		},
	}}
	match, err := newResolver(catalog).Resolve(context.Background(), entity.LocalTrack{
		Title:  "Yesterday",
		Artist: "The Kinks",
	})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, entity.StageArtistFallback, match.Stage)
	assert.Equal(t, "fallback", match.CatalogID)
	// "yesterday" vs "yesteryear": blocks "yester" and "a", 2*7/19.
	assert.InDelta(t, 0.7368, match.Confidence, 0.001)
	assert.Equal(t, []string{"The Kinks Yesterday", "Yesterday", "The Kinks"}, catalog.queries)
}

func TestResolveArtistFallbackSkippedWithoutArtist(t *testing.T) {
	catalog := &fakeCatalog{}
	match, err := newResolver(catalog).Resolve(context.Background(), entity.LocalTrack{Title: "Obscurity"})
	require.NoError(t, err)
	assert.Nil(t, match)
	// Only the combined and title-only stages run; there is no artist to
	// fall back to.
	assert.Equal(t, []string{"Obscurity", "Obscurity"}, catalog.queries)
}

func TestResolveNotFound(t *testing.T) {
	catalog := &fakeCatalog{responses: map[string][]entity.CatalogCandidate{
		"The Kinks": {
			{ID: "far", Title: "Completely Unrelated Song", Artist: "The Kinks"},
		},
	}}
	match, err := newResolver(catalog).Resolve(context.Background(), entity.LocalTrack{
		Title:  "Yesterday",
		Artist: "The Kinks",
	})
	require.NoError(t, err)
	assert.Nil(t, match)
	assert.Len(t, catalog.queries, 3)
}

func TestResolveCatalogErrorPropagates(t *testing.T) {
	catalogErr := fmt.Errorf("%w: connection refused", ErrCatalogUnavailable)
	catalog := &fakeCatalog{err: catalogErr}
	match, err := newResolver(catalog).Resolve(context.Background(), entity.LocalTrack{
		Title:  "Yesterday",
		Artist: "The Beatles",
	})
	assert.Nil(t, match)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCatalogUnavailable))
}

func TestResolveUsesQueryDialect(t *testing.T) {
	catalog := &fakeDialectCatalog{}
	match, err := newResolver(catalog).Resolve(context.Background(), entity.LocalTrack{
		Title:  "Yesterday",
		Artist: "The Beatles",
	})
	require.NoError(t, err)
	assert.Nil(t, match)
	assert.Equal(t, []string{
		`track:"Yesterday" artist:"The Beatles"`,
		`track:"Yesterday"`,
		`artist:"The Beatles"`,
	}, catalog.queries)
}
