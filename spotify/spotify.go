package spotify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	api "github.com/zmb3/spotify/v2"
	"golang.org/x/time/rate"

	"tunebridge/entity"
	"tunebridge/resolver"
)

const (
	// requestsPerSecond bounds outgoing API calls well below Spotify's
	// documented limits; the engine itself never retries, so staying
	// under the limit is this client's job.
	requestsPerSecond = 10

	// addBatchSize is the Web API maximum for one playlist-add call.
	addBatchSize = 100

	defaultSearchLimit = 50
)

// Client adapts the Spotify Web API to the engine's CatalogSearch and
// PlaylistSink capabilities. Safe for concurrent use; all calls share one
// rate limiter.
type Client struct {
	api     *api.Client
	limiter *rate.Limiter
	log     *logrus.Logger
}

func NewClient(apiClient *api.Client, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.New()
	}
	return &Client{
		api:     apiClient,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		log:     log,
	}
}

// Query runs one track search and returns candidates in Spotify's own
// relevance order. Transport and auth failures surface as
// resolver.ErrCatalogUnavailable.
func (c *Client) Query(ctx context.Context, query string, limit int) ([]entity.CatalogCandidate, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{"query": query, "limit": limit}).Debug("catalog search")
	results, err := c.api.Search(ctx, query, api.SearchTypeTrack, api.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", resolver.ErrCatalogUnavailable, err)
	}
	return candidatesFromResults(results), nil
}

// Spotify supports field-scoped search, so the resolver's queries use it.

func (c *Client) CombinedQuery(title, artist string) string {
	if artist == "" {
		return c.TitleQuery(title)
	}
	return fmt.Sprintf(`track:"%s" artist:"%s"`, title, artist)
}

func (c *Client) TitleQuery(title string) string {
	return fmt.Sprintf(`track:"%s"`, title)
}

func (c *Client) ArtistQuery(artist string) string {
	return fmt.Sprintf(`artist:"%s"`, artist)
}

// CreatePlaylist creates a private playlist for the current user and
// returns its ID.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: current user: %v", resolver.ErrCatalogUnavailable, err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	playlist, err := c.api.CreatePlaylistForUser(ctx, user.ID, name, description, false, false)
	if err != nil {
		return "", fmt.Errorf("%w: create playlist: %v", resolver.ErrCatalogUnavailable, err)
	}
	c.log.WithFields(logrus.Fields{"playlist": name, "id": playlist.ID}).Debug("created playlist")
	return string(playlist.ID), nil
}

// AddTracks appends catalog IDs to the playlist, batched at the API's
// 100-track ceiling per call.
func (c *Client) AddTracks(ctx context.Context, playlistID string, ids []string) error {
	for _, batch := range batches(ids, addBatchSize) {
		trackIDs := make([]api.ID, 0, len(batch))
		for _, id := range batch {
			trackIDs = append(trackIDs, api.ID(id))
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		if _, err := c.api.AddTracksToPlaylist(ctx, api.ID(playlistID), trackIDs...); err != nil {
			return fmt.Errorf("%w: add tracks: %v", resolver.ErrCatalogUnavailable, err)
		}
	}
	return nil
}

func candidatesFromResults(results *api.SearchResult) []entity.CatalogCandidate {
	if results == nil || results.Tracks == nil {
		return nil
	}
	candidates := make([]entity.CatalogCandidate, 0, len(results.Tracks.Tracks))
	for _, track := range results.Tracks.Tracks {
		var artist string
		if len(track.Artists) > 0 {
			artist = track.Artists[0].Name
		}
		candidates = append(candidates, entity.CatalogCandidate{
			ID:     track.ID.String(),
			Title:  track.Name,
			Artist: artist,
		})
	}
	return candidates
}

func batches(ids []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end])
	}
	return out
}
