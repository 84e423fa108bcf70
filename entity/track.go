package entity

// LocalTrack carries the metadata of one track in the local collection,
// as read from its tags or derived from its filename. Title and Artist
// may be empty when extraction yielded nothing; they are never nil-like
// sentinels, just empty strings.
type LocalTrack struct {
	Title    string
	Artist   string
	Album    string
	Path     string
	Duration int // in seconds, 0 when unknown
}

// CatalogCandidate is one entry returned by a catalog search query.
// The engine cares about nothing beyond these fields.
type CatalogCandidate struct {
	ID     string
	Title  string
	Artist string
}

// Stage identifies which step of the resolution strategy accepted a match.
type Stage int

const (
	StageExact Stage = iota
	StageFuzzy
	StageTitleOnly
	StageArtistFallback
)

func (stage Stage) String() string {
	switch stage {
	case StageExact:
		return "exact"
	case StageFuzzy:
		return "fuzzy"
	case StageTitleOnly:
		return "title_only"
	case StageArtistFallback:
		return "artist_fallback"
	}
	return "unknown"
}

// MatchResult is the outcome of a successful resolution: the catalog
// track chosen for a LocalTrack, with the stage that accepted it and
// the combined similarity score that stage computed. Absence of a
// MatchResult means "not found", which is a valid outcome, not an error.
type MatchResult struct {
	CatalogID  string
	Title      string
	Artist     string
	Stage      Stage
	Confidence float64
}
