package resolver

import "tunebridge/entity"

// RankedCandidate pairs a catalog candidate with the combined similarity
// score that selected it.
type RankedCandidate struct {
	Candidate entity.CatalogCandidate
	Score     float64
}

// Rank scores every candidate against the target title/artist pair and
// returns the one with the strictly highest combined score above the
// threshold, or nil when none clears it. An empty target artist forces
// the artist component to 1.0 so title similarity alone decides. Ties
// keep the earlier candidate: the catalog's own ordering is treated as
// pre-sorted by relevance.
func Rank(candidates []entity.CatalogCandidate, title, artist string, titleWeight, artistWeight, threshold float64) *RankedCandidate {
	var (
		best      *RankedCandidate
		bestScore float64
	)
	for _, candidate := range candidates {
		titleScore := Score(candidate.Title, title)
		artistScore := 1.0
		if artist != "" {
			artistScore = Score(candidate.Artist, artist)
		}
		combined := titleWeight*titleScore + artistWeight*artistScore
		if combined > bestScore && combined > threshold {
			bestScore = combined
			best = &RankedCandidate{Candidate: candidate, Score: combined}
		}
	}
	return best
}
