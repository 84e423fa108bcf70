package resolver

import (
	"regexp"
	"strings"
)

// containmentFloor is the minimum score granted when one normalized
// string contains the other, e.g. "song" inside "songbird".
const containmentFloor = 0.85

var nonAlnumExpr = regexp.MustCompile(`[^\p{L}\p{N}]`)

// Score computes a bounded [0,1] similarity between two strings. Both are
// normalized first, then compared with a Ratcliff/Obershelp sequence ratio;
// substring containment raises the score to at least 0.85, and a second
// ratio pass over alphanumeric-only variants absorbs whatever spacing
// differences the normalization left behind. The maximum of all passes
// wins. Score(x, x) == 1 for non-empty x; two empty strings carry no
// signal and score 0.
func Score(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	ratio := sequenceRatio(na, nb)
	if na != "" && nb != "" && (strings.Contains(na, nb) || strings.Contains(nb, na)) {
		ratio = max(ratio, containmentFloor)
	}
	ratio = max(ratio, sequenceRatio(
		nonAlnumExpr.ReplaceAllString(na, ""),
		nonAlnumExpr.ReplaceAllString(nb, ""),
	))
	return min(max(ratio, 0), 1)
}

// sequenceRatio is the Ratcliff/Obershelp similarity: twice the total
// length of matching blocks over the combined length of both strings.
// Blocks are found by locating the longest common substring and recursing
// into the unmatched pieces on either side.
func sequenceRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	return 2 * float64(matchingRunes(ra, rb)) / float64(total)
}

func matchingRunes(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingRunes(a[:ai], b[:bi]) +
		matchingRunes(a[ai+size:], b[bi+size:])
}

func longestCommonBlock(a, b []rune) (ai, bi, size int) {
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		next := make([]int, len(b)+1)
		for j := 1; j <= len(b); j++ {
			if a[i-1] != b[j-1] {
				continue
			}
			next[j] = lengths[j-1] + 1
			if next[j] > size {
				size = next[j]
				ai = i - size
				bi = j - size
			}
		}
		lengths = next
	}
	return ai, bi, size
}
