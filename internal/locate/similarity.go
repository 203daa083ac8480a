package locate

// Similarity scores how alike two strings are, in [0, 1]. The fuzzy cascade
// step is written against this interface so the edit-distance algorithm can
// be swapped without touching cascade logic.
type Similarity interface {
	Ratio(a, b string) float64
}

// ratcliffObershelp is the default similarity: the Ratcliff/Obershelp
// gestalt ratio, the same algorithm the 0.6 threshold was tuned against.
// Twice the number of matching characters over the combined length, where
// matches are counted by taking the longest common substring and recursing
// on the unmatched pieces to either side of it.
type ratcliffObershelp struct{}

// DefaultSimilarity returns the standard similarity implementation.
func DefaultSimilarity() Similarity {
	return ratcliffObershelp{}
}

func (ratcliffObershelp) Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingRunes(ra, rb)) / float64(total)
}

func matchingRunes(a, b []rune) int {
	ai, bi, size := longestCommon(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingRunes(a[:ai], b[:bi]) +
		matchingRunes(a[ai+size:], b[bi+size:])
}

// longestCommon finds the longest common substring of a and b, preferring
// the block starting earliest in a (then earliest in b) on ties.
func longestCommon(a, b []rune) (ai, bi, size int) {
	j2len := make(map[int]int)
	for i := range a {
		next := make(map[int]int)
		for j := range b {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > size {
				ai, bi, size = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return ai, bi, size
}
