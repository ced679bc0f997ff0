// Package match scores free text against a script graph's trigger
// phrases. It combines exact and containment checks with a trigram
// Jaccard similarity, all deterministic over the static corpus.
package match

// Similarity returns the Jaccard coefficient over the padded trigram
// sets of a and b, in [0,1]. Both inputs are padded with one leading
// and one trailing space before trigram extraction, so even a single
// character yields a trigram. Two empty strings score 0.
//
// The function performs no normalization; callers lower-case and trim
// before calling. It is pure and symmetric.
func Similarity(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 0
	}

	inter := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// trigrams extracts the set of length-3 rune windows of s padded with
// one space on each side.
func trigrams(s string) map[string]struct{} {
	padded := []rune(" " + s + " ")
	if len(padded) < 3 {
		return nil
	}
	set := make(map[string]struct{}, len(padded)-2)
	for i := 0; i+3 <= len(padded); i++ {
		set[string(padded[i:i+3])] = struct{}{}
	}
	return set
}
