package states

import (
	"lawatlas/domain/core"
)

// maxEditDistance bounds the fuzzy fallback. Tokens shorter than
// minFuzzyLength never fuzzy-match: two-letter codes are one edit away from
// each other, so codes must match exactly.
const (
	maxEditDistance = 2
	minFuzzyLength  = 4
)

// Resolve maps a free-text token to a canonical code.
// Matching order: exact normalized name/alternate/code, then fuzzy full-name
// match within maxEditDistance. A token that fails both returns
// core.ErrUnresolvedState.
func Resolve(token string) (Code, error) {
	norm := normalizeToken(token)
	if norm == "" {
		return "", core.ErrNoStateToken
	}

	if code, ok := byName[norm]; ok {
		return code, nil
	}

	if len([]rune(norm)) >= minFuzzyLength {
		if code, ok := fuzzyResolve(norm); ok {
			return code, nil
		}
	}

	return "", core.NewUnresolvedStateError(token)
}

// fuzzyResolve finds the unique closest full name within the edit budget.
// An ambiguous best distance (two jurisdictions equally close) resolves to
// neither; guessing between "Virginia" and "West Virginia" is worse than
// rejecting the row.
func fuzzyResolve(norm string) (Code, bool) {
	best := maxEditDistance + 1
	var bestCode Code
	ambiguous := false

	for _, j := range All {
		d := editDistance(norm, normalizeToken(j.Name))
		switch {
		case d < best:
			best = d
			bestCode = j.Code
			ambiguous = false
		case d == best:
			ambiguous = true
		}
	}

	if best > maxEditDistance || ambiguous {
		return "", false
	}
	return bestCode, true
}

// editDistance is the Levenshtein distance over runes.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
