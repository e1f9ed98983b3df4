package boxscore

import "strings"

// Normalize canonicalizes OCR text for fuzzy comparison: uppercase, fold the
// 0/O glyph confusion, strip everything outside [A-Z0-9]. Both sides of any
// comparison must go through the same normalization, which makes the fold
// direction irrelevant.
func Normalize(s string) string {
	s = strings.ToUpper(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == 'O':
			return '0'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return -1
	}, s)
}

// Similarity scores two OCR-derived strings after normalization. 1.0 means
// identical.
func Similarity(a, b string) float64 {
	return ratio(Normalize(a), Normalize(b))
}

// ratio is a normalized edit-distance score in [0,1].
func ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			m := prev[j] + 1
			if v := cur[j-1] + 1; v < m {
				m = v
			}
			if v := prev[j-1] + cost; v < m {
				m = v
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
