package dataset

import "strings"

// Similarity returns a 0–1 ratio of how alike two strings are, case
// insensitively: twice the number of characters in common (over recursively
// matched longest common substrings) divided by the total length.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchedRunes(ra, rb)) / float64(total)
}

func matchedRunes(a, b []rune) int {
	ai, bi, size := longestCommonRun(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchedRunes(a[:ai], b[:bi]) +
		matchedRunes(a[ai+size:], b[bi+size:])
}

// longestCommonRun finds the longest common substring of a and b, preferring
// the earliest occurrence in a, then in b.
func longestCommonRun(a, b []rune) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)

	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] == b[j] {
				cur[j+1] = prev[j] + 1
				if cur[j+1] > size {
					size = cur[j+1]
					ai = i - size + 1
					bi = j - size + 1
				}
			} else {
				cur[j+1] = 0
			}
		}
		prev, cur = cur, prev
	}
	return ai, bi, size
}
