package usecase

import "strings"

// sequenceRatio computes character similarity between two strings in the
// 0..1 range using recursive longest-common-block matching, the same
// measure difflib-style matchers produce: 2*M/T where M is the total
// matched character count and T the combined length.
func sequenceRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	ra := []rune(a)
	rb := []rune(b)
	matched := matchingBlocks(ra, rb)
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

// matchingBlocks returns the total length of matched runes between a and b,
// found by locating the longest common block and recursing on both sides.
func matchingBlocks(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingBlocks(a[:ai], b[:bi])
	total += matchingBlocks(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonBlock finds the longest common contiguous run between a and b.
// Returns the start index in each string and the run length.
func longestCommonBlock(a, b []rune) (int, int, int) {
	bestA, bestB, bestSize := 0, 0, 0
	// lengths[j] holds the common-run length ending at a[i-1], b[j-1]
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prevDiag := 0
		for j := 1; j <= len(b); j++ {
			saved := lengths[j]
			if a[i-1] == b[j-1] {
				lengths[j] = prevDiag + 1
				if lengths[j] > bestSize {
					bestSize = lengths[j]
					bestA = i - bestSize
					bestB = j - bestSize
				}
			} else {
				lengths[j] = 0
			}
			prevDiag = saved
		}
	}
	return bestA, bestB, bestSize
}

// partialScore measures how well a short needle fits inside a longer text,
// on a 0..100 scale. It takes the best of two views: the needle slid as a
// window across the text, and the best token-to-token ratio between the
// two strings. The token view is what recovers single-word misspellings
// buried in multi-word names.
func partialScore(needle, text string) float64 {
	if needle == "" || text == "" {
		return 0
	}
	shorter, longer := needle, text
	if len([]rune(shorter)) > len([]rune(longer)) {
		shorter, longer = longer, shorter
	}

	rs := []rune(shorter)
	rl := []rune(longer)
	best := 0.0
	for i := 0; i+len(rs) <= len(rl); i++ {
		r := sequenceRatio(string(rs), string(rl[i:i+len(rs)]))
		if r > best {
			best = r
		}
		if best == 1 {
			break
		}
	}

	for _, nt := range strings.Fields(needle) {
		for _, tt := range strings.Fields(text) {
			if r := sequenceRatio(nt, tt); r > best {
				best = r
			}
		}
	}

	return best * 100
}
