package nativediff

import "strings"

// scoreIdenticalCap caps the similarity of non-identical content at 99, so a
// score of 100 always means a pure rename with zero content delta.
const scoreIdenticalCap = 99

// similarityScore returns a 0-100 similarity between two texts: 100 iff the
// texts are byte-identical, otherwise a multiset Jaccard index over their
// lines, capped at 99.
func similarityScore(a, b string) int {
	if a == b {
		return 100
	}

	countsA := lineCounts(a)
	countsB := lineCounts(b)

	var intersection, union int
	for line, ca := range countsA {
		cb := countsB[line]
		intersection += min(ca, cb)
		union += max(ca, cb)
	}
	for line, cb := range countsB {
		if _, seen := countsA[line]; !seen {
			union += cb
		}
	}

	if union == 0 {
		return scoreIdenticalCap
	}

	score := (100*intersection + union/2) / union
	if score > scoreIdenticalCap {
		score = scoreIdenticalCap
	}
	return score
}

// lineCounts builds the line multiset of a text.
func lineCounts(s string) map[string]int {
	counts := make(map[string]int)
	if s == "" {
		return counts
	}
	for _, line := range strings.Split(strings.TrimSuffix(s, "\n"), "\n") {
		counts[line]++
	}
	return counts
}
