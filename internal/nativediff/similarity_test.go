package nativediff

import "testing"

// TestSimilarityScore exercises the score boundaries.
func TestSimilarityScore(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "a\nb\nc\n", "a\nb\nc\n", 100},
		{"identical empty", "", "", 100},
		{"disjoint", "a\nb\n", "x\ny\n", 0},
		{"half shared", "a\nb\n", "a\nx\n", 33}, // 1 shared of 3 distinct.
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := similarityScore(tt.a, tt.b); got != tt.want {
				t.Errorf("similarityScore(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// TestSimilarityScoreNeverFakes100 verifies different content can never reach
// the pure-rename score.
func TestSimilarityScoreNeverFakes100(t *testing.T) {
	// Same lines, different trailing newline: high similarity, not identity.
	if got := similarityScore("a\nb\nc", "a\nb\nc\n"); got >= 100 {
		t.Errorf("similarityScore() = %d, want < 100 for non-identical content", got)
	}
}

// TestSimilarityScoreMostlyShared verifies a large overlap lands between the
// threshold region and the cap.
func TestSimilarityScoreMostlyShared(t *testing.T) {
	a := "one\ntwo\nthree\nfour\nfive\nsix\nseven\neight\nnine\nten\n"
	b := "one\ntwo\nthree\nfour\nfive\nsix\nseven\neight\nnine\nCHANGED\n"

	got := similarityScore(a, b)
	if got < 70 || got > scoreIdenticalCap {
		t.Errorf("similarityScore() = %d, want within (70, %d]", got, scoreIdenticalCap)
	}
}
