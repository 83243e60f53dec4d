package utils

import (
	"math"
	"strings"
)

// NameScore scores two person names on a 0-100 scale. Each side is reduced
// to "GIVEN FAMILY" (first and last tokens) and the rejoined strings are
// compared with a partial ratio, so a dropped middle initial or honorific
// does not sink the score. Empty input on either side scores 0.
func NameScore(n1, n2 string) float64 {
	if strings.TrimSpace(n1) == "" || strings.TrimSpace(n2) == "" {
		return 0.0
	}

	f1, l1 := SplitName(n1)
	f2, l2 := SplitName(n2)

	j1 := strings.TrimSpace(f1 + " " + l1)
	j2 := strings.TrimSpace(f2 + " " + l2)

	return round2(PartialRatio(j1, j2))
}

// NameScoreBlend is the alternative convention: first and last tokens are
// scored separately with partial ratios and averaged 50/50.
func NameScoreBlend(n1, n2 string) float64 {
	if strings.TrimSpace(n1) == "" || strings.TrimSpace(n2) == "" {
		return 0.0
	}

	f1, l1 := SplitName(n1)
	f2, l2 := SplitName(n2)

	return round2(0.5*PartialRatio(f1, f2) + 0.5*PartialRatio(l1, l2))
}

// ExactScore scores fixed-format values (PAN numbers, dates). Equal
// non-empty values score exactly 100 ignoring case; anything else falls
// back to a normalized edit-distance ratio. Partial matching is deliberately
// not used here: a sliding window over a fixed-width code would report false
// positives. The ratio is symmetric in its arguments.
func ExactScore(v1, v2 string) float64 {
	if v1 == "" || v2 == "" {
		return 0.0
	}
	if strings.EqualFold(v1, v2) {
		return 100.0
	}
	return round2(Ratio(strings.ToUpper(v1), strings.ToUpper(v2)))
}

// SplitName normalizes a name and returns its given and family tokens.
// With three or more tokens the first is the given name and the last the
// family name; middles are dropped on both sides.
func SplitName(name string) (first, last string) {
	tokens := strings.Fields(strings.ToUpper(strings.TrimSpace(name)))
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], ""
	default:
		return tokens[0], tokens[len(tokens)-1]
	}
}

// Ratio is an indel-based similarity in [0,100]: 100 means identical,
// 0 means nothing in common.
func Ratio(s1, s2 string) float64 {
	r1, r2 := []rune(s1), []rune(s2)
	total := len(r1) + len(r2)
	if total == 0 {
		return 100.0
	}
	dist := indelDistance(r1, r2)
	return 100.0 * (1.0 - float64(dist)/float64(total))
}

// PartialRatio slides the shorter string across the longer one and returns
// the best window Ratio, so a string fully contained in the other scores 100.
func PartialRatio(s1, s2 string) float64 {
	shorter, longer := []rune(s1), []rune(s2)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		if len(longer) == 0 {
			return 100.0
		}
		return 0.0
	}
	if len(shorter) == len(longer) {
		return Ratio(string(shorter), string(longer))
	}

	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := longer[i : i+len(shorter)]
		score := Ratio(string(shorter), string(window))
		if score > best {
			best = score
		}
		if best == 100.0 {
			break
		}
	}
	return best
}

// indelDistance is the edit distance when only insertions and deletions are
// allowed (a substitution costs 2).
func indelDistance(r1, r2 []rune) int {
	n, m := len(r1), len(r2)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for j := 0; j <= m; j++ {
		prev[j] = j
	}

	for i := 1; i <= n; i++ {
		curr[0] = i
		for j := 1; j <= m; j++ {
			if r1[i-1] == r2[j-1] {
				curr[j] = prev[j-1]
			} else {
				del := prev[j] + 1
				ins := curr[j-1] + 1
				if del < ins {
					curr[j] = del
				} else {
					curr[j] = ins
				}
			}
		}
		prev, curr = curr, prev
	}
	return prev[m]
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
