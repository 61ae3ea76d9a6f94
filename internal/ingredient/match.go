package ingredient

import (
	"regexp"
	"strings"
)

// Name matching for link suggestions. PURE logic (NO db / NO http).
// Recipe lines arrive with free-form names ("Flour (all purpose)",
// "butter - salted"); the matcher proposes the closest catalog entry
// so the operator only has to confirm.

// MatchThreshold is the minimum score for a usable suggestion.
const MatchThreshold = 0.6

var (
	parenthetical = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	dashSuffix    = regexp.MustCompile(`\s*-\s*.*$`)
	multiSpace    = regexp.MustCompile(`\s+`)
)

// NormalizeName strips measurement annotations and dash suffixes and
// collapses whitespace so cosmetic differences don't defeat matching.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = parenthetical.ReplaceAllString(name, " ")
	name = dashSuffix.ReplaceAllString(name, "")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// Similarity scores two names in [0,1] after normalization:
// 2*LCS / (len(a)+len(b)).
func Similarity(a, b string) float64 {
	a = NormalizeName(a)
	b = NormalizeName(b)
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return 2 * float64(lcsLength(a, b)) / float64(total)
}

func lcsLength(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// Match is a suggested catalog link for a recipe line.
type Match struct {
	IngredientID string
	Confidence   float64
	Reason       string // "exact" | "contains" | "fuzzy" | "cost_hint" | "no_match"
}

// BestMatch finds the closest catalog entry for a recipe line name.
// A known unit cost close to a candidate's boosts that candidate:
// identical produce names from different suppliers usually price apart.
func BestMatch(name string, unitCost float64, catalog []Ingredient) Match {
	noMatch := Match{Reason: "no_match"}
	if name == "" {
		return noMatch
	}

	normalized := NormalizeName(name)
	best := noMatch

	// Exact and containment matches first
	for _, ing := range catalog {
		master := NormalizeName(ing.Name)
		if master == "" {
			continue
		}
		if normalized == master {
			return Match{IngredientID: ing.ID, Confidence: 1.0, Reason: "exact"}
		}
		if strings.Contains(master, normalized) || strings.Contains(normalized, master) {
			if best.Confidence < 0.9 {
				best = Match{IngredientID: ing.ID, Confidence: 0.9, Reason: "contains"}
			}
		}
	}

	// Fuzzy pass with cost-proximity boost
	for _, ing := range catalog {
		score := Similarity(name, ing.Name)
		reason := "fuzzy"

		if unitCost > 0 && ing.CostPerUnit > 0 {
			diff := unitCost - ing.CostPerUnit
			if diff < 0 {
				diff = -diff
			}
			switch {
			case diff < 0.01:
				score += 0.2
				reason = "cost_hint"
			case diff < 0.1:
				score += 0.1
				reason = "cost_hint"
			}
		}
		if score > 1 {
			score = 1
		}

		if score > best.Confidence {
			best = Match{IngredientID: ing.ID, Confidence: score, Reason: reason}
		}
	}

	if best.Confidence < MatchThreshold {
		return noMatch
	}
	return best
}
