// Package match decides whether two independently observed items denote
// the same game, with strategy-selectable semantics and scoring.
package match

import (
	"strings"
	"unicode"
)

// Strategy selects the identity-resolution semantics for a comparison.
type Strategy string

const (
	// StrategyExact compares titles with case-sensitive equality.
	StrategyExact Strategy = "exact"

	// StrategyNormalized compares lowercased titles with all
	// non-alphanumeric characters stripped.
	StrategyNormalized Strategy = "normalized"

	// StrategyFuzzy compares edit-distance similarity against a threshold.
	StrategyFuzzy Strategy = "fuzzy"

	// StrategyExternalID compares a shared external identifier; absent
	// identifiers never match.
	StrategyExternalID Strategy = "external-id"

	// StrategyManual never matches automatically; only explicit user
	// action links items.
	StrategyManual Strategy = "manual"
)

// DefaultFuzzyThreshold applies when no threshold is configured.
const DefaultFuzzyThreshold = 0.9

// Candidate is one side of an identity comparison.
type Candidate struct {
	Title      string
	ExternalID string
}

// Matcher applies one strategy with a fixed threshold.
type Matcher struct {
	strategy  Strategy
	threshold float64
}

// NewMatcher creates a matcher. A non-positive threshold falls back to
// the default.
func NewMatcher(strategy Strategy, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &Matcher{strategy: strategy, threshold: threshold}
}

// Strategy returns the matcher's strategy.
func (m *Matcher) Strategy() Strategy {
	return m.strategy
}

// Match reports whether the two candidates denote the same game under
// the matcher's strategy.
func (m *Matcher) Match(a, b Candidate) bool {
	switch m.strategy {
	case StrategyExact:
		return a.Title != "" && a.Title == b.Title
	case StrategyNormalized:
		na, nb := NormalizeTitle(a.Title), NormalizeTitle(b.Title)
		return na != "" && na == nb
	case StrategyFuzzy:
		return m.Score(a, b) >= m.threshold
	case StrategyExternalID:
		return a.ExternalID != "" && a.ExternalID == b.ExternalID
	case StrategyManual:
		return false
	default:
		return false
	}
}

// Score returns the similarity of two candidates in [0,1]. Non-fuzzy
// strategies score 1 on match and 0 otherwise.
func (m *Matcher) Score(a, b Candidate) float64 {
	if m.strategy == StrategyFuzzy {
		return TitleSimilarity(NormalizeTitle(a.Title), NormalizeTitle(b.Title))
	}
	if m.Match(a, b) {
		return 1
	}
	return 0
}

// Result is the outcome of a best-match search.
type Result struct {
	Index     int
	Candidate Candidate
	Score     float64
}

// FindBestMatch searches candidates for the best match against target.
// The fuzzy strategy scores every candidate and returns the highest at
// or above threshold; every other strategy short-circuits on the first
// satisfying candidate.
func (m *Matcher) FindBestMatch(target Candidate, candidates []Candidate) (*Result, bool) {
	if m.strategy != StrategyFuzzy {
		for i, c := range candidates {
			if m.Match(target, c) {
				return &Result{Index: i, Candidate: c, Score: 1}, true
			}
		}
		return nil, false
	}

	best := Result{Index: -1}
	for i, c := range candidates {
		score := m.Score(target, c)
		if score >= m.threshold && score > best.Score {
			best = Result{Index: i, Candidate: c, Score: score}
		}
	}

	if best.Index < 0 {
		return nil, false
	}
	return &best, true
}

// NormalizeTitle lowercases a title and strips every non-alphanumeric
// character.
func NormalizeTitle(title string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// TitleSimilarity returns 1 - editDistance/maxLen in [0,1]. Equal
// strings short-circuit to 1.
func TitleSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	dist := editDistance(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	return 1 - float64(dist)/float64(maxLen)
}

// editDistance computes the Levenshtein distance with a two-row table.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)

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

			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
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
