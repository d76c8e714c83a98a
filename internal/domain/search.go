package domain

import (
	"path"
	"strings"
)

const (
	// Match tiers
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Earlier substring matches score up to this much more.
	ScorePositionBonus = 10.0

	// Below this character similarity a fuzzy match scores nothing.
	fuzzyThreshold = 0.5
)

// Field weights: a title hit outranks the same hit in a description.
const (
	weightTitle       = 1.0
	weightTag         = 0.8
	weightFile        = 0.6
	weightDescription = 0.4
)

// ScoreText scores how well query matches text, case-insensitively.
// Zero means no match.
func ScoreText(query, text string) float64 {
	query = strings.ToLower(strings.TrimSpace(query))
	text = strings.ToLower(strings.TrimSpace(text))
	if query == "" || text == "" {
		return 0.0
	}

	if query == text {
		return ScoreExactMatch
	}
	if strings.HasPrefix(text, query) {
		return ScorePrefixMatch
	}
	if idx := strings.Index(text, query); idx >= 0 {
		return ScoreSubstringMatch + ScorePositionBonus*(1.0-float64(idx)/float64(len(text)))
	}

	// Every query word somewhere in the text.
	if words := strings.Fields(query); len(words) > 1 {
		all := true
		for _, w := range words {
			if !strings.Contains(text, w) {
				all = false
				break
			}
		}
		if all {
			return ScoreFuzzyMatch
		}
	}

	// Single words only; a long description contains most letters.
	if !strings.ContainsAny(query, " \t") && !strings.ContainsAny(text, " \t") {
		if sim := charSimilarity(query, text); sim > fuzzyThreshold {
			return ScoreFuzzyMatch * sim
		}
	}
	return 0.0
}

// ScoreBookmark returns the best weighted field score of b for query.
func ScoreBookmark(query string, b Bookmark) float64 {
	best := weightTitle * ScoreText(query, b.Title)

	for _, tag := range b.Tags {
		best = max(best, weightTag*ScoreText(query, tag))
	}
	if loc, err := ParseLocation(b.Location); err == nil {
		file := slashed(loc.FilePath)
		best = max(best, weightFile*ScoreText(query, file), weightFile*ScoreText(query, path.Base(file)))
	}
	best = max(best, weightDescription*ScoreText(query, b.Description))

	return best
}

// charSimilarity is the share of query runes that occur in text.
func charSimilarity(query, text string) float64 {
	n, matches := 0, 0
	for _, c := range query {
		n++
		if strings.ContainsRune(text, c) {
			matches++
		}
	}
	if n == 0 {
		return 0.0
	}
	return float64(matches) / float64(n)
}
