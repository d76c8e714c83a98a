package domain

import "strings"

// CaveatThreshold is the lowest similarity still considered valid.
const CaveatThreshold = 0.5

// Validity is the outcome of a drift check.
type Validity string

const (
	ValidityValid   Validity = "valid"
	ValidityChanged Validity = "changed" // valid with caveat
	ValidityInvalid Validity = "invalid"
)

// Similarity is the Jaccard index over whitespace-delimited token sets.
// Two empty sets are identical (1.0).
func Similarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// ClassifyDrift compares a stored snapshot against the current text.
// An empty snapshot has nothing to compare and counts as valid.
func ClassifyDrift(snapshot, current string) (Validity, float64) {
	if snapshot == "" {
		return ValidityValid, 1.0
	}
	if strings.TrimSpace(snapshot) == strings.TrimSpace(current) {
		return ValidityValid, 1.0
	}

	score := Similarity(snapshot, current)
	if score >= CaveatThreshold {
		return ValidityChanged, score
	}
	return ValidityInvalid, score
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
