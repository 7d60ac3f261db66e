package usecase

import (
	"strings"

	"github.com/gabohq/backend/internal/domain"
)

// Scoring weights for the confidence blend
const (
	charSimilarityWeight = 0.6
	wordOverlapWeight    = 0.4
	exclusionPenalty     = 0.5
)

// ConfidenceScorer rates how plausibly a candidate product answers a
// query term, blending character similarity with word overlap and
// penalizing candidates that carry a disqualifying counter-term.
type ConfidenceScorer struct {
	normalizer *Normalizer
	exclusions map[string][]string
}

// NewConfidenceScorer creates a scorer backed by the rule set's
// exclusion table.
func NewConfidenceScorer(normalizer *Normalizer, rules *domain.RuleSet) *ConfidenceScorer {
	exclusions := map[string][]string{}
	if rules != nil && rules.Exclusions != nil {
		exclusions = rules.Exclusions
	}
	return &ConfidenceScorer{normalizer: normalizer, exclusions: exclusions}
}

// Score returns a confidence in [0,1] for candidateName answering term.
// term is expected normalized; candidateName may be a raw display name.
func (s *ConfidenceScorer) Score(term, candidateName string) float64 {
	name := s.normalizer.Normalize(candidateName)
	if term == "" || name == "" {
		return 0
	}

	charSim := sequenceRatio(term, name)

	termWords := strings.Fields(term)
	nameWords := strings.Fields(name)
	overlap := wordOverlap(termWords, nameWords)

	score := charSim*charSimilarityWeight + overlap*wordOverlapWeight
	if s.excluded(termWords, nameWords) {
		score -= exclusionPenalty
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// excluded reports whether the query and candidate fall on opposite sides
// of an exclusion rule: a word of one side is a table key and any of its
// counter-terms appears on the other side.
func (s *ConfidenceScorer) excluded(termWords, nameWords []string) bool {
	return s.conflicts(termWords, nameWords) || s.conflicts(nameWords, termWords)
}

func (s *ConfidenceScorer) conflicts(keys, other []string) bool {
	if len(s.exclusions) == 0 {
		return false
	}
	otherSet := make(map[string]bool, len(other))
	for _, w := range other {
		otherSet[w] = true
	}
	for _, w := range keys {
		for _, counter := range s.exclusions[w] {
			if otherSet[counter] {
				return true
			}
		}
	}
	return false
}

// wordOverlap is the fraction of query words present in the candidate.
func wordOverlap(termWords, nameWords []string) float64 {
	if len(termWords) == 0 {
		return 0
	}
	nameSet := make(map[string]bool, len(nameWords))
	for _, w := range nameWords {
		nameSet[w] = true
	}
	matched := 0
	for _, w := range termWords {
		if nameSet[w] {
			matched++
		}
	}
	return float64(matched) / float64(len(termWords))
}
