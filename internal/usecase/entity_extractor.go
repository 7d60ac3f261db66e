package usecase

import (
	"strings"

	"github.com/gabohq/backend/internal/domain"
)

// Default acceptance score for the whole-phrase fuzzy fallback
const defaultPhraseThreshold = 85.0

// EntityExtractor pulls the product term out of a conversational
// utterance by matching its tokens against the catalog name whitelist.
type EntityExtractor struct {
	normalizer      *Normalizer
	stopWords       map[string]bool
	phraseThreshold float64
}

// NewEntityExtractor creates an extractor with the given stop-word table.
// A non-positive phraseThreshold falls back to the default.
func NewEntityExtractor(normalizer *Normalizer, rules *domain.RuleSet, phraseThreshold float64) *EntityExtractor {
	stopWords := map[string]bool{}
	if rules != nil && rules.StopWords != nil {
		stopWords = rules.StopWords
	}
	if phraseThreshold <= 0 {
		phraseThreshold = defaultPhraseThreshold
	}
	return &EntityExtractor{
		normalizer:      normalizer,
		stopWords:       stopWords,
		phraseThreshold: phraseThreshold,
	}
}

// Extract resolves an utterance to a canonical catalog name. The token
// pass looks for exact whitelist hits, trying dictionary and trailing-s
// singularization on each non-filler token. When no token resolves, the
// whole normalized phrase is fuzzy-matched against every whitelist name
// and the best one is accepted above the phrase threshold.
//
// whitelist entries are expected in raw catalog form; they are normalized
// internally. The returned name is normalized. ok is false when nothing
// resolves.
func (e *EntityExtractor) Extract(utterance string, whitelist []string) (string, bool) {
	phrase := e.normalizer.Normalize(utterance)
	if phrase == "" || len(whitelist) == 0 {
		return "", false
	}

	names := make([]string, 0, len(whitelist))
	nameSet := make(map[string]bool, len(whitelist))
	for _, w := range whitelist {
		n := e.normalizer.Normalize(w)
		if n == "" || nameSet[n] {
			continue
		}
		names = append(names, n)
		nameSet[n] = true
	}

	for _, token := range strings.Fields(phrase) {
		if len(token) <= 2 || e.stopWords[token] {
			continue
		}
		for _, candidate := range e.tokenForms(token) {
			if nameSet[candidate] {
				return candidate, true
			}
		}
	}

	bestName := ""
	bestScore := 0.0
	for _, name := range names {
		score := partialScore(phrase, name)
		if score > bestScore {
			bestScore = score
			bestName = name
		}
	}
	if bestScore >= e.phraseThreshold {
		return bestName, true
	}

	return "", false
}

// tokenForms returns the lookup variants of a token: as-is and, for
// longer words, the trailing-s-stripped singular. Dictionary plurals are
// already resolved by Normalize before tokens reach this point.
func (e *EntityExtractor) tokenForms(token string) []string {
	forms := []string{token}
	if len(token) > 3 && strings.HasSuffix(token, "s") {
		forms = append(forms, strings.TrimSuffix(token, "s"))
	}
	return forms
}
