package usecase

import (
	"strings"

	"github.com/gabohq/backend/internal/domain"
)

// IntentClassifier assigns a coarse intent to an utterance by keyword
// lookup against an ordered rule table. The first rule containing a
// matching keyword wins, so rule order defines intent priority.
type IntentClassifier struct {
	rules []domain.IntentRule
}

// NewIntentClassifier creates a classifier from the given rule set.
func NewIntentClassifier(rules *domain.RuleSet) *IntentClassifier {
	if rules == nil {
		rules = domain.DefaultRules()
	}
	return &IntentClassifier{rules: rules.IntentRules}
}

// Classify returns the intent of an utterance. Matching runs on the
// lowercased accent-folded text so "¿Cuánto cuesta?" and "cuanto cuesta"
// classify identically. Utterances hitting no rule fall back to general.
func (c *IntentClassifier) Classify(utterance string) domain.Intent {
	folded := foldText(utterance)
	if strings.TrimSpace(folded) == "" {
		return domain.IntentGeneral
	}

	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(folded, kw) {
				return rule.Intent
			}
		}
	}
	return domain.IntentGeneral
}
