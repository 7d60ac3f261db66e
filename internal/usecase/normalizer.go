package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gabohq/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	multiSpaceRegex  = regexp.MustCompile(`\s+`)
)

// accentFolder strips combining marks after NFD decomposition, so
// "tubería" and "tuberia" normalize to the same form.
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldText lowercases a string and strips diacritics. It is the shared
// first step of every text comparison in this package.
func foldText(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Normalizer canonicalizes free-form Spanish queries into the form the
// catalog is searched with.
type Normalizer struct {
	singulars map[string]string
}

// NewNormalizer creates a normalizer backed by the given irregular
// plural dictionary.
func NewNormalizer(rules *domain.RuleSet) *Normalizer {
	singulars := map[string]string{}
	if rules != nil && rules.Singulars != nil {
		singulars = rules.Singulars
	}
	return &Normalizer{singulars: singulars}
}

// Normalize applies the full canonicalization chain: punctuation removal,
// accent folding, lowercasing, whitespace collapsing and dictionary
// singularization. The result is stable under repeated application.
func (n *Normalizer) Normalize(s string) string {
	cleaned := punctuationRegex.ReplaceAllString(s, " ")
	cleaned = foldText(cleaned)
	cleaned = strings.TrimSpace(multiSpaceRegex.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		return ""
	}

	words := strings.Fields(cleaned)
	for i, w := range words {
		if singular, ok := n.singulars[w]; ok {
			words[i] = singular
		}
	}
	return strings.Join(words, " ")
}

// NormalizeTerm normalizes a product term and additionally tries the
// trailing-s singularization heuristic on tokens the dictionary does not
// cover. The heuristic only applies when hasExact confirms the stripped
// form actually exists in the catalog, so "gas" never becomes "ga".
func (n *Normalizer) NormalizeTerm(s string, hasExact func(string) bool) string {
	normalized := n.Normalize(s)
	if normalized == "" || hasExact == nil {
		return normalized
	}

	words := strings.Fields(normalized)
	changed := false
	for i, w := range words {
		if _, ok := n.singulars[w]; ok {
			continue
		}
		if len(w) <= 3 || !strings.HasSuffix(w, "s") {
			continue
		}
		candidate := strings.TrimSuffix(w, "s")
		if hasExact(candidate) {
			words[i] = candidate
			changed = true
		}
	}
	if !changed {
		return normalized
	}
	return strings.Join(words, " ")
}
