package usecase

import (
	"regexp"
	"strings"
	"unicode"
)

// Default word budget for free-form answers
const defaultWordBudget = 150

// Fraction of the truncated text within which a sentence boundary is
// close enough to cut at
const sentenceCutWindow = 0.7

var (
	htmlTagRegex  = regexp.MustCompile(`<[^>]*>`)
	markdownRegex = regexp.MustCompile("[*_#`]+")
	stepLineRegex = regexp.MustCompile(`(?m)^\s*\d+[.)]\s`)
)

// gluedHeaders repairs header words the language model sometimes fuses
// together when emitting instruction answers.
var gluedHeaders = map[string]string{
	"Herramientasmateriales":  "Herramientas/materiales",
	"herramientasmateriales":  "herramientas/materiales",
	"Materialesnecesarios":    "Materiales necesarios",
	"materialesnecesarios":    "materiales necesarios",
	"Herramientasnecesarias":  "Herramientas necesarias",
	"herramientasnecesarias":  "herramientas necesarias",
}

// ResponseFormatter sanitizes assistant answers and keeps free-form ones
// inside the word budget. Structured instruction answers are exempt from
// truncation so numbered steps and safety warnings never get cut.
type ResponseFormatter struct {
	wordBudget int
}

// NewResponseFormatter creates a formatter. A non-positive budget falls
// back to the default.
func NewResponseFormatter(wordBudget int) *ResponseFormatter {
	if wordBudget <= 0 {
		wordBudget = defaultWordBudget
	}
	return &ResponseFormatter{wordBudget: wordBudget}
}

// Format sanitizes the text and, for unstructured answers over the word
// budget, truncates at the nearest earlier sentence boundary or appends
// an ellipsis.
func (f *ResponseFormatter) Format(text string) string {
	clean := f.sanitize(text)
	if clean == "" {
		return ""
	}
	if f.isStructured(clean) {
		return clean
	}

	words := strings.Fields(clean)
	if len(words) <= f.wordBudget {
		return clean
	}

	cut := strings.Join(words[:f.wordBudget], " ")
	if idx := lastSentenceEnd(cut); idx >= 0 && float64(idx) >= sentenceCutWindow*float64(len(cut)) {
		return cut[:idx+1]
	}
	return cut + "..."
}

// EnsureCaution appends a generic safety line to instruction answers that
// carry a materials header but no caution section.
func (f *ResponseFormatter) EnsureCaution(text string) string {
	folded := foldText(text)
	if !strings.Contains(folded, "herramientas/materiales") && !strings.Contains(folded, "materiales necesarios") {
		return text
	}
	if strings.Contains(folded, "precaucion") {
		return text
	}
	return strings.TrimRight(text, " \n") + "\n\nPrecaución: usa equipo de protección y trabaja en un área ventilada."
}

// sanitize strips HTML tags, markdown markers and non-text symbols, and
// repairs glued instruction headers.
func (f *ResponseFormatter) sanitize(text string) string {
	text = htmlTagRegex.ReplaceAllString(text, "")
	text = markdownRegex.ReplaceAllString(text, "")
	for glued, fixed := range gluedHeaders {
		text = strings.ReplaceAll(text, glued, fixed)
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) ||
			unicode.IsPunct(r) || unicode.Is(unicode.Sc, r) {
			b.WriteRune(r)
		}
	}

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// isStructured detects instruction-format answers: a materials header,
// a caution line, or numbered step lines.
func (f *ResponseFormatter) isStructured(text string) bool {
	folded := foldText(text)
	if strings.Contains(folded, "herramientas/materiales") ||
		strings.Contains(folded, "materiales necesarios") ||
		strings.Contains(folded, "precaucion:") {
		return true
	}
	return stepLineRegex.MatchString(text)
}

// lastSentenceEnd returns the byte index of the last sentence terminator
// in s, or -1.
func lastSentenceEnd(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case '.', '!', '?':
			return i
		}
	}
	return -1
}
