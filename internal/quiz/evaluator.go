package quiz

import (
	"strings"

	"github.com/dilan/peyvin/internal/models"
)

// VariantDelimiter separates acceptable answer variants stored inline in the
// word bank (e.g. "du / didu"). The delimiter is literal: splitting happens
// on " / " only, so "du/didu" is a single token, not two variants.
const VariantDelimiter = " / "

const punctuation = "?.!,;:"

// Normalize lowercases s, strips the fixed punctuation set and trims
// surrounding whitespace.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// IsCorrect reports whether candidate matches the question's accepted answer.
// A candidate matches if it equals the whole normalized answer or any single
// normalized variant. Pure function; callers update session counters.
func IsCorrect(candidate string, q models.Question) bool {
	got := Normalize(candidate)
	if got == "" {
		return false
	}
	if got == Normalize(q.Answer) {
		return true
	}
	for _, variant := range strings.Split(q.Answer, VariantDelimiter) {
		if got == Normalize(variant) {
			return true
		}
	}
	return false
}
