// Package textx provides small text utilities used across the project.
package textx

import (
	"regexp"
	"strings"
)

var (
	wordRe       = regexp.MustCompile(`\w+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	punctRe      = regexp.MustCompile(`[^\w\s\-.]`)
	sentenceRe   = regexp.MustCompile(`[.!?]+`)
)

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	// strip control chars outside tab/newline/carriage return
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Normalize lowercases text, strips punctuation except hyphens and dots, and
// collapses whitespace runs to single spaces.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = punctRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Words returns the word tokens of s (letters, digits, underscore).
func Words(s string) []string {
	return wordRe.FindAllString(s, -1)
}

// Sentences splits s on sentence terminators (.!?) and drops blank fragments.
func Sentences(s string) []string {
	parts := sentenceRe.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
