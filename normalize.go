package main

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// normalizeText performs Unicode NFKC normalization, lowercases, and
// strips punctuation, leaving whitespace-separated word tokens. This is
// the single normalization applied at both training and scoring time;
// the two must never diverge.
func normalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.ToLower(normed)

	// Replace punctuation and symbols with spaces so "what's" and
	// "what s" tokenize identically and "R?" becomes "r".
	normed = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, normed)

	return strings.TrimSpace(normed)
}

// tokenizeText normalizes text and splits it into word tokens.
// Returns nil for text containing no word characters.
func tokenizeText(text string) []string {
	normed := normalizeText(text)
	if normed == "" {
		return nil
	}
	return strings.Fields(normed)
}
