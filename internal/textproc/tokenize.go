// Package textproc turns raw disaster messages into the normalized tokens
// the vectorizer counts.
package textproc

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// isWordOrSpace keeps combining marks so accented letters and vowel signs
// survive.
func isWordOrSpace(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) ||
		r == '_' || unicode.IsSpace(r)
}

// sanitizer composes text to NFC and drops punctuation. Transformers carry
// state, so a fresh chain is built for every call.
func sanitizer() transform.Transformer {
	return transform.Chain(
		norm.NFC,
		runes.Remove(runes.Predicate(func(r rune) bool { return !isWordOrSpace(r) })),
	)
}

// Tokenize splits text into lower-cased, lemmatized word tokens. Characters
// that are neither word characters nor whitespace are removed before
// splitting, so "don't" becomes "dont".
func Tokenize(text string) []string {
	clean, _, err := transform.String(sanitizer(), text)
	if err != nil {
		// skip composition, still drop punctuation
		clean = strings.Map(func(r rune) rune {
			if isWordOrSpace(r) {
				return r
			}
			return -1
		}, text)
	}
	lower := cases.Lower(language.Und)

	fields := strings.Fields(clean)
	tokens := fields[:0]
	for _, f := range fields {
		tok := strings.TrimSpace(Lemmatize(lower.String(f)))
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
