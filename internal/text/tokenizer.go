// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package text

import (
	"strings"
	"unicode"
)

// stopwords are removed from both corpus documents and queries. The same
// tokenizer must process both sides or cosine similarity is meaningless.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true,
	"has": true, "have": true, "how": true, "i": true, "if": true,
	"in": true, "is": true, "it": true, "its": true, "of": true,
	"on": true, "or": true, "that": true, "the": true, "this": true,
	"to": true, "was": true, "we": true, "were": true, "what": true,
	"when": true, "where": true, "which": true, "will": true, "with": true,
	"you": true, "your": true,
}

// Tokenize normalizes free text into a lowercase token sequence:
// punctuation becomes whitespace, tokens are split on whitespace and
// stopwords are dropped. Deterministic and side-effect-free.
func Tokenize(s string) []string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// IsStopword reports whether the tokenizer would drop the given term
func IsStopword(term string) bool {
	return stopwords[strings.ToLower(term)]
}
