package search

import "strings"

// FormatTextQuery converts free-form user text into a to_tsquery expression.
// The input is whitespace-normalized and split into tokens; every token gets
// a :* suffix so partial words match as prefixes, and tokens are joined with
// the AND operator. Empty or all-whitespace input yields an empty string,
// which callers treat as "no text query".
func FormatTextQuery(q string) string {
	tokens := strings.Fields(q)
	if len(tokens) == 0 {
		return ""
	}
	terms := make([]string, len(tokens))
	for i, tok := range tokens {
		terms[i] = tok + ":*"
	}
	return strings.Join(terms, " & ")
}
