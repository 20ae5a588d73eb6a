package schedule

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lower-cases s and strips combining marks, so "Пётр" and "петр"
// compare equal. The breve goes too: "й" folds to "и". The transformer is
// rebuilt per call; transform.Chain values are not safe for concurrent use.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// Match reports whether every whitespace-separated token of query occurs
// somewhere in fullName. Tokens are checked independently, in any order.
func Match(fullName, query string) bool {
	name := fold(fullName)
	if name == "" {
		return false
	}
	tokens := strings.Fields(fold(query))
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !strings.Contains(name, tok) {
			return false
		}
	}
	return true
}
