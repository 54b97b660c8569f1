// Package identity canonicalizes RUT strings so that different spellings of
// the same national ID compare equal everywhere they are used as keys.
package identity

import "strings"

// Normalize canonicalizes a free-form RUT into a comparable identity key:
// dots, dashes and whitespace are stripped and the result is upper-cased.
// Returns "" when the input is empty or contains only separators.
// PRE: none
// POST: Normalize(Normalize(x)) == Normalize(x)
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case '.', '-', ' ', '\t', '\n', '\r':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
