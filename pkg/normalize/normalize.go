/*
Package normalize canonicalizes text for case- and width-insensitive comparison.

Every search path in setlistserve (autocomplete, filters, ranking keys) compares
normalized strings on both sides. The pipeline is fixed:

 1. NFKC compatibility composition: full-width "ＡＢＣ" and half-width "ｱ" fold into "ABC" and "ア"
 2. lower case
 3. trim leading and trailing white space (NFKC already turned U+3000 into a plain space)

Text is idempotent: Text(Text(s)) == Text(s).
*/
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Text returns the canonical comparison form of s. It never fails; "" maps to "".
func Text(s string) string {
	if s == "" {
		return ""
	}
	if isCanonicalASCII(s) {
		return s
	}
	return strings.TrimSpace(strings.ToLower(norm.NFKC.String(s)))
}

// Contains reports whether the normalized needle occurs in the normalized haystack.
// An empty needle is contained in everything.
func Contains(haystack, needle string) bool {
	return strings.Contains(Text(haystack), Text(needle))
}

// Query is a needle normalized once and matched against raw haystacks,
// which are normalized on every call.
type Query struct {
	norm string
}

// NewQuery normalizes raw into a reusable needle.
func NewQuery(raw string) Query {
	return Query{norm: Text(raw)}
}

// Empty reports whether the query normalized to nothing (an unset criterion).
func (q Query) Empty() bool {
	return q.norm == ""
}

// String returns the normalized needle.
func (q Query) String() string {
	return q.norm
}

// In reports whether q occurs in the normalized form of haystack.
func (q Query) In(haystack string) bool {
	return strings.Contains(Text(haystack), q.norm)
}

// PrefixOf reports whether the normalized form of s starts with q.
func (q Query) PrefixOf(s string) bool {
	return strings.HasPrefix(Text(s), q.norm)
}

// isCanonicalASCII reports whether s is pure ASCII with no upper case letters and
// no surrounding white space, in which case the pipeline is the identity.
func isCanonicalASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= 0x80 || (b >= 'A' && b <= 'Z') {
			return false
		}
	}
	return !isSpace(s[0]) && !isSpace(s[len(s)-1])
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}
