// Package relation maps free-text relation phrases onto canonical relation codes.
package relation

import (
	"regexp"
	"strings"
)

var (
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	separators  = regexp.MustCompile(`[_\s]+`)
)

// suffixOrder is the morphological stripping priority. Each suffix is tried against the
// cleaned phrase and the first table hit wins.
var suffixOrder = []string{"ing", "ed", "s"}

// Normalizer is safe for concurrent use; its table is never mutated after construction.
type Normalizer struct {
	table Table
}

func NewNormalizer(table Table) *Normalizer {
	return &Normalizer{table: table.withSelfCodes()}
}

// Normalize never fails. Unknown phrases become uppercase underscore codes.
func (n *Normalizer) Normalize(raw string) string {
	s := Clean(raw)
	if s == "" {
		return ""
	}
	if code, ok := n.table[s]; ok {
		return code
	}
	for _, suffix := range suffixOrder {
		if !strings.HasSuffix(s, suffix) {
			continue
		}
		if code, ok := n.table[strings.TrimSuffix(s, suffix)]; ok {
			return code
		}
	}
	return strings.ToUpper(strings.ReplaceAll(s, " ", "_"))
}

// Phrase renders a canonical code as a lowercase search phrase, e.g. ASSOCIATED_WITH -> "associated with".
func Phrase(code string) string {
	return Clean(code)
}

// Codes lists the distinct canonical codes known to the table.
func (n *Normalizer) Codes() []string {
	return n.table.Codes()
}

// Clean case-folds, drops punctuation and collapses underscores and whitespace. Folding
// through upper case first maps ı and ſ onto i and s, so a cleaned phrase is stable
// under upper-casing.
func Clean(raw string) string {
	s := strings.ToLower(strings.ToUpper(strings.TrimSpace(raw)))
	s = punctuation.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
