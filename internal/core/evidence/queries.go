package evidence

import (
	"fmt"
	"strings"
)

type Mode string

const (
	ModeLight    Mode = "light"
	ModeStandard Mode = "standard"
	ModeDeep     Mode = "deep"
)

const (
	trustedLiterature = "pubmed.ncbi.nlm.nih.gov"
	trustedInstitute  = "nih.gov"
)

var highImpactJournals = []string{"nature.com", "thelancet.com"}

// ParseMode maps request input to a Mode; empty input means light.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeLight:
		return ModeLight, true
	case ModeStandard:
		return ModeStandard, true
	case ModeDeep:
		return ModeDeep, true
	default:
		return "", false
	}
}

// Queries returns the ordered query plan for a mode.
func Queries(head, relation, tail string, mode Mode) []string {
	base := quote(head) + " " + quote(tail)
	withRel := base
	if r := strings.TrimSpace(relation); r != "" {
		withRel = base + " " + r
	}
	site := func(q, domain string) string {
		return fmt.Sprintf("%s site:%s", q, domain)
	}

	light := []string{
		site(base, trustedLiterature),
		site(base, trustedInstitute),
	}

	switch mode {
	case ModeStandard:
		return append([]string{base, withRel}, light...)
	case ModeDeep:
		return []string{
			base,
			withRel,
			site(withRel, trustedLiterature),
			site(withRel, trustedInstitute),
			site(base, highImpactJournals[0]),
			site(base, highImpactJournals[1]),
		}
	default:
		return light
	}
}

// PairQuery is the single query used to score a recommendation candidate.
func PairQuery(head, relation, tail string) string {
	q := quote(head) + " " + quote(tail)
	if r := strings.TrimSpace(relation); r != "" {
		q += " " + r
	}
	return q
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(strings.TrimSpace(s), `"`, "") + `"`
}
