package evidence

import (
	"net/url"
	"regexp"
	"strings"
)

const defaultDomainWeight = 1.0

// DomainWeights is the trust multiplier per host. Subdomains inherit the weight of the
// longest matching suffix.
var DomainWeights = map[string]float64{
	"pubmed.ncbi.nlm.nih.gov": 3.0,
	"ncbi.nlm.nih.gov":        2.5,
	"europepmc.org":           2.5,
	"nih.gov":                 2.0,
	"cdc.gov":                 2.0,
	"who.int":                 2.0,
	"nature.com":              2.0,
	"science.org":             2.0,
	"thelancet.com":           2.0,
	"nejm.org":                2.0,
	"cell.com":                1.8,
	"jamanetwork.com":         1.8,
	"bmj.com":                 1.8,
	"cochranelibrary.com":     1.8,
	"sciencedirect.com":       1.5,
	"springer.com":            1.5,
	"wiley.com":               1.5,
	"frontiersin.org":         1.3,
	"mdpi.com":                1.2,
}

var pubmedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`pubmed\.ncbi\.nlm\.nih\.gov/(\d+)`),
	regexp.MustCompile(`ncbi\.nlm\.nih\.gov/pubmed/(\d+)`),
}

// DomainWeight returns the weight for a result URL.
func DomainWeight(rawURL string) float64 {
	host := hostOf(rawURL)
	if host == "" {
		return defaultDomainWeight
	}
	if w, ok := DomainWeights[host]; ok {
		return w
	}
	best, bestLen := defaultDomainWeight, 0
	for domain, w := range DomainWeights {
		if strings.HasSuffix(host, "."+domain) && len(domain) > bestLen {
			best, bestLen = w, len(domain)
		}
	}
	return best
}

// PubMedID extracts the PubMed identifier embedded in a URL, if any.
func PubMedID(rawURL string) (string, bool) {
	for _, re := range pubmedPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
}
