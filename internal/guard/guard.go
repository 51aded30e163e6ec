// Package guard decides which hosts may be crawled and ranked for a region set,
// and assigns each host a static preference weight used during ranking.
package guard

import (
	"net/url"
	"slices"
	"strings"
)

// Weight pairs a host or domain suffix with a ranking bonus.
// A key matches a host equal to it or ending with it.
type Weight struct {
	Key   string
	Score int
}

// Policy holds the immutable allow-list and weight tables.
// Construct with DefaultPolicy or populate the fields directly.
type Policy struct {
	// Suffixes admit any host ending in one of these domain suffixes.
	Suffixes []string

	// Hosts admit exact host matches regardless of region.
	Hosts []string

	// RegionHosts admit exact host matches for a normalized region key.
	RegionHosts map[string][]string

	// EURegions, EUSuffix and EUHosts form the supranational override.
	EURegions []string
	EUSuffix  string
	EUHosts   []string

	// RestrictedSuffix hosts are rejected unless a region in FederalRegions is present.
	RestrictedSuffix string
	FederalRegions   []string

	// Weights is evaluated in full; the highest matching score wins.
	Weights []Weight
}

// DefaultPolicy returns the production allow-list.
func DefaultPolicy() *Policy {
	return &Policy{
		Suffixes: []string{".gov", ".gov.uk", ".eu", ".europa.eu", ".gc.ca", ".gov.sg"},
		Hosts: []string{
			"eur-lex.europa.eu",
			"ec.europa.eu",
			"edpb.europa.eu",
			"op.europa.eu",
			"law.cornell.edu",
			"www.missingkids.org",
			"missingkids.org",
			"en.wikipedia.org",
		},
		RegionHosts: map[string][]string{
			"utah":           {"le.utah.gov", "dcp.utah.gov", "socialmedia.utah.gov", "utah.gov"},
			"florida":        {"www.flsenate.gov", "flsenate.gov", "myfloridahouse.gov", "fl.gov"},
			"california":     {"leginfo.legislature.ca.gov", "oag.ca.gov", "ca.gov"},
			"eu":             {"eur-lex.europa.eu", "ec.europa.eu", "op.europa.eu", "europa.eu"},
			"european union": {"eur-lex.europa.eu", "ec.europa.eu", "op.europa.eu", "europa.eu"},
		},
		EURegions:        []string{"eu", "european union"},
		EUSuffix:         ".europa.eu",
		EUHosts:          []string{"eur-lex.europa.eu", "ec.europa.eu", "op.europa.eu"},
		RestrictedSuffix: ".senate.gov",
		FederalRegions:   []string{"us", "united states", "federal"},
		Weights: []Weight{
			{Key: ".utah.gov", Score: 120},
			{Key: "le.utah.gov", Score: 120},
			{Key: "dcp.utah.gov", Score: 115},
			{Key: "socialmedia.utah.gov", Score: 112},
			{Key: ".gov", Score: 100},
			{Key: ".europa.eu", Score: 95},
			{Key: "law.cornell.edu", Score: 70},
			{Key: "en.wikipedia.org", Score: 20},
		},
	}
}

// Host returns the lower-cased host component of rawURL, or "" if it cannot be parsed.
func Host(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// NormalizeRegions lower-cases and trims each region, dropping empties.
func NormalizeRegions(regions []string) []string {
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// Allowed reports whether rawURL may be crawled or ranked for regions.
//
// With no regions only the global host and suffix lists apply. Otherwise the
// checks run in order: region hosts, the EU override, global hosts, the
// restricted-suffix rejection, and finally the suffix list.
func (p *Policy) Allowed(rawURL string, regions []string) bool {
	host := Host(rawURL)
	if host == "" {
		return false
	}

	rs := NormalizeRegions(regions)
	if len(rs) == 0 {
		return p.domainAllowed(host)
	}

	for _, r := range rs {
		if slices.Contains(p.RegionHosts[r], host) {
			return true
		}
	}

	if p.hasAny(rs, p.EURegions) {
		if (p.EUSuffix != "" && strings.HasSuffix(host, p.EUSuffix)) || slices.Contains(p.EUHosts, host) {
			return true
		}
	}

	if slices.Contains(p.Hosts, host) {
		return true
	}

	if p.RestrictedSuffix != "" && strings.HasSuffix(host, p.RestrictedSuffix) && !p.hasAny(rs, p.FederalRegions) {
		return false
	}

	return p.suffixAllowed(host)
}

// HostWeight returns the highest weight whose key matches the URL's host, or 0.
func (p *Policy) HostWeight(rawURL string) int {
	host := Host(rawURL)
	best := 0
	if host == "" {
		return best
	}
	for _, w := range p.Weights {
		if host == w.Key || strings.HasSuffix(host, w.Key) {
			best = max(best, w.Score)
		}
	}
	return best
}

// IsWikipedia reports whether rawURL is served from a Wikipedia host.
func IsWikipedia(rawURL string) bool {
	host := Host(rawURL)
	return host == "wikipedia.org" || strings.HasSuffix(host, ".wikipedia.org")
}

// Jurisdiction infers a display jurisdiction from the URL's host,
// falling back to the first region or "Unknown".
func Jurisdiction(rawURL string, regions []string) string {
	host := Host(rawURL)
	switch {
	case strings.Contains(host, "europa.eu"):
		return "EU"
	case strings.Contains(host, "flsenate"), strings.Contains(host, "myfloridahouse"):
		return "Florida"
	case strings.Contains(host, "utah.gov"):
		return "Utah"
	case strings.Contains(host, "ca.gov"):
		return "California"
	case strings.Contains(host, "law.cornell.edu"):
		return "US Federal (Cornell)"
	case strings.Contains(host, "wikipedia.org"):
		return "General (Wikipedia)"
	}
	if len(regions) > 0 {
		return regions[0]
	}
	return "Unknown"
}

func (p *Policy) domainAllowed(host string) bool {
	return slices.Contains(p.Hosts, host) || p.suffixAllowed(host)
}

func (p *Policy) suffixAllowed(host string) bool {
	for _, s := range p.Suffixes {
		if strings.HasSuffix(host, s) {
			return true
		}
	}
	return false
}

func (p *Policy) hasAny(regions, set []string) bool {
	for _, r := range regions {
		if slices.Contains(set, r) {
			return true
		}
	}
	return false
}
