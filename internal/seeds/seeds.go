// Package seeds provides known-good starting URLs per region.
package seeds

import "strings"

// Catalog maps normalized region keys to seed URLs. Global seeds precede region seeds.
type Catalog struct {
	Global  []string
	Regions map[string][]string
}

// Default returns the built-in seed catalog.
func Default() *Catalog {
	eu := []string{"https://eur-lex.europa.eu/eli/reg/2022/2065/oj"}

	return &Catalog{
		Global: []string{
			"https://www.law.cornell.edu/uscode/text/18/2258A",
			"https://eur-lex.europa.eu/eli/reg/2022/2065/oj",
		},
		Regions: map[string][]string{
			"california": {"https://leginfo.legislature.ca.gov/faces/billTextClient.xhtml?bill_id=202320240SB976"},
			"florida":    {"https://www.flsenate.gov/Session/Bill/2024/3"},
			"utah": {
				"https://socialmedia.utah.gov/",
				"https://dcp.utah.gov/wp-content/uploads/2023/12/Social-Media-Regulation-PDF.pdf",
			},
			"eu":             eu,
			"european union": eu,
		},
	}
}

// ForRegions returns the global seeds followed by each region's seeds,
// deduplicated case- and whitespace-insensitively with first-seen order kept.
// Unknown regions contribute nothing.
func (c *Catalog) ForRegions(regions []string) []string {
	urls := append([]string{}, c.Global...)
	for _, r := range regions {
		urls = append(urls, c.Regions[strings.ToLower(strings.TrimSpace(r))]...)
	}
	return Dedupe(urls)
}

// Dedupe removes repeated URLs, comparing on the trimmed lower-cased form
// and keeping the first raw string encountered.
func Dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		key := Key(u)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, u)
	}
	return out
}

// Key is the comparison form of a URL: trimmed and lower-cased.
func Key(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}
