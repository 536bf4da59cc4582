package ingestion

import "strings"

// macroMetricKeywords maps case-insensitive metric-name substrings (scanned
// in a MACRO event's data-point metrics) to macro entity IDs (spec §4.9,
// SPEC_FULL.md §4.9.1).
var macroMetricKeywords = []struct {
	keywords []string
	entityID string
}{
	{[]string{"gdp"}, "macro:gdp"},
	{[]string{"cpi"}, "macro:cpi"},
	{[]string{"unemployment", "nonfarm payrolls"}, "macro:employment"},
	{[]string{"pmi manufacturing"}, "macro:pmi_mfg"},
	{[]string{"pmi services"}, "macro:pmi_svc"},
}

// macroSummaryKeywords maps case-insensitive substrings scanned in a MACRO
// event's summary text to macro entity IDs.
var macroSummaryKeywords = []struct {
	keywords []string
	entityID string
}{
	{[]string{"fomc", "fed funds", "interest rate"}, "macro:fed_policy"},
	{[]string{"opec", "crude oil"}, "macro:oil"},
	{[]string{"treasury yield"}, "macro:treasury_yield"},
}

func matchesAny(haystack string, keywords []string) bool {
	h := strings.ToLower(haystack)
	for _, k := range keywords {
		if strings.Contains(h, k) {
			return true
		}
	}
	return false
}

// IdentifyMacroFactors scans a MACRO event's metric names and summary text
// for known keyword patterns and returns the deduplicated list of matching
// macro entity IDs (spec §4.9). This is a best-effort enrichment: a miss
// never fails ingestion (spec §9 Open Question), it just returns fewer IDs.
func IdentifyMacroFactors(metricNames []string, summary string) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	for _, metric := range metricNames {
		for _, m := range macroMetricKeywords {
			if matchesAny(metric, m.keywords) {
				add(m.entityID)
			}
		}
	}

	for _, m := range macroSummaryKeywords {
		if matchesAny(summary, m.keywords) {
			add(m.entityID)
		}
	}

	return out
}
