package model

import "encoding/json"

// ParseRealizedOutcome parses TradeDecision.realized_outcome. Malformed or
// empty input is not an error condition the caller must propagate: per
// spec §7 (PARSE_ERROR) and §4.7 step 7 ("parse each decision's
// realized_outcome; ignore malformed"), the second return value reports
// whether parsing succeeded so callers can skip the record.
func ParseRealizedOutcome(raw string) (RealizedOutcome, bool) {
	if raw == "" {
		return RealizedOutcome{}, false
	}
	var out RealizedOutcome
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return RealizedOutcome{}, false
	}
	return out, true
}
