package retrieval

import (
	"fmt"
	"strings"
)

// IndicatorValue is one named indicator reading, ordered as supplied so the
// brief text stays deterministic across calls with the same snapshot.
type IndicatorValue struct {
	Name  string
	Value float64
}

// Snapshot is the market/position context fed to BuildSituationBrief.
type Snapshot struct {
	InstrumentID     string
	UnderlyingSymbol string
	RegimeLabel      string
	KeyIndicators    []IndicatorValue
	PositionContext  string
}

// BuildSituationBrief renders the deterministic brief string used as the
// embedding input for trade-memory retrieval (spec §4.7):
//
//	Trading <instrument> (underlying: <underlying>)? in <regime> regime.
//	[Key indicators: k: v, …]? [Position: <ctx>]?
func BuildSituationBrief(s Snapshot) string {
	var b strings.Builder
	b.WriteString("Trading ")
	b.WriteString(s.InstrumentID)
	if s.UnderlyingSymbol != "" {
		b.WriteString(fmt.Sprintf(" (underlying: %s)", s.UnderlyingSymbol))
	}
	b.WriteString(fmt.Sprintf(" in %s regime.", s.RegimeLabel))

	if len(s.KeyIndicators) > 0 {
		parts := make([]string, len(s.KeyIndicators))
		for i, kv := range s.KeyIndicators {
			parts[i] = fmt.Sprintf("%s: %.2f", kv.Name, kv.Value)
		}
		b.WriteString(" Key indicators: ")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(".")
	}

	if s.PositionContext != "" {
		b.WriteString(fmt.Sprintf(" Position: %s.", s.PositionContext))
	}

	return b.String()
}
