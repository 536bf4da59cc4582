package ingestion

import (
	"strings"

	"github.com/quantgraph/memcore/model"
)

// ClassifyEventType implements the external-event type mapping (spec §4.9):
// earnings/guidance/dividend → EARNINGS; macro_release → MACRO; a sourceType
// of "macro" always overrides to MACRO; everything else → NEWS.
func ClassifyEventType(rawEventType, sourceType string) model.ExternalEventType {
	if strings.EqualFold(sourceType, "macro") {
		return model.EventMacro
	}
	switch strings.ToLower(rawEventType) {
	case "earnings", "guidance", "dividend":
		return model.EventEarnings
	case "macro_release":
		return model.EventMacro
	default:
		return model.EventNews
	}
}
