package model

// Edge type names (spec §3).
const (
	EdgeInfluencedDecision = "INFLUENCED_DECISION"
	EdgeHasEvent           = "HAS_EVENT"
	EdgeDependsOn          = "DEPENDS_ON"
	EdgeAffectedBy         = "AFFECTED_BY"
	EdgeMentionedIn        = "MENTIONED_IN"
	EdgeRelatesToMacro     = "RELATES_TO_MACRO"
	EdgeThesisIncludes     = "THESIS_INCLUDES"
	EdgeMentionsCompany    = "MENTIONS_COMPANY"
	EdgeInSector           = "IN_SECTOR"
	EdgeRelatedTo          = "RELATED_TO"
	EdgeSimilarTo          = "SIMILAR_TO"
)

// FallbackEdgeTypes is the catalogue used when the store cannot enumerate
// edge types itself (spec §6).
var FallbackEdgeTypes = []string{
	EdgeInfluencedDecision, EdgeHasEvent, EdgeMentionsCompany, EdgeInSector, EdgeRelatedTo,
}

// DefaultEdgeWeightThreshold is the fallback threshold for edge types that
// have no explicit entry in EdgeTypeThresholds (spec §4.2).
const DefaultEdgeWeightThreshold = 0.3

// EdgeTypeThresholds gives the default follow-threshold per edge type
// (spec §3's per-edge "Default threshold" column).
var EdgeTypeThresholds = map[string]float64{
	EdgeInfluencedDecision: 0.6,
	EdgeDependsOn:          0.3,
	EdgeAffectedBy:         0.3,
	EdgeMentionedIn:        0.5,
}

// MentionType enumerates MENTIONED_IN.mention_type values and their implied
// weight (spec §3).
type MentionType string

const (
	MentionPrimary        MentionType = "PRIMARY"
	MentionSecondary       MentionType = "SECONDARY"
	MentionPeerComparison MentionType = "PEER_COMPARISON"
)

// MentionTypeWeights maps MENTIONED_IN.mention_type to its implied weight.
var MentionTypeWeights = map[MentionType]float64{
	MentionPrimary:        1.0,
	MentionSecondary:      0.7,
	MentionPeerComparison: 0.5,
}

// DependencyType enumerates DEPENDS_ON.dependency_type values for
// supply-chain edges (spec §4.9).
type DependencyType string

const (
	DependencySupplier DependencyType = "SUPPLIER"
	DependencyCustomer DependencyType = "CUSTOMER"
	DependencyPartner  DependencyType = "PARTNER"
)

// Direction controls which edge direction a traversal follows (spec §3).
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
	DirectionBoth     Direction = "both"
)

// Edge is a directed, typed, weighted edge between two nodes.
type Edge struct {
	SourceID  string            `json:"source_id"`
	TargetID  string            `json:"target_id"`
	Type      string            `json:"type"`
	Weight    *float64          `json:"weight,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
	Props     map[string]Scalar `json:"props,omitempty"`
}

// Clamp01 clamps a weight/sensitivity/probability value to [0, 1]
// (spec §3 invariant: "Weights, sensitivities, and probabilities are
// clamped to [0, 1] on write").
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
