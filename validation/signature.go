package validation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Signature is the structural fingerprint of a computational core (a
// top-level function body or arrow-initialized variable) in synthesized
// indicator code: the sequence of AST node kinds it contains, a count per
// kind, and a content hash (spec §4.10).
type Signature struct {
	NodeKinds  []int
	KindCounts map[string]int
	TotalNodes int
	Hash       string
}

// BuildSignature derives a Signature from a node-kind sequence and the
// human-readable name for each kind (used only to populate KindCounts).
func BuildSignature(nodeKinds []int, kindNames map[int]string) Signature {
	counts := make(map[string]int)
	for _, k := range nodeKinds {
		name := kindNames[k]
		if name == "" {
			name = fmt.Sprintf("kind_%d", k)
		}
		counts[name]++
	}
	return Signature{
		NodeKinds:  nodeKinds,
		KindCounts: counts,
		TotalNodes: len(nodeKinds),
		Hash:       hashNodeKinds(nodeKinds),
	}
}

func hashNodeKinds(kinds []int) string {
	h := sha256.New()
	for _, k := range kinds {
		fmt.Fprintf(h, "%d,", k)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// lcsLength computes the longest common subsequence length of a and b
// using a two-row dynamic program, O(min(len(a), len(b))) space.
func lcsLength(a, b []int) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for j := 1; j <= len(b); j++ {
		for i := 1; i <= len(a); i++ {
			if a[i-1] == b[j-1] {
				curr[i] = prev[i-1] + 1
			} else if prev[i] >= curr[i-1] {
				curr[i] = prev[i]
			} else {
				curr[i] = curr[i-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}

// LCSRatio computes the structural similarity of two signatures as
// LCS(seq1, seq2) / max(len1, len2) (spec §4.10, scenario S3: [1,2,3,4,5]
// vs [1,3,5,7,9] yields LCS=3 and similarity=0.6).
func LCSRatio(a, b Signature) float64 {
	maxLen := len(a.NodeKinds)
	if len(b.NodeKinds) > maxLen {
		maxLen = len(b.NodeKinds)
	}
	if maxLen == 0 {
		return 0
	}
	return float64(lcsLength(a.NodeKinds, b.NodeKinds)) / float64(maxLen)
}

// SignatureDecision classifies a duplication-check verdict.
type SignatureDecision string

const (
	SignatureReject    SignatureDecision = "REJECT"
	SignatureWarn      SignatureDecision = "WARN"
	SignaturePass      SignatureDecision = "PASS"
)

// DecideSignature applies the similarity thresholds: >=0.8 rejects as a
// near-duplicate, [0.5, 0.8) warns as similar-to an existing core, below
// 0.5 passes.
func DecideSignature(similarity float64) SignatureDecision {
	switch {
	case similarity >= 0.8:
		return SignatureReject
	case similarity >= 0.5:
		return SignatureWarn
	default:
		return SignaturePass
	}
}

// ComputationalCore is one top-level function body or arrow-initialized
// variable extracted from synthesized indicator code, named for
// diagnostics.
type ComputationalCore struct {
	Name      string
	Signature Signature
}

// SignatureResult is the outcome of comparing a candidate indicator's
// computational cores against an existing indicator library.
type SignatureResult struct {
	Decision   SignatureDecision
	Similarity float64
	SimilarTo  string
}

// EvaluateSignature compares every candidate core against every existing
// core and takes the maximum pairwise similarity, since a single
// near-duplicate core is enough to flag the whole candidate.
func EvaluateSignature(candidate, existing []ComputationalCore) SignatureResult {
	best := 0.0
	var similarTo string
	for _, cand := range candidate {
		for _, ex := range existing {
			sim := LCSRatio(cand.Signature, ex.Signature)
			if sim > best {
				best = sim
				similarTo = ex.Name
			}
		}
	}
	return SignatureResult{
		Decision:   DecideSignature(best),
		Similarity: best,
		SimilarTo:  similarTo,
	}
}
