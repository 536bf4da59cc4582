package validation

import "testing"

// TestLCSRatioScenario checks S3: seq1=[1,2,3,4,5], seq2=[1,3,5,7,9] has
// LCS=3 ([1,3,5]) and similarity=0.6, which falls in the WARN band.
func TestLCSRatioScenario(t *testing.T) {
	a := Signature{NodeKinds: []int{1, 2, 3, 4, 5}}
	b := Signature{NodeKinds: []int{1, 3, 5, 7, 9}}

	got := lcsLength(a.NodeKinds, b.NodeKinds)
	if got != 3 {
		t.Fatalf("lcsLength = %d, want 3", got)
	}

	ratio := LCSRatio(a, b)
	if ratio != 0.6 {
		t.Errorf("LCSRatio = %v, want 0.6", ratio)
	}
	if DecideSignature(ratio) != SignatureWarn {
		t.Errorf("decision = %v, want WARN", DecideSignature(ratio))
	}
}

func TestDecideSignatureThresholds(t *testing.T) {
	tests := []struct {
		sim  float64
		want SignatureDecision
	}{
		{0.95, SignatureReject},
		{0.8, SignatureReject},
		{0.79, SignatureWarn},
		{0.5, SignatureWarn},
		{0.49, SignaturePass},
		{0.0, SignaturePass},
	}
	for _, tc := range tests {
		if got := DecideSignature(tc.sim); got != tc.want {
			t.Errorf("DecideSignature(%v) = %v, want %v", tc.sim, got, tc.want)
		}
	}
}

// TestLCSRatioIdentical checks invariant 5: an identical sequence against
// itself has similarity 1.0 and rejects.
func TestLCSRatioIdentical(t *testing.T) {
	seq := Signature{NodeKinds: []int{4, 8, 15, 16, 23, 42}}
	ratio := LCSRatio(seq, seq)
	if ratio != 1.0 {
		t.Errorf("LCSRatio(seq, seq) = %v, want 1.0", ratio)
	}
	if DecideSignature(ratio) != SignatureReject {
		t.Error("expected identical sequences to reject")
	}
}

func TestLCSRatioEmptySequences(t *testing.T) {
	a := Signature{}
	b := Signature{}
	if got := LCSRatio(a, b); got != 0 {
		t.Errorf("empty vs empty = %v, want 0", got)
	}
}

func TestEvaluateSignaturePicksMaxAcrossCores(t *testing.T) {
	candidate := []ComputationalCore{
		{Name: "calcFast", Signature: Signature{NodeKinds: []int{1, 2}}},
		{Name: "calcSlow", Signature: Signature{NodeKinds: []int{1, 2, 3, 4, 5}}},
	}
	existing := []ComputationalCore{
		{Name: "rsiCore", Signature: Signature{NodeKinds: []int{1, 2, 3, 4, 5}}},
	}
	res := EvaluateSignature(candidate, existing)
	if res.SimilarTo != "rsiCore" {
		t.Errorf("SimilarTo = %q, want rsiCore", res.SimilarTo)
	}
	if res.Decision != SignatureReject {
		t.Errorf("decision = %v, want REJECT", res.Decision)
	}
}

func TestBuildSignatureHashDeterministic(t *testing.T) {
	names := map[int]string{1: "Identifier", 2: "CallExpression"}
	s1 := BuildSignature([]int{1, 2, 1}, names)
	s2 := BuildSignature([]int{1, 2, 1}, names)
	if s1.Hash != s2.Hash {
		t.Error("expected identical node-kind sequences to hash identically")
	}
	if s1.KindCounts["Identifier"] != 2 || s1.KindCounts["CallExpression"] != 1 {
		t.Errorf("got KindCounts = %+v", s1.KindCounts)
	}
	if s1.TotalNodes != 3 {
		t.Errorf("TotalNodes = %d, want 3", s1.TotalNodes)
	}
}
