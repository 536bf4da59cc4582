package model

import "testing"

func f(v float64) *float64 { return &v }

// TestBucketMarketCap checks the literal boundary table from spec §8 (S1).
func TestBucketMarketCap(t *testing.T) {
	cases := []struct {
		name string
		cap  *float64
		want MarketCapBucket
	}{
		{"2.0e11", f(2.0e11), MarketCapMega},
		{"1.999e11", f(1.999e11), MarketCapLarge},
		{"1.0e10", f(1.0e10), MarketCapLarge},
		{"9.999e9", f(9.999e9), MarketCapMid},
		{"2.0e9", f(2.0e9), MarketCapMid},
		{"1.999e9", f(1.999e9), MarketCapSmall},
		{"3.0e8", f(3.0e8), MarketCapSmall},
		{"2.99e8", f(2.99e8), MarketCapMicro},
		{"nil", nil, MarketCapSmall},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := BucketMarketCap(c.cap); got != c.want {
				t.Errorf("BucketMarketCap(%v) = %v, want %v", c.cap, got, c.want)
			}
		})
	}
}

// TestBucketMarketCapMonotone checks invariant 4: bucketing is monotone
// non-decreasing in market cap across boundaries.
func TestBucketMarketCapMonotone(t *testing.T) {
	rank := map[MarketCapBucket]int{
		MarketCapMicro: 0, MarketCapSmall: 1, MarketCapMid: 2, MarketCapLarge: 3, MarketCapMega: 4,
	}
	caps := []float64{1e8, 3e8, 1e9, 2e9, 5e9, 1e10, 5e10, 2e11, 5e11}
	prevRank := -1
	for _, c := range caps {
		b := BucketMarketCap(&c)
		if rank[b] < prevRank {
			t.Fatalf("bucketing not monotone at cap=%v: rank %d < prev %d", c, rank[b], prevRank)
		}
		prevRank = rank[b]
	}
}

func TestClamp01(t *testing.T) {
	cases := map[float64]float64{-1: 0, 0: 0, 0.5: 0.5, 1: 1, 1.5: 1}
	for in, want := range cases {
		if got := Clamp01(in); got != want {
			t.Errorf("Clamp01(%v) = %v, want %v", in, got, want)
		}
	}
}
