// Package validation implements structural-signature deduplication and the
// statistical gating pipeline for indicator synthesis: Deflated Sharpe
// Ratio, walk-forward validation, paper-trading evaluation, and trigger
// detection.
package validation

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TradingDaysPerYear is used to annualize Sharpe ratios (spec §4.11.1).
const TradingDaysPerYear = 252

// eulerMascheroni is γ in the extreme-value approximation below.
const eulerMascheroni = 0.5772156649015329

var standardNormal = distuv.Normal{Mu: 0, Sigma: 1}

// ExpectedMaxSharpe approximates E[max SR | N trials] under a Gaussian
// null using the standard extreme-value approximation (spec §4.11.1). A
// single trial has no multiple-testing inflation, so N=1 is defined as 0.
func ExpectedMaxSharpe(n int) float64 {
	if n <= 1 {
		return 0
	}
	nf := float64(n)
	a := standardNormal.Quantile(1 - 1/nf)
	b := standardNormal.Quantile(1 - 1/(nf*math.E))
	return (1-eulerMascheroni)*a + eulerMascheroni*b
}

// DSRInterpretation classifies a deflated Sharpe probability.
type DSRInterpretation string

const (
	DSRSignificant  DSRInterpretation = "significant"
	DSRQuestionable DSRInterpretation = "questionable"
	DSRLikelyChance DSRInterpretation = "likely_chance"
)

// DSRResult is the outcome of a Deflated Sharpe Ratio computation.
type DSRResult struct {
	ExpectedMaxSharpe float64
	DSR               float64
	SE                float64
	Z                 float64
	Probability       float64
	PValue            float64
	Interpretation    DSRInterpretation
	Passed            bool
}

// DeflatedSharpeRatio computes the Deflated Sharpe Ratio for an observed
// Sharpe ratio sr across n independent trials with t observations, skew γ,
// and kurtosis κ (spec §4.11.1).
func DeflatedSharpeRatio(sr float64, n, t int, skew, kurtosis float64) DSRResult {
	expectedMax := ExpectedMaxSharpe(n)

	se := math.Sqrt((1 - skew*sr + ((kurtosis-1)/4)*sr*sr) / float64(t-1))

	dsr := sr - expectedMax
	z := dsr / se
	probability := standardNormal.CDF(z)
	pValue := 1 - probability

	var interpretation DSRInterpretation
	switch {
	case probability >= 0.95:
		interpretation = DSRSignificant
	case probability < 0.5:
		interpretation = DSRLikelyChance
	default:
		interpretation = DSRQuestionable
	}

	return DSRResult{
		ExpectedMaxSharpe: expectedMax,
		DSR:               dsr,
		SE:                se,
		Z:                 z,
		Probability:       probability,
		PValue:            pValue,
		Interpretation:    interpretation,
		Passed:            probability >= 0.95,
	}
}

// AnnualizedSharpe computes the annualized Sharpe ratio of a daily return
// series: mean(returns)/stddev(returns) * sqrt(TradingDaysPerYear). It
// returns 0 for a series with zero variance or fewer than 2 observations.
func AnnualizedSharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean, stdDev := stat.MeanStdDev(returns, nil)
	if stdDev == 0 {
		return 0
	}
	return (mean / stdDev) * math.Sqrt(float64(TradingDaysPerYear))
}
