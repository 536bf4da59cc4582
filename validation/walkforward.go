package validation

// WalkForwardMethod selects how each period's window is constructed.
type WalkForwardMethod string

const (
	MethodRolling  WalkForwardMethod = "rolling"
	MethodAnchored WalkForwardMethod = "anchored"
)

// minPeriodObservations is the minimum window length for a period to be
// considered at all (spec §4.11.2).
const minPeriodObservations = 20

// WalkForwardConfig configures walk-forward validation (spec §4.11.2).
type WalkForwardConfig struct {
	NPeriods   int
	TrainRatio float64
	Method     WalkForwardMethod
}

// WalkForwardPeriod is one evaluated in-sample/out-of-sample split.
type WalkForwardPeriod struct {
	Index      int
	ISSharpe   float64
	OOSSharpe  float64
	Efficiency float64
}

// WalkForwardInterpretation classifies the aggregate robustness verdict.
type WalkForwardInterpretation string

const (
	WalkForwardRobust   WalkForwardInterpretation = "robust"
	WalkForwardMarginal WalkForwardInterpretation = "marginal"
	WalkForwardOverfit  WalkForwardInterpretation = "overfit"
)

// WalkForwardResult is the outcome of WalkForwardValidate.
type WalkForwardResult struct {
	Periods        []WalkForwardPeriod
	Efficiency     float64
	Consistency    float64
	Interpretation WalkForwardInterpretation
	Passed         bool
}

// strategyReturns computes rₜ·sign(sₜ) for each paired (return, signal).
func strategyReturns(returns, signals []float64) []float64 {
	out := make([]float64, len(returns))
	for i := range returns {
		sign := 0.0
		switch {
		case signals[i] > 0:
			sign = 1
		case signals[i] < 0:
			sign = -1
		}
		out[i] = returns[i] * sign
	}
	return out
}

// WalkForwardValidate splits returns/signals into nPeriods in-sample/
// out-of-sample windows (rolling or anchored), computes per-period
// annualized Sharpe efficiency, and aggregates into a robustness verdict
// (spec §4.11.2). Periods whose window is below minPeriodObservations, or
// whose train/test split leaves either side with fewer than 2
// observations, are skipped (this is how trainRatio at the 0.0/1.0
// extremes yields no evaluable periods — invariant 9).
func WalkForwardValidate(returns, signals []float64, cfg WalkForwardConfig) WalkForwardResult {
	n := len(returns)
	periodSize := n / cfg.NPeriods
	if periodSize == 0 {
		return WalkForwardResult{Interpretation: WalkForwardOverfit}
	}

	var periods []WalkForwardPeriod
	for i := 0; i < cfg.NPeriods; i++ {
		var start, end int
		switch cfg.Method {
		case MethodAnchored:
			start, end = 0, (i+1)*periodSize
		default:
			start, end = i*periodSize, (i+1)*periodSize
		}
		if end > n {
			end = n
		}
		windowLen := end - start
		if windowLen < minPeriodObservations {
			continue
		}

		trainLen := int(float64(windowLen) * cfg.TrainRatio)
		testLen := windowLen - trainLen
		if trainLen < 2 || testLen < 2 {
			continue
		}

		isReturns := strategyReturns(returns[start:start+trainLen], signals[start:start+trainLen])
		oosReturns := strategyReturns(returns[start+trainLen:end], signals[start+trainLen:end])

		isSharpe := AnnualizedSharpe(isReturns)
		oosSharpe := AnnualizedSharpe(oosReturns)

		efficiency := 0.0
		if isSharpe != 0 {
			efficiency = oosSharpe / isSharpe
		}

		periods = append(periods, WalkForwardPeriod{
			Index:      i,
			ISSharpe:   isSharpe,
			OOSSharpe:  oosSharpe,
			Efficiency: efficiency,
		})
	}

	if len(periods) == 0 {
		return WalkForwardResult{Interpretation: WalkForwardOverfit}
	}

	var isSum, oosSum float64
	var positiveOOS int
	for _, p := range periods {
		isSum += p.ISSharpe
		oosSum += p.OOSSharpe
		if p.OOSSharpe > 0 {
			positiveOOS++
		}
	}
	isMean := isSum / float64(len(periods))
	oosMean := oosSum / float64(len(periods))

	efficiency := 0.0
	if isMean != 0 {
		efficiency = oosMean / isMean
	}
	consistency := float64(positiveOOS) / float64(len(periods))

	var interp WalkForwardInterpretation
	switch {
	case efficiency >= 0.5 && consistency >= 0.6:
		interp = WalkForwardRobust
	case efficiency >= 0.3 && consistency >= 0.4:
		interp = WalkForwardMarginal
	default:
		interp = WalkForwardOverfit
	}

	return WalkForwardResult{
		Periods:        periods,
		Efficiency:     efficiency,
		Consistency:    consistency,
		Interpretation: interp,
		Passed:         interp == WalkForwardRobust,
	}
}
