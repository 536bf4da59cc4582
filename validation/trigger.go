package validation

// defaultICDecayThreshold and defaultCooldownDays are the default
// thresholds for trigger detection (spec §4.11.4).
const (
	defaultICDecayThreshold = 0.02
	defaultCooldownDays     = 30
)

// TriggerConfig carries the signals that feed re-synthesis trigger
// detection. ICHistory is ordered newest first.
type TriggerConfig struct {
	RegimeGapDetected     bool
	RollingIC30Day        float64
	ICHistory             []float64
	ICDecayThreshold      float64
	DaysSinceLastAttempt  int
	CooldownDays          int
	ActiveIndicatorCount  int
	MaxIndicatorCapacity  int
}

// TriggerResult is the outcome of DetectTrigger.
type TriggerResult struct {
	Trigger     bool
	ICDecayDays int
	Reasons     []string
}

// icDecayThreshold resolves cfg's threshold to its default when unset.
func icDecayThreshold(cfg TriggerConfig) float64 {
	if cfg.ICDecayThreshold > 0 {
		return cfg.ICDecayThreshold
	}
	return defaultICDecayThreshold
}

// cooldownDays resolves cfg's cooldown window to its default when unset.
func cooldownDays(cfg TriggerConfig) int {
	if cfg.CooldownDays > 0 {
		return cfg.CooldownDays
	}
	return defaultCooldownDays
}

// ICDecayDays computes the longest newest-first run of consecutive IC
// history entries that are either below threshold or strictly lower than
// the entry immediately newer than them (spec §4.11.4).
func ICDecayDays(history []float64, threshold float64) int {
	days := 0
	for i, v := range history {
		if i == 0 {
			if v < threshold {
				days++
				continue
			}
			break
		}
		if v < threshold || v < history[i-1] {
			days++
			continue
		}
		break
	}
	return days
}

// DetectTrigger evaluates whether re-synthesis of a given regime's
// indicator set should fire. All of the following must hold:
//   - a regime gap was detected
//   - the indicator is under-performing: rollingIC30Day below threshold,
//     or the IC has been decaying for at least 5 days
//   - the cooldown window since the last synthesis attempt has elapsed
//   - there is spare capacity in the active indicator set
func DetectTrigger(cfg TriggerConfig) TriggerResult {
	threshold := icDecayThreshold(cfg)
	decayDays := ICDecayDays(cfg.ICHistory, threshold)
	underPerforming := cfg.RollingIC30Day < threshold || decayDays >= 5
	cooldown := cooldownDays(cfg)

	var reasons []string
	if !cfg.RegimeGapDetected {
		reasons = append(reasons, "No regime gap detected")
	}
	if !underPerforming {
		reasons = append(reasons, "Not under-performing")
	}
	if cfg.DaysSinceLastAttempt < cooldown {
		reasons = append(reasons, "Cooldown not met")
	}
	if cfg.ActiveIndicatorCount >= cfg.MaxIndicatorCapacity {
		reasons = append(reasons, "At indicator capacity")
	}

	return TriggerResult{
		Trigger:     len(reasons) == 0,
		ICDecayDays: decayDays,
		Reasons:     reasons,
	}
}
