package validation

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTradingDaysBetween(t *testing.T) {
	// Mon 2026-06-01 through Fri 2026-06-05: 5 trading days.
	got := TradingDaysBetween(day(2026, 6, 1), day(2026, 6, 5))
	if got != 5 {
		t.Errorf("got %d, want 5", got)
	}
	// Mon through the following Mon spans a weekend: still 6 trading days.
	got = TradingDaysBetween(day(2026, 6, 1), day(2026, 6, 8))
	if got != 6 {
		t.Errorf("got %d, want 6", got)
	}
	if got := TradingDaysBetween(day(2026, 6, 8), day(2026, 6, 1)); got != 0 {
		t.Errorf("end before start: got %d, want 0", got)
	}
}

func TestEvaluatePaperTradingInProgress(t *testing.T) {
	start := day(2026, 6, 1)
	now := start.AddDate(0, 0, 5)
	res := EvaluatePaperTrading(start, now, 1.0, 1.0)
	if res.Status != PaperTradingInProgress {
		t.Errorf("status = %v, want in_progress", res.Status)
	}
	if res.Action != ActionContinue || res.Priority != PriorityLow {
		t.Errorf("got action=%v priority=%v", res.Action, res.Priority)
	}
}

func TestEvaluatePaperTradingPassed(t *testing.T) {
	start := day(2026, 1, 1)
	now := start.AddDate(0, 0, 60)
	res := EvaluatePaperTrading(start, now, 0.9, 1.2)
	if res.Status != PaperTradingPassed {
		t.Errorf("status = %v, want passed", res.Status)
	}
	if res.Action != ActionPromote || res.Priority != PriorityHigh {
		t.Errorf("got action=%v priority=%v", res.Action, res.Priority)
	}
}

func TestEvaluatePaperTradingFailedExtremeRetires(t *testing.T) {
	start := day(2026, 1, 1)
	now := start.AddDate(0, 0, 60)
	res := EvaluatePaperTrading(start, now, 0.1, 5.0)
	if res.Status != PaperTradingFailed {
		t.Errorf("status = %v, want failed", res.Status)
	}
	if res.Action != ActionRetire || res.Priority != PriorityHigh {
		t.Errorf("got action=%v priority=%v", res.Action, res.Priority)
	}
}

func TestEvaluatePaperTradingFailedMarginalReviews(t *testing.T) {
	start := day(2026, 1, 1)
	now := start.AddDate(0, 0, 60)
	res := EvaluatePaperTrading(start, now, 0.5, 1.8)
	if res.Status != PaperTradingFailed {
		t.Errorf("status = %v, want failed", res.Status)
	}
	if res.Action != ActionReview || res.Priority != PriorityMedium {
		t.Errorf("got action=%v priority=%v", res.Action, res.Priority)
	}
}
