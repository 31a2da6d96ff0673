package internal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestTracker(t *testing.T, maxCost, warnAt float64) (*CostTracker, string) {
	t.Helper()
	dir := t.TempDir()
	tracker, err := NewCostTracker(dir, maxCost, warnAt, zap.NewNop())
	require.NoError(t, err)
	return tracker, dir
}

func usage(cost float64, tokens int64) UsageMetrics {
	return UsageMetrics{
		PromptTokens:     tokens / 2,
		CompletionTokens: tokens - tokens/2,
		TotalTokens:      tokens,
		Cost:             cost,
		Model:            "qwen/qwen-2.5-72b-instruct",
		Timestamp:        time.Now(),
	}
}

func TestCostTrackerCreatesLedgerFile(t *testing.T) {
	_, dir := newTestTracker(t, 10.0, 8.0)

	data, err := os.ReadFile(filepath.Join(dir, costFileName))
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(data))
}

func TestCostTrackerAccumulatesWithinBudget(t *testing.T) {
	tracker, _ := newTestTracker(t, 10.0, 8.0)

	require.NoError(t, tracker.TrackUsage(usage(1.5, 1000)))
	require.NoError(t, tracker.TrackUsage(usage(2.5, 2000)))

	assert.InDelta(t, 4.0, tracker.CurrentMonthCost(), 1e-9)
	assert.InDelta(t, 6.0, tracker.RemainingBudget(), 1e-9)
}

func TestCostTrackerBudgetExceeded(t *testing.T) {
	tracker, _ := newTestTracker(t, 5.0, 4.0)

	require.NoError(t, tracker.TrackUsage(usage(3.0, 1000)))

	// The call that crosses the ceiling still records its cost; the error
	// blocks the next call, not this one.
	err := tracker.TrackUsage(usage(2.5, 1000))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBudgetExceeded)

	var budgetErr *BudgetError
	require.ErrorAs(t, err, &budgetErr)
	assert.InDelta(t, 5.5, budgetErr.Spent, 1e-9)
	assert.InDelta(t, 5.0, budgetErr.Ceiling, 1e-9)

	assert.InDelta(t, 5.5, tracker.CurrentMonthCost(), 1e-9)
}

func TestCostTrackerExactCeilingExceeds(t *testing.T) {
	tracker, _ := newTestTracker(t, 5.0, 4.0)

	err := tracker.TrackUsage(usage(5.0, 1000))
	assert.ErrorIs(t, err, ErrBudgetExceeded)
}

func TestCostTrackerWarnThresholdOnlyLogs(t *testing.T) {
	tracker, _ := newTestTracker(t, 10.0, 8.0)

	assert.NoError(t, tracker.TrackUsage(usage(8.5, 1000)))
}

func TestCostTrackerMonthRollover(t *testing.T) {
	tracker, _ := newTestTracker(t, 5.0, 4.0)

	tracker.now = func() time.Time { return time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC) }
	err := tracker.TrackUsage(usage(5.0, 1000))
	assert.ErrorIs(t, err, ErrBudgetExceeded)

	// A new calendar month starts a fresh budget.
	tracker.now = func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) }
	assert.NoError(t, tracker.TrackUsage(usage(1.0, 1000)))
	assert.InDelta(t, 1.0, tracker.CurrentMonthCost(), 1e-9)
	assert.InDelta(t, 5.0, tracker.MonthCost("2026-07"), 1e-9)
}

func TestCostTrackerPersistsAcrossInstances(t *testing.T) {
	tracker, dir := newTestTracker(t, 10.0, 8.0)
	require.NoError(t, tracker.TrackUsage(usage(2.0, 1500)))

	reloaded, err := NewCostTracker(dir, 10.0, 8.0, zap.NewNop())
	require.NoError(t, err)
	assert.InDelta(t, 2.0, reloaded.CurrentMonthCost(), 1e-9)
}

func TestCostTrackerLedgerFormat(t *testing.T) {
	tracker, dir := newTestTracker(t, 10.0, 8.0)
	tracker.now = func() time.Time { return time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, tracker.TrackUsage(usage(0.5, 800)))

	data, err := os.ReadFile(filepath.Join(dir, costFileName))
	require.NoError(t, err)

	var ledger map[string][]UsageMetrics
	require.NoError(t, json.Unmarshal(data, &ledger))
	require.Len(t, ledger["2026-08"], 1)
	assert.Equal(t, int64(800), ledger["2026-08"][0].TotalTokens)
}

func TestCostTrackerSummary(t *testing.T) {
	tracker, _ := newTestTracker(t, 10.0, 8.0)
	require.NoError(t, tracker.TrackUsage(usage(1.0, 500)))
	require.NoError(t, tracker.TrackUsage(usage(1.5, 700)))

	s := tracker.Summary()
	assert.Equal(t, 2, s.TotalRequests)
	assert.Equal(t, int64(1200), s.TotalTokens)
	assert.InDelta(t, 2.5, s.TotalCost, 1e-9)
	assert.InDelta(t, 7.5, s.RemainingBudget, 1e-9)
	assert.InDelta(t, 25.0, s.BudgetUsedPercent, 1e-9)
}
