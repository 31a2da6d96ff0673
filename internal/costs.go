package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// costFileName is the ledger file under the data root.
const costFileName = "llm_costs.json"

// CostTracker maintains the append-only monthly ledger of LLM usage and
// enforces the monthly spend ceiling. The ledger file is the sole source of
// truth for spend-to-date; every tracked call does a full read-modify-write.
// Single-process use is assumed; concurrent trackers on the same file race.
type CostTracker struct {
	costFile       string
	maxMonthlyCost float64
	warnAtCost     float64
	costs          map[string][]UsageMetrics
	logger         *zap.Logger
	now            func() time.Time
}

// NewCostTracker loads (or creates) the ledger under dataDir.
func NewCostTracker(dataDir string, maxMonthlyCost, warnAtCost float64, logger *zap.Logger) (*CostTracker, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	t := &CostTracker{
		costFile:       filepath.Join(dataDir, costFileName),
		maxMonthlyCost: maxMonthlyCost,
		warnAtCost:     warnAtCost,
		logger:         logger,
		now:            time.Now,
	}
	t.costs = t.loadCosts()

	if _, err := os.Stat(t.costFile); errors.Is(err, os.ErrNotExist) {
		if err := t.saveCosts(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MaxMonthlyCost returns the configured spend ceiling.
func (t *CostTracker) MaxMonthlyCost() float64 { return t.maxMonthlyCost }

func (t *CostTracker) loadCosts() map[string][]UsageMetrics {
	data, err := os.ReadFile(t.costFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			t.logger.Warn("failed to load cost history", zap.Error(err))
		}
		return map[string][]UsageMetrics{}
	}
	var costs map[string][]UsageMetrics
	if err := json.Unmarshal(data, &costs); err != nil {
		t.logger.Warn("failed to parse cost history", zap.Error(err))
		return map[string][]UsageMetrics{}
	}
	return costs
}

func (t *CostTracker) saveCosts() error {
	data, err := json.MarshalIndent(t.costs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cost history: %w", err)
	}
	if err := writeFileAtomic(t.costFile, data); err != nil {
		return fmt.Errorf("saving cost history: %w", err)
	}
	return nil
}

func (t *CostTracker) currentMonthKey() string {
	return t.now().Format("2006-01")
}

// TrackUsage appends a usage record to the current month and persists the
// ledger, then checks budget limits. Recording happens before the check so
// an incurred cost is never dropped: an over-ceiling total returns
// ErrBudgetExceeded for a call that already succeeded, blocking the next
// call rather than this one. A total at or past the warning threshold but
// under the ceiling only logs.
func (t *CostTracker) TrackUsage(metrics UsageMetrics) error {
	monthKey := t.currentMonthKey()
	t.costs[monthKey] = append(t.costs[monthKey], metrics)
	if err := t.saveCosts(); err != nil {
		return err
	}

	currentCost := t.CurrentMonthCost()
	switch {
	case currentCost >= t.maxMonthlyCost:
		return &BudgetError{Spent: currentCost, Ceiling: t.maxMonthlyCost}
	case currentCost >= t.warnAtCost:
		t.logger.Warn("approaching monthly budget",
			zap.Float64("spent", currentCost), zap.Float64("ceiling", t.maxMonthlyCost))
	}
	return nil
}

// MonthCost returns the total spend for a given YYYY-MM key.
func (t *CostTracker) MonthCost(monthKey string) float64 {
	var total float64
	for _, m := range t.costs[monthKey] {
		total += m.Cost
	}
	return total
}

// CurrentMonthCost returns the total spend for the current calendar month.
func (t *CostTracker) CurrentMonthCost() float64 {
	return t.MonthCost(t.currentMonthKey())
}

// RemainingBudget returns ceiling minus current-month spend.
func (t *CostTracker) RemainingBudget() float64 {
	return t.maxMonthlyCost - t.CurrentMonthCost()
}

// UsageSummary aggregates the current month's ledger.
type UsageSummary struct {
	Month             string  `json:"month"`
	TotalRequests     int     `json:"total_requests"`
	TotalTokens       int64   `json:"total_tokens"`
	TotalCost         float64 `json:"total_cost"`
	RemainingBudget   float64 `json:"remaining_budget"`
	BudgetUsedPercent float64 `json:"budget_used_percent"`
}

// Summary returns the current month's aggregate usage.
func (t *CostTracker) Summary() UsageSummary {
	monthKey := t.currentMonthKey()
	records := t.costs[monthKey]

	var totalTokens int64
	var totalCost float64
	for _, m := range records {
		totalTokens += m.TotalTokens
		totalCost += m.Cost
	}

	return UsageSummary{
		Month:             monthKey,
		TotalRequests:     len(records),
		TotalTokens:       totalTokens,
		TotalCost:         totalCost,
		RemainingBudget:   t.maxMonthlyCost - totalCost,
		BudgetUsedPercent: totalCost / t.maxMonthlyCost * 100,
	}
}
