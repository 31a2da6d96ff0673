package internal

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Callers classify with errors.Is.
var (
	// ErrNotFound indicates a video, transcript, or summary is absent.
	// Inside batch loops this usually means "skip this item".
	ErrNotFound = errors.New("not found")

	// ErrQuotaExceeded indicates the YouTube API quota is exhausted.
	ErrQuotaExceeded = errors.New("youtube api quota exceeded")

	// ErrBudgetExceeded indicates the monthly LLM spend ceiling is reached.
	// The call that crossed the ceiling already succeeded and its cost is
	// recorded; the error blocks further calls.
	ErrBudgetExceeded = errors.New("monthly budget exceeded")

	// ErrUnknownTemplate indicates a prompt template name is not registered.
	ErrUnknownTemplate = errors.New("unknown template")
)

// BudgetError carries spend details alongside ErrBudgetExceeded.
type BudgetError struct {
	Spent   float64
	Ceiling float64
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("monthly budget exceeded: $%.2f / $%.2f", e.Spent, e.Ceiling)
}

func (e *BudgetError) Unwrap() error { return ErrBudgetExceeded }
