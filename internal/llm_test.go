package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const completionBody = `{
	"id": "gen-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "qwen/qwen-2.5-72b-instruct",
	"choices": [
		{
			"index": 0,
			"message": {"role": "assistant", "content": "A kid-friendly summary."},
			"finish_reason": "stop"
		}
	],
	"usage": {"prompt_tokens": 1000, "completion_tokens": 500, "total_tokens": 1500}
}`

// newRecordingClient builds a client against a test server with an injected
// sleep that records backoff waits instead of blocking.
func newRecordingClient(t *testing.T, serverURL, model string, tracker *CostTracker) (*OpenRouterClient, *[]time.Duration) {
	t.Helper()
	var waits []time.Duration
	client := NewOpenRouterClient("test-key", model, tracker, 3, 5*time.Second, zap.NewNop(),
		WithBaseURL(serverURL),
		WithSleep(func(d time.Duration) { waits = append(waits, d) }),
	)
	return client, &waits
}

func TestCompleteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	tracker, _ := newTestTracker(t, 10.0, 8.0)
	client, waits := newRecordingClient(t, srv.URL, "qwen/qwen-2.5-72b-instruct", tracker)

	text, metrics, err := client.Complete(context.Background(), "prompt", 1500, 0.7)
	require.NoError(t, err)
	assert.Equal(t, "A kid-friendly summary.", text)
	assert.Equal(t, int64(1500), metrics.TotalTokens)
	// 1000 prompt + 500 completion tokens at $0.35 per million each.
	assert.InDelta(t, 0.000525, metrics.Cost, 1e-9)
	assert.Empty(t, *waits)

	// Usage is recorded on the ledger.
	assert.InDelta(t, 0.000525, tracker.CurrentMonthCost(), 1e-9)
}

func TestCompleteRetriesRateLimit(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "rate limited"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	client, waits := newRecordingClient(t, srv.URL, "qwen/qwen-2.5-72b-instruct", nil)

	text, _, err := client.Complete(context.Background(), "prompt", 1500, 0.7)
	require.NoError(t, err)
	assert.Equal(t, "A kid-friendly summary.", text)
	assert.Equal(t, 3, requests)
	// Rate limits wait twice the base backoff: 2s then 4s.
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *waits)
}

func TestCompleteRetriesServerError(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "boom"}}`))
	}))
	defer srv.Close()

	client, waits := newRecordingClient(t, srv.URL, "qwen/qwen-2.5-72b-instruct", nil)

	_, _, err := client.Complete(context.Background(), "prompt", 1500, 0.7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 3 attempts failed")
	assert.Equal(t, 3, requests)
	// Server errors wait the base backoff, no sleep after the last attempt.
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *waits)
}

func TestCompleteClientErrorIsFatal(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "bad request"}}`))
	}))
	defer srv.Close()

	client, waits := newRecordingClient(t, srv.URL, "qwen/qwen-2.5-72b-instruct", nil)

	_, _, err := client.Complete(context.Background(), "prompt", 1500, 0.7)
	require.Error(t, err)
	assert.Equal(t, 1, requests, "client errors must not be retried")
	assert.Empty(t, *waits)
}

func TestCompleteUnknownModelZeroCost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	client, _ := newRecordingClient(t, srv.URL, "unknown/model", nil)

	_, metrics, err := client.Complete(context.Background(), "prompt", 1500, 0.7)
	require.NoError(t, err)
	assert.Zero(t, metrics.Cost)
}

func TestCompleteBudgetExceededReturnsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	// Ceiling below the cost of a single call.
	tracker, _ := newTestTracker(t, 0.0001, 0.00005)
	client, _ := newRecordingClient(t, srv.URL, "qwen/qwen-2.5-72b-instruct", tracker)

	text, metrics, err := client.Complete(context.Background(), "prompt", 1500, 0.7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
	// The completed text and its metrics still come back; only further
	// calls are blocked.
	assert.Equal(t, "A kid-friendly summary.", text)
	assert.Equal(t, int64(1500), metrics.TotalTokens)
}

func TestCompleteRefusedWhenAlreadyOverBudget(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	tracker, _ := newTestTracker(t, 5.0, 4.0)
	require.Error(t, tracker.TrackUsage(usage(6.0, 1000)))

	client, _ := newRecordingClient(t, srv.URL, "qwen/qwen-2.5-72b-instruct", tracker)

	_, _, err := client.Complete(context.Background(), "prompt", 1500, 0.7)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
	assert.Zero(t, requests, "over-budget calls never reach the endpoint")
}
