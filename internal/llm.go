package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"
)

// ModelPricing holds per-million-token prices in USD.
type ModelPricing struct {
	PromptPerMillion     float64
	CompletionPerMillion float64
}

// modelPricing is the static price table for OpenRouter models. Models not
// listed here are billed as zero with a warning.
var modelPricing = map[string]ModelPricing{
	"qwen/qwen-2.5-72b-instruct":       {PromptPerMillion: 0.35, CompletionPerMillion: 0.35},
	"anthropic/claude-3-haiku":         {PromptPerMillion: 0.25, CompletionPerMillion: 1.25},
	"meta-llama/llama-3.1-8b-instruct": {PromptPerMillion: 0.06, CompletionPerMillion: 0.06},
	"google/gemini-flash-1.5":          {PromptPerMillion: 0.075, CompletionPerMillion: 0.30},
	"openai/gpt-4o-mini":               {PromptPerMillion: 0.15, CompletionPerMillion: 0.60},
}

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// CompletionClient generates a text completion for a prompt and reports its
// token usage and cost.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string, maxTokens int64, temperature float64) (string, UsageMetrics, error)
}

// OpenRouterClient talks to OpenRouter's OpenAI-compatible completion
// endpoint, retries transient failures with exponential backoff, and tracks
// cost against a monthly budget.
type OpenRouterClient struct {
	client     openai.Client
	baseURL    string
	model      string
	tracker    *CostTracker
	maxRetries int
	timeout    time.Duration
	logger     *zap.Logger

	// sleep is swapped out in tests to observe backoff without waiting.
	sleep func(time.Duration)
}

// OpenRouterOption customizes client creation.
type OpenRouterOption func(*OpenRouterClient)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(baseURL string) OpenRouterOption {
	return func(c *OpenRouterClient) { c.baseURL = baseURL }
}

// WithSleep overrides the backoff sleep function.
func WithSleep(sleep func(time.Duration)) OpenRouterOption {
	return func(c *OpenRouterClient) { c.sleep = sleep }
}

// NewOpenRouterClient creates a budget-tracked completion client. Retries
// are owned by this client, so the SDK's own retry loop is disabled.
func NewOpenRouterClient(apiKey, model string, tracker *CostTracker, maxRetries int, timeout time.Duration, logger *zap.Logger, opts ...OpenRouterOption) *OpenRouterClient {
	c := &OpenRouterClient{
		baseURL:    openRouterBaseURL,
		model:      model,
		tracker:    tracker,
		maxRetries: maxRetries,
		timeout:    timeout,
		logger:     logger,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(c.baseURL),
		option.WithMaxRetries(0),
	)

	if _, ok := modelPricing[model]; !ok {
		logger.Warn("no pricing info for model, cost tracking may be inaccurate", zap.String("model", model))
	}
	return c
}

// calculateCost prices a call from the static table. Unknown models cost
// zero; the only effect is a warning.
func (c *OpenRouterClient) calculateCost(promptTokens, completionTokens int64) float64 {
	pricing, ok := modelPricing[c.model]
	if !ok {
		c.logger.Warn("no pricing info, returning zero cost", zap.String("model", c.model))
		return 0.0
	}
	promptCost := float64(promptTokens) / 1e6 * pricing.PromptPerMillion
	completionCost := float64(completionTokens) / 1e6 * pricing.CompletionPerMillion
	return promptCost + completionCost
}

// Complete sends the prompt as a single user message and returns the
// completion text with its usage metrics.
//
// Failure classification per attempt: HTTP 429 waits 2^attempt*2 seconds,
// HTTP >= 500 and network failures wait 2^attempt seconds, any other HTTP
// status is fatal and propagates immediately. Exhausting all attempts
// surfaces the last failure.
//
// Budget enforcement is record-then-check: a call already at or past the
// ceiling is refused before any request, while the call that crosses the
// ceiling has its cost recorded and returns its text alongside the
// BudgetError.
func (c *OpenRouterClient) Complete(ctx context.Context, prompt string, maxTokens int64, temperature float64) (string, UsageMetrics, error) {
	if c.tracker != nil {
		if spent := c.tracker.CurrentMonthCost(); spent >= c.tracker.MaxMonthlyCost() {
			return "", UsageMetrics{}, &BudgetError{Spent: spent, Ceiling: c.tracker.MaxMonthlyCost()}
		}
	}

	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		text, metrics, err := c.attempt(ctx, prompt, maxTokens, temperature)
		if err == nil {
			if c.tracker != nil {
				if trackErr := c.tracker.TrackUsage(metrics); trackErr != nil {
					return text, metrics, trackErr
				}
			}
			c.logger.Info("completion generated",
				zap.Int64("total_tokens", metrics.TotalTokens), zap.Float64("cost", metrics.Cost))
			return text, metrics, nil
		}

		wait, retryable := classifyFailure(err, attempt)
		if !retryable {
			return "", UsageMetrics{}, err
		}
		lastErr = err
		if attempt < c.maxRetries-1 {
			c.logger.Warn("completion attempt failed, retrying",
				zap.Int("attempt", attempt+1), zap.Duration("wait", wait), zap.Error(err))
			c.sleep(wait)
		}
	}

	return "", UsageMetrics{}, fmt.Errorf("all %d attempts failed: %w", c.maxRetries, lastErr)
}

func (c *OpenRouterClient) attempt(ctx context.Context, prompt string, maxTokens int64, temperature float64) (string, UsageMetrics, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", UsageMetrics{}, err
	}
	if len(resp.Choices) == 0 {
		return "", UsageMetrics{}, fmt.Errorf("no response choices from completion endpoint")
	}

	metrics := UsageMetrics{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		Cost:             c.calculateCost(resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
		Model:            c.model,
		Timestamp:        time.Now(),
	}
	return resp.Choices[0].Message.Content, metrics, nil
}

// classifyFailure maps an attempt error to its backoff wait and whether it
// is retryable at all.
func classifyFailure(err error, attempt int) (time.Duration, bool) {
	backoff := time.Duration(1<<attempt) * time.Second

	if errors.Is(err, context.Canceled) {
		return 0, false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return 2 * backoff, true
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return backoff, true
		default:
			return 0, false
		}
	}

	// Network-level failures and timeouts are retryable.
	return backoff, true
}
