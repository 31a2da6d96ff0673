package internal

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// App holds the application state and dependencies. Collaborators that need
// API keys (video source, completion client) are created lazily so commands
// that only touch local files work without credentials.
type App struct {
	config  *Config
	logger  *zap.Logger
	ui      UIManager
	store   *Storage
	prompts *PromptManager
	tracker *CostTracker

	source VideoSource
	client CompletionClient
}

// AppOption customizes App creation, mainly for tests.
type AppOption func(*App)

// WithSource sets a custom video source.
func WithSource(source VideoSource) AppOption {
	return func(a *App) { a.source = source }
}

// WithCompletionClient sets a custom completion client.
func WithCompletionClient(client CompletionClient) AppOption {
	return func(a *App) { a.client = client }
}

// NewApp initializes the application.
func NewApp(config *Config, logger *zap.Logger, options ...AppOption) (*App, error) {
	store, err := NewStorage(config.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	tracker, err := NewCostTracker(config.DataDir, config.MaxMonthlyCost, config.WarnAtCost, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing cost tracker: %w", err)
	}

	app := &App{
		config:  config,
		logger:  logger,
		ui:      NewUIManager(config.Quiet),
		store:   store,
		prompts: NewPromptManager(),
		tracker: tracker,
	}

	for _, option := range options {
		option(app)
	}

	return app, nil
}

func (app *App) Config() *Config          { return app.config }
func (app *App) Logger() *zap.Logger      { return app.logger }
func (app *App) UI() UIManager            { return app.ui }
func (app *App) Storage() *Storage        { return app.store }
func (app *App) Prompts() *PromptManager  { return app.prompts }
func (app *App) CostTracker() *CostTracker { return app.tracker }

// Source returns the video source, creating the YouTube-backed one on first
// use. Requires a YouTube API key unless a source was injected.
func (app *App) Source(ctx context.Context) (VideoSource, error) {
	if app.source != nil {
		return app.source, nil
	}
	if app.config.YouTubeAPIKey == "" {
		return nil, fmt.Errorf("YouTube API key is required - set it in config.toml or the YOUTUBE_API_KEY environment variable")
	}
	source, err := NewYouTubeSource(ctx, app.config.YouTubeAPIKey, app.logger)
	if err != nil {
		return nil, fmt.Errorf("initializing YouTube source: %w", err)
	}
	app.source = source
	return source, nil
}

// Pipeline returns an extraction pipeline over the video source and storage.
func (app *App) Pipeline(ctx context.Context) (*Pipeline, error) {
	source, err := app.Source(ctx)
	if err != nil {
		return nil, err
	}
	return NewPipeline(source, app.store, app.logger), nil
}

// CompletionClient returns the completion client, creating the
// OpenRouter-backed one on first use. Requires an OpenRouter API key unless
// a client was injected.
func (app *App) CompletionClient() (CompletionClient, error) {
	if app.client != nil {
		return app.client, nil
	}
	if app.config.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("OpenRouter API key is required - set it in config.toml or the OPENROUTER_API_KEY environment variable")
	}
	app.client = NewOpenRouterClient(
		app.config.OpenRouterAPIKey,
		app.config.Model,
		app.tracker,
		app.config.MaxRetries,
		app.config.RequestTimeout,
		app.logger,
	)
	return app.client, nil
}

// Analyzer returns a summarization analyzer over storage and the completion
// client.
func (app *App) Analyzer() (*Analyzer, error) {
	client, err := app.CompletionClient()
	if err != nil {
		return nil, err
	}
	return NewAnalyzer(app.store, client, app.prompts, app.logger), nil
}
