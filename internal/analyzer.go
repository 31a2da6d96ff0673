package internal

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Sampling parameters for summary generation.
const (
	summaryMaxTokens   = 1500
	summaryTemperature = 0.7
)

// readingLevelLabel is recorded on every generated summary.
const readingLevelLabel = "Grade 5-6"

// Analyzer turns stored videos into summaries. It reads metadata and
// transcripts from Storage, renders a prompt, calls the completion client,
// and persists the result.
type Analyzer struct {
	store   *Storage
	client  CompletionClient
	prompts *PromptManager
	logger  *zap.Logger
}

// NewAnalyzer creates an analyzer over the given storage and client.
func NewAnalyzer(store *Storage, client CompletionClient, prompts *PromptManager, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		store:   store,
		client:  client,
		prompts: prompts,
		logger:  logger,
	}
}

// SummarizeVideo generates and persists a summary for one stored video. Both
// metadata and transcript must already be on disk. An explicit templateName
// takes precedence; otherwise autoDetect picks one from the content, falling
// back to the default template.
func (a *Analyzer) SummarizeVideo(ctx context.Context, videoID, templateName string, autoDetect bool) (*Summary, error) {
	video, err := a.store.FindByID(videoID)
	if err != nil {
		return nil, fmt.Errorf("loading metadata for %s: %w", videoID, err)
	}
	transcript, err := a.store.ReadTranscriptText(videoID)
	if err != nil {
		return nil, fmt.Errorf("loading transcript for %s: %w", videoID, err)
	}

	name := templateName
	if name == "" {
		if autoDetect {
			name = a.prompts.AutoDetect(video.Title, transcript)
			a.logger.Debug("auto-detected template",
				zap.String("video_id", videoID),
				zap.String("template", name))
		} else {
			name = DefaultTemplateName
		}
	}
	tmpl, err := a.prompts.Lookup(name)
	if err != nil {
		return nil, err
	}

	prompt, err := a.prompts.BuildPrompt(tmpl, video.Title, video.ChannelTitle, transcript)
	if err != nil {
		return nil, err
	}

	a.logger.Info("generating summary",
		zap.String("video_id", videoID),
		zap.String("template", name))

	text, usage, err := a.client.Complete(ctx, prompt, summaryMaxTokens, summaryTemperature)
	if err != nil {
		return nil, fmt.Errorf("summarizing %s: %w", videoID, err)
	}

	summary := &Summary{
		VideoID:      videoID,
		Title:        video.Title,
		ChannelTitle: video.ChannelTitle,
		SummaryText:  text,
		TemplateUsed: name,
		TokensUsed:   usage.TotalTokens,
		Cost:         usage.Cost,
		CreatedAt:    time.Now().UTC(),
		ReadingLevel: readingLevelLabel,
	}
	if err := a.store.SaveSummary(summary); err != nil {
		return nil, fmt.Errorf("saving summary for %s: %w", videoID, err)
	}
	return summary, nil
}

// SummarizeBatch summarizes each video in order. Failed items, including
// budget exhaustion, are logged and skipped so one bad video never aborts
// the batch. With skipExisting set, videos that already have a summary are
// skipped before any model call.
func (a *Analyzer) SummarizeBatch(ctx context.Context, videoIDs []string, templateName string, autoDetect, skipExisting bool) []*Summary {
	var summaries []*Summary
	for _, id := range videoIDs {
		if skipExisting && a.store.SummaryExists(id) {
			a.logger.Info("summary exists, skipping", zap.String("video_id", id))
			continue
		}
		summary, err := a.SummarizeVideo(ctx, id, templateName, autoDetect)
		if err != nil {
			a.logger.Error("skipping video",
				zap.String("video_id", id),
				zap.Error(err))
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// GetSummary loads a stored summary.
func (a *Analyzer) GetSummary(videoID string) (*Summary, error) {
	return a.store.GetSummary(videoID)
}

// ListSummaries returns the ids of all summarized videos.
func (a *Analyzer) ListSummaries() ([]string, error) {
	return a.store.ListSummaries()
}
