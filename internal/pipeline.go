package internal

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Pipeline orchestrates VideoSource extraction into Storage for a single
// video, a playlist, or a channel. Batch operations tolerate individual
// item failures without aborting.
type Pipeline struct {
	source VideoSource
	store  *Storage
	logger *zap.Logger
}

// NewPipeline wires a pipeline from its collaborators.
func NewPipeline(source VideoSource, store *Storage, logger *zap.Logger) *Pipeline {
	return &Pipeline{source: source, store: store, logger: logger}
}

// ProcessVideo fetches metadata and transcript for one video, attaches the
// transcript, and saves the record. A missing transcript is not an error.
func (p *Pipeline) ProcessVideo(ctx context.Context, videoID string) (*Video, error) {
	p.logger.Info("processing video", zap.String("video_id", videoID))

	video, err := p.source.Metadata(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetching metadata for %s: %w", videoID, err)
	}

	transcript, err := p.source.Transcript(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetching transcript for %s: %w", videoID, err)
	}
	if transcript == nil {
		p.logger.Warn("no transcript available", zap.String("video_id", videoID))
	}
	video.Transcript = transcript

	if err := p.store.Save(video); err != nil {
		return nil, err
	}

	p.logger.Info("saved video", zap.String("video_id", videoID), zap.String("title", video.Title))
	return video, nil
}

// ProcessPlaylist processes every video in a playlist sequentially, in
// playlist order. A failing video is logged and skipped; the result holds
// only the successes.
func (p *Pipeline) ProcessPlaylist(ctx context.Context, playlistID string) ([]*Video, error) {
	p.logger.Info("processing playlist", zap.String("playlist_id", playlistID))

	videoIDs, err := p.source.PlaylistVideoIDs(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("listing playlist %s: %w", playlistID, err)
	}
	p.logger.Info("found playlist videos", zap.Int("count", len(videoIDs)))

	return p.processBatch(ctx, videoIDs), nil
}

// ProcessChannel processes a channel's videos, newest first, capped at
// limit. limit <= 0 means all available.
func (p *Pipeline) ProcessChannel(ctx context.Context, channelID string, limit int) ([]*Video, error) {
	p.logger.Info("processing channel", zap.String("channel_id", channelID), zap.Int("limit", limit))

	videoIDs, err := p.source.ChannelVideoIDs(ctx, channelID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing channel %s: %w", channelID, err)
	}
	p.logger.Info("found channel videos", zap.Int("count", len(videoIDs)))

	return p.processBatch(ctx, videoIDs), nil
}

func (p *Pipeline) processBatch(ctx context.Context, videoIDs []string) []*Video {
	results := make([]*Video, 0, len(videoIDs))
	for i, videoID := range videoIDs {
		p.logger.Info("processing batch item",
			zap.Int("position", i+1), zap.Int("total", len(videoIDs)), zap.String("video_id", videoID))

		video, err := p.ProcessVideo(ctx, videoID)
		if err != nil {
			p.logger.Error("failed to process video", zap.String("video_id", videoID), zap.Error(err))
			continue
		}
		results = append(results, video)
	}
	p.logger.Info("batch complete", zap.Int("succeeded", len(results)), zap.Int("total", len(videoIDs)))
	return results
}
