package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	timedtextBaseURL = "https://www.youtube.com/api/timedtext"
	pageSize         = 50
)

// YouTubeSource implements VideoSource against the YouTube Data API v3 for
// metadata and id enumeration, and the public timedtext endpoint for
// caption tracks.
type YouTubeSource struct {
	service      *youtube.Service
	httpClient   *http.Client
	timedtextURL string
	logger       *zap.Logger
}

// NewYouTubeSource creates a source authenticated with an API key.
func NewYouTubeSource(ctx context.Context, apiKey string, logger *zap.Logger) (*YouTubeSource, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}
	return &YouTubeSource{
		service:      service,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		timedtextURL: timedtextBaseURL,
		logger:       logger,
	}, nil
}

// Metadata fetches snippet, content details, and statistics for one video.
func (s *YouTubeSource) Metadata(ctx context.Context, videoID string) (*Video, error) {
	resp, err := s.service.Videos.
		List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapAPIError(err, videoID)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s: %w", videoID, ErrNotFound)
	}

	item := resp.Items[0]
	publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing publish time for %s: %w", videoID, err)
	}

	video := &Video{
		ID:           videoID,
		Title:        item.Snippet.Title,
		ChannelTitle: item.Snippet.ChannelTitle,
		ChannelID:    item.Snippet.ChannelId,
		Duration:     parseISODuration(item.ContentDetails.Duration),
		PublishedAt:  publishedAt,
		Description:  item.Snippet.Description,
		Tags:         item.Snippet.Tags,
		ExtractedAt:  time.Now(),
	}
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
		video.ThumbnailURL = item.Snippet.Thumbnails.High.Url
	}
	if item.Statistics != nil {
		video.ViewCount = int64Ptr(item.Statistics.ViewCount)
		video.LikeCount = int64Ptr(item.Statistics.LikeCount)
		video.CommentCount = int64Ptr(item.Statistics.CommentCount)
	}
	return video, nil
}

// timedtextResponse is the json3 payload of the timedtext endpoint.
type timedtextResponse struct {
	Events []timedtextEvent `json:"events"`
}

type timedtextEvent struct {
	StartMs    int64          `json:"tStartMs"`
	DurationMs int64          `json:"dDurationMs"`
	Segs       []timedtextSeg `json:"segs,omitempty"`
}

type timedtextSeg struct {
	UTF8 string `json:"utf8"`
}

// Transcript fetches the English caption track via the timedtext endpoint.
// Videos without captions yield (nil, nil).
func (s *YouTubeSource) Transcript(ctx context.Context, videoID string) (*Transcript, error) {
	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", "en")
	params.Set("fmt", "json3")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.timedtextURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building timedtext request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("timedtext request for %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden {
		s.logger.Debug("no captions available", zap.String("video_id", videoID), zap.Int("status", resp.StatusCode))
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext returned status %d for %s", resp.StatusCode, videoID)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading timedtext response: %w", err)
	}
	// The endpoint answers 200 with an empty body when no track exists.
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}

	var tt timedtextResponse
	if err := json.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parsing timedtext response: %w", err)
	}

	var segments []TranscriptSegment
	for _, event := range tt.Events {
		if len(event.Segs) == 0 {
			continue
		}
		var text strings.Builder
		for _, seg := range event.Segs {
			text.WriteString(seg.UTF8)
		}
		cleaned := strings.TrimSpace(strings.ReplaceAll(text.String(), "\n", " "))
		if cleaned == "" {
			continue
		}
		segments = append(segments, TranscriptSegment{
			Text:     cleaned,
			Start:    float64(event.StartMs) / 1000,
			Duration: float64(event.DurationMs) / 1000,
		})
	}
	if len(segments) == 0 {
		return nil, nil
	}

	return NewTranscript(videoID, "en", true, segments), nil
}

// PlaylistVideoIDs drains playlist pagination and returns the complete id
// list in playlist order.
func (s *YouTubeSource) PlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	var videoIDs []string
	pageToken := ""

	for {
		resp, err := s.service.PlaylistItems.
			List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(pageSize).
			PageToken(pageToken).
			Context(ctx).
			Do()
		if err != nil {
			return nil, wrapAPIError(err, playlistID)
		}
		for _, item := range resp.Items {
			videoIDs = append(videoIDs, item.ContentDetails.VideoId)
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			return videoIDs, nil
		}
	}
}

// ChannelVideoIDs lists a channel's uploads newest first. Enumeration stops
// once limit ids are collected; the result is truncated to exactly limit.
func (s *YouTubeSource) ChannelVideoIDs(ctx context.Context, channelID string, limit int) ([]string, error) {
	var videoIDs []string
	pageToken := ""

	for {
		maxResults := int64(pageSize)
		if limit > 0 && limit < pageSize {
			maxResults = int64(limit)
		}

		resp, err := s.service.Search.
			List([]string{"id"}).
			ChannelId(channelID).
			Type("video").
			Order("date").
			MaxResults(maxResults).
			PageToken(pageToken).
			Context(ctx).
			Do()
		if err != nil {
			return nil, wrapAPIError(err, channelID)
		}
		for _, item := range resp.Items {
			videoIDs = append(videoIDs, item.Id.VideoId)
		}

		if limit > 0 && len(videoIDs) >= limit {
			return videoIDs[:limit], nil
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			return videoIDs, nil
		}
	}
}

// wrapAPIError maps Data API failures onto the error taxonomy.
func wrapAPIError(err error, id string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusForbidden:
			return fmt.Errorf("%s: %w", id, ErrQuotaExceeded)
		case apiErr.Code == http.StatusNotFound:
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
	}
	return fmt.Errorf("youtube api call for %s: %w", id, err)
}

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISODuration converts an ISO 8601 duration like PT5M30S to whole
// seconds. Malformed input yields 0.
func parseISODuration(d string) int {
	match := isoDurationPattern.FindStringSubmatch(d)
	if match == nil {
		return 0
	}
	seconds := 0
	for i, factor := range []int{3600, 60, 1} {
		if match[i+1] != "" {
			var n int
			fmt.Sscanf(match[i+1], "%d", &n)
			seconds += n * factor
		}
	}
	return seconds
}

func int64Ptr(v uint64) *int64 {
	n := int64(v)
	return &n
}
