package internal

import (
	"strings"
	"time"
)

// TranscriptSegment is a single timed caption chunk. Segments are ordered
// chronologically; insertion order is chronological order.
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript holds the full caption track for one video.
// Text is always the space-joined concatenation of the segment texts.
type Transcript struct {
	VideoID         string              `json:"video_id"`
	Text            string              `json:"text"`
	Language        string              `json:"language"`
	Segments        []TranscriptSegment `json:"segments"`
	IsAutoGenerated bool                `json:"is_auto_generated"`
}

// NewTranscript builds a Transcript, deriving Text from the segments.
func NewTranscript(videoID, language string, autoGenerated bool, segments []TranscriptSegment) *Transcript {
	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}
	return &Transcript{
		VideoID:         videoID,
		Text:            strings.Join(texts, " "),
		Language:        language,
		Segments:        segments,
		IsAutoGenerated: autoGenerated,
	}
}

// Video is the stored record for one YouTube video. ID is immutable once
// created. ExtractedAt reflects the first time the video was written to
// storage and survives re-extraction.
type Video struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	ChannelTitle string      `json:"channel_title"`
	ChannelID    string      `json:"channel_id"`
	Duration     int         `json:"duration"` // whole seconds
	PublishedAt  time.Time   `json:"published_at"`
	Description  string      `json:"description"`
	Tags         []string    `json:"tags"`
	ViewCount    *int64      `json:"view_count"`
	LikeCount    *int64      `json:"like_count"`
	CommentCount *int64      `json:"comment_count"`
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
	ExtractedAt  time.Time   `json:"extracted_at"`
	Transcript   *Transcript `json:"transcript,omitempty"`
}

// Summary is a generated, reading-level-controlled summary for one video.
// Title and ChannelTitle are copied at generation time and may drift from
// the video record. At most one summary exists per video; regeneration
// overwrites.
type Summary struct {
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channel_title"`
	SummaryText  string    `json:"summary_text"`
	TemplateUsed string    `json:"template_used"`
	TokensUsed   int64     `json:"tokens_used"`
	Cost         float64   `json:"cost"`
	CreatedAt    time.Time `json:"created_at"`
	ReadingLevel string    `json:"reading_level,omitempty"`
}

// UsageMetrics is one immutable cost ledger entry for a single LLM call.
type UsageMetrics struct {
	PromptTokens     int64     `json:"prompt_tokens"`
	CompletionTokens int64     `json:"completion_tokens"`
	TotalTokens      int64     `json:"total_tokens"`
	Cost             float64   `json:"cost"`
	Model            string    `json:"model"`
	Timestamp        time.Time `json:"timestamp"`
}
