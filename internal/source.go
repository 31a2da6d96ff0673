package internal

import "context"

// VideoSource provides video metadata, transcripts, and id enumeration from
// a remote video platform. Implementations must drain pagination internally
// so callers always see complete id lists.
type VideoSource interface {
	// Metadata fetches a video's metadata. Returns ErrNotFound if the video
	// does not exist or is private, ErrQuotaExceeded on platform quota.
	Metadata(ctx context.Context, videoID string) (*Video, error)

	// Transcript fetches a video's caption track. A video without captions
	// is not an error: the result is (nil, nil).
	Transcript(ctx context.Context, videoID string) (*Transcript, error)

	// PlaylistVideoIDs returns all video ids in a playlist, in playlist order.
	PlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error)

	// ChannelVideoIDs returns a channel's video ids, newest first, truncated
	// to limit. limit <= 0 means fetch all available.
	ChannelVideoIDs(ctx context.Context, channelID string, limit int) ([]string, error)
}
