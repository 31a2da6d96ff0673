package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// indexFileName is the reserved name of the denormalized index inside the
// metadata directory. ListAll never returns it as a video.
const indexFileName = "videos.json"

// Storage persists video records, transcripts, and summaries as flat files
// under a data root:
//
//	metadata/<id>.json     one video record per file
//	metadata/videos.json   index sorted by publish date, newest first
//	transcripts/<id>.txt   raw transcript text
//	summaries/<id>.json    one summary per video
type Storage struct {
	dataDir        string
	metadataDir    string
	transcriptsDir string
	summariesDir   string
	logger         *zap.Logger
}

// NewStorage creates the storage layout under dataDir.
func NewStorage(dataDir string, logger *zap.Logger) (*Storage, error) {
	s := &Storage{
		dataDir:        dataDir,
		metadataDir:    filepath.Join(dataDir, "metadata"),
		transcriptsDir: filepath.Join(dataDir, "transcripts"),
		summariesDir:   filepath.Join(dataDir, "summaries"),
		logger:         logger,
	}
	for _, dir := range []string{s.metadataDir, s.transcriptsDir, s.summariesDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}
	}
	return s, nil
}

// TranscriptsDir exposes the transcript directory for components that read
// raw transcript text directly.
func (s *Storage) TranscriptsDir() string { return s.transcriptsDir }

// indexEntry is one denormalized row of the videos index.
type indexEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	PublishedAt string `json:"published_at"`
}

type videoIndex struct {
	Videos []indexEntry `json:"videos"`
}

// Save writes a video record as a full overwrite, updates the index, and
// writes the transcript text file when a transcript is attached.
//
// ExtractedAt is preserved from any previously stored record with the same
// id, so it keeps first-extraction semantics across re-extraction.
func (s *Storage) Save(video *Video) error {
	if existing, err := s.FindByID(video.ID); err == nil {
		video.ExtractedAt = existing.ExtractedAt
	}

	data, err := json.MarshalIndent(video, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling video %s: %w", video.ID, err)
	}
	if err := writeFileAtomic(s.videoPath(video.ID), data); err != nil {
		return fmt.Errorf("saving video %s: %w", video.ID, err)
	}

	if err := s.updateIndex(video); err != nil {
		return err
	}

	if video.Transcript != nil {
		transcriptPath := filepath.Join(s.transcriptsDir, video.ID+".txt")
		if err := writeFileAtomic(transcriptPath, []byte(video.Transcript.Text)); err != nil {
			return fmt.Errorf("saving transcript %s: %w", video.ID, err)
		}
	}

	s.logger.Debug("saved video", zap.String("video_id", video.ID), zap.String("title", video.Title))
	return nil
}

// FindByID reads the per-video file directly; the index is not consulted.
func (s *Storage) FindByID(videoID string) (*Video, error) {
	data, err := os.ReadFile(s.videoPath(videoID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("video %s: %w", videoID, ErrNotFound)
		}
		return nil, fmt.Errorf("reading video %s: %w", videoID, err)
	}
	var video Video
	if err := json.Unmarshal(data, &video); err != nil {
		return nil, fmt.Errorf("parsing video %s: %w", videoID, err)
	}
	return &video, nil
}

// ListAll enumerates every per-video file except the index. Order follows
// directory enumeration and is unspecified; the index exists for ordering.
func (s *Storage) ListAll() ([]*Video, error) {
	entries, err := os.ReadDir(s.metadataDir)
	if err != nil {
		return nil, fmt.Errorf("reading metadata directory: %w", err)
	}

	var videos []*Video
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == indexFileName || !strings.HasSuffix(name, ".json") {
			continue
		}
		video, err := s.FindByID(strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, nil
}

// ReadTranscriptText returns the raw transcript text for a video.
func (s *Storage) ReadTranscriptText(videoID string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.transcriptsDir, videoID+".txt"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("transcript for %s: %w", videoID, ErrNotFound)
		}
		return "", fmt.Errorf("reading transcript %s: %w", videoID, err)
	}
	return string(data), nil
}

// Index returns the denormalized index entries, newest first.
func (s *Storage) Index() ([]IndexEntry, error) {
	index, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	out := make([]IndexEntry, len(index.Videos))
	for i, e := range index.Videos {
		out[i] = IndexEntry(e)
	}
	return out, nil
}

// IndexEntry is the public shape of a videos.json row.
type IndexEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	PublishedAt string `json:"published_at"`
}

// SaveSummary writes or overwrites the summary file for a video.
func (s *Storage) SaveSummary(summary *Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary %s: %w", summary.VideoID, err)
	}
	if err := writeFileAtomic(s.summaryPath(summary.VideoID), data); err != nil {
		return fmt.Errorf("saving summary %s: %w", summary.VideoID, err)
	}
	s.logger.Debug("saved summary", zap.String("video_id", summary.VideoID))
	return nil
}

// GetSummary loads a stored summary.
func (s *Storage) GetSummary(videoID string) (*Summary, error) {
	data, err := os.ReadFile(s.summaryPath(videoID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("summary for %s: %w", videoID, ErrNotFound)
		}
		return nil, fmt.Errorf("reading summary %s: %w", videoID, err)
	}
	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("parsing summary %s: %w", videoID, err)
	}
	return &summary, nil
}

// SummaryExists reports whether a summary file exists for the video.
func (s *Storage) SummaryExists(videoID string) bool {
	_, err := os.Stat(s.summaryPath(videoID))
	return err == nil
}

// ListSummaries returns the ids of all videos that have a summary.
func (s *Storage) ListSummaries() ([]string, error) {
	entries, err := os.ReadDir(s.summariesDir)
	if err != nil {
		return nil, fmt.Errorf("reading summaries directory: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (s *Storage) videoPath(videoID string) string {
	return filepath.Join(s.metadataDir, videoID+".json")
}

func (s *Storage) summaryPath(videoID string) string {
	return filepath.Join(s.summariesDir, videoID+".json")
}

func (s *Storage) loadIndex() (*videoIndex, error) {
	data, err := os.ReadFile(filepath.Join(s.metadataDir, indexFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &videoIndex{Videos: []indexEntry{}}, nil
		}
		return nil, fmt.Errorf("reading index: %w", err)
	}
	var index videoIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parsing index: %w", err)
	}
	return &index, nil
}

// updateIndex replaces the entry with the video's id and rewrites the whole
// index sorted by publish date descending. The rewrite is full-file.
func (s *Storage) updateIndex(video *Video) error {
	index, err := s.loadIndex()
	if err != nil {
		return err
	}

	kept := index.Videos[:0]
	for _, e := range index.Videos {
		if e.ID != video.ID {
			kept = append(kept, e)
		}
	}
	index.Videos = append(kept, indexEntry{
		ID:          video.ID,
		Title:       video.Title,
		Channel:     video.ChannelTitle,
		PublishedAt: video.PublishedAt.UTC().Format(time.RFC3339),
	})

	sort.SliceStable(index.Videos, func(i, j int) bool {
		return index.Videos[i].PublishedAt > index.Videos[j].PublishedAt
	})

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling index: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(s.metadataDir, indexFileName), data); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}
	return nil
}
