package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := NewStorage(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return store
}

func testVideo(id, title string, published time.Time) *Video {
	return &Video{
		ID:           id,
		Title:        title,
		ChannelTitle: "Test Channel",
		ChannelID:    "UCtest",
		Duration:     330,
		PublishedAt:  published,
		ExtractedAt:  time.Now(),
	}
}

func TestStorageSaveAndFindByID(t *testing.T) {
	store := newTestStorage(t)

	video := testVideo("dQw4w9WgXcQ", "Test Video", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	video.Transcript = NewTranscript("dQw4w9WgXcQ", "en", true, []TranscriptSegment{
		{Text: "hello", Start: 0, Duration: 1.5},
		{Text: "world", Start: 1.5, Duration: 2},
	})
	require.NoError(t, store.Save(video))

	got, err := store.FindByID("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Test Video", got.Title)
	assert.Equal(t, 330, got.Duration)
	require.NotNil(t, got.Transcript)
	assert.Equal(t, "hello world", got.Transcript.Text)

	text, err := store.ReadTranscriptText("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestStorageFindByIDNotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.FindByID("missingvid1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorageFindByIDMalformedJSON(t *testing.T) {
	store := newTestStorage(t)

	path := filepath.Join(store.metadataDir, "badrecord01.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := store.FindByID("badrecord01")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestStorageSavePreservesExtractedAt(t *testing.T) {
	store := newTestStorage(t)

	first := testVideo("aaaaaaaaaaa", "First Pass", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	first.ExtractedAt = time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(first))

	second := testVideo("aaaaaaaaaaa", "Second Pass", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	second.ExtractedAt = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(second))

	got, err := store.FindByID("aaaaaaaaaaa")
	require.NoError(t, err)
	assert.Equal(t, "Second Pass", got.Title)
	assert.True(t, got.ExtractedAt.Equal(first.ExtractedAt), "re-saving must keep the first extraction time")
}

func TestStorageIndexNewestFirst(t *testing.T) {
	store := newTestStorage(t)

	old := testVideo("oldvideo123", "Old", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC))
	mid := testVideo("midvideo123", "Mid", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	newer := testVideo("newvideo123", "New", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	// Insertion order deliberately differs from publish order.
	for _, v := range []*Video{mid, newer, old} {
		require.NoError(t, store.Save(v))
	}

	entries, err := store.Index()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "newvideo123", entries[0].ID)
	assert.Equal(t, "midvideo123", entries[1].ID)
	assert.Equal(t, "oldvideo123", entries[2].ID)
}

func TestStorageIndexReplacesOnResave(t *testing.T) {
	store := newTestStorage(t)

	video := testVideo("samevideo01", "Original Title", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(video))

	video.Title = "Updated Title"
	require.NoError(t, store.Save(video))

	entries, err := store.Index()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Updated Title", entries[0].Title)
}

func TestStorageListAllSkipsIndexFile(t *testing.T) {
	store := newTestStorage(t)

	require.NoError(t, store.Save(testVideo("videoone123", "One", time.Now())))
	require.NoError(t, store.Save(testVideo("videotwo123", "Two", time.Now())))

	videos, err := store.ListAll()
	require.NoError(t, err)
	assert.Len(t, videos, 2)
	for _, v := range videos {
		assert.NotEmpty(t, v.ID)
	}
}

func TestStorageListAllPropagatesMalformedJSON(t *testing.T) {
	store := newTestStorage(t)

	require.NoError(t, store.Save(testVideo("goodvideo01", "Good", time.Now())))
	path := filepath.Join(store.metadataDir, "badvideo001.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	_, err := store.ListAll()
	assert.Error(t, err)
}

func TestStorageSummaries(t *testing.T) {
	store := newTestStorage(t)

	assert.False(t, store.SummaryExists("somevideo01"))
	_, err := store.GetSummary("somevideo01")
	assert.ErrorIs(t, err, ErrNotFound)

	summary := &Summary{
		VideoID:      "somevideo01",
		Title:        "Some Video",
		ChannelTitle: "Test Channel",
		SummaryText:  "A short summary.",
		TemplateUsed: "general",
		TokensUsed:   321,
		Cost:         0.0012,
		CreatedAt:    time.Now().UTC(),
		ReadingLevel: "Grade 5-6",
	}
	require.NoError(t, store.SaveSummary(summary))

	assert.True(t, store.SummaryExists("somevideo01"))
	got, err := store.GetSummary("somevideo01")
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", got.SummaryText)
	assert.Equal(t, int64(321), got.TokensUsed)

	// Regeneration overwrites.
	summary.SummaryText = "A better summary."
	require.NoError(t, store.SaveSummary(summary))
	got, err = store.GetSummary("somevideo01")
	require.NoError(t, err)
	assert.Equal(t, "A better summary.", got.SummaryText)

	ids, err := store.ListSummaries()
	require.NoError(t, err)
	assert.Equal(t, []string{"somevideo01"}, ids)
}
