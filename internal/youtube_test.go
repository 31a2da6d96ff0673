package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		duration string
		want     int
	}{
		{"PT1H2M3S", 3723},
		{"PT5M30S", 330},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"PT10M", 600},
		{"PT1H30S", 3630},
		{"PT0S", 0},
		{"P1DT2H", 0},
		{"5:30", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.duration, func(t *testing.T) {
			assert.Equal(t, tt.want, parseISODuration(tt.duration))
		})
	}
}

func newTimedtextSource(serverURL string) *YouTubeSource {
	return &YouTubeSource{
		httpClient:   &http.Client{Timeout: 5 * time.Second},
		timedtextURL: serverURL,
		logger:       zap.NewNop(),
	}
}

func TestTranscriptParsesSegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("v"))
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		assert.Equal(t, "json3", r.URL.Query().Get("fmt"))
		w.Write([]byte(`{
			"events": [
				{"tStartMs": 0, "dDurationMs": 2000, "segs": [{"utf8": "hello "}, {"utf8": "world"}]},
				{"tStartMs": 2000, "dDurationMs": 1500},
				{"tStartMs": 3500, "dDurationMs": 1000, "segs": [{"utf8": "line one\nline two"}]},
				{"tStartMs": 4500, "dDurationMs": 500, "segs": [{"utf8": "\n"}]}
			]
		}`))
	}))
	defer server.Close()

	source := newTimedtextSource(server.URL)
	transcript, err := source.Transcript(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	require.NotNil(t, transcript)

	assert.Equal(t, "dQw4w9WgXcQ", transcript.VideoID)
	assert.Equal(t, "en", transcript.Language)
	assert.True(t, transcript.IsAutoGenerated)
	require.Len(t, transcript.Segments, 2, "events without segs or with only whitespace are dropped")

	assert.Equal(t, "hello world", transcript.Segments[0].Text)
	assert.Equal(t, 0.0, transcript.Segments[0].Start)
	assert.Equal(t, 2.0, transcript.Segments[0].Duration)

	assert.Equal(t, "line one line two", transcript.Segments[1].Text)
	assert.Equal(t, 3.5, transcript.Segments[1].Start)

	assert.Equal(t, "hello world line one line two", transcript.Text)
}

func TestTranscriptNoCaptions(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "404",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "403",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("  \n"))
			},
		},
		{
			name: "no usable segments",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"events": [{"tStartMs": 0, "dDurationMs": 1000}]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			transcript, err := newTimedtextSource(server.URL).Transcript(context.Background(), "dQw4w9WgXcQ")
			assert.NoError(t, err)
			assert.Nil(t, transcript)
		})
	}
}

func TestTranscriptServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTimedtextSource(server.URL).Transcript(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorContains(t, err, "status 500")
}

func TestTranscriptMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := newTimedtextSource(server.URL).Transcript(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorContains(t, err, "parsing timedtext response")
}

func TestWrapAPIError(t *testing.T) {
	quota := wrapAPIError(&googleapi.Error{Code: http.StatusForbidden}, "dQw4w9WgXcQ")
	assert.ErrorIs(t, quota, ErrQuotaExceeded)

	missing := wrapAPIError(&googleapi.Error{Code: http.StatusNotFound}, "dQw4w9WgXcQ")
	assert.ErrorIs(t, missing, ErrNotFound)

	other := wrapAPIError(&googleapi.Error{Code: http.StatusBadRequest}, "dQw4w9WgXcQ")
	assert.NotErrorIs(t, other, ErrQuotaExceeded)
	assert.NotErrorIs(t, other, ErrNotFound)

	plain := wrapAPIError(errors.New("connection reset"), "dQw4w9WgXcQ")
	assert.ErrorContains(t, plain, "connection reset")
}
