package internal

import (
	"fmt"
	"os"
	"regexp"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	videoURLPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?]+)`),
		regexp.MustCompile(`youtube\.com/embed/([^&\n?]+)`),
	}
	playlistURLPattern = regexp.MustCompile(`list=([^&\n]+)`)
	videoIDPattern     = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ParseVideoArg extracts a video id from a YouTube URL, or accepts a bare
// 11-character id as-is.
func ParseVideoArg(arg string) (string, error) {
	for _, p := range videoURLPatterns {
		if m := p.FindStringSubmatch(arg); m != nil {
			return m[1], nil
		}
	}
	if IsValidYouTubeID(arg) {
		return arg, nil
	}
	return "", fmt.Errorf("not a YouTube video URL or id: %s", arg)
}

// ParsePlaylistArg extracts a playlist id from a YouTube URL, or accepts a
// bare playlist id (PL/UU prefixed) as-is.
func ParsePlaylistArg(arg string) (string, error) {
	if m := playlistURLPattern.FindStringSubmatch(arg); m != nil {
		return m[1], nil
	}
	if len(arg) > 2 && (arg[:2] == "PL" || arg[:2] == "UU") {
		return arg, nil
	}
	return "", fmt.Errorf("not a YouTube playlist URL or id: %s", arg)
}

// IsValidYouTubeID reports whether a string looks like a YouTube video id:
// exactly 11 characters of alphanumerics, hyphens, and underscores.
func IsValidYouTubeID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour
func RenderMarkdown(content string) (string, error) {
	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	renderedContent, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return renderedContent, nil
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
