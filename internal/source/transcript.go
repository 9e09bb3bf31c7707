package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Transcript retrieves the transcript for a video through an ordered
// fallback chain: the timedtext endpoint first, then yt-dlp. Every failure
// is logged and swallowed; an empty result just means no transcript.
func (c *YouTubeClient) Transcript(ctx context.Context, videoID string) string {
	transcript, err := c.transcriptFromTimedText(ctx, videoID)
	if err != nil {
		c.log.Warnw("timedtext transcript failed", "video_id", videoID, "error", err)
	}
	if transcript != "" {
		return transcript
	}

	transcript, err = c.transcriptFromYTDLP(ctx, videoID)
	if err != nil {
		c.log.Warnw("yt-dlp transcript failed", "video_id", videoID, "error", err)
	}
	return transcript
}

// timedtext XML documents

type timedTextTrackList struct {
	Tracks []timedTextTrack `xml:"track"`
}

type timedTextTrack struct {
	LangCode string `xml:"lang_code,attr"`
	Name     string `xml:"name,attr"`
	Kind     string `xml:"kind,attr"`
}

type timedTextTranscript struct {
	Texts []string `xml:"text"`
}

// transcriptFromTimedText fetches captions through YouTube's timedtext
// endpoint, preferring English tracks with manual tracks before
// auto-generated ones.
func (c *YouTubeClient) transcriptFromTimedText(ctx context.Context, videoID string) (string, error) {
	listURL := fmt.Sprintf("%s/api/timedtext?type=list&v=%s", c.timedtextBaseURL, url.QueryEscape(videoID))
	body, err := c.fetch(ctx, listURL)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(body) == "" {
		return "", nil
	}

	var list timedTextTrackList
	if err := xml.Unmarshal([]byte(body), &list); err != nil {
		return "", fmt.Errorf("timedtext: failed to parse track list: %w", err)
	}

	track := pickTrack(list.Tracks)
	if track == nil {
		return "", nil
	}

	transcriptURL := fmt.Sprintf("%s/api/timedtext?lang=%s&v=%s",
		c.timedtextBaseURL, url.QueryEscape(track.LangCode), url.QueryEscape(videoID))
	if track.Name != "" {
		transcriptURL += "&name=" + url.QueryEscape(track.Name)
	}

	body, err = c.fetch(ctx, transcriptURL)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(body) == "" {
		return "", nil
	}

	var transcript timedTextTranscript
	if err := xml.Unmarshal([]byte(body), &transcript); err != nil {
		return "", fmt.Errorf("timedtext: failed to parse transcript: %w", err)
	}

	parts := make([]string, 0, len(transcript.Texts))
	for _, t := range transcript.Texts {
		t = strings.TrimSpace(html.UnescapeString(t))
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " "), nil
}

// pickTrack chooses the caption track to download: a manual English track if
// one exists, then any English track, then the first track of any language.
func pickTrack(tracks []timedTextTrack) *timedTextTrack {
	for i, t := range tracks {
		if strings.HasPrefix(t.LangCode, "en") && t.Kind != "asr" {
			return &tracks[i]
		}
	}
	for i, t := range tracks {
		if strings.HasPrefix(t.LangCode, "en") {
			return &tracks[i]
		}
	}
	if len(tracks) > 0 {
		return &tracks[0]
	}
	return nil
}

func (c *YouTubeClient) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("timedtext: failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("timedtext: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timedtext: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("timedtext: failed to read response: %w", err)
	}
	return string(body), nil
}

// commandRunner runs an external command. It exists so tests can stub out
// the yt-dlp binary.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

// transcriptFromYTDLP asks yt-dlp to write English subtitles into a temp
// directory without downloading the video, then extracts text from whichever
// subtitle file appears.
func (c *YouTubeClient) transcriptFromYTDLP(ctx context.Context, videoID string) (string, error) {
	tempDir, err := os.MkdirTemp("", "yt-subtitles-")
	if err != nil {
		return "", fmt.Errorf("yt-dlp: failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
	err = c.runner.Run(ctx, "yt-dlp",
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", "en",
		"--output", filepath.Join(tempDir, "subtitles"),
		"--quiet",
		videoURL,
	)
	if err != nil {
		return "", fmt.Errorf("yt-dlp: %w", err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return "", fmt.Errorf("yt-dlp: failed to read temp dir: %w", err)
	}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if ext != ".vtt" && ext != ".srt" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tempDir, entry.Name()))
		if err != nil {
			return "", fmt.Errorf("yt-dlp: failed to read subtitle file: %w", err)
		}
		return ExtractSubtitleText(string(data)), nil
	}
	return "", nil
}
