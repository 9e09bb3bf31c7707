package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const trackListXML = `<?xml version="1.0" encoding="utf-8"?>
<transcript_list>
  <track lang_code="de" name="Deutsch" kind=""/>
  <track lang_code="en" name="" kind="asr"/>
  <track lang_code="en" name="English" kind=""/>
</transcript_list>`

const transcriptXML = `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0" dur="2.5">Hello world</text>
  <text start="2.5" dur="2">this is &amp;quot;quoted&amp;quot;</text>
  <text start="4.5" dur="1">  </text>
</transcript>`

// failRunner simulates yt-dlp being unavailable.
type failRunner struct{}

func (failRunner) Run(context.Context, string, ...string) error {
	return fmt.Errorf("binary not found")
}

// vttRunner simulates yt-dlp writing an English subtitle file.
type vttRunner struct {
	content string
}

func (r vttRunner) Run(_ context.Context, _ string, args ...string) error {
	for i, a := range args {
		if a == "--output" && i+1 < len(args) {
			return os.WriteFile(args[i+1]+".en.vtt", []byte(r.content), 0o644)
		}
	}
	return fmt.Errorf("no output path given")
}

func timedtextClient(t *testing.T, handler http.Handler, runner commandRunner) *YouTubeClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &YouTubeClient{
		httpClient:       srv.Client(),
		timedtextBaseURL: srv.URL,
		runner:           runner,
		log:              zap.NewNop().Sugar(),
	}
}

func TestTranscriptFromTimedText(t *testing.T) {
	c := timedtextClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/timedtext", r.URL.Path)
		if r.URL.Query().Get("type") == "list" {
			fmt.Fprint(w, trackListXML)
			return
		}
		// The manual English track must be requested, not the asr one.
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		assert.Equal(t, "English", r.URL.Query().Get("name"))
		fmt.Fprint(w, transcriptXML)
	}), failRunner{})

	got := c.Transcript(context.Background(), "vid1")
	assert.Equal(t, `Hello world this is "quoted"`, got)
}

func TestTranscriptFallsBackToYTDLP(t *testing.T) {
	vtt := "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nfallback words\n"
	c := timedtextClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// No caption tracks published.
		fmt.Fprint(w, `<transcript_list></transcript_list>`)
	}), vttRunner{content: vtt})

	got := c.Transcript(context.Background(), "vid1")
	assert.Equal(t, "fallback words", got)
}

func TestTranscriptAllMethodsFail(t *testing.T) {
	c := timedtextClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}), failRunner{})

	assert.Equal(t, "", c.Transcript(context.Background(), "vid1"))
}

func TestPickTrack(t *testing.T) {
	manual := timedTextTrack{LangCode: "en", Name: "English"}
	auto := timedTextTrack{LangCode: "en", Kind: "asr"}
	german := timedTextTrack{LangCode: "de", Name: "Deutsch"}

	got := pickTrack([]timedTextTrack{german, auto, manual})
	require.NotNil(t, got)
	assert.Equal(t, "English", got.Name)

	got = pickTrack([]timedTextTrack{german, auto})
	require.NotNil(t, got)
	assert.Equal(t, "asr", got.Kind)

	got = pickTrack([]timedTextTrack{german})
	require.NotNil(t, got)
	assert.Equal(t, "de", got.LangCode)

	assert.Nil(t, pickTrack(nil))
}
