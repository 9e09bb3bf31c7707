package summarizer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kobozo/ai-auto-summarizer/internal/config"
	"github.com/kobozo/ai-auto-summarizer/internal/content"
	"github.com/kobozo/ai-auto-summarizer/internal/llm"
	"github.com/kobozo/ai-auto-summarizer/internal/registry"
	"github.com/kobozo/ai-auto-summarizer/internal/schema"
	"github.com/kobozo/ai-auto-summarizer/internal/summary"
)

// fakeProvider returns a canned summary, or fails on demand, and records the
// prompts it received.
type fakeProvider struct {
	result  *summary.ContentSummary
	err     error
	prompts []string
}

func (f *fakeProvider) Generate(_ context.Context, prompt string, _ *schema.Schema) (*summary.ContentSummary, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeProvider) Chat(ctx context.Context, messages []llm.Message, sc *schema.Schema) (*summary.ContentSummary, error) {
	return f.Generate(ctx, messages[len(messages)-1].Content, sc)
}

func fakeRegistry(p llm.Provider) *llm.Registry {
	r := registry.New[config.LLMConfig, llm.Settings, llm.Provider]()
	r.Register("fake", func(config.LLMConfig, llm.Settings) (llm.Provider, error) {
		return p, nil
	})
	return r
}

func testConfig() *config.Config {
	return &config.Config{
		LLM:        config.LLMConfig{Provider: "fake"},
		Categories: map[string]string{"technology": "Software topics"},
	}
}

func TestNewUnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.Provider = "nonexistent"

	_, err := New(cfg, fakeRegistry(&fakeProvider{}), zap.NewNop().Sugar())
	require.Error(t, err)
	var unknown *registry.UnknownTypeError
	assert.ErrorAs(t, err, &unknown)
}

func TestProcessAttachesSummary(t *testing.T) {
	provider := &fakeProvider{result: &summary.ContentSummary{
		Summary:   "what the video covers",
		KeyPoints: []string{"point one"},
		Topics:    []summary.Topic{{Name: "Go", Description: "language news"}},
	}}

	s, err := New(testConfig(), fakeRegistry(provider), zap.NewNop().Sugar())
	require.NoError(t, err)

	items := []content.Item{{
		ID:         "v1",
		Title:      "Weekly update",
		Transcript: "lots of words",
		Duration:   600,
	}}

	items = s.Process(context.Background(), items)
	require.Len(t, items, 1)
	assert.Equal(t, "what the video covers", items[0].Summary)
	assert.Equal(t, []string{"point one"}, items[0].KeyPoints)
	require.Len(t, items[0].Topics, 1)
	assert.Equal(t, 10.0, items[0].DurationMinutes)

	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "lots of words")
	assert.Contains(t, provider.prompts[0], "Title: Weekly update")
}

func TestProcessSkipsItemsWithoutTranscript(t *testing.T) {
	provider := &fakeProvider{result: &summary.ContentSummary{Summary: "unused"}}

	s, err := New(testConfig(), fakeRegistry(provider), zap.NewNop().Sugar())
	require.NoError(t, err)

	items := s.Process(context.Background(), []content.Item{{ID: "v1", Title: "No captions"}})
	require.Len(t, items, 1)
	assert.False(t, items[0].HasSummary())
	assert.Empty(t, provider.prompts)
}

func TestProcessContinuesAfterProviderError(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("rate limited")}

	s, err := New(testConfig(), fakeRegistry(provider), zap.NewNop().Sugar())
	require.NoError(t, err)

	items := s.Process(context.Background(), []content.Item{
		{ID: "v1", Transcript: "words"},
		{ID: "v2", Transcript: "more words"},
	})
	require.Len(t, items, 2)
	assert.False(t, items[0].HasSummary())
	assert.False(t, items[1].HasSummary())
	// Both items were attempted despite the first failure.
	assert.Len(t, provider.prompts, 2)
}
