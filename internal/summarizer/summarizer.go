// Package summarizer enriches fetched content with LLM-generated summaries.
package summarizer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kobozo/ai-auto-summarizer/internal/config"
	"github.com/kobozo/ai-auto-summarizer/internal/content"
	"github.com/kobozo/ai-auto-summarizer/internal/llm"
	"github.com/kobozo/ai-auto-summarizer/internal/prompt"
	"github.com/kobozo/ai-auto-summarizer/internal/summary"
)

// Summarizer runs every content item with a transcript through the
// configured LLM provider. Items without a transcript, and items whose
// summarization fails, pass through with an empty summary.
type Summarizer struct {
	cfg      *config.Config
	provider llm.Provider
	log      *zap.SugaredLogger
}

// New constructs a Summarizer, instantiating the provider named by the
// configuration through the registry.
func New(cfg *config.Config, reg *llm.Registry, log *zap.SugaredLogger) (*Summarizer, error) {
	provider, err := reg.Create(cfg.LLM.Provider, cfg.LLM, llm.Settings{})
	if err != nil {
		return nil, fmt.Errorf("summarizer: creating provider: %w", err)
	}
	return &Summarizer{cfg: cfg, provider: provider, log: log}, nil
}

// Process summarizes each item in place and returns the slice. Individual
// failures are logged and leave the item unsummarized; they never abort the
// batch.
func (s *Summarizer) Process(ctx context.Context, items []content.Item) []content.Item {
	for i := range items {
		item := &items[i]

		if !item.HasTranscript() {
			s.log.Infow("no transcript available, skipping summarization", "id", item.ID, "title", item.Title)
			continue
		}

		s.log.Infow("summarizing content", "id", item.ID, "title", item.Title)

		result, err := s.summarize(ctx, item)
		if err != nil {
			s.log.Errorw("summarization failed", "id", item.ID, "title", item.Title, "error", err)
			continue
		}
		apply(item, result)
	}
	return items
}

func (s *Summarizer) summarize(ctx context.Context, item *content.Item) (*summary.ContentSummary, error) {
	p, err := prompt.ContentAnalysis(item.Transcript, item.Title, item.Description, s.cfg.Categories)
	if err != nil {
		return nil, fmt.Errorf("summarizer: rendering prompt: %w", err)
	}

	return s.provider.Generate(ctx, p, summary.Schema())
}

func apply(item *content.Item, result *summary.ContentSummary) {
	item.Summary = result.Summary
	if len(result.KeyPoints) > 0 {
		item.KeyPoints = result.KeyPoints
	}
	if len(result.Topics) > 0 {
		item.Topics = result.Topics
	}
	if item.Duration > 0 {
		item.DurationMinutes = item.Duration / 60
	} else if result.DurationMinutes > 0 {
		item.DurationMinutes = result.DurationMinutes
	}
}
