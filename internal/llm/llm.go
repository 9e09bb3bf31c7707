// Package llm defines the LLM provider abstraction and the response
// normalizer that converts raw model output into validated summaries.
package llm

import (
	"context"
	"strings"

	"github.com/kobozo/ai-auto-summarizer/internal/schema"
	"github.com/kobozo/ai-auto-summarizer/internal/summary"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a chat conversation.
type Message struct {
	Role    string
	Content string
}

// Provider generates structured summaries from prompts. Implementations
// translate the schema descriptor into their vendor's native structured-output
// mechanism and run the raw response through the normalizer before returning.
// A nil schema selects the default summary-only schema.
type Provider interface {
	Generate(ctx context.Context, prompt string, sc *schema.Schema) (*summary.ContentSummary, error)

	// Chat sends a multi-turn conversation. Each user turn is sent in
	// order and only the final response is normalized and returned, so
	// callers should send exactly one user turn per call.
	Chat(ctx context.Context, messages []Message, sc *schema.Schema) (*summary.ContentSummary, error)
}

// Settings carries provider-level settings. The API key, when set, takes
// precedence over the one in the provider config.
type Settings struct {
	APIKey string
}

// DefaultSchema is the schema used when a caller passes none: a bare object
// with a single required summary string.
func DefaultSchema() *schema.Schema {
	return &schema.Schema{
		Type: schema.TypeObject,
		Properties: map[string]*schema.Schema{
			"summary": {
				Type:        schema.TypeString,
				Description: "A concise summary of the content",
			},
		},
		Required: []string{"summary"},
	}
}

// stripFences removes a surrounding markdown code fence from a model
// response, if present.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
