package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/kobozo/ai-auto-summarizer/internal/config"
	"github.com/kobozo/ai-auto-summarizer/internal/schema"
	"github.com/kobozo/ai-auto-summarizer/internal/summary"
)

// Defensive limits applied when translating schemas for Gemini. The model
// sometimes overruns structured output; capping array and string sizes keeps
// responses inside the token budget.
const (
	geminiMaxArrayItems  = 10
	geminiMaxNestedItems = 5
	geminiMaxStringChars = 1000
)

// Gemini is the Gemini implementation of the Provider interface, backed by
// the google.golang.org/genai client.
type Gemini struct {
	client      *genai.Client
	model       string
	maxLength   int
	temperature float64
	topP        float64
}

var _ Provider = (*Gemini)(nil)

// NewGemini builds a Gemini provider from configuration.
func NewGemini(cfg config.LLMConfig, settings Settings) (Provider, error) {
	apiKey := settings.APIKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required: %w", config.ErrMissingField)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to initialize client: %w", err)
	}

	p := &Gemini{
		client:      client,
		model:       cfg.Model,
		maxLength:   cfg.MaxLength,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
	}
	if p.model == "" {
		p.model = "gemini-pro"
	}
	if p.maxLength == 0 {
		p.maxLength = 2048
	}
	if p.temperature == 0 {
		p.temperature = 0.7
	}
	if p.topP == 0 {
		p.topP = 0.8
	}
	return p, nil
}

func (p *Gemini) Generate(ctx context.Context, prompt string, sc *schema.Schema) (*summary.ContentSummary, error) {
	if sc == nil {
		sc = DefaultSchema()
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), p.generationConfig(sc))
	if err != nil {
		return nil, fmt.Errorf("gemini: generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini: empty response")
	}
	return NormalizeSummary(stripFences(text))
}

func (p *Gemini) Chat(ctx context.Context, messages []Message, sc *schema.Schema) (*summary.ContentSummary, error) {
	if sc == nil {
		sc = DefaultSchema()
	}

	chat, err := p.client.Chats.Create(ctx, p.model, p.generationConfig(sc), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create chat: %w", err)
	}

	messages = foldSystemTurns(messages)

	var last *genai.GenerateContentResponse
	for _, m := range messages {
		if m.Role != RoleUser {
			continue
		}
		last, err = chat.SendMessage(ctx, genai.Part{Text: m.Content})
		if err != nil {
			return nil, fmt.Errorf("gemini: chat message failed: %w", err)
		}
	}
	if last == nil {
		return nil, fmt.Errorf("gemini: conversation contains no user message")
	}

	text := last.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini: empty response")
	}
	return NormalizeSummary(stripFences(text))
}

// foldSystemTurns merges system turns into the first user turn, since the
// chat session has no system role slot. Assistant turns pass through and are
// skipped by the send loop; the session tracks model responses itself.
func foldSystemTurns(messages []Message) []Message {
	var system []string
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		out = append(out, m)
	}
	if len(system) == 0 {
		return out
	}

	prefix := strings.Join(system, "\n\n")
	for i := range out {
		if out[i].Role == RoleUser {
			out[i].Content = prefix + "\n\n" + out[i].Content
			break
		}
	}
	return out
}

func (p *Gemini) generationConfig(sc *schema.Schema) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(p.temperature)),
		TopP:            genai.Ptr(float32(p.topP)),
		MaxOutputTokens: int32(p.maxLength),
		// Stop before the model can overflow past the closing braces.
		StopSequences:    []string{"}}}"},
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiSchema(sc),
	}
}

// geminiSchema translates the neutral schema descriptor into Gemini's native
// schema format, applying the defensive size limits: arrays of objects get a
// tighter cap than flat arrays, and unconstrained strings get a length limit.
func geminiSchema(sc *schema.Schema) *genai.Schema {
	out := &genai.Schema{Description: sc.Description}

	switch sc.Type {
	case schema.TypeObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(sc.Properties))
		for name, prop := range sc.Properties {
			out.Properties[name] = geminiSchema(prop)
		}
		out.Required = sc.Required
	case schema.TypeArray:
		out.Type = genai.TypeArray
		if sc.Items != nil {
			out.Items = geminiSchema(sc.Items)
			if sc.Items.Type == schema.TypeObject {
				out.MaxItems = genai.Ptr(int64(geminiMaxNestedItems))
			} else {
				out.MaxItems = genai.Ptr(int64(geminiMaxArrayItems))
			}
		}
	case schema.TypeString:
		out.Type = genai.TypeString
		if len(sc.Enum) > 0 {
			out.Enum = sc.Enum
		} else {
			out.MaxLength = genai.Ptr(int64(geminiMaxStringChars))
		}
	case schema.TypeInteger:
		out.Type = genai.TypeInteger
		out.Format = "int64"
	case schema.TypeNumber:
		out.Type = genai.TypeNumber
		out.Format = "double"
	case schema.TypeBoolean:
		out.Type = genai.TypeBoolean
	default:
		out.Type = genai.TypeString
	}
	return out
}
