package llm

import (
	"context"
	"fmt"
	"sort"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/kobozo/ai-auto-summarizer/internal/config"
	"github.com/kobozo/ai-auto-summarizer/internal/schema"
	"github.com/kobozo/ai-auto-summarizer/internal/summary"
)

const openAISystemPrompt = "You are a powerful text analysis system specializing in concise summarization. " +
	"Focus on identifying key points while preserving critical information and overall context."

// OpenAI is the OpenAI implementation of the Provider interface. Structured
// output is requested through the chat completions JSON-schema response
// format.
type OpenAI struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
	topP        float64
}

var _ Provider = (*OpenAI)(nil)

// NewOpenAI builds an OpenAI provider from configuration.
func NewOpenAI(cfg config.LLMConfig, settings Settings) (Provider, error) {
	apiKey := settings.APIKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai: api key is required: %w", config.ErrMissingField)
	}

	p := &OpenAI{
		client:      openai.NewClient(option.WithAPIKey(apiKey)),
		model:       cfg.Model,
		maxTokens:   cfg.MaxLength,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
	}
	if p.model == "" {
		p.model = "gpt-4-turbo"
	}
	if p.maxTokens == 0 {
		p.maxTokens = 500
	}
	if p.temperature == 0 {
		p.temperature = 0.7
	}
	if p.topP == 0 {
		p.topP = 1.0
	}
	return p, nil
}

func (p *OpenAI) Generate(ctx context.Context, prompt string, sc *schema.Schema) (*summary.ContentSummary, error) {
	return p.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}}, sc)
}

func (p *OpenAI) Chat(ctx context.Context, messages []Message, sc *schema.Schema) (*summary.ContentSummary, error) {
	if sc == nil {
		sc = DefaultSchema()
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    p.buildMessages(messages),
		MaxTokens:   openai.Int(int64(p.maxTokens)),
		Temperature: openai.Float(p.temperature),
		TopP:        openai.Float(p.topP),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "content_summary",
					Description: openai.String("Structured content summary"),
					Schema:      openAISchema(sc),
					Strict:      openai.Bool(true),
				},
			},
		},
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("openai: empty response")
	}

	return NormalizeSummary(stripFences(resp.Choices[0].Message.Content))
}

// buildMessages converts messages to API params, inserting the default
// system turn when the conversation has none.
func (p *OpenAI) buildMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	hasSystem := false
	for _, m := range messages {
		if m.Role == RoleSystem {
			hasSystem = true
			break
		}
	}

	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if !hasSystem {
		out = append(out, openai.SystemMessage(openAISystemPrompt))
	}
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// openAISchema translates the neutral schema descriptor into a JSON schema
// document. Strict structured output requires every object property to be
// required and additional properties to be rejected.
func openAISchema(sc *schema.Schema) map[string]any {
	out := map[string]any{"type": string(sc.Type)}
	if sc.Description != "" {
		out["description"] = sc.Description
	}
	if len(sc.Enum) > 0 {
		out["enum"] = sc.Enum
	}

	switch sc.Type {
	case schema.TypeObject:
		props := make(map[string]any, len(sc.Properties))
		names := make([]string, 0, len(sc.Properties))
		for name, prop := range sc.Properties {
			props[name] = openAISchema(prop)
			names = append(names, name)
		}
		sort.Strings(names)
		out["properties"] = props
		out["required"] = names
		out["additionalProperties"] = false
	case schema.TypeArray:
		if sc.Items != nil {
			out["items"] = openAISchema(sc.Items)
		}
	}
	return out
}
