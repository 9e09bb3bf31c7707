package llm

import (
	"github.com/kobozo/ai-auto-summarizer/internal/config"
	"github.com/kobozo/ai-auto-summarizer/internal/registry"
)

// Registry maps provider type tags to provider constructors.
type Registry = registry.Registry[config.LLMConfig, Settings, Provider]

// Constructor builds a provider from its configuration and settings.
type Constructor = registry.Constructor[config.LLMConfig, Settings, Provider]

// NewRegistry returns a registry populated with the built-in providers.
func NewRegistry() *Registry {
	r := registry.New[config.LLMConfig, Settings, Provider]()
	r.Register("openai", NewOpenAI)
	r.Register("gemini", NewGemini)
	return r
}
