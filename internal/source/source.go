// Package source defines the content source abstraction and its concrete
// implementations.
package source

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kobozo/ai-auto-summarizer/internal/config"
	"github.com/kobozo/ai-auto-summarizer/internal/content"
	"github.com/kobozo/ai-auto-summarizer/internal/registry"
)

// Source fetches content items from one configured origin.
type Source interface {
	// GetContent returns items published at or after fromDate. A source
	// that finds nothing returns an empty slice; transport and auth
	// failures are reported as a *FetchError.
	GetContent(ctx context.Context, fromDate time.Time) ([]content.Item, error)
}

// Settings carries type-level settings shared by all sources of one type,
// such as the API key, plus the logger handed down by the processor.
type Settings struct {
	APIKey string
	Logger *zap.SugaredLogger
}

// FetchError reports a transport or auth failure during content retrieval.
// The processor catches it per source and continues with the rest.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("source %s: fetch failed: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Registry maps source type tags to source constructors.
type Registry = registry.Registry[config.SourceConfig, Settings, Source]

// Constructor builds a source from its configuration and settings.
type Constructor = registry.Constructor[config.SourceConfig, Settings, Source]

// NewRegistry returns a registry populated with the built-in source types.
func NewRegistry() *Registry {
	r := registry.New[config.SourceConfig, Settings, Source]()
	r.Register(TypeYouTube, NewYouTube)
	return r
}
