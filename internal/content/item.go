// Package content defines the content item that flows through the pipeline.
package content

import (
	"time"

	"github.com/kobozo/ai-auto-summarizer/internal/summary"
)

// Statistics holds engagement counters reported by the hosting platform.
type Statistics struct {
	Views    uint64
	Likes    uint64
	Comments uint64
}

// Item is one piece of content fetched from a source. Sources create items;
// the summarizer mutates them in place to attach summary fields. Items are
// never persisted.
type Item struct {
	ID           string
	Title        string
	Description  string
	PublishedAt  time.Time
	URL          string
	SourceType   string
	ChannelID    string
	ChannelTitle string
	Duration     float64 // seconds, 0 when unknown
	Transcript   string
	Statistics   Statistics

	// Summary fields, attached by the summarizer. Summary is always set
	// after summarization: the empty string means summarization was
	// skipped or failed for this item.
	Summary         string
	KeyPoints       []string
	Topics          []summary.Topic
	DurationMinutes float64
}

// HasTranscript reports whether a transcript was retrieved for this item.
func (i *Item) HasTranscript() bool {
	return i.Transcript != ""
}

// HasSummary reports whether summarization produced a summary for this item.
func (i *Item) HasSummary() bool {
	return i.Summary != ""
}
