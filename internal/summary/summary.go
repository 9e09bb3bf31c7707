// Package summary defines the structured content summary produced by LLM
// providers, along with its schema and validation rules.
package summary

import (
	"fmt"

	"github.com/kobozo/ai-auto-summarizer/internal/schema"
)

// Topic is a single topic discussed in the content.
type Topic struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Categories  []string `json:"categories,omitempty"`
}

// ContentSummary is the structured summary of one content item.
type ContentSummary struct {
	Summary         string   `json:"summary"`
	KeyPoints       []string `json:"key_points,omitempty"`
	Topics          []Topic  `json:"topics,omitempty"`
	DurationMinutes float64  `json:"duration_minutes,omitempty"`
}

// Schema returns the schema descriptor for ContentSummary. Providers
// translate this into their native structured-output format.
func Schema() *schema.Schema {
	return &schema.Schema{
		Type: schema.TypeObject,
		Properties: map[string]*schema.Schema{
			"summary": {
				Type:        schema.TypeString,
				Description: "A concise summary of the content that captures the main points and key insights",
			},
			"key_points": {
				Type:        schema.TypeArray,
				Description: "List of key points or takeaways from the content",
				Items:       &schema.Schema{Type: schema.TypeString},
			},
			"topics": {
				Type:        schema.TypeArray,
				Description: "Detailed topics discussed in the content, each with a description",
				Items: &schema.Schema{
					Type: schema.TypeObject,
					Properties: map[string]*schema.Schema{
						"name": {
							Type:        schema.TypeString,
							Description: "Name of the topic",
						},
						"description": {
							Type:        schema.TypeString,
							Description: "Description explaining how this topic relates to the content",
						},
						"categories": {
							Type:        schema.TypeArray,
							Description: "High-level categories that the content belongs to",
							Items:       &schema.Schema{Type: schema.TypeString},
						},
					},
					Required: []string{"name", "description"},
				},
			},
		},
		Required: []string{"summary"},
	}
}

// Validate checks the required-field invariants: the summary text must be
// present, and every topic must carry both a name and a description.
func (s *ContentSummary) Validate() error {
	if s.Summary == "" {
		return fmt.Errorf("summary is required")
	}
	for i, t := range s.Topics {
		if t.Name == "" {
			return fmt.Errorf("topics[%d]: name is required", i)
		}
		if t.Description == "" {
			return fmt.Errorf("topics[%d] (%s): description is required", i, t.Name)
		}
	}
	return nil
}
