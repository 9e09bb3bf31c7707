// Package prompt loads named prompt templates and renders them with named
// variables. Templates are embedded in the binary.
package prompt

import (
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

//go:embed templates/*.prompt
var templates embed.FS

// ContentAnalysisTemplate is the template used to build summarization prompts.
const ContentAnalysisTemplate = "content_analysis"

var placeholderRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Template is a loaded prompt template with ${name} placeholders.
type Template struct {
	name string
	text string
}

// Load reads a named template from the embedded template set.
func Load(name string) (*Template, error) {
	data, err := templates.ReadFile(fmt.Sprintf("templates/%s.prompt", name))
	if err != nil {
		return nil, fmt.Errorf("prompt: template %q not found: %w", name, err)
	}
	return &Template{name: name, text: string(data)}, nil
}

// Render substitutes the provided variables into the template. Placeholders
// with no matching variable are left untouched.
func (t *Template) Render(vars map[string]string) string {
	return placeholderRegex.ReplaceAllStringFunc(t.text, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := vars[name]; ok {
			return val
		}
		return match
	})
}

// ContentAnalysis builds the content-analysis prompt for a transcript. Title
// and description are optional context; categories come from configuration.
func ContentAnalysis(transcript, title, description string, categories map[string]string) (string, error) {
	tmpl, err := Load(ContentAnalysisTemplate)
	if err != nil {
		return "", err
	}

	return tmpl.Render(map[string]string{
		"transcript": transcript,
		"metadata":   formatMetadata(title, description),
		"categories": formatCategories(categories),
	}), nil
}

func formatMetadata(title, description string) string {
	var parts []string
	if title != "" {
		parts = append(parts, fmt.Sprintf("Title: %s", title))
	}
	if description != "" {
		parts = append(parts, fmt.Sprintf("Description: %s", description))
	}
	if len(parts) == 0 {
		return "No additional metadata provided."
	}
	return strings.Join(parts, "\n")
}

func formatCategories(categories map[string]string) string {
	if len(categories) == 0 {
		return "Warning: no categories configured"
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("- %s: %s", name, categories[name]))
	}
	return strings.Join(lines, "\n")
}
