package source

import (
	"regexp"
	"strings"
)

var (
	cueTimingRegex = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}[.,]\d{3}`)
	cueIndexRegex  = regexp.MustCompile(`^\d+$`)
	speakerRegex   = regexp.MustCompile(`^\s*>>\s*[A-Z\s]+:`)
)

// ExtractSubtitleText strips the structural lines from WebVTT or SRT
// subtitle content and joins the remaining cue text into one
// whitespace-separated string. Timestamp lines, cue indices, speaker labels,
// and header metadata are all dropped.
func ExtractSubtitleText(content string) string {
	var words []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "WEBVTT"),
			strings.HasPrefix(trimmed, "Kind:"),
			strings.HasPrefix(trimmed, "Language:"),
			strings.HasPrefix(trimmed, "NOTE"),
			strings.HasPrefix(trimmed, "STYLE"):
			continue
		case strings.Contains(trimmed, "-->"):
			continue
		case cueTimingRegex.MatchString(trimmed):
			continue
		case cueIndexRegex.MatchString(trimmed):
			continue
		case speakerRegex.MatchString(trimmed):
			continue
		}
		words = append(words, strings.Fields(trimmed)...)
	}
	return strings.Join(words, " ")
}
