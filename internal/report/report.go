// Package report renders a run summary for a batch of processed content.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/kobozo/ai-auto-summarizer/internal/content"
)

// Print writes a human-readable summary of the batch: aggregate counts,
// transcript and summary coverage, and one example summarized item.
func Print(w io.Writer, items []content.Item) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "Content Processing Report")
	fmt.Fprintln(w, strings.Repeat("=", 72))

	total := len(items)
	withTranscript := 0
	withSummary := 0
	for _, item := range items {
		if item.HasTranscript() {
			withTranscript++
		}
		if item.HasSummary() {
			withSummary++
		}
	}

	fmt.Fprintf(w, "Total items fetched: %d\n", total)
	fmt.Fprintf(w, "Items with transcript: %d (%s)\n", withTranscript, rate(withTranscript, total))
	fmt.Fprintf(w, "Items with summary: %d (%s)\n", withSummary, rate(withSummary, total))

	for _, item := range items {
		if !item.HasSummary() {
			continue
		}
		fmt.Fprintln(w, strings.Repeat("-", 72))
		fmt.Fprintln(w, "Example summary:")
		fmt.Fprintf(w, "Title: %s\n", item.Title)
		fmt.Fprintf(w, "Summary: %s\n", item.Summary)
		if len(item.KeyPoints) > 0 {
			fmt.Fprintln(w, "Key points:")
			for _, kp := range item.KeyPoints {
				fmt.Fprintf(w, "- %s\n", kp)
			}
		}
		if len(item.Topics) > 0 {
			fmt.Fprintln(w, "Topics:")
			for _, t := range item.Topics {
				fmt.Fprintf(w, "- %s: %s\n", t.Name, t.Description)
			}
		}
		break
	}

	fmt.Fprintln(w, strings.Repeat("=", 72))
}

func rate(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}
