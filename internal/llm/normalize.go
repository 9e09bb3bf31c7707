package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kobozo/ai-auto-summarizer/internal/summary"
)

// MalformedResponseError is returned when a response could not be coerced
// into valid JSON by any recovery heuristic. It carries the raw response
// text for diagnostics.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("llm: response is not valid JSON: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// SchemaValidationError is returned when parsed JSON does not conform to the
// summary schema: wrong types or missing required fields.
type SchemaValidationError struct {
	Err error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("llm: response does not match schema: %v", e.Err)
}

func (e *SchemaValidationError) Unwrap() error { return e.Err }

// truncationMarkers are the field-start patterns searched for when repairing
// a response cut off mid-string. The list is tied to the current summary
// schema field names and must be kept in sync with it by hand.
var truncationMarkers = []string{
	`"description": "`,
	`"name": "`,
	`"summary": "`,
}

// NormalizeSummary converts raw model output into a validated ContentSummary.
// Invalid JSON goes through the truncation-repair heuristics first; text that
// still fails to parse yields a MalformedResponseError, and valid JSON that
// violates the schema yields a SchemaValidationError.
func NormalizeSummary(raw string) (*summary.ContentSummary, error) {
	fixed, err := RepairJSON(raw)
	if err != nil {
		return nil, &MalformedResponseError{Raw: raw, Err: err}
	}

	var cs summary.ContentSummary
	if err := json.Unmarshal([]byte(fixed), &cs); err != nil {
		return nil, &SchemaValidationError{Err: err}
	}
	if err := cs.Validate(); err != nil {
		return nil, &SchemaValidationError{Err: err}
	}
	return &cs, nil
}

// RepairJSON returns text unchanged when it is already valid JSON. Otherwise
// it attempts to complete a document that was truncated mid-generation:
// first by closing the string value of the last recognized field marker
// before the parse failure, then by generically balancing quotes and
// brackets. When no attempt produces valid JSON the original parse error is
// returned.
func RepairJSON(text string) (string, error) {
	parseErr := parseCheck(text)
	if parseErr == nil {
		return text, nil
	}

	if offset := syntaxOffset(parseErr); offset > 0 && offset <= len(text) {
		before := text[:offset]
		for _, marker := range truncationMarkers {
			start := strings.LastIndex(before, marker)
			if start == -1 {
				continue
			}
			// Only repair when a complete object precedes the cut-off
			// field; otherwise the prefix is too damaged to trust.
			if !strings.Contains(before[:start], `"}`) {
				continue
			}
			if fixed, ok := repairAtMarker(text, start+len(marker)); ok {
				return fixed, nil
			}
		}
	}

	if strings.Contains(parseErr.Error(), "unexpected end of JSON input") {
		if fixed, ok := repairGeneric(text); ok {
			return fixed, nil
		}
	}

	return "", parseErr
}

func parseCheck(text string) error {
	var v any
	return json.Unmarshal([]byte(text), &v)
}

// syntaxOffset returns the byte offset of a JSON syntax error, or 0 when the
// error carries no position.
func syntaxOffset(err error) int {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return int(se.Offset)
	}
	return 0
}

// repairAtMarker truncates the text just after a field-start marker, closes
// the cut-off string with an ellipsis placeholder, and appends the closing
// delimiters needed to balance the document.
func repairAtMarker(text string, cut int) (string, bool) {
	if cut > len(text) {
		return "", false
	}
	truncated := text[:cut] + `..."}`

	if strings.Contains(truncated, `"topics": [`) &&
		strings.Count(truncated, "[") > strings.Count(truncated, "]") {
		truncated += "]"
	}

	opens := strings.Count(truncated, "{") + strings.Count(truncated, "[")
	closes := strings.Count(truncated, "}") + strings.Count(truncated, "]")
	if opens > closes {
		truncated += strings.Repeat("}", opens-closes)
	}

	if json.Valid([]byte(truncated)) {
		return truncated, true
	}
	return "", false
}

// repairGeneric closes a dangling string when the text has an odd number of
// quotes, then appends the closing delimiters for every bracket still open,
// innermost first.
func repairGeneric(text string) (string, bool) {
	fixed := text
	if strings.Count(fixed, `"`)%2 == 1 {
		fixed += `"`
	}

	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(fixed); i++ {
		c := fixed[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			fixed += "}"
		} else {
			fixed += "]"
		}
	}

	if json.Valid([]byte(fixed)) {
		return fixed, true
	}
	return "", false
}
