package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSummaryValid(t *testing.T) {
	raw := `{
		"summary": "A walkthrough of the new release.",
		"key_points": ["faster builds", "smaller binaries"],
		"topics": [{"name": "Tooling", "description": "Build system changes", "categories": ["technology"]}],
		"duration_minutes": 12.5
	}`

	cs, err := NormalizeSummary(raw)
	require.NoError(t, err)
	assert.Equal(t, "A walkthrough of the new release.", cs.Summary)
	assert.Equal(t, []string{"faster builds", "smaller binaries"}, cs.KeyPoints)
	require.Len(t, cs.Topics, 1)
	assert.Equal(t, "Tooling", cs.Topics[0].Name)
	assert.Equal(t, 12.5, cs.DurationMinutes)
}

func TestNormalizeSummaryEmptyArrays(t *testing.T) {
	cs, err := NormalizeSummary(`{"summary": "ok", "key_points": [], "topics": []}`)
	require.NoError(t, err)
	assert.Equal(t, "ok", cs.Summary)
	assert.Empty(t, cs.KeyPoints)
	assert.Empty(t, cs.Topics)
}

func TestNormalizeSummaryMissingClosingBrace(t *testing.T) {
	cs, err := NormalizeSummary(`{"summary": "partial start of something really long but cut off"`)
	require.NoError(t, err)
	assert.Equal(t, "partial start of something really long but cut off", cs.Summary)
}

func TestNormalizeSummaryIgnoresUnknownFields(t *testing.T) {
	cs, err := NormalizeSummary(`{"summary": "ok", "confidence": 0.9}`)
	require.NoError(t, err)
	assert.Equal(t, "ok", cs.Summary)
}

func TestNormalizeSummaryTruncatedMidSummary(t *testing.T) {
	// Cut off inside the summary string: the generic recovery closes the
	// dangling quote and the open object.
	cs, err := NormalizeSummary(`{"summary": "the stream stopped mid-sen`)
	require.NoError(t, err)
	assert.Equal(t, "the stream stopped mid-sen", cs.Summary)
}

func TestNormalizeSummaryTruncatedSecondTopic(t *testing.T) {
	raw := `{"summary": "s", "topics": [` +
		`{"name": "Alpha", "description": "first topic"}, ` +
		`{"name": "Beta", "description": "cut off right he`

	cs, err := NormalizeSummary(raw)
	require.NoError(t, err)
	assert.Equal(t, "s", cs.Summary)
	require.Len(t, cs.Topics, 2)
	assert.Equal(t, "first topic", cs.Topics[0].Description)
	assert.Equal(t, "Beta", cs.Topics[1].Name)
	// The cut-off description is replaced with a placeholder, not left empty.
	assert.Equal(t, "...", cs.Topics[1].Description)
}

func TestNormalizeSummaryTruncatedKeyPoints(t *testing.T) {
	cs, err := NormalizeSummary(`{"summary": "ok", "key_points": ["one", "tw`)
	require.NoError(t, err)
	assert.Equal(t, "ok", cs.Summary)
	assert.Equal(t, []string{"one", "tw"}, cs.KeyPoints)
}

func TestNormalizeSummaryMalformed(t *testing.T) {
	_, err := NormalizeSummary(`{"summary": }`)
	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, `{"summary": }`, malformed.Raw)
}

func TestNormalizeSummaryNotJSONAtAll(t *testing.T) {
	_, err := NormalizeSummary("I am sorry, I cannot help with that.")
	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
}

func TestNormalizeSummarySchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing summary":         `{"topics": []}`,
		"summary wrong type":      `{"summary": 42}`,
		"topic without name":      `{"summary": "s", "topics": [{"description": "d"}]}`,
		"empty topic description": `{"summary": "s", "topics": [{"name": "x", "description": ""}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NormalizeSummary(raw)
			var invalid *SchemaValidationError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestRepairJSONLeavesValidInputUntouched(t *testing.T) {
	raw := `{"summary": "already fine", "topics": []}`
	fixed, err := RepairJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, fixed)
}

func TestRepairJSONBalancesNestedBrackets(t *testing.T) {
	fixed, err := RepairJSON(`{"summary": "s", "topics": [{"name": "a", "description": "d", "categories": ["tech"`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary": "s", "topics": [{"name": "a", "description": "d", "categories": ["tech"]}]}`, fixed)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"summary": "s"}`, stripFences("```json\n{\"summary\": \"s\"}\n```"))
	assert.Equal(t, `{"summary": "s"}`, stripFences("```\n{\"summary\": \"s\"}\n```"))
	assert.Equal(t, `{"summary": "s"}`, stripFences(`{"summary": "s"}`))
}
