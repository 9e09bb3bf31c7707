package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobozo/ai-auto-summarizer/internal/schema"
)

func TestValidate(t *testing.T) {
	valid := ContentSummary{
		Summary:   "fine",
		KeyPoints: []string{"a"},
		Topics:    []Topic{{Name: "n", Description: "d"}},
	}
	assert.NoError(t, valid.Validate())

	missing := ContentSummary{}
	assert.Error(t, missing.Validate())

	noName := ContentSummary{Summary: "s", Topics: []Topic{{Description: "d"}}}
	assert.Error(t, noName.Validate())

	noDescription := ContentSummary{Summary: "s", Topics: []Topic{{Name: "n"}}}
	err := noDescription.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}

func TestSchemaShape(t *testing.T) {
	sc := Schema()

	assert.Equal(t, schema.TypeObject, sc.Type)
	assert.Equal(t, []string{"summary"}, sc.Required)

	topics := sc.Properties["topics"]
	require.NotNil(t, topics)
	require.NotNil(t, topics.Items)
	assert.Equal(t, []string{"name", "description"}, topics.Items.Required)
	assert.Contains(t, topics.Items.Properties, "categories")
}
