// Package schema defines a vendor-neutral description of structured LLM
// output. Each provider translates a Schema into its own native request
// format (JSON schema for OpenAI, genai.Schema for Gemini).
package schema

// Type enumerates the JSON types a schema node can describe.
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
)

// Schema describes the expected shape of a structured response.
type Schema struct {
	Type        Type
	Description string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
	Enum        []string
}
