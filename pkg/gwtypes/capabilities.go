package gwtypes

// Tool is the backend-native shape of a discovered tool, as reported by
// tools/list.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema,omitempty"`
}

// Resource is the backend-native shape of a discovered resource, as reported
// by resources/list. URI may be an RFC 6570 template.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Prompt is the backend-native shape of a discovered prompt, as reported by
// prompts/list.
type Prompt struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ConflictType classifies a ResourceConflict.
type ConflictType string

const (
	ConflictExactDuplicate       ConflictType = "exact-duplicate"
	ConflictTemplateCoversExact  ConflictType = "template-covers-exact"
	ConflictExactCoveredTemplate ConflictType = "exact-covered-by-template"
	ConflictTemplateOverlap      ConflictType = "template-overlap"
)

// ResourceConflict is a diagnostic describing two ResourceRefs whose URI
// spaces collide.
type ResourceConflict struct {
	Type       ConflictType `json:"type"`
	A          ResourceRef  `json:"a"`
	B          ResourceRef  `json:"b"`
	ExampleURI string       `json:"exampleUri"`
}
