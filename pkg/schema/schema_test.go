package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentmesh/mcpgw/pkg/gwtypes"
)

func backendSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query":   map[string]any{"type": "string", "description": "backend query"},
			"api_key": map[string]any{"type": "string"},
			"debug":   map[string]any{"type": "boolean"},
		},
		"required": []any{"query", "api_key"},
	}
}

func TestGenerate_NoMapping_ReturnsBackendSchemaUnchanged(t *testing.T) {
	bs := backendSchema()
	got := Generate(bs, gwtypes.ToolOverride{})
	assert.Equal(t, bs, got)
}

func TestGenerate_JSONataMapping_Opaque(t *testing.T) {
	bs := backendSchema()
	got := Generate(bs, gwtypes.ToolOverride{
		ArgumentMapping: &gwtypes.ArgumentMapping{Type: gwtypes.MappingJSONata, Expression: "x"},
	})
	assert.Equal(t, bs, got)
}

func TestGenerate_ExplicitInputSchemaWins(t *testing.T) {
	explicit := map[string]any{"type": "object", "properties": map[string]any{}}
	got := Generate(backendSchema(), gwtypes.ToolOverride{InputSchema: explicit})
	assert.Equal(t, explicit, got)
}

func TestGenerate_TemplateMapping_ConstantAndOmitContributeNothing(t *testing.T) {
	got := Generate(backendSchema(), gwtypes.ToolOverride{
		ArgumentMapping: &gwtypes.ArgumentMapping{
			Type: gwtypes.MappingTemplate,
			Mappings: map[string]gwtypes.ParameterMapping{
				"api_key": {Type: gwtypes.ParamConstant, Value: "secret"},
				"debug":   {Type: gwtypes.ParamOmit},
				"query":   {Type: gwtypes.ParamPassthrough, Source: "query"},
			},
		},
	})
	props := got["properties"].(map[string]any)
	_, hasAPIKey := props["api_key"]
	_, hasDebug := props["debug"]
	assert.False(t, hasAPIKey)
	assert.False(t, hasDebug)
	_, hasQuery := props["query"]
	assert.True(t, hasQuery)
	assert.Contains(t, got["required"], "query")
}

func TestGenerate_DefaultNeverRequired(t *testing.T) {
	got := Generate(backendSchema(), gwtypes.ToolOverride{
		ArgumentMapping: &gwtypes.ArgumentMapping{
			Type: gwtypes.MappingTemplate,
			Mappings: map[string]gwtypes.ParameterMapping{
				"timezone": {Type: gwtypes.ParamDefault, Source: "query", Default: "x", Name: "timezone"},
			},
		},
	})
	required, _ := got["required"].([]string)
	assert.NotContains(t, required, "timezone")
}

func TestGenerate_RenameCarriesSourceType(t *testing.T) {
	got := Generate(backendSchema(), gwtypes.ToolOverride{
		ArgumentMapping: &gwtypes.ArgumentMapping{
			Type: gwtypes.MappingTemplate,
			Mappings: map[string]gwtypes.ParameterMapping{
				"q": {Type: gwtypes.ParamRename, Source: "query", Name: "q", Description: "overridden"},
			},
		},
	})
	props := got["properties"].(map[string]any)
	q := props["q"].(map[string]any)
	assert.Equal(t, "string", q["type"])
	assert.Equal(t, "overridden", q["description"])
}
