package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentmesh/mcpgw/pkg/gwtypes"
)

func TestTransform_NoMapping(t *testing.T) {
	out, err := Transform(map[string]any{"k": "v"}, gwtypes.ArgumentMapping{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "v"}, out)
}

func TestTransform_Passthrough_Identity(t *testing.T) {
	mapping := gwtypes.ArgumentMapping{
		Type: gwtypes.MappingTemplate,
		Mappings: map[string]gwtypes.ParameterMapping{
			"k": {Type: gwtypes.ParamPassthrough, Source: "k"},
		},
	}
	x := map[string]any{"k": "hello"}
	out, err := Transform(x, mapping)
	require.NoError(t, err)
	assert.Equal(t, x, out)
}

func TestTransform_ConstantAndOmit(t *testing.T) {
	mapping := gwtypes.ArgumentMapping{
		Type: gwtypes.MappingTemplate,
		Mappings: map[string]gwtypes.ParameterMapping{
			"api_key": {Type: gwtypes.ParamConstant, Value: "secret"},
			"debug":   {Type: gwtypes.ParamOmit},
			"query":   {Type: gwtypes.ParamPassthrough, Source: "query"},
		},
	}
	out, err := Transform(map[string]any{"query": "hi", "debug": true}, mapping)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"query": "hi", "api_key": "secret"}, out)
}

func TestTransform_DefaultWithRename(t *testing.T) {
	mapping := gwtypes.ArgumentMapping{
		Type: gwtypes.MappingTemplate,
		Mappings: map[string]gwtypes.ParameterMapping{
			"backend_timezone": {Type: gwtypes.ParamDefault, Source: "timezone", Default: "UTC"},
		},
	}

	out, err := Transform(map[string]any{}, mapping)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"backend_timezone": "UTC"}, out)

	out, err = Transform(map[string]any{"timezone": "Europe/Paris", "other": 1}, mapping)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"backend_timezone": "Europe/Paris", "other": 1}, out)
}

func TestTransform_DefaultSourceEqualsBackendParamNotConsumed(t *testing.T) {
	// Open Question resolution: when source == backendParam, it is NOT consumed.
	mapping := gwtypes.ArgumentMapping{
		Type: gwtypes.MappingTemplate,
		Mappings: map[string]gwtypes.ParameterMapping{
			"timezone": {Type: gwtypes.ParamDefault, Source: "timezone", Default: "UTC"},
		},
	}
	out, err := Transform(map[string]any{"timezone": "Europe/Paris"}, mapping)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"timezone": "Europe/Paris"}, out)
}

func TestTransform_UnknownMappingTypeFails(t *testing.T) {
	mapping := gwtypes.ArgumentMapping{
		Type: gwtypes.MappingTemplate,
		Mappings: map[string]gwtypes.ParameterMapping{
			"x": {Type: "bogus"},
		},
	}
	_, err := Transform(map[string]any{}, mapping)
	require.Error(t, err)
}

func TestTransform_JSONataAggregation(t *testing.T) {
	mapping := gwtypes.ArgumentMapping{
		Type:       gwtypes.MappingJSONata,
		Expression: `{ "stats": { "total": $sum(numbers), "count": $count(numbers) } }`,
	}
	out, err := Transform(map[string]any{"numbers": []any{10.0, 20.0, 30.0}}, mapping)
	require.NoError(t, err)
	stats, ok := out["stats"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 60.0, stats["total"], 0.0001)
	assert.InDelta(t, 3.0, stats["count"], 0.0001)
}

func TestTransform_JSONataNonObjectFails(t *testing.T) {
	mapping := gwtypes.ArgumentMapping{
		Type:       gwtypes.MappingJSONata,
		Expression: `numbers`,
	}
	_, err := Transform(map[string]any{"numbers": []any{1.0, 2.0}}, mapping)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid, errs := Validate(gwtypes.ArgumentMapping{
		Type: gwtypes.MappingTemplate,
		Mappings: map[string]gwtypes.ParameterMapping{
			"": {Type: gwtypes.ParamPassthrough, Source: ""},
		},
	})
	assert.False(t, valid)
	assert.NotEmpty(t, errs)

	valid, errs = Validate(gwtypes.ArgumentMapping{Type: gwtypes.MappingJSONata, Expression: "("})
	assert.False(t, valid)
	assert.NotEmpty(t, errs)

	valid, errs = Validate(gwtypes.ArgumentMapping{
		Type: gwtypes.MappingTemplate,
		Mappings: map[string]gwtypes.ParameterMapping{
			"x": {Type: gwtypes.ParamPassthrough, Source: "x"},
		},
	})
	assert.True(t, valid)
	assert.Empty(t, errs)
}
