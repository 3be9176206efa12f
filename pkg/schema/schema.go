// Package schema implements the Schema Generator (spec §4.B): deriving the
// client-visible input schema for a tool from its backend inputSchema and an
// optional ArgumentMapping.
package schema

import "github.com/agentmesh/mcpgw/pkg/gwtypes"

// Generate produces the schema the client should see for a tool override.
// Precedence, highest first: an explicit override.InputSchema; a template
// mapping's derived schema; the backend schema unchanged (covers no-mapping
// and jsonata-mapping, which is opaque to derivation).
func Generate(backendSchema map[string]any, override gwtypes.ToolOverride) map[string]any {
	if override.InputSchema != nil {
		return override.InputSchema
	}
	if override.ArgumentMapping == nil || override.ArgumentMapping.Type != gwtypes.MappingTemplate {
		return backendSchema
	}
	return deriveFromTemplate(backendSchema, override.ArgumentMapping.Mappings)
}

func deriveFromTemplate(backendSchema map[string]any, mappings map[string]gwtypes.ParameterMapping) map[string]any {
	backendProps, _ := backendSchema["properties"].(map[string]any)
	backendRequired := requiredSet(backendSchema)

	props := make(map[string]any)
	var required []string

	// referencedSources tracks every client-param name mentioned as a
	// `source`, so we know which backend properties were consumed by the
	// mapping and which should be passed through untouched.
	referencedSources := make(map[string]struct{})
	mappedParams := make(map[string]struct{}, len(mappings))

	for backendParam, pm := range mappings {
		mappedParams[backendParam] = struct{}{}
		switch pm.Type {
		case gwtypes.ParamConstant, gwtypes.ParamOmit:
			// Contribute nothing to the client schema.
		case gwtypes.ParamPassthrough, gwtypes.ParamRename, gwtypes.ParamDefault:
			referencedSources[pm.Source] = struct{}{}
			clientName := pm.Source
			if pm.Name != "" {
				clientName = pm.Name
			}
			propSchema := propertyFor(backendProps, pm.Source, pm.Description)
			props[clientName] = propSchema

			if pm.Type != gwtypes.ParamDefault && backendRequired[pm.Source] {
				required = append(required, clientName)
			}
		}
	}

	// Backend properties not referenced by any mapping entry are preserved
	// as-is (spec §4.B: "Client parameters mentioned by source that are not
	// referenced elsewhere are otherwise preserved" — symmetrically, backend
	// properties the mapping never touches pass through untouched too).
	for name, propSchema := range backendProps {
		if _, handled := referencedSources[name]; handled {
			continue
		}
		if _, handled := mappedParams[name]; handled {
			continue
		}
		if _, mapped := props[name]; mapped {
			continue
		}
		props[name] = propSchema
		if backendRequired[name] {
			required = append(required, name)
		}
	}

	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func propertyFor(backendProps map[string]any, source, descriptionOverride string) any {
	var propSchema map[string]any
	if raw, ok := backendProps[source].(map[string]any); ok {
		propSchema = cloneSchema(raw)
	} else {
		propSchema = map[string]any{}
	}
	if descriptionOverride != "" {
		propSchema["description"] = descriptionOverride
	}
	return propSchema
}

func cloneSchema(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func requiredSet(schema map[string]any) map[string]bool {
	out := make(map[string]bool)
	raw, _ := schema["required"].([]any)
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out[s] = true
		}
	}
	// Also accept []string, in case the schema was constructed in Go rather
	// than decoded from JSON.
	if rawStrings, ok := schema["required"].([]string); ok {
		for _, s := range rawStrings {
			out[s] = true
		}
	}
	return out
}
