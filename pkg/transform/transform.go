// Package transform implements the Argument Transformer (spec §4.A): it
// turns client-supplied tool arguments into backend arguments, either via a
// declarative per-parameter template or a JSONata expression.
package transform

import (
	"fmt"

	"github.com/agentmesh/mcpgw/pkg/gwerrors"
	"github.com/agentmesh/mcpgw/pkg/gwtypes"
)

// Result is the non-throwing outcome of Test.
type Result struct {
	Success bool
	Output  map[string]any
	Err     error
}

// Transform evaluates mapping against clientArgs and returns the backend
// argument object. clientArgs is typically a map[string]any decoded from
// JSON; any other shape is treated as "no object to start from".
func Transform(clientArgs any, mapping gwtypes.ArgumentMapping) (map[string]any, error) {
	switch mapping.Type {
	case "":
		// No mapping: forward the client args unchanged (copy if it's an
		// object, else nil).
		if m, ok := asObject(clientArgs); ok {
			return cloneMap(m), nil
		}
		return nil, nil
	case gwtypes.MappingTemplate:
		return transformTemplate(clientArgs, mapping.Mappings)
	case gwtypes.MappingJSONata:
		return transformJSONata(clientArgs, mapping.Expression)
	default:
		return nil, gwerrors.MappingError(fmt.Sprintf("unknown argument mapping type %q", mapping.Type), nil)
	}
}

// Validate inspects a mapping structurally without evaluating it against any
// input: empty backend-param names and empty sources are errors, as is
// invalid JSONata syntax.
func Validate(mapping gwtypes.ArgumentMapping) (valid bool, errs []string) {
	switch mapping.Type {
	case gwtypes.MappingTemplate:
		for backendParam, pm := range mapping.Mappings {
			if backendParam == "" {
				errs = append(errs, "empty backend parameter name")
			}
			if err := pm.Validate(); err != nil {
				errs = append(errs, err.Error())
			}
		}
	case gwtypes.MappingJSONata:
		if mapping.Expression == "" {
			errs = append(errs, "empty jsonata expression")
			break
		}
		if _, err := compileJSONata(mapping.Expression); err != nil {
			errs = append(errs, err.Error())
		}
	case "":
		// valid: no-op mapping
	default:
		errs = append(errs, fmt.Sprintf("unknown argument mapping type %q", mapping.Type))
	}
	return len(errs) == 0, errs
}

// Test runs Transform but never panics/returns a Go error; failures are
// reported in the Result instead, for UI-style "try it" flows.
func Test(clientArgs any, mapping gwtypes.ArgumentMapping) Result {
	out, err := Transform(clientArgs, mapping)
	if err != nil {
		return Result{Success: false, Err: err}
	}
	return Result{Success: true, Output: out}
}

func transformTemplate(clientArgs any, mappings map[string]gwtypes.ParameterMapping) (map[string]any, error) {
	working, _ := asObject(clientArgs)
	working = cloneMap(working)
	out := cloneMap(working)

	for backendParam, pm := range mappings {
		if err := pm.Validate(); err != nil {
			return nil, gwerrors.MappingError(fmt.Sprintf("parameter %q", backendParam), err)
		}
		switch pm.Type {
		case gwtypes.ParamPassthrough, gwtypes.ParamRename:
			if v, present := working[pm.Source]; present {
				out[backendParam] = v
			} else {
				delete(out, backendParam)
			}
			if backendParam != pm.Source {
				delete(out, pm.Source)
			}
		case gwtypes.ParamConstant:
			out[backendParam] = pm.Value
		case gwtypes.ParamDefault:
			if v, present := working[pm.Source]; present {
				out[backendParam] = v
				// Open Question (spec §9): the source is consumed only when
				// it differs from the backend parameter name it is being
				// written to.
				if backendParam != pm.Source {
					delete(out, pm.Source)
				}
			} else {
				out[backendParam] = pm.Default
			}
		case gwtypes.ParamOmit:
			delete(out, backendParam)
		default:
			return nil, gwerrors.MappingError(fmt.Sprintf("parameter %q has unknown type %q", backendParam, pm.Type), nil)
		}
	}
	return out, nil
}

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
