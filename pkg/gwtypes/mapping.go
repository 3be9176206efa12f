package gwtypes

import "fmt"

// ParameterMappingType discriminates the ParameterMapping tagged union.
type ParameterMappingType string

const (
	ParamPassthrough ParameterMappingType = "passthrough"
	ParamConstant    ParameterMappingType = "constant"
	ParamDefault     ParameterMappingType = "default"
	ParamRename      ParameterMappingType = "rename"
	ParamOmit        ParameterMappingType = "omit"
)

// ParameterMapping describes how one backend parameter is sourced from the
// client-visible arguments. Only the fields relevant to Type are populated;
// the rest are left at their zero value.
type ParameterMapping struct {
	Type ParameterMappingType `json:"type"`

	// passthrough, default, rename
	Source      string `json:"source,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	// constant
	Value any `json:"value,omitempty"`

	// default
	Default any `json:"default,omitempty"`
}

// Validate checks structural invariants of the mapping value itself: a known
// type, and a non-empty source for the types that read one. Empty
// backend-param names are caught by the caller, which knows the map key.
func (p ParameterMapping) Validate() error {
	switch p.Type {
	case ParamPassthrough, ParamRename:
		if p.Source == "" {
			return fmt.Errorf("%s mapping requires a non-empty source", p.Type)
		}
	case ParamDefault:
		if p.Source == "" {
			return fmt.Errorf("default mapping requires a non-empty source")
		}
	case ParamConstant, ParamOmit:
		// no required fields
	default:
		return fmt.Errorf("unknown parameter mapping type %q", p.Type)
	}
	return nil
}

// ArgumentMappingType discriminates the ArgumentMapping tagged union.
type ArgumentMappingType string

const (
	MappingTemplate ArgumentMappingType = "template"
	MappingJSONata  ArgumentMappingType = "jsonata"
)

// ArgumentMapping is either a declarative template of per-parameter mappings
// or a JSONata expression evaluated against the full client argument object.
type ArgumentMapping struct {
	Type ArgumentMappingType `json:"type"`

	// template
	Mappings map[string]ParameterMapping `json:"mappings,omitempty"`

	// jsonata
	Expression string `json:"expression,omitempty"`
}

// Validate checks structural invariants of the mapping as a whole.
func (m ArgumentMapping) Validate() error {
	switch m.Type {
	case MappingTemplate:
		for backendParam, pm := range m.Mappings {
			if backendParam == "" {
				return fmt.Errorf("template mapping has an empty backend parameter name")
			}
			if err := pm.Validate(); err != nil {
				return fmt.Errorf("backend parameter %q: %w", backendParam, err)
			}
		}
	case MappingJSONata:
		if m.Expression == "" {
			return fmt.Errorf("jsonata mapping requires a non-empty expression")
		}
	case "":
		// no mapping at all is valid: means passthrough of backend schema
	default:
		return fmt.Errorf("unknown argument mapping type %q", m.Type)
	}
	return nil
}
