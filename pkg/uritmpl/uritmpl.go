// Package uritmpl implements the URI Template Engine (spec §4.I): enough of
// RFC 6570 to recognise {var}, {+var} and multi-segment templates, expand
// them with synthesised example values, and detect overlap between two
// templates or between a template and a literal URI.
package uritmpl

import (
	"fmt"

	"github.com/yosida95/uritemplate/v3"
)

// exampleValues are used, in order, to fill successive template variables
// deterministically when synthesising an example URI.
var exampleValues = []string{"example", "ex", "ex2", "ex3", "ex4", "ex5"}

// IsTemplate reports whether uri contains RFC 6570 template syntax.
func IsTemplate(uri string) bool {
	for i := 0; i < len(uri); i++ {
		if uri[i] == '{' {
			return true
		}
	}
	return false
}

// Variables returns the variable names referenced by template, in the order
// they first appear.
func Variables(template string) ([]string, error) {
	tmpl, err := uritemplate.New(template)
	if err != nil {
		return nil, fmt.Errorf("parse uri template %q: %w", template, err)
	}
	names := tmpl.Varnames()
	return names, nil
}

// Expand fills template's variables with the supplied values (falling back
// to the deterministic exampleValues sequence for any variable not present
// in values) and returns the expanded URI.
func Expand(template string, values map[string]string) (string, error) {
	tmpl, err := uritemplate.New(template)
	if err != nil {
		return "", fmt.Errorf("parse uri template %q: %w", template, err)
	}
	vars := uritemplate.Values{}
	for i, name := range tmpl.Varnames() {
		v, ok := values[name]
		if !ok {
			v = exampleValues[i%len(exampleValues)]
		}
		vars = vars.Set(name, uritemplate.String(v))
	}
	return tmpl.Expand(vars)
}

// ExampleURI expands template using only synthesised sample values, for use
// in ResourceConflict.ExampleURI diagnostics.
func ExampleURI(template string) (string, error) {
	return Expand(template, nil)
}

// Overlap classifies the relationship between two URI strings, each of
// which may be a literal or an RFC 6570 template.
type Overlap int

const (
	OverlapNone Overlap = iota
	OverlapACoversB
	OverlapBCoversA
	OverlapIntersecting
)

// Compare classifies the overlap between a and b.
func Compare(a, b string) (Overlap, error) {
	aIsTmpl, bIsTmpl := IsTemplate(a), IsTemplate(b)

	switch {
	case !aIsTmpl && !bIsTmpl:
		if a == b {
			return OverlapIntersecting, nil
		}
		return OverlapNone, nil
	case aIsTmpl && !bIsTmpl:
		ok, err := Matches(a, b)
		if err != nil {
			return OverlapNone, err
		}
		if ok {
			return OverlapACoversB, nil
		}
		return OverlapNone, nil
	case !aIsTmpl && bIsTmpl:
		ok, err := Matches(b, a)
		if err != nil {
			return OverlapNone, err
		}
		if ok {
			return OverlapBCoversA, nil
		}
		return OverlapNone, nil
	default:
		// Two templates: conservatively treat same literal-segment skeleton
		// (same template string with variable names erased) as a possible
		// intersection, since their value sets could overlap for some input.
		skelA, errA := skeleton(a)
		skelB, errB := skeleton(b)
		if errA != nil {
			return OverlapNone, errA
		}
		if errB != nil {
			return OverlapNone, errB
		}
		if skelA == skelB {
			return OverlapIntersecting, nil
		}
		return OverlapNone, nil
	}
}

// Matches reports whether the literal URI could have been produced by
// expanding template with some set of variable values: same literal
// segments, with template variable positions treated as wildcards.
func Matches(template, literal string) (bool, error) {
	pattern, err := compilePattern(template)
	if err != nil {
		return false, err
	}
	return pattern.MatchString(literal), nil
}

func skeleton(template string) (string, error) {
	tmpl, err := uritemplate.New(template)
	if err != nil {
		return "", fmt.Errorf("parse uri template %q: %w", template, err)
	}
	out := make([]byte, 0, len(template))
	inVar := false
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '{':
			inVar = true
		case c == '}':
			inVar = false
			out = append(out, '\x00')
		case !inVar:
			out = append(out, c)
		}
	}
	_ = tmpl
	return string(out), nil
}
