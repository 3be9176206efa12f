package transform

import (
	"encoding/json"
	"sync"

	"github.com/blues/jsonata-go"

	"github.com/agentmesh/mcpgw/pkg/gwerrors"
)

// exprCache avoids recompiling the same JSONata expression on every call;
// compiled *jsonata.Expr values are safe for concurrent Eval.
var exprCache sync.Map // map[string]*jsonata.Expr

func compileJSONata(expression string) (*jsonata.Expr, error) {
	if v, ok := exprCache.Load(expression); ok {
		return v.(*jsonata.Expr), nil
	}
	expr, err := jsonata.Compile(expression)
	if err != nil {
		return nil, err
	}
	exprCache.Store(expression, expr)
	return expr, nil
}

func transformJSONata(clientArgs any, expression string) (map[string]any, error) {
	expr, err := compileJSONata(expression)
	if err != nil {
		return nil, gwerrors.MappingError("jsonata: invalid expression", err)
	}

	result, err := expr.Eval(clientArgs)
	if err != nil {
		return nil, gwerrors.MappingError("jsonata: evaluation failed", err)
	}

	return asObjectResult(result)
}

// asObjectResult normalises a JSONata evaluation result into map[string]any,
// rejecting non-object results per spec §4.A. jsonata-go returns structs for
// object literals in some evaluation paths; round-trip through encoding/json
// to fold everything down to the plain map/array/scalar shape the rest of
// the gateway expects.
func asObjectResult(result any) (map[string]any, error) {
	if result == nil {
		return nil, gwerrors.MappingError("jsonata: expression must return an object", nil)
	}
	if m, ok := result.(map[string]any); ok {
		return m, nil
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, gwerrors.MappingError("jsonata: expression result is not JSON-serialisable", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, gwerrors.MappingError("jsonata: expression must return an object", nil)
	}
	return m, nil
}
