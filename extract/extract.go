// Package extract evaluates FHIRPath expressions against fetched resources.
package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/gofhir/fhirpath"
	"github.com/gofhir/fhirpath/types"

	"github.com/gofhir/txclient/cache"
)

// Evaluator compiles FHIRPath expressions once and keeps them in an LRU
// cache. It is safe for concurrent use.
type Evaluator struct {
	compiled *cache.Cache[string, *fhirpath.Expression]
}

// NewEvaluator creates an Evaluator caching up to capacity expressions.
func NewEvaluator(capacity int) *Evaluator {
	return &Evaluator{compiled: cache.New[string, *fhirpath.Expression](capacity)}
}

// Compile returns the compiled form of expr.
func (e *Evaluator) Compile(expr string) (*fhirpath.Expression, error) {
	compiled, err := e.compiled.GetOrLoad(expr, func() (*fhirpath.Expression, error) {
		return fhirpath.Compile(expr)
	})
	if err != nil {
		return nil, fmt.Errorf("compiling FHIRPath expression %q: %w", expr, err)
	}
	return compiled, nil
}

// Evaluate runs expr against resource. resource may be raw JSON ([]byte or
// string) or any value that marshals to a FHIR JSON resource, such as an
// r4 struct.
func (e *Evaluator) Evaluate(resource any, expr string) (types.Collection, error) {
	data, err := toJSON(resource)
	if err != nil {
		return nil, fmt.Errorf("encoding resource: %w", err)
	}
	compiled, err := e.Compile(expr)
	if err != nil {
		return nil, err
	}
	result, err := compiled.Evaluate(data)
	if err != nil {
		return nil, fmt.Errorf("evaluating FHIRPath expression %q: %w", expr, err)
	}
	return result, nil
}

// Strings evaluates expr and renders each item of the result.
func (e *Evaluator) Strings(resource any, expr string) ([]string, error) {
	result, err := e.Evaluate(resource, expr)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(result))
	for _, v := range result {
		out = append(out, fmt.Sprint(v))
	}
	return out, nil
}

// Exists evaluates expr with FHIRPath truthiness: an empty result is false,
// a single boolean is its value, anything else is true.
func (e *Evaluator) Exists(resource any, expr string) (bool, error) {
	result, err := e.Evaluate(resource, expr)
	if err != nil {
		return false, err
	}
	if len(result) == 0 {
		return false, nil
	}
	if len(result) == 1 {
		if b, ok := result[0].(types.Boolean); ok {
			return b.Bool(), nil
		}
	}
	return true, nil
}

// Stats reports expression cache usage.
func (e *Evaluator) Stats() cache.Stats {
	return e.compiled.Stats()
}

func toJSON(resource any) ([]byte, error) {
	switch v := resource.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case json.RawMessage:
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return withResourceType(data, v), nil
	}
}

// withResourceType adds "resourceType" to an encoded struct that lacks it,
// using the struct's type name, so that expressions can start with the
// resource type.
func withResourceType(data []byte, v any) []byte {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct || t.Name() == "" {
		return data
	}
	if len(data) < 2 || data[0] != '{' || bytes.Contains(data, []byte(`"resourceType"`)) {
		return data
	}

	head := `{"resourceType":"` + t.Name() + `"`
	if len(bytes.TrimSpace(data[1:len(data)-1])) == 0 {
		return []byte(head + "}")
	}
	return append([]byte(head+","), data[1:]...)
}
