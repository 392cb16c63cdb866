package client

import (
	"testing"

	"github.com/gofhir/fhir/r4"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestGetParameterByName(t *testing.T) {
	params := &r4.Parameters{
		Parameter: []r4.ParametersParameter{
			{Name: strPtr("result"), ValueBoolean: boolPtr(true)},
			{Name: strPtr("display"), ValueString: strPtr("first")},
			{Name: strPtr("display"), ValueString: strPtr("second")},
		},
	}

	t.Run("first match wins", func(t *testing.T) {
		p, ok := GetParameterByName(params, "display")
		if !ok {
			t.Fatal("display not found")
		}
		if *p.ValueString != "first" {
			t.Errorf("valueString = %q; want first", *p.ValueString)
		}
		if p != &params.Parameter[1] {
			t.Error("should return a pointer into the parameter list")
		}
	})

	t.Run("not found", func(t *testing.T) {
		if p, ok := GetParameterByName(params, "message"); ok || p != nil {
			t.Errorf("GetParameterByName(message) = %v, %v; want nil, false", p, ok)
		}
	})

	t.Run("nil and empty", func(t *testing.T) {
		if _, ok := GetParameterByName(nil, "result"); ok {
			t.Error("nil Parameters should have no parameters")
		}
		if _, ok := GetParameterByName(&r4.Parameters{}, "result"); ok {
			t.Error("empty Parameters should have no parameters")
		}
	})
}

func TestParameterValues(t *testing.T) {
	params := &r4.Parameters{
		Parameter: []r4.ParametersParameter{
			{Name: strPtr("result"), ValueBoolean: boolPtr(false)},
			{Name: strPtr("message"), ValueString: strPtr("unknown code")},
			{Name: strPtr("empty")},
		},
	}

	if v, ok := ParameterBool(params, "result"); !ok || v {
		t.Errorf("ParameterBool(result) = %v, %v; want false, true", v, ok)
	}
	if _, ok := ParameterBool(params, "message"); ok {
		t.Error("ParameterBool(message) should not be ok")
	}
	if v, ok := ParameterString(params, "message"); !ok || v != "unknown code" {
		t.Errorf("ParameterString(message) = %q, %v", v, ok)
	}
	if _, ok := ParameterString(params, "empty"); ok {
		t.Error("ParameterString(empty) should not be ok")
	}
	if _, ok := ParameterString(params, "absent"); ok {
		t.Error("ParameterString(absent) should not be ok")
	}
}
