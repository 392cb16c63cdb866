package client

import "github.com/gofhir/fhir/r4"

// GetParameterByName returns the first parameter called name. The second
// result is false when there is none.
func GetParameterByName(params *r4.Parameters, name string) (*r4.ParametersParameter, bool) {
	if params == nil {
		return nil, false
	}
	for i := range params.Parameter {
		p := &params.Parameter[i]
		if p.Name != nil && *p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// ParameterBool returns the valueBoolean of the first parameter called
// name. ok is false if the parameter is absent or has no boolean value.
func ParameterBool(params *r4.Parameters, name string) (value, ok bool) {
	p, found := GetParameterByName(params, name)
	if !found || p.ValueBoolean == nil {
		return false, false
	}
	return *p.ValueBoolean, true
}

// ParameterString returns the valueString of the first parameter called
// name. ok is false if the parameter is absent or has no string value.
func ParameterString(params *r4.Parameters, name string) (value string, ok bool) {
	p, found := GetParameterByName(params, name)
	if !found || p.ValueString == nil {
		return "", false
	}
	return *p.ValueString, true
}
