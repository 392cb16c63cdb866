package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofhir/fhir/r4"

	tx "github.com/gofhir/txclient"
)

// StatusUnknown is synthesized for ValueSets the server sends without a status.
const StatusUnknown = "unknown"

// DecodeError reports a JSON object that could not be decoded into the
// requested resource type.
type DecodeError struct {
	ResourceType string
	Issues       []tx.Issue
	Err          error
}

func (e *DecodeError) Error() string {
	var msgs []string
	for _, is := range e.Issues {
		if is.IsError() {
			msgs = append(msgs, is.String())
		}
	}
	if e.Err != nil {
		msgs = append(msgs, e.Err.Error())
	}
	target := e.ResourceType
	if target == "" {
		target = "resource"
	}
	return fmt.Sprintf("decoding %s: %s", target, strings.Join(msgs, "; "))
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ResourceTypeOf returns the resourceType name for the r4 types this
// package knows, or "" for any other T.
func ResourceTypeOf[T any]() string {
	switch any((*T)(nil)).(type) {
	case *r4.Bundle:
		return "Bundle"
	case *r4.Parameters:
		return "Parameters"
	case *r4.CodeSystem:
		return "CodeSystem"
	case *r4.ValueSet:
		return "ValueSet"
	case *r4.ConceptMap:
		return "ConceptMap"
	case *r4.OperationOutcome:
		return "OperationOutcome"
	case *r4.CapabilityStatement:
		return "CapabilityStatement"
	case *r4.NamingSystem:
		return "NamingSystem"
	default:
		return ""
	}
}

// DecodeBytes parses data as a JSON object and decodes it with Decode.
func DecodeBytes[T any](data []byte) (*T, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, &DecodeError{
			ResourceType: ResourceTypeOf[T](),
			Issues:       []tx.Issue{tx.Error(tx.IssueTypeStructure).Diagnostics("body is not a JSON object").Build()},
			Err:          fmt.Errorf("invalid JSON: %w", err),
		}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, &DecodeError{
			ResourceType: ResourceTypeOf[T](),
			Issues:       []tx.Issue{tx.Error(tx.IssueTypeStructure).Diagnostics("body has data after the JSON object").Build()},
			Err:          errors.New("invalid JSON: trailing data"),
		}
	}
	if obj == nil {
		return nil, &DecodeError{
			ResourceType: ResourceTypeOf[T](),
			Issues:       []tx.Issue{tx.Error(tx.IssueTypeStructure).Diagnostics("body is null").Build()},
			Err:          errors.New("invalid JSON: null"),
		}
	}
	return Decode[T](obj)
}

// Decode decodes a JSON object into T. It checks the resourceType against
// T, applies Normalize, checks required elements and Parameters value[x]
// rules, then performs the typed decode. obj is modified by Normalize.
func Decode[T any](obj map[string]any) (*T, error) {
	want := ResourceTypeOf[T]()

	got, _ := obj["resourceType"].(string)
	if got == "" {
		return nil, &DecodeError{
			ResourceType: want,
			Issues:       []tx.Issue{tx.Error(tx.IssueTypeStructure).Diagnostics("resourceType is missing").At("resourceType").Build()},
			Err:          errors.New("resourceType is missing"),
		}
	}
	if want != "" && got != want {
		return nil, &DecodeError{
			ResourceType: want,
			Issues: []tx.Issue{tx.Error(tx.IssueTypeStructure).
				Diagnostics(fmt.Sprintf("expected resourceType %s, got %s", want, got)).
				At("resourceType").Build()},
			Err: fmt.Errorf("unexpected resourceType %s", got),
		}
	}

	issues := Normalize(obj)
	issues = append(issues, CheckRequired(obj)...)
	if got == "Parameters" {
		issues = append(issues, checkParameters(obj)...)
	}
	if hasErrors(issues) {
		return nil, &DecodeError{ResourceType: got, Issues: issues, Err: errors.New("resource failed validation")}
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, &DecodeError{ResourceType: got, Issues: issues, Err: err}
	}

	res := new(T)
	if err := json.Unmarshal(data, res); err != nil {
		issues = append(issues, tx.Error(tx.IssueTypeValue).Diagnostics(err.Error()).At(typeErrorPath(got, err)).Build())
		return nil, &DecodeError{ResourceType: got, Issues: issues, Err: err}
	}
	return res, nil
}

// Normalize patches known server omissions in place and reports each one
// as a warning. A ValueSet without status gets StatusUnknown.
func Normalize(obj map[string]any) []tx.Issue {
	var issues []tx.Issue
	if obj["resourceType"] == "ValueSet" {
		if _, ok := obj["status"]; !ok {
			obj["status"] = StatusUnknown
			issues = append(issues, tx.Warning(tx.IssueTypeInformational).
				Diagnostics("ValueSet.status missing, set to "+StatusUnknown).
				At("ValueSet.status").Build())
		}
	}
	return issues
}

func hasErrors(issues []tx.Issue) bool {
	for _, is := range issues {
		if is.IsError() {
			return true
		}
	}
	return false
}

// typeErrorPath builds an expression from a *json.UnmarshalTypeError.
func typeErrorPath(resourceType string, err error) string {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		return resourceType + "." + te.Field
	}
	return resourceType
}

// checkParameters enforces, for every parameter and nested part, that at
// most one value[x] is present and that string-encoded primitive values
// match their type.
func checkParameters(obj map[string]any) []tx.Issue {
	params, _ := obj["parameter"].([]any)
	return checkParameterList(params, "Parameters.parameter")
}

func checkParameterList(params []any, path string) []tx.Issue {
	var issues []tx.Issue
	for i, p := range params {
		loc := fmt.Sprintf("%s[%d]", path, i)
		m, ok := p.(map[string]any)
		if !ok {
			issues = append(issues, tx.Error(tx.IssueTypeStructure).Diagnostics("parameter must be an object").At(loc).Build())
			continue
		}

		var valueKeys []string
		for k := range m {
			if isChoiceValueKey(k) {
				valueKeys = append(valueKeys, k)
			}
		}
		if len(valueKeys) > 1 {
			issues = append(issues, tx.Error(tx.IssueTypeInvariant).
				Diagnostics(fmt.Sprintf("parameter has %d values, at most one allowed", len(valueKeys))).
				At(loc).Build())
		}
		for _, k := range valueKeys {
			s, ok := m[k].(string)
			if !ok {
				continue
			}
			if _, primitive := compiledPatterns[TypeKey(k)]; !primitive && TypeKey(k) != "uuid" {
				continue
			}
			if err := ValidateScalar(k, s); err != nil {
				var se *ScalarError
				if errors.As(err, &se) {
					for _, r := range se.Reasons {
						issues = append(issues, tx.Error(tx.IssueTypeValue).Diagnostics(r).At(loc+"."+k).Build())
					}
				}
			}
		}

		if parts, ok := m["part"].([]any); ok {
			issues = append(issues, checkParameterList(parts, loc+".part")...)
		}
	}
	return issues
}

func isChoiceValueKey(k string) bool {
	if len(k) <= len("value") || !strings.HasPrefix(k, "value") {
		return false
	}
	c := k[len("value")]
	return c >= 'A' && c <= 'Z'
}
