package extract

import (
	"testing"

	"github.com/gofhir/fhir/r4"
)

const parametersJSON = `{
	"resourceType": "Parameters",
	"parameter": [
		{"name": "result", "valueBoolean": true},
		{"name": "display", "valueString": "Active Problem"}
	]
}`

func TestEvaluator_Evaluate(t *testing.T) {
	e := NewEvaluator(8)

	got, err := e.Evaluate([]byte(parametersJSON), "Parameters.parameter.name")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len(result) = %d; want 2", len(got))
	}

	strs, err := e.Strings(parametersJSON, "Parameters.parameter.where(name = 'display').name")
	if err != nil {
		t.Fatalf("Strings() error = %v", err)
	}
	if len(strs) != 1 {
		t.Errorf("len(Strings()) = %d; want 1", len(strs))
	}
}

func TestEvaluator_TypedResource(t *testing.T) {
	url := "http://snomed.info/sct"
	cs := &r4.CodeSystem{Url: &url}

	got, err := NewEvaluator(0).Evaluate(cs, "CodeSystem.url")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len(result) = %d; want 1", len(got))
	}
}

func TestEvaluator_Exists(t *testing.T) {
	e := NewEvaluator(8)

	ok, err := e.Exists(parametersJSON, "Parameters.parameter.where(name = 'message').exists()")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if ok {
		t.Error("message should not exist")
	}

	ok, err = e.Exists(parametersJSON, "Parameters.parameter.where(name = 'display')")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !ok {
		t.Error("display should exist")
	}
}

func TestEvaluator_CompileCache(t *testing.T) {
	e := NewEvaluator(8)

	for i := 0; i < 3; i++ {
		if _, err := e.Compile("Parameters.parameter.name"); err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
	}
	s := e.Stats()
	if s.Size != 1 {
		t.Errorf("Size = %d; want 1", s.Size)
	}
	if s.Hits != 2 {
		t.Errorf("Hits = %d; want 2", s.Hits)
	}
}

func TestEvaluator_Errors(t *testing.T) {
	e := NewEvaluator(8)

	if _, err := e.Compile("Parameters.parameter.where("); err == nil {
		t.Error("Compile() should fail for an unbalanced expression")
	}
	if s := e.Stats(); s.Size != 0 {
		t.Errorf("failed compile should not be cached, Size = %d", s.Size)
	}
	if _, err := e.Evaluate(make(chan int), "Parameters"); err == nil {
		t.Error("Evaluate() should fail for a value that cannot be encoded")
	}
}

func TestWithResourceType(t *testing.T) {
	type CodeSystem struct {
		URL string `json:"url"`
	}
	tests := []struct {
		name string
		data string
		v    any
		want string
	}{
		{"adds type", `{"url":"x"}`, &CodeSystem{}, `{"resourceType":"CodeSystem","url":"x"}`},
		{"empty object", `{}`, CodeSystem{}, `{"resourceType":"CodeSystem"}`},
		{"already present", `{"resourceType":"ValueSet"}`, CodeSystem{}, `{"resourceType":"ValueSet"}`},
		{"map untouched", `{"a":1}`, map[string]any{}, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(withResourceType([]byte(tt.data), tt.v)); got != tt.want {
				t.Errorf("withResourceType() = %s; want %s", got, tt.want)
			}
		})
	}
}
