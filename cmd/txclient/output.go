package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// printer writes command results in the configured format.
type printer struct {
	format string
	w      io.Writer
}

// print writes v as JSON or YAML, or calls text for the text format. A nil
// text func prints v as indented JSON.
func (p printer) print(v any, text func(w io.Writer) error) error {
	switch p.format {
	case OutputJSON:
		return writeJSON(p.w, v)
	case OutputYAML:
		return writeYAML(p.w, v)
	default:
		if text == nil {
			return writeJSON(p.w, v)
		}
		return text(p.w)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML goes through JSON so that FHIR element names and omitempty
// rules from the json tags carry over.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
