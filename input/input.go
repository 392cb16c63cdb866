// Package input validates text typed at an interactive prompt.
//
// A rejection carries a message for the user and a cursor position at the
// end of the entered text, which is where prompt libraries place the
// caret after a failed validation.
package input

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/gofhir/txclient/codec"
)

// MsgEmpty is shown when a value is required but nothing was entered.
const MsgEmpty = "Please enter a value"

// Outcome is the result of validating one piece of input.
type Outcome struct {
	OK             bool
	Message        string
	CursorPosition int
}

// Accept is the outcome for valid input.
var Accept = Outcome{OK: true}

// Reject builds a failed outcome for text.
func Reject(text, message string) Outcome {
	return Outcome{Message: message, CursorPosition: utf8.RuneCountInString(text)}
}

// Err returns the outcome as an error, or nil if it is OK.
func (o Outcome) Err() error {
	if o.OK {
		return nil
	}
	return errors.New(o.Message)
}

// Validator checks a piece of input text.
type Validator interface {
	Validate(text string) Outcome
}

// Func adapts a function to the Validator interface.
type Func func(text string) Outcome

// Validate calls f(text).
func (f Func) Validate(text string) Outcome { return f(text) }

// NotEmpty rejects the empty string.
func NotEmpty() Validator {
	return Func(func(text string) Outcome {
		if text == "" {
			return Reject(text, MsgEmpty)
		}
		return Accept
	})
}

// ValueList accepts only one of choices, compared exactly.
func ValueList(choices ...string) Validator {
	allowed := make(map[string]struct{}, len(choices))
	for _, c := range choices {
		allowed[c] = struct{}{}
	}
	msg := "Please enter one of: " + strings.Join(choices, "|")

	return Func(func(text string) Outcome {
		if _, ok := allowed[text]; !ok {
			return Reject(text, msg)
		}
		return Accept
	})
}

// ValueType accepts text that is a valid value of fhirType, given either
// as a type name ("code") or as a Parameters choice element ("valueCode").
func ValueType(fhirType string) Validator {
	return Func(func(text string) Outcome {
		if text == "" {
			return Reject(text, MsgEmpty)
		}
		if err := codec.ValidateScalar(fhirType, text); err != nil {
			return Reject(text, err.Error())
		}
		return Accept
	})
}

// All runs validators in order and returns the first rejection.
func All(validators ...Validator) Validator {
	return Func(func(text string) Outcome {
		for _, v := range validators {
			if out := v.Validate(text); !out.OK {
				return out
			}
		}
		return Accept
	})
}

// CodeSystemURL validates a code system canonical URL.
func CodeSystemURL() Validator {
	return All(NotEmpty(), ValueType("uri"))
}

// Code validates a code.
func Code() Validator {
	return ValueType("valueCode")
}
