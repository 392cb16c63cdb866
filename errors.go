package txclient

import (
	"errors"
	"fmt"
)

// ErrProtocolViolation matches every *ProtocolError with errors.Is.
var ErrProtocolViolation = errors.New("terminology server protocol violation")

// TransportError reports a network or connection failure.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("requesting %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RequestError reports a response outside [200, 300), or a request that
// timed out before a response arrived (StatusCode 0, Timeout true).
type RequestError struct {
	URL        string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *RequestError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("error requesting from %s: timed out", e.URL)
	}
	return fmt.Sprintf("error requesting from %s, status code %d", e.URL, e.StatusCode)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ParseError reports a body that is not JSON or does not decode into the
// requested resource type. The message is deliberately generic; the cause
// stays available through Unwrap and Issues.
type ParseError struct {
	URL          string
	ResourceType string
	Issues       []Issue
	Err          error
}

func (e *ParseError) Error() string {
	return "parsing the response was not possible"
}

func (e *ParseError) Unwrap() error { return e.Err }

// Detail returns the underlying cause for diagnostics.
func (e *ParseError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// ProtocolError reports a well-formed response that lacks a parameter the
// operation requires.
type ProtocolError struct {
	Operation string
	Parameter string
	URL       string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: response from %s has no %q parameter", e.Operation, e.URL, e.Parameter)
}

// Is reports whether target is ErrProtocolViolation.
func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocolViolation
}
