package txclient

// NoReasonGiven is reported for an invalid code when the server sent no message.
const NoReasonGiven = "no reason given"

// LookupResult is the outcome of a $validate-code lookup. It is either
// valid with a display, or invalid with an optional reason; never both.
type LookupResult struct {
	// Valid is the server's "result" parameter.
	Valid bool `json:"valid"`

	// Display is set only when Valid is true.
	Display string `json:"display,omitempty"`

	// Message is the server's reason, set only when Valid is false.
	// Empty when the server gave no reason.
	Message string `json:"message,omitempty"`

	// Echo of the request, for reporting
	System  string `json:"system"`
	Code    string `json:"code"`
	Version string `json:"version,omitempty"`
}

// ValidResult builds a valid lookup result.
func ValidResult(display string) LookupResult {
	return LookupResult{Valid: true, Display: display}
}

// InvalidResult builds an invalid lookup result. Pass "" when the server
// gave no reason.
func InvalidResult(message string) LookupResult {
	return LookupResult{Valid: false, Message: message}
}

// Reason returns the invalidity reason, or NoReasonGiven.
// It returns "" for valid results.
func (r LookupResult) Reason() string {
	if r.Valid {
		return ""
	}
	if r.Message == "" {
		return NoReasonGiven
	}
	return r.Message
}
