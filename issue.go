package txclient

// IssueSeverity is the severity of a decode issue.
// Values follow OperationOutcome.issue.severity.
type IssueSeverity string

const (
	// SeverityFatal means decoding could not continue.
	SeverityFatal IssueSeverity = "fatal"
	// SeverityError makes the response unusable.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is reported but does not fail decoding.
	SeverityWarning IssueSeverity = "warning"
)

// IssueType classifies a decode issue.
// Values follow OperationOutcome.issue.code.
type IssueType string

const (
	// IssueTypeStructure indicates malformed JSON or a wrong resourceType.
	IssueTypeStructure IssueType = "structure"
	// IssueTypeRequired indicates a required element is missing.
	IssueTypeRequired IssueType = "required"
	// IssueTypeValue indicates a value of the wrong type or format.
	IssueTypeValue IssueType = "value"
	// IssueTypeInvariant indicates a rule across elements was broken.
	IssueTypeInvariant IssueType = "invariant"
	// IssueTypeInformational marks a normalization applied by the codec.
	IssueTypeInformational IssueType = "informational"
)

// Issue is a single problem found while decoding a server response.
type Issue struct {
	Severity IssueSeverity `json:"severity"`
	Code     IssueType     `json:"code"`

	// Diagnostics contains human-readable details about the issue
	Diagnostics string `json:"diagnostics,omitempty"`

	// Expression is the FHIRPath-style location, e.g. "Parameters.parameter[1].name"
	Expression []string `json:"expression,omitempty"`
}

// IsError returns true if this is an error or fatal issue.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError || i.Severity == SeverityFatal
}

// String returns a human-readable representation of the issue.
func (i Issue) String() string {
	path := ""
	if len(i.Expression) > 0 {
		path = " at " + i.Expression[0]
	}
	return string(i.Severity) + ": " + i.Diagnostics + path
}

// IssueBuilder provides a fluent API for building issues.
type IssueBuilder struct {
	issue Issue
}

// NewIssue creates a new IssueBuilder.
func NewIssue(severity IssueSeverity, code IssueType) *IssueBuilder {
	return &IssueBuilder{
		issue: Issue{
			Severity: severity,
			Code:     code,
		},
	}
}

// Error creates an error issue.
func Error(code IssueType) *IssueBuilder {
	return NewIssue(SeverityError, code)
}

// Warning creates a warning issue.
func Warning(code IssueType) *IssueBuilder {
	return NewIssue(SeverityWarning, code)
}

// Diagnostics sets the diagnostic message.
func (b *IssueBuilder) Diagnostics(msg string) *IssueBuilder {
	b.issue.Diagnostics = msg
	return b
}

// At sets the expression path.
func (b *IssueBuilder) At(path string) *IssueBuilder {
	b.issue.Expression = []string{path}
	return b
}

// Build returns the constructed issue.
func (b *IssueBuilder) Build() Issue {
	return b.issue
}
