package txclient

import "testing"

func TestIssue_IsError(t *testing.T) {
	tests := []struct {
		severity IssueSeverity
		want     bool
	}{
		{SeverityFatal, true},
		{SeverityError, true},
		{SeverityWarning, false},
	}

	for _, tt := range tests {
		issue := Issue{Severity: tt.severity}
		if got := issue.IsError(); got != tt.want {
			t.Errorf("Issue{Severity: %s}.IsError() = %v; want %v", tt.severity, got, tt.want)
		}
	}
}

func TestIssue_String(t *testing.T) {
	tests := []struct {
		issue Issue
		want  string
	}{
		{
			issue: Issue{Severity: SeverityError, Diagnostics: "missing status"},
			want:  "error: missing status",
		},
		{
			issue: Issue{Severity: SeverityError, Diagnostics: "missing name", Expression: []string{"Parameters.parameter[0].name"}},
			want:  "error: missing name at Parameters.parameter[0].name",
		},
	}

	for _, tt := range tests {
		if got := tt.issue.String(); got != tt.want {
			t.Errorf("Issue.String() = %q; want %q", got, tt.want)
		}
	}
}

func TestIssueBuilder(t *testing.T) {
	issue := Error(IssueTypeRequired).
		Diagnostics("Bundle.type is required").
		At("Bundle.type").
		Build()

	if issue.Severity != SeverityError {
		t.Errorf("Severity = %s; want error", issue.Severity)
	}
	if issue.Code != IssueTypeRequired {
		t.Errorf("Code = %s; want required", issue.Code)
	}
	if len(issue.Expression) != 1 || issue.Expression[0] != "Bundle.type" {
		t.Errorf("Expression = %v; want [Bundle.type]", issue.Expression)
	}

	w := Warning(IssueTypeInformational).Diagnostics("normalized").Build()
	if w.Severity != SeverityWarning || w.IsError() {
		t.Error("Warning() should build a non-error warning issue")
	}
}
