package domain

import "testing"

func TestSeverityValid(t *testing.T) {
	valid := []Severity{SeverityError, SeverityWarning, SeveritySuggestion}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	invalid := []Severity{"", "critical", "ERROR", "info"}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestVerdictValid(t *testing.T) {
	valid := []Verdict{VerdictApprove, VerdictRequestChanges, VerdictComment}
	for _, v := range valid {
		if !v.Valid() {
			t.Errorf("expected %q to be valid", v)
		}
	}

	invalid := []Verdict{"", "ship_it", "APPROVE", "lgtm"}
	for _, v := range invalid {
		if v.Valid() {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

func TestExitCodeInt(t *testing.T) {
	tests := []struct {
		code ExitCode
		want int
	}{
		{ExitSuccess, 0},
		{ExitError, 2},
		{ExitInterrupted, 130},
	}

	for _, tt := range tests {
		if got := tt.code.Int(); got != tt.want {
			t.Errorf("ExitCode(%d).Int() = %d, want %d", tt.code, got, tt.want)
		}
	}
}
