package main

import (
	"testing"

	"github.com/reviewpilot/reviewpilot/internal/domain"
)

func TestExitCodeErrorMessages(t *testing.T) {
	tests := []struct {
		code domain.ExitCode
		want string
	}{
		{domain.ExitError, "review failed with error"},
		{domain.ExitInterrupted, "review was interrupted"},
		{domain.ExitCode(99), "exit code 99"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			err := exitCodeError{code: tt.code}
			if err.Error() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestExitCodeSuccessIsNil(t *testing.T) {
	if err := exitCode(domain.ExitSuccess); err != nil {
		t.Errorf("expected nil for success, got %v", err)
	}
}

func TestExitCodeWrapsNonSuccess(t *testing.T) {
	for _, code := range []domain.ExitCode{domain.ExitError, domain.ExitInterrupted} {
		err := exitCode(code)
		if err == nil {
			t.Fatalf("expected error for code %d, got nil", code)
		}
		exitErr, ok := err.(exitCodeError)
		if !ok {
			t.Fatalf("expected exitCodeError type, got %T", err)
		}
		if exitErr.code != code {
			t.Errorf("expected code %d, got %d", code, exitErr.code)
		}
	}
}
