package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestAppError_WithError(t *testing.T) {
	baseErr := errors.New("original error")
	appErr := ErrTrackerRequest.WithError(baseErr)

	if appErr.Err != baseErr {
		t.Errorf("Expected underlying error to be %v, got %v", baseErr, appErr.Err)
	}

	if appErr.Type != TypeTracker {
		t.Errorf("Expected type %s, got %s", TypeTracker, appErr.Type)
	}

	if !errors.Is(appErr, baseErr) {
		t.Error("Expected errors.Is to reach the wrapped error")
	}
}

func TestAppError_WithContext(t *testing.T) {
	appErr := ErrTrackerDecode.WithContext("endpoint", "repos/a/b/issues").WithContext("body", "<html>")

	if appErr.Context["endpoint"] != "repos/a/b/issues" {
		t.Errorf("Expected endpoint context, got %v", appErr.Context["endpoint"])
	}

	if appErr.Body() != "<html>" {
		t.Errorf("Expected body context '<html>', got %q", appErr.Body())
	}

	if ErrTrackerDecode.Context != nil {
		t.Error("Sentinel error must not be mutated by WithContext")
	}
}

func TestAppError_Is(t *testing.T) {
	wrapped := ErrProposalsDecode.WithError(errors.New("boom")).WithContext("body", "x")

	if !errors.Is(wrapped, ErrProposalsDecode) {
		t.Error("Expected copy to match its sentinel")
	}

	if errors.Is(wrapped, ErrTrackerDecode) {
		t.Error("Expected copy not to match a different sentinel")
	}
}

func TestAppError_Error_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name: "Simple error without underlying error",
			err:  ErrUnknownVariant,
			contains: []string{
				"CONFIGURATION",
				"Unknown agenda variant",
			},
		},
		{
			name: "Error with underlying error",
			err:  ErrTrackerRequest.WithError(errors.New("dial tcp: timeout")),
			contains: []string{
				"TRACKER",
				"GitHub request failed",
				"dial tcp: timeout",
			},
		},
		{
			name: "Error with endpoint and raw body",
			err: ErrTrackerDecode.WithError(errors.New("invalid character '<'")).
				WithContext("endpoint", "repos/rust-lang/rust/issues").
				WithContext("body", "<html>oops</html>"),
			contains: []string{
				"invalid character",
				"[repos/rust-lang/rust/issues]",
				"Response:",
				"<html>oops</html>",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("Expected error message to contain %q, got %q", s, msg)
				}
			}
		})
	}
}

func TestAppError_Error_TruncatesLongBody(t *testing.T) {
	body := strings.Repeat("a", maxBodyInMessage+100)
	msg := ErrProposalsDecode.WithContext("body", body).Error()

	if !strings.HasSuffix(msg, "...") {
		t.Error("Expected long body to be truncated")
	}
	if ErrProposalsDecode.WithContext("body", body).Body() != body {
		t.Error("Expected Body() to keep the full body")
	}
}
