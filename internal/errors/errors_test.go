package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cause := errors.New("underlying error")

	err := New(ConfigInvalid, "rules.sort-keys.order must be asc or desc", cause)

	if err.Code != ConfigInvalid {
		t.Errorf("Code = %v, want %v", err.Code, ConfigInvalid)
	}
	if err.Message != "rules.sort-keys.order must be asc or desc" {
		t.Errorf("Message = %q", err.Message)
	}
	if len(err.SuggestedFixes) != 1 {
		t.Errorf("len(SuggestedFixes) = %d, want 1", len(err.SuggestedFixes))
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      ParseFailed,
			message:   "cannot parse app.js",
			cause:     errors.New("context canceled"),
			wantParts: []string{"PARSE_FAILED", "cannot parse app.js", "context canceled"},
		},
		{
			name:      "without cause",
			code:      RuleUnknown,
			message:   "unknown rule 'sort-imports'",
			wantParts: []string{"RULE_UNKNOWN", "unknown rule 'sort-imports'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.code, tt.message, tt.cause).Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(InternalError, "scope stack underflow", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if New(InternalError, "no cause", nil).Unwrap() != nil {
		t.Error("Unwrap() on error without cause should return nil")
	}
}

func TestCodeOf(t *testing.T) {
	base := Newf(CacheUnavailable, "open %s", "cache.db")
	wrapped := fmt.Errorf("lint: %w", base)

	if got := CodeOf(wrapped); got != CacheUnavailable {
		t.Errorf("CodeOf(wrapped) = %q, want %q", got, CacheUnavailable)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
	if !Is(wrapped, CacheUnavailable) {
		t.Error("Is(wrapped, CacheUnavailable) = false")
	}
	if Is(nil, CacheUnavailable) {
		t.Error("Is(nil, ...) = true")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(ConfigInvalid, "bad option", nil)
	details := map[string]string{"field": "rules.sort-keys.natural"}

	if err.WithDetails(details) != err {
		t.Error("WithDetails should return the same error for chaining")
	}
	if err.Details == nil {
		t.Error("Details should be set")
	}
}

func TestGetSuggestedFixes(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		wantLen int
	}{
		{ConfigInvalid, 1},
		{ConfigNotFound, 1},
		{RuleUnknown, 1},
		{CGORequired, 1},
		{CacheUnavailable, 1},
		{ParseFailed, 0},
		{InternalError, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := len(GetSuggestedFixes(tt.code)); got != tt.wantLen {
				t.Errorf("len(GetSuggestedFixes(%s)) = %d, want %d", tt.code, got, tt.wantLen)
			}
		})
	}
}
