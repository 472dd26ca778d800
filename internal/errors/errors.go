package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ConfigInvalid indicates the configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ConfigNotFound indicates an explicitly requested config file is missing
	ConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	// RuleUnknown indicates the configuration names a rule nobody registered
	RuleUnknown ErrorCode = "RULE_UNKNOWN"
	// ParseFailed indicates tree-sitter could not produce a tree
	ParseFailed ErrorCode = "PARSE_FAILED"
	// UnsupportedLanguage indicates a file extension with no grammar
	UnsupportedLanguage ErrorCode = "UNSUPPORTED_LANGUAGE"
	// CGORequired indicates the binary was built without tree-sitter
	CGORequired ErrorCode = "CGO_REQUIRED"
	// CacheUnavailable indicates the result cache could not be opened or written
	CacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	// InternalError indicates a broken internal invariant
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditConfig suggests editing the configuration file
	EditConfig FixActionType = "edit-config"
	// Rebuild suggests rebuilding the binary
	Rebuild FixActionType = "rebuild"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
}

// Error is a jsstyle error with a stable code and suggested fixes.
type Error struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates an Error and attaches the default suggested fixes for its code.
func New(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Newf is New with a formatted message and no cause.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "jsstyle config validate",
			Safe:        true,
			Description: "Show every configuration problem",
		},
	},
	ConfigNotFound: {
		{
			Type:        RunCommand,
			Command:     "jsstyle config init",
			Safe:        true,
			Description: "Write a default .jsstyle.yaml",
		},
	},
	RuleUnknown: {
		{
			Type:        RunCommand,
			Command:     "jsstyle rules",
			Safe:        true,
			Description: "List the registered rules",
		},
	},
	CGORequired: {
		{
			Type:        Rebuild,
			Command:     "CGO_ENABLED=1 go build ./cmd/jsstyle",
			Description: "Rebuild with tree-sitter support",
		},
	},
	CacheUnavailable: {
		{
			Type:        EditConfig,
			Description: "Disable the cache or point cache.path at a writable location",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
