package errors

import (
	stdErrors "errors"
	"fmt"
)

// ParseError represents a configuration parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsConfigError reports whether err came from loading or validating configuration.
func IsConfigError(err error) bool {
	var parseErr *ParseError
	var validationErr *ValidationError
	return stdErrors.As(err, &parseErr) || stdErrors.As(err, &validationErr)
}

// PluginErrorKind classifies a plugin invocation failure.
type PluginErrorKind int

const (
	KindSpawnFailed PluginErrorKind = iota + 1
	KindTimeout
	KindNonZeroExit
	KindMalformedOutput
	KindCancelled
)

func (k PluginErrorKind) String() string {
	switch k {
	case KindSpawnFailed:
		return "spawn_failed"
	case KindTimeout:
		return "timeout"
	case KindNonZeroExit:
		return "non_zero_exit"
	case KindMalformedOutput:
		return "malformed_output"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against a PluginError kind.
var (
	ErrSpawnFailed     = &PluginError{Kind: KindSpawnFailed}
	ErrTimeout         = &PluginError{Kind: KindTimeout}
	ErrNonZeroExit     = &PluginError{Kind: KindNonZeroExit}
	ErrMalformedOutput = &PluginError{Kind: KindMalformedOutput}
	ErrCancelled       = &PluginError{Kind: KindCancelled}
)

// PluginError reports a failed plugin invocation.
type PluginError struct {
	Plugin   string
	Kind     PluginErrorKind
	ExitCode int
	Err      error
}

// NewPluginError constructs a PluginError of the given kind.
func NewPluginError(plugin string, kind PluginErrorKind, err error) error {
	return &PluginError{Plugin: plugin, Kind: kind, Err: err}
}

func (e *PluginError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.String()
	if e.Kind == KindNonZeroExit {
		msg = fmt.Sprintf("%s (exit code %d)", msg, e.ExitCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Plugin != "" {
		return fmt.Sprintf("plugin error [%s]: %s", e.Plugin, msg)
	}
	return fmt.Sprintf("plugin error: %s", msg)
}

// Unwrap exposes the underlying error.
func (e *PluginError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches another PluginError of the same kind.
func (e *PluginError) Is(target error) bool {
	t, ok := target.(*PluginError)
	if !ok || e == nil {
		return false
	}
	return t.Kind == e.Kind
}

// CacheError wraps a failed cache read, write or decode.
type CacheError struct {
	Plugin string
	Op     string
	Err    error
}

// NewCacheError constructs a CacheError.
func NewCacheError(plugin, op string, err error) error {
	return &CacheError{Plugin: plugin, Op: op, Err: err}
}

func (e *CacheError) Error() string {
	if e == nil {
		return ""
	}
	if e.Plugin != "" {
		return fmt.Sprintf("cache %s error [%s]: %v", e.Op, e.Plugin, e.Err)
	}
	return fmt.Sprintf("cache %s error: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying error.
func (e *CacheError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrInvalidPattern is matched by SearchError via errors.Is.
var ErrInvalidPattern = stdErrors.New("invalid search pattern")

// SearchError reports a query that could not be compiled as a pattern.
type SearchError struct {
	Pattern string
	Err     error
}

// NewSearchError constructs a SearchError for the given pattern.
func NewSearchError(pattern string, err error) error {
	return &SearchError{Pattern: pattern, Err: err}
}

func (e *SearchError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("invalid search pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap exposes the underlying compile error.
func (e *SearchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports ErrInvalidPattern equivalence.
func (e *SearchError) Is(target error) bool {
	return target == ErrInvalidPattern
}
