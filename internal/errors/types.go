package errors

import "fmt"

// RsbindError is implemented by every error the binding pipeline reports.
// The diagnostic reporter renders the code, location, context and
// suggestions of each one.
type RsbindError interface {
	error
	ErrorCode() ErrorCode
	Location() SourceLocation
	Context() map[string]any
	Suggestions() []string
	Unwrap() error
}

// ErrorCode classifies an RsbindError
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota

	// model documents and their grammar
	SyntaxErrorCode
	ValidationErrorCode
	SchemaErrorCode

	// rendering and writing bindings
	GenerationErrorCode
	TemplateErrorCode
	FileSystemErrorCode

	// ConfigurationErrorCode marks a declaration that cannot be bound as
	// written: an ambiguous operation or an unreadable configuration
	ConfigurationErrorCode
	// UnsupportedTypeErrorCode marks a type shape no codec covers
	UnsupportedTypeErrorCode
)

// String returns the name shown in diagnostics
func (e ErrorCode) String() string {
	switch e {
	case SyntaxErrorCode:
		return "SyntaxError"
	case ValidationErrorCode:
		return "ValidationError"
	case SchemaErrorCode:
		return "SchemaError"
	case GenerationErrorCode:
		return "GenerationError"
	case TemplateErrorCode:
		return "TemplateError"
	case FileSystemErrorCode:
		return "FileSystemError"
	case ConfigurationErrorCode:
		return "ConfigurationError"
	case UnsupportedTypeErrorCode:
		return "UnsupportedTypeCombination"
	default:
		return "UnknownError"
	}
}

// SourceLocation points into a model document. Line and Column are
// 1-based; zero means unknown.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (s SourceLocation) String() string {
	if s.File == "" {
		return "unknown location"
	}
	if s.Line == 0 {
		return s.File
	}
	if s.Column == 0 {
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// IsEmpty reports whether the location names no file
func (s SourceLocation) IsEmpty() bool {
	return s.File == ""
}

// BaseError implements RsbindError. The specific error types embed it.
type BaseError struct {
	Code        ErrorCode
	Message     string
	Loc         SourceLocation
	Cause       error
	ContextData map[string]any
	Hints       []string
}

func (e *BaseError) Error() string {
	if e.Loc.IsEmpty() {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Loc.String(), e.Message)
}

func (e *BaseError) ErrorCode() ErrorCode     { return e.Code }
func (e *BaseError) Location() SourceLocation { return e.Loc }
func (e *BaseError) Suggestions() []string    { return e.Hints }
func (e *BaseError) Unwrap() error            { return e.Cause }

// Context returns the key/value details shown under the message. It is
// never nil.
func (e *BaseError) Context() map[string]any {
	if e.ContextData == nil {
		return map[string]any{}
	}
	return e.ContextData
}

// WithLocation sets the document position of the error
func (e *BaseError) WithLocation(loc SourceLocation) *BaseError {
	e.Loc = loc
	return e
}

// WithContext records a detail shown under the message
func (e *BaseError) WithContext(key string, value any) *BaseError {
	if e.ContextData == nil {
		e.ContextData = make(map[string]any)
	}
	e.ContextData[key] = value
	return e
}

// WithSuggestion appends a fix the user can apply
func (e *BaseError) WithSuggestion(suggestion string) *BaseError {
	e.Hints = append(e.Hints, suggestion)
	return e
}

// WithSuggestions appends several fixes
func (e *BaseError) WithSuggestions(suggestions ...string) *BaseError {
	e.Hints = append(e.Hints, suggestions...)
	return e
}

// New returns an error with code and message
func New(code ErrorCode, message string) *BaseError {
	return &BaseError{Code: code, Message: message}
}

// Newf is New with a formatted message
func Newf(code ErrorCode, format string, args ...any) *BaseError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap returns an error with code and message caused by cause
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{Code: code, Message: message, Cause: cause}
}
