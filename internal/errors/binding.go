package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ConfigurationError reports an operation whose declared shape cannot be
// bound. It aborts emission for that operation only.
type ConfigurationError struct {
	*BaseError
	Namespace string // namespace declaring the operation
	Interface string // owning interface, empty for top-level operations
	Operation string // operation name
}

// Qualified returns the operation name qualified by its interface
func (e *ConfigurationError) Qualified() string {
	if e.Interface == "" {
		return e.Operation
	}
	return e.Interface + "." + e.Operation
}

// NewConfigurationError creates a configuration error for an operation
func NewConfigurationError(namespace, iface, operation, reason string) *ConfigurationError {
	err := &ConfigurationError{
		Namespace: namespace,
		Interface: iface,
		Operation: operation,
	}
	err.BaseError = New(ConfigurationErrorCode, fmt.Sprintf("operation '%s' in namespace '%s': %s", err.Qualified(), namespace, reason)).
		WithContext("namespace", namespace).
		WithContext("operation", operation)
	if iface != "" {
		err.WithContext("interface", iface)
	}
	return err
}

// NewAmbiguousStreamError reports an operation with more than one stream parameter
func NewAmbiguousStreamError(namespace, iface, operation string, params []string) *ConfigurationError {
	err := NewConfigurationError(namespace, iface, operation,
		fmt.Sprintf("ambiguous stream parameters (%s): at most one parameter may be a stream", strings.Join(params, ", ")))
	err.WithContext("stream_parameters", params).
		WithSuggestions(
			"Keep a single stream parameter and pass the others as single values",
			"Split the operation into several channel operations",
		)
	return err
}

// UnsupportedTypeError reports a type shape no encoding strategy covers,
// such as a stream of streams.
type UnsupportedTypeError struct {
	*BaseError
	Operation string // operation declaring the type
	Position  string // "return" or "parameter <name>"
	Type      string // rendered type
}

// NewUnsupportedTypeError creates an unsupported type combination error
func NewUnsupportedTypeError(operation, position, typ, reason string) *UnsupportedTypeError {
	return &UnsupportedTypeError{
		BaseError: New(UnsupportedTypeErrorCode,
			fmt.Sprintf("operation '%s': unsupported type %s for %s: %s", operation, typ, position, reason)).
			WithContext("operation", operation).
			WithContext("position", position).
			WithContext("type", typ),
		Operation: operation,
		Position:  position,
		Type:      typ,
	}
}

// WithLocation adds location information to the error
func (e *UnsupportedTypeError) WithLocation(loc SourceLocation) *UnsupportedTypeError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *UnsupportedTypeError) WithSuggestion(suggestion string) *UnsupportedTypeError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// unboundOperation returns the qualified name of the operation err reports
// as unbindable
func unboundOperation(err error) (string, bool) {
	switch v := err.(type) {
	case *ConfigurationError:
		return v.Qualified(), true
	case *UnsupportedTypeError:
		return v.Operation, true
	}
	return "", false
}

// MultipleErrors collects the problems of one pass so they are reported
// together. Analysis fills it with a ConfigurationError or an
// UnsupportedTypeError per operation that cannot be bound while the other
// operations are still emitted; document validation fills it with one
// ValidationError per rejected field.
type MultipleErrors struct {
	Errors []RsbindError
}

// NewMultipleErrors returns an empty collection
func NewMultipleErrors() *MultipleErrors {
	return &MultipleErrors{}
}

// CollectErrors returns a collection holding errs
func CollectErrors(errs ...RsbindError) *MultipleErrors {
	return &MultipleErrors{Errors: errs}
}

func (e *MultipleErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}

	var b strings.Builder
	if e.Unbound() {
		fmt.Fprintf(&b, "%d operations cannot be bound:", len(e.Errors))
	} else {
		fmt.Fprintf(&b, "%d errors:", len(e.Errors))
	}
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, err)
	}
	return b.String()
}

// Add appends err
func (e *MultipleErrors) Add(err RsbindError) {
	e.Errors = append(e.Errors, err)
}

// Count returns the number of collected errors
func (e *MultipleErrors) Count() int {
	return len(e.Errors)
}

// ErrorOrNil returns nil for a nil or empty collection
func (e *MultipleErrors) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Unbound reports whether every entry is an operation that could not be
// bound, so the files emitted alongside the collection are still usable
func (e *MultipleErrors) Unbound() bool {
	if len(e.Errors) == 0 {
		return false
	}
	for _, err := range e.Errors {
		if _, ok := unboundOperation(err); !ok {
			return false
		}
	}
	return true
}

// Operations returns the qualified names of the operations that could not
// be bound, in the order they were reported
func (e *MultipleErrors) Operations() []string {
	var names []string
	for _, err := range e.Errors {
		if name, ok := unboundOperation(err); ok {
			names = append(names, name)
		}
	}
	return names
}

// ConfigurationErrors returns the ambiguous or malformed operations
func (e *MultipleErrors) ConfigurationErrors() []*ConfigurationError {
	var out []*ConfigurationError
	for _, err := range e.Errors {
		if v, ok := err.(*ConfigurationError); ok {
			out = append(out, v)
		}
	}
	return out
}

// UnsupportedTypes returns the operations declaring a type no codec covers
func (e *MultipleErrors) UnsupportedTypes() []*UnsupportedTypeError {
	var out []*UnsupportedTypeError
	for _, err := range e.Errors {
		if v, ok := err.(*UnsupportedTypeError); ok {
			out = append(out, v)
		}
	}
	return out
}

// HasCode reports whether any entry carries code
func (e *MultipleErrors) HasCode(code ErrorCode) bool {
	for _, err := range e.Errors {
		if err.ErrorCode() == code {
			return true
		}
	}
	return false
}

// ErrorCode returns the code of the first entry
func (e *MultipleErrors) ErrorCode() ErrorCode {
	if len(e.Errors) == 0 {
		return UnknownErrorCode
	}
	return e.Errors[0].ErrorCode()
}

// Location returns the location of the first entry
func (e *MultipleErrors) Location() SourceLocation {
	if len(e.Errors) == 0 {
		return SourceLocation{}
	}
	return e.Errors[0].Location()
}

// Context summarizes the collection: the number of entries and the
// operations that could not be bound
func (e *MultipleErrors) Context() map[string]any {
	ctx := map[string]any{"count": len(e.Errors)}
	if ops := e.Operations(); len(ops) > 0 {
		ctx["operations"] = ops
	}
	return ctx
}

// Suggestions returns the suggestions of every entry, each once
func (e *MultipleErrors) Suggestions() []string {
	var out []string
	seen := map[string]bool{}
	for _, err := range e.Errors {
		for _, s := range err.Suggestions() {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// Unwrap returns the first entry
func (e *MultipleErrors) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0]
}

// Is reports whether any entry matches target
func (e *MultipleErrors) Is(target error) bool {
	for _, err := range e.Errors {
		if stderrors.Is(err, target) {
			return true
		}
	}
	return false
}

// As finds the first entry assignable to target
func (e *MultipleErrors) As(target any) bool {
	for _, err := range e.Errors {
		if stderrors.As(err, target) {
			return true
		}
	}
	return false
}
