package errors

import "fmt"

// ValidationError represents a validation error with detailed context
type ValidationError struct {
	*BaseError
	Field      string // field that failed validation
	Value      any    // the value that failed validation
	Expected   string // what was expected
	Actual     string // what was provided
	Constraint string // the validation constraint that failed
}

// NewValidationError creates a new validation error
func NewValidationError(field, expected, actual string) *ValidationError {
	message := fmt.Sprintf("validation failed for field '%s': expected %s, got %s", field, expected, actual)

	return &ValidationError{
		BaseError: New(ValidationErrorCode, message),
		Field:     field,
		Expected:  expected,
		Actual:    actual,
	}
}

// NewValidationErrorWithValue creates a validation error with the actual value
func NewValidationErrorWithValue(field string, value any, constraint string) *ValidationError {
	message := fmt.Sprintf("validation failed for field '%s': %s", field, constraint)

	return &ValidationError{
		BaseError:  New(ValidationErrorCode, message),
		Field:      field,
		Value:      value,
		Constraint: constraint,
	}
}

// WithLocation adds location information to the error
func (e *ValidationError) WithLocation(loc SourceLocation) *ValidationError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithContext adds context data to the error
func (e *ValidationError) WithContext(key string, value any) *ValidationError {
	e.BaseError.WithContext(key, value)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *ValidationError) WithSuggestion(suggestion string) *ValidationError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// SyntaxError represents a syntax parsing error
type SyntaxError struct {
	*BaseError
}

// WithLocation adds location information to the error
func (e *SyntaxError) WithLocation(loc SourceLocation) *SyntaxError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithContext adds context data to the error
func (e *SyntaxError) WithContext(key string, value any) *SyntaxError {
	e.BaseError.WithContext(key, value)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *SyntaxError) WithSuggestion(suggestion string) *SyntaxError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// SchemaError represents a schema-related error
type SchemaError struct {
	*BaseError
	SchemaType    string // type of schema element
	SchemaName    string // name of the schema element
	ParameterName string // parameter that caused the error (if applicable)
}

// NewSchemaErrorWithDetails creates a schema error with detailed information
func NewSchemaErrorWithDetails(schemaType, schemaName, message string) *SchemaError {
	fullMessage := fmt.Sprintf("schema error in %s '%s': %s", schemaType, schemaName, message)

	return &SchemaError{
		BaseError:  New(SchemaErrorCode, fullMessage),
		SchemaType: schemaType,
		SchemaName: schemaName,
	}
}

// WithParameterName sets the parameter that caused the error
func (e *SchemaError) WithParameterName(paramName string) *SchemaError {
	e.ParameterName = paramName
	return e
}

// WithLocation adds location information to the error
func (e *SchemaError) WithLocation(loc SourceLocation) *SchemaError {
	e.BaseError.WithLocation(loc)
	return e
}

// GenerationError represents an error during code generation
type GenerationError struct {
	*BaseError
	GenerationType string // type of generation (template, module, etc.)
	TargetFile     string // target file being generated
	Stage          string // stage of generation where error occurred
}

// NewGenerationError creates a new generation error
func NewGenerationError(message string) *GenerationError {
	return &GenerationError{
		BaseError: New(GenerationErrorCode, message),
	}
}
