package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Document is the serialized form of a typed namespace tree
type Document struct {
	Namespace   string          `json:"namespace" validate:"required,ident"`
	Description string          `json:"description,omitempty"`
	Options     map[string]any  `json:"options,omitempty"`
	Types       []TypeDecl      `json:"types,omitempty" validate:"dive"`
	Interfaces  []InterfaceDecl `json:"interfaces,omitempty" validate:"dive"`
	Operations  []OperationDecl `json:"operations,omitempty" validate:"dive"`
}

// TypeDecl declares a named object, enum or alias
type TypeDecl struct {
	Name        string          `json:"name" validate:"required,ident"`
	Kind        string          `json:"kind" validate:"required,oneof=object enum alias"`
	Description string          `json:"description,omitempty"`
	Fields      []FieldDecl     `json:"fields,omitempty" validate:"dive"`
	Values      []EnumValueDecl `json:"values,omitempty" validate:"required_if=Kind enum,dive"`
	Type        string          `json:"type,omitempty" validate:"required_if=Kind alias"`
}

// FieldDecl declares an object field
type FieldDecl struct {
	Name string `json:"name" validate:"required,ident"`
	Type string `json:"type" validate:"required"`
}

// EnumValueDecl declares an enum member
type EnumValueDecl struct {
	Name  string `json:"name" validate:"required,ident"`
	Value int32  `json:"value"`
}

// InterfaceDecl declares an interface
type InterfaceDecl struct {
	Name        string          `json:"name" validate:"required,ident"`
	Description string          `json:"description,omitempty"`
	Annotations []string        `json:"annotations,omitempty"`
	Operations  []OperationDecl `json:"operations" validate:"dive"`
}

// OperationDecl declares an operation
type OperationDecl struct {
	Name        string          `json:"name" validate:"required,ident"`
	Description string          `json:"description,omitempty"`
	Annotations []string        `json:"annotations,omitempty"`
	Parameters  []ParameterDecl `json:"parameters,omitempty" validate:"dive"`
	Returns     string          `json:"returns,omitempty"`
}

// ParameterDecl declares an operation parameter
type ParameterDecl struct {
	Name string `json:"name" validate:"required,ident"`
	Type string `json:"type" validate:"required"`
}

var (
	validate   = validator.New(validator.WithRequiredStructEnabled())
	identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

func init() {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("ident", func(fl validator.FieldLevel) bool {
		return identRegex.MatchString(fl.Field().String())
	})
}

// formatValidationError converts a validator.FieldError to a human-readable message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "required_if":
		return fmt.Sprintf("required when %s", fe.Param())
	case "ident":
		return "must be an identifier"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
