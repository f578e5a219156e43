// Package schema loads serialized typed trees into models.Namespace values.
//
// A document is the typed tree itself written as YAML or JSON; type
// references inside it are compact strings such as "User" or
// "stream<Event>".
package schema

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"

	"github.com/toyz/rsbind/internal/errors"
	"github.com/toyz/rsbind/internal/models"
)

// LoadFile reads and resolves the document at path
func LoadFile(path string) (*models.Namespace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a YAML or JSON document and resolves it into a namespace.
// source names the document in error messages.
func Parse(data []byte, source string) (*models.Namespace, error) {
	var doc Document
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, errors.WrapParseError(source, err).
			WithLocation(errors.SourceLocation{File: source})
	}
	if err := Validate(&doc, source); err != nil {
		return nil, err
	}
	return Resolve(&doc, source)
}

// Validate checks the structural constraints of a document
func Validate(doc *Document, source string) error {
	err := validate.Struct(doc)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.WrapValidationError("document", err)
	}

	var collected *errors.MultipleErrors
	for _, fe := range fieldErrs {
		field := strings.TrimPrefix(fe.Namespace(), "Document.")
		errors.AddToMultiple(&collected, errors.NewValidationErrorWithValue(field, fe.Value(), formatValidationError(fe)).
			WithLocation(errors.SourceLocation{File: source}))
	}
	return collected.ErrorOrNil()
}

// Resolve converts a validated document into a namespace
func Resolve(doc *Document, source string) (*models.Namespace, error) {
	r := &resolver{
		source:     source,
		decls:      make(map[string]*TypeDecl, len(doc.Types)),
		resolved:   make(map[string]models.Type),
		inProgress: make(map[string]bool),
	}
	for i := range doc.Types {
		decl := &doc.Types[i]
		if models.IsPrimitive(decl.Name) || decl.Name == "void" || decl.Name == "stream" {
			return nil, r.schemaError("type", decl.Name, "name is reserved")
		}
		if _, dup := r.decls[decl.Name]; dup {
			return nil, r.schemaError("type", decl.Name, "declared more than once")
		}
		r.decls[decl.Name] = decl
	}

	ns := &models.Namespace{
		Name:        doc.Namespace,
		Description: doc.Description,
		Options:     doc.Options,
	}
	if ns.Options == nil {
		ns.Options = map[string]any{}
	}

	// Resolve every declared type so unused declarations are still checked.
	for i := range doc.Types {
		t, err := r.named(doc.Types[i].Name)
		if err != nil {
			return nil, err
		}
		ns.Types = append(ns.Types, t)
	}

	seen := map[string]bool{}
	for _, decl := range doc.Interfaces {
		if seen[decl.Name] {
			return nil, r.schemaError("interface", decl.Name, "declared more than once")
		}
		seen[decl.Name] = true

		iface := models.Interface{Name: decl.Name, Description: decl.Description}
		annotations, err := r.annotations(decl.Annotations)
		if err != nil {
			return nil, err
		}
		iface.Annotations = annotations
		for _, opDecl := range decl.Operations {
			op, err := r.operation(opDecl)
			if err != nil {
				return nil, err
			}
			iface.Operations = append(iface.Operations, op)
		}
		ns.Interfaces = append(ns.Interfaces, iface)
	}

	for _, opDecl := range doc.Operations {
		op, err := r.operation(opDecl)
		if err != nil {
			return nil, err
		}
		ns.Operations = append(ns.Operations, op)
	}

	return ns, nil
}

type resolver struct {
	source     string
	decls      map[string]*TypeDecl
	resolved   map[string]models.Type
	inProgress map[string]bool
}

func (r *resolver) schemaError(kind, name, message string) *errors.SchemaError {
	return errors.NewSchemaErrorWithDetails(kind, name, message).
		WithLocation(errors.SourceLocation{File: r.source})
}

func (r *resolver) operation(decl OperationDecl) (models.Operation, error) {
	op := models.Operation{Name: decl.Name, Description: decl.Description, Returns: models.Void{}}

	annotations, err := r.annotations(decl.Annotations)
	if err != nil {
		return op, err
	}
	op.Annotations = annotations

	seen := map[string]bool{}
	for _, p := range decl.Parameters {
		if seen[p.Name] {
			return op, r.schemaError("operation", decl.Name, fmt.Sprintf("parameter '%s' declared more than once", p.Name)).
				WithParameterName(p.Name)
		}
		seen[p.Name] = true

		t, err := r.ref(p.Type)
		if err != nil {
			return op, err
		}
		op.Parameters = append(op.Parameters, models.Parameter{Name: p.Name, Type: t})
	}

	if decl.Returns != "" {
		t, err := r.ref(decl.Returns)
		if err != nil {
			return op, err
		}
		op.Returns = t
	}
	return op, nil
}

func (r *resolver) annotations(raw []string) ([]models.Annotation, error) {
	var out []models.Annotation
	for _, s := range raw {
		ref, err := parseAnnotation(s)
		if err != nil {
			return nil, errors.WrapParseError("annotation", err).
				WithLocation(errors.SourceLocation{File: r.source})
		}
		a := models.Annotation{Name: ref.Name}
		if len(ref.Args) > 0 {
			a.Arguments = make(map[string]string, len(ref.Args))
			for _, arg := range ref.Args {
				a.Arguments[arg.Key] = arg.Value
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *resolver) ref(s string) (models.Type, error) {
	ref, err := parseTypeRef(s)
	if err != nil {
		return nil, errors.WrapParseError("type reference", err).
			WithLocation(errors.SourceLocation{File: r.source})
	}
	return r.resolve(ref)
}

func (r *resolver) resolve(ref *typeRef) (models.Type, error) {
	switch {
	case ref.Stream != nil:
		element, err := r.resolve(ref.Stream)
		if err != nil {
			return nil, err
		}
		return models.Stream{Element: element}, nil
	case ref.Name == "void":
		return models.Void{}, nil
	case models.IsPrimitive(ref.Name):
		return models.Primitive{Name: models.PrimitiveName(ref.Name)}, nil
	default:
		return r.named(ref.Name)
	}
}

func (r *resolver) named(name string) (models.Type, error) {
	if t, ok := r.resolved[name]; ok {
		return t, nil
	}
	decl, ok := r.decls[name]
	if !ok {
		return nil, r.schemaError("type", name, "unknown type").
			WithSuggestion("Declare the type under 'types' or use a primitive")
	}
	if r.inProgress[name] {
		if decl.Kind == "object" {
			// Self-referencing objects keep a reference without fields.
			return models.Object{Name: name}, nil
		}
		return nil, r.schemaError("alias", name, "alias refers to itself")
	}

	r.inProgress[name] = true
	defer delete(r.inProgress, name)

	var t models.Type
	switch decl.Kind {
	case "object":
		obj := models.Object{Name: name}
		for _, f := range decl.Fields {
			ft, err := r.ref(f.Type)
			if err != nil {
				return nil, err
			}
			obj.Fields = append(obj.Fields, models.Field{Name: f.Name, Type: ft})
		}
		t = obj
	case "enum":
		enum := models.Enum{Name: name}
		for _, v := range decl.Values {
			enum.Values = append(enum.Values, models.EnumValue{Name: v.Name, Value: v.Value})
		}
		t = enum
	case "alias":
		target, err := r.ref(decl.Type)
		if err != nil {
			return nil, err
		}
		t = models.Alias{Name: name, Target: target}
	default:
		return nil, r.schemaError("type", name, fmt.Sprintf("unknown kind '%s'", decl.Kind))
	}

	r.resolved[name] = t
	return t, nil
}
