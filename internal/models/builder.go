package models

// OperationBuilder provides a fluent interface for building operations
type OperationBuilder struct {
	op Operation
}

// NewOperation starts building an operation returning void
func NewOperation(name string) *OperationBuilder {
	return &OperationBuilder{op: Operation{Name: name, Returns: Void{}}}
}

// WithParam appends a parameter
func (b *OperationBuilder) WithParam(name string, t Type) *OperationBuilder {
	b.op.Parameters = append(b.op.Parameters, Parameter{Name: name, Type: t})
	return b
}

// Returning sets the return type
func (b *OperationBuilder) Returning(t Type) *OperationBuilder {
	b.op.Returns = t
	return b
}

// WithAnnotation attaches an annotation
func (b *OperationBuilder) WithAnnotation(name string) *OperationBuilder {
	b.op.Annotations = append(b.op.Annotations, Annotation{Name: name})
	return b
}

// WithDescription sets the doc text
func (b *OperationBuilder) WithDescription(text string) *OperationBuilder {
	b.op.Description = text
	return b
}

// Build returns the operation
func (b *OperationBuilder) Build() Operation {
	op := b.op
	op.Parameters = append([]Parameter(nil), b.op.Parameters...)
	op.Annotations = append([]Annotation(nil), b.op.Annotations...)
	return op
}

// NamespaceBuilder provides a fluent interface for building namespaces
type NamespaceBuilder struct {
	ns Namespace
}

// NewNamespace starts building a namespace
func NewNamespace(name string) *NamespaceBuilder {
	return &NamespaceBuilder{ns: Namespace{Name: name, Options: map[string]any{}}}
}

// WithInterface appends an interface built from ops
func (b *NamespaceBuilder) WithInterface(name string, ops ...Operation) *NamespaceBuilder {
	b.ns.Interfaces = append(b.ns.Interfaces, Interface{Name: name, Operations: ops})
	return b
}

// WithProvider appends a provider interface built from ops
func (b *NamespaceBuilder) WithProvider(name string, ops ...Operation) *NamespaceBuilder {
	b.ns.Interfaces = append(b.ns.Interfaces, Interface{
		Name:        name,
		Operations:  ops,
		Annotations: []Annotation{{Name: AnnotationProvider}},
	})
	return b
}

// WithOperations appends top-level operations
func (b *NamespaceBuilder) WithOperations(ops ...Operation) *NamespaceBuilder {
	b.ns.Operations = append(b.ns.Operations, ops...)
	return b
}

// WithTypes declares named types
func (b *NamespaceBuilder) WithTypes(types ...Type) *NamespaceBuilder {
	b.ns.Types = append(b.ns.Types, types...)
	return b
}

// WithOption sets a configuration value
func (b *NamespaceBuilder) WithOption(key string, value any) *NamespaceBuilder {
	b.ns.Options[key] = value
	return b
}

// Build returns the namespace
func (b *NamespaceBuilder) Build() *Namespace {
	ns := b.ns
	return &ns
}
