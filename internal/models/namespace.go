package models

// Well-known annotation names
const (
	// AnnotationProvider marks an interface or operation implemented
	// elsewhere and called through a generated proxy
	AnnotationProvider = "provider"

	// AnnotationNoCode excludes an interface or operation from generation
	AnnotationNoCode = "nocode"
)

// Annotation is a named marker attached to a node
type Annotation struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments,omitempty"`
}

// Annotated is implemented by nodes that carry annotations
type Annotated interface {
	GetAnnotations() []Annotation
}

// HasAnnotation reports whether node carries the named annotation
func HasAnnotation(node Annotated, name string) bool {
	for _, a := range node.GetAnnotations() {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Namespace is the root of the typed tree
type Namespace struct {
	Name        string
	Description string
	Interfaces  []Interface
	Operations  []Operation    // top-level operations
	Types       []Type         // declared named types, in declaration order
	Options     map[string]any // raw configuration map
}

// Interface groups operations under a provider contract
type Interface struct {
	Name        string
	Description string
	Operations  []Operation
	Annotations []Annotation
}

// GetAnnotations returns the interface annotations
func (i *Interface) GetAnnotations() []Annotation {
	return i.Annotations
}

// IsProvider reports whether the interface is implemented elsewhere
func (i *Interface) IsProvider() bool {
	return HasAnnotation(i, AnnotationProvider)
}

// Skipped reports whether the interface is excluded from generation
func (i *Interface) Skipped() bool {
	return HasAnnotation(i, AnnotationNoCode)
}

// Operation is a callable member of an interface or namespace
type Operation struct {
	Name        string
	Description string
	Parameters  []Parameter
	Returns     Type
	Annotations []Annotation
}

// Parameter is a named operation input
type Parameter struct {
	Name string
	Type Type
}

// GetAnnotations returns the operation annotations
func (o *Operation) GetAnnotations() []Annotation {
	return o.Annotations
}

// IsProvider reports whether the operation is implemented elsewhere
func (o *Operation) IsProvider() bool {
	return HasAnnotation(o, AnnotationProvider)
}

// Skipped reports whether the operation is excluded from generation
func (o *Operation) Skipped() bool {
	return HasAnnotation(o, AnnotationNoCode)
}

// IsUnary reports whether the operation takes exactly one non-stream
// parameter, which can then be decoded straight from the payload.
func (o *Operation) IsUnary() bool {
	count := 0
	for _, p := range o.Parameters {
		if _, ok := p.Type.(Stream); !ok {
			count++
		}
	}
	return count == 1
}

// ReturnType returns the declared return type, Void when none is declared
func (o *Operation) ReturnType() Type {
	if o.Returns == nil {
		return Void{}
	}
	return o.Returns
}
