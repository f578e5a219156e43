package models

import "strings"

// Type is a node of the typed tree describing a parameter, return or field
// type. The set of implementations is closed: Primitive, Enum, Alias,
// Object, Stream and Void.
type Type interface {
	// String renders the type the way model documents spell it
	String() string

	isType()
}

// PrimitiveName names a scalar with a fixed wire encoding
type PrimitiveName string

const (
	String   PrimitiveName = "string"
	Bytes    PrimitiveName = "bytes"
	Bool     PrimitiveName = "bool"
	I8       PrimitiveName = "i8"
	I16      PrimitiveName = "i16"
	I32      PrimitiveName = "i32"
	I64      PrimitiveName = "i64"
	U8       PrimitiveName = "u8"
	U16      PrimitiveName = "u16"
	U32      PrimitiveName = "u32"
	U64      PrimitiveName = "u64"
	F32      PrimitiveName = "f32"
	F64      PrimitiveName = "f64"
	DateTime PrimitiveName = "datetime"
)

var primitiveNames = map[PrimitiveName]bool{
	String: true, Bytes: true, Bool: true,
	I8: true, I16: true, I32: true, I64: true,
	U8: true, U16: true, U32: true, U64: true,
	F32: true, F64: true, DateTime: true,
}

// IsPrimitive reports whether name is a known primitive
func IsPrimitive(name string) bool {
	return primitiveNames[PrimitiveName(name)]
}

// Primitive is a scalar type
type Primitive struct {
	Name PrimitiveName
}

// Enum is a named set of 32-bit integer values
type Enum struct {
	Name   string
	Values []EnumValue
}

// EnumValue is one member of an Enum
type EnumValue struct {
	Name  string
	Value int32
}

// Alias is a named type that shares the representation of Target
type Alias struct {
	Name   string
	Target Type
}

// Object is a named record
type Object struct {
	Name   string
	Fields []Field
}

// Field is a member of an Object
type Field struct {
	Name string
	Type Type
}

// Stream is a lazy, ordered sequence of Element values
type Stream struct {
	Element Type
}

// Void is the absence of a value
type Void struct{}

func (Primitive) isType() {}
func (Enum) isType()      {}
func (Alias) isType()     {}
func (Object) isType()    {}
func (Stream) isType()    {}
func (Void) isType()      {}

func (p Primitive) String() string { return string(p.Name) }
func (e Enum) String() string      { return e.Name }
func (a Alias) String() string     { return a.Name }
func (o Object) String() string    { return o.Name }
func (s Stream) String() string    { return "stream<" + typeString(s.Element) + ">" }
func (Void) String() string        { return "void" }

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// Describe renders a type including the target of aliases, which String
// hides.
func Describe(t Type) string {
	switch v := t.(type) {
	case Alias:
		return v.Name + " = " + Describe(v.Target)
	case Stream:
		return "stream<" + Describe(v.Element) + ">"
	case Object:
		names := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			names[i] = f.Name + ": " + typeString(f.Type)
		}
		return v.Name + " {" + strings.Join(names, ", ") + "}"
	default:
		return typeString(t)
	}
}
