// Package analysis derives everything the emitters need to know about an
// operation: the kind of each type, the interaction model, how parameters
// are decoded and which runtime packages a namespace depends on. Both the
// export and the import emitters consume the same Binding, so the two sides
// of a call always agree.
package analysis

import (
	"fmt"

	"github.com/toyz/rsbind/internal/models"
)

// Kind classifies a type for codec selection
type Kind int

const (
	KindPrimitive Kind = iota
	KindEnum
	KindAlias
	KindObject
	KindStream
	KindVoid
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindEnum:
		return "Enum"
	case KindAlias:
		return "Alias"
	case KindObject:
		return "Object"
	case KindStream:
		return "Stream"
	case KindVoid:
		return "Void"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Classify returns the kind of t. Types outside the closed set are a
// programming error and panic.
func Classify(t models.Type) Kind {
	switch t.(type) {
	case models.Primitive:
		return KindPrimitive
	case models.Enum:
		return KindEnum
	case models.Alias:
		return KindAlias
	case models.Object:
		return KindObject
	case models.Stream:
		return KindStream
	case models.Void:
		return KindVoid
	default:
		panic(fmt.Sprintf("analysis: unclassifiable type %T", t))
	}
}

// UnwrapStream returns the element type of a stream and t itself otherwise
func UnwrapStream(t models.Type) models.Type {
	if s, ok := t.(models.Stream); ok {
		return s.Element
	}
	return t
}

// IsStream reports whether t classifies as Stream
func IsStream(t models.Type) bool {
	return Classify(t) == KindStream
}

// resolveAlias follows alias targets until a non-alias type is reached
func resolveAlias(t models.Type) models.Type {
	for {
		a, ok := t.(models.Alias)
		if !ok {
			return t
		}
		t = a.Target
	}
}
