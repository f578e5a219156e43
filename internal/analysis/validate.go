package analysis

import (
	"fmt"

	"github.com/toyz/rsbind/internal/errors"
	"github.com/toyz/rsbind/internal/models"
)

// ValidateTypes rejects type shapes that have no encoding strategy: streams
// of streams or of void, void parameters, aliases standing for streams or
// void, and objects with stream or void fields.
func ValidateTypes(ref OperationRef, op *models.Operation) error {
	for _, p := range op.Parameters {
		position := "parameter " + p.Name
		switch Classify(p.Type) {
		case KindVoid:
			return unsupported(ref, position, p.Type, "parameters cannot be void")
		case KindStream:
			if err := checkElement(ref, position, p.Type); err != nil {
				return err
			}
		default:
			if err := checkValue(ref, position, p.Type, map[string]bool{}); err != nil {
				return err
			}
		}
	}

	ret := op.ReturnType()
	switch Classify(ret) {
	case KindVoid:
		return nil
	case KindStream:
		return checkElement(ref, "return", ret)
	default:
		return checkValue(ref, "return", ret, map[string]bool{})
	}
}

func checkElement(ref OperationRef, position string, stream models.Type) error {
	element := UnwrapStream(stream)
	switch Classify(resolveAlias(element)) {
	case KindStream:
		return unsupported(ref, position, stream, "streams cannot carry streams")
	case KindVoid:
		return unsupported(ref, position, stream, "streams cannot carry void")
	}
	return checkValue(ref, position, element, map[string]bool{})
}

// checkValue validates a type used as a single value
func checkValue(ref OperationRef, position string, t models.Type, seen map[string]bool) error {
	switch v := t.(type) {
	case models.Alias:
		switch Classify(resolveAlias(v)) {
		case KindStream:
			return unsupported(ref, position, t, "aliases cannot stand for streams")
		case KindVoid:
			return unsupported(ref, position, t, "aliases cannot stand for void")
		}
		return checkValue(ref, position, resolveAlias(v), seen)
	case models.Object:
		if seen[v.Name] {
			return nil
		}
		seen[v.Name] = true
		for _, f := range v.Fields {
			fieldPosition := fmt.Sprintf("%s (field %s.%s)", position, v.Name, f.Name)
			switch Classify(resolveAlias(f.Type)) {
			case KindStream:
				return unsupported(ref, fieldPosition, f.Type, "object fields cannot be streams")
			case KindVoid:
				return unsupported(ref, fieldPosition, f.Type, "object fields cannot be void")
			}
			if err := checkValue(ref, fieldPosition, f.Type, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

func unsupported(ref OperationRef, position string, t models.Type, reason string) error {
	name := ref.Operation
	if ref.Interface != "" {
		name = ref.Interface + "." + ref.Operation
	}
	return errors.NewUnsupportedTypeError(name, position, models.Describe(t), reason).
		WithSuggestion("Wrap the value in an object or change the declared type")
}
