package templates

import (
	"github.com/toyz/rsbind/internal/analysis"
	"github.com/toyz/rsbind/internal/models"
)

// Strategy names the codec functions moving one value between its Go type
// and a payload. Decode has the shape func(payload.Payload) (T, error) and
// Encode func(T) (payload.Payload, error). For streams they apply to each
// element.
type Strategy struct {
	Kind   analysis.Kind
	GoType string // Go type of one value, the element type for streams
	Decode string
	Encode string
}

var primitiveTransforms = map[models.PrimitiveName]string{
	models.String:   "String",
	models.Bytes:    "Bytes",
	models.Bool:     "Bool",
	models.I8:       "Int8",
	models.I16:      "Int16",
	models.I32:      "Int32",
	models.I64:      "Int64",
	models.U8:       "Uint8",
	models.U16:      "Uint16",
	models.U32:      "Uint32",
	models.U64:      "Uint64",
	models.F32:      "Float32",
	models.F64:      "Float64",
	models.DateTime: "DateTime",
}

// SelectStrategy returns the single strategy of t's kind. The same type
// always yields the same strategy, whatever position it appears in.
func SelectStrategy(t models.Type, opts ExpandOptions) Strategy {
	kind := analysis.Classify(t)
	switch v := t.(type) {
	case models.Primitive:
		name := "transform." + primitiveTransforms[v.Name]
		return Strategy{Kind: kind, GoType: ExpandType(v, opts), Decode: name + ".Decode", Encode: name + ".Encode"}
	case models.Enum:
		goType := ExpandType(v, opts)
		return Strategy{Kind: kind, GoType: goType, Decode: "transform.EnumDecode[" + goType + "]", Encode: "transform.EnumEncode[" + goType + "]"}
	case models.Alias:
		name := ExportName(v.Name)
		return Strategy{Kind: kind, GoType: ExpandType(v, opts), Decode: "decode" + name, Encode: "encode" + name}
	case models.Object:
		goType := ExpandType(v, opts)
		return Strategy{Kind: kind, GoType: goType, Decode: "transform.CodecDecode[" + goType + "]", Encode: "transform.CodecEncode[" + goType + "]"}
	case models.Stream:
		element := SelectStrategy(v.Element, opts)
		element.Kind = kind
		element.GoType = ExpandType(v, opts.WithStreamPattern(StreamElement))
		return element
	default:
		return Strategy{Kind: kind, GoType: "struct{}", Decode: "transform.Void.Decode", Encode: "transform.Void.Encode"}
	}
}

// DecodeStream renders the element-wise decode of the stream expression src
func (s Strategy) DecodeStream(src string) string {
	return "flux.Map(" + src + ", " + s.Decode + ")"
}

// EncodeStream renders the element-wise encode of the stream expression src
func (s Strategy) EncodeStream(src string) string {
	return "flux.Map(" + src + ", " + s.Encode + ")"
}
