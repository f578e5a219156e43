package templates

import (
	"fmt"
	"strings"

	"github.com/toyz/rsbind/internal/models"
)

// Stream patterns accepted by ExpandOptions. The element type replaces %s.
const (
	// StreamHandle renders a stream as the runtime's stream handle
	StreamHandle = "flux.Flux[%s]"
	// StreamElement renders a stream as its element type
	StreamElement = "%s"
)

// ExpandOptions controls how ExpandType renders types. It is passed to
// every call rather than kept in package state, so one namespace's choice
// never leaks into another.
type ExpandOptions struct {
	// StreamPattern is a format string with one %s for the element type
	StreamPattern string
	// Aliases remaps alias names to existing Go types
	Aliases map[string]models.AliasImport
}

// NewExpandOptions returns options rendering streams as handles with the
// aliases of cfg
func NewExpandOptions(cfg models.Config) ExpandOptions {
	return ExpandOptions{StreamPattern: StreamHandle, Aliases: cfg.Aliases}
}

// WithStreamPattern returns a copy of o using pattern for streams
func (o ExpandOptions) WithStreamPattern(pattern string) ExpandOptions {
	o.StreamPattern = pattern
	return o
}

var primitiveTypes = map[models.PrimitiveName]string{
	models.String:   "string",
	models.Bytes:    "[]byte",
	models.Bool:     "bool",
	models.I8:       "int8",
	models.I16:      "int16",
	models.I32:      "int32",
	models.I64:      "int64",
	models.U8:       "uint8",
	models.U16:      "uint16",
	models.U32:      "uint32",
	models.U64:      "uint64",
	models.F32:      "float32",
	models.F64:      "float64",
	models.DateTime: "time.Time",
}

// ExpandType renders t as a Go type expression
func ExpandType(t models.Type, opts ExpandOptions) string {
	switch v := t.(type) {
	case models.Primitive:
		if goType, ok := primitiveTypes[v.Name]; ok {
			return goType
		}
		panic(fmt.Sprintf("templates: unknown primitive %q", v.Name))
	case models.Enum:
		return ExportName(v.Name)
	case models.Object:
		return ExportName(v.Name)
	case models.Alias:
		if remap, ok := opts.Aliases[v.Name]; ok {
			return remap.Type
		}
		return ExportName(v.Name)
	case models.Stream:
		pattern := opts.StreamPattern
		if !strings.Contains(pattern, "%s") {
			pattern = StreamHandle
		}
		return fmt.Sprintf(pattern, ExpandType(v.Element, opts))
	case models.Void:
		return "struct{}"
	default:
		panic(fmt.Sprintf("templates: cannot expand %T", t))
	}
}

// ReturnType renders the handle a handler or proxy returns for t: streams
// as stream handles, everything else as a single-value handle
func ReturnType(t models.Type, opts ExpandOptions) string {
	if s, ok := t.(models.Stream); ok {
		return "flux.Flux[" + ExpandType(s.Element, opts) + "]"
	}
	return "mono.Mono[" + ExpandType(t, opts) + "]"
}

// errorReturn renders an error value of the handle type returned by
// ReturnType
func errorReturn(handle string) string {
	pkg, elem, _ := strings.Cut(handle, ".")
	_, elem, _ = strings.Cut(elem, "[")
	return pkg + ".Error[" + elem + "(err)"
}
