package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/rsbind/internal/errors"
)

func TestTypeStrings(t *testing.T) {
	user := Object{Name: "User", Fields: []Field{{Name: "id", Type: Primitive{Name: String}}}}
	userID := Alias{Name: "UserID", Target: Primitive{Name: String}}

	assert.Equal(t, "string", Primitive{Name: String}.String())
	assert.Equal(t, "stream<User>", Stream{Element: user}.String())
	assert.Equal(t, "void", Void{}.String())
	assert.Equal(t, "UserID", userID.String())
	assert.Equal(t, "UserID = string", Describe(userID))
	assert.Equal(t, "stream<User {id: string}>", Describe(Stream{Element: user}))
}

func TestIsPrimitive(t *testing.T) {
	assert.True(t, IsPrimitive("i32"))
	assert.True(t, IsPrimitive("datetime"))
	assert.False(t, IsPrimitive("int"))
	assert.False(t, IsPrimitive("User"))
}

func TestOperation_IsUnary(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		want bool
	}{
		{"no params", NewOperation("ping").Build(), false},
		{"one param", NewOperation("get").WithParam("id", Primitive{Name: String}).Build(), true},
		{"two params", NewOperation("add").WithParam("a", Primitive{Name: I32}).WithParam("b", Primitive{Name: I32}).Build(), false},
		{"stream only", NewOperation("chat").WithParam("in", Stream{Element: Primitive{Name: String}}).Build(), false},
		{"value and stream", NewOperation("upload").
			WithParam("name", Primitive{Name: String}).
			WithParam("chunks", Stream{Element: Primitive{Name: Bytes}}).Build(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.IsUnary())
		})
	}
}

func TestOperation_Annotations(t *testing.T) {
	op := NewOperation("fetch").WithAnnotation(AnnotationProvider).Build()
	assert.True(t, op.IsProvider())
	assert.False(t, op.Skipped())
	assert.Equal(t, Type(Void{}), op.ReturnType())

	iface := Interface{Name: "Store", Annotations: []Annotation{{Name: AnnotationNoCode}}}
	assert.True(t, iface.Skipped())
	assert.False(t, iface.IsProvider())
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPackage, cfg.Package)
	assert.Equal(t, DefaultRuntime, cfg.Runtime)
	assert.Empty(t, cfg.Aliases)
	assert.Equal(t, "github.com/toyz/rsbind/pkg/invoke", cfg.RuntimePackage("invoke"))
}

func TestParseConfig_Aliases(t *testing.T) {
	cfg, err := ParseConfig(map[string]any{
		"package": "users",
		"aliases": map[string]any{
			"UUID": map[string]any{
				"import": "github.com/google/uuid",
				"type":   "uuid.UUID",
				"parse":  "uuid.Parse",
				"format": "String",
			},
			"Email": map[string]any{"type": "string"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "users", cfg.Package)
	assert.Equal(t, []string{"Email", "UUID"}, cfg.AliasNames())
	assert.Equal(t, AliasImport{
		Import: "github.com/google/uuid",
		Type:   "uuid.UUID",
		Parse:  "uuid.Parse",
		Format: "String",
	}, cfg.Aliases["UUID"])
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		options map[string]any
	}{
		{"package not string", map[string]any{"package": 3}},
		{"empty package", map[string]any{"package": ""}},
		{"bad runtime", map[string]any{"runtime": "not a path!"}},
		{"aliases not map", map[string]any{"aliases": []string{"x"}}},
		{"alias without type", map[string]any{"aliases": map[string]any{"X": map[string]any{"import": "example.com/x"}}}},
		{"alias bad import", map[string]any{"aliases": map[string]any{"X": map[string]any{"type": "x.X", "import": "bad path"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(tt.options)
			require.Error(t, err)
			var rsErr errors.RsbindError
			require.ErrorAs(t, err, &rsErr)
			assert.Equal(t, errors.ValidationErrorCode, rsErr.ErrorCode())
		})
	}
}

func TestNamespaceBuilder(t *testing.T) {
	ns := NewNamespace("greeting").
		WithInterface("Greeter", NewOperation("sayHello").WithParam("name", Primitive{Name: String}).Returning(Primitive{Name: String}).Build()).
		WithProvider("Clock", NewOperation("now").Returning(Primitive{Name: DateTime}).Build()).
		WithOperations(NewOperation("ping").Build()).
		WithOption(OptionPackage, "greeting").
		Build()

	require.Len(t, ns.Interfaces, 2)
	assert.False(t, ns.Interfaces[0].IsProvider())
	assert.True(t, ns.Interfaces[1].IsProvider())
	assert.Len(t, ns.Operations, 1)
	assert.Equal(t, "greeting", ns.Options[OptionPackage])
}
