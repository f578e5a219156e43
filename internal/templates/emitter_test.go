package templates

import (
	"go/format"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/rsbind/internal/analysis"
	"github.com/toyz/rsbind/internal/models"
)

var (
	str     = models.Primitive{Name: models.String}
	i32     = models.Primitive{Name: models.I32}
	when    = models.Primitive{Name: models.DateTime}
	user    = models.Object{Name: "User", Fields: []models.Field{{Name: "id", Type: str}, {Name: "name", Type: str}}}
	event   = models.Object{Name: "Event", Fields: []models.Field{{Name: "topic", Type: str}, {Name: "at", Type: when}}}
	message = models.Object{Name: "Message", Fields: []models.Field{{Name: "body", Type: str}}}
)

func stream(t models.Type) models.Type { return models.Stream{Element: t} }

func testConfig() models.Config {
	return models.Config{Package: "demo", Runtime: models.DefaultRuntime, Aliases: map[string]models.AliasImport{}}
}

var spaces = regexp.MustCompile(`\s+`)

// squash collapses whitespace so snippets match regardless of alignment
func squash(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// render formats generated source, failing the test on invalid syntax
func render(t *testing.T, src []byte) string {
	t.Helper()
	require.NotNil(t, src)
	formatted, err := format.Source(src)
	require.NoError(t, err, string(src))
	return string(formatted)
}

func assertContains(t *testing.T, source string, snippets ...string) {
	t.Helper()
	flat := squash(source)
	for _, s := range snippets {
		assert.Contains(t, flat, squash(s), "missing snippet in:\n%s", source)
	}
}

func emit(t *testing.T, ns *models.Namespace, cfg models.Config) (export, imports, types string) {
	t.Helper()
	bindings, err := analysis.AnalyzeNamespace(ns)
	require.NoError(t, err)

	e := NewEmitter(ns, cfg)
	if out, err := e.Export(bindings); assert.NoError(t, err) && out != nil {
		export = render(t, out)
	}
	if out, err := e.Import(bindings); assert.NoError(t, err) && out != nil {
		imports = render(t, out)
	}
	if out, err := e.Types(bindings); assert.NoError(t, err) && out != nil {
		types = render(t, out)
	}
	return export, imports, types
}

func TestExport_RequestResponse(t *testing.T) {
	ns := models.NewNamespace("users").
		WithOperations(models.NewOperation("getUser").WithParam("id", str).Returning(user).Build()).
		Build()

	export, imports, _ := emit(t, ns, testConfig())
	assert.Empty(t, imports)

	assertContains(t, export,
		"// Code generated by rsbind. DO NOT EDIT.",
		"package demo",
		"type GetUserFn func(ctx context.Context, id string) mono.Mono[User]",
		`func RegisterGetUser(handler GetUserFn) error {
			return invoke.RegisterRequestResponse(invoke.Target{Namespace: "users", Operation: "getUser"}, getUserWrapper(handler))
		}`,
		`request, err := transform.String.Decode(p)
		if err != nil {
			return mono.Error[payload.Payload](err)
		}
		response := handler(ctx, request)
		return mono.Map(response, transform.CodecEncode[User])`,
	)
	assert.NotContains(t, export, "rx/flux")
}

func TestExport_RequestStream(t *testing.T) {
	ns := models.NewNamespace("events").
		WithOperations(models.NewOperation("subscribe").WithParam("topic", str).Returning(stream(event)).Build()).
		Build()

	export, _, _ := emit(t, ns, testConfig())
	assertContains(t, export,
		"type SubscribeFn func(ctx context.Context, topic string) flux.Flux[Event]",
		"invoke.RegisterRequestStream(",
		"func subscribeWrapper(handler SubscribeFn) invoke.RequestStreamHandler {",
		"return flux.Defer(func() flux.Flux[payload.Payload] {",
		"return flux.Error[payload.Payload](err)",
		"return flux.Map(response, transform.CodecEncode[Event])",
	)
	assert.NotContains(t, export, "rx/mono")
}

func TestExport_RequestChannel(t *testing.T) {
	ns := models.NewNamespace("chat").
		WithOperations(models.NewOperation("chat").WithParam("in", stream(message)).Returning(stream(message)).Build()).
		Build()

	export, _, _ := emit(t, ns, testConfig())
	assertContains(t, export,
		"type ChatFn func(ctx context.Context, inArg flux.Flux[Message]) flux.Flux[Message]",
		"invoke.RegisterRequestChannel(",
		"return func(ctx context.Context, p payload.Payload, in flux.Flux[payload.Payload]) flux.Flux[payload.Payload] {",
		"response := handler(ctx, flux.Map(in, transform.CodecDecode[Message]))",
		"return flux.Map(response, transform.CodecEncode[Message])",
	)
}

func TestExport_AggregateVoid(t *testing.T) {
	ns := models.NewNamespace("net").
		WithOperations(models.NewOperation("ping").WithParam("a", i32).WithParam("b", i32).Build()).
		Build()

	export, _, _ := emit(t, ns, testConfig())
	assertContains(t, export,
		"type PingFn func(ctx context.Context, a int32, b int32) mono.Mono[struct{}]",
		"type PingArgs struct {",
		"A int32 `cbor:\"a\" json:\"a\"`",
		"B int32 `cbor:\"b\" json:\"b\"`",
		"args, err := transform.CodecDecode[PingArgs](p)",
		"response := handler(ctx, args.A, args.B)",
		"return mono.Map(response, transform.Void.Encode)",
	)
}

func TestExport_ChannelLiftsSingleResult(t *testing.T) {
	ns := models.NewNamespace("files").
		WithOperations(models.NewOperation("upload").
			WithParam("name", str).
			WithParam("chunks", stream(models.Primitive{Name: models.Bytes})).
			Returning(i32).
			Build()).
		Build()

	export, _, _ := emit(t, ns, testConfig())
	assertContains(t, export,
		"type UploadFn func(ctx context.Context, name string, chunks flux.Flux[[]byte]) mono.Mono[int32]",
		"request, err := transform.String.Decode(p)",
		"response := handler(ctx, request, flux.Map(in, transform.Bytes.Decode))",
		"return flux.FromMono(mono.Map(response, transform.Int32.Encode))",
	)
}

func TestExport_BoundInterface(t *testing.T) {
	ns := models.NewNamespace("users").
		WithInterface("Users",
			models.NewOperation("getUser").WithParam("id", str).Returning(user).WithDescription("GetUser looks a user up.").Build(),
			models.NewOperation("list").Returning(stream(user)).Build(),
		).
		Build()

	export, _, _ := emit(t, ns, testConfig())
	assertContains(t, export,
		`type Users interface {
			// GetUser looks a user up.
			GetUser(ctx context.Context, id string) mono.Mono[User]
			List(ctx context.Context) flux.Flux[User]
		}`,
		`func RegisterUsers(svc Users) error {
			if err := RegisterUsersGetUser(svc); err != nil {
				return err
			}
			if err := RegisterUsersList(svc); err != nil {
				return err
			}
			return nil
		}`,
		`func RegisterUsersGetUser(svc Users) error {
			return invoke.RegisterRequestResponse(invoke.Target{Namespace: "users", Interface: "Users", Operation: "getUser"}, usersGetUserWrapper(svc.GetUser))
		}`,
		"func usersListWrapper(handler UsersListFn) invoke.RequestStreamHandler {",
	)
}

func TestImport_Proxies(t *testing.T) {
	ns := models.NewNamespace("users").
		WithProvider("Store",
			models.NewOperation("getUser").WithParam("id", str).Returning(user).Build(),
			models.NewOperation("watch").WithParam("since", when).Returning(stream(event)).Build(),
			models.NewOperation("put").WithParam("id", str).WithParam("user", user).Build(),
			models.NewOperation("sync").WithParam("in", stream(message)).Returning(i32).Build(),
		).
		Build()

	export, imports, _ := emit(t, ns, testConfig())
	assert.Empty(t, export)

	assertContains(t, imports,
		`"time"`,
		`type StoreImpl struct {
			caller invoke.Caller
		}`,
		"var _ Store = (*StoreImpl)(nil)",
		`func NewStore(caller invoke.Caller) *StoreImpl {
			return &StoreImpl{caller: caller}
		}`,
		`func (impl *StoreImpl) GetUser(ctx context.Context, id string) mono.Mono[User] {
			request, err := transform.String.Encode(id)
			if err != nil {
				return mono.Error[User](err)
			}
			response := impl.caller.RequestResponse(ctx, invoke.Target{Namespace: "users", Interface: "Store", Operation: "getUser"}, request)
			return mono.Map(response, transform.CodecDecode[User])
		}`,
		`return flux.Error[Event](err)`,
		`return flux.Map(response, transform.CodecDecode[Event])`,
		`request, err := transform.CodecEncode(StorePutArgs{
			ID: id,
			User: user,
		})`,
		`return mono.Map(response, transform.Void.Decode)`,
		`request := payload.Empty()
		response := impl.caller.RequestChannel(ctx, invoke.Target{Namespace: "users", Interface: "Store", Operation: "sync"}, request, flux.Map(inArg, transform.CodecEncode[Message]))
		return mono.Map(mono.FromFlux(response), transform.Int32.Decode)`,
	)
}

func TestImport_TopLevelFunctions(t *testing.T) {
	ns := models.NewNamespace("clock").
		WithOperations(models.NewOperation("now").Returning(when).WithAnnotation(models.AnnotationProvider).Build()).
		Build()

	_, imports, _ := emit(t, ns, testConfig())
	assertContains(t, imports,
		"type FunctionsImpl struct {",
		"func NewFunctions(caller invoke.Caller) *FunctionsImpl {",
		"func (impl *FunctionsImpl) Now(ctx context.Context) mono.Mono[time.Time] {",
		`response := impl.caller.RequestResponse(ctx, invoke.Target{Namespace: "clock", Operation: "now"}, request)`,
		"return mono.Map(response, transform.DateTime.Decode)",
	)
	assert.NotContains(t, imports, "var _ Functions")
}

func TestTypes_Declarations(t *testing.T) {
	color := models.Enum{Name: "color", Values: []models.EnumValue{{Name: "red", Value: 0}, {Name: "green", Value: 1}, {Name: "verde", Value: 1}}}
	tree := models.Object{Name: "Tree", Fields: []models.Field{
		{Name: "label", Type: str},
		{Name: "color", Type: color},
		{Name: "children", Type: models.Object{Name: "Tree"}},
	}}
	userID := models.Alias{Name: "UserID", Target: str}
	ns := models.NewNamespace("trees").
		WithTypes(tree).
		WithOperations(models.NewOperation("owner").WithParam("tree", tree).Returning(userID).Build()).
		Build()

	_, _, types := emit(t, ns, testConfig())
	assertContains(t, types,
		`import (
			"fmt"

			"github.com/toyz/rsbind/pkg/payload"
			"github.com/toyz/rsbind/pkg/transform"
		)`,
		"Label string `cbor:\"label\" json:\"label\"`",
		"Color Color `cbor:\"color\" json:\"color\"`",
		"Children *Tree `cbor:\"children\" json:\"children\"`",
		"type Color int32",
		"ColorRed Color = 0",
		"ColorVerde Color = 1",
		`case ColorGreen:
			return "green"
		}
		return fmt.Sprintf("Color(%d)", int32(e))`,
		"type UserID string",
		`func decodeUserID(p payload.Payload) (value UserID, err error) {
			raw, err := transform.String.Decode(p)
			if err != nil {
				return value, err
			}
			return UserID(raw), nil
		}`,
		`func encodeUserID(v UserID) (payload.Payload, error) {
			return transform.String.Encode(string(v))
		}`,
	)
	assert.NotContains(t, types, "case ColorVerde")
}

func TestTypes_AliasRemap(t *testing.T) {
	id := models.Alias{Name: "ID", Target: str}
	ns := models.NewNamespace("users").
		WithOperations(models.NewOperation("lookup").WithParam("id", id).Returning(user).Build()).
		Build()
	cfg := testConfig()
	cfg.Aliases["ID"] = models.AliasImport{Import: "github.com/google/uuid", Type: "uuid.UUID", Parse: "uuid.Parse", Format: "String"}

	export, _, types := emit(t, ns, cfg)
	assertContains(t, export,
		`"github.com/google/uuid"`,
		"type LookupFn func(ctx context.Context, id uuid.UUID) mono.Mono[User]",
		"request, err := decodeID(p)",
	)
	assertContains(t, types,
		`func decodeID(p payload.Payload) (value uuid.UUID, err error) {`,
		"return uuid.Parse(raw)",
		"return transform.String.Encode(v.String())",
	)
	assert.NotContains(t, types, "type ID ")
}

func TestTypes_AliasRemapFormattedTime(t *testing.T) {
	stamp := models.Alias{Name: "Stamp", Target: when}
	ns := models.NewNamespace("log").
		WithOperations(models.NewOperation("mark").WithParam("at", stamp).Returning(stamp).Build()).
		Build()
	cfg := testConfig()
	cfg.Aliases["Stamp"] = models.AliasImport{Import: "example.com/ts", Type: "ts.Time", Parse: "ts.FromTime", Format: "Time"}

	_, _, types := emit(t, ns, cfg)
	assertContains(t, types,
		`"example.com/ts"`,
		"return ts.FromTime(raw)",
		"return transform.DateTime.Encode(v.Time())",
	)
	assert.NotContains(t, types, `"time"`)
}

func TestTypes_RecursiveAliasField(t *testing.T) {
	ref := models.Alias{Name: "NodeRef", Target: models.Object{Name: "Node"}}
	node := models.Object{Name: "Node", Fields: []models.Field{
		{Name: "value", Type: i32},
		{Name: "next", Type: ref},
	}}
	ns := models.NewNamespace("lists").
		WithTypes(node, ref).
		WithOperations(models.NewOperation("length").WithParam("head", node).Returning(i32).Build()).
		Build()

	_, _, types := emit(t, ns, testConfig())
	assertContains(t, types,
		"Next *NodeRef `cbor:\"next\" json:\"next\"`",
		"type NodeRef Node",
	)
}

func TestEmit_ReservedNames(t *testing.T) {
	ns := models.NewNamespace("ns").
		WithProvider("Remote",
			models.NewOperation("call").
				WithParam("ctx", str).
				WithParam("type", str).
				WithParam("payload", i32).
				Build(),
		).
		Build()

	_, imports, _ := emit(t, ns, testConfig())
	assertContains(t, imports,
		"Call(ctx context.Context, ctxArg string, typeArg string, payloadArg int32) mono.Mono[struct{}]",
		"Ctx: ctxArg,",
		"Payload int32 `cbor:\"payload\" json:\"payload\"`",
	)
}

func TestEmit_Idempotent(t *testing.T) {
	ns := models.NewNamespace("chat").
		WithInterface("Room",
			models.NewOperation("chat").WithParam("in", stream(message)).Returning(stream(message)).Build(),
			models.NewOperation("join").WithParam("user", user).WithParam("at", when).Build(),
		).
		WithProvider("Directory",
			models.NewOperation("lookup").WithParam("id", str).Returning(user).Build(),
		).
		Build()

	e1, i1, t1 := emit(t, ns, testConfig())
	e2, i2, t2 := emit(t, ns, testConfig())

	assert.Empty(t, cmp.Diff(e1, e2))
	assert.Empty(t, cmp.Diff(i1, i2))
	assert.Empty(t, cmp.Diff(t1, t2))
}

func TestEmit_NothingToEmit(t *testing.T) {
	ns := models.NewNamespace("empty").Build()
	e := NewEmitter(ns, testConfig())

	out, err := e.Export(nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = e.Import(nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = e.Types(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}
