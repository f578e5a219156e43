package roundtrip

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/rsbind/internal/generator/testdata/roundtrip/client"
	"github.com/toyz/rsbind/internal/generator/testdata/roundtrip/server"
	"github.com/toyz/rsbind/pkg/invoke"
	"github.com/toyz/rsbind/pkg/payload"
	"github.com/toyz/rsbind/pkg/rx/flux"
	"github.com/toyz/rsbind/pkg/rx/mono"
	"github.com/toyz/rsbind/pkg/transform"
)

var (
	epoch  = time.Unix(1700000000, 0)
	pinged atomic.Int32
)

type users struct{}

func (users) GetUser(ctx context.Context, id string) mono.Mono[server.User] {
	if id == "" {
		return mono.Error[server.User](errors.New("empty id"))
	}
	return mono.Just(server.User{
		ID:   uuid.NewSHA1(uuid.NameSpaceURL, []byte(id)),
		Name: strings.ToUpper(id),
	})
}

func (users) Normalize(ctx context.Context, id uuid.UUID) mono.Mono[uuid.UUID] {
	return mono.Just(id)
}

type events struct{}

func (events) Subscribe(ctx context.Context, topic string) flux.Flux[server.Event] {
	return flux.Just(
		server.Event{At: epoch, Level: server.LevelInfo, Topic: topic},
		server.Event{At: epoch.Add(time.Minute), Level: server.LevelWarn, Topic: topic},
	)
}

func (events) Chat(ctx context.Context, in flux.Flux[server.Message]) flux.Flux[server.Message] {
	return flux.Map(in, func(m server.Message) (server.Message, error) {
		return server.Message{From: "echo", Body: m.From + ": " + m.Body}, nil
	})
}

func (events) Broadcast(ctx context.Context, room string, in flux.Flux[server.Message]) flux.Flux[server.Message] {
	return flux.Map(in, func(m server.Message) (server.Message, error) {
		m.Body = room + "/" + m.Body
		return m, nil
	})
}

func (events) Sum(ctx context.Context, in flux.Flux[int32]) mono.Mono[int32] {
	return mono.Create(func(ctx context.Context) (int32, error) {
		var total int32
		err := in.Subscribe(ctx, func(v int32) error {
			total += v
			return nil
		})
		return total, err
	})
}

func TestMain(m *testing.M) {
	register := []func() error{
		func() error { return server.RegisterUsers(users{}) },
		func() error { return server.RegisterEvents(events{}) },
		func() error {
			return server.RegisterPing(func(ctx context.Context, a, b int32) mono.Mono[struct{}] {
				pinged.Store(a + b)
				return mono.Done()
			})
		},
		func() error {
			return server.RegisterEchoTime(func(ctx context.Context, at time.Time) mono.Mono[time.Time] {
				return mono.Just(at.Add(time.Hour))
			})
		},
	}
	for _, fn := range register {
		if err := fn(); err != nil {
			panic(err)
		}
	}
	os.Exit(m.Run())
}

func target(iface, op string) invoke.Target {
	return invoke.Target{Namespace: "scenarios", Interface: iface, Operation: op}
}

func TestRequestResponse(t *testing.T) {
	ctx := context.Background()
	proxy := client.NewUsers(invoke.DefaultRegistry)

	u, err := proxy.GetUser(ctx, "ada").Block(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ADA", u.Name)
	assert.Equal(t, uuid.NewSHA1(uuid.NameSpaceURL, []byte("ada")), u.ID)

	_, err = proxy.GetUser(ctx, "").Block(ctx)
	assert.EqualError(t, err, "empty id")

	id := uuid.New()
	got, err := proxy.Normalize(ctx, id).Block(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestRequestStream(t *testing.T) {
	ctx := context.Background()
	got, err := flux.Collect(ctx, client.NewEvents(invoke.DefaultRegistry).Subscribe(ctx, "deploys"))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, client.LevelInfo, got[0].Level)
	assert.Equal(t, client.LevelWarn, got[1].Level)
	assert.Equal(t, "deploys", got[1].Topic)
	assert.WithinDuration(t, epoch, got[0].At, 0)
	assert.WithinDuration(t, epoch.Add(time.Minute), got[1].At, 0)
}

func TestRequestChannel(t *testing.T) {
	ctx := context.Background()
	proxy := client.NewEvents(invoke.DefaultRegistry)
	in := flux.Just(
		client.Message{From: "ada", Body: "hi"},
		client.Message{From: "bob", Body: "hello"},
	)

	got, err := flux.Collect(ctx, proxy.Chat(ctx, in))
	require.NoError(t, err)
	assert.Equal(t, []client.Message{
		{From: "echo", Body: "ada: hi"},
		{From: "echo", Body: "bob: hello"},
	}, got)

	got, err = flux.Collect(ctx, proxy.Broadcast(ctx, "ops", in))
	require.NoError(t, err)
	assert.Equal(t, []client.Message{
		{From: "ada", Body: "ops/hi"},
		{From: "bob", Body: "ops/hello"},
	}, got)

	total, err := proxy.Sum(ctx, flux.Just[int32](1, 2, 3, 4)).Block(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(10), total)
}

func TestFunctions(t *testing.T) {
	ctx := context.Background()
	functions := client.NewFunctions(invoke.DefaultRegistry)

	_, err := functions.Ping(ctx, 40, 2).Block(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(42), pinged.Load())

	at := time.Date(2024, 5, 1, 12, 0, 0, 7, time.UTC)
	got, err := functions.EchoTime(ctx, at).Block(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, at.Add(time.Hour), got, 0)
}

func TestEncodeErrors(t *testing.T) {
	ctx := context.Background()
	functions := client.NewFunctions(invoke.DefaultRegistry)

	// refused by the proxy before any call is made
	_, err := functions.EchoTime(ctx, time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC)).Block(ctx)
	var encodeErr *transform.EncodeError
	require.ErrorAs(t, err, &encodeErr)
	assert.ErrorIs(t, err, transform.ErrOutOfRange)

	// refused by the handler wrapper on the way back
	_, err = functions.EchoTime(ctx, transform.MaxDateTime).Block(ctx)
	require.ErrorAs(t, err, &encodeErr)
	assert.ErrorIs(t, err, transform.ErrOutOfRange)
}

func TestMalformedPayloads(t *testing.T) {
	ctx := context.Background()
	registry := invoke.DefaultRegistry
	invalidUTF8 := payload.New([]byte{0xff, 0xfe})

	_, err := registry.RequestResponse(ctx, target("Users", "getUser"), invalidUTF8).Block(ctx)
	assert.True(t, transform.IsDecodeError(err), "got %v", err)

	_, err = registry.RequestResponse(ctx, target("", "ping"), payload.New([]byte{0xff})).Block(ctx)
	assert.True(t, transform.IsDecodeError(err), "got %v", err)

	_, err = registry.RequestResponse(ctx, target("Users", "normalize"), payload.New([]byte("not-a-uuid"))).Block(ctx)
	assert.Error(t, err)

	_, err = flux.Collect(ctx, registry.RequestStream(ctx, target("Events", "subscribe"), invalidUTF8))
	assert.True(t, transform.IsDecodeError(err), "got %v", err)

	bad := flux.Just(payload.New([]byte{0xff}))
	_, err = flux.Collect(ctx, registry.RequestChannel(ctx, target("Events", "chat"), payload.Empty(), bad))
	assert.True(t, transform.IsDecodeError(err), "got %v", err)

	_, err = flux.Collect(ctx, registry.RequestChannel(ctx, target("Events", "sum"), payload.Empty(), flux.Just(payload.New([]byte{1}))))
	assert.True(t, transform.IsDecodeError(err), "got %v", err)
}
