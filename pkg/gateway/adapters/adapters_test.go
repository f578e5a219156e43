package adapters

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/rsbind/pkg/gateway"
	"github.com/toyz/rsbind/pkg/invoke"
	"github.com/toyz/rsbind/pkg/payload"
	"github.com/toyz/rsbind/pkg/rx/mono"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGateway(t *testing.T) *gateway.Gateway {
	t.Helper()
	registry := invoke.NewRegistry()
	require.NoError(t, registry.RegisterRequestResponse(
		invoke.Target{Namespace: "demo", Interface: "Greeter", Operation: "greet"},
		func(ctx context.Context, p payload.Payload) mono.Mono[payload.Payload] {
			return mono.Just(payload.New(append([]byte("hello "), p.Data()...)))
		}))
	return gateway.New(registry)
}

func assertGreeting(t *testing.T, body []byte) {
	t.Helper()
	r := bytes.NewReader(body)
	f, err := gateway.ReadFrame(r)
	require.NoError(t, err)
	assert.Equal(t, gateway.FrameNext, f.Type)
	assert.Equal(t, "hello bob", string(f.Data))

	f, err = gateway.ReadFrame(r)
	require.NoError(t, err)
	assert.Equal(t, gateway.FrameComplete, f.Type)
}

func TestEchoAdapter_Mount(t *testing.T) {
	adapter := NewDefaultEchoAdapter()
	assert.Equal(t, "Echo", adapter.Name())
	adapter.Mount("/rpc", newGateway(t))

	req := httptest.NewRequest(http.MethodPost, "/rpc/demo/Greeter/greet", bytes.NewReader([]byte("bob")))
	rec := httptest.NewRecorder()
	adapter.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assertGreeting(t, rec.Body.Bytes())
}

func TestGinAdapter_Mount(t *testing.T) {
	adapter := NewDefaultGinAdapter()
	assert.Equal(t, "Gin", adapter.Name())
	adapter.Mount("/rpc", newGateway(t))

	req := httptest.NewRequest(http.MethodPost, "/rpc/demo/Greeter/greet", bytes.NewReader([]byte("bob")))
	rec := httptest.NewRecorder()
	adapter.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assertGreeting(t, rec.Body.Bytes())
}

func TestFiberAdapter_Mount(t *testing.T) {
	adapter := NewDefaultFiberAdapter()
	assert.Equal(t, "Fiber", adapter.Name())
	adapter.Mount("/rpc", newGateway(t))

	req, err := http.NewRequest(http.MethodPost, "/rpc/demo/Greeter/greet", bytes.NewReader([]byte("bob")))
	require.NoError(t, err)
	resp, err := adapter.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assertGreeting(t, body)
}

func TestAdapters_CustomEngines(t *testing.T) {
	e := echo.New()
	assert.Same(t, e, NewEchoAdapter(e).Engine())

	g := gin.New()
	assert.Same(t, g, NewGinAdapter(g).Engine())

	app := fiber.New()
	assert.Same(t, app, NewFiberAdapter(app).App())
}

func TestAdapters_UnknownOperation(t *testing.T) {
	adapter := NewEchoAdapter(echo.New())
	adapter.Mount("", newGateway(t))

	rec := httptest.NewRecorder()
	adapter.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/demo/Greeter/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
