package adapters

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// EchoAdapter hosts a gateway on Echo v4
type EchoAdapter struct {
	engine *echo.Echo
}

var _ Server = (*EchoAdapter)(nil)

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates a new Echo adapter with default Echo instance
func NewDefaultEchoAdapter() *EchoAdapter {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &EchoAdapter{engine: e}
}

// Mount registers handler below prefix
func (ea *EchoAdapter) Mount(prefix string, handler http.Handler) {
	ea.engine.POST(prefix+"/*", echo.WrapHandler(strip(prefix, handler)))
}

// Start starts the server
func (ea *EchoAdapter) Start(addr string) error {
	return ea.engine.Start(addr)
}

// Stop stops the server
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// Engine returns the underlying Echo instance
func (ea *EchoAdapter) Engine() *echo.Echo {
	return ea.engine
}
