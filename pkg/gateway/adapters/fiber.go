package adapters

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// FiberAdapter hosts a gateway on Fiber. Request bodies are buffered by
// fasthttp, so request channels only start once the whole inbound stream
// has arrived.
type FiberAdapter struct {
	app *fiber.App
}

var _ Server = (*FiberAdapter)(nil)

// NewFiberAdapter creates a new Fiber adapter around app
func NewFiberAdapter(app *fiber.App) *FiberAdapter {
	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates a new Fiber adapter with default middleware
func NewDefaultFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	return &FiberAdapter{app: app}
}

// Mount registers handler below prefix
func (fa *FiberAdapter) Mount(prefix string, handler http.Handler) {
	fa.app.Post(prefix+"/*", adaptor.HTTPHandler(strip(prefix, handler)))
}

// Start starts the server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop stops the server
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// App returns the underlying Fiber app
func (fa *FiberAdapter) App() *fiber.App {
	return fa.app
}
