package adapters

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinAdapter hosts a gateway on Gin
type GinAdapter struct {
	engine *gin.Engine
	server *http.Server
}

var _ Server = (*GinAdapter)(nil)

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter creates a new Gin adapter with recovery enabled
func NewDefaultGinAdapter() *GinAdapter {
	engine := gin.New()
	engine.Use(gin.Recovery())
	return &GinAdapter{engine: engine}
}

// Mount registers handler below prefix
func (ga *GinAdapter) Mount(prefix string, handler http.Handler) {
	ga.engine.POST(prefix+"/*path", gin.WrapH(strip(prefix, handler)))
}

// Start starts the server
func (ga *GinAdapter) Start(addr string) error {
	ga.server = &http.Server{
		Addr:    addr,
		Handler: ga.engine,
	}
	return ga.server.ListenAndServe()
}

// Stop stops the server
func (ga *GinAdapter) Stop(ctx context.Context) error {
	if ga.server == nil {
		return nil
	}
	return ga.server.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// Engine returns the underlying Gin engine
func (ga *GinAdapter) Engine() *gin.Engine {
	return ga.engine
}
