// Package adapters mounts a gateway into the supported web frameworks.
package adapters

import (
	"context"
	"net/http"
)

// Server is a web framework that can host a gateway.
type Server interface {
	// Mount serves handler for every POST request below prefix
	Mount(prefix string, handler http.Handler)

	// Start starts the server
	Start(addr string) error

	// Stop stops the server
	Stop(ctx context.Context) error

	// Name returns the adapter name
	Name() string
}

func strip(prefix string, handler http.Handler) http.Handler {
	if prefix == "" {
		return handler
	}
	return http.StripPrefix(prefix, handler)
}
