// Package gateway exposes an invoke.Registry over HTTP and calls remote
// registries through the same protocol.
//
// Every operation is served on POST /{namespace}/{operation} or
// POST /{namespace}/{interface}/{operation}. The request body is the raw
// request payload, except for request channels, whose body is a frame
// stream: the first frame carries the request payload and the remaining
// frames the inbound stream. The response body is always a frame stream
// terminated by a complete or error frame.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/toyz/rsbind/pkg/invoke"
	"github.com/toyz/rsbind/pkg/payload"
	"github.com/toyz/rsbind/pkg/rx/flux"
)

const (
	// ContentType is the media type of frame streams.
	ContentType = "application/x-rsbind-frames"

	// RequestIDHeader carries the request id, generated when absent.
	RequestIDHeader = "X-Request-ID"
)

// RemoteError is an error reported by the other side in an error frame.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Gateway serves the handlers of a registry over HTTP.
type Gateway struct {
	registry *invoke.Registry
	logger   *zap.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger used for request logging.
func WithLogger(l *zap.Logger) Option {
	return func(g *Gateway) {
		g.logger = l
	}
}

// New creates a gateway for registry. A nil registry serves
// invoke.DefaultRegistry.
func New(registry *invoke.Registry, opts ...Option) *Gateway {
	if registry == nil {
		registry = invoke.DefaultRegistry
	}
	g := &Gateway{
		registry: registry,
		logger:   invoke.Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ParseTarget converts a request path into an invoke.Target.
func ParseTarget(path string) (invoke.Target, error) {
	trimmed := strings.Trim(path, "/")
	parts := strings.Split(trimmed, "/")
	for i, part := range parts {
		unescaped, err := url.PathUnescape(part)
		if err != nil || unescaped == "" {
			return invoke.Target{}, fmt.Errorf("gateway: invalid path %q", path)
		}
		parts[i] = unescaped
	}

	switch len(parts) {
	case 2:
		return invoke.Target{Namespace: parts[0], Operation: parts[1]}, nil
	case 3:
		return invoke.Target{Namespace: parts[0], Interface: parts[1], Operation: parts[2]}, nil
	default:
		return invoke.Target{}, fmt.Errorf("gateway: invalid path %q", path)
	}
}

// PathFor is the inverse of ParseTarget.
func PathFor(target invoke.Target) string {
	if target.Interface == "" {
		return "/" + url.PathEscape(target.Namespace) + "/" + url.PathEscape(target.Operation)
	}
	return "/" + url.PathEscape(target.Namespace) + "/" + url.PathEscape(target.Interface) + "/" + url.PathEscape(target.Operation)
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	target, err := ParseTarget(r.URL.Path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	info, ok := g.registry.Lookup(target)
	if !ok {
		http.Error(w, fmt.Sprintf("no handler for %s", target), http.StatusNotFound)
		return
	}

	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	logger := g.logger.With(
		zap.String("request_id", requestID),
		zap.Stringer("target", target),
		zap.Stringer("model", info.Model))

	ctx := r.Context()
	var out flux.Flux[payload.Payload]
	switch info.Model {
	case invoke.RequestResponse, invoke.RequestStream:
		body, err := io.ReadAll(io.LimitReader(r.Body, MaxFrameSize+1))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(body) > MaxFrameSize {
			http.Error(w, ErrFrameTooLarge.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		if info.Model == invoke.RequestResponse {
			out = flux.FromMono(g.registry.RequestResponse(ctx, target, payload.New(body)))
		} else {
			out = g.registry.RequestStream(ctx, target, payload.New(body))
		}
	case invoke.RequestChannel:
		_ = http.NewResponseController(w).EnableFullDuplex()
		first, err := ReadFrame(r.Body)
		if err != nil || first.Type != FrameNext {
			http.Error(w, "request channel must start with a next frame", http.StatusBadRequest)
			return
		}
		out = g.registry.RequestChannel(ctx, target, payload.New(first.Data), readFrames(r.Body))
	}

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set(RequestIDHeader, requestID)
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}

	logger.Debug("dispatching request")
	count := 0
	err = out.Subscribe(ctx, func(p payload.Payload) error {
		if err := WriteFrame(w, Frame{Type: FrameNext, Data: p.Data()}); err != nil {
			return err
		}
		count++
		flush()
		return nil
	})
	if err != nil {
		logger.Warn("request failed", zap.Error(err), zap.Int("frames", count))
		_ = WriteFrame(w, Frame{Type: FrameError, Data: []byte(err.Error())})
	} else {
		logger.Debug("request completed", zap.Int("frames", count))
		_ = WriteFrame(w, Frame{Type: FrameComplete})
	}
	flush()
}

// readFrames turns a frame stream into a payload stream.
func readFrames(r io.Reader) flux.Flux[payload.Payload] {
	return flux.Create(func(ctx context.Context, emit func(payload.Payload) error) error {
		for {
			f, err := ReadFrame(r)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return io.ErrUnexpectedEOF
				}
				return err
			}
			switch f.Type {
			case FrameNext:
				if err := emit(payload.New(f.Data)); err != nil {
					return err
				}
			case FrameError:
				return &RemoteError{Message: string(f.Data)}
			case FrameComplete:
				return nil
			}
		}
	})
}
