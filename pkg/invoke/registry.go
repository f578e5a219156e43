package invoke

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/toyz/rsbind/pkg/payload"
	"github.com/toyz/rsbind/pkg/rx/flux"
	"github.com/toyz/rsbind/pkg/rx/mono"
)

// HandlerInfo contains metadata about a registered handler
type HandlerInfo struct {
	// Target is the address the handler answers on
	Target Target

	// Model is the interaction model the handler was registered with
	Model InteractionModel

	requestResponse RequestResponseHandler
	requestStream   RequestStreamHandler
	requestChannel  RequestChannelHandler
}

// Registry holds exported handlers and dispatches calls to them. A Registry
// is also a Caller, which lets import proxies talk to exports registered in
// the same process.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Target]HandlerInfo
}

var _ Caller = (*Registry)(nil)

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[Target]HandlerInfo),
	}
}

// DefaultRegistry is the global registry generated registration code uses
var DefaultRegistry = NewRegistry()

func (r *Registry) register(info HandlerInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.handlers[info.Target]; ok {
		return fmt.Errorf("%w: %s (%s)", ErrAlreadyRegistered, info.Target, existing.Model)
	}
	r.handlers[info.Target] = info

	Logger().Debug("registered handler",
		zap.Stringer("target", info.Target),
		zap.Stringer("model", info.Model))
	return nil
}

// RegisterRequestResponse adds a single-value handler for target
func (r *Registry) RegisterRequestResponse(target Target, h RequestResponseHandler) error {
	if h == nil {
		return fmt.Errorf("%w: %s", ErrNilHandler, target)
	}
	return r.register(HandlerInfo{Target: target, Model: RequestResponse, requestResponse: h})
}

// RegisterRequestStream adds a streaming handler for target
func (r *Registry) RegisterRequestStream(target Target, h RequestStreamHandler) error {
	if h == nil {
		return fmt.Errorf("%w: %s", ErrNilHandler, target)
	}
	return r.register(HandlerInfo{Target: target, Model: RequestStream, requestStream: h})
}

// RegisterRequestChannel adds a bidirectional handler for target
func (r *Registry) RegisterRequestChannel(target Target, h RequestChannelHandler) error {
	if h == nil {
		return fmt.Errorf("%w: %s", ErrNilHandler, target)
	}
	return r.register(HandlerInfo{Target: target, Model: RequestChannel, requestChannel: h})
}

// Lookup returns the handler registered for target
func (r *Registry) Lookup(target Target) (HandlerInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.handlers[target]
	return info, ok
}

// Handlers returns every registered handler ordered by target
func (r *Registry) Handlers() []HandlerInfo {
	r.mu.RLock()
	result := make([]HandlerInfo, 0, len(r.handlers))
	for _, info := range r.handlers {
		result = append(result, info)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Target.String() < result[j].Target.String()
	})
	return result
}

func (r *Registry) resolve(target Target, model InteractionModel) (HandlerInfo, error) {
	info, ok := r.Lookup(target)
	if !ok {
		return HandlerInfo{}, fmt.Errorf("%w: %s", ErrHandlerNotFound, target)
	}
	if info.Model != model {
		return HandlerInfo{}, fmt.Errorf("%w: %s is %s, called as %s", ErrInteractionMismatch, target, info.Model, model)
	}
	return info, nil
}

// RequestResponse dispatches a single-value call
func (r *Registry) RequestResponse(ctx context.Context, target Target, p payload.Payload) mono.Mono[payload.Payload] {
	info, err := r.resolve(target, RequestResponse)
	if err != nil {
		return mono.Error[payload.Payload](err)
	}
	return mono.Create(func(ctx context.Context) (out payload.Payload, err error) {
		defer recoverHandler(target, &err)
		return info.requestResponse(ctx, p).Block(ctx)
	})
}

// RequestStream dispatches a streaming call
func (r *Registry) RequestStream(ctx context.Context, target Target, p payload.Payload) flux.Flux[payload.Payload] {
	info, err := r.resolve(target, RequestStream)
	if err != nil {
		return flux.Error[payload.Payload](err)
	}
	return flux.Create(func(ctx context.Context, emit func(payload.Payload) error) (err error) {
		defer recoverHandler(target, &err)
		return info.requestStream(ctx, p).Subscribe(ctx, emit)
	})
}

// RequestChannel dispatches a bidirectional call
func (r *Registry) RequestChannel(ctx context.Context, target Target, p payload.Payload, in flux.Flux[payload.Payload]) flux.Flux[payload.Payload] {
	info, err := r.resolve(target, RequestChannel)
	if err != nil {
		return flux.Error[payload.Payload](err)
	}
	return flux.Create(func(ctx context.Context, emit func(payload.Payload) error) (err error) {
		defer recoverHandler(target, &err)
		return info.requestChannel(ctx, p, in).Subscribe(ctx, emit)
	})
}

func recoverHandler(target Target, err *error) {
	if v := recover(); v != nil {
		Logger().Error("handler panicked",
			zap.Stringer("target", target),
			zap.Any("panic", v))
		*err = &PanicError{Target: target, Value: v}
	}
}

// RegisterRequestResponse adds a single-value handler to DefaultRegistry
func RegisterRequestResponse(target Target, h RequestResponseHandler) error {
	return DefaultRegistry.RegisterRequestResponse(target, h)
}

// RegisterRequestStream adds a streaming handler to DefaultRegistry
func RegisterRequestStream(target Target, h RequestStreamHandler) error {
	return DefaultRegistry.RegisterRequestStream(target, h)
}

// RegisterRequestChannel adds a bidirectional handler to DefaultRegistry
func RegisterRequestChannel(target Target, h RequestChannelHandler) error {
	return DefaultRegistry.RegisterRequestChannel(target, h)
}
