package invoke

import (
	"context"
	"fmt"

	"github.com/toyz/rsbind/pkg/payload"
	"github.com/toyz/rsbind/pkg/rx/flux"
	"github.com/toyz/rsbind/pkg/rx/mono"
)

// InteractionModel tells the runtime how an operation exchanges messages.
type InteractionModel int

const (
	// RequestResponse exchanges one payload in each direction.
	RequestResponse InteractionModel = iota
	// RequestStream answers one request payload with a stream.
	RequestStream
	// RequestChannel exchanges streams in both directions.
	RequestChannel
)

func (m InteractionModel) String() string {
	switch m {
	case RequestResponse:
		return "RequestResponse"
	case RequestStream:
		return "RequestStream"
	case RequestChannel:
		return "RequestChannel"
	default:
		return fmt.Sprintf("InteractionModel(%d)", int(m))
	}
}

// Target addresses an operation. Interface is empty for operations declared
// directly on the namespace.
type Target struct {
	Namespace string
	Interface string
	Operation string
}

// String renders the target as "namespace/operation" or
// "namespace.Interface/operation".
func (t Target) String() string {
	if t.Interface == "" {
		return t.Namespace + "/" + t.Operation
	}
	return t.Namespace + "." + t.Interface + "/" + t.Operation
}

// RequestResponseHandler is the generic signature of a single-value wrapper.
type RequestResponseHandler func(ctx context.Context, p payload.Payload) mono.Mono[payload.Payload]

// RequestStreamHandler is the generic signature of a streaming wrapper.
type RequestStreamHandler func(ctx context.Context, p payload.Payload) flux.Flux[payload.Payload]

// RequestChannelHandler is the generic signature of a bidirectional wrapper.
type RequestChannelHandler func(ctx context.Context, p payload.Payload, in flux.Flux[payload.Payload]) flux.Flux[payload.Payload]

// Caller issues calls to operations implemented elsewhere. Generated import
// proxies depend on nothing else.
type Caller interface {
	RequestResponse(ctx context.Context, target Target, p payload.Payload) mono.Mono[payload.Payload]
	RequestStream(ctx context.Context, target Target, p payload.Payload) flux.Flux[payload.Payload]
	RequestChannel(ctx context.Context, target Target, p payload.Payload, in flux.Flux[payload.Payload]) flux.Flux[payload.Payload]
}
