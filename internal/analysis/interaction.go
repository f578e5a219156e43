package analysis

import (
	"github.com/toyz/rsbind/internal/errors"
	"github.com/toyz/rsbind/internal/models"
)

// InteractionModel is how an operation exchanges messages with the runtime
type InteractionModel int

const (
	RequestResponse InteractionModel = iota
	RequestStream
	RequestChannel
)

func (m InteractionModel) String() string {
	switch m {
	case RequestStream:
		return "RequestStream"
	case RequestChannel:
		return "RequestChannel"
	default:
		return "RequestResponse"
	}
}

// OutboundStream reports whether the runtime-facing result is a stream
func (m InteractionModel) OutboundStream() bool {
	return m != RequestResponse
}

// StreamParam is the stream parameter of a channel operation together with
// its element type
type StreamParam struct {
	Parameter models.Parameter
	Element   models.Type
}

// OperationRef names an operation for error reporting
type OperationRef struct {
	Namespace string
	Interface string
	Operation string
}

// StreamParameter returns the single stream parameter of op, nil when there
// is none, or an ambiguous stream error when there are several.
func StreamParameter(ref OperationRef, op *models.Operation) (*StreamParam, error) {
	var streams []models.Parameter
	for _, p := range op.Parameters {
		if IsStream(p.Type) {
			streams = append(streams, p)
		}
	}

	switch len(streams) {
	case 0:
		return nil, nil
	case 1:
		return &StreamParam{Parameter: streams[0], Element: UnwrapStream(streams[0].Type)}, nil
	default:
		names := make([]string, len(streams))
		for i, p := range streams {
			names[i] = p.Name
		}
		return nil, errors.NewAmbiguousStreamError(ref.Namespace, ref.Interface, ref.Operation, names)
	}
}

// ResolveInteraction derives the interaction model of op. A stream
// parameter always makes a channel; otherwise the return type decides.
func ResolveInteraction(ref OperationRef, op *models.Operation) (InteractionModel, error) {
	model, _, err := resolveInteraction(ref, op)
	return model, err
}

func resolveInteraction(ref OperationRef, op *models.Operation) (InteractionModel, *StreamParam, error) {
	stream, err := StreamParameter(ref, op)
	if err != nil {
		return RequestResponse, nil, err
	}
	if stream != nil {
		return RequestChannel, stream, nil
	}
	if IsStream(op.ReturnType()) {
		return RequestStream, nil, nil
	}
	return RequestResponse, nil, nil
}
