package analysis

import "github.com/toyz/rsbind/internal/models"

// DecodeMode is how the request payload maps onto the non-stream parameters
type DecodeMode int

const (
	// DecodeNone means there are no non-stream parameters; the handler
	// only receives the call context (and the stream, if any)
	DecodeNone DecodeMode = iota
	// DecodeDirect decodes the payload straight into the single parameter
	DecodeDirect
	// DecodeAggregate decodes the payload into a synthesized container
	// with one field per parameter
	DecodeAggregate
)

func (m DecodeMode) String() string {
	switch m {
	case DecodeDirect:
		return "direct"
	case DecodeAggregate:
		return "aggregate"
	default:
		return "none"
	}
}

// ParameterPlan describes how a wrapper obtains its call arguments
type ParameterPlan struct {
	Mode   DecodeMode
	Values []models.Parameter // non-stream parameters in declaration order
	Stream *StreamParam       // trailing stream argument, if any
}

// Arguments returns the handler arguments in call order
func (p ParameterPlan) Arguments() []models.Parameter {
	args := append([]models.Parameter(nil), p.Values...)
	if p.Stream != nil {
		args = append(args, p.Stream.Parameter)
	}
	return args
}

// BuildPlan decides between direct and aggregate decoding. stream is the
// operation's stream parameter as returned by StreamParameter.
func BuildPlan(op *models.Operation, stream *StreamParam) ParameterPlan {
	plan := ParameterPlan{Stream: stream}
	for _, p := range op.Parameters {
		if stream != nil && p.Name == stream.Parameter.Name {
			continue
		}
		plan.Values = append(plan.Values, p)
	}

	switch {
	case op.IsUnary() && len(plan.Values) == 1:
		plan.Mode = DecodeDirect
	case len(plan.Values) > 0:
		plan.Mode = DecodeAggregate
	default:
		plan.Mode = DecodeNone
	}
	return plan
}
