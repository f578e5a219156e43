package analysis

import (
	"github.com/toyz/rsbind/internal/errors"
	"github.com/toyz/rsbind/internal/models"
)

// Receiver tells a wrapper how it reaches the handler. It is either
// FreeFunction or BoundMethod.
type Receiver interface {
	isReceiver()
}

// FreeFunction is a handler registered as a standalone function value
type FreeFunction struct{}

// BoundMethod is a handler reached through a method of an interface value
type BoundMethod struct {
	Interface string
}

func (FreeFunction) isReceiver() {}
func (BoundMethod) isReceiver()  {}

// Binding is the complete analysis of one operation. Export and import
// emitters render the same Binding.
type Binding struct {
	Ref       OperationRef
	Operation models.Operation
	Direction models.Direction
	Receiver  Receiver
	Model     InteractionModel
	Plan      ParameterPlan

	// Return is the declared return type, Void when none was declared
	Return models.Type
	// Outbound is the type of a single outbound message: the element of a
	// stream return, the return itself otherwise
	Outbound models.Type
}

// ReturnsStream reports whether the declared return is a stream
func (b *Binding) ReturnsStream() bool {
	return IsStream(b.Return)
}

// LiftsSingle reports whether a single-value result travels on an outbound
// stream, which happens for channels without a stream return
func (b *Binding) LiftsSingle() bool {
	return b.Model == RequestChannel && !b.ReturnsStream()
}

// Analyze builds the binding of op. iface is nil for top-level operations.
// Errors are *errors.ConfigurationError for ambiguous stream parameters and
// *errors.UnsupportedTypeError for shapes without an encoding strategy.
func Analyze(namespace string, iface *models.Interface, op models.Operation) (*Binding, error) {
	ref := OperationRef{Namespace: namespace, Operation: op.Name}
	var receiver Receiver = FreeFunction{}
	direction := models.Export
	if op.IsProvider() {
		direction = models.Import
	}
	if iface != nil {
		ref.Interface = iface.Name
		receiver = BoundMethod{Interface: iface.Name}
		if iface.IsProvider() {
			direction = models.Import
		}
	}

	model, stream, err := resolveInteraction(ref, &op)
	if err != nil {
		return nil, err
	}
	if err := ValidateTypes(ref, &op); err != nil {
		return nil, err
	}

	ret := op.ReturnType()
	return &Binding{
		Ref:       ref,
		Operation: op,
		Direction: direction,
		Receiver:  receiver,
		Model:     model,
		Plan:      BuildPlan(&op, stream),
		Return:    ret,
		Outbound:  UnwrapStream(ret),
	}, nil
}

// AnalyzeNamespace analyzes every operation of ns that is not marked
// nocode. Operations that fail are reported in the returned
// *errors.MultipleErrors and left out of the result; the others are still
// analyzed.
func AnalyzeNamespace(ns *models.Namespace) ([]*Binding, error) {
	var (
		bindings []*Binding
		failures *errors.MultipleErrors
	)

	collect := func(iface *models.Interface, op models.Operation) {
		if op.Skipped() {
			return
		}
		b, err := Analyze(ns.Name, iface, op)
		if err != nil {
			if rsErr, ok := err.(errors.RsbindError); ok {
				errors.AddToMultiple(&failures, rsErr)
			} else {
				errors.AddToMultiple(&failures, errors.WrapWithOperation("analyze", op.Name, err))
			}
			return
		}
		bindings = append(bindings, b)
	}

	for i := range ns.Interfaces {
		iface := &ns.Interfaces[i]
		if iface.Skipped() {
			continue
		}
		for _, op := range iface.Operations {
			collect(iface, op)
		}
	}
	for _, op := range ns.Operations {
		collect(nil, op)
	}

	return bindings, failures.ErrorOrNil()
}
