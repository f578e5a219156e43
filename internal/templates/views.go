package templates

import (
	"fmt"
	"strings"

	"github.com/toyz/rsbind/internal/analysis"
	"github.com/toyz/rsbind/internal/models"
)

// targetView renders the address of an operation
type targetView struct {
	Namespace string
	Interface string
	Operation string
}

// String renders the target the way the runtime logs it
func (t targetView) String() string {
	if t.Interface == "" {
		return t.Namespace + "/" + t.Operation
	}
	return t.Namespace + "." + t.Interface + "/" + t.Operation
}

// Literal renders an invoke.Target composite literal
func (t targetView) Literal() string {
	if t.Interface == "" {
		return fmt.Sprintf("invoke.Target{Namespace: %q, Operation: %q}", t.Namespace, t.Operation)
	}
	return fmt.Sprintf("invoke.Target{Namespace: %q, Interface: %q, Operation: %q}", t.Namespace, t.Interface, t.Operation)
}

type paramView struct {
	Name  string // local identifier
	Field string // field of the aggregate container
	Wire  string // declared name
	Type  string // Go type
}

// bindingView is everything the export and import templates need to know
// about one operation
type bindingView struct {
	Target    targetView
	Doc       string
	Method    string
	Receiver  string // interface bound to, empty for free functions
	FnType    string
	Register  string
	Wrapper   string
	ArgsType  string
	Model     string
	Mode      string
	Signature string
	Returns   string

	Values []paramView
	Stream *paramView

	// export side
	Outbound string // package of the outbound handle: mono or flux
	Handle   string // outbound handle type without type arguments
	Decode   string
	Call     string

	// import side
	Impl        string
	Encode      string
	ErrorReturn string
	StreamArg   string

	Result string
}

// newBindingView prepares b for rendering. The same classification and
// strategies feed both directions.
func newBindingView(b *analysis.Binding, opts ExpandOptions) bindingView {
	op := b.Operation
	view := bindingView{
		Target: targetView{Namespace: b.Ref.Namespace, Interface: b.Ref.Interface, Operation: b.Ref.Operation},
		Doc:    commentLines(op.Description),
		Method: ExportName(op.Name),
		Model:  b.Model.String(),
		Mode:   b.Plan.Mode.String(),
	}

	var prefix string
	if bound, ok := b.Receiver.(analysis.BoundMethod); ok {
		view.Receiver = ExportName(bound.Interface)
		prefix = view.Receiver
	}
	view.FnType = prefix + view.Method + "Fn"
	view.Register = "Register" + prefix + view.Method
	view.Wrapper = lowerFirst(prefix+view.Method) + "Wrapper"
	if b.Plan.Mode == analysis.DecodeAggregate {
		view.ArgsType = prefix + view.Method + "Args"
	}

	args := b.Plan.Arguments()
	locals := make([]string, len(args))
	fields := make([]string, len(args))
	for i, p := range args {
		locals[i] = LocalName(p.Name)
		fields[i] = ExportName(p.Name)
	}
	locals = uniqueNames(locals)
	fields = uniqueNames(fields)

	signature := []string{"ctx context.Context"}
	for i, p := range args {
		pv := paramView{Name: locals[i], Field: fields[i], Wire: p.Name, Type: ExpandType(p.Type, opts)}
		signature = append(signature, pv.Name+" "+pv.Type)
		if b.Plan.Stream != nil && i == len(args)-1 {
			view.Stream = &pv
			continue
		}
		view.Values = append(view.Values, pv)
	}
	view.Signature = strings.Join(signature, ", ")
	view.Returns = ReturnType(b.Return, opts)

	view.Outbound, view.Handle = "mono", "mono.Mono"
	if b.Model.OutboundStream() {
		view.Outbound, view.Handle = "flux", "flux.Flux"
	}
	view.ErrorReturn = errorReturn(view.Returns)

	result := SelectStrategy(b.Return, opts)
	var call []string
	call = append(call, "ctx")
	switch b.Plan.Mode {
	case analysis.DecodeDirect:
		value := SelectStrategy(b.Plan.Values[0].Type, opts)
		view.Decode = value.Decode
		view.Encode = value.Encode
		call = append(call, "request")
	case analysis.DecodeAggregate:
		for _, v := range view.Values {
			call = append(call, "args."+v.Field)
		}
	}
	if b.Plan.Stream != nil {
		element := SelectStrategy(b.Plan.Stream.Parameter.Type, opts)
		call = append(call, element.DecodeStream("in"))
		view.StreamArg = element.EncodeStream(view.Stream.Name)
	}
	view.Call = strings.Join(call, ", ")

	switch {
	case b.Direction == models.Import && b.ReturnsStream():
		view.Result = result.DecodeStream("response")
	case b.Direction == models.Import && b.LiftsSingle():
		view.Result = "mono.Map(mono.FromFlux(response), " + result.Decode + ")"
	case b.Direction == models.Import:
		view.Result = "mono.Map(response, " + result.Decode + ")"
	case b.ReturnsStream():
		view.Result = result.EncodeStream("response")
	case b.LiftsSingle():
		view.Result = "flux.FromMono(mono.Map(response, " + result.Encode + "))"
	default:
		view.Result = "mono.Map(response, " + result.Encode + ")"
	}

	return view
}

// interfaceView groups the bindings of one interface
type interfaceView struct {
	Name      string
	Doc       string
	Summary   string
	Impl      string
	Interface bool // false for the proxy of top-level functions
	Ops       []bindingView
}
