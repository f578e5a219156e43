package templates

import (
	"fmt"
	"strings"

	"github.com/toyz/rsbind/internal/analysis"
	"github.com/toyz/rsbind/internal/errors"
	"github.com/toyz/rsbind/internal/models"
)

// Names of the files an Emitter produces
const (
	ExportFileName = "bindings_export.go"
	ImportFileName = "bindings_import.go"
	TypesFileName  = "bindings_types.go"
)

// functionsGroup names the proxy of top-level provider operations
const functionsGroup = "Functions"

// Emitter renders the bindings of one namespace. Output is unformatted Go
// source; callers run it through a formatter.
type Emitter struct {
	namespace *models.Namespace
	cfg       models.Config
	opts      ExpandOptions
	registry  *TemplateRegistry
}

// NewEmitter creates an emitter for ns using the typed configuration cfg
func NewEmitter(ns *models.Namespace, cfg models.Config) *Emitter {
	return &Emitter{
		namespace: ns,
		cfg:       cfg,
		opts:      NewExpandOptions(cfg),
		registry:  DefaultTemplateRegistry,
	}
}

// Export renders the handler side of bindings. It returns nil when none of
// the bindings is implemented locally.
func (e *Emitter) Export(bindings []*analysis.Binding) ([]byte, error) {
	selected := analysis.Select(bindings, models.Export)
	if len(selected) == 0 {
		return nil, nil
	}

	var sections []string
	add := func(name string, data any) error {
		out, err := e.registry.Execute(name, data)
		if err != nil {
			return errors.WrapTemplateError(name, "execute", err)
		}
		sections = append(sections, out)
		return nil
	}

	groups, free := e.group(selected)
	for _, g := range groups {
		if err := add("interface", g); err != nil {
			return nil, err
		}
		if err := add("register-interface", g); err != nil {
			return nil, err
		}
		for _, op := range g.Ops {
			if err := e.exportOperation(op, "register-method", add); err != nil {
				return nil, err
			}
		}
	}
	for _, op := range free {
		if err := e.exportOperation(op, "register-function", add); err != nil {
			return nil, err
		}
	}

	return e.file(analysis.Dependencies(bindings, models.Export, e.cfg), sections)
}

func (e *Emitter) exportOperation(op bindingView, register string, add func(string, any) error) error {
	for _, name := range []string{"handler-type", "args-type", register, "wrapper"} {
		if name == "args-type" && op.ArgsType == "" {
			continue
		}
		if err := add(name, op); err != nil {
			return err
		}
	}
	return nil
}

// Import renders the proxy side of bindings. It returns nil when none of
// the bindings is implemented elsewhere.
func (e *Emitter) Import(bindings []*analysis.Binding) ([]byte, error) {
	selected := analysis.Select(bindings, models.Import)
	if len(selected) == 0 {
		return nil, nil
	}

	var sections []string
	add := func(name string, data any) error {
		out, err := e.registry.Execute(name, data)
		if err != nil {
			return errors.WrapTemplateError(name, "execute", err)
		}
		sections = append(sections, out)
		return nil
	}

	groups, free := e.group(selected)
	if len(free) > 0 {
		groups = append(groups, interfaceView{
			Name: functionsGroup,
			Impl: functionsGroup + "Impl",
			Ops:  free,
		})
	}

	for _, g := range groups {
		if g.Interface {
			if err := add("interface", g); err != nil {
				return nil, err
			}
		}
		if err := add("proxy", g); err != nil {
			return nil, err
		}
		for _, op := range g.Ops {
			op.Impl = g.Impl
			if op.ArgsType != "" {
				if err := add("args-type", op); err != nil {
					return nil, err
				}
			}
			if err := add("proxy-method", op); err != nil {
				return nil, err
			}
		}
	}

	return e.file(analysis.Dependencies(bindings, models.Import, e.cfg), sections)
}

// group splits bindings into interface groups, in first-appearance order,
// and free functions
func (e *Emitter) group(bindings []*analysis.Binding) ([]interfaceView, []bindingView) {
	var (
		groups []interfaceView
		free   []bindingView
	)
	index := map[string]int{}

	for _, b := range bindings {
		view := newBindingView(b, e.opts)
		bound, ok := b.Receiver.(analysis.BoundMethod)
		if !ok {
			free = append(free, view)
			continue
		}
		i, seen := index[bound.Interface]
		if !seen {
			i = len(groups)
			index[bound.Interface] = i
			name := ExportName(bound.Interface)
			g := interfaceView{Name: name, Impl: name + "Impl", Interface: true}
			if b.Direction == models.Import {
				g.Summary = "is implemented outside this module."
			} else {
				g.Summary = "is implemented by this module."
			}
			if iface := e.lookupInterface(bound.Interface); iface != nil {
				g.Doc = commentLines(iface.Description)
			}
			groups = append(groups, g)
		}
		groups[i].Ops = append(groups[i].Ops, view)
	}
	return groups, free
}

func (e *Emitter) lookupInterface(name string) *models.Interface {
	for i := range e.namespace.Interfaces {
		if e.namespace.Interfaces[i].Name == name {
			return &e.namespace.Interfaces[i]
		}
	}
	return nil
}

// Types renders the named types the bindings rely on together with the
// alias codec helpers. It returns nil when there is nothing to declare.
func (e *Emitter) Types(bindings []*analysis.Binding) ([]byte, error) {
	set, err := analysis.NamedTypes(e.namespace, bindings, e.cfg)
	if err != nil {
		return nil, err
	}
	helpers := analysis.AliasHelpers(bindings)
	if len(set.Types) == 0 && len(helpers) == 0 {
		return nil, nil
	}

	var sections []string
	add := func(name string, data any) error {
		out, err := e.registry.Execute(name, data)
		if err != nil {
			return errors.WrapTemplateError(name, "execute", err)
		}
		sections = append(sections, out)
		return nil
	}

	for _, t := range set.Types {
		var err error
		switch v := t.(type) {
		case models.Object:
			err = add("object", e.objectView(set, v))
		case models.Enum:
			err = add("enum", enumView(v))
		case models.Alias:
			err = add("alias", map[string]string{
				"Name":   ExportName(v.Name),
				"Wire":   v.Name,
				"Target": ExpandType(v.Target, e.opts),
			})
		}
		if err != nil {
			return nil, err
		}
	}
	for _, a := range helpers {
		if err := add("alias-codec", e.aliasCodecView(a)); err != nil {
			return nil, err
		}
	}

	return e.file(analysis.TypeDependencies(set, helpers, e.cfg), sections)
}

type fieldView struct {
	Name string
	Wire string
	Type string
}

func (e *Emitter) objectView(set *analysis.TypeSet, obj models.Object) map[string]any {
	names := make([]string, len(obj.Fields))
	for i, f := range obj.Fields {
		names[i] = ExportName(f.Name)
	}
	names = uniqueNames(names)

	fields := make([]fieldView, len(obj.Fields))
	for i, f := range obj.Fields {
		goType := ExpandType(f.Type, e.opts)
		if set.ByReference(obj.Name, f.Type) {
			goType = "*" + goType
		}
		fields[i] = fieldView{Name: names[i], Wire: f.Name, Type: goType}
	}
	return map[string]any{
		"Name":   ExportName(obj.Name),
		"Wire":   obj.Name,
		"Fields": fields,
	}
}

type enumValueView struct {
	Const string
	Wire  string
	Value int32
}

func enumView(enum models.Enum) map[string]any {
	name := ExportName(enum.Name)
	consts := make([]string, len(enum.Values))
	for i, v := range enum.Values {
		consts[i] = name + ExportName(v.Name)
	}
	consts = uniqueNames(consts)

	var values, cases []enumValueView
	seen := map[int32]bool{}
	for i, v := range enum.Values {
		ev := enumValueView{Const: consts[i], Wire: v.Name, Value: v.Value}
		values = append(values, ev)
		if !seen[v.Value] {
			seen[v.Value] = true
			cases = append(cases, ev)
		}
	}
	return map[string]any{
		"Name":   name,
		"Wire":   enum.Name,
		"Values": values,
		"Cases":  cases,
	}
}

func (e *Emitter) aliasCodecView(a models.Alias) map[string]string {
	goType := ExpandType(a, e.opts)
	target := SelectStrategy(a.Target, e.opts)
	view := map[string]string{
		"Name":      ExportName(a.Name),
		"GoType":    goType,
		"Decode":    target.Decode,
		"Encode":    target.Encode,
		"Convert":   convert(goType, "raw") + ", nil",
		"EncodeArg": convert(target.GoType, "v"),
	}
	if remap, ok := e.cfg.Aliases[a.Name]; ok {
		if remap.Parse != "" {
			view["Convert"] = remap.Parse + "(raw)"
		}
		if remap.Format != "" {
			view["EncodeArg"] = "v." + remap.Format + "()"
		}
	}
	return view
}

// convert renders a conversion of expr to goType
func convert(goType, expr string) string {
	if strings.HasPrefix(goType, "*") || strings.HasPrefix(goType, "func") || strings.HasPrefix(goType, "<-") {
		return "(" + goType + ")(" + expr + ")"
	}
	return goType + "(" + expr + ")"
}

// file assembles a complete source file
func (e *Emitter) file(deps []analysis.Dependency, sections []string) ([]byte, error) {
	imports := NewImportManager()
	imports.AddDependencies(deps)

	out, err := e.registry.Execute("file", map[string]any{
		"Package":  e.cfg.Package,
		"Imports":  imports.GenerateImports(),
		"Sections": sections,
	})
	if err != nil {
		return nil, errors.WrapTemplateError("file", "execute", err)
	}
	return []byte(out), nil
}

// FileName returns the name of the file holding the given direction
func FileName(dir models.Direction) string {
	switch dir {
	case models.Import:
		return ImportFileName
	case models.Export:
		return ExportFileName
	default:
		panic(fmt.Sprintf("templates: unknown direction %d", dir))
	}
}
