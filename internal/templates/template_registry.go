package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
	parsed    map[string]*template.Template
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerFileTemplates()
	registry.registerExportTemplates()
	registry.registerImportTemplates()
	registry.registerTypeTemplates()

	registry.parsed = make(map[string]*template.Template, len(registry.templates))
	for name, text := range registry.templates {
		registry.parsed[name] = template.Must(template.New(name).Funcs(templateFuncs).Parse(text))
	}
	return registry
}

var templateFuncs = template.FuncMap{
	"indent": func(prefix, text string) string {
		if text == "" {
			return ""
		}
		lines := strings.SplitAfter(text, "\n")
		for i, line := range lines {
			if line != "" {
				lines[i] = prefix + line
			}
		}
		return strings.Join(lines, "")
	},
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
}

// Get retrieves a template source by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	text, exists := tr.templates[name]
	return text, exists
}

// Execute renders the named template with data
func (tr *TemplateRegistry) Execute(name string, data any) (string, error) {
	tmpl, ok := tr.parsed[name]
	if !ok {
		return "", fmt.Errorf("template not found: %s", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// registerFileTemplates registers the layout of a generated file
func (tr *TemplateRegistry) registerFileTemplates() {
	tr.templates["file"] = `// Code generated by rsbind. DO NOT EDIT.

package {{.Package}}
{{if .Imports}}
{{.Imports}}{{end}}
{{range .Sections}}
{{.}}{{end}}`

	tr.templates["args-type"] = `// {{.ArgsType}} carries the arguments of {{.Target}}.
type {{.ArgsType}} struct {
{{range .Values}}	{{.Field}} {{.Type}} ` + "`" + `cbor:"{{.Wire}}" json:"{{.Wire}}"` + "`" + `
{{end}}}
`

	tr.templates["interface"] = `{{if .Doc}}{{.Doc}}{{else}}// {{.Name}} {{.Summary}}
{{end}}type {{.Name}} interface {
{{range .Ops}}{{indent "\t" .Doc}}	{{.Method}}({{.Signature}}) {{.Returns}}
{{end}}}
`
}

// registerExportTemplates registers the handler side of a binding
func (tr *TemplateRegistry) registerExportTemplates() {
	tr.templates["handler-type"] = `{{if and .Doc (not .Receiver)}}{{.Doc}}{{else}}// {{.FnType}} handles {{.Target}}.
{{end}}type {{.FnType}} func({{.Signature}}) {{.Returns}}
`

	tr.templates["register-function"] = `// {{.Register}} registers the handler of {{.Target}}.
func {{.Register}}(handler {{.FnType}}) error {
	return invoke.Register{{.Model}}({{.Target.Literal}}, {{.Wrapper}}(handler))
}
`

	tr.templates["register-method"] = `// {{.Register}} registers {{.Receiver}}.{{.Method}} as the handler of {{.Target}}.
func {{.Register}}(svc {{.Receiver}}) error {
	return invoke.Register{{.Model}}({{.Target.Literal}}, {{.Wrapper}}(svc.{{.Method}}))
}
`

	tr.templates["register-interface"] = `// Register{{.Name}} registers every operation of {{.Name}}.
func Register{{.Name}}(svc {{.Name}}) error {
{{range .Ops}}	if err := {{.Register}}(svc); err != nil {
		return err
	}
{{end}}	return nil
}
`

	tr.templates["wrapper"] = `func {{.Wrapper}}(handler {{.FnType}}) invoke.{{.Model}}Handler {
	return func(ctx context.Context, p payload.Payload{{if .Stream}}, in flux.Flux[payload.Payload]{{end}}) {{.Handle}}[payload.Payload] {
		return {{.Outbound}}.Defer(func() {{.Handle}}[payload.Payload] {
{{- if eq .Mode "direct"}}
			request, err := {{.Decode}}(p)
			if err != nil {
				return {{.Outbound}}.Error[payload.Payload](err)
			}
{{- else if eq .Mode "aggregate"}}
			args, err := transform.CodecDecode[{{.ArgsType}}](p)
			if err != nil {
				return {{.Outbound}}.Error[payload.Payload](err)
			}
{{- end}}
			response := handler({{.Call}})
			return {{.Result}}
		})
	}
}
`
}

// registerImportTemplates registers the proxy side of a binding
func (tr *TemplateRegistry) registerImportTemplates() {
	tr.templates["proxy"] = `// {{.Impl}} issues {{.Name}} calls through an invoke.Caller.
type {{.Impl}} struct {
	caller invoke.Caller
}
{{if .Interface}}
var _ {{.Name}} = (*{{.Impl}})(nil)
{{end}}
// New{{.Name}} returns a proxy issuing calls through caller.
func New{{.Name}}(caller invoke.Caller) *{{.Impl}} {
	return &{{.Impl}}{caller: caller}
}
`

	tr.templates["proxy-method"] = `{{if .Doc}}{{.Doc}}{{else}}// {{.Method}} calls {{.Target}}.
{{end}}func (impl *{{.Impl}}) {{.Method}}({{.Signature}}) {{.Returns}} {
{{- if eq .Mode "none"}}
	request := payload.Empty()
{{- else if eq .Mode "direct"}}
	request, err := {{.Encode}}({{(index .Values 0).Name}})
	if err != nil {
		return {{.ErrorReturn}}
	}
{{- else}}
	request, err := transform.CodecEncode({{.ArgsType}}{
{{- range .Values}}
		{{.Field}}: {{.Name}},
{{- end}}
	})
	if err != nil {
		return {{.ErrorReturn}}
	}
{{- end}}
	response := impl.caller.{{.Model}}(ctx, {{.Target.Literal}}, request{{if .Stream}}, {{.StreamArg}}{{end}})
	return {{.Result}}
}
`
}

// registerTypeTemplates registers declarations of named types
func (tr *TemplateRegistry) registerTypeTemplates() {
	tr.templates["object"] = `// {{.Name}} is the {{.Wire}} record.
type {{.Name}} struct {
{{range .Fields}}	{{.Name}} {{.Type}} ` + "`" + `cbor:"{{.Wire}}" json:"{{.Wire}}"` + "`" + `
{{end}}}
`

	tr.templates["enum"] = `// {{.Name}} enumerates {{.Wire}} values.
type {{.Name}} int32

const (
{{range .Values}}	{{.Const}} {{$.Name}} = {{.Value}}
{{end}})

// String returns the declared name of the value.
func (e {{.Name}}) String() string {
	switch e {
{{range .Cases}}	case {{.Const}}:
		return {{quote .Wire}}
{{end}}	}
	return fmt.Sprintf("{{.Name}}(%d)", int32(e))
}
`

	tr.templates["alias"] = `// {{.Name}} is a {{.Target}} named {{.Wire}}.
type {{.Name}} {{.Target}}
`

	tr.templates["alias-codec"] = `func decode{{.Name}}(p payload.Payload) (value {{.GoType}}, err error) {
	raw, err := {{.Decode}}(p)
	if err != nil {
		return value, err
	}
	return {{.Convert}}
}

func encode{{.Name}}(v {{.GoType}}) (payload.Payload, error) {
	return {{.Encode}}({{.EncodeArg}})
}
`
}

// DefaultTemplateRegistry is the registry used by emitters
var DefaultTemplateRegistry = NewTemplateRegistry()
