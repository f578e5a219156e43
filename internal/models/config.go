package models

import (
	"fmt"
	"sort"

	"golang.org/x/mod/module"

	"github.com/toyz/rsbind/internal/errors"
)

const (
	// DefaultPackage is the package name of generated files when the
	// namespace does not configure one
	DefaultPackage = "module"

	// DefaultRuntime is the import root of the runtime packages generated
	// code depends on
	DefaultRuntime = "github.com/toyz/rsbind/pkg"
)

// Recognized configuration keys
const (
	OptionPackage = "package"
	OptionAliases = "aliases"
	OptionRuntime = "runtime"
)

// AliasImport remaps an alias to an existing Go type
type AliasImport struct {
	Import string `json:"import,omitempty"` // import path providing Type
	Type   string `json:"type"`             // qualified Go type, e.g. uuid.UUID
	Parse  string `json:"parse,omitempty"`  // func(primitive) (Type, error)
	Format string `json:"format,omitempty"` // method of Type returning the primitive
}

// Config is the typed form of a namespace configuration map
type Config struct {
	Package string
	Runtime string
	Aliases map[string]AliasImport
}

// AliasNames returns the configured alias names in sorted order
func (c Config) AliasNames() []string {
	names := make([]string, 0, len(c.Aliases))
	for name := range c.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RuntimePackage returns the import path of a runtime sub-package
func (c Config) RuntimePackage(name string) string {
	return c.Runtime + "/" + name
}

// ParseConfig converts a raw configuration map into a Config. Unknown keys
// are ignored.
func ParseConfig(options map[string]any) (Config, error) {
	cfg := Config{
		Package: DefaultPackage,
		Runtime: DefaultRuntime,
		Aliases: map[string]AliasImport{},
	}

	if v, ok := options[OptionPackage]; ok {
		s, ok := v.(string)
		if !ok || s == "" {
			return cfg, errors.ValidateError(OptionPackage, "non-empty string", fmt.Sprintf("%T", v))
		}
		cfg.Package = s
	}

	if v, ok := options[OptionRuntime]; ok {
		s, ok := v.(string)
		if !ok || s == "" {
			return cfg, errors.ValidateError(OptionRuntime, "non-empty string", fmt.Sprintf("%T", v))
		}
		if err := module.CheckImportPath(s); err != nil {
			return cfg, errors.WrapValidationError(OptionRuntime, err)
		}
		cfg.Runtime = s
	}

	if v, ok := options[OptionAliases]; ok {
		raw, ok := v.(map[string]any)
		if !ok {
			return cfg, errors.ValidateError(OptionAliases, "mapping", fmt.Sprintf("%T", v))
		}
		for name, entry := range raw {
			alias, err := parseAlias(name, entry)
			if err != nil {
				return cfg, err
			}
			cfg.Aliases[name] = alias
		}
	}

	return cfg, nil
}

func parseAlias(name string, entry any) (AliasImport, error) {
	field := OptionAliases + "." + name
	m, ok := entry.(map[string]any)
	if !ok {
		return AliasImport{}, errors.ValidateError(field, "mapping", fmt.Sprintf("%T", entry))
	}

	var alias AliasImport
	for key, dst := range map[string]*string{
		"import": &alias.Import,
		"type":   &alias.Type,
		"parse":  &alias.Parse,
		"format": &alias.Format,
	} {
		v, ok := m[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return AliasImport{}, errors.ValidateError(field+"."+key, "string", fmt.Sprintf("%T", v))
		}
		*dst = s
	}

	if alias.Type == "" {
		return AliasImport{}, errors.ValidateError(field+".type", "Go type", "empty value").
			WithSuggestion("Set type to the qualified Go type the alias maps to, e.g. uuid.UUID")
	}
	if alias.Import != "" {
		if err := module.CheckImportPath(alias.Import); err != nil {
			return AliasImport{}, errors.WrapValidationError(field+".import", err)
		}
	}
	return alias, nil
}
