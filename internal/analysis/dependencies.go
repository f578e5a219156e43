package analysis

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/toyz/rsbind/internal/models"
)

// Runtime sub-packages referenced by generated bindings
const (
	PkgPayload   = "payload"
	PkgTransform = "transform"
	PkgInvoke    = "invoke"
	PkgMono      = "rx/mono"
	PkgFlux      = "rx/flux"
)

// Dependency is one import of a generated file
type Dependency struct {
	Path string
	Name string // explicit import name, empty when the default applies
}

type dependencySet map[string]Dependency

func (s dependencySet) add(path, name string) {
	if _, ok := s[path]; !ok {
		s[path] = Dependency{Path: path, Name: name}
	}
}

func (s dependencySet) sorted() []Dependency {
	out := make([]Dependency, 0, len(s))
	for _, d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Dependencies aggregates the imports needed by the bindings of one
// direction. The result is deduplicated and sorted by path, so unchanged
// input always yields the same import block.
func Dependencies(bindings []*Binding, dir models.Direction, cfg models.Config) []Dependency {
	set := dependencySet{}
	selected := Select(bindings, dir)
	if len(selected) == 0 {
		return nil
	}

	set.add("context", "")
	set.add(cfg.RuntimePackage(PkgInvoke), "")
	if dir == models.Export {
		set.add(cfg.RuntimePackage(PkgPayload), "")
	}

	stream := cfg.RuntimePackage(PkgFlux)
	single := cfg.RuntimePackage(PkgMono)
	var aliases []models.Alias

	for _, b := range selected {
		for _, p := range b.Operation.Parameters {
			if IsStream(p.Type) {
				set.add(stream, "")
			} else if b.Model.OutboundStream() {
				set.add(stream, "")
			} else {
				set.add(single, "")
			}
			aliases = append(aliases, signatureAliases(p.Type)...)
			if usesTime(p.Type) {
				set.add("time", "")
			}
		}

		if b.ReturnsStream() {
			set.add(stream, "")
		} else {
			set.add(single, "")
		}
		aliases = append(aliases, signatureAliases(b.Return)...)
		if usesTime(b.Return) {
			set.add("time", "")
		}

		if b.usesTransform() {
			set.add(cfg.RuntimePackage(PkgTransform), "")
		}
		if dir == models.Import && b.Plan.Mode == DecodeNone {
			set.add(cfg.RuntimePackage(PkgPayload), "")
		}
	}

	for _, a := range aliases {
		set.addAlias(a, cfg)
	}

	return set.sorted()
}

func (s dependencySet) addAlias(a models.Alias, cfg models.Config) {
	remap, ok := cfg.Aliases[a.Name]
	if !ok || remap.Import == "" {
		return
	}
	s.add(remap.Import, importName(remap.Import, remap.Type))
}

// TypeDependencies returns the imports of the file declaring set and the
// alias codec helpers, sorted by path.
func TypeDependencies(set *TypeSet, helpers []models.Alias, cfg models.Config) []Dependency {
	deps := dependencySet{}

	var field func(t models.Type)
	field = func(t models.Type) {
		switch v := t.(type) {
		case models.Primitive:
			if v.Name == models.DateTime {
				deps.add("time", "")
			}
		case models.Alias:
			deps.addAlias(v, cfg)
		}
	}

	for _, t := range set.Types {
		switch v := t.(type) {
		case models.Enum:
			deps.add("fmt", "")
		case models.Object:
			for _, f := range v.Fields {
				field(f.Type)
			}
		case models.Alias:
			field(v.Target)
		}
	}

	if len(helpers) > 0 {
		deps.add(cfg.RuntimePackage(PkgPayload), "")
		deps.add(cfg.RuntimePackage(PkgTransform), "")
	}
	for _, a := range helpers {
		deps.addAlias(a, cfg)
		// a remap with Format encodes through the formatted value and never
		// names the target type
		if remap, ok := cfg.Aliases[a.Name]; ok && remap.Format != "" {
			continue
		}
		field(a.Target)
	}

	return deps.sorted()
}

// usesTransform reports whether any codec of b is a runtime transform
// rather than a generated alias helper
func (b *Binding) usesTransform() bool {
	if b.Plan.Mode == DecodeAggregate {
		return true
	}
	sites := []models.Type{b.Outbound}
	if b.Plan.Mode == DecodeDirect {
		sites = append(sites, b.Plan.Values[0].Type)
	}
	if b.Plan.Stream != nil {
		sites = append(sites, b.Plan.Stream.Element)
	}
	for _, t := range sites {
		if Classify(t) != KindAlias {
			return true
		}
	}
	return false
}

// Select returns the bindings of one direction in their original order
func Select(bindings []*Binding, dir models.Direction) []*Binding {
	var out []*Binding
	for _, b := range bindings {
		if b.Direction == dir {
			out = append(out, b)
		}
	}
	return out
}

// AliasHelpers returns the aliases that need a payload codec helper, sorted
// by name. These are the aliases encoded as a
// whole message (direct parameters, stream elements and results) plus the
// aliases their targets chain through.
func AliasHelpers(bindings []*Binding) []models.Alias {
	found := map[string]models.Alias{}
	var visit func(t models.Type)
	visit = func(t models.Type) {
		a, ok := t.(models.Alias)
		if !ok {
			return
		}
		if _, seen := found[a.Name]; seen {
			return
		}
		found[a.Name] = a
		visit(a.Target)
	}

	for _, b := range bindings {
		if b.Plan.Mode == DecodeDirect {
			visit(b.Plan.Values[0].Type)
		}
		if b.Plan.Stream != nil {
			visit(b.Plan.Stream.Element)
		}
		visit(b.Outbound)
	}

	out := make([]models.Alias, 0, len(found))
	for _, a := range found {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// signatureAliases returns the aliases named by a rendered signature type
func signatureAliases(t models.Type) []models.Alias {
	if a, ok := UnwrapStream(t).(models.Alias); ok {
		return []models.Alias{a}
	}
	return nil
}

func usesTime(t models.Type) bool {
	p, ok := UnwrapStream(t).(models.Primitive)
	return ok && p.Name == models.DateTime
}

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// importName returns the explicit import name needed for path when the
// qualifier used in goType differs from the package's default name
func importName(importPath, goType string) string {
	qualifier, _, ok := strings.Cut(strings.TrimLeft(goType, "*[]"), ".")
	if !ok {
		return ""
	}
	base := path.Base(importPath)
	if majorVersion.MatchString(base) {
		base = path.Base(path.Dir(importPath))
	}
	if base == qualifier {
		return ""
	}
	return qualifier
}
