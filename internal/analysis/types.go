package analysis

import (
	"sort"

	"github.com/toyz/rsbind/internal/errors"
	"github.com/toyz/rsbind/internal/models"
)

// TypeSet is the set of named types a namespace declares in Go
type TypeSet struct {
	Types []models.Type // objects, enums and aliases without a remap

	objects map[string]models.Object
}

// NamedTypes collects the declared types of ns plus every named type the
// bindings reach, keeping declaration order and appending undeclared types
// sorted by name. Aliases remapped through cfg are left out since they
// refer to existing Go types.
func NamedTypes(ns *models.Namespace, bindings []*Binding, cfg models.Config) (*TypeSet, error) {
	set := &TypeSet{objects: map[string]models.Object{}}
	defs := map[string]models.Type{}

	record := func(name string, t models.Type) bool {
		prev, ok := defs[name]
		if !ok {
			defs[name] = t
			return true
		}
		prevObj, wasObj := prev.(models.Object)
		obj, isObj := t.(models.Object)
		if wasObj && isObj && len(obj.Fields) > len(prevObj.Fields) {
			defs[name] = t
			return true
		}
		return false
	}

	var visit func(t models.Type)
	visit = func(t models.Type) {
		switch v := t.(type) {
		case models.Stream:
			visit(v.Element)
		case models.Alias:
			if record(v.Name, v) {
				visit(v.Target)
			}
		case models.Enum:
			record(v.Name, v)
		case models.Object:
			if record(v.Name, v) {
				for _, f := range v.Fields {
					visit(f.Type)
				}
			}
		}
	}

	var order []string
	listed := map[string]bool{}
	for _, t := range ns.Types {
		visit(t)
		if name := typeName(t); name != "" && !listed[name] {
			listed[name] = true
			order = append(order, name)
		}
	}
	for _, b := range bindings {
		for _, p := range b.Operation.Parameters {
			visit(p.Type)
		}
		visit(b.Return)
	}

	var extra []string
	for name := range defs {
		if !listed[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	for _, name := range append(order, extra...) {
		t := defs[name]
		if obj, ok := t.(models.Object); ok {
			set.objects[name] = obj
		}
		if _, remapped := cfg.Aliases[name]; remapped {
			if _, ok := t.(models.Alias); ok {
				continue
			}
		}
		set.Types = append(set.Types, t)
	}

	return set, set.validate()
}

func (s *TypeSet) validate() error {
	for _, t := range s.Types {
		if a, ok := t.(models.Alias); ok {
			switch Classify(resolveAlias(a)) {
			case KindStream, KindVoid:
				return errors.NewUnsupportedTypeError(a.Name, "alias target", models.Describe(a.Target), "aliases must name a single value")
			}
			continue
		}
		obj, ok := t.(models.Object)
		if !ok {
			continue
		}
		for _, f := range obj.Fields {
			switch Classify(resolveAlias(f.Type)) {
			case KindStream:
				return errors.NewUnsupportedTypeError(obj.Name, "field "+f.Name, models.Describe(f.Type), "object fields cannot be streams")
			case KindVoid:
				return errors.NewUnsupportedTypeError(obj.Name, "field "+f.Name, models.Describe(f.Type), "object fields cannot be void")
			}
		}
	}
	return nil
}

// Recursive reports whether object target can reach owner through its
// fields, so that owner must hold target by reference
func (s *TypeSet) Recursive(owner, target string) bool {
	seen := map[string]bool{}
	var reach func(name string) bool
	reach = func(name string) bool {
		if name == owner {
			return true
		}
		if seen[name] {
			return false
		}
		seen[name] = true
		for _, f := range s.objects[name].Fields {
			if obj, ok := resolveAlias(f.Type).(models.Object); ok && reach(obj.Name) {
				return true
			}
		}
		return false
	}
	return reach(target)
}

// ByReference reports whether a field of owner typed t must be a pointer:
// t names, directly or through aliases, an object that reaches owner
func (s *TypeSet) ByReference(owner string, t models.Type) bool {
	obj, ok := resolveAlias(t).(models.Object)
	return ok && s.Recursive(owner, obj.Name)
}

func typeName(t models.Type) string {
	switch v := t.(type) {
	case models.Alias:
		return v.Name
	case models.Enum:
		return v.Name
	case models.Object:
		return v.Name
	}
	return ""
}
