package templates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/rsbind/internal/analysis"
)

// ImportManager handles import generation and deduplication
type ImportManager struct {
	standardImports map[string]string // path -> name
	packageImports  map[string]string // path -> name
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		standardImports: make(map[string]string),
		packageImports:  make(map[string]string),
	}
}

// AddImport adds an import under its default name
func (im *ImportManager) AddImport(importPath string) {
	im.AddNamedImport("", importPath)
}

// AddNamedImport adds an import with an explicit name
func (im *ImportManager) AddNamedImport(name, importPath string) {
	if importPath == "" {
		return
	}
	if isStandardLibrary(importPath) {
		im.standardImports[importPath] = name
		return
	}
	im.packageImports[importPath] = name
}

// AddDependencies adds every dependency
func (im *ImportManager) AddDependencies(deps []analysis.Dependency) {
	for _, d := range deps {
		im.AddNamedImport(d.Name, d.Path)
	}
}

// GenerateImports generates the import section: standard library first,
// then everything else, each group sorted by path
func (im *ImportManager) GenerateImports() string {
	if im.isEmpty() {
		return ""
	}

	std := renderImports(im.standardImports)
	pkgs := renderImports(im.packageImports)

	if len(std)+len(pkgs) == 1 {
		return fmt.Sprintf("import %s\n", append(std, pkgs...)[0])
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, imp := range std {
		result.WriteString("\t" + imp + "\n")
	}
	if len(std) > 0 && len(pkgs) > 0 {
		result.WriteString("\n")
	}
	for _, imp := range pkgs {
		result.WriteString("\t" + imp + "\n")
	}
	result.WriteString(")\n")

	return result.String()
}

func renderImports(imports map[string]string) []string {
	paths := make([]string, 0, len(imports))
	for p := range imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make([]string, len(paths))
	for i, p := range paths {
		if name := imports[p]; name != "" {
			out[i] = fmt.Sprintf("%s %q", name, p)
		} else {
			out[i] = fmt.Sprintf("%q", p)
		}
	}
	return out
}

// isEmpty checks if there are any imports to generate
func (im *ImportManager) isEmpty() bool {
	return len(im.standardImports) == 0 && len(im.packageImports) == 0
}

// Merge merges another import manager into this one
func (im *ImportManager) Merge(other *ImportManager) {
	for p, name := range other.standardImports {
		im.standardImports[p] = name
	}
	for p, name := range other.packageImports {
		im.packageImports[p] = name
	}
}

// isStandardLibrary reports whether the first path element lacks a dot,
// which the go command reserves for the standard library
func isStandardLibrary(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
