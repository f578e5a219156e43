package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// GoModule describes the module a generated package lands in
type GoModule struct {
	Path     string   // module path
	Dir      string   // directory holding go.mod
	Requires []string // required module paths
}

// PackagePath returns the import path of dir inside the module
func (m *GoModule) PackagePath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(m.Dir, abs)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return m.Path, nil
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside module %s", dir, m.Path)
	}
	return m.Path + "/" + filepath.ToSlash(rel), nil
}

// Provides reports whether importPath resolves inside the module itself or
// one of its requirements
func (m *GoModule) Provides(importPath string) bool {
	for _, path := range append([]string{m.Path}, m.Requires...) {
		if importPath == path || strings.HasPrefix(importPath, path+"/") {
			return true
		}
	}
	return false
}

// ParseGoMod reads the go.mod file at goModPath
func ParseGoMod(goModPath string) (*GoModule, error) {
	// Validate path
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return nil, fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read go.mod file: %w", err)
	}

	// Parse using official modfile parser
	modFile, err := modfile.Parse(cleanPath, content, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go.mod file: %w", err)
	}

	if modFile.Module == nil {
		return nil, fmt.Errorf("no module declaration found in go.mod")
	}
	if err := module.CheckPath(modFile.Module.Mod.Path); err != nil && !isLocalModulePath(modFile.Module.Mod.Path) {
		return nil, fmt.Errorf("invalid module path: %w", err)
	}

	dir, err := filepath.Abs(filepath.Dir(cleanPath))
	if err != nil {
		return nil, err
	}
	mod := &GoModule{Path: modFile.Module.Mod.Path, Dir: dir}
	for _, req := range modFile.Require {
		mod.Requires = append(mod.Requires, req.Mod.Path)
	}
	return mod, nil
}

// isLocalModulePath accepts single element paths such as "example" that
// module.CheckPath rejects for lacking a dot
func isLocalModulePath(path string) bool {
	return module.CheckImportPath(path) == nil
}

// FindGoModFile searches for go.mod file starting from the given directory and walking up
func FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")

		// Check if go.mod exists in current directory
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			return goModPath, nil
		}

		// Move to parent directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found")
}

// FindGoModule locates and parses the module enclosing dir. dir need not
// exist yet.
func FindGoModule(dir string) (*GoModule, error) {
	start := dir
	for {
		if _, err := os.Stat(start); err == nil {
			break
		}
		parent := filepath.Dir(start)
		if parent == start {
			break
		}
		start = parent
	}
	goModPath, err := FindGoModFile(start)
	if err != nil {
		return nil, err
	}
	return ParseGoMod(goModPath)
}
