package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GeneratedHeader is the first line of every file rsbind writes
const GeneratedHeader = "// Code generated by rsbind. DO NOT EDIT."

// ConfigFileName is the project configuration file, never a model document
const ConfigFileName = "rsbind.yaml"

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct{}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// ModelFileFilter filters for model documents: .yaml, .yml and .json files
func ModelFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		switch strings.ToLower(filepath.Ext(info.Name())) {
		case ".yaml", ".yml", ".json":
			return info.Name() != ConfigFileName
		}
		return false
	}
}

// GeneratedFileFilter filters for Go files carrying the rsbind header
func GeneratedFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".go") {
			return false
		}
		generated, err := IsGeneratedFile(path)
		return err == nil && generated
	}
}

// DefaultDirectoryFilter skips common directories that shouldn't contain source code
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
		"target":       true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()

		// Skip hidden directories
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}

		// Skip known directories
		return !skipDirs[name]
	}
}

// WalkFiles walks through files in a directory tree with filtering. Results
// are sorted.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		// The root itself is always walked
		if entry.IsDir() {
			if path != rootDir && options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})

	sort.Strings(matchedFiles)
	return matchedFiles, err
}

// FindModelFiles expands inputs into model documents. Files are taken as
// given, directories are searched recursively.
func (fp *FileProcessor) FindModelFiles(inputs []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !seen[abs] {
			seen[abs] = true
			files = append(files, path)
		}
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, WrapProcessError(fmt.Sprintf("input %s", input), err)
		}
		if !info.IsDir() {
			add(input)
			continue
		}
		found, err := fp.WalkFiles(input, FileWalkOptions{
			FileFilter:      ModelFileFilter(),
			DirectoryFilter: DefaultDirectoryFilter(),
		})
		if err != nil {
			return nil, WrapProcessError(fmt.Sprintf("directory %s", input), err)
		}
		for _, f := range found {
			add(f)
		}
	}

	return files, nil
}

// CleanDirectories removes generated files from directory trees
func (fp *FileProcessor) CleanDirectories(baseDirs []string) ([]string, error) {
	var removedFiles []string

	for _, baseDir := range baseDirs {
		if _, err := os.Stat(baseDir); os.IsNotExist(err) {
			continue
		}

		found, err := fp.WalkFiles(baseDir, FileWalkOptions{
			FileFilter:      GeneratedFileFilter(),
			DirectoryFilter: DefaultDirectoryFilter(),
			SkipErrors:      true,
		})
		if err != nil {
			return removedFiles, WrapProcessError(fmt.Sprintf("directory clean %s", baseDir), err)
		}

		for _, file := range found {
			if err := os.Remove(file); err != nil {
				return removedFiles, WrapProcessError(fmt.Sprintf("file removal %s", file), err)
			}
			removedFiles = append(removedFiles, file)
		}
	}

	return removedFiles, nil
}

// IsGeneratedFile reports whether the first line of path is the rsbind header
func IsGeneratedFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return false, scanner.Err()
	}
	return strings.TrimSpace(scanner.Text()) == GeneratedHeader, nil
}

// WriteFile writes content to path, creating parent directories
func WriteFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return WrapWriteError(filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return WrapWriteError(path, err)
	}
	return nil
}
