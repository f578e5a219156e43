package utils

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"

	"golang.org/x/tools/imports"
)

var formatOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// FormatGoCode formats Go source code the way gofmt does and sorts import
// groups. Imports are never added or removed.
func FormatGoCode(filename string, source []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, source, formatOptions)
	if err != nil {
		// If formatting fails, try to parse to see if it's valid Go
		if parseErr := ValidateGoCode(string(source)); parseErr != nil {
			return source, fmt.Errorf("invalid Go syntax: %w (format error: %v)", parseErr, err)
		}
		return source, err
	}
	return formatted, nil
}

// FormatAndWriteGoFile formats Go code and writes it to a file. Unformattable
// code is not written.
func FormatAndWriteGoFile(filename string, code []byte) error {
	formatted, err := FormatGoCode(filename, code)
	if err != nil {
		return fmt.Errorf("failed to format %s: %w", filename, err)
	}
	return os.WriteFile(filename, formatted, 0644)
}

// ValidateGoCode checks if the provided code is valid Go syntax
func ValidateGoCode(code string) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "", code, parser.ParseComments)
	return err
}
