package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/rsbind/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     os.Stderr,
	}
}

// WithWriter redirects the reporter output
func (r *DiagnosticReporter) WithWriter(out io.Writer) *DiagnosticReporter {
	r.out = out
	return r
}

// ReportWarning provides user-friendly warning reporting
func (r *DiagnosticReporter) ReportWarning(message string, suggestions ...string) {
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
	for _, s := range suggestions {
		fmt.Fprintf(r.out, "  - %s\n", s)
	}
}

// ReportError provides comprehensive error reporting with user-friendly output
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) && multi.Count() > 1 {
		if multi.Unbound() {
			fmt.Fprintf(r.out, "\nERROR: %d operations could not be bound\n", multi.Count())
		} else {
			fmt.Fprintf(r.out, "\nERROR: %d problems found\n", multi.Count())
		}
		fmt.Fprintf(r.out, "%s\n", strings.Repeat("=", 40))
		for i, e := range multi.Errors {
			fmt.Fprintf(r.out, "\n[%d/%d] ", i+1, multi.Count())
			r.reportRsbindError(e)
		}
		fmt.Fprintln(r.out)
		return
	}
	if multi != nil && multi.Count() == 1 {
		err = multi.Errors[0]
	}

	fmt.Fprintf(r.out, "\nERROR: Code Generation Failed\n")
	fmt.Fprintf(r.out, "=============================\n\n")

	var rsErr errors.RsbindError
	if stderrors.As(err, &rsErr) {
		r.reportRsbindError(rsErr)
	} else {
		fmt.Fprintf(r.out, "Message: %s\n", err.Error())
	}
	fmt.Fprintln(r.out)
}

// reportRsbindError reports an error with its code, location, context and suggestions
func (r *DiagnosticReporter) reportRsbindError(err errors.RsbindError) {
	title := describeCode(err.ErrorCode())
	fmt.Fprintf(r.out, "Type: %s\n", title)
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("-", len(title)+6))
	fmt.Fprintf(r.out, "Message: %s\n", err.Error())

	if loc := err.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n", loc)
	}

	if ctx := err.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}

	if suggestions := err.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}

	if r.verbose && err.Unwrap() != nil {
		r.printErrorChain(err.Unwrap())
	}
}

// describeCode returns a readable title for an error code
func describeCode(code errors.ErrorCode) string {
	switch code {
	case errors.ConfigurationErrorCode:
		return "Configuration Error"
	case errors.UnsupportedTypeErrorCode:
		return "Unsupported Type Combination"
	case errors.SyntaxErrorCode:
		return "Syntax Error"
	case errors.ValidationErrorCode:
		return "Validation Error"
	case errors.SchemaErrorCode:
		return "Model Document Error"
	case errors.GenerationErrorCode, errors.TemplateErrorCode:
		return "Code Generation Error"
	case errors.FileSystemErrorCode:
		return "File System Error"
	default:
		return "Unknown Error"
	}
}

// printContext prints context information in a readable format
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")

	// Print important context items first
	importantKeys := []string{"namespace", "interface", "operation", "position", "type"}
	printed := make(map[string]bool)

	for _, key := range importantKeys {
		if value, exists := context[key]; exists {
			fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), value)
			printed[key] = true
		}
	}

	// Print remaining context items
	var rest []string
	for key := range context {
		if !printed[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")

	for i, suggestion := range suggestions {
		// Format multi-line suggestions nicely
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}
}

// printErrorChain prints the wrapped causes in verbose mode
func (r *DiagnosticReporter) printErrorChain(err error) {
	fmt.Fprintf(r.out, "Error Chain:\n")
	for level := 1; err != nil; level++ {
		fmt.Fprintf(r.out, "   %d. %s\n", level, err.Error())
		err = stderrors.Unwrap(err)
	}
}

// ReportCheck reports the outcome of a check run
func (r *DiagnosticReporter) ReportCheck(report *CheckReport) {
	for _, w := range report.Warnings {
		r.ReportWarning(w)
	}
	if report.UpToDate() {
		return
	}
	for _, group := range []struct {
		title string
		paths []string
	}{
		{"missing", report.Missing},
		{"out of date", report.Stale},
		{"no longer generated", report.Orphaned},
	} {
		for _, path := range group.paths {
			fmt.Fprintf(r.out, "%s: %s\n", path, group.title)
		}
	}
}
