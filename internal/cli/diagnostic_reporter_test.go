package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/rsbind/internal/errors"
)

func TestDiagnosticReporter_ConfigurationError(t *testing.T) {
	var out bytes.Buffer
	reporter := NewDiagnosticReporter(false).WithWriter(&out)

	reporter.ReportError(errors.NewAmbiguousStreamError("chat", "Room", "merge", []string{"a", "b"}))

	text := out.String()
	assert.Contains(t, text, "Type: Configuration Error")
	assert.Contains(t, text, "Message: operation 'Room.merge' in namespace 'chat'")
	assert.Contains(t, text, "   Namespace: chat\n   Interface: Room\n   Operation: merge\n")
	assert.Contains(t, text, "   Stream Parameters: [a b]")
	assert.Contains(t, text, "1. Keep a single stream parameter")
}

func TestDiagnosticReporter_MultipleErrors(t *testing.T) {
	var out bytes.Buffer
	reporter := NewDiagnosticReporter(false).WithWriter(&out)

	multi := errors.CollectErrors(
		errors.NewAmbiguousStreamError("chat", "", "merge", []string{"a", "b"}),
		errors.NewUnsupportedTypeError("nested", "return", "stream<stream<string>>", "streams cannot nest"),
	)
	reporter.ReportError(multi)

	text := out.String()
	assert.Contains(t, text, "ERROR: 2 operations could not be bound")
	assert.Contains(t, text, "[1/2] Type: Configuration Error")
	assert.Contains(t, text, "[2/2] Type: Unsupported Type Combination")
}

func TestDiagnosticReporter_DocumentProblems(t *testing.T) {
	var out bytes.Buffer
	reporter := NewDiagnosticReporter(false).WithWriter(&out)

	reporter.ReportError(errors.CollectErrors(
		errors.NewValidationErrorWithValue("namespace", "", "is required"),
		errors.NewValidationErrorWithValue("interfaces[0].name", "", "is required"),
	))

	text := out.String()
	assert.Contains(t, text, "ERROR: 2 problems found")
	assert.NotContains(t, text, "could not be bound")
	assert.Contains(t, text, "[2/2] Type: Validation Error")
}

func TestDiagnosticReporter_SingleEntryUnwrapped(t *testing.T) {
	var out bytes.Buffer
	reporter := NewDiagnosticReporter(false).WithWriter(&out)

	reporter.ReportError(errors.CollectErrors(errors.NewAmbiguousStreamError("chat", "", "merge", []string{"a", "b"})))

	assert.Contains(t, out.String(), "ERROR: Code Generation Failed")
	assert.NotContains(t, out.String(), "Error 0")
	assert.Contains(t, out.String(), "   Operation: merge")
}

func TestDiagnosticReporter_PlainError(t *testing.T) {
	var out bytes.Buffer
	reporter := NewDiagnosticReporter(true).WithWriter(&out)

	reporter.ReportError(fmt.Errorf("disk full"))
	reporter.ReportError(nil)

	assert.Contains(t, out.String(), "Message: disk full")
}

func TestDiagnosticReporter_VerboseChain(t *testing.T) {
	var out bytes.Buffer
	reporter := NewDiagnosticReporter(true).WithWriter(&out)

	reporter.ReportError(errors.WrapFileSystemError("read", "chat.yaml", fmt.Errorf("permission denied")))

	assert.Contains(t, out.String(), "Type: File System Error")
	assert.Contains(t, out.String(), "Error Chain:\n   1. permission denied")
}

func TestDiagnosticReporter_ReportCheck(t *testing.T) {
	var out bytes.Buffer
	reporter := NewDiagnosticReporter(false).WithWriter(&out)

	reporter.ReportCheck(&CheckReport{
		Missing:  []string{"chat/bindings_types.go"},
		Stale:    []string{"chat/bindings_export.go"},
		Warnings: []string{"chat: no go.mod found for chat"},
	})

	text := out.String()
	assert.Contains(t, text, "chat: no go.mod found for chat")
	assert.Contains(t, text, "chat/bindings_types.go: missing")
	assert.Contains(t, text, "chat/bindings_export.go: out of date")
}
