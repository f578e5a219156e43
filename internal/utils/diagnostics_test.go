package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewDiagnosticSystem(level).WithWriters(&out, &errOut), &out, &errOut
}

func TestDiagnosticSystem_Levels(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticWarn)

	d.Info("hidden %d", 1)
	d.Verbose("hidden")
	d.Warn("careful %s", "now")
	d.Error("broken")

	assert.Empty(t, out.String())
	assert.Equal(t, "[WARN] careful now\n[ERROR] broken\n", errOut.String())
}

func TestDiagnosticSystem_Silent(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticSilent)

	d.Error("broken")
	d.PhaseFailure("failed")
	d.GenerationComplete()

	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestDiagnosticSystem_Phases(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)

	d.Header("Generating bindings")
	d.PhaseHeader("Analysis")
	d.PhaseItem("chat: 3 operations")
	d.PhaseProgress("Writing chat/bindings_export.go")
	d.Indent()
	d.List("item")
	d.Unindent()
	d.Unindent()

	assert.Equal(t, "rsbind: Generating bindings\n"+
		"Analysis:\n"+
		"✓ chat: 3 operations\n"+
		"✏ Writing chat/bindings_export.go\n"+
		"  - item\n", out.String())
}

func TestDiagnosticSystem_SummarySorted(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)

	d.Summary("Summary", map[string]interface{}{"namespaces": 2, "files": 5, "errors": 0})

	assert.Equal(t, "\nSummary\n   errors: 0\n   files: 5\n   namespaces: 2\n\n", out.String())
}
