package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/rsbind/internal/analysis"
)

func TestImportManager_GenerateImports(t *testing.T) {
	im := NewImportManager()
	im.AddDependencies([]analysis.Dependency{
		{Path: "time"},
		{Path: "github.com/toyz/rsbind/pkg/rx/mono"},
		{Path: "context"},
		{Path: "example.com/ids/v2", Name: "identity"},
	})
	im.AddImport("context")

	want := `import (
	"context"
	"time"

	identity "example.com/ids/v2"
	"github.com/toyz/rsbind/pkg/rx/mono"
)
`
	assert.Equal(t, want, im.GenerateImports())
}

func TestImportManager_Single(t *testing.T) {
	im := NewImportManager()
	im.AddImport("fmt")
	assert.Equal(t, "import \"fmt\"\n", im.GenerateImports())

	assert.Equal(t, "", NewImportManager().GenerateImports())
}

func TestImportManager_Merge(t *testing.T) {
	a := NewImportManager()
	a.AddImport("context")
	b := NewImportManager()
	b.AddImport("github.com/google/uuid")

	a.Merge(b)
	assert.Contains(t, a.GenerateImports(), `"github.com/google/uuid"`)
}
