package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/rsbind/internal/models"
)

func TestLoadProjectConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeDocument(t, dir, "rsbind.yaml", `
out: internal/bindings
package: bindings
aliases:
  UUID:
    import: github.com/google/uuid
    type: uuid.UUID
    parse: uuid.Parse
    format: String
`)

	project, err := LoadProjectConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "internal/bindings", project.Out)
	assert.Equal(t, "bindings", project.Package)
	assert.Equal(t, models.AliasImport{
		Import: "github.com/google/uuid",
		Type:   "uuid.UUID",
		Parse:  "uuid.Parse",
		Format: "String",
	}, project.Aliases["UUID"])
}

func TestLoadProjectConfig_Missing(t *testing.T) {
	project, err := LoadProjectConfig(filepath.Join(t.TempDir(), "rsbind.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &ProjectConfig{}, project)
}

func TestLoadProjectConfig_UnknownKey(t *testing.T) {
	path := writeDocument(t, t.TempDir(), "rsbind.yaml", "output: gen\n")
	_, err := LoadProjectConfig(path)
	assert.Error(t, err)
}

func TestConfig_Apply(t *testing.T) {
	assert.Equal(t, DefaultOutDir, Config{}.Apply(nil).OutDir)
	assert.Equal(t, "gen", Config{}.Apply(&ProjectConfig{Out: "gen"}).OutDir)
	assert.Equal(t, "cli", Config{OutDir: "cli"}.Apply(&ProjectConfig{Out: "gen"}).OutDir)
}

func TestConfig_NamespaceOptions(t *testing.T) {
	project := &ProjectConfig{
		Package: "shared",
		Runtime: "example.com/runtime",
		Aliases: map[string]models.AliasImport{
			"UUID": {Import: "github.com/google/uuid", Type: "uuid.UUID"},
			"Date": {Type: "string"},
		},
	}
	ns := models.NewNamespace("users").
		WithOption(models.OptionAliases, map[string]any{
			"UUID": map[string]any{"type": "string"},
		}).
		Build()

	options := Config{Runtime: "example.com/override"}.NamespaceOptions(ns, project)
	cfg, err := models.ParseConfig(options)
	require.NoError(t, err)

	assert.Equal(t, "shared", cfg.Package)
	assert.Equal(t, "example.com/override", cfg.Runtime)
	assert.Equal(t, models.AliasImport{Type: "string"}, cfg.Aliases["UUID"])
	assert.Equal(t, models.AliasImport{Type: "string"}, cfg.Aliases["Date"])
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.NoError(t, Config{Inputs: []string{"a.yaml"}}.Validate())
	assert.Error(t, Config{Inputs: []string{"a.yaml"}, Package: "func"}.Validate())
	assert.Error(t, Config{Inputs: []string{"a.yaml"}, Runtime: "bad path/"}.Validate())
}
