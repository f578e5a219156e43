package cli

import (
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"

	"github.com/toyz/rsbind/internal/errors"
	"github.com/toyz/rsbind/internal/models"
	"github.com/toyz/rsbind/internal/utils"
)

// DefaultOutDir is where bindings are written when neither the command line
// nor the project configuration name a directory
const DefaultOutDir = "."

// Config holds the configuration for the CLI generator
type Config struct {
	// Inputs are model documents or directories searched for them
	Inputs []string

	// OutDir is the root of the generated packages. Each namespace is
	// written to OutDir/<namespace>.
	OutDir string

	// Package overrides the package name of every namespace
	Package string

	// Runtime overrides the import root of the runtime packages
	Runtime string

	// Verbose enables detailed logging and error reporting
	Verbose bool
}

// Validate checks the command line values
func (c Config) Validate() error {
	if err := utils.SliceNotEmpty[string]("inputs")(c.Inputs); err != nil {
		return err
	}
	if c.Package != "" {
		if err := utils.ValidatePackageName("package")(c.Package); err != nil {
			return err
		}
	}
	if c.Runtime != "" {
		if err := utils.ValidateRuntimePath("runtime")(c.Runtime); err != nil {
			return err
		}
	}
	return nil
}

// ProjectConfig is the optional rsbind.yaml file. Its values are defaults
// that model documents and command line flags override.
type ProjectConfig struct {
	Out     string                        `json:"out,omitempty"`
	Package string                        `json:"package,omitempty"`
	Runtime string                        `json:"runtime,omitempty"`
	Aliases map[string]models.AliasImport `json:"aliases,omitempty"`
}

// LoadProjectConfig reads the project configuration at path. A missing file
// yields an empty configuration.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	project := &ProjectConfig{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return project, nil
	}
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	if err := yaml.UnmarshalStrict(data, project); err != nil {
		return nil, errors.WrapConfigurationError(path, "parse", err)
	}
	return project, nil
}

// Apply fills unset command line values from the project configuration
func (c Config) Apply(project *ProjectConfig) Config {
	if project == nil {
		project = &ProjectConfig{}
	}
	if c.OutDir == "" {
		c.OutDir = project.Out
	}
	if c.OutDir == "" {
		c.OutDir = DefaultOutDir
	}
	return c
}

// NamespaceDir returns the directory holding the bindings of namespace
func (c Config) NamespaceDir(namespace string) string {
	return filepath.Join(c.OutDir, namespace)
}

// NamespaceOptions merges the configuration layers for ns. Precedence from
// lowest to highest: project configuration, the namespace document, the
// command line.
func (c Config) NamespaceOptions(ns *models.Namespace, project *ProjectConfig) map[string]any {
	options := map[string]any{}
	if project != nil {
		if project.Package != "" {
			options[models.OptionPackage] = project.Package
		}
		if project.Runtime != "" {
			options[models.OptionRuntime] = project.Runtime
		}
		if len(project.Aliases) > 0 {
			aliases := map[string]any{}
			for name, alias := range project.Aliases {
				aliases[name] = aliasOptions(alias)
			}
			options[models.OptionAliases] = aliases
		}
	}

	for key, value := range ns.Options {
		if key == models.OptionAliases {
			if own, ok := value.(map[string]any); ok {
				merged, _ := options[models.OptionAliases].(map[string]any)
				if merged == nil {
					merged = map[string]any{}
				}
				for name, alias := range own {
					merged[name] = alias
				}
				options[key] = merged
				continue
			}
		}
		options[key] = value
	}

	if c.Package != "" {
		options[models.OptionPackage] = c.Package
	}
	if c.Runtime != "" {
		options[models.OptionRuntime] = c.Runtime
	}
	return options
}

func aliasOptions(alias models.AliasImport) map[string]any {
	entry := map[string]any{"type": alias.Type}
	if alias.Import != "" {
		entry["import"] = alias.Import
	}
	if alias.Parse != "" {
		entry["parse"] = alias.Parse
	}
	if alias.Format != "" {
		entry["format"] = alias.Format
	}
	return entry
}
