package generator

import (
	"go.uber.org/zap"

	"github.com/toyz/rsbind/internal/analysis"
	"github.com/toyz/rsbind/internal/errors"
	"github.com/toyz/rsbind/internal/models"
	"github.com/toyz/rsbind/internal/templates"
	"github.com/toyz/rsbind/internal/utils"
)

// Generator implements the CodeGenerator interface
type Generator struct {
	logger *zap.Logger
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the logger used to trace generation
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a new code generator instance
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate reads the configuration of ns from its options map and generates
// its bindings
func (g *Generator) Generate(ns *models.Namespace) ([]models.GeneratedFile, error) {
	if ns == nil {
		return nil, errors.GenerateError("namespace cannot be nil")
	}
	cfg, err := models.ParseConfig(ns.Options)
	if err != nil {
		return nil, err
	}
	return g.GenerateWithConfig(ns, cfg)
}

// GenerateWithConfig generates the types, export and import files of ns.
//
// Operations that cannot be bound are reported through the returned
// *errors.MultipleErrors while the files for the remaining operations are
// still returned. Any other error aborts generation and no files are
// returned.
func (g *Generator) GenerateWithConfig(ns *models.Namespace, cfg models.Config) ([]models.GeneratedFile, error) {
	if ns == nil {
		return nil, errors.GenerateError("namespace cannot be nil")
	}
	log := g.logger.With(zap.String("namespace", ns.Name), zap.String("package", cfg.Package))

	bindings, failures := analysis.AnalyzeNamespace(ns)
	if failures != nil {
		log.Warn("some operations cannot be bound", zap.Error(failures))
	}
	log.Debug("analyzed namespace", zap.Int("bindings", len(bindings)))

	emitter := templates.NewEmitter(ns, cfg)
	stages := []struct {
		name string
		emit func([]*analysis.Binding) ([]byte, error)
	}{
		{templates.TypesFileName, emitter.Types},
		{templates.ExportFileName, emitter.Export},
		{templates.ImportFileName, emitter.Import},
	}

	var files []models.GeneratedFile
	for _, stage := range stages {
		src, err := stage.emit(bindings)
		if err != nil {
			return nil, err
		}
		if src == nil {
			log.Debug("nothing to emit", zap.String("file", stage.name))
			continue
		}
		formatted, err := utils.FormatGoCode(stage.name, src)
		if err != nil {
			return nil, errors.WrapGenerateError("format", stage.name, err)
		}
		files = append(files, models.GeneratedFile{
			Namespace: ns.Name,
			FileName:  stage.name,
			Content:   formatted,
		})
		log.Debug("emitted file", zap.String("file", stage.name), zap.Int("bytes", len(formatted)))
	}

	return files, failures
}
