package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/toyz/rsbind/internal/errors"
	"github.com/toyz/rsbind/internal/generator"
	"github.com/toyz/rsbind/internal/models"
	"github.com/toyz/rsbind/internal/schema"
	"github.com/toyz/rsbind/internal/utils"
)

// NamespaceResult is the outcome of generating one model document
type NamespaceResult struct {
	Source    string                 // model document
	Namespace string                 // namespace declared by the document
	Config    models.Config          // effective configuration
	Dir       string                 // output directory
	Files     []models.GeneratedFile // emitted files
	Failures  error                  // operations that could not be bound
}

// Runner coordinates the CLI generation process
type Runner struct {
	generator     generator.CodeGenerator
	files         *utils.FileProcessor
	diagnostics   *utils.DiagnosticSystem
	reporter      *DiagnosticReporter
	project       *ProjectConfig
	maxConcurrent int
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithGenerator replaces the code generator
func WithGenerator(g generator.CodeGenerator) RunnerOption {
	return func(r *Runner) { r.generator = g }
}

// WithProjectConfig sets the rsbind.yaml defaults
func WithProjectConfig(project *ProjectConfig) RunnerOption {
	return func(r *Runner) { r.project = project }
}

// WithConcurrency bounds the number of documents generated at once
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.maxConcurrent = n
		}
	}
}

// NewRunner creates a new CLI runner reporting through diagnostics
func NewRunner(diagnostics *utils.DiagnosticSystem, opts ...RunnerOption) *Runner {
	r := &Runner{
		generator:     generator.NewGenerator(),
		files:         utils.NewFileProcessor(),
		diagnostics:   diagnostics,
		reporter:      NewDiagnosticReporter(diagnostics.Level() >= utils.DiagnosticVerbose),
		project:       &ProjectConfig{},
		maxConcurrent: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reporter returns the error reporter of the runner
func (r *Runner) Reporter() *DiagnosticReporter {
	return r.reporter
}

// Plan loads every model document named by cfg and generates its bindings
// in memory. Documents are processed concurrently; results keep input
// order. Load and configuration errors abort the plan, unbound operations
// are recorded per result.
func (r *Runner) Plan(ctx context.Context, cfg Config) ([]NamespaceResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Apply(r.project)

	sources, err := r.files.FindModelFiles(cfg.Inputs)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, errors.New(errors.FileSystemErrorCode, "no model documents found").
			WithContext("inputs", cfg.Inputs).
			WithSuggestions(
				"Pass .yaml, .yml or .json model documents",
				"Check that the directories you passed contain model documents",
			)
	}
	r.diagnostics.Verbose("Found %d model documents", len(sources))

	results := make([]NamespaceResult, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrent)
	for i, source := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := r.generate(cfg, source)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Two documents declaring the same namespace would overwrite each other
	seen := map[string]string{}
	for _, result := range results {
		if other, ok := seen[result.Dir]; ok {
			return nil, errors.Newf(errors.ValidationErrorCode,
				"namespace %q is declared by both %s and %s", result.Namespace, other, result.Source).
				WithSuggestion("Give every model document a distinct namespace")
		}
		seen[result.Dir] = result.Source
	}
	return results, nil
}

func (r *Runner) generate(cfg Config, source string) (NamespaceResult, error) {
	ns, err := schema.LoadFile(source)
	if err != nil {
		return NamespaceResult{}, err
	}
	ns.Options = cfg.NamespaceOptions(ns, r.project)

	nsCfg, err := models.ParseConfig(ns.Options)
	if err != nil {
		return NamespaceResult{}, errors.WrapConfigurationError(source, "parse", err)
	}

	files, err := r.generator.GenerateWithConfig(ns, nsCfg)
	result := NamespaceResult{
		Source:    source,
		Namespace: ns.Name,
		Config:    nsCfg,
		Dir:       cfg.NamespaceDir(ns.Name),
		Files:     files,
	}
	if err != nil {
		if _, partial := err.(*errors.MultipleErrors); !partial {
			return NamespaceResult{}, err
		}
		result.Failures = err
	}
	return result, nil
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	NamespacesProcessed int
	FilesWritten        []string
	FilesUnchanged      []string
	FilesRemoved        []string
	Failures            int
	Duration            time.Duration
}

// Stats renders the summary for DiagnosticSystem.Summary
func (s *GenerationSummary) Stats() map[string]interface{} {
	return map[string]interface{}{
		"Namespaces":      s.NamespacesProcessed,
		"Files written":   len(s.FilesWritten),
		"Files unchanged": len(s.FilesUnchanged),
		"Files removed":   len(s.FilesRemoved),
		"Unbound":         s.Failures,
		"Duration":        s.Duration.Round(time.Millisecond),
	}
}

// Generate plans cfg and writes the result. Files whose content did not
// change are left untouched and generated files the namespace no longer
// needs are removed. Unbound operations are reported after writing; the
// returned error is then a *errors.MultipleErrors.
func (r *Runner) Generate(ctx context.Context, cfg Config) (*GenerationSummary, error) {
	start := time.Now()
	summary := &GenerationSummary{}

	r.diagnostics.PhaseHeader("Generating bindings")
	results, err := r.Plan(ctx, cfg)
	if err != nil {
		return summary, err
	}

	failures := errors.NewMultipleErrors()
	for _, result := range results {
		summary.NamespacesProcessed++
		if err := r.write(result, summary); err != nil {
			return summary, err
		}
		if result.Failures != nil {
			collect(failures, result.Failures)
			r.diagnostics.PhaseFailure(fmt.Sprintf("%s: some operations were not bound%s", result.Namespace, unboundList(result.Failures)))
		} else {
			r.diagnostics.PhaseItem(fmt.Sprintf("%s (%s)", result.Namespace, result.Source))
		}
	}

	summary.Failures = failures.Count()
	summary.Duration = time.Since(start)
	return summary, failures.ErrorOrNil()
}

func (r *Runner) write(result NamespaceResult, summary *GenerationSummary) error {
	produced := map[string]bool{}
	for _, file := range result.Files {
		path := filepath.Join(result.Dir, file.FileName)
		produced[path] = true

		existing, err := os.ReadFile(path)
		if err == nil && bytes.Equal(existing, file.Content) {
			summary.FilesUnchanged = append(summary.FilesUnchanged, path)
			r.diagnostics.Verbose("Unchanged %s", path)
			continue
		}

		r.diagnostics.PhaseProgress("Writing " + path)
		if err := utils.WriteFile(path, file.Content); err != nil {
			return err
		}
		summary.FilesWritten = append(summary.FilesWritten, path)
	}

	stale, err := r.staleFiles(result.Dir, produced)
	if err != nil {
		return err
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return errors.WrapFileSystemError("remove", path, err)
		}
		r.diagnostics.Verbose("Removed %s", path)
		summary.FilesRemoved = append(summary.FilesRemoved, path)
	}
	return nil
}

// staleFiles lists generated files directly inside dir that are not in produced
func (r *Runner) staleFiles(dir string, produced map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapFileSystemError("read", dir, err)
	}

	var stale []string
	filter := utils.GeneratedFileFilter()
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !produced[path] && filter(path, entry) {
			stale = append(stale, path)
		}
	}
	return stale, nil
}

// CheckReport lists the differences between the model documents and the
// generated files on disk
type CheckReport struct {
	Missing  []string // files generation would create
	Stale    []string // files whose content differs
	Orphaned []string // generated files generation would remove
	Warnings []string
	Failures int
}

// UpToDate reports whether the generated files match the model documents
func (c *CheckReport) UpToDate() bool {
	return len(c.Missing) == 0 && len(c.Stale) == 0 && len(c.Orphaned) == 0 && c.Failures == 0
}

// Check plans cfg without writing and compares the result with the files on
// disk. It also verifies that the module receiving each namespace requires
// the runtime the bindings import.
func (r *Runner) Check(ctx context.Context, cfg Config) (*CheckReport, error) {
	results, err := r.Plan(ctx, cfg)
	if err != nil {
		return nil, err
	}

	report := &CheckReport{}
	failures := errors.NewMultipleErrors()
	for _, result := range results {
		if result.Failures != nil {
			collect(failures, result.Failures)
		}

		produced := map[string]bool{}
		for _, file := range result.Files {
			path := filepath.Join(result.Dir, file.FileName)
			produced[path] = true
			existing, err := os.ReadFile(path)
			switch {
			case os.IsNotExist(err):
				report.Missing = append(report.Missing, path)
			case err != nil:
				return nil, errors.WrapFileSystemError("read", path, err)
			case !bytes.Equal(existing, file.Content):
				report.Stale = append(report.Stale, path)
			}
		}
		orphaned, err := r.staleFiles(result.Dir, produced)
		if err != nil {
			return nil, err
		}
		report.Orphaned = append(report.Orphaned, orphaned...)

		if warning := runtimeWarning(result); warning != "" {
			report.Warnings = append(report.Warnings, warning)
		}
	}

	report.Failures = failures.Count()
	sort.Strings(report.Warnings)
	return report, failures.ErrorOrNil()
}

// runtimeWarning explains why the bindings of result may not build in their
// target module
func runtimeWarning(result NamespaceResult) string {
	if len(result.Files) == 0 {
		return ""
	}
	mod, err := utils.FindGoModule(result.Dir)
	if err != nil {
		return fmt.Sprintf("%s: no go.mod found for %s", result.Namespace, result.Dir)
	}
	if !mod.Provides(result.Config.Runtime) {
		return fmt.Sprintf("%s: module %s does not require %s", result.Namespace, mod.Path, result.Config.Runtime)
	}
	var missing []string
	for _, name := range result.Config.AliasNames() {
		path := result.Config.Aliases[name].Import
		if path != "" && strings.Contains(strings.SplitN(path, "/", 2)[0], ".") && !mod.Provides(path) {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return fmt.Sprintf("%s: module %s does not require %s", result.Namespace, mod.Path, strings.Join(missing, ", "))
	}
	return ""
}

// unboundList renders the operations named by failures for a progress line
func unboundList(failures error) string {
	var multi *errors.MultipleErrors
	if !stderrors.As(failures, &multi) {
		return ""
	}
	ops := multi.Operations()
	if len(ops) == 0 {
		return ""
	}
	return " (" + strings.Join(ops, ", ") + ")"
}

// collect appends the entries of err to failures
func collect(failures *errors.MultipleErrors, err error) {
	if multi, ok := err.(*errors.MultipleErrors); ok {
		for _, e := range multi.Errors {
			failures.Add(e)
		}
		return
	}
	if rsErr, ok := err.(errors.RsbindError); ok {
		failures.Add(rsErr)
		return
	}
	failures.Add(errors.Wrap(errors.UnknownErrorCode, err.Error(), err))
}

// Clean removes generated files below the given directories
func (r *Runner) Clean(dirs []string) ([]string, error) {
	return NewCleaner(r.files).CleanGeneratedFiles(dirs)
}
