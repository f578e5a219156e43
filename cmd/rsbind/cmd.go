package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toyz/rsbind/internal/cli"
	"github.com/toyz/rsbind/internal/generator"
	"github.com/toyz/rsbind/internal/utils"
)

// errReported marks failures whose details were already printed
type errReported struct{ err error }

func (e errReported) Error() string { return e.err.Error() }

type options struct {
	out        string
	pkg        string
	runtime    string
	configFile string
	verbose    bool
	quiet      bool
	debug      bool
}

func (o *options) config(args []string) cli.Config {
	return cli.Config{
		Inputs:  args,
		OutDir:  o.out,
		Package: o.pkg,
		Runtime: o.runtime,
		Verbose: o.verbose,
	}
}

func (o *options) diagnostics(stdout, stderr io.Writer) *utils.DiagnosticSystem {
	level := utils.DiagnosticInfo
	switch {
	case o.quiet:
		level = utils.DiagnosticError
	case o.debug:
		level = utils.DiagnosticDebug
	case o.verbose:
		level = utils.DiagnosticVerbose
	}
	d := utils.NewDiagnosticSystem(level)
	if stdout != io.Writer(os.Stdout) {
		d.WithWriters(stdout, stderr)
	}
	return d
}

func (o *options) runner(d *utils.DiagnosticSystem, stderr io.Writer) (*cli.Runner, error) {
	project, err := cli.LoadProjectConfig(o.configFile)
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if o.debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		if logger, err = cfg.Build(); err != nil {
			return nil, err
		}
	}

	runner := cli.NewRunner(d,
		cli.WithProjectConfig(project),
		cli.WithGenerator(generator.NewGenerator(generator.WithLogger(logger))),
	)
	runner.Reporter().WithWriter(stderr)
	return runner, nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "rsbind",
		Short:         "Generate reactive-stream bindings from typed interface models",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", utils.ConfigFileName, "project configuration file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output and detailed error reporting")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only show errors and final results")
	flags.BoolVar(&opts.debug, "debug", false, "log generator internals to stderr")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	generateFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVarP(&opts.out, "out", "o", "", "root directory of the generated packages (default \".\")")
		cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "package name of the generated files")
		cmd.Flags().StringVar(&opts.runtime, "runtime", "", "import root of the runtime packages")
	}

	generateCmd := &cobra.Command{
		Use:   "generate <model files or directories...>",
		Short: "Generate bindings for model documents",
		Long: `The generate command writes bindings_types.go, bindings_export.go and bindings_import.go
for every namespace into <out>/<namespace>. Operations that cannot be bound are reported
and the remaining operations are still generated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := opts.diagnostics(stdout, stderr)
			runner, err := opts.runner(d, stderr)
			if err != nil {
				return err
			}

			d.Header("Generating bindings")
			d.Verbose("Inputs: %s", strings.Join(args, ", "))
			summary, err := runner.Generate(cmd.Context(), opts.config(args))
			if err != nil {
				runner.Reporter().ReportError(err)
				if summary == nil || summary.NamespacesProcessed == 0 {
					return errReported{err}
				}
			}
			d.Summary("Summary", summary.Stats())
			if err != nil {
				return errReported{err}
			}
			d.GenerationComplete()
			return nil
		},
	}
	generateFlags(generateCmd)

	checkCmd := &cobra.Command{
		Use:   "check <model files or directories...>",
		Short: "Verify that generated bindings are up to date",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := opts.diagnostics(stdout, stderr)
			runner, err := opts.runner(d, stderr)
			if err != nil {
				return err
			}

			report, err := runner.Check(cmd.Context(), opts.config(args))
			if err != nil {
				runner.Reporter().ReportError(err)
				if report == nil {
					return errReported{err}
				}
			}
			runner.Reporter().ReportCheck(report)
			if !report.UpToDate() {
				return errReported{fmt.Errorf("generated bindings are out of date, run rsbind generate")}
			}
			d.PhaseItem("Bindings are up to date")
			return nil
		},
	}
	generateFlags(checkCmd)

	cleanCmd := &cobra.Command{
		Use:   "clean [directories...]",
		Short: "Delete generated binding files",
		Long:  `The clean command removes every file carrying the rsbind generated header. Patterns like ./... are accepted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := opts.diagnostics(stdout, stderr)
			runner, err := opts.runner(d, stderr)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				project, err := cli.LoadProjectConfig(opts.configFile)
				if err != nil {
					return err
				}
				args = []string{cli.Config{}.Apply(project).OutDir}
			}

			removed, err := runner.Clean(args)
			for _, path := range removed {
				d.PhaseProgress("Removed " + path)
			}
			if err != nil {
				return err
			}
			d.PhaseItem(fmt.Sprintf("Removed %d generated files", len(removed)))
			return nil
		},
	}

	root.AddCommand(generateCmd, checkCmd, cleanCmd)
	return root
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if _, reported := err.(errReported); !reported {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
