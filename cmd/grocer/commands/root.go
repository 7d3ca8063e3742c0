// Package commands implements the CLI commands for grocer.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/grocer/internal/app"
	"go.trai.ch/grocer/internal/build"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for grocer.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	stopTracing func(context.Context) error
	traceFile   io.Closer
}

// Application represents the application logic interface.
type Application interface {
	Load(ctx context.Context, names []string, opts app.LoadOptions) (map[string]json.RawMessage, error)
	Status(ctx context.Context, opts app.StatusOptions) (*app.StatusReport, error)
	Clean(ctx context.Context, opts app.CleanOptions) error
	SaveAssets(ctx context.Context, urls []string, opts app.Options) ([]string, error)
	ConfigureLogging(verbose, jsonLogs bool)
	EnableTracing(w io.Writer) (func(context.Context) error, error)
	WriteMetrics(path string) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "grocer",
		Short:         "Build-time content loader with a filesystem query cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to grocer.yaml or a directory to search from")
	flags.Bool("per-call", false, "Check content staleness on every loader run")
	flags.BoolP("verbose", "v", false, "Log debug output and every cache hit and miss")
	flags.Bool("json-logs", false, "Emit logs as JSON")
	flags.String("trace", "", "Write finished spans as JSON to this file (- for stderr)")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file on exit")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = c.setup

	rootCmd.AddCommand(c.newLoadCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newAssetCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
// Traces are flushed and metrics written even when the command fails.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	err := c.rootCmd.Execute()
	return errors.Join(err, c.teardown(ctx))
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	c.app.ConfigureLogging(verbose, jsonLogs)

	tracePath, _ := cmd.Flags().GetString("trace")
	if tracePath == "" {
		return nil
	}

	w := cmd.ErrOrStderr()
	if tracePath != "-" {
		//nolint:gosec // Path is supplied by the user on the command line
		f, err := os.Create(tracePath)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create trace file"), "path", tracePath)
		}
		c.traceFile = f
		w = f
	}

	stop, err := c.app.EnableTracing(w)
	if err != nil {
		return err
	}
	c.stopTracing = stop
	return nil
}

func (c *CLI) teardown(ctx context.Context) error {
	var errs []error

	if c.stopTracing != nil {
		errs = append(errs, c.stopTracing(ctx))
		c.stopTracing = nil
	}
	if c.traceFile != nil {
		errs = append(errs, c.traceFile.Close())
		c.traceFile = nil
	}

	if path, _ := c.rootCmd.PersistentFlags().GetString("metrics-file"); path != "" {
		errs = append(errs, c.app.WriteMetrics(path))
	}

	return errors.Join(errs...)
}

func globalOptions(cmd *cobra.Command) app.Options {
	configPath, _ := cmd.Flags().GetString("config")
	perCall, _ := cmd.Flags().GetBool("per-call")
	verbose, _ := cmd.Flags().GetBool("verbose")
	return app.Options{
		ConfigPath: configPath,
		PerCall:    perCall,
		Verbose:    verbose,
	}
}
