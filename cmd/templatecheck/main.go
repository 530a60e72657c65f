package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/templatecheck/internal/catalog"
	"github.com/dshills/templatecheck/internal/check"
	"github.com/dshills/templatecheck/internal/render"
	"github.com/dshills/templatecheck/internal/schema"
)

// Exit codes. 0 is success; anything uncaught exits 1.
const (
	exitCodeFailure   = 1
	exitCodeBadInput  = 3
	exitCodeAPIError  = 4
	exitCodeBadOutput = 5
)

// exitError carries a process exit code through cobra's error return.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitCodeFailure
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "templatecheck [path]",
		Short: "Check project documentation against its templates",
		Long: "Scans the documentation directories of a project, scores every Markdown file against\n" +
			"the template it was written from, and writes JSON, HTML and Markdown reports to\n" +
			"<path>/" + check.DefaultOutputDir + ".",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectRoot, err := resolveRoot(args)
			if err != nil {
				return err
			}
			_, err = runCheck(cmd.Context(), projectRoot, stdout, newLogger(stderr, slog.LevelInfo))
			return err
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newCatalogCmd(stdout))
	root.AddCommand(newSuggestCmd(stdout, stderr))
	return root
}

func newCatalogCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the built-in template catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return catalog.Default().Encode(stdout)
		},
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveRoot returns the project root named by args, or the working
// directory when none is given.
func resolveRoot(args []string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return wd, nil
}

// runCheck performs one compliance run, writes the report files under
// projectRoot and prints the console summary to stdout.
func runCheck(ctx context.Context, projectRoot string, stdout io.Writer, logger *slog.Logger) (*schema.ComplianceReport, error) {
	report, err := check.New(check.Config{Logger: logger}).Run(ctx, projectRoot)
	if err != nil {
		return nil, err
	}

	outDir := filepath.Join(projectRoot, check.DefaultOutputDir)
	outputs, err := check.WriteReports(report, outDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("reports written", "json", outputs.JSON, "html", outputs.HTML, "markdown", outputs.Markdown)

	fmt.Fprint(stdout, render.RenderConsole(report))
	return report, nil
}
