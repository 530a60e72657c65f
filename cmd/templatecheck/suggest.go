package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/templatecheck/internal/catalog"
	"github.com/dshills/templatecheck/internal/check"
	"github.com/dshills/templatecheck/internal/llm"
)

// suggestFlags holds the parsed flags for the suggest command.
type suggestFlags struct {
	provider    string
	model       string
	maxTokens   int
	temperature float64
	debug       bool
}

func newSuggestCmd(stdout, stderr io.Writer) *cobra.Command {
	var f suggestFlags
	cmd := &cobra.Command{
		Use:   "suggest [path]",
		Short: "Ask an LLM for concrete fixes to non-compliant documents",
		Long: "Runs the compliance check and asks an LLM provider which edits would bring each\n" +
			"non-compliant file in line with its template. Scores are never changed; the\n" +
			"suggestions are printed as JSON.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectRoot, err := resolveRoot(args)
			if err != nil {
				return err
			}
			return runSuggest(cmd, projectRoot, f, stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&f.provider, "provider", llm.ProviderAnthropic, "LLM provider: anthropic, openai or google")
	cmd.Flags().StringVar(&f.model, "model", "", "model name (default depends on provider)")
	cmd.Flags().IntVar(&f.maxTokens, "max-tokens", 4096, "maximum tokens in the model response")
	cmd.Flags().Float64Var(&f.temperature, "temperature", 0.2, "sampling temperature (0-2)")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "print prompts to stderr before sending")
	return cmd
}

// validate checks flag values and the provider's API key before any work is
// done. Failures map to exitCodeBadInput.
func (f suggestFlags) validate(projectRoot string) error {
	env, ok := llm.APIKeyEnv(f.provider)
	if !ok {
		return fmt.Errorf("unknown provider %q (want anthropic, openai or google)", f.provider)
	}
	if os.Getenv(env) == "" {
		return fmt.Errorf("%s environment variable not set", env)
	}
	if f.maxTokens <= 0 {
		return fmt.Errorf("--max-tokens must be positive, got %d", f.maxTokens)
	}
	if f.temperature < 0 || f.temperature > 2 {
		return fmt.Errorf("--temperature must be between 0 and 2, got %g", f.temperature)
	}
	info, err := os.Stat(projectRoot)
	if err != nil {
		return fmt.Errorf("project root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project root %s is not a directory", projectRoot)
	}
	return nil
}

func runSuggest(cmd *cobra.Command, projectRoot string, f suggestFlags, stdout, stderr io.Writer) error {
	if err := f.validate(projectRoot); err != nil {
		return &exitError{code: exitCodeBadInput, err: err}
	}

	level := slog.LevelInfo
	if f.debug {
		level = slog.LevelDebug
	}
	logger := newLogger(stderr, level)

	cat := catalog.Default()
	report, err := check.New(check.Config{Catalog: cat, Logger: logger}).Run(cmd.Context(), projectRoot)
	if err != nil {
		return err
	}

	opts := llm.Options{
		Provider:    f.provider,
		Model:       f.model,
		MaxTokens:   f.maxTokens,
		Temperature: f.temperature,
	}
	if f.debug {
		opts.Debug = stderr
	}

	set, err := llm.Suggest(cmd.Context(), report, cat, opts)
	if err != nil {
		if errors.Is(err, llm.ErrInvalidModelOutput) {
			return &exitError{code: exitCodeBadOutput, err: err}
		}
		return &exitError{code: exitCodeAPIError, err: err}
	}

	b, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal suggestions: %w", err)
	}
	fmt.Fprintln(stdout, string(b))
	return nil
}
