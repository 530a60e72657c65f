// Package llm asks an LLM provider for concrete remediation steps for the
// files in a compliance report: prompt construction, response validation and
// the single repair attempt. Scores are never taken from the model.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/dshills/templatecheck/internal/catalog"
	"github.com/dshills/templatecheck/internal/render"
	"github.com/dshills/templatecheck/internal/schema"
)

// ErrInvalidModelOutput is returned when both the initial and repair LLM
// responses fail validation. The caller should exit with code 5.
var ErrInvalidModelOutput = errors.New("llm: invalid model output after repair attempt")

// Provider is the interface for LLM backends.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// NewProvider is the factory for creating LLM providers. It is a package-level
// variable so tests can replace it with a mock without modifying the call site.
// Tests must restore the original value; use t.Cleanup to do so safely.
var NewProvider func(providerName, model string) (Provider, error) = defaultNewProvider

// Options configures a Suggest call.
type Options struct {
	Provider    string
	MaxTokens   int
	Temperature float64
	Model       string
	// Debug, when set, receives the prompts before they are sent.
	Debug io.Writer
}

// ValidationError records a single validation failure on an LLM response.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// Suggest builds a prompt from report and cat, calls the provider, validates
// the response, and performs one repair attempt if validation fails.
func Suggest(
	ctx context.Context,
	report *schema.ComplianceReport,
	cat *catalog.Catalog,
	opts Options,
) (*schema.SuggestionSet, error) {
	if report == nil {
		return nil, render.ErrNilReport
	}
	provider, err := NewProvider(opts.Provider, opts.Model)
	if err != nil {
		return nil, fmt.Errorf("llm: create provider: %w", err)
	}

	sysPrompt := buildSystemPrompt()
	userPrompt, err := buildUserPrompt(report, cat)
	if err != nil {
		return nil, err
	}

	if opts.Debug != nil {
		fmt.Fprintf(opts.Debug, "=== DEBUG: system prompt ===\n%s\n", sysPrompt)
		fmt.Fprintf(opts.Debug, "=== DEBUG: user prompt ===\n%s\n", userPrompt)
	}

	raw, err := provider.Complete(ctx, sysPrompt, userPrompt, opts.MaxTokens, opts.Temperature)
	if err != nil {
		return nil, fmt.Errorf("llm: complete: %w", err)
	}

	set, validationErrs := ValidateResponse(raw, report)
	if set != nil && !needsRepair(validationErrs) {
		return withMeta(set, opts), nil
	}

	// One repair attempt: include the original prompt and the invalid response
	// so the model has full context.
	repairPrompt := buildRepairPrompt(userPrompt, raw, validationErrs)
	raw2, err := provider.Complete(ctx, sysPrompt, repairPrompt, opts.MaxTokens, opts.Temperature)
	if err != nil {
		return nil, fmt.Errorf("llm: repair complete: %w", err)
	}

	set2, validationErrs2 := ValidateResponse(raw2, report)
	if set2 != nil && !needsRepair(validationErrs2) {
		return withMeta(set2, opts), nil
	}

	return nil, ErrInvalidModelOutput
}

// withMeta records the model and temperature actually requested, replacing
// whatever the model claimed.
func withMeta(set *schema.SuggestionSet, opts Options) *schema.SuggestionSet {
	model := opts.Model
	if model == "" {
		model = DefaultModels[NormalizeProvider(opts.Provider)]
	}
	set.Meta = schema.Meta{Model: model, Temperature: opts.Temperature}
	return set
}

// needsRepair returns true when validation errors include a parse or
// required-field failure that requires a retry.
func needsRepair(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Field == "json_parse" || e.Field == "required_field" {
			return true
		}
	}
	return false
}

// fenceRe matches a whole response wrapped in a ``` or ~~~ fence with an
// optional language tag and captures the body.
var fenceRe = regexp.MustCompile("(?s)^(?:`{3}|~{3})[^\\n]*\\n(.*?)(?:`{3}|~{3})\\s*$")

// openFenceRe matches only an opening fence line, for truncated responses.
var openFenceRe = regexp.MustCompile("^(?:`{3}|~{3})[^\\n]*\\n")

// stripMarkdownFences removes a fence the model wrapped around its JSON. If
// only the opening fence is present the opening line is dropped.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if loc := openFenceRe.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	return s
}

// invalidJSONEscapeRe matches a backslash followed by a character that is
// not a valid JSON escape.
var invalidJSONEscapeRe = regexp.MustCompile(`\\([^"\\/bfnrtu])`)

// fixInvalidJSONEscapes double-escapes invalid escape sequences in s.
func fixInvalidJSONEscapes(s string) string {
	return invalidJSONEscapeRe.ReplaceAllString(s, `\\$1`)
}

// ValidateResponse parses and validates the raw LLM response against the
// report it was asked about. Suggestions naming a file that is not in the
// report, or carrying no actions, are dropped and recorded as non-fatal
// errors. A nil set is returned only on parse failure or a missing
// "suggestions" field.
func ValidateResponse(raw string, report *schema.ComplianceReport) (*schema.SuggestionSet, []ValidationError) {
	var errs []ValidationError

	raw = stripMarkdownFences(raw)

	var set schema.SuggestionSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		if err2 := json.Unmarshal([]byte(fixInvalidJSONEscapes(raw)), &set); err2 != nil {
			errs = append(errs, ValidationError{Field: "json_parse", Message: err.Error()})
			return nil, errs
		}
	}

	if set.Suggestions == nil {
		errs = append(errs, ValidationError{Field: "required_field", Message: "suggestions is missing"})
		return nil, errs
	}

	known := make(map[string]bool, len(report.Templates))
	for _, t := range report.Templates {
		known[t.FilePath] = true
	}
	kept := make([]schema.Suggestion, 0, len(set.Suggestions))
	for i, s := range set.Suggestions {
		field := fmt.Sprintf("suggestions[%d]", i)
		switch {
		case !known[s.FilePath]:
			errs = append(errs, ValidationError{
				Field:   field + ".file_path",
				Message: fmt.Sprintf("path %q is not in the report; suggestion dropped", s.FilePath),
			})
		case len(s.Actions) == 0:
			errs = append(errs, ValidationError{
				Field:   field + ".actions",
				Message: "no actions; suggestion dropped",
			})
		default:
			kept = append(kept, s)
		}
	}
	set.Suggestions = kept
	return &set, errs
}

// buildSystemPrompt assembles the LLM system prompt.
func buildSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are a documentation reviewer helping a team bring project documents in line " +
		"with their templates.\n\n")
	sb.WriteString("Output ONLY valid JSON conforming to the schema below. " +
		"No prose, no markdown, no explanation outside the JSON.\n\n")
	sb.WriteString("Only use file paths that appear in the COMPLIANCE RESULTS below. " +
		"Never invent files. Each action must be one concrete edit, such as adding a named heading.\n\n")
	sb.WriteString(outputSchema)
	return sb.String()
}

// outputSchema is the JSON schema fragment shown to the LLM.
const outputSchema = `Output schema (JSON only):
{
  "suggestions": [
    {
      "file_path": "docs/architecture/adr-001.md",
      "actions": ["Add a '## Context' section describing the forces at play"]
    }
  ],
  "meta": {
    "model": "<model-name>",
    "temperature": 0.2
  }
}
`

// buildUserPrompt lists the template contracts and every file that needs
// attention. Fully compliant files are left out.
func buildUserPrompt(report *schema.ComplianceReport, cat *catalog.Catalog) (string, error) {
	var sb strings.Builder

	if cat != nil {
		sb.WriteString("TEMPLATE CATALOG:\n")
		if err := cat.Encode(&sb); err != nil {
			return "", fmt.Errorf("llm: %w", err)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "COMPLIANCE RESULTS (overall %s):\n", render.Percent(report.OverallScore))
	for _, t := range report.Templates {
		if t.ComplianceScore >= 1 && len(t.MissingRequiredSections) == 0 && !t.VersionMismatch() {
			continue
		}
		fmt.Fprintf(&sb, "- %s\n", t.FilePath)
		fmt.Fprintf(&sb, "  template: %s\n", t.TemplateName)
		fmt.Fprintf(&sb, "  score: %s\n", render.Percent(t.ComplianceScore))
		if len(t.MissingRequiredSections) > 0 {
			fmt.Fprintf(&sb, "  missing required sections: %s\n", strings.Join(t.MissingRequiredSections, ", "))
		}
		if len(t.Customizations) > 0 {
			fmt.Fprintf(&sb, "  extra headers: %s\n", strings.Join(t.Customizations, ", "))
		}
		if t.VersionMismatch() {
			fmt.Fprintf(&sb, "  version: %s (template base %s)\n", t.ProjectVersion, t.BaseVersion)
		}
	}

	sb.WriteString("\nProduce the JSON suggestions now.")
	return sb.String(), nil
}

// buildRepairPrompt constructs the repair message. It includes the original
// user prompt and the previous invalid response so the LLM has full context.
func buildRepairPrompt(originalUserPrompt, previousResponse string, errs []ValidationError) string {
	var sb strings.Builder
	sb.WriteString(originalUserPrompt)
	sb.WriteString("\n\nYour previous response was:\n")
	sb.WriteString(previousResponse)
	sb.WriteString("\n\nThat response was invalid. Errors:\n")
	for _, e := range errs {
		fmt.Fprintf(&sb, "  - %s\n", e.Error())
	}
	sb.WriteString("\nPlease output only the corrected JSON conforming to the schema. Do not repeat the error.")
	return sb.String()
}
