package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/templatecheck/internal/llm"
	"github.com/dshills/templatecheck/internal/schema"
)

const compliantADR = `# ADR 001: Use Go
Version: 1.0

## Status
Accepted

## Context
We need a fast CLI.

## Decision
Go.

## Consequences
Single binary.
`

const partialADR = `# ADR 002: Reports
## Status
## Decision
## Notes
`

// writeFixture creates files (relative path → content) below a fresh temp
// project root and returns the root.
func writeFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func readReport(t *testing.T, root string) schema.ComplianceReport {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, "reports", "compliance-report.json"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report schema.ComplianceReport
	if err := json.Unmarshal(b, &report); err != nil {
		t.Fatalf("parse report: %v", err)
	}
	return report
}

func TestRoot_CompliantProject(t *testing.T) {
	root := writeFixture(t, map[string]string{
		"docs/architecture/adr-001.md": compliantADR,
	})

	stdout, _, err := execute(t, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Overall Score: 100.0%", "Status: PASSED", "Templates Analyzed: 1"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}

	report := readReport(t, root)
	if !report.Overall || len(report.Templates) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if got := report.Templates[0].FilePath; got != "docs/architecture/adr-001.md" {
		t.Errorf("filePath = %q", got)
	}
	for _, name := range []string{"compliance-report.html", "compliance-report.md"} {
		if _, err := os.Stat(filepath.Join(root, "reports", name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}
}

func TestRoot_DefaultsToWorkingDirectory(t *testing.T) {
	root := writeFixture(t, map[string]string{
		"docs/architecture/adr-001.md": compliantADR,
	})
	t.Chdir(root)

	stdout, _, err := execute(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Templates Analyzed: 1") {
		t.Errorf("expected the working directory to be checked:\n%s", stdout)
	}
	report := readReport(t, root)
	if len(report.Templates) != 1 || report.Templates[0].FilePath != "docs/architecture/adr-001.md" {
		t.Errorf("unexpected report: %+v", report.Templates)
	}
}

func TestRoot_NeedsAttention(t *testing.T) {
	root := writeFixture(t, map[string]string{
		"docs/architecture/adr-001.md": compliantADR,
		"docs/architecture/adr-002.md": partialADR,
		"docs/api/qqq.md":              "# Whatever\n",
	})

	stdout, _, err := execute(t, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Status: NEEDS ATTENTION") {
		t.Errorf("expected failing status:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Add missing required sections to 1 templates") {
		t.Errorf("expected missing-sections recommendation:\n%s", stdout)
	}

	report := readReport(t, root)
	if len(report.Templates) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(report.Templates))
	}
	// Roots are scanned in order: docs/architecture before docs/api.
	if report.Templates[2].TemplateName != "qqq.md" || report.Templates[2].BaseVersion != schema.UnknownVersion {
		t.Errorf("unexpected unresolved record: %+v", report.Templates[2])
	}
}

func TestRoot_EmptyProject(t *testing.T) {
	root := t.TempDir()
	stdout, _, err := execute(t, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// No files means an overall score of 0, which does not pass.
	if !strings.Contains(stdout, "Templates Analyzed: 0") || !strings.Contains(stdout, "Status: NEEDS ATTENTION") {
		t.Errorf("unexpected summary:\n%s", stdout)
	}
}

func TestRoot_UnwritableOutput(t *testing.T) {
	// A regular file where the reports directory should go.
	root := writeFixture(t, map[string]string{"reports": "not a directory"})
	_, _, err := execute(t, root)
	if code := exitCode(err); code != exitCodeFailure {
		t.Errorf("expected exit %d, got %d: %v", exitCodeFailure, code, err)
	}
}

func TestRoot_TooManyArgs(t *testing.T) {
	if _, _, err := execute(t, "a", "b"); err == nil {
		t.Error("expected error for two positional arguments")
	}
}

func TestCatalogCommand(t *testing.T) {
	stdout, _, err := execute(t, "catalog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"key: adr-template.md", "name: Architecture Decision Record", "coding-standards-template.md"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("catalog output missing %q", want)
		}
	}
	if strings.Index(stdout, "adr-template.md") > strings.Index(stdout, "coding-standards-template.md") {
		t.Error("catalog should be printed in declaration order")
	}
}

// mockProvider returns successive responses from a list.
type mockProvider struct {
	responses []string
	idx       int
	err       error
}

func (m *mockProvider) Complete(_ context.Context, _, _ string, _ int, _ float64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.idx >= len(m.responses) {
		return "", fmt.Errorf("mock: no more responses")
	}
	r := m.responses[m.idx]
	m.idx++
	return r, nil
}

func injectMock(t *testing.T, mp *mockProvider) {
	t.Helper()
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	orig := llm.NewProvider
	llm.NewProvider = func(_, _ string) (llm.Provider, error) { return mp, nil }
	t.Cleanup(func() { llm.NewProvider = orig })
}

func TestSuggest_PrintsSuggestions(t *testing.T) {
	root := writeFixture(t, map[string]string{"docs/architecture/adr-002.md": partialADR})
	injectMock(t, &mockProvider{responses: []string{
		`{"suggestions":[{"file_path":"docs/architecture/adr-002.md","actions":["Add a Context section"]}]}`,
	}})

	stdout, _, err := execute(t, "suggest", root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var set schema.SuggestionSet
	if err := json.Unmarshal([]byte(stdout), &set); err != nil {
		t.Fatalf("parse stdout: %v\n%s", err, stdout)
	}
	if len(set.Suggestions) != 1 || set.Suggestions[0].Actions[0] != "Add a Context section" {
		t.Errorf("unexpected suggestions: %+v", set.Suggestions)
	}
	if _, err := os.Stat(filepath.Join(root, "reports")); !os.IsNotExist(err) {
		t.Error("suggest should not write report files")
	}
}

func TestSuggest_UnknownProvider_ExitsThree(t *testing.T) {
	root := t.TempDir()
	_, _, err := execute(t, "suggest", "--provider", "mystery", root)
	if code := exitCode(err); code != exitCodeBadInput {
		t.Errorf("expected exit %d, got %d: %v", exitCodeBadInput, code, err)
	}
}

func TestSuggest_MissingKey_ExitsThree(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, _, err := execute(t, "suggest", "--provider", "openai", t.TempDir())
	if code := exitCode(err); code != exitCodeBadInput {
		t.Errorf("expected exit %d, got %d: %v", exitCodeBadInput, code, err)
	}
}

func TestSuggest_BadFlags_ExitsThree(t *testing.T) {
	injectMock(t, &mockProvider{})
	tests := [][]string{
		{"--max-tokens", "0"},
		{"--temperature", "3"},
	}
	for _, flags := range tests {
		args := append([]string{"suggest"}, flags...)
		args = append(args, t.TempDir())
		_, _, err := execute(t, args...)
		if code := exitCode(err); code != exitCodeBadInput {
			t.Errorf("%v: expected exit %d, got %d: %v", flags, exitCodeBadInput, code, err)
		}
	}
}

func TestSuggest_MissingRoot_ExitsThree(t *testing.T) {
	injectMock(t, &mockProvider{})
	_, _, err := execute(t, "suggest", filepath.Join(t.TempDir(), "nope"))
	if code := exitCode(err); code != exitCodeBadInput {
		t.Errorf("expected exit %d, got %d: %v", exitCodeBadInput, code, err)
	}
}

func TestSuggest_ProviderError_ExitsFour(t *testing.T) {
	injectMock(t, &mockProvider{err: fmt.Errorf("simulated API error")})
	_, _, err := execute(t, "suggest", t.TempDir())
	if code := exitCode(err); code != exitCodeAPIError {
		t.Errorf("expected exit %d, got %d: %v", exitCodeAPIError, code, err)
	}
}

func TestSuggest_InvalidOutput_ExitsFive(t *testing.T) {
	// Both initial and repair responses are invalid JSON.
	injectMock(t, &mockProvider{responses: []string{"not json at all", "still not json"}})
	_, _, err := execute(t, "suggest", t.TempDir())
	if code := exitCode(err); code != exitCodeBadOutput {
		t.Errorf("expected exit %d, got %d: %v", exitCodeBadOutput, code, err)
	}
}

func TestSuggest_DebugPrintsPrompts(t *testing.T) {
	injectMock(t, &mockProvider{responses: []string{`{"suggestions":[]}`}})
	_, stderr, err := execute(t, "suggest", "--debug", t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "=== DEBUG: system prompt ===") {
		t.Errorf("expected prompts on stderr:\n%s", stderr)
	}
}
