// Package render produces output from a fully assembled schema.ComplianceReport.
// Every function here is a pure string producer: nothing is recomputed from
// the per-file records and nothing is written to disk.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/templatecheck/internal/schema"
)

// ErrNilReport is returned when asked to render a nil report.
var ErrNilReport = errors.New("render: nil report")

// Compliance bands used by the human-readable outputs.
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

// Band classifies a score: high at 0.8 and above, medium from 0.6, else low.
func Band(score float64) string {
	switch {
	case score >= 0.8:
		return BandHigh
	case score >= 0.6:
		return BandMedium
	default:
		return BandLow
	}
}

// Percent formats a 0..1 score as a percentage with one decimal place.
func Percent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// Status is the pass/fail label for a report.
func Status(report *schema.ComplianceReport) string {
	if report.Overall {
		return "PASSED"
	}
	return "NEEDS ATTENTION"
}

// RenderJSON produces a pretty-printed JSON representation of the report.
// The output round-trips through json.Unmarshal back to an equal report.
func RenderJSON(report *schema.ComplianceReport) ([]byte, error) {
	if report == nil {
		return nil, ErrNilReport
	}
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: json marshal: %w", err)
	}
	return b, nil
}

// RenderConsole produces the terminal summary: score, status, number of
// files analyzed and the recommendation list.
func RenderConsole(report *schema.ComplianceReport) string {
	if report == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Template Compliance Report\n")
	sb.WriteString("==========================\n")
	fmt.Fprintf(&sb, "Overall Score: %s\n", Percent(report.OverallScore))
	fmt.Fprintf(&sb, "Status: %s\n", Status(report))
	fmt.Fprintf(&sb, "Templates Analyzed: %d\n", len(report.Templates))
	if len(report.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, r := range report.Recommendations {
			fmt.Fprintf(&sb, "  • %s\n", r)
		}
	}
	return sb.String()
}

// RenderMarkdown produces a GitHub-flavoured Markdown summary of the report,
// suitable for PR comments. Every analyzed file appears in the table.
func RenderMarkdown(report *schema.ComplianceReport) string {
	if report == nil {
		return ""
	}
	var sb strings.Builder

	sb.WriteString("## Template Compliance Report\n\n")
	fmt.Fprintf(&sb, "**Status:** %s  \n", Status(report))
	fmt.Fprintf(&sb, "**Overall Score:** %s  \n", Percent(report.OverallScore))
	fmt.Fprintf(&sb, "**Templates Analyzed:** %d\n\n", len(report.Templates))

	if len(report.Templates) > 0 {
		sb.WriteString("| File | Template | Score | Version | Missing Sections |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, t := range report.Templates {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s (base %s) | %s |\n",
				mdEscape(t.FilePath), mdEscape(t.TemplateName), Percent(t.ComplianceScore),
				mdEscape(t.ProjectVersion), mdEscape(t.BaseVersion),
				mdEscape(strings.Join(t.MissingRequiredSections, ", ")))
		}
		sb.WriteString("\n")
	}

	if len(report.Recommendations) > 0 {
		sb.WriteString("## Recommendations\n\n")
		for _, r := range report.Recommendations {
			fmt.Fprintf(&sb, "- %s\n", r)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// mdEscape replaces characters that would break Markdown table cells.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
