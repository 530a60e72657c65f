package check

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/templatecheck/internal/render"
	"github.com/dshills/templatecheck/internal/schema"
)

// DefaultOutputDir is where reports are written, relative to the project root.
const DefaultOutputDir = "reports"

// Report file names inside the output directory.
const (
	JSONReportName     = "compliance-report.json"
	HTMLReportName     = "compliance-report.html"
	MarkdownReportName = "compliance-report.md"
)

// Outputs lists the files written by WriteReports.
type Outputs struct {
	JSON     string
	HTML     string
	Markdown string
}

// WriteReports renders report and writes it into dir, creating dir if
// needed. Any failure here is fatal for the run and is returned as is.
func WriteReports(report *schema.ComplianceReport, dir string) (Outputs, error) {
	jsonData, err := render.RenderJSON(report)
	if err != nil {
		return Outputs{}, fmt.Errorf("check: %w", err)
	}
	html, err := render.RenderHTML(report)
	if err != nil {
		return Outputs{}, fmt.Errorf("check: %w", err)
	}
	md := render.RenderMarkdown(report)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Outputs{}, fmt.Errorf("check: create output dir %s: %w", dir, err)
	}

	out := Outputs{
		JSON:     filepath.Join(dir, JSONReportName),
		HTML:     filepath.Join(dir, HTMLReportName),
		Markdown: filepath.Join(dir, MarkdownReportName),
	}
	files := []struct {
		path string
		data []byte
	}{
		{out.JSON, append(jsonData, '\n')},
		{out.HTML, []byte(html)},
		{out.Markdown, []byte(md)},
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
			return Outputs{}, fmt.Errorf("check: write %s: %w", f.path, err)
		}
	}
	return out, nil
}
