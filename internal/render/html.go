package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/dshills/templatecheck/internal/schema"
)

type htmlTemplate struct {
	schema.TemplateCompliance
	Band  string
	Score string
}

type htmlView struct {
	Report      *schema.ComplianceReport
	GeneratedAt string
	Score       string
	Status      string
	Templates   []htmlTemplate
	BandCounts  map[string]int
}

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Template Compliance Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .header { border-bottom: 2px solid #eee; padding-bottom: 20px; }
        .score { font-size: 24px; font-weight: bold; }
        .score.passed { color: #28a745; }
        .score.failed { color: #dc3545; }
        .template { border: 1px solid #ddd; margin: 10px 0; padding: 15px; border-radius: 5px; }
        .compliance-high { border-left: 4px solid #28a745; }
        .compliance-medium { border-left: 4px solid #ffc107; }
        .compliance-low { border-left: 4px solid #dc3545; }
        .missing-sections { color: #dc3545; }
        .customizations { color: #6c757d; }
        .recommendations { background-color: #f8f9fa; padding: 15px; border-radius: 5px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Template Compliance Report</h1>
        <p>Generated: {{.GeneratedAt}}</p>
        <div class="score {{if .Report.Overall}}passed{{else}}failed{{end}}">Overall Score: {{.Score}}</div>
        <p>Status: {{.Status}}</p>
        <p>High: {{index .BandCounts "high"}} | Medium: {{index .BandCounts "medium"}} | Low: {{index .BandCounts "low"}}</p>
    </div>

    <h2>Templates ({{len .Templates}})</h2>
{{- range .Templates}}
    <div class="template compliance-{{.Band}}">
        <h3>{{.TemplateName}}</h3>
        <p><strong>File:</strong> {{.FilePath}}</p>
        <p><strong>Compliance Score:</strong> {{.Score}}</p>
        <p><strong>Version:</strong> {{.ProjectVersion}} (Base: {{.BaseVersion}})</p>
{{- if .MissingRequiredSections}}
        <div class="missing-sections">
            <strong>Missing Required Sections:</strong>
            <ul>{{range .MissingRequiredSections}}<li>{{.}}</li>{{end}}</ul>
        </div>
{{- end}}
{{- if .Customizations}}
        <div class="customizations">
            <strong>Customizations:</strong>
            <ul>{{range .Customizations}}<li>{{.}}</li>{{end}}</ul>
        </div>
{{- end}}
    </div>
{{- end}}

    <div class="recommendations">
        <h2>Recommendations</h2>
        <ul>
{{- range .Report.Recommendations}}
            <li>{{.}}</li>
{{- end}}
        </ul>
    </div>
</body>
</html>
`))

// RenderHTML produces a standalone HTML document for the report. Each file is
// a card styled by its compliance band; cards keep the report's order.
func RenderHTML(report *schema.ComplianceReport) (string, error) {
	if report == nil {
		return "", ErrNilReport
	}
	view := htmlView{
		Report:      report,
		GeneratedAt: report.GeneratedAt.Format(time.RFC1123),
		Score:       Percent(report.OverallScore),
		Status:      Status(report),
		Templates:   make([]htmlTemplate, 0, len(report.Templates)),
		BandCounts:  map[string]int{BandHigh: 0, BandMedium: 0, BandLow: 0},
	}
	for _, t := range report.Templates {
		band := Band(t.ComplianceScore)
		view.BandCounts[band]++
		view.Templates = append(view.Templates, htmlTemplate{
			TemplateCompliance: t,
			Band:               band,
			Score:              Percent(t.ComplianceScore),
		})
	}
	var buf bytes.Buffer
	if err := htmlReport.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render: html: %w", err)
	}
	return buf.String(), nil
}
