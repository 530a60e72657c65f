// Package schema defines the canonical data types for the compliance report.
package schema

import "time"

// UnknownVersion is recorded for files whose template could not be resolved.
const UnknownVersion = "unknown"

// TemplateCompliance is the analysis result for a single documentation file.
type TemplateCompliance struct {
	TemplateName            string   `json:"templateName"`
	BaseVersion             string   `json:"baseVersion"`
	ProjectVersion          string   `json:"projectVersion"`
	ComplianceScore         float64  `json:"complianceScore"`
	MissingRequiredSections []string `json:"missingRequiredSections"`
	Customizations          []string `json:"customizations"`
	FilePath                string   `json:"filePath"` // relative to the project root
}

// Unresolved returns the record produced for a file that matched no catalog
// entry: zero score, the raw filename as template name, unknown versions.
func Unresolved(fileName, relPath string) TemplateCompliance {
	return TemplateCompliance{
		TemplateName:            fileName,
		BaseVersion:             UnknownVersion,
		ProjectVersion:          UnknownVersion,
		ComplianceScore:         0,
		MissingRequiredSections: []string{},
		Customizations:          []string{},
		FilePath:                relPath,
	}
}

// VersionMismatch reports whether the file declares a version different from
// its template's base version.
func (t TemplateCompliance) VersionMismatch() bool {
	return t.BaseVersion != t.ProjectVersion
}

// ComplianceReport is the aggregate result of one compliance run.
type ComplianceReport struct {
	Overall         bool                 `json:"overall"`
	OverallScore    float64              `json:"overallScore"`
	Templates       []TemplateCompliance `json:"templates"`
	Recommendations []string             `json:"recommendations"`
	GeneratedAt     time.Time            `json:"generatedAt"`
}

// Suggestion is a remediation proposal for one analyzed file.
type Suggestion struct {
	FilePath string   `json:"file_path"`
	Actions  []string `json:"actions"`
}

// SuggestionSet is the document returned by a suggestion provider.
type SuggestionSet struct {
	Suggestions []Suggestion `json:"suggestions"`
	Meta        Meta         `json:"meta"`
}

// Meta records information about the LLM call.
type Meta struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}
