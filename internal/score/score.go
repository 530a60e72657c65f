// Package score provides deterministic aggregation of per-file compliance
// results: the overall score, the pass/fail verdict and the recommendation
// list.
package score

import (
	"fmt"
	"time"

	"github.com/dshills/templatecheck/internal/schema"
)

// PassThreshold is the minimum score for a file, or for the project as a
// whole, to count as compliant.
const PassThreshold = 0.8

// Recommendation texts, in the order they are emitted.
const (
	msgLowCompliance   = "Consider updating %d templates with compliance scores below 80%%"
	msgMissingSections = "Add missing required sections to %d templates"
	msgVersionDrift    = "Consider updating %d templates to latest base versions"
	MsgAllCompliant    = "All templates meet compliance standards!"
)

// OverallScore is the arithmetic mean of per-file scores, or 0 when no files
// were analyzed.
func OverallScore(templates []schema.TemplateCompliance) float64 {
	if len(templates) == 0 {
		return 0
	}
	var sum float64
	for _, t := range templates {
		sum += t.ComplianceScore
	}
	return sum / float64(len(templates))
}

// Overall reports a pass when overallScore reaches PassThreshold and no file
// is missing a required section.
func Overall(overallScore float64, templates []schema.TemplateCompliance) bool {
	if overallScore < PassThreshold {
		return false
	}
	for _, t := range templates {
		if len(t.MissingRequiredSections) > 0 {
			return false
		}
	}
	return true
}

// Counts aggregates the per-file conditions that drive recommendations.
func Counts(templates []schema.TemplateCompliance) (lowCompliance, missingSections, versionDrift int) {
	for _, t := range templates {
		if t.ComplianceScore < PassThreshold {
			lowCompliance++
		}
		if len(t.MissingRequiredSections) > 0 {
			missingSections++
		}
		if t.VersionMismatch() {
			versionDrift++
		}
	}
	return
}

// Recommendations applies the recommendation rules. Each rule is evaluated
// independently and every rule that fires is included:
//  1. Files scoring below PassThreshold.
//  2. Files missing a required section.
//  3. Files whose declared version differs from the template's base version.
//  4. If none of the above fired, a single all-compliant message.
func Recommendations(templates []schema.TemplateCompliance) []string {
	low, missing, drift := Counts(templates)
	recs := []string{}
	if low > 0 {
		recs = append(recs, fmt.Sprintf(msgLowCompliance, low))
	}
	if missing > 0 {
		recs = append(recs, fmt.Sprintf(msgMissingSections, missing))
	}
	if drift > 0 {
		recs = append(recs, fmt.Sprintf(msgVersionDrift, drift))
	}
	if len(recs) == 0 {
		recs = append(recs, MsgAllCompliant)
	}
	return recs
}

// Aggregate folds per-file results into a report stamped with generatedAt.
// The templates slice is used as-is; its order is the report order.
func Aggregate(templates []schema.TemplateCompliance, generatedAt time.Time) *schema.ComplianceReport {
	if templates == nil {
		templates = []schema.TemplateCompliance{}
	}
	overallScore := OverallScore(templates)
	return &schema.ComplianceReport{
		Overall:         Overall(overallScore, templates),
		OverallScore:    overallScore,
		Templates:       templates,
		Recommendations: Recommendations(templates),
		GeneratedAt:     generatedAt,
	}
}
