// Package analyze compares a document's headers against a template's section
// contract. All matching is case-insensitive substring containment: a header
// covers a section when the lowercased header contains the lowercased label.
package analyze

import (
	"strings"

	"github.com/dshills/templatecheck/internal/catalog"
	"github.com/dshills/templatecheck/internal/mdparse"
)

// Result is the section-level outcome of analyzing one document.
type Result struct {
	MissingRequiredSections []string // template declaration order
	Customizations          []string // document header order
}

// Sections classifies headers against tmpl. Required sections with no
// covering header are missing; headers covering neither a required nor an
// optional section are customizations.
func Sections(headers []string, tmpl catalog.Template) Result {
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(h)
	}
	required := lowerAll(tmpl.RequiredSections)
	optional := lowerAll(tmpl.OptionalSections)

	res := Result{
		MissingRequiredSections: []string{},
		Customizations:          []string{},
	}
	for i, label := range required {
		if !anyContains(lowered, label) {
			res.MissingRequiredSections = append(res.MissingRequiredSections, tmpl.RequiredSections[i])
		}
	}
	for i, h := range lowered {
		if !containsAny(h, required) && !containsAny(h, optional) {
			res.Customizations = append(res.Customizations, headers[i])
		}
	}
	return res
}

// Score returns the fraction of required sections present. A template with
// no required sections scores 1.
func Score(tmpl catalog.Template, missing []string) float64 {
	total := len(tmpl.RequiredSections)
	if total == 0 {
		return 1
	}
	return float64(total-len(missing)) / float64(total)
}

// Outcome is the full analysis of one document against its template.
type Outcome struct {
	Result
	Score          float64
	ProjectVersion string
}

// Document analyzes a parsed document. The document's declared version is
// used as the project version, falling back to the template's version.
func Document(doc mdparse.Document, tmpl catalog.Template) Outcome {
	res := Sections(doc.Headers, tmpl)
	version := tmpl.Version
	if doc.HasVersion() {
		version = doc.Version
	}
	return Outcome{
		Result:         res,
		Score:          Score(tmpl, res.MissingRequiredSections),
		ProjectVersion: version,
	}
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// anyContains reports whether some header contains label.
func anyContains(headers []string, label string) bool {
	for _, h := range headers {
		if strings.Contains(h, label) {
			return true
		}
	}
	return false
}

// containsAny reports whether header contains some label.
func containsAny(header string, labels []string) bool {
	for _, l := range labels {
		if strings.Contains(header, l) {
			return true
		}
	}
	return false
}
