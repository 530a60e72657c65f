package catalog

// Default returns the built-in template catalog.
func Default() *Catalog {
	return MustNew(
		Entry{Key: "adr-template.md", Template: Template{
			Name:             "Architecture Decision Record",
			Version:          "1.0",
			RequiredSections: []string{"Status", "Context", "Decision", "Consequences"},
			OptionalSections: []string{"Date", "Deciders", "Technical Story", "Considered Options"},
		}},
		Entry{Key: "system-architecture-document.md", Template: Template{
			Name:             "System Architecture Document",
			Version:          "1.0",
			RequiredSections: []string{"Overview", "Architecture", "Components", "Security", "Performance"},
			OptionalSections: []string{"Glossary", "References", "Appendix"},
		}},
		Entry{Key: "api-specification.md", Template: Template{
			Name:             "API Specification",
			Version:          "1.0",
			RequiredSections: []string{"Authentication", "Endpoints", "Error Handling", "Rate Limiting"},
			OptionalSections: []string{"Versioning", "Webhooks", "SDKs", "Examples"},
		}},
		Entry{Key: "user-manual-template.md", Template: Template{
			Name:             "User Manual",
			Version:          "1.0",
			RequiredSections: []string{"Getting Started", "Features", "Troubleshooting"},
			OptionalSections: []string{"FAQ", "Glossary", "Contact Support"},
		}},
		Entry{Key: "admin-manual-template.md", Template: Template{
			Name:             "Admin Manual",
			Version:          "1.0",
			RequiredSections: []string{"Administration", "Configuration", "Monitoring"},
			OptionalSections: []string{"Backup", "Security", "Performance Tuning"},
		}},
		Entry{Key: "setup-guide-template.md", Template: Template{
			Name:             "Setup Guide",
			Version:          "1.0",
			RequiredSections: []string{"Prerequisites", "Installation", "Configuration", "Verification"},
			OptionalSections: []string{"Troubleshooting", "Next Steps", "Additional Resources"},
		}},
		Entry{Key: "coding-standards-template.md", Template: Template{
			Name:             "Coding Standards",
			Version:          "1.0",
			RequiredSections: []string{"Code Style", "Best Practices", "Testing"},
			OptionalSections: []string{"Documentation", "Performance", "Security"},
		}},
	)
}
