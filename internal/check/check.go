// Package check runs a compliance check over a project's documentation:
// discover files, match each to a template, analyze it, then aggregate the
// results into a report and write the report files.
package check

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/templatecheck/internal/analyze"
	"github.com/dshills/templatecheck/internal/catalog"
	"github.com/dshills/templatecheck/internal/mdparse"
	"github.com/dshills/templatecheck/internal/scan"
	"github.com/dshills/templatecheck/internal/schema"
	"github.com/dshills/templatecheck/internal/score"
)

// Config configures a Checker. Zero values select the defaults.
type Config struct {
	Catalog     *catalog.Catalog // catalog.Default() when nil
	Roots       []string         // scan.DefaultRoots() when empty
	Clock       func() time.Time // time.Now when nil; stamped in UTC
	Concurrency int              // runtime.NumCPU() when <= 0
	Logger      *slog.Logger     // discards when nil
}

// Checker performs compliance runs. It holds no per-run state and is safe
// for concurrent use.
type Checker struct {
	catalog     *catalog.Catalog
	scanner     scan.Scanner
	clock       func() time.Time
	concurrency int
	logger      *slog.Logger
}

// New returns a Checker for cfg.
func New(cfg Config) *Checker {
	c := &Checker{
		catalog:     cfg.Catalog,
		clock:       cfg.Clock,
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger,
	}
	if c.catalog == nil {
		c.catalog = catalog.Default()
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if c.concurrency <= 0 {
		c.concurrency = runtime.NumCPU()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.scanner = scan.Scanner{Roots: cfg.Roots, Logger: c.logger}
	return c
}

// Run checks every Markdown file below projectRoot's documentation roots.
// Files that cannot be analyzed are logged and left out of the report. The
// report lists files in discovery order regardless of completion order.
// Only context cancellation makes Run fail.
func (c *Checker) Run(ctx context.Context, projectRoot string) (*schema.ComplianceReport, error) {
	paths := c.scanner.Scan(projectRoot)
	c.logger.Debug("check: discovered files", "root", projectRoot, "count", len(paths))

	results := make([]*schema.TemplateCompliance, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := c.AnalyzeFile(projectRoot, path)
			if err != nil {
				c.logger.Warn("check: failed to analyze template", "path", path, "error", err)
				return nil
			}
			results[i] = &rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("check: run: %w", err)
	}

	templates := make([]schema.TemplateCompliance, 0, len(results))
	for _, r := range results {
		if r != nil {
			templates = append(templates, *r)
		}
	}
	return score.Aggregate(templates, c.clock().UTC()), nil
}

// AnalyzeFile builds the compliance record for one file. A file that matches
// no template yields a zero-score record rather than an error; errors are
// reserved for files that cannot be read or parsed.
func (c *Checker) AnalyzeFile(projectRoot, path string) (schema.TemplateCompliance, error) {
	rel := relPath(projectRoot, path)
	name := filepath.Base(path)

	doc, err := mdparse.ParseFile(path)
	if err != nil {
		return schema.TemplateCompliance{}, fmt.Errorf("check: analyze %s: %w", rel, err)
	}

	_, tmpl, ok := c.catalog.Match(name)
	if !ok {
		return schema.Unresolved(name, rel), nil
	}

	out := analyze.Document(doc, tmpl)
	return schema.TemplateCompliance{
		TemplateName:            tmpl.Name,
		BaseVersion:             tmpl.Version,
		ProjectVersion:          out.ProjectVersion,
		ComplianceScore:         out.Score,
		MissingRequiredSections: out.MissingRequiredSections,
		Customizations:          out.Customizations,
		FilePath:                rel,
	}, nil
}

// relPath returns path relative to root with forward slashes, or path
// unchanged if it is not below root.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
