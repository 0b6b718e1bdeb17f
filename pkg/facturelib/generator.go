package facturelib

import (
	"context"
	"regexp"

	"github.com/vartur/facturelibre/internal/packager"
	"github.com/vartur/facturelibre/internal/processor"
)

// Result is the outcome of validating or generating one invoice
type Result struct {
	Invoice *Invoice
	Report  *ComplianceReport
	// XML is the EN 16931 payload embedded in the PDF/A-3 container
	XML []byte
}

// Option configures a Generator
type Option func(*Generator)

// WithNumberPattern overrides the invoice numbering pattern
func WithNumberPattern(re *regexp.Regexp) Option {
	return func(g *Generator) {
		g.pipelineOpts = append(g.pipelineOpts, processor.WithNumberPattern(re))
	}
}

// Generator runs the full invoice pipeline. It is stateless across calls
// and safe for concurrent use.
type Generator struct {
	pipeline     *processor.Pipeline
	packager     packager.Packager
	pipelineOpts []processor.Option
}

// NewGenerator creates a generator with the default configuration
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		packager: packager.NewPDFPackager(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.pipeline = processor.NewPipeline(g.pipelineOpts...)
	return g
}

// Validate parses and validates a JSON invoice record. A structural
// problem returns a MalformedInputError; business-rule violations are in
// the report.
func (g *Generator) Validate(ctx context.Context, record []byte) (*Result, error) {
	result := g.pipeline.Validate(ctx, record)
	if result.Error != nil {
		return nil, result.Error
	}
	return &Result{Invoice: result.Invoice, Report: result.Report}, nil
}

// Generate runs the full pipeline and returns the assembled artifacts
// without writing the container
func (g *Generator) Generate(ctx context.Context, record []byte) (*Result, error) {
	result := g.pipeline.Process(ctx, record)
	if result.Error != nil {
		return nil, result.Error
	}
	return &Result{Invoice: result.Invoice, Report: result.Report, XML: result.XML}, nil
}

// GenerateFile runs the full pipeline and writes the PDF/A-3 container
// to outPath
func (g *Generator) GenerateFile(ctx context.Context, record []byte, outPath string) (*Result, error) {
	result := g.pipeline.Process(ctx, record)
	if result.Error != nil {
		return nil, result.Error
	}
	if err := g.packager.Package(ctx, result.Document, result.XML, outPath); err != nil {
		return nil, err
	}
	return &Result{Invoice: result.Invoice, Report: result.Report, XML: result.XML}, nil
}
