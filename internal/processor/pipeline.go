// Package processor wires the invoice pipeline: raw JSON record -> typed
// model -> compliance validation -> totals -> document assembly. Each
// stage is a pure transformation; a pipeline instance keeps no cross-call
// state and may be shared between goroutines.
package processor

import (
	"context"
	"regexp"

	"github.com/vartur/facturelibre/internal/assembler"
	"github.com/vartur/facturelibre/internal/compliance"
	"github.com/vartur/facturelibre/internal/model"
	"github.com/vartur/facturelibre/internal/parser"
	"github.com/vartur/facturelibre/internal/render"
)

// Result is the outcome of one pipeline run
type Result struct {
	Invoice  *model.Invoice
	Report   *model.ComplianceReport
	Document *render.Document
	XML      []byte
	Error    error
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithNumberPattern overrides the invoice numbering pattern enforced by
// the validator
func WithNumberPattern(re *regexp.Regexp) Option {
	return func(p *Pipeline) {
		p.validatorOpts = append(p.validatorOpts, compliance.WithNumberPattern(re))
	}
}

// Pipeline processes one invoice per invocation, stateless across calls
type Pipeline struct {
	parser        *parser.Parser
	validator     *compliance.Validator
	assembler     *assembler.Assembler
	validatorOpts []compliance.Option
}

// NewPipeline creates a pipeline
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		parser:    parser.New(),
		assembler: assembler.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.validator = compliance.NewValidator(p.validatorOpts...)
	return p
}

// Process runs the full pipeline on a raw JSON record.
// Structural errors abort immediately; business-rule violations are
// accumulated and surface once through the report and the assembler's
// NonCompliantInvoiceError.
func (p *Pipeline) Process(ctx context.Context, data []byte) *Result {
	result := p.Validate(ctx, data)
	if result.Error != nil {
		return result
	}

	if !result.Report.Empty() {
		result.Error = &model.NonCompliantInvoiceError{Report: result.Report}
		return result
	}

	result.Invoice.ComputeTotals()

	doc, payload, err := p.assembler.Assemble(result.Invoice, result.Report)
	if err != nil {
		result.Error = err
		return result
	}

	result.Document = doc
	result.XML = payload
	return result
}

// Validate parses and validates a raw JSON record without assembling.
// The result carries the full compliance report; a structural problem is
// reported through Error as MalformedInputError.
func (p *Pipeline) Validate(_ context.Context, data []byte) *Result {
	result := &Result{}

	inv, err := p.parser.Parse(data)
	if err != nil {
		result.Error = err
		return result
	}

	result.Invoice = inv
	result.Report = p.validator.Validate(inv)
	return result
}
