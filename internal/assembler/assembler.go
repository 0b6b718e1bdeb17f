// Package assembler produces the two synchronized views of a compliant
// invoice: the human-readable layout and the EN 16931 XML payload.
package assembler

import (
	"github.com/vartur/facturelibre/internal/facturx"
	"github.com/vartur/facturelibre/internal/model"
	"github.com/vartur/facturelibre/internal/render"
)

// Assembler turns a validated invoice into its rendered layout and
// structured payload. Every monetary figure, date and identifier appears
// in both views with the same value.
type Assembler struct {
	builder *facturx.Builder
}

// New creates an assembler
func New() *Assembler {
	return &Assembler{
		builder: facturx.NewBuilder(),
	}
}

// Assemble returns (renderedContent, structuredPayload) for inv. The
// invoice must have passed validation: a non-empty report is refused with
// NonCompliantInvoiceError carrying the full report. No I/O happens here.
func (a *Assembler) Assemble(inv *model.Invoice, report *model.ComplianceReport) (*render.Document, []byte, error) {
	if report == nil || !report.Empty() {
		if report == nil {
			report = &model.ComplianceReport{}
			report.Add("invoice", model.RuleEmptyInvoice, "invoice was not validated")
		}
		return nil, nil, &model.NonCompliantInvoiceError{Report: report}
	}

	doc := render.Build(inv)
	payload, err := a.builder.Build(inv)
	if err != nil {
		return nil, nil, err
	}
	return doc, payload, nil
}
