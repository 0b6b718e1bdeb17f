// Package facturelib provides the public API for generating French
// micro-entrepreneur Factur-X invoices.
//
// The library takes a JSON invoice record, validates it against the
// French micro-entrepreneur and EN 16931 rules, and produces the two
// synchronized artifacts of a hybrid e-invoice: the rendered layout and
// the CII XML payload, merged into a PDF/A-3 container.
//
// Example usage:
//
//	gen := facturelib.NewGenerator()
//	result, err := gen.GenerateFile(ctx, jsonRecord, "invoice.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Invoice.GrandTotal)
package facturelib

import "github.com/vartur/facturelibre/internal/model"

// Re-export core types for the public API
type (
	Invoice          = model.Invoice
	LineItem         = model.LineItem
	Party            = model.Party
	PaymentMeans     = model.PaymentMeans
	Discount         = model.Discount
	Rule             = model.Rule
	Violation        = model.Violation
	ComplianceReport = model.ComplianceReport
)

// Re-export rule identifiers
const (
	RuleInvalidSellerIdentifier  = model.RuleInvalidSellerIdentifier
	RuleInconsistentTaxTreatment = model.RuleInconsistentTaxTreatment
	RuleInvalidLineItem          = model.RuleInvalidLineItem
	RuleInvalidInvoiceNumber     = model.RuleInvalidInvoiceNumber
	RuleInvalidIssueDate         = model.RuleInvalidIssueDate
	RuleInvalidDueDate           = model.RuleInvalidDueDate
	RuleEmptyInvoice             = model.RuleEmptyInvoice
	RuleInvalidPaymentMeans      = model.RuleInvalidPaymentMeans
	RuleInvalidCurrency          = model.RuleInvalidCurrency
)

// Re-export error types
type (
	MalformedInputError      = model.MalformedInputError
	NonCompliantInvoiceError = model.NonCompliantInvoiceError
)

// FranchiseMention is the statutory VAT-exemption clause
const FranchiseMention = model.FranchiseMention

// LatePaymentMention is the late-payment penalty clause required on
// invoices to business clients
const LatePaymentMention = model.LatePaymentMention
