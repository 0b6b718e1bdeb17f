// Package compliance applies the French micro-entrepreneur and EN 16931
// business rules to an invoice. Rules accumulate into a ComplianceReport
// instead of failing on the first violation, so the caller sees every
// problem in one pass.
package compliance

import (
	"fmt"
	"regexp"

	"github.com/vartur/facturelibre/internal/model"
	"github.com/vartur/facturelibre/internal/money"
)

// defaultNumberPattern accepts sequential numbering schemes like
// "2025-001" or "F2025/0042"
var defaultNumberPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9/_-]*$`)

// Option configures a Validator
type Option func(*Validator)

// WithNumberPattern overrides the invoice numbering pattern
func WithNumberPattern(re *regexp.Regexp) Option {
	return func(v *Validator) {
		v.numberPattern = re
	}
}

// Validator checks one invoice against the regulatory rule set.
// Validation is a pure function over the model: it never mutates the
// invoice and produces a fresh report per call.
type Validator struct {
	numberPattern *regexp.Regexp
}

// NewValidator creates a validator with the default rule configuration
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		numberPattern: defaultNumberPattern,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs every rule unconditionally and returns the accumulated
// report. An empty report means the invoice is emissible.
func (v *Validator) Validate(inv *model.Invoice) *model.ComplianceReport {
	report := &model.ComplianceReport{}

	v.checkInvoiceNumber(inv, report)
	v.checkDates(inv, report)
	v.checkSeller(inv, report)
	v.checkCurrency(inv, report)
	v.checkLineItems(inv, report)
	v.checkTaxTreatment(inv, report)
	v.checkPaymentMeans(inv, report)

	return report
}

func (v *Validator) checkInvoiceNumber(inv *model.Invoice, report *model.ComplianceReport) {
	if inv.Number == "" {
		report.Add("number", model.RuleInvalidInvoiceNumber, "invoice number must not be empty")
		return
	}
	if !v.numberPattern.MatchString(inv.Number) {
		report.Add("number", model.RuleInvalidInvoiceNumber,
			"invoice number %q does not match pattern %s", inv.Number, v.numberPattern)
	}
}

func (v *Validator) checkDates(inv *model.Invoice, report *model.ComplianceReport) {
	if inv.IssueDate.IsZero() {
		report.Add("issue_date", model.RuleInvalidIssueDate, "issue date is missing")
		return
	}
	if inv.DueDate.Before(inv.IssueDate) {
		report.Add("due_date", model.RuleInvalidDueDate,
			"due date %s precedes issue date %s",
			inv.DueDate.Format("2006-01-02"), inv.IssueDate.Format("2006-01-02"))
	}
}

func (v *Validator) checkSeller(inv *model.Invoice, report *model.ComplianceReport) {
	if inv.Seller.SIREN == "" {
		report.Add("seller.siren", model.RuleInvalidSellerIdentifier, "seller SIREN is required")
	} else if !ValidSIREN(inv.Seller.SIREN) {
		report.Add("seller.siren", model.RuleInvalidSellerIdentifier,
			"SIREN %q must be 9 digits", inv.Seller.SIREN)
	}

	if inv.Seller.SIRET != "" {
		if !ValidSIRET(inv.Seller.SIRET) {
			report.Add("seller.siret", model.RuleInvalidSellerIdentifier,
				"SIRET %q must be 14 digits", inv.Seller.SIRET)
		} else if inv.Seller.SIREN != "" && inv.Seller.SIRET[:9] != inv.Seller.SIREN {
			report.Add("seller.siret", model.RuleInvalidSellerIdentifier,
				"SIRET %q does not start with SIREN %q", inv.Seller.SIRET, inv.Seller.SIREN)
		}
	}

	if inv.BuyerIsBusiness && inv.Buyer.SIREN != "" && !ValidSIREN(inv.Buyer.SIREN) {
		report.Add("buyer.siren", model.RuleInvalidSellerIdentifier,
			"SIREN %q must be 9 digits", inv.Buyer.SIREN)
	}
}

func (v *Validator) checkCurrency(inv *model.Invoice, report *model.ComplianceReport) {
	if inv.Currency != model.CurrencyEUR {
		report.Add("currency", model.RuleInvalidCurrency,
			"currency must be %s, got %q", model.CurrencyEUR, inv.Currency)
	}
}

func (v *Validator) checkLineItems(inv *model.Invoice, report *model.ComplianceReport) {
	if len(inv.Items) == 0 {
		report.Add("items", model.RuleEmptyInvoice, "invoice has no line items")
		return
	}

	for i, item := range inv.Items {
		field := fmt.Sprintf("items[%d]", i)

		if item.Description == "" {
			report.Add(field+".description", model.RuleInvalidLineItem, "description must not be empty")
		}
		if !money.IsPositive(item.Quantity) {
			report.Add(field+".quantity", model.RuleInvalidLineItem,
				"quantity must be positive, got %s", item.Quantity)
		}
		if !money.IsNonNegative(item.UnitPrice) {
			report.Add(field+".unit_price", model.RuleInvalidLineItem,
				"unit price must not be negative, got %s", item.UnitPrice)
		}

		if item.Discount != nil {
			gross := money.LineNet(item.Quantity, item.UnitPrice)
			var amt = money.Zero
			switch item.Discount.Type {
			case model.DiscountPercentage:
				if !money.IsPositive(item.Discount.Value) || item.Discount.Value.GreaterThan(money.FromInt(100)) {
					report.Add(field+".discount", model.RuleInvalidLineItem,
						"discount percentage must be greater than 0 and at most 100, got %s", item.Discount.Value)
				}
				amt = money.Percentage(gross, item.Discount.Value)
			case model.DiscountAmount:
				if !money.IsPositive(item.Discount.Value) {
					report.Add(field+".discount", model.RuleInvalidLineItem,
						"discount amount must be positive, got %s", item.Discount.Value)
				}
				amt = money.Round(item.Discount.Value)
			default:
				report.Add(field+".discount", model.RuleInvalidLineItem,
					"unknown discount type %q", item.Discount.Type)
			}
			if amt.GreaterThan(gross) {
				report.Add(field+".discount", model.RuleInvalidLineItem,
					"discount %s exceeds line amount %s", amt, gross)
			}
		}
	}
}

func (v *Validator) checkTaxTreatment(inv *model.Invoice, report *model.ComplianceReport) {
	if inv.VATExempt {
		for i, item := range inv.Items {
			if !item.VATRate.IsZero() {
				report.Add(fmt.Sprintf("items[%d].vat_rate", i), model.RuleInconsistentTaxTreatment,
					"VAT-exempt seller cannot charge VAT at %s%%", item.VATRate)
			}
		}
		if !inv.HasMention(model.FranchiseMention) {
			report.Add("legal_mentions", model.RuleInconsistentTaxTreatment,
				"VAT-exempt invoice must carry the mention %q", model.FranchiseMention)
		}
		return
	}

	for i, item := range inv.Items {
		if !model.IsAllowedVATRate(item.VATRate) {
			report.Add(fmt.Sprintf("items[%d].vat_rate", i), model.RuleInconsistentTaxTreatment,
				"VAT rate %s%% is not an allowed French rate", item.VATRate)
		}
	}
}

func (v *Validator) checkPaymentMeans(inv *model.Invoice, report *model.ComplianceReport) {
	p := inv.Payment

	if p.BankTransferAccepted {
		if p.IBAN == "" {
			report.Add("payment.iban", model.RuleInvalidPaymentMeans,
				"IBAN is required when bank transfers are accepted")
		}
		if p.BIC == "" {
			report.Add("payment.bic", model.RuleInvalidPaymentMeans,
				"BIC is required when bank transfers are accepted")
		}
	}

	if p.ChequesAccepted && p.Payee == "" {
		report.Add("payment.payee", model.RuleInvalidPaymentMeans,
			"payee is required when cheques are accepted")
	}
}
