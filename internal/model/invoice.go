package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vartur/facturelibre/internal/money"
)

// CurrencyEUR is the only currency a French invoice may be settled in
const CurrencyEUR = "EUR"

// FranchiseMention is the legal clause a VAT-exempt micro-entrepreneur
// must carry on every invoice (article 293 B du CGI)
const FranchiseMention = "TVA non applicable, art. 293 B du CGI"

// LatePaymentMention is the late-payment penalty clause required for
// business clients
const LatePaymentMention = "En cas de retard de paiement, une pénalité de 3 fois le taux d'intérêt légal sera appliquée, ainsi qu'une indemnité forfaitaire pour frais de recouvrement de 40 €"

// AllowedVATRates are the French VAT rates an invoice line may carry.
// Zero is the exempt marker used under the franchise regime.
var AllowedVATRates = []decimal.Decimal{
	decimal.Zero,
	decimal.RequireFromString("2.1"),
	decimal.RequireFromString("5.5"),
	decimal.RequireFromString("10"),
	decimal.RequireFromString("20"),
}

// IsAllowedVATRate reports whether rate is in the enumerated French set
func IsAllowedVATRate(rate decimal.Decimal) bool {
	for _, r := range AllowedVATRates {
		if r.Equal(rate) {
			return true
		}
	}
	return false
}

// Party represents a legal entity on the invoice (seller or buyer)
type Party struct {
	Name         string `json:"name"`
	TradeName    string `json:"trade_name,omitempty"`
	AddressLine1 string `json:"address_line_1"`
	Postcode     string `json:"postcode"`
	City         string `json:"city"`
	Country      string `json:"country"`
	SIREN        string `json:"siren,omitempty"`
	SIRET        string `json:"siret,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	APECode      string `json:"ape_code,omitempty"`
}

// DiscountType discriminates how a line discount is expressed
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountAmount     DiscountType = "amount"
)

// Discount is an optional reduction applied to a line net before VAT
type Discount struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// LineItem represents one billed item or service
type LineItem struct {
	Number      int             `json:"number"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	Discount    *Discount       `json:"discount,omitempty"`

	// Computed by Calculate
	GrossAmount decimal.Decimal `json:"gross_amount"`
	DiscountAmt decimal.Decimal `json:"discount_amount"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	VATAmount   decimal.Decimal `json:"vat_amount"`
	Total       decimal.Decimal `json:"total"`
}

// Calculate computes the derived amounts for this line.
// Each amount is rounded half-up to cents on its own, so aggregates are
// sums of already-rounded values.
func (li *LineItem) Calculate() {
	li.GrossAmount = money.LineNet(li.Quantity, li.UnitPrice)

	li.DiscountAmt = money.Zero
	if li.Discount != nil {
		switch li.Discount.Type {
		case DiscountPercentage:
			li.DiscountAmt = money.Percentage(li.GrossAmount, li.Discount.Value)
		case DiscountAmount:
			li.DiscountAmt = money.Round(li.Discount.Value)
		}
	}

	li.NetAmount = li.GrossAmount.Sub(li.DiscountAmt)
	li.VATAmount = money.VATAmount(li.NetAmount, li.VATRate)
	li.Total = li.NetAmount.Add(li.VATAmount)
}

// PaymentMeans lists how the seller accepts settlement
type PaymentMeans struct {
	BankTransferAccepted bool   `json:"bank_transfer_accepted"`
	IBAN                 string `json:"iban,omitempty"`
	BIC                  string `json:"bic,omitempty"`
	BankName             string `json:"bank_name,omitempty"`
	ChequesAccepted      bool   `json:"cheques_accepted"`
	Payee                string `json:"payee,omitempty"`
	CashAccepted         bool   `json:"cash_accepted"`
}

// Invoice is the aggregate root for one invoice
type Invoice struct {
	Number          string       `json:"number"`
	IssueDate       time.Time    `json:"issue_date"`
	DueDate         time.Time    `json:"due_date"`
	Seller          Party        `json:"seller"`
	Buyer           Party        `json:"buyer"`
	BuyerIsBusiness bool         `json:"buyer_is_business"`
	Items           []LineItem   `json:"items"`
	Currency        string       `json:"currency"`
	VATExempt       bool         `json:"vat_exempt"`
	LegalMentions   []string     `json:"legal_mentions,omitempty"`
	Payment         PaymentMeans `json:"payment"`
	ContractNumber  string       `json:"contract_number,omitempty"`

	// Computed by ComputeTotals
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxTotal   decimal.Decimal `json:"tax_total"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// ComputeTotals derives all line amounts and the invoice totals.
// Deterministic and idempotent: recomputing on the same input yields the
// same values.
func (inv *Invoice) ComputeTotals() {
	nets := make([]decimal.Decimal, 0, len(inv.Items))
	taxes := make([]decimal.Decimal, 0, len(inv.Items))

	for i := range inv.Items {
		inv.Items[i].Number = i + 1
		inv.Items[i].Calculate()
		nets = append(nets, inv.Items[i].NetAmount)
		taxes = append(taxes, inv.Items[i].VATAmount)
	}

	inv.Subtotal = money.Sum(nets)
	inv.TaxTotal = money.Sum(taxes)
	inv.GrandTotal = inv.Subtotal.Add(inv.TaxTotal)
}

// HasMention reports whether one of the legal mentions contains text
func (inv *Invoice) HasMention(text string) bool {
	for _, m := range inv.LegalMentions {
		if strings.Contains(m, text) {
			return true
		}
	}
	return false
}
