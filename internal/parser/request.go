package parser

import (
	"github.com/shopspring/decimal"
)

// invoiceRequest mirrors the raw JSON record. Unknown fields are ignored;
// required fields are enforced with validator tags before any business
// rule runs.
type invoiceRequest struct {
	InvoiceNumber   string           `json:"invoiceNumber" validate:"required"`
	IssueDate       string           `json:"issueDate" validate:"required,datetime=2006-01-02"`
	DueDate         string           `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	PaymentTermDays int              `json:"paymentTermDays" validate:"omitempty,gte=0"`
	Seller          partyRequest     `json:"seller" validate:"required"`
	Buyer           partyRequest     `json:"buyer" validate:"required"`
	BuyerIsBusiness bool             `json:"buyerIsBusiness"`
	LineItems       []lineRequest    `json:"lineItems" validate:"dive"`
	Currency        string           `json:"currency"`
	VATExempt       bool             `json:"vatExempt"`
	LegalMentions   []string         `json:"legalMentions"`
	Payment         *paymentRequest  `json:"payment"`
	ContractNumber  string           `json:"contractNumber"`
}

type partyRequest struct {
	Name         string `json:"name" validate:"required"`
	TradeName    string `json:"tradeName"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	Postcode     string `json:"postcode" validate:"required"`
	City         string `json:"city" validate:"required"`
	Country      string `json:"country"`
	SIREN        string `json:"siren"`
	SIRET        string `json:"siret"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone"`
	APECode      string `json:"apeCode"`
}

type lineRequest struct {
	Description string           `json:"description" validate:"required"`
	Quantity    *decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   *decimal.Decimal `json:"unitPrice" validate:"required"`
	TaxRate     *decimal.Decimal `json:"taxRate"`
	Discount    *discountRequest `json:"discount"`
}

type discountRequest struct {
	Type  string          `json:"type" validate:"required,oneof=percentage amount"`
	Value decimal.Decimal `json:"value"`
}

type paymentRequest struct {
	BankTransferAccepted bool   `json:"bankTransferAccepted"`
	IBAN                 string `json:"iban"`
	BIC                  string `json:"bic"`
	BankName             string `json:"bankName"`
	ChequesAccepted      bool   `json:"chequesAccepted"`
	Payee                string `json:"payee"`
	CashAccepted         bool   `json:"cashAccepted"`
}
