// Package parser turns a raw JSON invoice record into the typed model.
// Structural problems (missing or mistyped required fields) surface as
// MalformedInputError before any business validation runs.
package parser

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/vartur/facturelibre/internal/model"
)

const dateLayout = "2006-01-02"

// DefaultPaymentTermDays applies when neither dueDate nor paymentTermDays
// is supplied (French default payment period)
const DefaultPaymentTermDays = 30

// Parser decodes and structurally validates invoice input records
type Parser struct {
	validate *validator.Validate
}

// New creates a parser
func New() *Parser {
	return &Parser{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Parse decodes data into an Invoice. Unknown JSON fields are ignored.
func (p *Parser) Parse(data []byte) (*model.Invoice, error) {
	var req invoiceRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, model.NewMalformedInputError("body", "invalid JSON", err)
	}

	if err := p.validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, model.NewMalformedInputError(fe.Namespace(), "failed on rule '"+fe.Tag()+"'", err)
		}
		return nil, model.NewMalformedInputError("body", "structural validation failed", err)
	}

	return p.toModel(&req)
}

func (p *Parser) toModel(req *invoiceRequest) (*model.Invoice, error) {
	issueDate, err := time.Parse(dateLayout, req.IssueDate)
	if err != nil {
		return nil, model.NewMalformedInputError("issueDate", "not a valid date", err)
	}

	var dueDate time.Time
	switch {
	case req.DueDate != "":
		dueDate, err = time.Parse(dateLayout, req.DueDate)
		if err != nil {
			return nil, model.NewMalformedInputError("dueDate", "not a valid date", err)
		}
	case req.PaymentTermDays > 0:
		dueDate = issueDate.AddDate(0, 0, req.PaymentTermDays)
	default:
		dueDate = issueDate.AddDate(0, 0, DefaultPaymentTermDays)
	}

	currency := req.Currency
	if currency == "" {
		currency = model.CurrencyEUR
	}

	inv := &model.Invoice{
		Number:          req.InvoiceNumber,
		IssueDate:       issueDate,
		DueDate:         dueDate,
		Seller:          toParty(req.Seller),
		Buyer:           toParty(req.Buyer),
		BuyerIsBusiness: req.BuyerIsBusiness,
		Currency:        currency,
		VATExempt:       req.VATExempt,
		LegalMentions:   req.LegalMentions,
		ContractNumber:  req.ContractNumber,
	}

	// A VAT-exempt seller must carry the franchise clause. It is implied
	// by the flag so callers do not have to repeat the statutory wording.
	if req.VATExempt && !inv.HasMention(model.FranchiseMention) {
		inv.LegalMentions = append(inv.LegalMentions, model.FranchiseMention)
	}

	// Invoices to business clients must carry the late-payment penalty
	// clause, implied from the flag the same way.
	if req.BuyerIsBusiness && !inv.HasMention(model.LatePaymentMention) {
		inv.LegalMentions = append(inv.LegalMentions, model.LatePaymentMention)
	}

	for _, l := range req.LineItems {
		item := model.LineItem{
			Description: l.Description,
			Quantity:    *l.Quantity,
			UnitPrice:   *l.UnitPrice,
		}
		if l.TaxRate != nil {
			item.VATRate = *l.TaxRate
		} else {
			item.VATRate = decimal.Zero
		}
		if l.Discount != nil {
			item.Discount = &model.Discount{
				Type:  model.DiscountType(l.Discount.Type),
				Value: l.Discount.Value,
			}
		}
		inv.Items = append(inv.Items, item)
	}

	if req.Payment != nil {
		inv.Payment = model.PaymentMeans{
			BankTransferAccepted: req.Payment.BankTransferAccepted,
			IBAN:                 req.Payment.IBAN,
			BIC:                  req.Payment.BIC,
			BankName:             req.Payment.BankName,
			ChequesAccepted:      req.Payment.ChequesAccepted,
			Payee:                req.Payment.Payee,
			CashAccepted:         req.Payment.CashAccepted,
		}
	}

	return inv, nil
}

func toParty(req partyRequest) model.Party {
	country := req.Country
	if country == "" {
		country = "FR"
	}
	return model.Party{
		Name:         req.Name,
		TradeName:    req.TradeName,
		AddressLine1: req.AddressLine1,
		Postcode:     req.Postcode,
		City:         req.City,
		Country:      country,
		SIREN:        req.SIREN,
		SIRET:        req.SIRET,
		Email:        req.Email,
		Phone:        req.Phone,
		APECode:      req.APECode,
	}
}
