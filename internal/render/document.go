// Package render lays out the human-readable view of an invoice: the
// text blocks, line-item table and totals handed to the PDF rendering
// step. It carries both raw decimal values and their French display
// strings so the packager and the consistency checks read from one
// source of truth.
package render

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vartur/facturelibre/internal/compliance"
	"github.com/vartur/facturelibre/internal/model"
	"github.com/vartur/facturelibre/internal/money"
)

// PartyBlock is one address block on the invoice
type PartyBlock struct {
	Name  string
	Lines []string
}

// Line is one row of the line-item table
type Line struct {
	Number      int
	Description string
	Quantity    string

	UnitPrice decimal.Decimal
	NetAmount decimal.Decimal
	VATRate   decimal.Decimal
	VATAmount decimal.Decimal

	UnitPriceDisplay string
	NetDisplay       string
	VATRateDisplay   string
}

// Document is the laid-out, human-readable invoice content
type Document struct {
	Title     string
	Number    string
	IssueDate time.Time
	DueDate   time.Time

	Seller PartyBlock
	Buyer  PartyBlock

	Lines []Line

	Subtotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal

	SubtotalDisplay   string
	TaxTotalDisplay   string
	GrandTotalDisplay string

	Currency      string
	PaymentLines  []string
	LegalMentions []string
}

// Build lays out the rendered view of a validated invoice with computed
// totals. It performs no I/O.
func Build(inv *model.Invoice) *Document {
	doc := &Document{
		Title:     fmt.Sprintf("FACTURE N°%s", inv.Number),
		Number:    inv.Number,
		IssueDate: inv.IssueDate,
		DueDate:   inv.DueDate,
		Seller:    sellerBlock(inv),
		Buyer:     buyerBlock(inv),

		Subtotal:   inv.Subtotal,
		TaxTotal:   inv.TaxTotal,
		GrandTotal: inv.GrandTotal,

		SubtotalDisplay:   money.FormatEUR(inv.Subtotal),
		TaxTotalDisplay:   money.FormatEUR(inv.TaxTotal),
		GrandTotalDisplay: money.FormatEUR(inv.GrandTotal),

		Currency:      inv.Currency,
		LegalMentions: inv.LegalMentions,
	}

	for _, item := range inv.Items {
		doc.Lines = append(doc.Lines, Line{
			Number:      item.Number,
			Description: item.Description,
			Quantity:    item.Quantity.String(),

			UnitPrice: item.UnitPrice,
			NetAmount: item.NetAmount,
			VATRate:   item.VATRate,
			VATAmount: item.VATAmount,

			UnitPriceDisplay: money.FormatEUR(item.UnitPrice),
			NetDisplay:       money.FormatEUR(item.NetAmount),
			VATRateDisplay:   money.FormatRate(item.VATRate),
		})
	}

	doc.PaymentLines = paymentLines(inv)
	return doc
}

func sellerBlock(inv *model.Invoice) PartyBlock {
	p := inv.Seller
	block := PartyBlock{Name: p.Name}
	if p.TradeName != "" {
		block.Lines = append(block.Lines, p.TradeName)
	}
	block.Lines = append(block.Lines, p.AddressLine1, p.Postcode+" "+p.City)
	if p.SIREN != "" {
		block.Lines = append(block.Lines, "SIREN : "+FormatSIREN(p.SIREN))
	}
	if p.SIRET != "" {
		block.Lines = append(block.Lines, "SIRET : "+FormatSIRET(p.SIRET))
	}
	if vat, err := compliance.VATNumberFromSIREN(p.SIREN); err == nil {
		block.Lines = append(block.Lines, "N° TVA : "+FormatVATNumber(vat))
	}
	if p.APECode != "" {
		block.Lines = append(block.Lines, "Code APE : "+p.APECode)
	}
	if p.Email != "" {
		block.Lines = append(block.Lines, p.Email)
	}
	if p.Phone != "" {
		block.Lines = append(block.Lines, p.Phone)
	}
	return block
}

func buyerBlock(inv *model.Invoice) PartyBlock {
	p := inv.Buyer
	block := PartyBlock{Name: p.Name}
	block.Lines = append(block.Lines, p.AddressLine1, p.Postcode+" "+p.City)
	if inv.BuyerIsBusiness && p.SIREN != "" {
		block.Lines = append(block.Lines, "SIREN : "+FormatSIREN(p.SIREN))
	}
	return block
}

func paymentLines(inv *model.Invoice) []string {
	var lines []string
	p := inv.Payment

	lines = append(lines, "Date d'échéance : "+FormatDateFR(inv.DueDate))

	if p.CashAccepted {
		lines = append(lines, "Paiement en espèces accepté")
	}
	if p.ChequesAccepted {
		lines = append(lines, "Par chèque à l'ordre de "+p.Payee)
	}
	if p.BankTransferAccepted {
		lines = append(lines, "Par virement SEPA")
		lines = append(lines, "IBAN : "+FormatIBAN(p.IBAN))
		lines = append(lines, "BIC : "+FormatBIC(p.BIC))
		if p.BankName != "" {
			lines = append(lines, "Banque : "+p.BankName)
		}
	}
	return lines
}
