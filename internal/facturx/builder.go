// Package facturx builds the EN 16931 semantic XML payload (UN/CEFACT
// Cross Industry Invoice vocabulary) embedded in a Factur-X PDF/A-3.
package facturx

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/vartur/facturelibre/internal/compliance"
	"github.com/vartur/facturelibre/internal/model"
)

// Builder produces the structured CII payload for one invoice.
// Building is a pure transformation: same invoice in, byte-identical
// XML out.
type Builder struct{}

// NewBuilder creates a builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build serializes inv as an EN 16931 CII document
func (b *Builder) Build(inv *model.Invoice) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", NamespaceRSM)
	root.CreateAttr("xmlns:ram", NamespaceRAM)
	root.CreateAttr("xmlns:udt", NamespaceUDT)

	b.buildContext(root)
	b.buildDocument(root, inv)
	if err := b.buildTransaction(root, inv); err != nil {
		return nil, err
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (b *Builder) buildContext(root *etree.Element) {
	ctx := root.CreateElement("rsm:ExchangedDocumentContext")
	param := ctx.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter")
	param.CreateElement("ram:ID").SetText(ProfileEN16931)
}

func (b *Builder) buildDocument(root *etree.Element, inv *model.Invoice) {
	doc := root.CreateElement("rsm:ExchangedDocument")
	doc.CreateElement("ram:ID").SetText(inv.Number)
	doc.CreateElement("ram:TypeCode").SetText(TypeCodeCommercialInvoice)

	issue := doc.CreateElement("ram:IssueDateTime")
	setDate(issue, inv.IssueDate)

	for _, mention := range inv.LegalMentions {
		note := doc.CreateElement("ram:IncludedNote")
		note.CreateElement("ram:Content").SetText(mention)
	}
}

func (b *Builder) buildTransaction(root *etree.Element, inv *model.Invoice) error {
	tx := root.CreateElement("rsm:SupplyChainTradeTransaction")

	for i := range inv.Items {
		b.buildLineItem(tx, inv, &inv.Items[i])
	}

	if err := b.buildAgreement(tx, inv); err != nil {
		return err
	}
	tx.CreateElement("ram:ApplicableHeaderTradeDelivery")
	b.buildSettlement(tx, inv)
	return nil
}

func (b *Builder) buildLineItem(tx *etree.Element, inv *model.Invoice, item *model.LineItem) {
	line := tx.CreateElement("ram:IncludedSupplyChainTradeLineItem")

	lineDoc := line.CreateElement("ram:AssociatedDocumentLineDocument")
	lineDoc.CreateElement("ram:LineID").SetText(fmt.Sprintf("%d", item.Number))

	product := line.CreateElement("ram:SpecifiedTradeProduct")
	product.CreateElement("ram:Name").SetText(item.Description)

	agreement := line.CreateElement("ram:SpecifiedLineTradeAgreement")
	price := agreement.CreateElement("ram:NetPriceProductTradePrice")
	price.CreateElement("ram:ChargeAmount").SetText(amount(item.UnitPrice))

	delivery := line.CreateElement("ram:SpecifiedLineTradeDelivery")
	qty := delivery.CreateElement("ram:BilledQuantity")
	qty.CreateAttr("unitCode", UnitCodeOne)
	qty.SetText(item.Quantity.String())

	settlement := line.CreateElement("ram:SpecifiedLineTradeSettlement")
	b.buildLineTax(settlement, inv, item)

	summation := settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation")
	summation.CreateElement("ram:LineTotalAmount").SetText(amount(item.NetAmount))
}

func (b *Builder) buildLineTax(settlement *etree.Element, inv *model.Invoice, item *model.LineItem) {
	tax := settlement.CreateElement("ram:ApplicableTradeTax")
	tax.CreateElement("ram:TypeCode").SetText(TaxTypeVAT)

	if inv.VATExempt || item.VATRate.IsZero() {
		tax.CreateElement("ram:ExemptionReasonCode").SetText(ExemptionFranchise)
		tax.CreateElement("ram:CategoryCode").SetText(TaxCategoryExempt)
		tax.CreateElement("ram:RateApplicablePercent").SetText(rate(decimal.Zero))
		return
	}
	tax.CreateElement("ram:CategoryCode").SetText(TaxCategoryStandard)
	tax.CreateElement("ram:RateApplicablePercent").SetText(rate(item.VATRate))
}

func (b *Builder) buildAgreement(tx *etree.Element, inv *model.Invoice) error {
	agreement := tx.CreateElement("ram:ApplicableHeaderTradeAgreement")

	seller := agreement.CreateElement("ram:SellerTradeParty")
	if inv.Seller.SIRET != "" {
		gid := seller.CreateElement("ram:GlobalID")
		gid.CreateAttr("schemeID", SchemeSIRET)
		gid.SetText(inv.Seller.SIRET)
	}
	seller.CreateElement("ram:Name").SetText(inv.Seller.Name)

	legalOrg := seller.CreateElement("ram:SpecifiedLegalOrganization")
	orgID := legalOrg.CreateElement("ram:ID")
	orgID.CreateAttr("schemeID", SchemeSIREN)
	orgID.SetText(inv.Seller.SIREN)
	if inv.Seller.TradeName != "" {
		legalOrg.CreateElement("ram:TradingBusinessName").SetText(inv.Seller.TradeName)
	}

	buildAddress(seller, inv.Seller)

	if inv.Seller.Email != "" {
		uri := seller.CreateElement("ram:URIUniversalCommunication")
		uriID := uri.CreateElement("ram:URIID")
		uriID.CreateAttr("schemeID", "EM")
		uriID.SetText(inv.Seller.Email)
	}

	vatNumber, err := compliance.VATNumberFromSIREN(inv.Seller.SIREN)
	if err != nil {
		return fmt.Errorf("seller VAT number: %w", err)
	}
	taxReg := seller.CreateElement("ram:SpecifiedTaxRegistration")
	taxRegID := taxReg.CreateElement("ram:ID")
	taxRegID.CreateAttr("schemeID", "VA")
	taxRegID.SetText(vatNumber)

	buyer := agreement.CreateElement("ram:BuyerTradeParty")
	buyer.CreateElement("ram:Name").SetText(inv.Buyer.Name)
	if inv.BuyerIsBusiness && inv.Buyer.SIREN != "" {
		legalOrg := buyer.CreateElement("ram:SpecifiedLegalOrganization")
		orgID := legalOrg.CreateElement("ram:ID")
		orgID.CreateAttr("schemeID", SchemeSIREN)
		orgID.SetText(inv.Buyer.SIREN)
	}
	buildAddress(buyer, inv.Buyer)

	if inv.ContractNumber != "" {
		contract := agreement.CreateElement("ram:ContractReferencedDocument")
		contract.CreateElement("ram:IssuerAssignedID").SetText(inv.ContractNumber)
	}
	return nil
}

func (b *Builder) buildSettlement(tx *etree.Element, inv *model.Invoice) {
	settlement := tx.CreateElement("ram:ApplicableHeaderTradeSettlement")
	settlement.CreateElement("ram:InvoiceCurrencyCode").SetText(inv.Currency)

	b.buildPaymentMeans(settlement, inv)
	b.buildVATBreakdown(settlement, inv)

	terms := settlement.CreateElement("ram:SpecifiedTradePaymentTerms")
	terms.CreateElement("ram:Description").SetText(
		fmt.Sprintf("Paiement à effectuer avant le %s", inv.DueDate.Format("02/01/2006")))
	due := terms.CreateElement("ram:DueDateDateTime")
	setDate(due, inv.DueDate)

	summation := settlement.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	summation.CreateElement("ram:LineTotalAmount").SetText(amount(inv.Subtotal))
	summation.CreateElement("ram:TaxBasisTotalAmount").SetText(amount(inv.Subtotal))
	taxTotal := summation.CreateElement("ram:TaxTotalAmount")
	taxTotal.CreateAttr("currencyID", inv.Currency)
	taxTotal.SetText(amount(inv.TaxTotal))
	summation.CreateElement("ram:GrandTotalAmount").SetText(amount(inv.GrandTotal))
	summation.CreateElement("ram:DuePayableAmount").SetText(amount(inv.GrandTotal))
}

func (b *Builder) buildPaymentMeans(settlement *etree.Element, inv *model.Invoice) {
	p := inv.Payment

	if p.CashAccepted {
		means := settlement.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
		means.CreateElement("ram:TypeCode").SetText(PaymentMeansCash)
		means.CreateElement("ram:Information").SetText("En espèces")
	}

	if p.ChequesAccepted {
		means := settlement.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
		means.CreateElement("ram:TypeCode").SetText(PaymentMeansCheque)
		means.CreateElement("ram:Information").SetText("Par chèque à l'ordre de " + p.Payee)
	}

	if p.BankTransferAccepted {
		means := settlement.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
		means.CreateElement("ram:TypeCode").SetText(PaymentMeansSEPACreditTransfer)
		means.CreateElement("ram:Information").SetText("Virement SEPA")
		account := means.CreateElement("ram:PayeePartyCreditorFinancialAccount")
		account.CreateElement("ram:IBANID").SetText(stripSpaces(p.IBAN))
		if p.BankName != "" {
			account.CreateElement("ram:AccountName").SetText(p.BankName)
		}
		institution := means.CreateElement("ram:PayeeSpecifiedCreditorFinancialInstitution")
		institution.CreateElement("ram:BICID").SetText(stripSpaces(p.BIC))
	}
}

// vatGroup accumulates the per-rate breakdown required by BG-23
type vatGroup struct {
	category string
	rate     decimal.Decimal
	basis    decimal.Decimal
	tax      decimal.Decimal
}

func (b *Builder) buildVATBreakdown(settlement *etree.Element, inv *model.Invoice) {
	var groups []*vatGroup
	for _, item := range inv.Items {
		category := TaxCategoryStandard
		if inv.VATExempt || item.VATRate.IsZero() {
			category = TaxCategoryExempt
		}

		var g *vatGroup
		for _, existing := range groups {
			if existing.category == category && existing.rate.Equal(item.VATRate) {
				g = existing
				break
			}
		}
		if g == nil {
			g = &vatGroup{category: category, rate: item.VATRate}
			groups = append(groups, g)
		}
		g.basis = g.basis.Add(item.NetAmount)
		g.tax = g.tax.Add(item.VATAmount)
	}

	for _, g := range groups {
		tax := settlement.CreateElement("ram:ApplicableTradeTax")
		tax.CreateElement("ram:CalculatedAmount").SetText(amount(g.tax))
		tax.CreateElement("ram:TypeCode").SetText(TaxTypeVAT)
		if g.category == TaxCategoryExempt {
			tax.CreateElement("ram:ExemptionReasonCode").SetText(ExemptionFranchise)
		}
		tax.CreateElement("ram:BasisAmount").SetText(amount(g.basis))
		tax.CreateElement("ram:CategoryCode").SetText(g.category)
		tax.CreateElement("ram:RateApplicablePercent").SetText(rate(g.rate))
	}
}

func buildAddress(party *etree.Element, p model.Party) {
	addr := party.CreateElement("ram:PostalTradeAddress")
	addr.CreateElement("ram:PostcodeCode").SetText(p.Postcode)
	addr.CreateElement("ram:LineOne").SetText(p.AddressLine1)
	addr.CreateElement("ram:CityName").SetText(p.City)
	addr.CreateElement("ram:CountryID").SetText(p.Country)
}

func setDate(parent *etree.Element, t time.Time) {
	dt := parent.CreateElement("udt:DateTimeString")
	dt.CreateAttr("format", DateFormatCCYYMMDD)
	dt.SetText(t.Format("20060102"))
}

// amount renders a monetary value with exactly two decimals, matching the
// rendered layout byte for byte
func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func rate(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func stripSpaces(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
