package facturx_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vartur/facturelibre/internal/facturx"
	"github.com/vartur/facturelibre/internal/model"
)

func exemptInvoice() *model.Invoice {
	inv := &model.Invoice{
		Number:    "2025-001",
		IssueDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
		Seller: model.Party{
			Name:         "Jean Dupont",
			AddressLine1: "1 rue de la Paix",
			Postcode:     "75002",
			City:         "Paris",
			Country:      "FR",
			SIREN:        "404833048",
			SIRET:        "40483304800022",
			Email:        "jean@example.fr",
		},
		Buyer: model.Party{
			Name:         "ACME SARL",
			AddressLine1: "10 avenue des Champs",
			Postcode:     "69001",
			City:         "Lyon",
			Country:      "FR",
		},
		Items: []model.LineItem{
			{
				Description: "Consulting",
				Quantity:    decimal.NewFromInt(10),
				UnitPrice:   decimal.RequireFromString("50.00"),
				VATRate:     decimal.Zero,
			},
		},
		Currency:      model.CurrencyEUR,
		VATExempt:     true,
		LegalMentions: []string{model.FranchiseMention},
	}
	inv.ComputeTotals()
	return inv
}

func collectingInvoice() *model.Invoice {
	inv := exemptInvoice()
	inv.VATExempt = false
	inv.LegalMentions = nil
	inv.Items = []model.LineItem{
		{Description: "Dev", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("300.00"), VATRate: decimal.NewFromInt(20)},
		{Description: "Conseil", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("100.00"), VATRate: decimal.NewFromInt(20)},
		{Description: "Livres", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("20.00"), VATRate: decimal.RequireFromString("5.5")},
	}
	inv.ComputeTotals()
	return inv
}

func parseXML(t *testing.T, data []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	return doc
}

func findText(t *testing.T, doc *etree.Document, path string) string {
	t.Helper()
	el := doc.FindElement(path)
	require.NotNil(t, el, "element not found: %s", path)
	return el.Text()
}

func TestBuild_DocumentHeader(t *testing.T) {
	payload, err := facturx.NewBuilder().Build(exemptInvoice())
	require.NoError(t, err)

	doc := parseXML(t, payload)

	assert.Equal(t, facturx.ProfileEN16931,
		findText(t, doc, "//rsm:ExchangedDocumentContext/ram:GuidelineSpecifiedDocumentContextParameter/ram:ID"))
	assert.Equal(t, "2025-001", findText(t, doc, "//rsm:ExchangedDocument/ram:ID"))
	assert.Equal(t, facturx.TypeCodeCommercialInvoice, findText(t, doc, "//rsm:ExchangedDocument/ram:TypeCode"))
	assert.Equal(t, "20250115", findText(t, doc, "//rsm:ExchangedDocument/ram:IssueDateTime/udt:DateTimeString"))
	assert.Equal(t, model.FranchiseMention, findText(t, doc, "//rsm:ExchangedDocument/ram:IncludedNote/ram:Content"))
}

func TestBuild_Parties(t *testing.T) {
	payload, err := facturx.NewBuilder().Build(exemptInvoice())
	require.NoError(t, err)

	doc := parseXML(t, payload)

	assert.Equal(t, "Jean Dupont", findText(t, doc, "//ram:SellerTradeParty/ram:Name"))
	assert.Equal(t, "40483304800022", findText(t, doc, "//ram:SellerTradeParty/ram:GlobalID"))
	assert.Equal(t, "404833048", findText(t, doc, "//ram:SellerTradeParty/ram:SpecifiedLegalOrganization/ram:ID"))
	assert.Equal(t, "FR83404833048", findText(t, doc, "//ram:SellerTradeParty/ram:SpecifiedTaxRegistration/ram:ID"))
	assert.Equal(t, "FR", findText(t, doc, "//ram:SellerTradeParty/ram:PostalTradeAddress/ram:CountryID"))
	assert.Equal(t, "ACME SARL", findText(t, doc, "//ram:BuyerTradeParty/ram:Name"))
}

func TestBuild_MonetarySummation(t *testing.T) {
	payload, err := facturx.NewBuilder().Build(exemptInvoice())
	require.NoError(t, err)

	doc := parseXML(t, payload)
	summation := "//ram:SpecifiedTradeSettlementHeaderMonetarySummation/"

	assert.Equal(t, "500.00", findText(t, doc, summation+"ram:LineTotalAmount"))
	assert.Equal(t, "500.00", findText(t, doc, summation+"ram:TaxBasisTotalAmount"))
	assert.Equal(t, "0.00", findText(t, doc, summation+"ram:TaxTotalAmount"))
	assert.Equal(t, "500.00", findText(t, doc, summation+"ram:GrandTotalAmount"))
	assert.Equal(t, "500.00", findText(t, doc, summation+"ram:DuePayableAmount"))
}

func TestBuild_ExemptTaxBreakdown(t *testing.T) {
	payload, err := facturx.NewBuilder().Build(exemptInvoice())
	require.NoError(t, err)

	doc := parseXML(t, payload)

	groups := doc.FindElements("//ram:ApplicableHeaderTradeSettlement/ram:ApplicableTradeTax")
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, facturx.TaxCategoryExempt, g.FindElement("ram:CategoryCode").Text())
	assert.Equal(t, facturx.ExemptionFranchise, g.FindElement("ram:ExemptionReasonCode").Text())
	assert.Equal(t, "500.00", g.FindElement("ram:BasisAmount").Text())
	assert.Equal(t, "0.00", g.FindElement("ram:CalculatedAmount").Text())
}

func TestBuild_VATBreakdownGroupsByRate(t *testing.T) {
	payload, err := facturx.NewBuilder().Build(collectingInvoice())
	require.NoError(t, err)

	doc := parseXML(t, payload)

	groups := doc.FindElements("//ram:ApplicableHeaderTradeSettlement/ram:ApplicableTradeTax")
	require.Len(t, groups, 2)

	// Lines at 20% merge into one group: 600.00 + 100.00
	first := groups[0]
	assert.Equal(t, "20.00", first.FindElement("ram:RateApplicablePercent").Text())
	assert.Equal(t, "700.00", first.FindElement("ram:BasisAmount").Text())
	assert.Equal(t, "140.00", first.FindElement("ram:CalculatedAmount").Text())

	second := groups[1]
	assert.Equal(t, "5.50", second.FindElement("ram:RateApplicablePercent").Text())
	assert.Equal(t, "60.00", second.FindElement("ram:BasisAmount").Text())
	assert.Equal(t, "3.30", second.FindElement("ram:CalculatedAmount").Text())
}

func TestBuild_LineItems(t *testing.T) {
	payload, err := facturx.NewBuilder().Build(collectingInvoice())
	require.NoError(t, err)

	doc := parseXML(t, payload)

	lines := doc.FindElements("//ram:IncludedSupplyChainTradeLineItem")
	require.Len(t, lines, 3)

	first := lines[0]
	assert.Equal(t, "1", first.FindElement("ram:AssociatedDocumentLineDocument/ram:LineID").Text())
	assert.Equal(t, "Dev", first.FindElement("ram:SpecifiedTradeProduct/ram:Name").Text())
	assert.Equal(t, "300.00", first.FindElement("ram:SpecifiedLineTradeAgreement/ram:NetPriceProductTradePrice/ram:ChargeAmount").Text())
	qty := first.FindElement("ram:SpecifiedLineTradeDelivery/ram:BilledQuantity")
	assert.Equal(t, "2", qty.Text())
	assert.Equal(t, facturx.UnitCodeOne, qty.SelectAttrValue("unitCode", ""))
	assert.Equal(t, "600.00", first.FindElement("ram:SpecifiedLineTradeSettlement/ram:SpecifiedTradeSettlementLineMonetarySummation/ram:LineTotalAmount").Text())
}

func TestBuild_PaymentMeans(t *testing.T) {
	inv := exemptInvoice()
	inv.Payment = model.PaymentMeans{
		BankTransferAccepted: true,
		IBAN:                 "FR76 3000 6000 0112 3456 7890 189",
		BIC:                  "AGRIFRPP",
		ChequesAccepted:      true,
		Payee:                "Jean Dupont",
		CashAccepted:         true,
	}

	payload, err := facturx.NewBuilder().Build(inv)
	require.NoError(t, err)

	doc := parseXML(t, payload)

	means := doc.FindElements("//ram:SpecifiedTradeSettlementPaymentMeans")
	require.Len(t, means, 3)

	codes := make([]string, 0, 3)
	for _, m := range means {
		codes = append(codes, m.FindElement("ram:TypeCode").Text())
	}
	assert.Equal(t, []string{
		facturx.PaymentMeansCash,
		facturx.PaymentMeansCheque,
		facturx.PaymentMeansSEPACreditTransfer,
	}, codes)

	// IBAN is carried without grouping spaces
	assert.Equal(t, "FR7630006000011234567890189",
		findText(t, doc, "//ram:PayeePartyCreditorFinancialAccount/ram:IBANID"))
	assert.Equal(t, "AGRIFRPP",
		findText(t, doc, "//ram:PayeeSpecifiedCreditorFinancialInstitution/ram:BICID"))
}

func TestBuild_DueDate(t *testing.T) {
	payload, err := facturx.NewBuilder().Build(exemptInvoice())
	require.NoError(t, err)

	doc := parseXML(t, payload)
	assert.Equal(t, "20250214",
		findText(t, doc, "//ram:SpecifiedTradePaymentTerms/ram:DueDateDateTime/udt:DateTimeString"))
}

func TestBuild_Deterministic(t *testing.T) {
	b := facturx.NewBuilder()
	inv := collectingInvoice()

	first, err := b.Build(inv)
	require.NoError(t, err)
	second, err := b.Build(inv)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuild_InvalidSellerSIREN(t *testing.T) {
	inv := exemptInvoice()
	inv.Seller.SIREN = "bad"

	_, err := facturx.NewBuilder().Build(inv)
	require.Error(t, err)
}
