package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vartur/facturelibre/internal/model"
)

func TestInvoice_Creation(t *testing.T) {
	inv := model.Invoice{
		Number:    "2025-001",
		IssueDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
		Seller: model.Party{
			Name:  "Jean Dupont",
			SIREN: "123456789",
			SIRET: "12345678900012",
		},
		Buyer: model.Party{
			Name: "ACME SARL",
		},
		Currency: model.CurrencyEUR,
	}

	assert.Equal(t, "2025-001", inv.Number)
	assert.Equal(t, "123456789", inv.Seller.SIREN)
	assert.Equal(t, "12345678900012", inv.Seller.SIRET)
	assert.Equal(t, "EUR", inv.Currency)
}

func TestLineItem_Calculate(t *testing.T) {
	item := model.LineItem{
		Description: "Consulting",
		Quantity:    decimal.NewFromInt(10),
		UnitPrice:   decimal.RequireFromString("50.00"),
		VATRate:     decimal.NewFromInt(20),
	}

	item.Calculate()

	assert.Equal(t, "500.00", item.GrossAmount.StringFixed(2))
	assert.True(t, item.DiscountAmt.IsZero())
	assert.Equal(t, "500.00", item.NetAmount.StringFixed(2))
	assert.Equal(t, "100.00", item.VATAmount.StringFixed(2))
	assert.Equal(t, "600.00", item.Total.StringFixed(2))
}

func TestLineItem_Calculate_HalfUp(t *testing.T) {
	// 3 * 19.995 = 59.985 -> 59.99 half-up, per line
	item := model.LineItem{
		Description: "Fournitures",
		Quantity:    decimal.NewFromInt(3),
		UnitPrice:   decimal.RequireFromString("19.995"),
		VATRate:     decimal.Zero,
	}

	item.Calculate()

	assert.Equal(t, "59.99", item.NetAmount.StringFixed(2))
	assert.True(t, item.VATAmount.IsZero())
}

func TestLineItem_CalculateWithPercentageDiscount(t *testing.T) {
	item := model.LineItem{
		Description: "Prestation",
		Quantity:    decimal.NewFromInt(5),
		UnitPrice:   decimal.RequireFromString("200.00"),
		VATRate:     decimal.NewFromInt(20),
		Discount: &model.Discount{
			Type:  model.DiscountPercentage,
			Value: decimal.NewFromInt(10),
		},
	}

	item.Calculate()

	// Gross = 1000.00, discount = 100.00, net = 900.00
	assert.Equal(t, "1000.00", item.GrossAmount.StringFixed(2))
	assert.Equal(t, "100.00", item.DiscountAmt.StringFixed(2))
	assert.Equal(t, "900.00", item.NetAmount.StringFixed(2))
	// VAT on the discounted net
	assert.Equal(t, "180.00", item.VATAmount.StringFixed(2))
	assert.Equal(t, "1080.00", item.Total.StringFixed(2))
}

func TestLineItem_CalculateWithAmountDiscount(t *testing.T) {
	item := model.LineItem{
		Description: "Prestation",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.RequireFromString("150.00"),
		VATRate:     decimal.Zero,
		Discount: &model.Discount{
			Type:  model.DiscountAmount,
			Value: decimal.RequireFromString("25.00"),
		},
	}

	item.Calculate()

	assert.Equal(t, "125.00", item.NetAmount.StringFixed(2))
}

func TestInvoice_ComputeTotals(t *testing.T) {
	inv := model.Invoice{
		Items: []model.LineItem{
			{
				Description: "Item 1",
				Quantity:    decimal.NewFromInt(2),
				UnitPrice:   decimal.RequireFromString("100.00"),
				VATRate:     decimal.NewFromInt(20),
			},
			{
				Description: "Item 2",
				Quantity:    decimal.NewFromInt(3),
				UnitPrice:   decimal.RequireFromString("50.00"),
				VATRate:     decimal.RequireFromString("5.5"),
			},
		},
	}

	inv.ComputeTotals()

	// Item 1: net=200.00, VAT=40.00
	// Item 2: net=150.00, VAT=8.25
	assert.Equal(t, "350.00", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "48.25", inv.TaxTotal.StringFixed(2))
	assert.Equal(t, "398.25", inv.GrandTotal.StringFixed(2))

	// Line numbering assigned in order
	assert.Equal(t, 1, inv.Items[0].Number)
	assert.Equal(t, 2, inv.Items[1].Number)
}

func TestInvoice_ComputeTotals_Idempotent(t *testing.T) {
	inv := model.Invoice{
		Items: []model.LineItem{
			{
				Description: "Conseil",
				Quantity:    decimal.NewFromInt(7),
				UnitPrice:   decimal.RequireFromString("33.33"),
				VATRate:     decimal.NewFromInt(20),
			},
		},
	}

	inv.ComputeTotals()
	first := inv.GrandTotal

	inv.ComputeTotals()
	assert.True(t, inv.GrandTotal.Equal(first))
}

func TestInvoice_GrandTotalIsSubtotalPlusTax(t *testing.T) {
	inv := model.Invoice{
		Items: []model.LineItem{
			{Description: "A", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("19.99"), VATRate: decimal.NewFromInt(20)},
			{Description: "B", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("0.01"), VATRate: decimal.RequireFromString("2.1")},
			{Description: "C", Quantity: decimal.RequireFromString("2.5"), UnitPrice: decimal.RequireFromString("13.37"), VATRate: decimal.RequireFromString("10")},
		},
	}

	inv.ComputeTotals()

	assert.True(t, inv.GrandTotal.Equal(inv.Subtotal.Add(inv.TaxTotal)))
}

func TestIsAllowedVATRate(t *testing.T) {
	for _, rate := range []string{"0", "2.1", "5.5", "10", "20"} {
		assert.True(t, model.IsAllowedVATRate(decimal.RequireFromString(rate)), rate)
	}
	assert.False(t, model.IsAllowedVATRate(decimal.NewFromInt(19)))
	assert.False(t, model.IsAllowedVATRate(decimal.NewFromInt(-1)))
}

func TestInvoice_HasMention(t *testing.T) {
	inv := model.Invoice{
		LegalMentions: []string{
			"Quelques conditions générales",
			model.FranchiseMention + " (régime micro-entrepreneur)",
		},
	}

	assert.True(t, inv.HasMention(model.FranchiseMention))
	assert.False(t, inv.HasMention("pénalité"))
}

func TestMalformedInputError(t *testing.T) {
	cause := assert.AnError
	err := model.NewMalformedInputError("issueDate", "not a valid date", cause)

	require.Contains(t, err.Error(), "issueDate")
	require.Contains(t, err.Error(), "not a valid date")
	require.ErrorIs(t, err, cause)
}

func TestComplianceReport(t *testing.T) {
	report := &model.ComplianceReport{}
	assert.True(t, report.Empty())

	report.Add("number", model.RuleInvalidInvoiceNumber, "invoice number must not be empty")
	report.Add("items", model.RuleEmptyInvoice, "invoice has no line items")

	assert.False(t, report.Empty())
	assert.True(t, report.Has(model.RuleEmptyInvoice))
	assert.False(t, report.Has(model.RuleInvalidDueDate))
	assert.Len(t, report.Strings(), 2)
	assert.Contains(t, report.Strings()[0], "InvalidInvoiceNumber")
}

func TestNonCompliantInvoiceError(t *testing.T) {
	report := &model.ComplianceReport{}
	report.Add("items", model.RuleEmptyInvoice, "invoice has no line items")

	err := &model.NonCompliantInvoiceError{Report: report}
	require.Contains(t, err.Error(), "EmptyInvoice")
	require.Contains(t, err.Error(), "not compliant")
}
