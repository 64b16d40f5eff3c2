package purchasing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, dec(want).Equal(got), "want %s got %s", want, got.String())
}

func TestComputeItemVatExcluded(t *testing.T) {
	a := ComputeItem(Item{
		Qty:                      dec("10"),
		PricePerUnit:             dec("100"),
		DiscountPricePerUnit:     dec("5"),
		AdditionalDiscount:       dec("50"),
		VatRateOption:            VatRateSeven,
		TaxWithholdingRateOption: "3",
	})

	requireDecimal(t, "1000", a.Gross)
	requireDecimal(t, "50", a.Discount)
	requireDecimal(t, "900", a.Net)
	requireDecimal(t, "900", a.PreVat)
	requireDecimal(t, "63", a.Vat)
	requireDecimal(t, "963", a.Total)
	requireDecimal(t, "27", a.Withholding)
}

func TestComputeItemVatIncluded(t *testing.T) {
	a := ComputeItem(Item{
		Qty:                      dec("1"),
		PricePerUnit:             dec("1070"),
		VatRateOption:            VatRateSeven,
		VatIncluded:              true,
		TaxWithholdingRateOption: "3",
	})

	// The tax is carved out of the price, not added on top.
	requireDecimal(t, "1070", a.Net)
	requireDecimal(t, "1000", a.PreVat)
	requireDecimal(t, "70", a.Vat)
	requireDecimal(t, "1070", a.Total)
	requireDecimal(t, "30", a.Withholding)
}

func TestComputeItemNoVat(t *testing.T) {
	a := ComputeItem(Item{
		Qty:           dec("3"),
		PricePerUnit:  dec("250"),
		VatRateOption: VatRateNone,
	})

	requireDecimal(t, "750", a.Net)
	requireDecimal(t, "0", a.Vat)
	requireDecimal(t, "750", a.Total)
	requireDecimal(t, "0", a.Withholding)
}

func TestComputeOrderSkipsRemovedItemsAndRounds(t *testing.T) {
	gone := time.Now()
	order := PurchaseOrder{
		Items: []Item{
			{
				Qty:                      dec("1"),
				PricePerUnit:             dec("100"),
				VatRateOption:            VatRateSeven,
				VatIncluded:              true,
				TaxWithholdingRateOption: "3",
			},
			{
				Qty:           dec("1"),
				PricePerUnit:  dec("9999"),
				VatRateOption: VatRateSeven,
				DeletedAt:     &gone,
			},
		},
	}

	s := ComputeOrder(order)

	// 100 inclusive of 7% VAT: base 93.4579..., tax 6.5420..., both rounded
	// at the order level.
	requireDecimal(t, "100", s.Net)
	requireDecimal(t, "6.54", s.Vat)
	requireDecimal(t, "100", s.Total)
	requireDecimal(t, "2.8", s.Withholding)
	requireDecimal(t, "97.2", s.Payable)
}

func TestComputeOrderPayable(t *testing.T) {
	order := PurchaseOrder{
		Items: []Item{
			{
				Qty:                      dec("10"),
				PricePerUnit:             dec("100"),
				DiscountPricePerUnit:     dec("5"),
				AdditionalDiscount:       dec("50"),
				VatRateOption:            VatRateSeven,
				TaxWithholdingRateOption: "3",
			},
			{
				Qty:           dec("2"),
				PricePerUnit:  dec("500"),
				VatRateOption: VatRateNone,
			},
		},
	}

	s := ComputeOrder(order)

	requireDecimal(t, "3000", s.Gross)
	requireDecimal(t, "1900", s.Net)
	requireDecimal(t, "63", s.Vat)
	requireDecimal(t, "1963", s.Total)
	requireDecimal(t, "27", s.Withholding)
	requireDecimal(t, "1936", s.Payable)
}
