package purchasing

import "github.com/shopspring/decimal"

// ItemAmounts are the derived amounts of one order line.
type ItemAmounts struct {
	Gross              decimal.Decimal
	Discount           decimal.Decimal
	AdditionalDiscount decimal.Decimal
	// Net is the taxable base after discounts, before VAT handling.
	Net         decimal.Decimal
	Vat         decimal.Decimal
	PreVat      decimal.Decimal
	Withholding decimal.Decimal
	// Total is what the line contributes to the order total, VAT included.
	Total decimal.Decimal
}

// OrderSummary are the derived amounts of a whole order, over its active
// items only. Amounts are rounded to 2 decimal places at the order level.
type OrderSummary struct {
	Gross              decimal.Decimal
	Discount           decimal.Decimal
	AdditionalDiscount decimal.Decimal
	Net                decimal.Decimal
	Vat                decimal.Decimal
	Withholding        decimal.Decimal
	Total              decimal.Decimal
	// Payable is the total minus withholding tax, what actually changes hands.
	Payable decimal.Decimal
}

var one = decimal.NewFromInt(1)

// ComputeItem derives the amounts of a single line.
//
// When the line price already includes VAT the tax is extracted out of the
// net amount (vat = net - net/(1+rate)); when it excludes VAT the tax is
// added on top. Withholding always applies to the pre-VAT base.
func ComputeItem(it Item) ItemAmounts {
	a := ItemAmounts{
		Gross:              it.Qty.Mul(it.PricePerUnit),
		Discount:           it.Qty.Mul(it.DiscountPricePerUnit),
		AdditionalDiscount: it.AdditionalDiscount,
	}
	a.Net = a.Gross.Sub(a.Discount).Sub(a.AdditionalDiscount)

	rate := it.VatRateOption.Rate()
	switch {
	case rate.IsZero():
		a.PreVat = a.Net
		a.Total = a.Net
	case it.VatIncluded:
		a.PreVat = a.Net.Div(one.Add(rate))
		a.Vat = a.Net.Sub(a.PreVat)
		a.Total = a.Net
	default:
		a.PreVat = a.Net
		a.Vat = a.Net.Mul(rate)
		a.Total = a.Net.Add(a.Vat)
	}

	a.Withholding = a.PreVat.Mul(it.TaxWithholdingRateOption.Rate())
	return a
}

// ComputeOrder derives the order-level amounts by summing the active items.
func ComputeOrder(o PurchaseOrder) OrderSummary {
	var s OrderSummary
	for _, it := range o.ActiveItems() {
		a := ComputeItem(it)
		s.Gross = s.Gross.Add(a.Gross)
		s.Discount = s.Discount.Add(a.Discount)
		s.AdditionalDiscount = s.AdditionalDiscount.Add(a.AdditionalDiscount)
		s.Net = s.Net.Add(a.Net)
		s.Vat = s.Vat.Add(a.Vat)
		s.Withholding = s.Withholding.Add(a.Withholding)
		s.Total = s.Total.Add(a.Total)
	}
	s.Payable = s.Total.Sub(s.Withholding)
	return s.round()
}

func (s OrderSummary) round() OrderSummary {
	s.Gross = s.Gross.Round(2)
	s.Discount = s.Discount.Round(2)
	s.AdditionalDiscount = s.AdditionalDiscount.Round(2)
	s.Net = s.Net.Round(2)
	s.Vat = s.Vat.Round(2)
	s.Withholding = s.Withholding.Round(2)
	s.Total = s.Total.Round(2)
	s.Payable = s.Payable.Round(2)
	return s
}
