package purchasing

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemInput is one line of a create or replace payload.
type ItemInput struct {
	ItemID                   string          `json:"item_id" validate:"required,uuid"`
	Kind                     string          `json:"kind" validate:"required,oneof=product service"`
	VariantID                *string         `json:"variant_id" validate:"omitempty,uuid"`
	Description              string          `json:"description" validate:"omitempty,max=1000"`
	Qty                      decimal.Decimal `json:"qty"`
	PricePerUnit             decimal.Decimal `json:"price_per_unit"`
	DiscountPricePerUnit     decimal.Decimal `json:"discount_price_per_unit"`
	AdditionalDiscount       decimal.Decimal `json:"additional_discount"`
	VatRateOption            string          `json:"vat_rate_option" validate:"omitempty,oneof=none 0 7"`
	VatIncluded              bool            `json:"vat_included"`
	TaxWithholdingRateOption string          `json:"tax_withholding_rate_option" validate:"omitempty,oneof=none 0 1 2 3 5 10 15"`
}

// CreateOrderRequest is the JSON payload for POST /purchase_orders.
type CreateOrderRequest struct {
	Reference                string          `json:"reference" validate:"omitempty,max=200"`
	Note                     string          `json:"note" validate:"omitempty,max=2000"`
	SupplierID               string          `json:"supplier_id" validate:"required,uuid"`
	CustomerID               string          `json:"customer_id" validate:"required,uuid"`
	OrderDate                time.Time       `json:"order_date" validate:"required"`
	DeliveryDate             *time.Time      `json:"delivery_date"`
	PaymentTermsDays         int             `json:"payment_terms_days" validate:"gte=0,lte=365"`
	Items                    []ItemInput     `json:"items" validate:"min=1,dive"`
	AdditionalDiscountAmount decimal.Decimal `json:"additional_discount_amount"`
	VatOption                string          `json:"vat_option" validate:"omitempty,oneof=none included excluded"`
	IncludedVat              bool            `json:"included_vat"`
	Currency                 string          `json:"currency" validate:"omitempty,oneof=THB USD"`
}

// UpdateOrderRequest is the JSON payload for PUT /purchase_orders/{id}.
// Nil fields are left untouched.
type UpdateOrderRequest struct {
	Reference                *string          `json:"reference" validate:"omitempty,max=200"`
	Note                     *string          `json:"note" validate:"omitempty,max=2000"`
	SupplierID               *string          `json:"supplier_id" validate:"omitempty,uuid"`
	CustomerID               *string          `json:"customer_id" validate:"omitempty,uuid"`
	OrderDate                *time.Time       `json:"order_date"`
	DeliveryDate             *time.Time       `json:"delivery_date"`
	PaymentTermsDays         *int             `json:"payment_terms_days" validate:"omitempty,gte=0,lte=365"`
	AdditionalDiscountAmount *decimal.Decimal `json:"additional_discount_amount"`
	VatOption                *string          `json:"vat_option" validate:"omitempty,oneof=none included excluded"`
	IncludedVat              *bool            `json:"included_vat"`
	Currency                 *string          `json:"currency" validate:"omitempty,oneof=THB USD"`
	Status                   *string          `json:"status" validate:"omitempty,oneof=pending approved rejected closed"`
}

// ReplaceItemsRequest is the JSON payload for PUT /purchase_orders/{id}/items.
// The swap also carries the order-level VAT flags and discount, since those
// only make sense against a concrete item list.
type ReplaceItemsRequest struct {
	Items                    []ItemInput     `json:"items" validate:"min=1,dive"`
	AdditionalDiscountAmount decimal.Decimal `json:"additional_discount_amount"`
	VatOption                string          `json:"vat_option" validate:"omitempty,oneof=none included excluded"`
	IncludedVat              bool            `json:"included_vat"`
}

// ReorderItemsRequest is the JSON payload for PUT /purchase_orders/{id}/items/order.
type ReorderItemsRequest struct {
	ItemIDOrder []string `json:"item_id_order" validate:"min=1,dive,uuid"`
}

// ItemResponse is the JSON rendering of one line plus its derived amounts.
type ItemResponse struct {
	ID                       string          `json:"id"`
	ItemID                   string          `json:"item_id"`
	Kind                     string          `json:"kind"`
	VariantID                *string         `json:"variant_id,omitempty"`
	Name                     string          `json:"name"`
	Description              string          `json:"description"`
	Qty                      decimal.Decimal `json:"qty"`
	PricePerUnit             decimal.Decimal `json:"price_per_unit"`
	DiscountPricePerUnit     decimal.Decimal `json:"discount_price_per_unit"`
	AdditionalDiscount       decimal.Decimal `json:"additional_discount"`
	VatRateOption            string          `json:"vat_rate_option"`
	VatIncluded              bool            `json:"vat_included"`
	TaxWithholdingRateOption string          `json:"tax_withholding_rate_option"`
	VatAmount                decimal.Decimal `json:"vat_amount"`
	WithholdingAmount        decimal.Decimal `json:"withholding_amount"`
	Total                    decimal.Decimal `json:"total"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

// SummaryResponse is the JSON rendering of the order-level derived amounts.
type SummaryResponse struct {
	Gross              decimal.Decimal `json:"gross"`
	Discount           decimal.Decimal `json:"discount"`
	AdditionalDiscount decimal.Decimal `json:"additional_discount"`
	Net                decimal.Decimal `json:"net"`
	Vat                decimal.Decimal `json:"vat"`
	Withholding        decimal.Decimal `json:"withholding"`
	Total              decimal.Decimal `json:"total"`
	Payable            decimal.Decimal `json:"payable"`
}

// OrderResponse is the JSON rendering of an order.
type OrderResponse struct {
	ID                       string          `json:"id"`
	Year                     int             `json:"year"`
	Month                    int             `json:"month"`
	Number                   int             `json:"number"`
	Reference                string          `json:"reference"`
	Note                     string          `json:"note"`
	SupplierID               string          `json:"supplier_id"`
	CustomerID               string          `json:"customer_id"`
	OrderDate                time.Time       `json:"order_date"`
	DeliveryDate             *time.Time      `json:"delivery_date,omitempty"`
	PaymentTermsDays         int             `json:"payment_terms_days"`
	Items                    []ItemResponse  `json:"items"`
	AdditionalDiscountAmount decimal.Decimal `json:"additional_discount_amount"`
	VatOption                string          `json:"vat_option"`
	IncludedVat              bool            `json:"included_vat"`
	Currency                 string          `json:"currency"`
	Status                   string          `json:"status"`
	UserID                   string          `json:"user_id"`
	Summary                  SummaryResponse `json:"summary"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
	DeletedAt                *time.Time      `json:"deleted_at,omitempty"`
}

func toItemResponse(it Item) ItemResponse {
	amounts := ComputeItem(it)
	resp := ItemResponse{
		ID:                       it.ID.String(),
		ItemID:                   it.ItemID.String(),
		Kind:                     string(it.Kind),
		Name:                     it.Name,
		Description:              it.Description,
		Qty:                      it.Qty,
		PricePerUnit:             it.PricePerUnit,
		DiscountPricePerUnit:     it.DiscountPricePerUnit,
		AdditionalDiscount:       it.AdditionalDiscount,
		VatRateOption:            string(it.VatRateOption),
		VatIncluded:              it.VatIncluded,
		TaxWithholdingRateOption: string(it.TaxWithholdingRateOption),
		VatAmount:                amounts.Vat.Round(2),
		WithholdingAmount:        amounts.Withholding.Round(2),
		Total:                    amounts.Total.Round(2),
		CreatedAt:                it.CreatedAt,
		UpdatedAt:                it.UpdatedAt,
	}
	if it.VariantID != nil {
		s := it.VariantID.String()
		resp.VariantID = &s
	}
	return resp
}

// ToResponse maps an order to its response DTO. Soft-removed lines stay out
// of the rendered item list.
func ToResponse(o PurchaseOrder) OrderResponse {
	active := o.ActiveItems()
	items := make([]ItemResponse, 0, len(active))
	for _, it := range active {
		items = append(items, toItemResponse(it))
	}
	summary := ComputeOrder(o)
	return OrderResponse{
		ID:                       o.ID.String(),
		Year:                     o.Year,
		Month:                    o.Month,
		Number:                   o.Number,
		Reference:                o.Reference,
		Note:                     o.Note,
		SupplierID:               o.SupplierID.String(),
		CustomerID:               o.CustomerID.String(),
		OrderDate:                o.OrderDate,
		DeliveryDate:             o.DeliveryDate,
		PaymentTermsDays:         o.PaymentTermsDays,
		Items:                    items,
		AdditionalDiscountAmount: o.AdditionalDiscountAmount,
		VatOption:                string(o.VatOption),
		IncludedVat:              o.IncludedVat,
		Currency:                 string(o.Currency),
		Status:                   string(o.Status),
		UserID:                   o.UserID.String(),
		Summary: SummaryResponse{
			Gross:              summary.Gross,
			Discount:           summary.Discount,
			AdditionalDiscount: summary.AdditionalDiscount,
			Net:                summary.Net,
			Vat:                summary.Vat,
			Withholding:        summary.Withholding,
			Total:              summary.Total,
			Payable:            summary.Payable,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
		DeletedAt: o.DeletedAt,
	}
}

// ToResponses maps an order slice to response DTOs.
func ToResponses(list []PurchaseOrder) []OrderResponse {
	out := make([]OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, ToResponse(o))
	}
	return out
}
