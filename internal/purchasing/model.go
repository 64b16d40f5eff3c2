// Package purchasing implements purchase orders: bucketed sequential
// numbering per (year, month), line items carried as a JSONB array on the
// order row, and derived VAT and withholding-tax amounts.
package purchasing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bluebook-erp/bluebook/internal/platform/httpx"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusClosed   Status = "closed"
)

// Valid reports whether the status is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusClosed:
		return true
	}
	return false
}

// VatOption describes how the order's amounts relate to value-added tax.
type VatOption string

const (
	VatNone     VatOption = "none"
	VatIncluded VatOption = "included"
	VatExcluded VatOption = "excluded"
)

// Valid reports whether the option is one of the known modes.
func (v VatOption) Valid() bool {
	switch v {
	case VatNone, VatIncluded, VatExcluded:
		return true
	}
	return false
}

// Currency is the order currency.
type Currency string

const (
	CurrencyTHB Currency = "THB"
	CurrencyUSD Currency = "USD"
)

// Valid reports whether the currency is supported.
func (c Currency) Valid() bool {
	return c == CurrencyTHB || c == CurrencyUSD
}

// ItemKind tells which catalog an item references.
type ItemKind string

const (
	KindProduct ItemKind = "product"
	KindService ItemKind = "service"
)

// Valid reports whether the kind is known.
func (k ItemKind) Valid() bool {
	return k == KindProduct || k == KindService
}

// VatRate is a per-item VAT rate selector.
type VatRate string

const (
	VatRateNone  VatRate = "none"
	VatRateZero  VatRate = "0"
	VatRateSeven VatRate = "7"
)

// Rate returns the rate as a fraction, zero for none.
func (r VatRate) Rate() decimal.Decimal {
	if r == VatRateSeven {
		return decimal.New(7, -2)
	}
	return decimal.Zero
}

// Valid reports whether the rate is one of the supported selectors.
func (r VatRate) Valid() bool {
	switch r {
	case VatRateNone, VatRateZero, VatRateSeven:
		return true
	}
	return false
}

// WithholdingRate is a per-item withholding-tax rate selector, in percent.
type WithholdingRate string

var withholdingRates = map[WithholdingRate]decimal.Decimal{
	"none": decimal.Zero,
	"0":    decimal.Zero,
	"1":    decimal.New(1, -2),
	"2":    decimal.New(2, -2),
	"3":    decimal.New(3, -2),
	"5":    decimal.New(5, -2),
	"10":   decimal.New(10, -2),
	"15":   decimal.New(15, -2),
}

// Rate returns the rate as a fraction, zero for none or unknown.
func (r WithholdingRate) Rate() decimal.Decimal {
	return withholdingRates[r]
}

// Valid reports whether the rate is one of the supported selectors.
func (r WithholdingRate) Valid() bool {
	_, ok := withholdingRates[r]
	return ok
}

// PurchaseOrder is the order aggregate. Items travel with the row as a JSONB
// array; the (Year, Month, Number) triple is the human-readable reference.
type PurchaseOrder struct {
	ID                       uuid.UUID
	Year                     int
	Month                    int
	Number                   int
	Reference                string
	Note                     string
	SupplierID               uuid.UUID
	CustomerID               uuid.UUID
	OrderDate                time.Time
	DeliveryDate             *time.Time
	PaymentTermsDays         int
	Items                    []Item
	AdditionalDiscountAmount decimal.Decimal
	VatOption                VatOption
	IncludedVat              bool
	Currency                 Currency
	Status                   Status
	UserID                   uuid.UUID
	CreatedAt                time.Time
	UpdatedAt                time.Time
	DeletedAt                *time.Time
}

// Deleted reports whether the order is soft-deleted.
func (o PurchaseOrder) Deleted() bool {
	return o.DeletedAt != nil
}

// ActiveItems returns the items that are not soft-removed, in stored order.
func (o PurchaseOrder) ActiveItems() []Item {
	out := make([]Item, 0, len(o.Items))
	for _, it := range o.Items {
		if it.DeletedAt == nil {
			out = append(out, it)
		}
	}
	return out
}

// Item is one order line. Name and description are snapshots taken when the
// line was added, so later catalog edits do not rewrite history. The json
// tags double as the storage encoding on the parent row.
type Item struct {
	ID                       uuid.UUID       `json:"id"`
	ItemID                   uuid.UUID       `json:"item_id"`
	Kind                     ItemKind        `json:"kind"`
	VariantID                *uuid.UUID      `json:"variant_id,omitempty"`
	Name                     string          `json:"name"`
	Description              string          `json:"description"`
	Qty                      decimal.Decimal `json:"qty"`
	PricePerUnit             decimal.Decimal `json:"price_per_unit"`
	DiscountPricePerUnit     decimal.Decimal `json:"discount_price_per_unit"`
	AdditionalDiscount       decimal.Decimal `json:"additional_discount"`
	VatRateOption            VatRate         `json:"vat_rate_option"`
	VatIncluded              bool            `json:"vat_included"`
	TaxWithholdingRateOption WithholdingRate `json:"tax_withholding_rate_option"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
	DeletedAt                *time.Time      `json:"deleted_at,omitempty"`
}

var (
	// ErrNotFound indicates the order does not exist.
	ErrNotFound = fmt.Errorf("purchasing: %w", httpx.ErrNotFound)
	// ErrItemNotFound indicates the line item does not exist within the order.
	ErrItemNotFound = fmt.Errorf("purchasing: item: %w", httpx.ErrNotFound)
	// ErrSupplierNotFound indicates the supplier reference resolves to no contact.
	ErrSupplierNotFound = fmt.Errorf("purchasing: supplier: %w", httpx.ErrNotFound)
	// ErrCustomerNotFound indicates the customer reference resolves to no profile.
	ErrCustomerNotFound = fmt.Errorf("purchasing: customer: %w", httpx.ErrNotFound)
	// ErrCatalogItemNotFound indicates a line references a missing product or service.
	ErrCatalogItemNotFound = fmt.Errorf("purchasing: catalog item: %w", httpx.ErrNotFound)
	// ErrEmptyItems indicates an item list operation received no items.
	ErrEmptyItems = fmt.Errorf("purchasing: item list must not be empty: %w", httpx.ErrValidation)
	// ErrEmptyOrdering indicates a reorder received no item ids.
	ErrEmptyOrdering = fmt.Errorf("purchasing: item id order must not be empty: %w", httpx.ErrValidation)
	// ErrInvalidEnum indicates an enum field holds an unsupported value.
	ErrInvalidEnum = fmt.Errorf("purchasing: unsupported enum value: %w", httpx.ErrValidation)
)
