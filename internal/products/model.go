package products

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bluebook-erp/bluebook/internal/platform/httpx"
)

// Product is a catalog product with its owned variants.
type Product struct {
	ID          uuid.UUID
	Number      int
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  *uuid.UUID
	Variants    []Variant
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Deleted reports whether the record is soft-deleted.
func (p Product) Deleted() bool {
	return p.DeletedAt != nil
}

// ActiveVariants returns the variants that are not soft-deleted, in stored
// order.
func (p Product) ActiveVariants() []Variant {
	out := make([]Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		if v.DeletedAt == nil {
			out = append(out, v)
		}
	}
	return out
}

// Variant is a sub-document owned by a product. The json tags double as the
// storage encoding: the variants array is kept as a JSONB column on the
// product row.
type Variant struct {
	ID        uuid.UUID       `json:"id"`
	Number    int             `json:"number"`
	Name      string          `json:"name"`
	Color     string          `json:"color"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty"`
}

var (
	// ErrDuplicateName indicates an active product already uses the name.
	ErrDuplicateName = fmt.Errorf("products: duplicate name: %w", httpx.ErrDuplicate)
	// ErrDuplicateVariantName indicates a live variant already uses the name.
	ErrDuplicateVariantName = fmt.Errorf("products: duplicate variant name: %w", httpx.ErrDuplicate)
	// ErrDuplicateColor indicates a live variant already uses the color.
	ErrDuplicateColor = fmt.Errorf("products: duplicate variant color: %w", httpx.ErrDuplicate)
	// ErrNotFound indicates the product does not exist.
	ErrNotFound = fmt.Errorf("products: %w", httpx.ErrNotFound)
	// ErrVariantNotFound indicates the variant does not exist within the product.
	ErrVariantNotFound = fmt.Errorf("products: variant: %w", httpx.ErrNotFound)
	// ErrCategoryNotFound indicates the referenced category does not exist.
	ErrCategoryNotFound = fmt.Errorf("products: category: %w", httpx.ErrNotFound)
)
