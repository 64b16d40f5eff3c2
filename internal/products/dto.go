package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest is the JSON payload for POST /products.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"omitempty,max=1000"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *string         `json:"category_id" validate:"omitempty,uuid"`
}

// UpdateProductRequest is the JSON payload for PUT /products/{id}.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
}

// CreateVariantRequest is the JSON payload for POST /products/{id}/variants.
type CreateVariantRequest struct {
	Name  string          `json:"name" validate:"required,min=1,max=200"`
	Color string          `json:"color" validate:"omitempty,max=50"`
	Price decimal.Decimal `json:"price"`
}

// UpdateVariantRequest is the JSON payload for
// PUT /products/{id}/variants/{variant_id}. Nil fields are left untouched.
type UpdateVariantRequest struct {
	Name  *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Color *string          `json:"color" validate:"omitempty,max=50"`
	Price *decimal.Decimal `json:"price"`
}

// VariantResponse is the JSON rendering of a variant.
type VariantResponse struct {
	ID        string          `json:"id"`
	Number    int             `json:"number"`
	Name      string          `json:"name"`
	Color     string          `json:"color"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty"`
}

// ProductResponse is the JSON rendering of a product. Soft-deleted variants
// are excluded from the default view.
type ProductResponse struct {
	ID          string            `json:"id"`
	Number      int               `json:"number"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	CategoryID  *string           `json:"category_id,omitempty"`
	Variants    []VariantResponse `json:"variants"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   *time.Time        `json:"deleted_at,omitempty"`
}

func toVariantResponse(v Variant) VariantResponse {
	return VariantResponse{
		ID:        v.ID.String(),
		Number:    v.Number,
		Name:      v.Name,
		Color:     v.Color,
		Price:     v.Price,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
		DeletedAt: v.DeletedAt,
	}
}

// ToResponse maps a product to its response DTO.
func ToResponse(p Product) ProductResponse {
	variants := make([]VariantResponse, 0)
	for _, v := range p.ActiveVariants() {
		variants = append(variants, toVariantResponse(v))
	}
	var categoryID *string
	if p.CategoryID != nil {
		s := p.CategoryID.String()
		categoryID = &s
	}
	return ProductResponse{
		ID:          p.ID.String(),
		Number:      p.Number,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  categoryID,
		Variants:    variants,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		DeletedAt:   p.DeletedAt,
	}
}

// ToResponses maps a product slice to response DTOs.
func ToResponses(list []Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToResponse(p))
	}
	return out
}
