package products

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bluebook-erp/bluebook/internal/shared"
)

// CategoryPort is the referential check against product categories.
type CategoryPort interface {
	Exists(ctx context.Context, id uuid.UUID) error
}

// Service applies product business rules, including variant sub-document
// mutation.
type Service struct {
	repo       Repository
	categories CategoryPort
}

// NewService constructs the product service.
func NewService(repo Repository, categories CategoryPort) *Service {
	return &Service{repo: repo, categories: categories}
}

// FetchAll returns a page of products.
func (s *Service) FetchAll(ctx context.Context, q shared.ListQuery) ([]Product, int, error) {
	return s.repo.FetchAll(ctx, q.Normalize("name"))
}

// Search returns a page of products matching the free-text query.
func (s *Service) Search(ctx context.Context, text string, q shared.ListQuery) ([]Product, int, error) {
	return s.repo.Search(ctx, text, q.Normalize("name"))
}

// FetchOne returns a single product.
func (s *Service) FetchOne(ctx context.Context, id uuid.UUID) (Product, error) {
	return s.repo.FetchOne(ctx, id)
}

// Create checks name uniqueness and the category reference, assigns the next
// running number and persists the product.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (Product, error) {
	if err := s.ensureUniqueName(ctx, req.Name, uuid.Nil); err != nil {
		return Product{}, err
	}
	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return Product{}, err
	}
	last, err := s.repo.LastNumber(ctx)
	if err != nil {
		return Product{}, err
	}
	now := time.Now()
	product := Product{
		ID:          uuid.New(),
		Number:      last + 1,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  categoryID,
		Variants:    []Variant{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.repo.Create(ctx, product)
}

// Update applies the non-nil fields of the request onto the stored product.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (Product, error) {
	product, err := s.repo.FetchOne(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if req.Name != nil {
		if err := s.ensureUniqueName(ctx, *req.Name, id); err != nil {
			return Product{}, err
		}
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, req.CategoryID)
		if err != nil {
			return Product{}, err
		}
		product.CategoryID = categoryID
	}
	product.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, product); err != nil {
		return Product{}, err
	}
	return product, nil
}

// Exists reports whether the product exists, for referential checks by
// other resources.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.FetchOne(ctx, id)
	return err
}

// Delete soft-deletes a product.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// AddVariant appends a variant to the product. Name and color must be unique
// among the product's live variants; the variant number is
// max(live variant numbers) + 1.
func (s *Service) AddVariant(ctx context.Context, productID uuid.UUID, req CreateVariantRequest) (Product, Variant, error) {
	product, err := s.repo.FetchOne(ctx, productID)
	if err != nil {
		return Product{}, Variant{}, err
	}
	maxNumber := 0
	for _, v := range product.ActiveVariants() {
		if v.Name == req.Name {
			return Product{}, Variant{}, ErrDuplicateVariantName
		}
		if req.Color != "" && v.Color == req.Color {
			return Product{}, Variant{}, ErrDuplicateColor
		}
		if v.Number > maxNumber {
			maxNumber = v.Number
		}
	}
	now := time.Now()
	variant := Variant{
		ID:        uuid.New(),
		Number:    maxNumber + 1,
		Name:      req.Name,
		Color:     req.Color,
		Price:     req.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	product.Variants = append(product.Variants, variant)
	product.UpdatedAt = now
	if err := s.repo.Update(ctx, product); err != nil {
		return Product{}, Variant{}, err
	}
	return product, variant, nil
}

// UpdateVariant applies the non-nil fields onto the variant identified by
// (productID, variantID), replacing it in place within the array.
func (s *Service) UpdateVariant(ctx context.Context, productID, variantID uuid.UUID, req UpdateVariantRequest) (Product, Variant, error) {
	product, err := s.repo.FetchOne(ctx, productID)
	if err != nil {
		return Product{}, Variant{}, err
	}
	idx := variantIndex(product.Variants, variantID)
	if idx < 0 {
		return Product{}, Variant{}, ErrVariantNotFound
	}
	variant := product.Variants[idx]
	if req.Name != nil {
		for _, v := range product.ActiveVariants() {
			if v.ID != variantID && v.Name == *req.Name {
				return Product{}, Variant{}, ErrDuplicateVariantName
			}
		}
		variant.Name = *req.Name
	}
	if req.Color != nil {
		for _, v := range product.ActiveVariants() {
			if v.ID != variantID && *req.Color != "" && v.Color == *req.Color {
				return Product{}, Variant{}, ErrDuplicateColor
			}
		}
		variant.Color = *req.Color
	}
	if req.Price != nil {
		variant.Price = *req.Price
	}
	now := time.Now()
	variant.UpdatedAt = now
	product.Variants[idx] = variant
	product.UpdatedAt = now
	if err := s.repo.Update(ctx, product); err != nil {
		return Product{}, Variant{}, err
	}
	return product, variant, nil
}

// DeleteVariant logically removes a variant: its deleted_at is set and the
// parent is re-saved. The entry stays in the array for audit.
func (s *Service) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	product, err := s.repo.FetchOne(ctx, productID)
	if err != nil {
		return err
	}
	idx := variantIndex(product.Variants, variantID)
	if idx < 0 || product.Variants[idx].DeletedAt != nil {
		return ErrVariantNotFound
	}
	now := time.Now()
	variant := product.Variants[idx]
	variant.DeletedAt = &now
	variant.UpdatedAt = now
	product.Variants[idx] = variant
	product.UpdatedAt = now
	return s.repo.Update(ctx, product)
}

func variantIndex(variants []Variant, id uuid.UUID) int {
	for i, v := range variants {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) ensureUniqueName(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repo.FindActiveByName(ctx, name)
	switch {
	case err == nil && existing.ID != self:
		return ErrDuplicateName
	case err != nil && !errors.Is(err, ErrNotFound):
		return err
	}
	return nil
}

func (s *Service) resolveCategory(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	if err := s.categories.Exists(ctx, id); err != nil {
		return nil, ErrCategoryNotFound
	}
	return &id, nil
}
