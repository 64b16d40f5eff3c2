package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bluebook-erp/bluebook/internal/shared"
)

// CategoryPort is the referential check against service categories.
type CategoryPort interface {
	Exists(ctx context.Context, id uuid.UUID) error
}

// Service applies catalog-service business rules.
type Service struct {
	repo       Repository
	categories CategoryPort
}

// NewService constructs the catalog-service service.
func NewService(repo Repository, categories CategoryPort) *Service {
	return &Service{repo: repo, categories: categories}
}

// FetchAll returns a page of services.
func (s *Service) FetchAll(ctx context.Context, q shared.ListQuery) ([]ServiceItem, int, error) {
	return s.repo.FetchAll(ctx, q.Normalize("name"))
}

// Search returns a page of services matching the free-text query.
func (s *Service) Search(ctx context.Context, text string, q shared.ListQuery) ([]ServiceItem, int, error) {
	return s.repo.Search(ctx, text, q.Normalize("name"))
}

// FetchOne returns a single service.
func (s *Service) FetchOne(ctx context.Context, id uuid.UUID) (ServiceItem, error) {
	return s.repo.FetchOne(ctx, id)
}

// Create checks name uniqueness and the category reference, assigns the next
// running number and persists.
func (s *Service) Create(ctx context.Context, req CreateServiceRequest) (ServiceItem, error) {
	if err := s.ensureUniqueName(ctx, req.Name, uuid.Nil); err != nil {
		return ServiceItem{}, err
	}
	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return ServiceItem{}, err
	}
	last, err := s.repo.LastNumber(ctx)
	if err != nil {
		return ServiceItem{}, err
	}
	now := time.Now()
	item := ServiceItem{
		ID:          uuid.New(),
		Number:      last + 1,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.repo.Create(ctx, item)
}

// Update applies the non-nil fields of the request onto the stored service.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateServiceRequest) (ServiceItem, error) {
	item, err := s.repo.FetchOne(ctx, id)
	if err != nil {
		return ServiceItem{}, err
	}
	if req.Name != nil {
		if err := s.ensureUniqueName(ctx, *req.Name, id); err != nil {
			return ServiceItem{}, err
		}
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, req.CategoryID)
		if err != nil {
			return ServiceItem{}, err
		}
		item.CategoryID = categoryID
	}
	item.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, item); err != nil {
		return ServiceItem{}, err
	}
	return item, nil
}

// Exists reports whether the service exists, for referential checks by
// other resources.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.FetchOne(ctx, id)
	return err
}

// Delete soft-deletes a service.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
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
