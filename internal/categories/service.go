package categories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bluebook-erp/bluebook/internal/shared"
)

// Service applies category business rules.
type Service struct {
	repo Repository
}

// NewService constructs a category service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// FetchAll returns a page of categories.
func (s *Service) FetchAll(ctx context.Context, q shared.ListQuery) ([]Category, int, error) {
	return s.repo.FetchAll(ctx, q.Normalize("name"))
}

// Search returns a page of categories whose name matches the free-text query.
func (s *Service) Search(ctx context.Context, text string, q shared.ListQuery) ([]Category, int, error) {
	return s.repo.Search(ctx, text, q.Normalize("name"))
}

// FetchOne returns a single category.
func (s *Service) FetchOne(ctx context.Context, id uuid.UUID) (Category, error) {
	return s.repo.FetchOne(ctx, id)
}

// Exists is the referential check used by catalog services before accepting a
// category reference.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.FetchOne(ctx, id)
	return err
}

// Create rejects names already used by an active category, then persists.
func (s *Service) Create(ctx context.Context, req CreateCategoryRequest) (Category, error) {
	if err := s.ensureUniqueName(ctx, req.Name, uuid.Nil); err != nil {
		return Category{}, err
	}
	now := time.Now()
	return s.repo.Create(ctx, Category{ID: uuid.New(), Name: req.Name, CreatedAt: now, UpdatedAt: now})
}

// Update renames a category, keeping the duplicate-name rule.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (Category, error) {
	category, err := s.repo.FetchOne(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if req.Name != nil {
		if err := s.ensureUniqueName(ctx, *req.Name, id); err != nil {
			return Category{}, err
		}
		category.Name = *req.Name
	}
	category.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, category); err != nil {
		return Category{}, err
	}
	return category, nil
}

// Delete soft-deletes a category.
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
