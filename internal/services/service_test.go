package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bluebook-erp/bluebook/internal/shared"
)

type memoryServiceRepo struct {
	items map[uuid.UUID]ServiceItem
	order []uuid.UUID
}

func newMemoryServiceRepo() *memoryServiceRepo {
	return &memoryServiceRepo{items: make(map[uuid.UUID]ServiceItem)}
}

func (r *memoryServiceRepo) FetchAll(ctx context.Context, q shared.ListQuery) ([]ServiceItem, int, error) {
	var list []ServiceItem
	for _, id := range r.order {
		s := r.items[id]
		if !q.ShowDeleted && s.Deleted() {
			continue
		}
		list = append(list, s)
	}
	return list, len(list), nil
}

func (r *memoryServiceRepo) Search(ctx context.Context, text string, q shared.ListQuery) ([]ServiceItem, int, error) {
	return r.FetchAll(ctx, q)
}

func (r *memoryServiceRepo) FetchOne(ctx context.Context, id uuid.UUID) (ServiceItem, error) {
	s, ok := r.items[id]
	if !ok {
		return ServiceItem{}, ErrNotFound
	}
	return s, nil
}

func (r *memoryServiceRepo) FindActiveByName(ctx context.Context, name string) (ServiceItem, error) {
	for _, id := range r.order {
		s := r.items[id]
		if !s.Deleted() && s.Name == name {
			return s, nil
		}
	}
	return ServiceItem{}, ErrNotFound
}

func (r *memoryServiceRepo) LastNumber(ctx context.Context) (int, error) {
	max := 0
	for _, s := range r.items {
		if s.Number > max {
			max = s.Number
		}
	}
	return max, nil
}

func (r *memoryServiceRepo) Create(ctx context.Context, item ServiceItem) (ServiceItem, error) {
	r.items[item.ID] = item
	r.order = append(r.order, item.ID)
	return item, nil
}

func (r *memoryServiceRepo) Update(ctx context.Context, item ServiceItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return ErrNotFound
	}
	r.items[item.ID] = item
	return nil
}

func (r *memoryServiceRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	s, ok := r.items[id]
	if !ok || s.Deleted() {
		return ErrNotFound
	}
	now := time.Now()
	s.DeletedAt = &now
	s.UpdatedAt = now
	r.items[id] = s
	return nil
}

type stubServiceCategories struct {
	known map[uuid.UUID]bool
}

func (s *stubServiceCategories) Exists(ctx context.Context, id uuid.UUID) error {
	if s.known[id] {
		return nil
	}
	return ErrCategoryNotFound
}

func newServiceFixture() (*Service, *memoryServiceRepo, *stubServiceCategories) {
	repo := newMemoryServiceRepo()
	cats := &stubServiceCategories{known: make(map[uuid.UUID]bool)}
	return NewService(repo, cats), repo, cats
}

func TestCreateServiceDuplicateNameRejected(t *testing.T) {
	svc, repo, _ := newServiceFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateServiceRequest{Name: "Consulting"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateServiceRequest{Name: "Consulting"})
	require.ErrorIs(t, err, ErrDuplicateName)
	require.Len(t, repo.order, 1)
}

func TestCreateServiceUnknownCategoryRejected(t *testing.T) {
	svc, repo, _ := newServiceFixture()
	unknown := uuid.New().String()

	_, err := svc.Create(context.Background(), CreateServiceRequest{Name: "Consulting", CategoryID: &unknown})
	require.ErrorIs(t, err, ErrCategoryNotFound)
	require.Empty(t, repo.order)
}

func TestCreateServiceAcceptsKnownCategory(t *testing.T) {
	svc, _, cats := newServiceFixture()
	catID := uuid.New()
	cats.known[catID] = true
	raw := catID.String()

	item, err := svc.Create(context.Background(), CreateServiceRequest{Name: "Consulting", CategoryID: &raw})
	require.NoError(t, err)
	require.NotNil(t, item.CategoryID)
	require.Equal(t, catID, *item.CategoryID)
	require.Equal(t, 1, item.Number)
}

func TestServiceNumbersSurviveSoftDelete(t *testing.T) {
	svc, _, _ := newServiceFixture()
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateServiceRequest{Name: "Consulting"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, first.ID))

	second, err := svc.Create(ctx, CreateServiceRequest{Name: "Installation"})
	require.NoError(t, err)
	require.Equal(t, 2, second.Number)
}

func TestUpdateServiceAppliesOnlyProvidedFields(t *testing.T) {
	svc, _, _ := newServiceFixture()
	ctx := context.Background()

	item, err := svc.Create(ctx, CreateServiceRequest{Name: "Consulting", Description: "hourly", Price: decimal.NewFromInt(1500)})
	require.NoError(t, err)

	price := decimal.NewFromInt(1800)
	updated, err := svc.Update(ctx, item.ID, UpdateServiceRequest{Price: &price})
	require.NoError(t, err)
	require.True(t, updated.Price.Equal(decimal.NewFromInt(1800)))
	require.Equal(t, "Consulting", updated.Name)
	require.Equal(t, "hourly", updated.Description)
}
