package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bluebook-erp/bluebook/internal/shared"
)

type memoryProductRepo struct {
	products map[uuid.UUID]Product
	order    []uuid.UUID
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{products: make(map[uuid.UUID]Product)}
}

func (r *memoryProductRepo) FetchAll(ctx context.Context, q shared.ListQuery) ([]Product, int, error) {
	var list []Product
	for _, id := range r.order {
		p := r.products[id]
		if !q.ShowDeleted && p.Deleted() {
			continue
		}
		list = append(list, p)
	}
	return list, len(list), nil
}

func (r *memoryProductRepo) Search(ctx context.Context, text string, q shared.ListQuery) ([]Product, int, error) {
	return r.FetchAll(ctx, q)
}

func (r *memoryProductRepo) FetchOne(ctx context.Context, id uuid.UUID) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryProductRepo) FindActiveByName(ctx context.Context, name string) (Product, error) {
	for _, id := range r.order {
		p := r.products[id]
		if !p.Deleted() && p.Name == name {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *memoryProductRepo) LastNumber(ctx context.Context) (int, error) {
	max := 0
	for _, p := range r.products {
		if p.Number > max {
			max = p.Number
		}
	}
	return max, nil
}

func (r *memoryProductRepo) Create(ctx context.Context, product Product) (Product, error) {
	r.products[product.ID] = product
	r.order = append(r.order, product.ID)
	return product, nil
}

func (r *memoryProductRepo) Update(ctx context.Context, product Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return ErrNotFound
	}
	r.products[product.ID] = product
	return nil
}

func (r *memoryProductRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok || p.Deleted() {
		return ErrNotFound
	}
	now := p.UpdatedAt
	p.DeletedAt = &now
	r.products[id] = p
	return nil
}

type stubCategories struct {
	known map[uuid.UUID]bool
}

func (s *stubCategories) Exists(ctx context.Context, id uuid.UUID) error {
	if s.known[id] {
		return nil
	}
	return ErrCategoryNotFound
}

func newProductService() (*Service, *memoryProductRepo, *stubCategories) {
	repo := newMemoryProductRepo()
	cats := &stubCategories{known: make(map[uuid.UUID]bool)}
	return NewService(repo, cats), repo, cats
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	svc, repo, _ := newProductService()
	unknown := uuid.New().String()
	_, err := svc.Create(context.Background(), CreateProductRequest{Name: "Widget", CategoryID: &unknown})
	require.ErrorIs(t, err, ErrCategoryNotFound)
	require.Empty(t, repo.order)
}

func TestCreateAcceptsKnownCategory(t *testing.T) {
	svc, _, cats := newProductService()
	catID := uuid.New()
	cats.known[catID] = true
	raw := catID.String()
	product, err := svc.Create(context.Background(), CreateProductRequest{Name: "Widget", CategoryID: &raw})
	require.NoError(t, err)
	require.NotNil(t, product.CategoryID)
	require.Equal(t, catID, *product.CategoryID)
	require.Equal(t, 1, product.Number)
}

func TestVariantNumbersScopedToLiveVariants(t *testing.T) {
	svc, _, _ := newProductService()
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateProductRequest{Name: "Shirt"})
	require.NoError(t, err)

	_, red, err := svc.AddVariant(ctx, product.ID, CreateVariantRequest{Name: "Red", Color: "red"})
	require.NoError(t, err)
	require.Equal(t, 1, red.Number)

	_, blue, err := svc.AddVariant(ctx, product.ID, CreateVariantRequest{Name: "Blue", Color: "blue"})
	require.NoError(t, err)
	require.Equal(t, 2, blue.Number)

	// Unlike parent numbering, the variant max is taken over live variants
	// only, so a deleted variant's number can be reused.
	require.NoError(t, svc.DeleteVariant(ctx, product.ID, blue.ID))
	_, green, err := svc.AddVariant(ctx, product.ID, CreateVariantRequest{Name: "Green", Color: "green"})
	require.NoError(t, err)
	require.Equal(t, 2, green.Number)
}

func TestAddVariantDuplicateColorRejected(t *testing.T) {
	svc, _, _ := newProductService()
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateProductRequest{Name: "Shirt"})
	require.NoError(t, err)

	_, _, err = svc.AddVariant(ctx, product.ID, CreateVariantRequest{Name: "Red", Color: "red"})
	require.NoError(t, err)

	_, _, err = svc.AddVariant(ctx, product.ID, CreateVariantRequest{Name: "Crimson", Color: "red"})
	require.ErrorIs(t, err, ErrDuplicateColor)

	_, _, err = svc.AddVariant(ctx, product.ID, CreateVariantRequest{Name: "Red", Color: "maroon"})
	require.ErrorIs(t, err, ErrDuplicateVariantName)
}

func TestUpdateVariantPartial(t *testing.T) {
	svc, _, _ := newProductService()
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateProductRequest{Name: "Shirt"})
	require.NoError(t, err)
	_, variant, err := svc.AddVariant(ctx, product.ID, CreateVariantRequest{Name: "Red", Color: "red", Price: decimal.NewFromInt(100)})
	require.NoError(t, err)

	price := decimal.NewFromInt(120)
	_, updated, err := svc.UpdateVariant(ctx, product.ID, variant.ID, UpdateVariantRequest{Price: &price})
	require.NoError(t, err)
	require.True(t, updated.Price.Equal(decimal.NewFromInt(120)))
	require.Equal(t, "Red", updated.Name)
	require.Equal(t, "red", updated.Color)
}

func TestUpdateVariantUnknownIDNotFound(t *testing.T) {
	svc, _, _ := newProductService()
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateProductRequest{Name: "Shirt"})
	require.NoError(t, err)

	name := "Ghost"
	_, _, err = svc.UpdateVariant(ctx, product.ID, uuid.New(), UpdateVariantRequest{Name: &name})
	require.ErrorIs(t, err, ErrVariantNotFound)
}

func TestDeleteVariantIsLogical(t *testing.T) {
	svc, repo, _ := newProductService()
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateProductRequest{Name: "Shirt"})
	require.NoError(t, err)
	_, variant, err := svc.AddVariant(ctx, product.ID, CreateVariantRequest{Name: "Red", Color: "red"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteVariant(ctx, product.ID, variant.ID))

	stored := repo.products[product.ID]
	require.Len(t, stored.Variants, 1, "deleted variant stays in the array")
	require.NotNil(t, stored.Variants[0].DeletedAt)
	require.Empty(t, stored.ActiveVariants())
}
