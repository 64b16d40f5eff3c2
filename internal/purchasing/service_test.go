package purchasing

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bluebook-erp/bluebook/internal/shared"
)

type memoryOrderRepo struct {
	orders map[uuid.UUID]PurchaseOrder
	order  []uuid.UUID
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{orders: make(map[uuid.UUID]PurchaseOrder)}
}

func (r *memoryOrderRepo) all(showDeleted bool) []PurchaseOrder {
	out := make([]PurchaseOrder, 0, len(r.order))
	for _, id := range r.order {
		o := r.orders[id]
		if !showDeleted && o.Deleted() {
			continue
		}
		out = append(out, o)
	}
	return out
}

func sortOrders(list []PurchaseOrder, q shared.ListQuery) {
	sort.SliceStable(list, func(i, j int) bool {
		var less bool
		switch q.SortBy {
		case "number":
			less = list[i].Number < list[j].Number
		case "order_date":
			less = list[i].OrderDate.Before(list[j].OrderDate)
		default:
			less = list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		if q.SortDir == shared.SortDesc {
			return !less
		}
		return less
	})
}

func orderWindow(list []PurchaseOrder, q shared.ListQuery) []PurchaseOrder {
	start := q.Offset()
	if start >= len(list) {
		return nil
	}
	end := start + q.PerPage
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

func (r *memoryOrderRepo) FetchAll(ctx context.Context, f ListFilter, q shared.ListQuery) ([]PurchaseOrder, int, error) {
	var list []PurchaseOrder
	for _, o := range r.all(q.ShowDeleted) {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if !f.From.IsZero() && o.OrderDate.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && o.OrderDate.After(f.To) {
			continue
		}
		list = append(list, o)
	}
	sortOrders(list, q)
	return orderWindow(list, q), len(list), nil
}

func (r *memoryOrderRepo) Search(ctx context.Context, text string, q shared.ListQuery) ([]PurchaseOrder, int, error) {
	number, convErr := strconv.Atoi(text)
	lower := strings.ToLower(text)
	var list []PurchaseOrder
	for _, o := range r.all(q.ShowDeleted) {
		match := strings.Contains(strings.ToLower(o.Reference), lower) ||
			strings.Contains(strings.ToLower(o.Note), lower)
		if convErr == nil && o.Number == number {
			match = true
		}
		if match {
			list = append(list, o)
		}
	}
	sortOrders(list, q)
	return orderWindow(list, q), len(list), nil
}

func (r *memoryOrderRepo) FetchOne(ctx context.Context, id uuid.UUID) (PurchaseOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return PurchaseOrder{}, ErrNotFound
	}
	return o, nil
}

func (r *memoryOrderRepo) LastNumber(ctx context.Context, year, month int) (int, error) {
	max := 0
	for _, o := range r.all(true) {
		if o.Year == year && o.Month == month && o.Number > max {
			max = o.Number
		}
	}
	return max, nil
}

func (r *memoryOrderRepo) Create(ctx context.Context, order PurchaseOrder) (PurchaseOrder, error) {
	r.orders[order.ID] = order
	r.order = append(r.order, order.ID)
	return order, nil
}

func (r *memoryOrderRepo) Update(ctx context.Context, order PurchaseOrder) error {
	if _, ok := r.orders[order.ID]; !ok {
		return ErrNotFound
	}
	r.orders[order.ID] = order
	return nil
}

func (r *memoryOrderRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	o, ok := r.orders[id]
	if !ok || o.Deleted() {
		return ErrNotFound
	}
	now := time.Now()
	o.DeletedAt = &now
	o.UpdatedAt = now
	r.orders[id] = o
	return nil
}

type stubRefs struct {
	known map[uuid.UUID]bool
}

func (s stubRefs) Exists(ctx context.Context, id uuid.UUID) error {
	if !s.known[id] {
		return ErrNotFound
	}
	return nil
}

type stubCatalog struct {
	names map[uuid.UUID]string
}

func (s stubCatalog) Lookup(ctx context.Context, kind ItemKind, id uuid.UUID) (string, error) {
	name, ok := s.names[id]
	if !ok {
		return "", ErrNotFound
	}
	return name, nil
}

type fixture struct {
	repo       *memoryOrderRepo
	svc        *Service
	supplierID uuid.UUID
	customerID uuid.UUID
	productID  uuid.UUID
}

func newFixture() fixture {
	repo := newMemoryOrderRepo()
	supplierID := uuid.New()
	customerID := uuid.New()
	productID := uuid.New()
	svc := NewService(repo,
		stubRefs{known: map[uuid.UUID]bool{supplierID: true}},
		stubRefs{known: map[uuid.UUID]bool{customerID: true}},
		stubCatalog{names: map[uuid.UUID]string{productID: "Widget"}})
	return fixture{repo: repo, svc: svc, supplierID: supplierID, customerID: customerID, productID: productID}
}

func (f fixture) createRequest(orderDate time.Time) CreateOrderRequest {
	return CreateOrderRequest{
		SupplierID: f.supplierID.String(),
		CustomerID: f.customerID.String(),
		OrderDate:  orderDate,
		Items: []ItemInput{
			{ItemID: f.productID.String(), Kind: "product", Qty: dec("2"), PricePerUnit: dec("100"), VatRateOption: "7"},
		},
	}
}

func TestCreateAssignsBucketNumbers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	march := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)

	first, err := f.svc.Create(ctx, f.createRequest(march))
	require.NoError(t, err)
	require.Equal(t, 2026, first.Year)
	require.Equal(t, 3, first.Month)
	require.Equal(t, 1, first.Number)

	second, err := f.svc.Create(ctx, f.createRequest(march))
	require.NoError(t, err)
	require.Equal(t, 2, second.Number)

	// A new month starts its own sequence.
	other, err := f.svc.Create(ctx, f.createRequest(april))
	require.NoError(t, err)
	require.Equal(t, 4, other.Month)
	require.Equal(t, 1, other.Number)

	// Deleted orders keep their numbers reserved.
	require.NoError(t, f.svc.Delete(ctx, second.ID))
	third, err := f.svc.Create(ctx, f.createRequest(march))
	require.NoError(t, err)
	require.Equal(t, 3, third.Number)
}

func TestCreateUnknownSupplierRejected(t *testing.T) {
	f := newFixture()
	req := f.createRequest(time.Now())
	req.SupplierID = uuid.NewString()

	_, err := f.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrSupplierNotFound)
	require.Empty(t, f.repo.order, "rejected create must not write")
}

func TestCreateUnknownCustomerRejected(t *testing.T) {
	f := newFixture()
	req := f.createRequest(time.Now())
	req.CustomerID = uuid.NewString()

	_, err := f.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrCustomerNotFound)
	require.Empty(t, f.repo.order)
}

func TestCreateUnknownCatalogItemRejected(t *testing.T) {
	f := newFixture()
	req := f.createRequest(time.Now())
	req.Items[0].ItemID = uuid.NewString()

	_, err := f.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrCatalogItemNotFound)
	require.Empty(t, f.repo.order)
}

func TestCreateSnapshotsItemName(t *testing.T) {
	f := newFixture()
	order, err := f.svc.Create(context.Background(), f.createRequest(time.Now()))
	require.NoError(t, err)
	require.Equal(t, "Widget", order.Items[0].Name)
}

func TestCreateStampsCreatorFromContext(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	ctx := shared.ContextWithUserID(context.Background(), userID)

	order, err := f.svc.Create(ctx, f.createRequest(time.Now()))
	require.NoError(t, err)
	require.Equal(t, userID, order.UserID)
	require.Equal(t, StatusPending, order.Status)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.createRequest(time.Now()))
	require.NoError(t, err)

	note := "rush order"
	updated, err := f.svc.Update(ctx, created.ID, UpdateOrderRequest{Note: &note})
	require.NoError(t, err)
	require.Equal(t, "rush order", updated.Note)
	require.Equal(t, created.SupplierID, updated.SupplierID)
	require.Equal(t, created.Number, updated.Number)
}

func TestUpdateChangedSupplierMustExist(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.createRequest(time.Now()))
	require.NoError(t, err)

	unknown := uuid.NewString()
	_, err = f.svc.Update(ctx, created.ID, UpdateOrderRequest{SupplierID: &unknown})
	require.ErrorIs(t, err, ErrSupplierNotFound)
}

func TestReplaceItemsRequiresNonEmptyList(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.createRequest(time.Now()))
	require.NoError(t, err)

	_, err = f.svc.ReplaceItems(ctx, created.ID, ReplaceItemsRequest{})
	require.ErrorIs(t, err, ErrEmptyItems)
}

func TestReplaceItemsSwapsListAndFlags(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.createRequest(time.Now()))
	require.NoError(t, err)

	updated, err := f.svc.ReplaceItems(ctx, created.ID, ReplaceItemsRequest{
		Items: []ItemInput{
			{ItemID: f.productID.String(), Kind: "product", Qty: dec("5"), PricePerUnit: dec("40"), VatRateOption: "none"},
		},
		AdditionalDiscountAmount: dec("10"),
		VatOption:                "excluded",
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	requireDecimal(t, "5", updated.Items[0].Qty)
	require.Equal(t, VatExcluded, updated.VatOption)
	requireDecimal(t, "10", updated.AdditionalDiscountAmount)
}

func TestReorderItems(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := f.createRequest(time.Now())
	req.Items = append(req.Items,
		ItemInput{ItemID: f.productID.String(), Kind: "product", Qty: dec("1"), PricePerUnit: dec("10")},
		ItemInput{ItemID: f.productID.String(), Kind: "product", Qty: dec("1"), PricePerUnit: dec("20")})
	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	require.Len(t, created.Items, 3)

	a, b, c := created.Items[0].ID, created.Items[1].ID, created.Items[2].ID
	updated, err := f.svc.ReorderItems(ctx, created.ID, ReorderItemsRequest{
		ItemIDOrder: []string{c.String(), a.String(), b.String()},
	})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{c, a, b}, itemIDs(updated.Items))
}

func TestReorderItemsOmittedAppended(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := f.createRequest(time.Now())
	req.Items = append(req.Items,
		ItemInput{ItemID: f.productID.String(), Kind: "product", Qty: dec("1"), PricePerUnit: dec("10")},
		ItemInput{ItemID: f.productID.String(), Kind: "product", Qty: dec("1"), PricePerUnit: dec("20")})
	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	// Only the last item is listed; the two omitted ones follow in their
	// original relative order.
	a, b, c := created.Items[0].ID, created.Items[1].ID, created.Items[2].ID
	updated, err := f.svc.ReorderItems(ctx, created.ID, ReorderItemsRequest{
		ItemIDOrder: []string{c.String()},
	})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{c, a, b}, itemIDs(updated.Items))
}

func TestReorderItemsUnknownIDRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.createRequest(time.Now()))
	require.NoError(t, err)

	_, err = f.svc.ReorderItems(ctx, created.ID, ReorderItemsRequest{
		ItemIDOrder: []string{uuid.NewString()},
	})
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItemIsLogical(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := f.createRequest(time.Now())
	req.Items = append(req.Items,
		ItemInput{ItemID: f.productID.String(), Kind: "product", Qty: dec("1"), PricePerUnit: dec("10")})
	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	updated, err := f.svc.RemoveItem(ctx, created.ID, created.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, updated.Items, 2, "removed line stays stored for audit")
	require.Len(t, updated.ActiveItems(), 1)
	require.NotNil(t, updated.Items[0].DeletedAt)
}

func TestFetchAllStatusFilter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.createRequest(time.Now()))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.createRequest(time.Now()))
	require.NoError(t, err)

	approved := string(StatusApproved)
	_, err = f.svc.Update(ctx, created.ID, UpdateOrderRequest{Status: &approved})
	require.NoError(t, err)

	list, total, err := f.svc.FetchAll(ctx, ListFilter{Status: StatusApproved}, shared.ListQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, created.ID, list[0].ID)
}

func itemIDs(items []Item) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
