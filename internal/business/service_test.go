package business

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

type memoryBusinessRepo struct {
	profiles map[uuid.UUID]MyBusinese
	order    []uuid.UUID
}

func newMemoryBusinessRepo() *memoryBusinessRepo {
	return &memoryBusinessRepo{profiles: make(map[uuid.UUID]MyBusinese)}
}

func (r *memoryBusinessRepo) all(showDeleted bool) []MyBusinese {
	out := make([]MyBusinese, 0, len(r.order))
	for _, id := range r.order {
		b := r.profiles[id]
		if !showDeleted && b.Deleted() {
			continue
		}
		out = append(out, b)
	}
	return out
}

func sortBusinesses(list []MyBusinese, q shared.ListQuery) {
	sort.SliceStable(list, func(i, j int) bool {
		var less bool
		switch q.SortBy {
		case "number":
			less = list[i].Number < list[j].Number
		case "created_at":
			less = list[i].CreatedAt.Before(list[j].CreatedAt)
		default:
			less = list[i].Name < list[j].Name
		}
		if q.SortDir == shared.SortDesc {
			return !less
		}
		return less
	})
}

func businessWindow(list []MyBusinese, q shared.ListQuery) []MyBusinese {
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

func (r *memoryBusinessRepo) FetchAll(ctx context.Context, q shared.ListQuery) ([]MyBusinese, int, error) {
	list := r.all(q.ShowDeleted)
	sortBusinesses(list, q)
	return businessWindow(list, q), len(list), nil
}

func (r *memoryBusinessRepo) Search(ctx context.Context, text string, q shared.ListQuery) ([]MyBusinese, int, error) {
	number, convErr := strconv.Atoi(text)
	lower := strings.ToLower(text)
	var list []MyBusinese
	for _, b := range r.all(q.ShowDeleted) {
		match := strings.Contains(strings.ToLower(b.Name), lower) ||
			strings.Contains(strings.ToLower(b.TaxNumber), lower)
		if convErr == nil && b.Number == number {
			match = true
		}
		if match {
			list = append(list, b)
		}
	}
	sortBusinesses(list, q)
	return businessWindow(list, q), len(list), nil
}

func (r *memoryBusinessRepo) FetchOne(ctx context.Context, id uuid.UUID) (MyBusinese, error) {
	b, ok := r.profiles[id]
	if !ok {
		return MyBusinese{}, ErrNotFound
	}
	return b, nil
}

func (r *memoryBusinessRepo) FindActiveByName(ctx context.Context, name string) (MyBusinese, error) {
	for _, b := range r.all(false) {
		if b.Name == name {
			return b, nil
		}
	}
	return MyBusinese{}, ErrNotFound
}

func (r *memoryBusinessRepo) FindActiveByTaxNumber(ctx context.Context, taxNumber string) (MyBusinese, error) {
	for _, b := range r.all(false) {
		if b.TaxNumber == taxNumber {
			return b, nil
		}
	}
	return MyBusinese{}, ErrNotFound
}

func (r *memoryBusinessRepo) LastNumber(ctx context.Context) (int, error) {
	max := 0
	for _, b := range r.all(true) {
		if b.Number > max {
			max = b.Number
		}
	}
	return max, nil
}

func (r *memoryBusinessRepo) Create(ctx context.Context, profile MyBusinese) (MyBusinese, error) {
	r.profiles[profile.ID] = profile
	r.order = append(r.order, profile.ID)
	return profile, nil
}

func (r *memoryBusinessRepo) Update(ctx context.Context, profile MyBusinese) error {
	if _, ok := r.profiles[profile.ID]; !ok {
		return ErrNotFound
	}
	r.profiles[profile.ID] = profile
	return nil
}

func (r *memoryBusinessRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	b, ok := r.profiles[id]
	if !ok || b.Deleted() {
		return ErrNotFound
	}
	now := time.Now()
	b.DeletedAt = &now
	b.UpdatedAt = now
	r.profiles[id] = b
	return nil
}

func TestCreateProfileWithInitialAddresses(t *testing.T) {
	svc := NewService(newMemoryBusinessRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBusinessRequest{
		Name:      "Bluebook HQ",
		TaxNumber: "0105551112223",
		BusinessAddresses: []AddressInput{
			{ContactName: "Front Desk", Line: "1 Main Rd", Province: "Bangkok", PostalCode: "10110"},
		},
		ShippingAddresses: []AddressInput{
			{ContactName: "Warehouse", Line: "99 Depot Rd", Province: "Chonburi"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, created.Number)
	require.Len(t, created.BusinessAddresses, 1)
	require.Len(t, created.ShippingAddresses, 1)
	require.NotEqual(t, uuid.Nil, created.BusinessAddresses[0].ID)
}

func TestCreateProfileDuplicateNameRejected(t *testing.T) {
	repo := newMemoryBusinessRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateBusinessRequest{Name: "Bluebook HQ"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateBusinessRequest{Name: "Bluebook HQ"})
	require.ErrorIs(t, err, ErrDuplicateName)
	require.Len(t, repo.order, 1, "rejected create must not write")
}

func TestCreateProfileDuplicateTaxNumberRejected(t *testing.T) {
	svc := NewService(newMemoryBusinessRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateBusinessRequest{Name: "HQ", TaxNumber: "0105551112223"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateBusinessRequest{Name: "Branch", TaxNumber: "0105551112223"})
	require.ErrorIs(t, err, ErrDuplicateTaxNumber)
}

func TestAddAddressTargetsSelectedBook(t *testing.T) {
	svc := NewService(newMemoryBusinessRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBusinessRequest{Name: "Bluebook HQ"})
	require.NoError(t, err)

	updated, err := svc.AddAddress(ctx, created.ID, AddressKindShipping, AddressInput{ContactName: "Warehouse"})
	require.NoError(t, err)
	require.Empty(t, updated.BusinessAddresses)
	require.Len(t, updated.ShippingAddresses, 1)
	require.Equal(t, "Warehouse", updated.ShippingAddresses[0].ContactName)
}

func TestUpdateAddressAppliesOnlyProvidedFields(t *testing.T) {
	svc := NewService(newMemoryBusinessRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBusinessRequest{
		Name: "Bluebook HQ",
		BusinessAddresses: []AddressInput{
			{ContactName: "Front Desk", Line: "1 Main Rd", Province: "Bangkok", PostalCode: "10110", Phone: "021234567"},
		},
	})
	require.NoError(t, err)
	addrID := created.BusinessAddresses[0].ID

	phone := "029999999"
	updated, err := svc.UpdateAddress(ctx, created.ID, AddressKindBusiness, addrID, AddressPatch{Phone: &phone})
	require.NoError(t, err)

	addr := updated.BusinessAddresses[0]
	require.Equal(t, "029999999", addr.Phone)
	require.Equal(t, "Front Desk", addr.ContactName)
	require.Equal(t, "1 Main Rd", addr.Line)
	require.Equal(t, "Bangkok", addr.Province)
	require.Equal(t, "10110", addr.PostalCode)
}

func TestUpdateAddressUnknownIDNotFound(t *testing.T) {
	svc := NewService(newMemoryBusinessRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBusinessRequest{
		Name:              "Bluebook HQ",
		BusinessAddresses: []AddressInput{{ContactName: "Front Desk"}},
	})
	require.NoError(t, err)

	line := "nowhere"
	_, err = svc.UpdateAddress(ctx, created.ID, AddressKindBusiness, uuid.New(), AddressPatch{Line: &line})
	require.ErrorIs(t, err, ErrAddressNotFound)
}

func TestUpdateAddressWrongBookNotFound(t *testing.T) {
	svc := NewService(newMemoryBusinessRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBusinessRequest{
		Name:              "Bluebook HQ",
		BusinessAddresses: []AddressInput{{ContactName: "Front Desk"}},
	})
	require.NoError(t, err)
	addrID := created.BusinessAddresses[0].ID

	// The address lives in the business book, not the shipping one.
	line := "elsewhere"
	_, err = svc.UpdateAddress(ctx, created.ID, AddressKindShipping, addrID, AddressPatch{Line: &line})
	require.ErrorIs(t, err, ErrAddressNotFound)
}

func TestRemoveAddress(t *testing.T) {
	svc := NewService(newMemoryBusinessRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBusinessRequest{
		Name: "Bluebook HQ",
		ShippingAddresses: []AddressInput{
			{ContactName: "Warehouse A"},
			{ContactName: "Warehouse B"},
		},
	})
	require.NoError(t, err)

	updated, err := svc.RemoveAddress(ctx, created.ID, AddressKindShipping, created.ShippingAddresses[0].ID)
	require.NoError(t, err)
	require.Len(t, updated.ShippingAddresses, 1)
	require.Equal(t, "Warehouse B", updated.ShippingAddresses[0].ContactName)
}

func TestProfileNumbersSurviveSoftDelete(t *testing.T) {
	svc := NewService(newMemoryBusinessRepo())
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateBusinessRequest{Name: "First"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, first.ID))

	second, err := svc.Create(ctx, CreateBusinessRequest{Name: "Second"})
	require.NoError(t, err)
	require.Equal(t, 2, second.Number)
}
