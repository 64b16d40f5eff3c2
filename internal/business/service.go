package business

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bluebook-erp/bluebook/internal/shared"
)

// Service applies business-profile rules.
type Service struct {
	repo Repository
}

// NewService constructs the business-profile service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// FetchAll returns a page of profiles.
func (s *Service) FetchAll(ctx context.Context, q shared.ListQuery) ([]MyBusinese, int, error) {
	return s.repo.FetchAll(ctx, q.Normalize("name"))
}

// Search returns a page of profiles matching the free-text query.
func (s *Service) Search(ctx context.Context, text string, q shared.ListQuery) ([]MyBusinese, int, error) {
	return s.repo.Search(ctx, text, q.Normalize("name"))
}

// FetchOne returns a single profile.
func (s *Service) FetchOne(ctx context.Context, id uuid.UUID) (MyBusinese, error) {
	return s.repo.FetchOne(ctx, id)
}

// Create checks uniqueness, assigns the next running number and persists the
// profile with its initial address books.
func (s *Service) Create(ctx context.Context, req CreateBusinessRequest) (MyBusinese, error) {
	if err := s.ensureUnique(ctx, req.Name, req.TaxNumber, uuid.Nil); err != nil {
		return MyBusinese{}, err
	}
	last, err := s.repo.LastNumber(ctx)
	if err != nil {
		return MyBusinese{}, err
	}
	now := time.Now()
	profile := MyBusinese{
		ID:                uuid.New(),
		Number:            last + 1,
		Name:              req.Name,
		TaxNumber:         req.TaxNumber,
		BusinessAddresses: newAddresses(req.BusinessAddresses, now),
		ShippingAddresses: newAddresses(req.ShippingAddresses, now),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return s.repo.Create(ctx, profile)
}

// Update applies the non-nil fields of the request onto the stored profile.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateBusinessRequest) (MyBusinese, error) {
	profile, err := s.repo.FetchOne(ctx, id)
	if err != nil {
		return MyBusinese{}, err
	}
	name := profile.Name
	if req.Name != nil {
		name = *req.Name
	}
	taxNumber := profile.TaxNumber
	if req.TaxNumber != nil {
		taxNumber = *req.TaxNumber
	}
	if err := s.ensureUnique(ctx, name, taxNumber, id); err != nil {
		return MyBusinese{}, err
	}
	profile.Name = name
	profile.TaxNumber = taxNumber
	profile.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, profile); err != nil {
		return MyBusinese{}, err
	}
	return profile, nil
}

// Exists reports whether the profile exists, for referential checks by
// other resources.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.FetchOne(ctx, id)
	return err
}

// Delete soft-deletes a profile.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// AddAddress appends a new address to the selected book.
func (s *Service) AddAddress(ctx context.Context, id uuid.UUID, kind AddressKind, req AddressInput) (MyBusinese, error) {
	profile, err := s.repo.FetchOne(ctx, id)
	if err != nil {
		return MyBusinese{}, err
	}
	now := time.Now()
	addr := newAddress(req, now)
	switch kind {
	case AddressKindShipping:
		profile.ShippingAddresses = append(profile.ShippingAddresses, addr)
	default:
		profile.BusinessAddresses = append(profile.BusinessAddresses, addr)
	}
	profile.UpdatedAt = now
	if err := s.repo.Update(ctx, profile); err != nil {
		return MyBusinese{}, err
	}
	return profile, nil
}

// UpdateAddress applies the non-nil fields of the patch onto one address of
// the selected book, located by its id.
func (s *Service) UpdateAddress(ctx context.Context, id uuid.UUID, kind AddressKind, addressID uuid.UUID, req AddressPatch) (MyBusinese, error) {
	profile, err := s.repo.FetchOne(ctx, id)
	if err != nil {
		return MyBusinese{}, err
	}
	book := profile.BusinessAddresses
	if kind == AddressKindShipping {
		book = profile.ShippingAddresses
	}
	idx := addressIndex(book, addressID)
	if idx < 0 {
		return MyBusinese{}, ErrAddressNotFound
	}
	addr := book[idx]
	if req.ContactName != nil {
		addr.ContactName = *req.ContactName
	}
	if req.Line != nil {
		addr.Line = *req.Line
	}
	if req.SubDistrict != nil {
		addr.SubDistrict = *req.SubDistrict
	}
	if req.District != nil {
		addr.District = *req.District
	}
	if req.Province != nil {
		addr.Province = *req.Province
	}
	if req.PostalCode != nil {
		addr.PostalCode = *req.PostalCode
	}
	if req.Phone != nil {
		addr.Phone = *req.Phone
	}
	addr.UpdatedAt = time.Now()
	book[idx] = addr
	profile.UpdatedAt = addr.UpdatedAt
	if err := s.repo.Update(ctx, profile); err != nil {
		return MyBusinese{}, err
	}
	return profile, nil
}

// RemoveAddress drops one address from the selected book.
func (s *Service) RemoveAddress(ctx context.Context, id uuid.UUID, kind AddressKind, addressID uuid.UUID) (MyBusinese, error) {
	profile, err := s.repo.FetchOne(ctx, id)
	if err != nil {
		return MyBusinese{}, err
	}
	book := profile.BusinessAddresses
	if kind == AddressKindShipping {
		book = profile.ShippingAddresses
	}
	idx := addressIndex(book, addressID)
	if idx < 0 {
		return MyBusinese{}, ErrAddressNotFound
	}
	book = append(book[:idx], book[idx+1:]...)
	if kind == AddressKindShipping {
		profile.ShippingAddresses = book
	} else {
		profile.BusinessAddresses = book
	}
	profile.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, profile); err != nil {
		return MyBusinese{}, err
	}
	return profile, nil
}

func (s *Service) ensureUnique(ctx context.Context, name, taxNumber string, self uuid.UUID) error {
	existing, err := s.repo.FindActiveByName(ctx, name)
	switch {
	case err == nil && existing.ID != self:
		return ErrDuplicateName
	case err != nil && !errors.Is(err, ErrNotFound):
		return err
	}
	if taxNumber == "" {
		return nil
	}
	existing, err = s.repo.FindActiveByTaxNumber(ctx, taxNumber)
	switch {
	case err == nil && existing.ID != self:
		return ErrDuplicateTaxNumber
	case err != nil && !errors.Is(err, ErrNotFound):
		return err
	}
	return nil
}

func newAddress(in AddressInput, now time.Time) Address {
	return Address{
		ID:          uuid.New(),
		ContactName: in.ContactName,
		Line:        in.Line,
		SubDistrict: in.SubDistrict,
		District:    in.District,
		Province:    in.Province,
		PostalCode:  in.PostalCode,
		Phone:       in.Phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newAddresses(in []AddressInput, now time.Time) []Address {
	out := make([]Address, 0, len(in))
	for _, a := range in {
		out = append(out, newAddress(a, now))
	}
	return out
}

func addressIndex(book []Address, id uuid.UUID) int {
	for i, a := range book {
		if a.ID == id {
			return i
		}
	}
	return -1
}
