package contacts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bluebook-erp/bluebook/internal/shared"
)

// Service applies contact business rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService constructs the contact service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// FetchAll returns a page of contacts.
func (s *Service) FetchAll(ctx context.Context, q shared.ListQuery) ([]Contact, int, error) {
	return s.repo.FetchAll(ctx, q.Normalize("name"))
}

// Search returns a page of contacts matching the free-text query.
func (s *Service) Search(ctx context.Context, text string, q shared.ListQuery) ([]Contact, int, error) {
	return s.repo.Search(ctx, text, q.Normalize("name"))
}

// FetchOne returns a single contact by ID.
func (s *Service) FetchOne(ctx context.Context, id uuid.UUID) (Contact, error) {
	return s.repo.FetchOne(ctx, id)
}

// Create checks name and tax-number uniqueness among active records, assigns
// the next running number and persists the contact.
//
// The duplicate check and the insert are separate calls; two concurrent
// creates can still both pass the check. See the numbering integrity job.
func (s *Service) Create(ctx context.Context, req CreateContactRequest) (Contact, error) {
	if err := s.ensureUnique(ctx, req.Name, req.TaxNumber, uuid.Nil); err != nil {
		return Contact{}, err
	}
	last, err := s.repo.LastNumber(ctx)
	if err != nil {
		return Contact{}, err
	}
	now := time.Now()
	contact := Contact{
		ID:          uuid.New(),
		Number:      last + 1,
		Name:        req.Name,
		TaxNumber:   req.TaxNumber,
		ContactType: ContactType(req.ContactType),
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Note:        req.Note,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.repo.Create(ctx, contact)
}

// Update applies the non-nil fields of the request onto the stored contact.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateContactRequest) (Contact, error) {
	contact, err := s.repo.FetchOne(ctx, id)
	if err != nil {
		return Contact{}, err
	}
	name := contact.Name
	if req.Name != nil {
		name = *req.Name
	}
	taxNumber := contact.TaxNumber
	if req.TaxNumber != nil {
		taxNumber = *req.TaxNumber
	}
	if err := s.ensureUnique(ctx, name, taxNumber, id); err != nil {
		return Contact{}, err
	}
	contact.Name = name
	contact.TaxNumber = taxNumber
	if req.ContactType != nil {
		contact.ContactType = ContactType(*req.ContactType)
	}
	if req.Address != nil {
		contact.Address = *req.Address
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Note != nil {
		contact.Note = *req.Note
	}
	contact.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, contact); err != nil {
		return Contact{}, err
	}
	return contact, nil
}

// Exists reports whether the contact exists, for referential checks by
// other resources.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.FetchOne(ctx, id)
	return err
}

// Delete soft-deletes a contact.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// ensureUnique rejects names and tax numbers already used by a different
// active contact. self is the record being updated, uuid.Nil on create.
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
