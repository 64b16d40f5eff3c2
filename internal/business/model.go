// Package business holds the caller's own business profiles, exposed on the
// wire as my_busineses for compatibility with the system this API replaces
// (typo included).
package business

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bluebook-erp/bluebook/internal/platform/httpx"
)

// MyBusinese is a business profile owning two address books.
type MyBusinese struct {
	ID                uuid.UUID
	Number            int
	Name              string
	TaxNumber         string
	BusinessAddresses []Address
	ShippingAddresses []Address
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

// Deleted reports whether the record is soft-deleted.
func (b MyBusinese) Deleted() bool {
	return b.DeletedAt != nil
}

// Address is a sub-document owned by a profile. The json tags double as the
// storage encoding (JSONB column on the parent row).
type Address struct {
	ID          uuid.UUID `json:"id"`
	ContactName string    `json:"contact_name"`
	Line        string    `json:"line"`
	SubDistrict string    `json:"sub_district"`
	District    string    `json:"district"`
	Province    string    `json:"province"`
	PostalCode  string    `json:"postal_code"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AddressKind selects which of the two address arrays an operation targets.
type AddressKind string

const (
	AddressKindBusiness AddressKind = "business"
	AddressKindShipping AddressKind = "shipping"
)

var (
	// ErrDuplicateName indicates an active profile already uses the name.
	ErrDuplicateName = fmt.Errorf("business: duplicate name: %w", httpx.ErrDuplicate)
	// ErrDuplicateTaxNumber indicates an active profile already uses the tax number.
	ErrDuplicateTaxNumber = fmt.Errorf("business: duplicate tax number: %w", httpx.ErrDuplicate)
	// ErrNotFound indicates the profile does not exist.
	ErrNotFound = fmt.Errorf("business: %w", httpx.ErrNotFound)
	// ErrAddressNotFound indicates the address does not exist within the profile.
	ErrAddressNotFound = fmt.Errorf("business: address: %w", httpx.ErrNotFound)
)
