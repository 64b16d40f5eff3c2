package contacts

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bluebook-erp/bluebook/internal/platform/httpx"
)

// ContactType distinguishes how a contact participates in trade.
type ContactType string

const (
	ContactTypeSupplier ContactType = "supplier"
	ContactTypeCustomer ContactType = "customer"
	ContactTypeBoth     ContactType = "both"
)

// Contact is a supplier or customer master record.
type Contact struct {
	ID          uuid.UUID
	Number      int
	Name        string
	TaxNumber   string
	ContactType ContactType
	Address     string
	Phone       string
	Email       string
	Note        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Deleted reports whether the record is soft-deleted.
func (c Contact) Deleted() bool {
	return c.DeletedAt != nil
}

var (
	// ErrDuplicateName indicates an active contact already uses the name.
	ErrDuplicateName = fmt.Errorf("contacts: duplicate name: %w", httpx.ErrDuplicate)
	// ErrDuplicateTaxNumber indicates an active contact already uses the tax number.
	ErrDuplicateTaxNumber = fmt.Errorf("contacts: duplicate tax number: %w", httpx.ErrDuplicate)
	// ErrNotFound indicates the contact does not exist.
	ErrNotFound = fmt.Errorf("contacts: %w", httpx.ErrNotFound)
)
