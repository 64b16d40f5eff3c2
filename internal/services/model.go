// Package services holds the catalog of sellable services. The entity is
// named ServiceItem so the business layer can keep the Service name used
// throughout the codebase.
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bluebook-erp/bluebook/internal/platform/httpx"
)

// ServiceItem is a catalog service record.
type ServiceItem struct {
	ID          uuid.UUID
	Number      int
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Deleted reports whether the record is soft-deleted.
func (s ServiceItem) Deleted() bool {
	return s.DeletedAt != nil
}

var (
	// ErrDuplicateName indicates an active service already uses the name.
	ErrDuplicateName = fmt.Errorf("services: duplicate name: %w", httpx.ErrDuplicate)
	// ErrNotFound indicates the service does not exist.
	ErrNotFound = fmt.Errorf("services: %w", httpx.ErrNotFound)
	// ErrCategoryNotFound indicates the referenced category does not exist.
	ErrCategoryNotFound = fmt.Errorf("services: category: %w", httpx.ErrNotFound)
)
