// Package categories serves both product and service categories. The two
// resources are identical in shape and behavior; they differ only in the
// table they live in and the path they are mounted on.
package categories

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bluebook-erp/bluebook/internal/platform/httpx"
)

// Kind selects which category collection a repository serves.
type Kind string

const (
	KindProduct Kind = "product_categories"
	KindService Kind = "service_categories"
)

// Category groups products or services.
type Category struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Deleted reports whether the record is soft-deleted.
func (c Category) Deleted() bool {
	return c.DeletedAt != nil
}

var (
	// ErrDuplicateName indicates an active category already uses the name.
	ErrDuplicateName = fmt.Errorf("categories: duplicate name: %w", httpx.ErrDuplicate)
	// ErrNotFound indicates the category does not exist.
	ErrNotFound = fmt.Errorf("categories: %w", httpx.ErrNotFound)
)
