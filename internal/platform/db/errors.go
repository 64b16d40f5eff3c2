package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bluebook-erp/bluebook/internal/platform/httpx"
)

const uniqueViolation = "23505"

// WriteError classifies a failed INSERT/UPDATE. Unique-index violations become
// duplicate conflicts (a backstop behind the explicit duplicate checks, which
// are not atomic with the write); anything else is a generic persistence
// failure.
func WriteError(prefix string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", prefix, httpx.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", prefix, httpx.ErrInsertFailed)
}
