package contacts

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bluebook-erp/bluebook/internal/platform/db"
	"github.com/bluebook-erp/bluebook/internal/shared"
)

// Repository persists contacts.
type Repository interface {
	FetchAll(ctx context.Context, q shared.ListQuery) ([]Contact, int, error)
	Search(ctx context.Context, text string, q shared.ListQuery) ([]Contact, int, error)
	FetchOne(ctx context.Context, id uuid.UUID) (Contact, error)
	FindActiveByName(ctx context.Context, name string) (Contact, error)
	FindActiveByTaxNumber(ctx context.Context, taxNumber string) (Contact, error)
	LastNumber(ctx context.Context) (int, error)
	Create(ctx context.Context, contact Contact) (Contact, error)
	Update(ctx context.Context, contact Contact) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a pgx-backed contact repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const contactColumns = `id, number, name, tax_number, contact_type, address, phone, email, note, created_at, updated_at, deleted_at`

func scanContact(row pgx.Row) (Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.Number, &c.Name, &c.TaxNumber, &c.ContactType, &c.Address, &c.Phone, &c.Email, &c.Note, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	return c, err
}

func (r *repository) FetchAll(ctx context.Context, q shared.ListQuery) ([]Contact, int, error) {
	where := ` WHERE 1=1`
	if !q.ShowDeleted {
		where += ` AND deleted_at IS NULL`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + contactColumns + ` FROM contacts` + where +
		` ORDER BY ` + sortOrder(q.SortBy, q.SortDir) +
		` LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, q.PerPage, q.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, c)
	}
	return contacts, total, rows.Err()
}

func (r *repository) Search(ctx context.Context, text string, q shared.ListQuery) ([]Contact, int, error) {
	where := ` WHERE (name ILIKE $1 OR tax_number ILIKE $1 OR email ILIKE $1 OR note ILIKE $1`
	args := []interface{}{"%" + text + "%"}
	// A query that parses as an integer also matches the running number exactly.
	if n, err := strconv.Atoi(text); err == nil {
		where += ` OR number = $2`
		args = append(args, n)
	}
	where += `)`
	if !q.ShowDeleted {
		where += ` AND deleted_at IS NULL`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitPos := len(args) + 1
	query := `SELECT ` + contactColumns + ` FROM contacts` + where +
		` ORDER BY ` + sortOrder(q.SortBy, q.SortDir) +
		` LIMIT $` + strconv.Itoa(limitPos) + ` OFFSET $` + strconv.Itoa(limitPos+1)
	args = append(args, q.PerPage, q.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, c)
	}
	return contacts, total, rows.Err()
}

func (r *repository) FetchOne(ctx context.Context, id uuid.UUID) (Contact, error) {
	c, err := scanContact(r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	return c, err
}

func (r *repository) FindActiveByName(ctx context.Context, name string) (Contact, error) {
	c, err := scanContact(r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE name = $1 AND deleted_at IS NULL`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	return c, err
}

func (r *repository) FindActiveByTaxNumber(ctx context.Context, taxNumber string) (Contact, error) {
	c, err := scanContact(r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE tax_number = $1 AND deleted_at IS NULL`, taxNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	return c, err
}

// LastNumber includes soft-deleted rows: running numbers never repeat even
// after a delete.
func (r *repository) LastNumber(ctx context.Context) (int, error) {
	var number int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(number), 0) FROM contacts`).Scan(&number)
	return number, err
}

func (r *repository) Create(ctx context.Context, contact Contact) (Contact, error) {
	query := `INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		contact.ID, contact.Number, contact.Name, contact.TaxNumber, contact.ContactType,
		contact.Address, contact.Phone, contact.Email, contact.Note,
		contact.CreatedAt, contact.UpdatedAt, contact.DeletedAt)
	if err != nil {
		return Contact{}, wrapWriteErr("create", err)
	}
	return contact, nil
}

func (r *repository) Update(ctx context.Context, contact Contact) error {
	query := `UPDATE contacts SET name = $2, tax_number = $3, contact_type = $4, address = $5,
		phone = $6, email = $7, note = $8, updated_at = $9 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		contact.ID, contact.Name, contact.TaxNumber, contact.ContactType,
		contact.Address, contact.Phone, contact.Email, contact.Note, contact.UpdatedAt)
	if err != nil {
		return wrapWriteErr("update", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	tag, err := r.db.Exec(ctx, `UPDATE contacts SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func wrapWriteErr(op string, err error) error {
	return db.WriteError("contacts: "+op, err)
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == shared.SortDesc {
		dir = "DESC"
	}
	switch sortBy {
	case "number":
		return "number " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}
