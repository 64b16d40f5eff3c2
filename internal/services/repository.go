package services

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

// Repository persists catalog services.
type Repository interface {
	FetchAll(ctx context.Context, q shared.ListQuery) ([]ServiceItem, int, error)
	Search(ctx context.Context, text string, q shared.ListQuery) ([]ServiceItem, int, error)
	FetchOne(ctx context.Context, id uuid.UUID) (ServiceItem, error)
	FindActiveByName(ctx context.Context, name string) (ServiceItem, error)
	LastNumber(ctx context.Context) (int, error)
	Create(ctx context.Context, item ServiceItem) (ServiceItem, error)
	Update(ctx context.Context, item ServiceItem) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a pgx-backed service repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const serviceColumns = `id, number, name, description, price, category_id, created_at, updated_at, deleted_at`

func scanService(row pgx.Row) (ServiceItem, error) {
	var s ServiceItem
	err := row.Scan(&s.ID, &s.Number, &s.Name, &s.Description, &s.Price, &s.CategoryID, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt)
	return s, err
}

func (r *repository) FetchAll(ctx context.Context, q shared.ListQuery) ([]ServiceItem, int, error) {
	where := ` WHERE 1=1`
	if !q.ShowDeleted {
		where += ` AND deleted_at IS NULL`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM services`+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + serviceColumns + ` FROM services` + where +
		` ORDER BY ` + sortOrder(q.SortBy, q.SortDir) + ` LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, q.PerPage, q.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectServices(rows, total)
}

func (r *repository) Search(ctx context.Context, text string, q shared.ListQuery) ([]ServiceItem, int, error) {
	where := ` WHERE (name ILIKE $1 OR description ILIKE $1`
	args := []interface{}{"%" + text + "%"}
	if n, err := strconv.Atoi(text); err == nil {
		where += ` OR number = $2`
		args = append(args, n)
	}
	where += `)`
	if !q.ShowDeleted {
		where += ` AND deleted_at IS NULL`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM services`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitPos := len(args) + 1
	query := `SELECT ` + serviceColumns + ` FROM services` + where +
		` ORDER BY ` + sortOrder(q.SortBy, q.SortDir) +
		` LIMIT $` + strconv.Itoa(limitPos) + ` OFFSET $` + strconv.Itoa(limitPos+1)
	args = append(args, q.PerPage, q.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectServices(rows, total)
}

func collectServices(rows pgx.Rows, total int) ([]ServiceItem, int, error) {
	var items []ServiceItem
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *repository) FetchOne(ctx context.Context, id uuid.UUID) (ServiceItem, error) {
	s, err := scanService(r.db.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return ServiceItem{}, ErrNotFound
	}
	return s, err
}

func (r *repository) FindActiveByName(ctx context.Context, name string) (ServiceItem, error) {
	s, err := scanService(r.db.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE name = $1 AND deleted_at IS NULL`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return ServiceItem{}, ErrNotFound
	}
	return s, err
}

// LastNumber includes soft-deleted rows so numbers never repeat.
func (r *repository) LastNumber(ctx context.Context) (int, error) {
	var number int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(number), 0) FROM services`).Scan(&number)
	return number, err
}

func (r *repository) Create(ctx context.Context, item ServiceItem) (ServiceItem, error) {
	query := `INSERT INTO services (` + serviceColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		item.ID, item.Number, item.Name, item.Description, item.Price, item.CategoryID,
		item.CreatedAt, item.UpdatedAt, item.DeletedAt)
	if err != nil {
		return ServiceItem{}, db.WriteError("services: create", err)
	}
	return item, nil
}

func (r *repository) Update(ctx context.Context, item ServiceItem) error {
	query := `UPDATE services SET name = $2, description = $3, price = $4, category_id = $5, updated_at = $6 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, item.ID, item.Name, item.Description, item.Price, item.CategoryID, item.UpdatedAt)
	if err != nil {
		return db.WriteError("services: update", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	tag, err := r.db.Exec(ctx, `UPDATE services SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == shared.SortDesc {
		dir = "DESC"
	}
	switch sortBy {
	case "number":
		return "number " + dir
	case "price":
		return "price " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}
