package categories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bluebook-erp/bluebook/internal/platform/db"
	"github.com/bluebook-erp/bluebook/internal/shared"
)

// Repository persists one category collection.
type Repository interface {
	FetchAll(ctx context.Context, q shared.ListQuery) ([]Category, int, error)
	Search(ctx context.Context, text string, q shared.ListQuery) ([]Category, int, error)
	FetchOne(ctx context.Context, id uuid.UUID) (Category, error)
	FindActiveByName(ctx context.Context, name string) (Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, category Category) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db    *pgxpool.Pool
	table string
}

// NewRepository constructs a category repository for the given kind. The kind
// constant is the table name, so it never reaches SQL from user input.
func NewRepository(pool *pgxpool.Pool, kind Kind) Repository {
	return &repository{db: pool, table: string(kind)}
}

const categoryColumns = `id, name, created_at, updated_at, deleted_at`

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	return c, err
}

func (r *repository) FetchAll(ctx context.Context, q shared.ListQuery) ([]Category, int, error) {
	where := ` WHERE 1=1`
	if !q.ShowDeleted {
		where += ` AND deleted_at IS NULL`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM `+r.table+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + categoryColumns + ` FROM ` + r.table + where +
		` ORDER BY ` + sortOrder(q.SortBy, q.SortDir) + ` LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, q.PerPage, q.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		categories = append(categories, c)
	}
	return categories, total, rows.Err()
}

func (r *repository) Search(ctx context.Context, text string, q shared.ListQuery) ([]Category, int, error) {
	where := ` WHERE name ILIKE $1`
	if !q.ShowDeleted {
		where += ` AND deleted_at IS NULL`
	}
	pattern := "%" + text + "%"

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM `+r.table+where, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + categoryColumns + ` FROM ` + r.table + where +
		` ORDER BY ` + sortOrder(q.SortBy, q.SortDir) + ` LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, pattern, q.PerPage, q.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		categories = append(categories, c)
	}
	return categories, total, rows.Err()
}

func (r *repository) FetchOne(ctx context.Context, id uuid.UUID) (Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM `+r.table+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	return c, err
}

func (r *repository) FindActiveByName(ctx context.Context, name string) (Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM `+r.table+` WHERE name = $1 AND deleted_at IS NULL`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	query := `INSERT INTO ` + r.table + ` (` + categoryColumns + `) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Exec(ctx, query, category.ID, category.Name, category.CreatedAt, category.UpdatedAt, category.DeletedAt); err != nil {
		return Category{}, db.WriteError("categories: create", err)
	}
	return category, nil
}

func (r *repository) Update(ctx context.Context, category Category) error {
	tag, err := r.db.Exec(ctx, `UPDATE `+r.table+` SET name = $2, updated_at = $3 WHERE id = $1`, category.ID, category.Name, category.UpdatedAt)
	if err != nil {
		return db.WriteError("categories: update", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	tag, err := r.db.Exec(ctx, `UPDATE `+r.table+` SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, now)
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
	if sortBy == "created_at" {
		return "created_at " + dir
	}
	return "name " + dir
}
